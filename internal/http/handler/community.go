package handler

import (
	"encoding/json"
	"net/http"

	"ritu/internal/auth"
	"ritu/internal/community"

	"github.com/go-chi/chi/v5"
)

type CommunityHandler struct {
	Svc *community.Service
}

func (h *CommunityHandler) Feed(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	posts, err := h.Svc.GetFeed(r.Context(), uid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": posts})
}

func (h *CommunityHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var in community.PostCreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "invalid body"})
		return
	}

	post, err := h.Svc.CreatePost(r.Context(), uid, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

func (h *CommunityHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	liked, like, err := h.Svc.ToggleLike(r.Context(), uid, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	resp := map[string]any{"liked": liked}
	if like != nil {
		resp["like"] = like
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *CommunityHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var in community.CommentCreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "invalid body"})
		return
	}

	comment, err := h.Svc.AddComment(r.Context(), uid, chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

func (h *CommunityHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.Svc.ListComments(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": comments})
}

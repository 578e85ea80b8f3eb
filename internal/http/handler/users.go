package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"ritu/internal/auth"
	"ritu/internal/user"
)

type UserHandler struct {
	Users user.Repository
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	u, err := h.Users.GetByID(r.Context(), uid)
	if err != nil {
		writeError(w, err)
		return
	}
	if u == nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "user not found", "code": "not_found"})
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// UpdateMe patches the caller's profile, creating the record on first
// contact so a fresh login needs no separate registration step.
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var in user.UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "invalid body"})
		return
	}
	if in.DisplayName != nil && strings.TrimSpace(*in.DisplayName) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "displayName must not be empty"})
		return
	}

	updated, err := h.Users.Update(r.Context(), uid, in)
	if err != nil {
		writeError(w, err)
		return
	}
	if updated == nil {
		created := user.User{ID: uid}
		if in.DisplayName != nil {
			created.DisplayName = strings.TrimSpace(*in.DisplayName)
		}
		if in.PhotoURL != nil && *in.PhotoURL != "" {
			created.PhotoURL = in.PhotoURL
		}
		if in.NotificationSettings != nil {
			created.NotificationSettings = *in.NotificationSettings
		}
		if in.IsPremium != nil {
			created.IsPremium = *in.IsPremium
		}
		updated, err = h.Users.Create(r.Context(), created)
		if err != nil {
			writeError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, updated)
}

package handler

import (
	"net/http"

	"ritu/internal/auth"
	"ritu/internal/flags"
)

type FlagsHandler struct {
	Svc *flags.Service
}

func (h *FlagsHandler) Flags(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	writeJSON(w, http.StatusOK, h.Svc.Flags(uid))
}

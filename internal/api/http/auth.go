package http

import (
	"net/http"

	"eventrent-backend/internal/service"
)

type signUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *handler) signUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.svc.Auth.SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (h *handler) signIn(w http.ResponseWriter, r *http.Request) {
	var creds service.Credentials
	if err := h.decodeJSON(w, r, &creds); err != nil {
		writeError(w, r, err)
		return
	}
	session, err := h.svc.Auth.SignIn(r.Context(), creds)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (h *handler) signOut(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())
	if err := h.svc.Auth.SignOut(r.Context(), claims.UserID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

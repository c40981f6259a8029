package web

import (
	"encoding/json"
	"net/http"

	"github.com/hyeonwoo/lessondesk/internal/validate"
)

type credentials struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

// SignUp accepts a registration request. A 202 only means the collaborator
// accepted it; the session transition, if any, arrives through the
// coordinator's subscription and is visible on GET /auth/session.
func SignUp(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var c credentials
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "malformed body")
			return
		}
		if err := validate.Email(c.Email); err != nil {
			writeServiceError(w, err)
			return
		}
		if err := validate.Password(c.Password); err != nil {
			writeServiceError(w, err)
			return
		}

		if err := h.coordinator.SignUp(r.Context(), c.Email, c.Password, c.PasswordConfirm); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
	}
}

func SignIn(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var c credentials
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "malformed body")
			return
		}

		if err := h.coordinator.SignIn(r.Context(), c.Email, c.Password); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
	}
}

func SignOut(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.coordinator.SignOut(r.Context()); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
	}
}

// GetSession reports the coordinator's current session snapshot; 204 when
// nobody is signed in.
func GetSession(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := h.coordinator.Current()
		if s == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		// The refresh token never leaves the process.
		s.RefreshToken = ""
		writeJSON(w, http.StatusOK, s)
	}
}

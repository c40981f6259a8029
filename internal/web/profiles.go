package web

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func ListProfiles(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profiles, err := h.coordinator.Profiles(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, profiles)
	}
}

func CreateProfile(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Nickname string `json:"nickname"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "malformed body")
			return
		}

		p, err := h.coordinator.CreateProfile(r.Context(), body.Nickname)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, p)
	}
}

// MyProfile resolves (creating on first use) the profile of the current
// session's user.
func MyProfile(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := h.coordinator.ResolveProfile(r.Context(), h.coordinator.Current())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func ClaimProfile(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "invalid id")
			return
		}

		p, err := h.coordinator.ClaimProfile(r.Context(), h.coordinator.Current(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

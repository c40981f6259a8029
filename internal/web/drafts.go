package web

import (
	"encoding/json"
	"net/http"

	"github.com/hyeonwoo/lessondesk/internal/domain"
)

func GetDraft(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := h.coordinator.ResolveProfile(r.Context(), h.coordinator.Current())
		if err != nil {
			writeServiceError(w, err)
			return
		}

		draft, err := h.drafts.Load(r.Context(), profile.ID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if draft == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, http.StatusOK, draft)
	}
}

func PutDraft(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var draft domain.LessonDraft
		if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "malformed body")
			return
		}

		profile, err := h.coordinator.ResolveProfile(r.Context(), h.coordinator.Current())
		if err != nil {
			writeServiceError(w, err)
			return
		}

		if err := h.drafts.Save(r.Context(), profile.ID, draft); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func DeleteDraft(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := h.coordinator.ResolveProfile(r.Context(), h.coordinator.Current())
		if err != nil {
			writeServiceError(w, err)
			return
		}

		if err := h.drafts.Clear(r.Context(), profile.ID); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

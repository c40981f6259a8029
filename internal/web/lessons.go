package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/hyeonwoo/lessondesk/internal/domain"
	"github.com/hyeonwoo/lessondesk/internal/lesson"
)

func ListLessons(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lessons, err := h.lessons.List(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, lessons)
	}
}

// SubmitLesson runs the composite write. On a partial write the response
// still carries the parent key, and the missing children are handed to the
// repair queue.
func SubmitLesson(h *Handler) http.HandlerFunc {
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

		created, err := h.submitter.Submit(r.Context(), draft, profile)
		if err != nil {
			var partial *lesson.PartialWriteError
			if errors.As(err, &partial) {
				if qErr := h.repairs.EnqueueChildRepair(partial.ParentKey, partial.Discounts, partial.Contacts); qErr != nil {
					log.Error().Err(qErr).Int64("no", partial.ParentKey).
						Msg("failed to enqueue child repair; manual reconciliation needed")
				}
			}
			writeServiceError(w, err)
			return
		}

		// The submitted draft is no longer worth keeping.
		if err := h.drafts.Clear(r.Context(), profile.ID); err != nil {
			log.Warn().Err(err).Msg("failed to clear stored draft")
		}

		writeJSON(w, http.StatusCreated, created)
	}
}

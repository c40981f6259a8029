package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/hyeonwoo/lessondesk/internal/lesson"
	"github.com/hyeonwoo/lessondesk/internal/remote"
	"github.com/hyeonwoo/lessondesk/internal/session"
	"github.com/hyeonwoo/lessondesk/internal/validate"
)

// errorResponse is the unified error envelope. For partial writes it carries
// the parent key and the failed steps, because the caller must be able to
// tell that data is partially persisted.
type errorResponse struct {
	Code        string   `json:"code"`
	Message     string   `json:"message"`
	ParentKey   int64    `json:"parent_key,omitempty"`
	FailedSteps []string `json:"failed_steps,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to write response")
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// writeServiceError maps the error taxonomy onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	var invalid *validate.Error
	if errors.As(err, &invalid) {
		writeError(w, http.StatusBadRequest, "validation", invalid.Error())
		return
	}

	var auth *remote.AuthError
	if errors.As(err, &auth) {
		status := auth.Status
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		writeError(w, status, "auth", auth.Message)
		return
	}

	if errors.Is(err, session.ErrNoSession) || errors.Is(err, lesson.ErrUnauthenticated) {
		writeError(w, http.StatusUnauthorized, "unauthenticated", err.Error())
		return
	}

	if errors.Is(err, session.ErrProfileTaken) {
		writeError(w, http.StatusConflict, "conflict", err.Error())
		return
	}

	var parent *lesson.ParentInsertError
	if errors.As(err, &parent) {
		writeError(w, http.StatusBadGateway, "parent_insert", parent.Error())
		return
	}

	var partial *lesson.PartialWriteError
	if errors.As(err, &partial) {
		writeJSON(w, http.StatusBadGateway, errorResponse{
			Code:        "partial_write",
			Message:     partial.Error(),
			ParentKey:   partial.ParentKey,
			FailedSteps: partial.FailedSteps,
		})
		return
	}

	if errors.Is(err, remote.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found", err.Error())
		return
	}

	log.Error().Err(err).Msg("unhandled service error")
	writeError(w, http.StatusInternalServerError, "internal", "internal error")
}

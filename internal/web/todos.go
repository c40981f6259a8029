package web

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func todoID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

func ListTodos(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		todos, err := h.todos.Fetch(r.Context(), h.coordinator.Current())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, todos)
	}
}

func AddTodo(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "malformed body")
			return
		}

		t, err := h.todos.Add(r.Context(), h.coordinator.Current(), body.Text)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, t)
	}
}

func ToggleTodo(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := todoID(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "bad_request", "invalid id")
			return
		}

		t, err := h.todos.Toggle(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, t)
	}
}

func EditTodo(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := todoID(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "bad_request", "invalid id")
			return
		}

		var body struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "malformed body")
			return
		}

		t, err := h.todos.EditText(r.Context(), id, body.Text)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, t)
	}
}

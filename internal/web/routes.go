package web

import (
	"github.com/go-chi/chi/v5"
)

func (h *Handler) Mount(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", SignUp(h))
		r.Post("/login", SignIn(h))
		r.Post("/logout", SignOut(h))
		r.Get("/session", GetSession(h))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/todos", func(r chi.Router) {
			r.Get("/", ListTodos(h))
			r.Post("/", AddTodo(h))
			r.Post("/{id}/toggle", ToggleTodo(h))
			r.Put("/{id}", EditTodo(h))
		})

		r.Route("/profiles", func(r chi.Router) {
			r.Get("/", ListProfiles(h))
			r.Post("/", CreateProfile(h))
			r.Get("/me", MyProfile(h))
			r.Post("/{id}/claim", ClaimProfile(h))
		})

		r.Route("/lessons", func(r chi.Router) {
			r.Get("/", ListLessons(h))
			r.Post("/", SubmitLesson(h))
		})

		r.Route("/draft", func(r chi.Router) {
			r.Get("/", GetDraft(h))
			r.Put("/", PutDraft(h))
			r.Delete("/", DeleteDraft(h))
		})
	})
}

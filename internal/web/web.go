// Package web is the JSON surface of the application. Handlers read the
// current session from the coordinator; they never hold session state of
// their own.
package web

import (
	"github.com/hyeonwoo/lessondesk/internal/config"
	"github.com/hyeonwoo/lessondesk/internal/draftstore"
	"github.com/hyeonwoo/lessondesk/internal/lesson"
	"github.com/hyeonwoo/lessondesk/internal/queue"
	"github.com/hyeonwoo/lessondesk/internal/session"
	"github.com/hyeonwoo/lessondesk/internal/todo"
)

type Handler struct {
	Config      *config.Configuration
	coordinator *session.Coordinator
	todos       *todo.Service
	lessons     *lesson.Service
	submitter   *lesson.Submitter
	drafts      *draftstore.Store
	repairs     queue.RepairQueue
}

func New(
	config *config.Configuration,
	coordinator *session.Coordinator,
	todos *todo.Service,
	lessons *lesson.Service,
	submitter *lesson.Submitter,
	drafts *draftstore.Store,
	repairs queue.RepairQueue,
) Handler {
	return Handler{
		Config:      config,
		coordinator: coordinator,
		todos:       todos,
		lessons:     lessons,
		submitter:   submitter,
		drafts:      drafts,
		repairs:     repairs,
	}
}

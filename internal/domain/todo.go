package domain

import (
	"time"

	"github.com/google/uuid"
)

// Todo is owned by the user whose session created it. CreatedAt orders the
// list; ids are server-assigned.
type Todo struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

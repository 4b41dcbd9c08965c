package models

import (
	"time"

	"github.com/google/uuid"
)

type Conversation struct {
	ID        uuid.UUID `db:"id"`
	UserID    uuid.UUID `db:"user_id"`
	Title     string    `db:"title"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// ConversationSummary is a conversation row joined with message aggregates.
type ConversationSummary struct {
	Conversation
	MessageCount  int
	LastMessageAt time.Time
}

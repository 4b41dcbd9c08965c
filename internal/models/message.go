package models

import (
	"time"

	"github.com/google/uuid"
)

type MessageType string

const (
	MessageTypeText  MessageType = "text"
	MessageTypeVoice MessageType = "voice"
	MessageTypeImage MessageType = "image"
)

type Message struct {
	ID             uuid.UUID   `db:"id"`
	ConversationID uuid.UUID   `db:"conversation_id"`
	Content        string      `db:"content"`
	MessageType    MessageType `db:"message_type"`
	IsUser         bool        `db:"is_user"`
	Timestamp      time.Time   `db:"timestamp"`
}

package dto

type ChatMessageRequest struct {
	Content        string `json:"content"`
	MessageType    string `json:"message_type,omitempty"`
	ConversationID string `json:"conversation_id,omitempty"`
}

type ChatResponse struct {
	MessageID      string `json:"message_id"`
	ConversationID string `json:"conversation_id"`
	Content        string `json:"content"`
	MessageType    string `json:"message_type"`
	Timestamp      string `json:"timestamp"`
	IsUser         bool   `json:"is_user"`
}

type ConversationResponse struct {
	ConversationID string `json:"conversation_id"`
	Title          string `json:"title"`
	CreatedAt      string `json:"created_at"`
	LastMessageAt  string `json:"last_message_at"`
	MessageCount   int    `json:"message_count"`
}

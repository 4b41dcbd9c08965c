package service

import (
	"sync"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Turn is one message in a conversation's prompt window.
type Turn struct {
	Role    string
	Content string
}

// ConversationHistory keeps a per-conversation prompt window. Histories are
// keyed by conversation ID and bounded at write time: each conversation keeps
// only its last maxExchanges user/assistant exchanges, and the least recently
// used conversations are evicted once maxSessions is reached.
type ConversationHistory struct {
	mu           sync.Mutex
	cache        *lru.Cache[uuid.UUID, []Turn]
	maxExchanges int
}

func NewConversationHistory(maxSessions, maxExchanges int) (*ConversationHistory, error) {
	cache, err := lru.New[uuid.UUID, []Turn](maxSessions)
	if err != nil {
		return nil, err
	}
	return &ConversationHistory{
		cache:        cache,
		maxExchanges: maxExchanges,
	}, nil
}

// Append records one completed exchange and trims the window in place.
func (h *ConversationHistory) Append(conversationID uuid.UUID, userMessage, assistantMessage string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	turns, _ := h.cache.Get(conversationID)
	turns = append(turns,
		Turn{Role: "user", Content: userMessage},
		Turn{Role: "assistant", Content: assistantMessage},
	)
	if max := h.maxExchanges * 2; len(turns) > max {
		turns = append([]Turn(nil), turns[len(turns)-max:]...)
	}
	h.cache.Add(conversationID, turns)
}

// Get returns the current window for a conversation, oldest first.
func (h *ConversationHistory) Get(conversationID uuid.UUID) []Turn {
	h.mu.Lock()
	defer h.mu.Unlock()

	turns, _ := h.cache.Get(conversationID)
	return turns
}

// Reset drops a conversation's window, e.g. when the conversation is deleted.
func (h *ConversationHistory) Reset(conversationID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.cache.Remove(conversationID)
}

// Len reports how many conversations currently hold a window.
func (h *ConversationHistory) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.cache.Len()
}

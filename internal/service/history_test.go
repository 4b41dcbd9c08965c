package service

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversationHistoryAppendAndGet(t *testing.T) {
	history, err := NewConversationHistory(8, 10)
	require.NoError(t, err)

	id := uuid.New()
	history.Append(id, "hello", "hi, how can I help?")
	history.Append(id, "what time is it?", "it is noon")

	turns := history.Get(id)
	require.Len(t, turns, 4)
	assert.Equal(t, Turn{Role: "user", Content: "hello"}, turns[0])
	assert.Equal(t, Turn{Role: "assistant", Content: "hi, how can I help?"}, turns[1])
	assert.Equal(t, Turn{Role: "user", Content: "what time is it?"}, turns[2])
}

func TestConversationHistoryIsolatedPerConversation(t *testing.T) {
	history, err := NewConversationHistory(8, 10)
	require.NoError(t, err)

	first, second := uuid.New(), uuid.New()
	history.Append(first, "about my pills", "take them at 8am")
	history.Append(second, "about the weather", "sunny today")

	require.Len(t, history.Get(first), 2)
	assert.Equal(t, "about my pills", history.Get(first)[0].Content)
	assert.Equal(t, "about the weather", history.Get(second)[0].Content)
}

func TestConversationHistoryTrimsAtWriteTime(t *testing.T) {
	const maxExchanges = 10
	history, err := NewConversationHistory(8, maxExchanges)
	require.NoError(t, err)

	id := uuid.New()
	for i := 0; i < 15; i++ {
		history.Append(id, fmt.Sprintf("question %d", i), fmt.Sprintf("answer %d", i))
	}

	turns := history.Get(id)
	require.Len(t, turns, maxExchanges*2)
	// The oldest five exchanges are gone; the window starts at exchange 5.
	assert.Equal(t, "question 5", turns[0].Content)
	assert.Equal(t, "answer 14", turns[len(turns)-1].Content)
}

func TestConversationHistoryEvictsLeastRecentlyUsed(t *testing.T) {
	const maxSessions = 4
	history, err := NewConversationHistory(maxSessions, 10)
	require.NoError(t, err)

	oldest := uuid.New()
	history.Append(oldest, "first", "reply")
	for i := 0; i < maxSessions; i++ {
		history.Append(uuid.New(), "filler", "reply")
	}

	assert.Equal(t, maxSessions, history.Len())
	assert.Empty(t, history.Get(oldest))
}

func TestConversationHistoryReset(t *testing.T) {
	history, err := NewConversationHistory(8, 10)
	require.NoError(t, err)

	id := uuid.New()
	history.Append(id, "hello", "hi")
	history.Reset(id)

	assert.Empty(t, history.Get(id))
	assert.Equal(t, 0, history.Len())
}

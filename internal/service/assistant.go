package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const (
	assistantMaxTokens   = 500
	assistantTemperature = 0.7

	// Shown to the user whenever the completion call fails for good.
	apologyMessage = "I apologize, but I'm having trouble processing your request right now. Please try again later."

	systemPrompt = `You are ElderTech, a compassionate AI voice assistant designed specifically for elderly users. Your role is to provide helpful, supportive, and easy-to-understand assistance.

Key principles:
1. Speak clearly and use simple language
2. Be patient and understanding
3. Provide practical, actionable advice
4. Show empathy and emotional support
5. Help with daily tasks, health reminders, and social connection
6. Never give medical advice - always recommend consulting healthcare professionals
7. Keep responses concise but warm

You can help with:
- Daily reminders and scheduling
- Health and wellness tips
- Social connection and communication
- Technology assistance
- Emergency contact information
- General questions and conversation

Always prioritize safety and well-being.`
)

// ChatCompleter is the slice of the AI gateway the assistant needs.
type ChatCompleter interface {
	ChatComplete(ctx context.Context, messages []openai.ChatCompletionMessage, maxTokens int, temperature float32) (string, error)
}

// Assistant turns user messages into responses, carrying a bounded
// per-conversation prompt window.
type Assistant struct {
	ai      ChatCompleter
	history *ConversationHistory
	logger  *zap.Logger
}

func NewAssistant(ai ChatCompleter, history *ConversationHistory, logger *zap.Logger) *Assistant {
	return &Assistant{
		ai:      ai,
		history: history,
		logger:  logger,
	}
}

// Respond builds the prompt (system prompt, trailing window, user turn) and
// completes it. On failure it returns a fixed apology rather than an error:
// chat must degrade gracefully, never crash in the user's face. Failed
// exchanges are not recorded in the window.
func (a *Assistant) Respond(ctx context.Context, conversationID uuid.UUID, userMessage string) string {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
	}
	for _, turn := range a.history.Get(conversationID) {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    turn.Role,
			Content: turn.Content,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userMessage,
	})

	response, err := a.ai.ChatComplete(ctx, messages, assistantMaxTokens, assistantTemperature)
	if err != nil {
		a.logger.Error("Assistant completion failed",
			zap.String("conversation_id", conversationID.String()),
			zap.Error(err),
		)
		return apologyMessage
	}

	a.history.Append(conversationID, userMessage, response)
	return response
}

// ResetConversation clears the prompt window for one conversation.
func (a *Assistant) ResetConversation(conversationID uuid.UUID) {
	a.history.Reset(conversationID)
}

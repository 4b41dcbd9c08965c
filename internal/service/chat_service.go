package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eldertech/internal/dto"
	"eldertech/internal/models"
	"eldertech/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrNotConversationOwner = errors.New("conversation belongs to another user")
	ErrInvalidMessageType   = errors.New("invalid message type")
)

const conversationTitleLimit = 50

type ChatService struct {
	convRepo  *repository.ConversationRepository
	msgRepo   *repository.MessageRepository
	assistant *Assistant
	logger    *zap.Logger
}

func NewChatService(
	convRepo *repository.ConversationRepository,
	msgRepo *repository.MessageRepository,
	assistant *Assistant,
	logger *zap.Logger,
) *ChatService {
	return &ChatService{
		convRepo:  convRepo,
		msgRepo:   msgRepo,
		assistant: assistant,
		logger:    logger,
	}
}

// SendMessage persists the user's message (creating the conversation on its
// first message), asks the assistant for a reply and persists that too. The
// assistant never fails hard: on gateway errors the stored reply is the
// apology message.
func (s *ChatService) SendMessage(ctx context.Context, userID uuid.UUID, req *dto.ChatMessageRequest) (*dto.ChatResponse, error) {
	messageType := models.MessageType(req.MessageType)
	if messageType == "" {
		messageType = models.MessageTypeText
	}
	switch messageType {
	case models.MessageTypeText, models.MessageTypeVoice, models.MessageTypeImage:
	default:
		return nil, ErrInvalidMessageType
	}

	conv, err := s.resolveConversation(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	userMsg := &models.Message{
		ID:             uuid.New(),
		ConversationID: conv.ID,
		Content:        req.Content,
		MessageType:    messageType,
		IsUser:         true,
		Timestamp:      now,
	}
	if err := s.msgRepo.Create(ctx, userMsg); err != nil {
		return nil, err
	}

	reply := s.assistant.Respond(ctx, conv.ID, req.Content)

	assistantMsg := &models.Message{
		ID:             uuid.New(),
		ConversationID: conv.ID,
		Content:        reply,
		MessageType:    models.MessageTypeText,
		IsUser:         false,
		Timestamp:      time.Now(),
	}
	if err := s.msgRepo.Create(ctx, assistantMsg); err != nil {
		return nil, err
	}

	if err := s.convRepo.Touch(ctx, conv.ID); err != nil {
		s.logger.Warn("Failed to touch conversation", zap.Error(err))
	}

	return messageResponse(assistantMsg), nil
}

func (s *ChatService) resolveConversation(ctx context.Context, userID uuid.UUID, req *dto.ChatMessageRequest) (*models.Conversation, error) {
	if req.ConversationID != "" {
		convID, err := uuid.Parse(req.ConversationID)
		if err != nil {
			return nil, ErrConversationNotFound
		}
		return s.ownedConversation(ctx, userID, convID)
	}

	now := time.Now()
	conv := &models.Conversation{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     DeriveTitle(req.Content),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.convRepo.Create(ctx, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

func (s *ChatService) ListConversations(ctx context.Context, userID uuid.UUID) ([]dto.ConversationResponse, error) {
	summaries, err := s.convRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ConversationResponse, 0, len(summaries))
	for _, sum := range summaries {
		responses = append(responses, dto.ConversationResponse{
			ConversationID: sum.ID.String(),
			Title:          sum.Title,
			CreatedAt:      sum.CreatedAt.Format(time.RFC3339),
			LastMessageAt:  sum.LastMessageAt.Format(time.RFC3339),
			MessageCount:   sum.MessageCount,
		})
	}
	return responses, nil
}

func (s *ChatService) GetMessages(ctx context.Context, userID, conversationID uuid.UUID) ([]dto.ChatResponse, error) {
	if _, err := s.ownedConversation(ctx, userID, conversationID); err != nil {
		return nil, err
	}

	messages, err := s.msgRepo.ListByConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ChatResponse, 0, len(messages))
	for _, msg := range messages {
		responses = append(responses, *messageResponse(msg))
	}
	return responses, nil
}

func (s *ChatService) DeleteConversation(ctx context.Context, userID, conversationID uuid.UUID) error {
	if _, err := s.ownedConversation(ctx, userID, conversationID); err != nil {
		return err
	}

	if err := s.convRepo.Delete(ctx, conversationID); err != nil {
		return err
	}
	s.assistant.ResetConversation(conversationID)
	return nil
}

// ExportConversation renders a conversation as a plain-text transcript.
func (s *ChatService) ExportConversation(ctx context.Context, userID, conversationID uuid.UUID) (string, []byte, error) {
	conv, err := s.ownedConversation(ctx, userID, conversationID)
	if err != nil {
		return "", nil, err
	}

	messages, err := s.msgRepo.ListByConversation(ctx, conversationID)
	if err != nil {
		return "", nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Conversation: %s\n", conv.Title)
	fmt.Fprintf(&b, "Started: %s\n\n", conv.CreatedAt.Format(time.RFC1123))
	for _, msg := range messages {
		speaker := "Assistant"
		if msg.IsUser {
			speaker = "You"
		}
		fmt.Fprintf(&b, "[%s] %s: %s\n", msg.Timestamp.Format("2006-01-02 15:04"), speaker, msg.Content)
	}

	filename := fmt.Sprintf("conversation_%s.txt", conversationID)
	return filename, []byte(b.String()), nil
}

func (s *ChatService) ownedConversation(ctx context.Context, userID, conversationID uuid.UUID) (*models.Conversation, error) {
	conv, err := s.convRepo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, ErrConversationNotFound
	}
	if conv.UserID != userID {
		return nil, ErrNotConversationOwner
	}
	return conv, nil
}

func messageResponse(msg *models.Message) *dto.ChatResponse {
	return &dto.ChatResponse{
		MessageID:      msg.ID.String(),
		ConversationID: msg.ConversationID.String(),
		Content:        msg.Content,
		MessageType:    string(msg.MessageType),
		Timestamp:      msg.Timestamp.Format(time.RFC3339),
		IsUser:         msg.IsUser,
	}
}

// DeriveTitle makes a conversation title out of its first message.
func DeriveTitle(content string) string {
	title := strings.Join(strings.Fields(content), " ")
	if title == "" {
		return "New conversation"
	}
	if len(title) > conversationTitleLimit {
		title = strings.TrimSpace(title[:conversationTitleLimit]) + "..."
	}
	return title
}

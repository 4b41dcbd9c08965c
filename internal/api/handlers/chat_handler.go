package handlers

import (
	"errors"

	"eldertech/internal/dto"
	"eldertech/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ChatHandler struct {
	chatService *service.ChatService
	logger      *zap.Logger
}

func NewChatHandler(chatService *service.ChatService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		logger:      logger,
	}
}

// SendMessage godoc
// @Summary Send a message to the AI assistant
// @Tags chat
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body dto.ChatMessageRequest true "Chat message"
// @Success 200 {object} dto.ChatResponse
// @Failure 400 {object} map[string]string
// @Router /api/chat/send [post]
func (h *ChatHandler) SendMessage(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid token claims",
		})
	}

	var req dto.ChatMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Content == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "content is required",
		})
	}

	resp, err := h.chatService.SendMessage(c.Context(), userID, &req)
	if err != nil {
		return h.chatError(c, err, "Failed to process message")
	}

	return c.JSON(resp)
}

// ListConversations godoc
// @Summary List the caller's conversations
// @Tags chat
// @Produce json
// @Security Bearer
// @Success 200 {array} dto.ConversationResponse
// @Router /api/chat/conversations [get]
func (h *ChatHandler) ListConversations(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid token claims",
		})
	}

	resp, err := h.chatService.ListConversations(c.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list conversations", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list conversations",
		})
	}
	if resp == nil {
		resp = []dto.ConversationResponse{}
	}

	return c.JSON(resp)
}

// GetMessages godoc
// @Summary Get the messages of one conversation
// @Tags chat
// @Produce json
// @Security Bearer
// @Param id path string true "Conversation ID"
// @Success 200 {array} dto.ChatResponse
// @Failure 404 {object} map[string]string
// @Router /api/chat/conversations/{id}/messages [get]
func (h *ChatHandler) GetMessages(c *fiber.Ctx) error {
	userID, convID, err := h.conversationParams(c)
	if err != nil {
		return err
	}

	resp, err := h.chatService.GetMessages(c.Context(), userID, convID)
	if err != nil {
		return h.chatError(c, err, "Failed to get messages")
	}
	if resp == nil {
		resp = []dto.ChatResponse{}
	}

	return c.JSON(resp)
}

// DeleteConversation godoc
// @Summary Delete a conversation
// @Tags chat
// @Produce json
// @Security Bearer
// @Param id path string true "Conversation ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/chat/conversations/{id} [delete]
func (h *ChatHandler) DeleteConversation(c *fiber.Ctx) error {
	userID, convID, err := h.conversationParams(c)
	if err != nil {
		return err
	}

	if err := h.chatService.DeleteConversation(c.Context(), userID, convID); err != nil {
		return h.chatError(c, err, "Failed to delete conversation")
	}

	return c.JSON(fiber.Map{
		"message": "Conversation deleted successfully",
	})
}

// ExportConversation godoc
// @Summary Export a conversation as a plain-text transcript
// @Tags chat
// @Produce plain
// @Security Bearer
// @Param id path string true "Conversation ID"
// @Success 200 {string} string
// @Failure 404 {object} map[string]string
// @Router /api/chat/conversations/{id}/export [post]
func (h *ChatHandler) ExportConversation(c *fiber.Ctx) error {
	userID, convID, err := h.conversationParams(c)
	if err != nil {
		return err
	}

	filename, content, err := h.chatService.ExportConversation(c.Context(), userID, convID)
	if err != nil {
		return h.chatError(c, err, "Failed to export conversation")
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(content)
}

// conversationParams validates the caller identity and the :id path param.
// Failures surface through the app error handler.
func (h *ChatHandler) conversationParams(c *fiber.Ctx) (uuid.UUID, uuid.UUID, error) {
	userID, err := currentUserID(c)
	if err != nil {
		return uuid.Nil, uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
	}

	convID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid conversation id")
	}

	return userID, convID, nil
}

func (h *ChatHandler) chatError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, service.ErrConversationNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Conversation not found",
		})
	case errors.Is(err, service.ErrNotConversationOwner):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Conversation belongs to another user",
		})
	case errors.Is(err, service.ErrInvalidMessageType):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "message_type must be text, voice or image",
		})
	default:
		h.logger.Error(fallback, zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fallback,
		})
	}
}

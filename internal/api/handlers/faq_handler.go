package handlers

import (
	"errors"

	"eldertech/internal/dto"
	"eldertech/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type FAQHandler struct {
	faqService *service.FAQService
	logger     *zap.Logger
}

func NewFAQHandler(faqService *service.FAQService, logger *zap.Logger) *FAQHandler {
	return &FAQHandler{
		faqService: faqService,
		logger:     logger,
	}
}

// List godoc
// @Summary List FAQs with optional filtering
// @Tags faqs
// @Produce json
// @Param category query string false "Exact category label"
// @Param search query string false "Search term over question and answer"
// @Param limit query int false "Max results (default 50)"
// @Success 200 {array} dto.FAQResponse
// @Router /api/faqs [get]
func (h *FAQHandler) List(c *fiber.Ctx) error {
	resp, err := h.faqService.List(c.Context(),
		c.Query("category"),
		c.Query("search"),
		c.QueryInt("limit"),
	)
	if err != nil {
		h.logger.Error("Failed to list FAQs", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list FAQs",
		})
	}
	if resp == nil {
		resp = []dto.FAQResponse{}
	}

	return c.JSON(resp)
}

// Categories godoc
// @Summary List FAQ categories with their FAQ counts
// @Tags faqs
// @Produce json
// @Success 200 {array} dto.FAQCategoryResponse
// @Router /api/faqs/categories [get]
func (h *FAQHandler) Categories(c *fiber.Ctx) error {
	resp, err := h.faqService.Categories(c.Context())
	if err != nil {
		h.logger.Error("Failed to list categories", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list categories",
		})
	}
	if resp == nil {
		resp = []dto.FAQCategoryResponse{}
	}

	return c.JSON(resp)
}

// Get godoc
// @Summary Get one FAQ by ID
// @Tags faqs
// @Produce json
// @Param id path string true "FAQ ID"
// @Success 200 {object} dto.FAQResponse
// @Failure 404 {object} map[string]string
// @Router /api/faqs/{id} [get]
func (h *FAQHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid FAQ id")
	}

	resp, err := h.faqService.Get(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "FAQ not found",
		})
	}

	return c.JSON(resp)
}

// Create godoc
// @Summary Create a FAQ (admin only)
// @Tags faqs
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body dto.FAQCreateRequest true "FAQ"
// @Success 201 {object} dto.FAQResponse
// @Failure 400 {object} map[string]string
// @Router /api/faqs [post]
func (h *FAQHandler) Create(c *fiber.Ctx) error {
	var req dto.FAQCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	resp, err := h.faqService.Create(c.Context(), &req)
	if err != nil {
		return h.faqError(c, err, "Failed to create FAQ")
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Update godoc
// @Summary Update a FAQ (admin only)
// @Tags faqs
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "FAQ ID"
// @Param request body dto.FAQCreateRequest true "FAQ"
// @Success 200 {object} dto.FAQResponse
// @Failure 404 {object} map[string]string
// @Router /api/faqs/{id} [put]
func (h *FAQHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid FAQ id")
	}

	var req dto.FAQCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	resp, err := h.faqService.Update(c.Context(), id, &req)
	if err != nil {
		return h.faqError(c, err, "Failed to update FAQ")
	}

	return c.JSON(resp)
}

// Delete godoc
// @Summary Delete a FAQ (admin only)
// @Tags faqs
// @Produce json
// @Security Bearer
// @Param id path string true "FAQ ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/faqs/{id} [delete]
func (h *FAQHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid FAQ id")
	}

	if err := h.faqService.Delete(c.Context(), id); err != nil {
		return h.faqError(c, err, "Failed to delete FAQ")
	}

	return c.JSON(fiber.Map{
		"message": "FAQ deleted successfully",
	})
}

// Search godoc
// @Summary Search FAQs
// @Tags faqs
// @Accept json
// @Produce json
// @Param request body dto.FAQSearchRequest true "Search request"
// @Success 200 {array} dto.FAQResponse
// @Router /api/faqs/search [post]
func (h *FAQHandler) Search(c *fiber.Ctx) error {
	var req dto.FAQSearchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "query is required",
		})
	}

	resp, err := h.faqService.Search(c.Context(), req.Query, req.Limit)
	if err != nil {
		h.logger.Error("FAQ search failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "FAQ search failed",
		})
	}
	if resp == nil {
		resp = []dto.FAQResponse{}
	}

	return c.JSON(resp)
}

// SubmitFeedback godoc
// @Summary Submit feedback for a FAQ
// @Tags faqs
// @Accept json
// @Produce json
// @Param id path string true "FAQ ID"
// @Param request body dto.FAQFeedbackRequest true "Feedback"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/faqs/{id}/feedback [post]
func (h *FAQHandler) SubmitFeedback(c *fiber.Ctx) error {
	faqID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid FAQ id")
	}

	var req dto.FAQFeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	// Feedback is open to anonymous callers; attach the user only when the
	// middleware put valid claims in the context.
	var userID *uuid.UUID
	if id, err := currentUserID(c); err == nil {
		userID = &id
	}

	if err := h.faqService.SubmitFeedback(c.Context(), faqID, userID, &req); err != nil {
		return h.faqError(c, err, "Failed to submit feedback")
	}

	return c.JSON(fiber.Map{
		"message": "Feedback submitted successfully",
	})
}

func (h *FAQHandler) faqError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, service.ErrFAQNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "FAQ not found",
		})
	case errors.Is(err, service.ErrEmptyFields):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	default:
		h.logger.Error(fallback, zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fallback,
		})
	}
}

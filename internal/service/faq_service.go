package service

import (
	"context"
	"errors"
	"time"

	"eldertech/internal/dto"
	"eldertech/internal/models"
	"eldertech/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrFAQNotFound = errors.New("faq not found")
	ErrEmptyFields = errors.New("question, answer and category are required")
)

const (
	defaultListLimit   = 50
	defaultSearchLimit = 10
	maxListLimit       = 200
)

type FAQService struct {
	faqRepo      *repository.FAQRepository
	categoryRepo *repository.CategoryRepository
	feedbackRepo *repository.FeedbackRepository
	logger       *zap.Logger
}

func NewFAQService(
	faqRepo *repository.FAQRepository,
	categoryRepo *repository.CategoryRepository,
	feedbackRepo *repository.FeedbackRepository,
	logger *zap.Logger,
) *FAQService {
	return &FAQService{
		faqRepo:      faqRepo,
		categoryRepo: categoryRepo,
		feedbackRepo: feedbackRepo,
		logger:       logger,
	}
}

func (s *FAQService) List(ctx context.Context, category, search string, limit int) ([]dto.FAQResponse, error) {
	faqs, err := s.faqRepo.List(ctx, category, search, normalizeLimit(limit, defaultListLimit))
	if err != nil {
		return nil, err
	}
	return faqResponses(faqs), nil
}

func (s *FAQService) Get(ctx context.Context, id uuid.UUID) (*dto.FAQResponse, error) {
	faq, err := s.faqRepo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrFAQNotFound
	}
	resp := faqResponse(faq)
	return &resp, nil
}

func (s *FAQService) Create(ctx context.Context, req *dto.FAQCreateRequest) (*dto.FAQResponse, error) {
	if req.Question == "" || req.Answer == "" || req.Category == "" {
		return nil, ErrEmptyFields
	}

	priority := req.Priority
	if priority == 0 {
		priority = 1
	}
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}

	now := time.Now()
	faq := &models.FAQ{
		ID:        uuid.New(),
		Question:  req.Question,
		Answer:    req.Answer,
		Category:  req.Category,
		Tags:      tags,
		Priority:  priority,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.faqRepo.Create(ctx, faq); err != nil {
		return nil, err
	}

	resp := faqResponse(faq)
	return &resp, nil
}

func (s *FAQService) Update(ctx context.Context, id uuid.UUID, req *dto.FAQCreateRequest) (*dto.FAQResponse, error) {
	if req.Question == "" || req.Answer == "" || req.Category == "" {
		return nil, ErrEmptyFields
	}

	faq, err := s.faqRepo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrFAQNotFound
	}

	faq.Question = req.Question
	faq.Answer = req.Answer
	faq.Category = req.Category
	if req.Tags != nil {
		faq.Tags = req.Tags
	}
	if req.Priority != 0 {
		faq.Priority = req.Priority
	}
	faq.UpdatedAt = time.Now()

	if err := s.faqRepo.Update(ctx, faq); err != nil {
		return nil, err
	}

	resp := faqResponse(faq)
	return &resp, nil
}

func (s *FAQService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.faqRepo.GetByID(ctx, id); err != nil {
		return ErrFAQNotFound
	}
	return s.faqRepo.Delete(ctx, id)
}

func (s *FAQService) Search(ctx context.Context, query string, limit int) ([]dto.FAQResponse, error) {
	faqs, err := s.faqRepo.Search(ctx, query, normalizeLimit(limit, defaultSearchLimit))
	if err != nil {
		return nil, err
	}
	return faqResponses(faqs), nil
}

func (s *FAQService) Categories(ctx context.Context) ([]dto.FAQCategoryResponse, error) {
	categories, err := s.categoryRepo.ListWithCounts(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.FAQCategoryResponse, 0, len(categories))
	for _, c := range categories {
		responses = append(responses, dto.FAQCategoryResponse{
			ID:          c.ID.String(),
			Name:        c.Name,
			Description: c.Description,
			FAQCount:    c.FAQCount,
		})
	}
	return responses, nil
}

// SubmitFeedback stores helpful/not-helpful feedback. userID is nil for
// anonymous submissions.
func (s *FAQService) SubmitFeedback(ctx context.Context, faqID uuid.UUID, userID *uuid.UUID, req *dto.FAQFeedbackRequest) error {
	if _, err := s.faqRepo.GetByID(ctx, faqID); err != nil {
		return ErrFAQNotFound
	}

	return s.feedbackRepo.Create(ctx, &models.FAQFeedback{
		ID:           uuid.New(),
		FAQID:        faqID,
		UserID:       userID,
		Helpful:      req.Helpful,
		FeedbackText: req.FeedbackText,
		CreatedAt:    time.Now(),
	})
}

func normalizeLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

func faqResponse(faq *models.FAQ) dto.FAQResponse {
	tags := faq.Tags
	if tags == nil {
		tags = []string{}
	}
	return dto.FAQResponse{
		ID:        faq.ID.String(),
		Question:  faq.Question,
		Answer:    faq.Answer,
		Category:  faq.Category,
		Tags:      tags,
		Priority:  faq.Priority,
		CreatedAt: faq.CreatedAt.Format(time.RFC3339),
		UpdatedAt: faq.UpdatedAt.Format(time.RFC3339),
	}
}

func faqResponses(faqs []*models.FAQ) []dto.FAQResponse {
	responses := make([]dto.FAQResponse, 0, len(faqs))
	for _, faq := range faqs {
		responses = append(responses, faqResponse(faq))
	}
	return responses
}

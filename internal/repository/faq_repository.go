package repository

import (
	"context"

	"eldertech/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var faqColumns = []string{
	"id", "question", "answer", "category", "tags", "priority", "created_at", "updated_at",
}

type FAQRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewFAQRepository(db *pgxpool.Pool, logger *zap.Logger) *FAQRepository {
	return &FAQRepository{
		db:     db,
		logger: logger,
	}
}

func (r *FAQRepository) Create(ctx context.Context, faq *models.FAQ) error {
	query := squirrel.Insert("faqs").
		Columns(faqColumns...).
		Values(faq.ID, faq.Question, faq.Answer, faq.Category, faq.Tags, faq.Priority,
			faq.CreatedAt, faq.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *FAQRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.FAQ, error) {
	query := squirrel.Select(faqColumns...).
		From("faqs").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var faq models.FAQ
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&faq.ID, &faq.Question, &faq.Answer, &faq.Category, &faq.Tags, &faq.Priority,
		&faq.CreatedAt, &faq.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &faq, nil
}

// List returns FAQs filtered by category and/or a case-insensitive search term
// over question and answer. Category matching is exact.
func (r *FAQRepository) List(ctx context.Context, category, search string, limit int) ([]*models.FAQ, error) {
	query := squirrel.Select(faqColumns...).
		From("faqs").
		OrderBy("priority DESC", "created_at ASC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar)

	if category != "" {
		query = query.Where(squirrel.Eq{"category": category})
	}
	if search != "" {
		query = query.Where(squirrel.Or{
			squirrel.ILike{"question": "%" + search + "%"},
			squirrel.ILike{"answer": "%" + search + "%"},
		})
	}

	return r.queryFAQs(ctx, query)
}

// ListAll loads the full FAQ table in insertion order. No pagination: the
// clustering job holds the whole corpus in memory, acceptable only while the
// corpus stays small.
func (r *FAQRepository) ListAll(ctx context.Context) ([]*models.FAQ, error) {
	query := squirrel.Select(faqColumns...).
		From("faqs").
		OrderBy("created_at ASC").
		PlaceholderFormat(squirrel.Dollar)

	return r.queryFAQs(ctx, query)
}

func (r *FAQRepository) Search(ctx context.Context, queryText string, limit int) ([]*models.FAQ, error) {
	query := squirrel.Select(faqColumns...).
		From("faqs").
		Where(squirrel.Or{
			squirrel.ILike{"question": "%" + queryText + "%"},
			squirrel.ILike{"answer": "%" + queryText + "%"},
		}).
		OrderBy("priority DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar)

	return r.queryFAQs(ctx, query)
}

func (r *FAQRepository) queryFAQs(ctx context.Context, query squirrel.SelectBuilder) ([]*models.FAQ, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var faqs []*models.FAQ
	for rows.Next() {
		var faq models.FAQ
		if err := rows.Scan(
			&faq.ID, &faq.Question, &faq.Answer, &faq.Category, &faq.Tags, &faq.Priority,
			&faq.CreatedAt, &faq.UpdatedAt,
		); err != nil {
			return nil, err
		}
		faqs = append(faqs, &faq)
	}

	return faqs, rows.Err()
}

func (r *FAQRepository) Update(ctx context.Context, faq *models.FAQ) error {
	query := squirrel.Update("faqs").
		Set("question", faq.Question).
		Set("answer", faq.Answer).
		Set("category", faq.Category).
		Set("tags", faq.Tags).
		Set("priority", faq.Priority).
		Set("updated_at", faq.UpdatedAt).
		Where(squirrel.Eq{"id": faq.ID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *FAQRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := squirrel.Delete("faqs").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

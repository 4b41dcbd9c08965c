package repository

import (
	"context"

	"eldertech/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type CategoryRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewCategoryRepository(db *pgxpool.Pool, logger *zap.Logger) *CategoryRepository {
	return &CategoryRepository{
		db:     db,
		logger: logger,
	}
}

func (r *CategoryRepository) Create(ctx context.Context, category *models.FAQCategory) error {
	query := squirrel.Insert("faq_categories").
		Columns("id", "name", "description", "created_at").
		Values(category.ID, category.Name, category.Description, category.CreatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

// ListWithCounts joins each category with the number of FAQs labeled with its
// name. The join is on the free-text category label, not a foreign key.
func (r *CategoryRepository) ListWithCounts(ctx context.Context) ([]*models.FAQCategoryCount, error) {
	query := squirrel.Select(
		"c.id", "c.name", "c.description", "c.created_at", "COUNT(f.id)").
		From("faq_categories c").
		LeftJoin("faqs f ON f.category = c.name").
		GroupBy("c.id").
		OrderBy("c.name ASC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*models.FAQCategoryCount
	for rows.Next() {
		var c models.FAQCategoryCount
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.FAQCount); err != nil {
			return nil, err
		}
		results = append(results, &c)
	}

	return results, rows.Err()
}

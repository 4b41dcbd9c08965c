package repository

import (
	"context"

	"eldertech/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type ConversationRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewConversationRepository(db *pgxpool.Pool, logger *zap.Logger) *ConversationRepository {
	return &ConversationRepository{
		db:     db,
		logger: logger,
	}
}

func (r *ConversationRepository) Create(ctx context.Context, conv *models.Conversation) error {
	query := squirrel.Insert("conversations").
		Columns("id", "user_id", "title", "created_at", "updated_at").
		Values(conv.ID, conv.UserID, conv.Title, conv.CreatedAt, conv.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *ConversationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	query := squirrel.Select("id", "user_id", "title", "created_at", "updated_at").
		From("conversations").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var conv models.Conversation
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&conv.ID, &conv.UserID, &conv.Title, &conv.CreatedAt, &conv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &conv, nil
}

// ListByUser returns the user's conversations joined with message aggregates,
// most recently updated first.
func (r *ConversationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.ConversationSummary, error) {
	query := squirrel.Select(
		"c.id", "c.user_id", "c.title", "c.created_at", "c.updated_at",
		"COUNT(m.id)", "COALESCE(MAX(m.timestamp), c.created_at)").
		From("conversations c").
		LeftJoin("messages m ON m.conversation_id = c.id").
		Where(squirrel.Eq{"c.user_id": userID}).
		GroupBy("c.id").
		OrderBy("c.updated_at DESC").
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

	var results []*models.ConversationSummary
	for rows.Next() {
		var s models.ConversationSummary
		if err := rows.Scan(
			&s.ID, &s.UserID, &s.Title, &s.CreatedAt, &s.UpdatedAt,
			&s.MessageCount, &s.LastMessageAt,
		); err != nil {
			return nil, err
		}
		results = append(results, &s)
	}

	return results, rows.Err()
}

func (r *ConversationRepository) Touch(ctx context.Context, id uuid.UUID) error {
	query := squirrel.Update("conversations").
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

// Delete removes a conversation; messages go with it via ON DELETE CASCADE.
func (r *ConversationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := squirrel.Delete("conversations").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

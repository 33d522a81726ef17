package repository

import (
	"context"

	squirrel "github.com/Masterminds/squirrel"

	"github.com/spec-kit/chat-service/internal/domain"
)

// VivaQuestionRepository manages the viva questions board.
type VivaQuestionRepository interface {
	Create(ctx context.Context, q *domain.VivaQuestion) error
	List(ctx context.Context) ([]domain.VivaQuestion, error)
	SoftDelete(ctx context.Context, id int64, placeholder string) error
}

type vivaQuestionRepository struct {
	db      DB
	builder squirrel.StatementBuilderType
}

// NewVivaQuestionRepository builds repository.
func NewVivaQuestionRepository(db DB) VivaQuestionRepository {
	return &vivaQuestionRepository{
		db:      db,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *vivaQuestionRepository) Create(ctx context.Context, q *domain.VivaQuestion) error {
	query, args, err := r.builder.Insert("viva_questions").
		Columns("sender_id", "sender_name", "question_text").
		Values(q.SenderID, q.SenderName, q.QuestionText).
		Suffix("RETURNING id, is_deleted, timestamp").
		ToSql()
	if err != nil {
		return err
	}
	return r.db.QueryRow(ctx, query, args...).Scan(&q.ID, &q.IsDeleted, &q.Timestamp)
}

func (r *vivaQuestionRepository) List(ctx context.Context) ([]domain.VivaQuestion, error) {
	query, args, err := r.builder.
		Select("id", "sender_id", "sender_name", "question_text", "is_deleted", "timestamp").
		From("viva_questions").
		OrderBy("timestamp ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]domain.VivaQuestion, 0)
	for rows.Next() {
		var q domain.VivaQuestion
		if err := rows.Scan(&q.ID, &q.SenderID, &q.SenderName, &q.QuestionText, &q.IsDeleted, &q.Timestamp); err != nil {
			return nil, err
		}
		result = append(result, q)
	}
	return result, rows.Err()
}

func (r *vivaQuestionRepository) SoftDelete(ctx context.Context, id int64, placeholder string) error {
	query, args, err := r.builder.Update("viva_questions").
		Set("is_deleted", true).
		Set("question_text", placeholder).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}
	cmd, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

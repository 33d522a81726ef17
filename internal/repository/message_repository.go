package repository

import (
	"context"

	squirrel "github.com/Masterminds/squirrel"

	"github.com/spec-kit/chat-service/internal/domain"
)

// MessageRepository manages chat messages.
type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) error
	List(ctx context.Context) ([]domain.Message, error)
	SoftDelete(ctx context.Context, id int64, placeholder string) error
}

type messageRepository struct {
	db      DB
	builder squirrel.StatementBuilderType
}

// NewMessageRepository builds repository.
func NewMessageRepository(db DB) MessageRepository {
	return &messageRepository{
		db:      db,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *messageRepository) Create(ctx context.Context, msg *domain.Message) error {
	var fileURL, fileName, fileType *string
	if msg.Attachment != nil {
		fileURL = &msg.Attachment.URL
		fileName = &msg.Attachment.FileName
		fileType = &msg.Attachment.FileType
	}

	query, args, err := r.builder.Insert("messages").
		Columns("sender_id", "sender_name", "text", "file_url", "file_name", "file_type").
		Values(msg.SenderID, msg.SenderName, msg.Text, fileURL, fileName, fileType).
		Suffix("RETURNING id, is_deleted, timestamp").
		ToSql()
	if err != nil {
		return err
	}
	return r.db.QueryRow(ctx, query, args...).Scan(&msg.ID, &msg.IsDeleted, &msg.Timestamp)
}

func (r *messageRepository) List(ctx context.Context) ([]domain.Message, error) {
	query, args, err := r.builder.
		Select("id", "sender_id", "sender_name", "text", "file_url", "file_name", "file_type", "is_deleted", "timestamp").
		From("messages").
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

	result := make([]domain.Message, 0)
	for rows.Next() {
		var (
			msg                         domain.Message
			fileURL, fileName, fileType *string
		)
		if err := rows.Scan(
			&msg.ID,
			&msg.SenderID,
			&msg.SenderName,
			&msg.Text,
			&fileURL,
			&fileName,
			&fileType,
			&msg.IsDeleted,
			&msg.Timestamp,
		); err != nil {
			return nil, err
		}
		if fileURL != nil {
			msg.Attachment = &domain.Attachment{URL: *fileURL, FileName: deref(fileName), FileType: deref(fileType)}
		}
		result = append(result, msg)
	}
	return result, rows.Err()
}

// SoftDelete flags the row and overwrites its text; the original text is not kept.
func (r *messageRepository) SoftDelete(ctx context.Context, id int64, placeholder string) error {
	query, args, err := r.builder.Update("messages").
		Set("is_deleted", true).
		Set("text", placeholder).
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

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/chat-service/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestMessageRepository_CreateWithAttachment(t *testing.T) {
	mock := newMockPool(t)
	repo := NewMessageRepository(mock)
	ts := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO messages (sender_id,sender_name,text,file_url,file_name,file_type) VALUES ($1,$2,$3,$4,$5,$6) RETURNING id, is_deleted, timestamp")).
		WithArgs("user_1", "Ana", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "is_deleted", "timestamp"}).AddRow(int64(7), false, ts))

	msg := &domain.Message{
		SenderID:   "user_1",
		SenderName: "Ana",
		Attachment: &domain.Attachment{URL: "/uploads/1-a.png", FileName: "a.png", FileType: "image/png"},
	}
	require.NoError(t, repo.Create(context.Background(), msg))
	assert.Equal(t, int64(7), msg.ID)
	assert.Equal(t, ts, msg.Timestamp)
}

func TestMessageRepository_List(t *testing.T) {
	mock := newMockPool(t)
	repo := NewMessageRepository(mock)
	ts := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, sender_id, sender_name, text, file_url, file_name, file_type, is_deleted, timestamp FROM messages ORDER BY timestamp ASC, id ASC")).
		WillReturnRows(pgxmock.NewRows([]string{"id", "sender_id", "sender_name", "text", "file_url", "file_name", "file_type", "is_deleted", "timestamp"}).
			AddRow(int64(1), "user_1", "Ana", strPtr("hello"), nil, nil, nil, false, ts).
			AddRow(int64(2), "user_2", "Bo", nil, strPtr("/uploads/1-a.pdf"), strPtr("a.pdf"), strPtr("application/pdf"), false, ts))

	msgs, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	require.NotNil(t, msgs[0].Text)
	assert.Equal(t, "hello", *msgs[0].Text)
	assert.Nil(t, msgs[0].Attachment)
	require.NotNil(t, msgs[1].Attachment)
	assert.Equal(t, "a.pdf", msgs[1].Attachment.FileName)
}

func TestMessageRepository_SoftDelete(t *testing.T) {
	mock := newMockPool(t)
	repo := NewMessageRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE messages SET is_deleted = $1, text = $2 WHERE id = $3")).
		WithArgs(true, domain.DeletedMessagePlaceholder, int64(3)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE messages SET is_deleted = $1, text = $2 WHERE id = $3")).
		WithArgs(true, domain.DeletedMessagePlaceholder, int64(99)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	require.NoError(t, repo.SoftDelete(context.Background(), 3, domain.DeletedMessagePlaceholder))
	assert.ErrorIs(t, repo.SoftDelete(context.Background(), 99, domain.DeletedMessagePlaceholder), ErrNotFound)
}

func TestVivaQuestionRepository_CreateListDelete(t *testing.T) {
	mock := newMockPool(t)
	repo := NewVivaQuestionRepository(mock)
	ts := time.Now().UTC()
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO viva_questions (sender_id,sender_name,question_text) VALUES ($1,$2,$3) RETURNING id, is_deleted, timestamp")).
		WithArgs("user_1", "Ana", "What is a mutex?").
		WillReturnRows(pgxmock.NewRows([]string{"id", "is_deleted", "timestamp"}).AddRow(int64(11), false, ts))
	mock.ExpectQuery(regexp.QuoteMeta("FROM viva_questions ORDER BY timestamp ASC, id ASC")).
		WillReturnRows(pgxmock.NewRows([]string{"id", "sender_id", "sender_name", "question_text", "is_deleted", "timestamp"}).
			AddRow(int64(11), "user_1", "Ana", "What is a mutex?", false, ts))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE viva_questions SET is_deleted = $1, question_text = $2 WHERE id = $3")).
		WithArgs(true, domain.DeletedQuestionPlaceholder, int64(11)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	q := &domain.VivaQuestion{SenderID: "user_1", SenderName: "Ana", QuestionText: "What is a mutex?"}
	require.NoError(t, repo.Create(ctx, q))
	assert.Equal(t, int64(11), q.ID)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "What is a mutex?", list[0].QuestionText)

	require.NoError(t, repo.SoftDelete(ctx, 11, domain.DeletedQuestionPlaceholder))
}

func TestSettingRepository(t *testing.T) {
	mock := newMockPool(t)
	repo := NewSettingRepository(mock)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT setting_name, setting_value FROM app_settings")).
		WillReturnRows(pgxmock.NewRows([]string{"setting_name", "setting_value"}).
			AddRow(domain.SettingChatEnabled, true).
			AddRow(domain.SettingVivaQuestionAddEnabled, false))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE app_settings SET setting_value=$1 WHERE setting_name=$2")).
		WithArgs(false, domain.SettingChatEnabled).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE app_settings SET setting_value=$1 WHERE setting_name=$2")).
		WithArgs(true, "dark-mode").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	settings, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Setting{
		{Name: domain.SettingChatEnabled, Value: true},
		{Name: domain.SettingVivaQuestionAddEnabled, Value: false},
	}, settings)

	require.NoError(t, repo.Update(ctx, domain.SettingChatEnabled, false))
	assert.ErrorIs(t, repo.Update(ctx, "dark-mode", true), ErrNotFound)
}

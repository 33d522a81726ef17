package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/chat-service/internal/domain"
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

var userRowColumns = []string{"id", "name", "email", "password_hash", "is_admin", "is_approved", "is_email_verified", "created_at"}

func TestUserRepository_Create(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)
	createdAt := time.Now().UTC()

	user := &domain.User{ID: "user_1", Name: "Ana", Email: "ana@x.com", PasswordHash: "hash", IsEmailVerified: true}
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("user_1", "Ana", "ana@x.com", "hash", false, false, true).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(createdAt))

	require.NoError(t, repo.Create(context.Background(), user))
	assert.Equal(t, createdAt, user.CreatedAt)
}

func TestUserRepository_CreateDuplicate(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("user_1", "Ana", "ana@x.com", "hash", false, false, true).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Create(context.Background(), &domain.User{ID: "user_1", Name: "Ana", Email: "ana@x.com", PasswordHash: "hash", IsEmailVerified: true})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestUserRepository_GetByEmail(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)
	createdAt := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email=$1")).
		WithArgs("ana@x.com").
		WillReturnRows(pgxmock.NewRows(userRowColumns).
			AddRow("user_1", "Ana", "ana@x.com", "hash", false, true, true, createdAt))

	user, err := repo.GetByEmail(context.Background(), "ana@x.com")
	require.NoError(t, err)
	assert.Equal(t, "user_1", user.ID)
	assert.True(t, user.IsApproved)
	assert.True(t, user.IsEmailVerified)
}

func TestUserRepository_GetByIDNotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id=$1")).
		WithArgs("user_missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "user_missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepository_List(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users ORDER BY created_at ASC")).
		WillReturnRows(pgxmock.NewRows(userRowColumns).
			AddRow("user_admin", "Admin", "admin@x.com", "h1", true, true, true, now).
			AddRow("user_1", "Ana", "ana@x.com", "h2", false, false, true, now))

	users, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.True(t, users[0].IsAdmin)
	assert.False(t, users[1].IsApproved)
}

func TestUserRepository_ApproveAndDelete(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET is_approved = TRUE WHERE id=$1")).
		WithArgs("user_1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET is_approved = TRUE WHERE id=$1")).
		WithArgs("user_missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE id=$1")).
		WithArgs("user_1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE id=$1")).
		WithArgs("user_1").
		WillReturnError(errors.New("conn reset"))

	require.NoError(t, repo.Approve(ctx, "user_1"))
	assert.ErrorIs(t, repo.Approve(ctx, "user_missing"), ErrNotFound)
	require.NoError(t, repo.Delete(ctx, "user_1"))
	assert.EqualError(t, repo.Delete(ctx, "user_1"), "conn reset")
}

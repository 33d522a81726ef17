package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/spec-kit/chat-service/internal/domain"
	"github.com/spec-kit/chat-service/internal/events"
	"github.com/spec-kit/chat-service/internal/mail"
	"github.com/spec-kit/chat-service/internal/repository"
	"github.com/spec-kit/chat-service/internal/service"
)

type countingMailer struct {
	mu   sync.Mutex
	sent []string
}

func (m *countingMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg.To)
	return nil
}

func TestPendingSweeper_SweepOnce(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := repository.NewMemoryPendingStore()
	require.NoError(t, store.Save(ctx, domain.PendingRegistration{TempID: "temp_old", Email: "a@x.com", OTPExpiresAt: now.Add(-time.Minute)}))
	require.NoError(t, store.Save(ctx, domain.PendingRegistration{TempID: "temp_new", Email: "b@x.com", OTPExpiresAt: now.Add(time.Minute)}))

	sweeper := NewPendingSweeper(store, time.Minute, zaptest.NewLogger(t))
	sweeper.now = func() time.Time { return now }

	assert.Equal(t, 1, sweeper.SweepOnce(ctx))
	assert.Equal(t, 1, store.Len())
	_, err := store.Get(ctx, "temp_new")
	assert.NoError(t, err)
}

func TestPendingSweeper_RunStopsOnCancel(t *testing.T) {
	store := repository.NewMemoryPendingStore()
	require.NoError(t, store.Save(context.Background(), domain.PendingRegistration{TempID: "temp_old", OTPExpiresAt: time.Now().Add(-time.Hour)}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewPendingSweeper(store, 10*time.Millisecond, zaptest.NewLogger(t)).Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return store.Len() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}

func TestPendingSweeper_DisabledReturnsImmediately(t *testing.T) {
	NewPendingSweeper(repository.NewMemoryPendingStore(), 0, nil).Run(context.Background())
}

func TestBackground_DeliversAndDrains(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	mailer := &countingMailer{}
	notifications := service.NewNotificationService(dispatcher, mailer, zaptest.NewLogger(t), nil, time.Second, 10*time.Minute)
	sweeper := NewPendingSweeper(repository.NewMemoryPendingStore(), 5*time.Millisecond, zaptest.NewLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	bg := NewBackground(notifications, sweeper)
	bg.Start(ctx)

	err := dispatcher.Publish(ctx, events.New(events.EventRegistrationPending, events.RegistrationPendingPayload{
		TempID: "temp_1",
		Email:  "ada@example.com",
		OTP:    "123456",
	}))
	require.NoError(t, err)

	cancel()
	bg.Wait()

	mailer.mu.Lock()
	defer mailer.mu.Unlock()
	assert.Equal(t, []string{"ada@example.com"}, mailer.sent)
}

func TestBackground_NilTasks(t *testing.T) {
	bg := NewBackground(nil, nil)
	bg.Start(context.Background())
	bg.Wait()
}

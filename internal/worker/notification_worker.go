package worker

import (
	"context"
	"sync"

	"github.com/spec-kit/chat-service/internal/service"
)

// Background owns the long-running side tasks of the chat service: OTP mail
// delivery and the optional pending registration sweeper.
type Background struct {
	notifications *service.NotificationService
	sweeper       *PendingSweeper

	wg sync.WaitGroup
}

// NewBackground groups the side tasks. Either argument may be nil.
func NewBackground(notifications *service.NotificationService, sweeper *PendingSweeper) *Background {
	return &Background{notifications: notifications, sweeper: sweeper}
}

// Start subscribes the notification handlers and launches the sweeper. The
// sweeper stops when ctx is cancelled.
func (b *Background) Start(ctx context.Context) {
	if b.notifications != nil {
		b.notifications.RegisterHandlers()
	}
	if b.sweeper == nil {
		return
	}
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.sweeper.Run(ctx)
	}()
}

// Wait blocks until the sweeper has returned and queued mail is delivered.
func (b *Background) Wait() {
	b.wg.Wait()
	if b.notifications != nil {
		b.notifications.Wait()
	}
}

package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/chat-service/internal/events"
	"github.com/spec-kit/chat-service/internal/mail"
	"github.com/spec-kit/chat-service/internal/observability"
)

// NotificationService mails OTP codes for pending registrations. Delivery runs
// in the background; failures are logged and never reach the registrant.
type NotificationService struct {
	dispatcher events.Dispatcher
	mailer     mail.Mailer
	logger     *zap.Logger
	metrics    *observability.Metrics
	timeout    time.Duration
	otpTTL     time.Duration

	wg sync.WaitGroup
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, mailer mail.Mailer, logger *zap.Logger, metrics *observability.Metrics, timeout, otpTTL time.Duration) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &NotificationService{
		dispatcher: dispatcher,
		mailer:     mailer,
		logger:     logger,
		metrics:    metrics,
		timeout:    timeout,
		otpTTL:     otpTTL,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventRegistrationPending, n.handleRegistrationPending)
}

func (n *NotificationService) handleRegistrationPending(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.RegistrationPendingPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	msg := mail.OTPMessage(payload.Email, payload.OTP, n.otpTTL)

	// The request context ends with the response; delivery gets its own.
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()
		n.deliver(ctx, payload.TempID, msg)
	}()
	return nil
}

func (n *NotificationService) deliver(ctx context.Context, tempID string, msg mail.Message) {
	if err := n.mailer.Send(ctx, msg); err != nil {
		n.metrics.RecordMail("failed")
		n.logger.Error("failed to send OTP email",
			zap.String("temp_id", tempID),
			zap.String("to", observability.MaskEmail(msg.To)),
			zap.Error(err))
		return
	}
	n.metrics.RecordMail("sent")
	n.logger.Info("OTP email sent", zap.String("temp_id", tempID), zap.String("to", observability.MaskEmail(msg.To)))
}

// Wait blocks until in-flight deliveries finish.
func (n *NotificationService) Wait() {
	n.wg.Wait()
}

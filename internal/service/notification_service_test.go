package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/chat-service/internal/events"
	"github.com/spec-kit/chat-service/internal/observability"
)

func TestNotificationService_SendsOTPMail(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	mailer := &fakeMailer{}
	metrics, err := observability.NewMetrics("test")
	require.NoError(t, err)
	n := NewNotificationService(dispatcher, mailer, zap.NewNop(), metrics, time.Second, 10*time.Minute)
	n.RegisterHandlers()

	require.NoError(t, dispatcher.Publish(context.Background(), events.New(events.EventRegistrationPending, events.RegistrationPendingPayload{
		TempID: "temp_1", Email: "ana@x.com", OTP: "314159",
	})))
	n.Wait()

	sent := mailer.messages()
	require.Len(t, sent, 1)
	assert.Equal(t, "ana@x.com", sent[0].To)
	assert.Contains(t, sent[0].Text, "314159")
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.MailsSent.WithLabelValues("sent")))
}

func TestNotificationService_FailureIsLoggedNotReturned(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	core, logs := observer.New(zap.ErrorLevel)
	n := NewNotificationService(dispatcher, &fakeMailer{err: errors.New("smtp down")}, zap.New(core), nil, time.Second, time.Minute)
	n.RegisterHandlers()

	err := dispatcher.Publish(context.Background(), events.New(events.EventRegistrationPending, events.RegistrationPendingPayload{
		TempID: "temp_1", Email: "ana@x.com", OTP: "000001",
	}))
	require.NoError(t, err)
	n.Wait()

	assert.Equal(t, 1, logs.FilterMessage("failed to send OTP email").Len())
}

func TestRegister_SucceedsWhenMailFails(t *testing.T) {
	f := newRegFixture(t)
	dispatcher := events.NewInMemoryDispatcher()
	n := NewNotificationService(dispatcher, &fakeMailer{err: errors.New("smtp down")}, zap.NewNop(), nil, time.Second, time.Minute)
	n.RegisterHandlers()
	f.svc.dispatcher = dispatcher

	tempID, err := f.svc.Register(context.Background(), RegisterInput{Name: "Ana", Email: "ana@x.com", Password: "pw"})
	n.Wait()
	require.NoError(t, err)
	assert.NotEmpty(t, tempID)
}

func TestNotificationService_RejectsForeignPayload(t *testing.T) {
	n := NewNotificationService(nil, &fakeMailer{}, zap.NewNop(), nil, time.Second, time.Minute)
	err := n.handleRegistrationPending(context.Background(), events.New(events.EventRegistrationPending, "oops"))
	assert.Error(t, err)
}

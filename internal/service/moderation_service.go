package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/chat-service/internal/domain"
	"github.com/spec-kit/chat-service/internal/events"
	"github.com/spec-kit/chat-service/internal/repository"
)

// ModerationService lets admins approve and remove users.
type ModerationService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewModerationService builds the service.
func NewModerationService(users repository.UserRepository, dispatcher events.Dispatcher, logger *zap.Logger) *ModerationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ModerationService{users: users, dispatcher: dispatcher, logger: logger}
}

// ListUsers returns every persistent user. Pending registrations are not users.
func (s *ModerationService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// ApproveUser marks the user approved and broadcasts userApproved. Approving
// an approved user broadcasts again.
func (s *ModerationService) ApproveUser(ctx context.Context, id string) error {
	if err := s.users.Approve(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("approve user: %w", err)
	}
	publish(ctx, s.dispatcher, s.logger, events.New(events.EventUserApproved, id))
	return nil
}

// RemoveUser deletes the user row and broadcasts userRemoved.
func (s *ModerationService) RemoveUser(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("remove user: %w", err)
	}
	publish(ctx, s.dispatcher, s.logger, events.New(events.EventUserRemoved, id))
	return nil
}

// publish never fails the caller: the mutation is already committed.
func publish(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger, evt events.Event) {
	if dispatcher == nil {
		return
	}
	if err := dispatcher.Publish(ctx, evt); err != nil {
		logger.Warn("event handlers failed", zap.String("event", string(evt.Type)), zap.Error(err))
	}
}

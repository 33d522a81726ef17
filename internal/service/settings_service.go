package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/chat-service/internal/events"
	"github.com/spec-kit/chat-service/internal/repository"
)

// SettingsService reads and flips application switches.
type SettingsService struct {
	settings   repository.SettingRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewSettingsService builds the service.
func NewSettingsService(settings repository.SettingRepository, dispatcher events.Dispatcher, logger *zap.Logger) *SettingsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{settings: settings, dispatcher: dispatcher, logger: logger}
}

// List returns settings keyed by name.
func (s *SettingsService) List(ctx context.Context) (map[string]bool, error) {
	rows, err := s.settings.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(rows))
	for _, row := range rows {
		out[row.Name] = row.Value
	}
	return out, nil
}

// Update stores the value and broadcasts settingUpdated.
func (s *SettingsService) Update(ctx context.Context, name string, value bool) error {
	if err := s.settings.Update(ctx, name, value); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSettingNotFound
		}
		return fmt.Errorf("update setting: %w", err)
	}
	publish(ctx, s.dispatcher, s.logger, events.New(events.EventSettingUpdated, events.SettingPayload{
		SettingName:  name,
		SettingValue: value,
	}))
	return nil
}

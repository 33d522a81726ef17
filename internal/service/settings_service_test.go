package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/spec-kit/chat-service/internal/domain"
	"github.com/spec-kit/chat-service/internal/events"
)

func TestSettingsService(t *testing.T) {
	ctx := context.Background()
	dispatcher, rec := newRecordingDispatcher()
	repo := &fakeSettings{values: map[string]bool{
		domain.SettingChatEnabled:            true,
		domain.SettingVivaQuestionAddEnabled: true,
	}}
	svc := NewSettingsService(repo, dispatcher, zaptest.NewLogger(t))

	require.NoError(t, svc.Update(ctx, domain.SettingChatEnabled, false))
	updated := rec.ofType(events.EventSettingUpdated)
	require.Len(t, updated, 1)
	assert.Equal(t, events.SettingPayload{SettingName: domain.SettingChatEnabled, SettingValue: false}, updated[0].Payload)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{
		domain.SettingChatEnabled:            false,
		domain.SettingVivaQuestionAddEnabled: true,
	}, all)

	assert.ErrorIs(t, svc.Update(ctx, "dark-mode", true), ErrSettingNotFound)
	assert.Len(t, rec.ofType(events.EventSettingUpdated), 1)
}

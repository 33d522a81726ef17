package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/chat-service/internal/auth"
	"github.com/spec-kit/chat-service/internal/config"
	"github.com/spec-kit/chat-service/internal/domain"
	"github.com/spec-kit/chat-service/internal/observability"
	"github.com/spec-kit/chat-service/internal/repository"
)

// EnsureAdmin creates the configured administrator unless a user with that
// email already exists. It reports whether a row was created.
func EnsureAdmin(ctx context.Context, users repository.UserRepository, hasher auth.PasswordHasher, cfg config.AdminConfig, logger *zap.Logger) (bool, error) {
	email := NormalizeEmail(cfg.Email)
	if email == "" {
		return false, nil
	}

	if _, err := users.GetByEmail(ctx, email); err == nil {
		return false, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return false, fmt.Errorf("lookup admin: %w", err)
	}

	hash, err := hasher.Hash(cfg.Password)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}
	name := strings.TrimSpace(cfg.Name)
	if name == "" {
		name = "Admin"
	}
	admin := &domain.User{
		ID:              domain.UserIDPrefix + uuid.NewString(),
		Name:            name,
		Email:           email,
		PasswordHash:    hash,
		IsAdmin:         true,
		IsApproved:      true,
		IsEmailVerified: true,
	}
	if err := users.Create(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return false, nil
		}
		return false, fmt.Errorf("create admin: %w", err)
	}
	if logger != nil {
		logger.Info("admin account created", zap.String("user_id", admin.ID), zap.String("email", observability.MaskEmail(email)))
	}
	return true, nil
}

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/spec-kit/chat-service/internal/auth"
	"github.com/spec-kit/chat-service/internal/domain"
	"github.com/spec-kit/chat-service/internal/repository"
)

// LoginResult is returned on a successful login.
type LoginResult struct {
	User  *domain.User
	Token string
	Meta  domain.Token
}

// AuthService coordinates login.
type AuthService struct {
	users    repository.UserRepository
	hasher   auth.PasswordHasher
	tokenMgr *auth.TokenManager
}

// NewAuthService builds the service.
func NewAuthService(users repository.UserRepository, hasher auth.PasswordHasher, tokens *auth.TokenManager) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokenMgr: tokens}
}

// Login checks credentials, then email verification, then approval.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("compare password: %w", err)
	}
	if !user.IsEmailVerified {
		return nil, ErrEmailNotVerified
	}
	if !user.IsApproved {
		return nil, ErrNotApproved
	}

	meta, token, err := s.tokenMgr.GenerateToken(*user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &LoginResult{User: user, Token: token, Meta: meta}, nil
}

package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/chat-service/internal/auth"
	"github.com/spec-kit/chat-service/internal/domain"
	"github.com/spec-kit/chat-service/internal/events"
	"github.com/spec-kit/chat-service/internal/observability"
	"github.com/spec-kit/chat-service/internal/repository"
)

const otpDigits = 6

var otpSpace = big.NewInt(1_000_000)

// RegisterInput is the payload of a registration attempt.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// RegistrationService runs the email OTP flow. Users are created only after a
// pending registration is verified.
type RegistrationService struct {
	users      repository.UserRepository
	pending    repository.PendingRegistrationStore
	hasher     auth.PasswordHasher
	dispatcher events.Dispatcher
	logger     *zap.Logger
	otpTTL     time.Duration

	// mu makes the per-email check-and-insert atomic within the process.
	mu sync.Mutex

	now      func() time.Time
	generate func() (string, error)
}

// RegistrationDependencies groups collaborators of RegistrationService.
type RegistrationDependencies struct {
	Users      repository.UserRepository
	Pending    repository.PendingRegistrationStore
	Hasher     auth.PasswordHasher
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	OTPTTL     time.Duration
}

// NewRegistrationService builds the service.
func NewRegistrationService(deps RegistrationDependencies) *RegistrationService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := deps.OTPTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RegistrationService{
		users:      deps.Users,
		pending:    deps.Pending,
		hasher:     deps.Hasher,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		otpTTL:     ttl,
		now:        time.Now,
		generate:   GenerateOTP,
	}
}

// Register stores a pending registration and announces its OTP. It returns the
// temp id the client must present to VerifyOtp.
func (s *RegistrationService) Register(ctx context.Context, in RegisterInput) (string, error) {
	name := strings.TrimSpace(in.Name)
	email := NormalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return "", ErrMissingFields
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return "", ErrEmailRegistered
	} else if !errors.Is(err, repository.ErrNotFound) {
		return "", fmt.Errorf("lookup user: %w", err)
	}

	now := s.now()
	existing, err := s.pending.FindByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("lookup pending registration: %w", err)
	}
	for _, reg := range existing {
		if !reg.ExpiredAt(now) {
			return "", ErrEmailPending
		}
	}
	for _, reg := range existing {
		if err := s.pending.Delete(ctx, reg.TempID); err != nil {
			return "", fmt.Errorf("discard expired registration: %w", err)
		}
	}

	otp, err := s.generate()
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}

	reg := domain.PendingRegistration{
		TempID:       domain.TempIDPrefix + uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		OTP:          otp,
		OTPExpiresAt: now.Add(s.otpTTL),
		CreatedAt:    now,
	}
	if err := s.pending.Save(ctx, reg); err != nil {
		return "", fmt.Errorf("save pending registration: %w", err)
	}

	s.logger.Info("registration pending",
		zap.String("temp_id", reg.TempID),
		zap.String("email", observability.MaskEmail(email)))

	if s.dispatcher != nil {
		evt := events.New(events.EventRegistrationPending, events.RegistrationPendingPayload{
			TempID:    reg.TempID,
			Name:      reg.Name,
			Email:     reg.Email,
			OTP:       reg.OTP,
			ExpiresAt: reg.OTPExpiresAt,
		})
		if err := s.dispatcher.Publish(ctx, evt); err != nil {
			s.logger.Warn("registration event handlers failed", zap.Error(err))
		}
	}
	return reg.TempID, nil
}

// VerifyOtp promotes a pending registration to a user when the code matches.
// Expiry is checked before the code, so an expired entry is discarded even
// when the right code is presented.
func (s *RegistrationService) VerifyOtp(ctx context.Context, tempID, enteredOTP string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reg, err := s.pending.Get(ctx, strings.TrimSpace(tempID))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrRegistrationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load pending registration: %w", err)
	}

	if reg.ExpiredAt(s.now()) {
		if err := s.pending.Delete(ctx, reg.TempID); err != nil {
			s.logger.Warn("failed to discard expired registration", zap.String("temp_id", reg.TempID), zap.Error(err))
		}
		return nil, ErrOTPExpired
	}

	if subtle.ConstantTimeCompare([]byte(reg.OTP), []byte(strings.TrimSpace(enteredOTP))) != 1 {
		return nil, ErrOTPInvalid
	}

	user := &domain.User{
		ID:              domain.UserIDPrefix + uuid.NewString(),
		Name:            reg.Name,
		Email:           reg.Email,
		PasswordHash:    reg.PasswordHash,
		IsEmailVerified: true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailRegistered
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := s.pending.Delete(ctx, reg.TempID); err != nil {
		s.logger.Warn("failed to delete verified registration", zap.String("temp_id", reg.TempID), zap.Error(err))
	}
	s.logger.Info("registration verified", zap.String("user_id", user.ID))
	return user, nil
}

// GenerateOTP returns a uniformly random zero-padded 6 digit code.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, otpSpace)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", otpDigits, n.Int64()), nil
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

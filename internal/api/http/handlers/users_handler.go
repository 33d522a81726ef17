package handlers

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/chat-service/internal/api/dto"
	"github.com/spec-kit/chat-service/internal/domain"
	"github.com/spec-kit/chat-service/internal/service"
	apperrors "github.com/spec-kit/chat-service/pkg/util/errorutil"
)

// Registrar runs the OTP registration flow.
type Registrar interface {
	Register(ctx context.Context, in service.RegisterInput) (string, error)
	VerifyOtp(ctx context.Context, tempID, enteredOTP string) (*domain.User, error)
}

// Authenticator checks credentials.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*service.LoginResult, error)
}

// UsersHandler exposes registration and login endpoints.
type UsersHandler struct {
	registration Registrar
	auth         Authenticator
}

// NewUsersHandler constructs handler.
func NewUsersHandler(registration Registrar, auth Authenticator) *UsersHandler {
	return &UsersHandler{registration: registration, auth: auth}
}

// Register handles POST /api/register.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	tempID, err := h.registration.Register(c.UserContext(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return serviceError(err, "Server error during registration.")
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "Registration successful! OTP sent to your email for verification.",
		"userId":  tempID,
	})
}

// VerifyOTP handles POST /api/verify-otp.
func (h *UsersHandler) VerifyOTP(c *fiber.Ctx) error {
	var req dto.VerifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, err := h.registration.VerifyOtp(c.UserContext(), req.UserID, req.EnteredOTP)
	if err != nil {
		return serviceError(err, "Server error during account creation after OTP verification.")
	}

	return c.JSON(fiber.Map{
		"message": "Account created and verified successfully!",
		"user":    user.Public(),
	})
}

// Login handles POST /api/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	res, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return serviceError(err, "Server error during login.")
	}

	return c.JSON(dto.LoginResponse{
		Message:   "Login successful!",
		User:      res.User.Public(),
		Token:     res.Token,
		ExpiresAt: res.Meta.ExpiresAt,
	})
}

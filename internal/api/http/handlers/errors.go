package handlers

import (
	"errors"
	"strconv"

	"github.com/spec-kit/chat-service/internal/service"
	apperrors "github.com/spec-kit/chat-service/pkg/util/errorutil"
)

// serviceError translates service outcomes into client-facing errors. Anything
// unrecognised becomes a 500 carrying fallback as its message.
func serviceError(err error, fallback string) error {
	switch {
	case errors.Is(err, service.ErrMissingFields):
		return apperrors.NewValidationError("Name, email and password are required.", nil)
	case errors.Is(err, service.ErrEmailRegistered):
		return apperrors.NewConflict("Email already registered.", nil)
	case errors.Is(err, service.ErrEmailPending):
		return apperrors.NewConflict("Email already pending verification. Please check your email for OTP.", nil)
	case errors.Is(err, service.ErrRegistrationNotFound):
		return apperrors.NewNotFound("Verification session expired or not found. Please register again.")
	case errors.Is(err, service.ErrOTPExpired):
		return apperrors.NewBadRequest(apperrors.CodeOTPExpired, "OTP expired. Please register again to get a new OTP.")
	case errors.Is(err, service.ErrOTPInvalid):
		return apperrors.NewBadRequest(apperrors.CodeOTPInvalid, "Invalid OTP.")
	case errors.Is(err, service.ErrInvalidCredentials):
		return apperrors.NewUnauthorized("Invalid email or password.")
	case errors.Is(err, service.ErrEmailNotVerified):
		return apperrors.NewForbidden(apperrors.CodeEmailNotVerified, "Account not email verified.")
	case errors.Is(err, service.ErrNotApproved):
		return apperrors.NewForbidden(apperrors.CodeNotApproved, "Account not approved.")
	case errors.Is(err, service.ErrUserNotFound):
		return apperrors.NewNotFound("User not found.")
	case errors.Is(err, service.ErrMessageNotFound):
		return apperrors.NewNotFound("Message not found.")
	case errors.Is(err, service.ErrQuestionNotFound):
		return apperrors.NewNotFound("Viva question not found.")
	case errors.Is(err, service.ErrSettingNotFound):
		return apperrors.NewNotFound("Setting not found.")
	case errors.Is(err, service.ErrSenderRequired):
		return apperrors.NewValidationError("senderId and senderName are required.", nil)
	case errors.Is(err, service.ErrEmptyMessage):
		return apperrors.NewValidationError("A message needs text or a file.", nil)
	case errors.Is(err, service.ErrEmptyQuestion):
		return apperrors.NewValidationError("questionText is required.", nil)
	default:
		return apperrors.NewInternal(fallback, err)
	}
}

func parseID(raw, what string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("Invalid "+what+" id.", map[string]any{"id": raw})
	}
	return id, nil
}

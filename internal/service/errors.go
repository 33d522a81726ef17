package service

import "errors"

// Registration and login outcomes. Handlers translate these into HTTP errors.
var (
	ErrMissingFields        = errors.New("name, email and password are required")
	ErrEmailRegistered      = errors.New("email already registered")
	ErrEmailPending         = errors.New("email already pending verification")
	ErrRegistrationNotFound = errors.New("pending registration not found")
	ErrOTPExpired           = errors.New("otp expired")
	ErrOTPInvalid           = errors.New("otp invalid")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrEmailNotVerified     = errors.New("account not email verified")
	ErrNotApproved          = errors.New("account not approved")
)

// Moderation and board outcomes.
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrMessageNotFound  = errors.New("message not found")
	ErrQuestionNotFound = errors.New("viva question not found")
	ErrSettingNotFound  = errors.New("setting not found")
	ErrSenderRequired   = errors.New("sender id and name are required")
	ErrEmptyMessage     = errors.New("message needs text or a file")
	ErrEmptyQuestion    = errors.New("question text is required")
)

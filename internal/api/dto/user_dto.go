package dto

import (
	"time"

	"github.com/spec-kit/chat-service/internal/domain"
)

// RegisterRequest payload for POST /api/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// VerifyOTPRequest payload for POST /api/verify-otp. UserID carries the temp id
// handed out at registration.
type VerifyOTPRequest struct {
	UserID     string `json:"userId"`
	EnteredOTP string `json:"enteredOtp"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned by POST /api/login.
type LoginResponse struct {
	Message   string            `json:"message"`
	User      domain.PublicUser `json:"user"`
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expiresAt"`
}

// UserListItem is one row of GET /api/users. OTP fields are always null: codes
// live on pending registrations, never on users.
type UserListItem struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	IsAdmin         bool       `json:"isAdmin"`
	IsApproved      bool       `json:"isApproved"`
	OTP             *string    `json:"otp"`
	OTPExpiresAt    *time.Time `json:"otpExpiresAt"`
	IsEmailVerified bool       `json:"isEmailVerified"`
}

// NewUserListItem projects a user for the admin dashboard.
func NewUserListItem(u domain.User) UserListItem {
	return UserListItem{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		IsAdmin:         u.IsAdmin,
		IsApproved:      u.IsApproved,
		IsEmailVerified: u.IsEmailVerified,
	}
}

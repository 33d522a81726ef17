package domain

import (
	"strings"
	"time"
)

// TempIDPrefix marks identifiers that refer to a pending registration rather
// than a persistent user.
const TempIDPrefix = "temp_"

// UserIDPrefix marks identifiers of persistent users.
const UserIDPrefix = "user_"

// PendingRegistration is an unverified registration attempt awaiting its OTP.
type PendingRegistration struct {
	TempID       string    `json:"tempId"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	OTP          string    `json:"otp"`
	OTPExpiresAt time.Time `json:"otpExpiresAt"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ExpiredAt reports whether the OTP window has elapsed at the given instant.
// The boundary itself counts as expired.
func (p PendingRegistration) ExpiredAt(now time.Time) bool {
	return !p.OTPExpiresAt.After(now)
}

// IsTempID reports whether id was issued for a pending registration.
func IsTempID(id string) bool {
	return strings.HasPrefix(id, TempIDPrefix)
}

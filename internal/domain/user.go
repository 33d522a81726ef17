package domain

import "time"

// User is a persistent chat account. Rows are created only once an email
// address has been confirmed through the OTP flow or by the admin bootstrap.
type User struct {
	ID              string
	Name            string
	Email           string
	PasswordHash    string
	IsAdmin         bool
	IsApproved      bool
	IsEmailVerified bool
	CreatedAt       time.Time
}

// PublicUser is the projection returned to clients after verification and login.
type PublicUser struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	IsAdmin         bool   `json:"isAdmin"`
	IsApproved      bool   `json:"isApproved"`
	IsEmailVerified bool   `json:"isEmailVerified"`
}

// Public strips credentials and contact details.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:              u.ID,
		Name:            u.Name,
		IsAdmin:         u.IsAdmin,
		IsApproved:      u.IsApproved,
		IsEmailVerified: u.IsEmailVerified,
	}
}

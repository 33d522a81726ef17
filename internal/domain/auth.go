package domain

import "time"

// SubjectType differentiates regular members from administrators in tokens.
type SubjectType string

const (
	SubjectTypeMember SubjectType = "MEMBER"
	SubjectTypeAdmin  SubjectType = "ADMIN"
)

// SubjectTypeFor returns the token subject for a user.
func SubjectTypeFor(u User) SubjectType {
	if u.IsAdmin {
		return SubjectTypeAdmin
	}
	return SubjectTypeMember
}

// Token represents issued access token metadata.
type Token struct {
	SubjectID string
	Subject   SubjectType
	ExpiresAt time.Time
	IssuedAt  time.Time
}

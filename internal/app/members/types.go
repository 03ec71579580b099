package members

import "github.com/apa-portal/member-portal/internal/domain"

// MinPasswordLength is the shortest password accepted on create or update.
const MinPasswordLength = 8

type CreateMemberInput struct {
	DisplayName   string
	Email         string
	Password      string
	IsAdmin       bool
	PointsBalance int
}

// UpdateMemberInput is a tri-state patch; unspecified fields are left untouched.
type UpdateMemberInput struct {
	DisplayName   domain.Optional[string] // cannot be null
	Email         domain.Optional[string] // cannot be null
	Password      domain.Optional[string] // cannot be null
	IsAdmin       domain.Optional[bool]
	IsActive      domain.Optional[bool]
	PointsBalance domain.Optional[int]
}

package domain

import "time"

// Member is the domain representation of a member account.
type Member struct {
	ID MemberID

	DisplayName string
	Email       string
	// PasswordHash is a bcrypt hash; it never leaves the application layer.
	PasswordHash string

	IsAdmin  bool
	IsActive bool

	PointsBalance int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// MemberSession is the descriptor of an authenticated member session.
type MemberSession struct {
	SessionID   SessionID
	MemberID    MemberID
	DisplayName string
	Email       string
	IsAdmin     bool

	IssuedAt  time.Time
	ExpiresAt time.Time
}

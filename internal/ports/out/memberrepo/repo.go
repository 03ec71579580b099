package memberrepo

import (
	"context"
	"time"

	"github.com/apa-portal/member-portal/internal/domain"
)

// Member is the persistence shape used by the member repository.
// It's used as an internal record, not an HTTP DTO.
type Member struct {
	ID domain.MemberID
	// DisplayName is the member's preferred display name.
	DisplayName string
	// Email is unique across members, compared case-insensitively.
	Email string
	// PasswordHash is the bcrypt hash of the member's password.
	PasswordHash string

	IsAdmin  bool
	IsActive bool

	PointsBalance int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repository provides access to persisted members.
//
// Result ordering expectations:
// - List/Search methods should return results ordered by DisplayName ascending to keep behavior deterministic.
type Repository interface {
	Create(ctx context.Context, m Member) error
	Update(ctx context.Context, m Member) error

	// AdjustPoints adds delta to the stored balance in a single atomic step and
	// stamps UpdatedAt. No other column is written. It returns ErrInsufficientPoints,
	// leaving the balance unchanged, when the result would be negative.
	AdjustPoints(ctx context.Context, id domain.MemberID, delta int, at time.Time) error

	GetByID(ctx context.Context, id domain.MemberID) (Member, error)
	// GetByEmail matches case-insensitively.
	GetByEmail(ctx context.Context, email string) (Member, error)

	List(ctx context.Context, includeInactive bool) ([]Member, error)

	// SearchActiveByDisplayName searches active members by a tokenized, case-insensitive match on DisplayName.
	// The query validation (e.g. minimum length) is enforced at the application layer.
	SearchActiveByDisplayName(ctx context.Context, query string, limit int) ([]Member, error)
}

package sessionstore

import (
	"context"
	"errors"
	"time"

	"github.com/apa-portal/member-portal/internal/domain"
)

var ErrNotFound = errors.New("session not found")

// Session is the persisted server-side half of a member session.
// The signed token only proves the holder was issued ID; the record proves it is still live.
type Session struct {
	ID        domain.SessionID
	MemberID  domain.MemberID
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Store persists member sessions.
type Store interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, id domain.SessionID) (Session, error)
	// Delete is idempotent: deleting an unknown session is not an error.
	Delete(ctx context.Context, id domain.SessionID) error
	DeleteByMember(ctx context.Context, memberID domain.MemberID) error
}

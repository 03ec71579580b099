package orderrepo

import (
	"context"
	"errors"

	"github.com/apa-portal/member-portal/internal/domain"
)

var (
	ErrNotFound = errors.New("order not found")
	// ErrAlreadyExists is returned for a duplicate ID or order number.
	ErrAlreadyExists = errors.New("order already exists")
)

// Repository persists orders and sample requests.
// List methods return results newest first (CreatedAt descending, then Number descending).
type Repository interface {
	Create(ctx context.Context, o domain.Order) error
	GetByNumber(ctx context.Context, number string) (domain.Order, error)
	ListByMember(ctx context.Context, memberID domain.MemberID) ([]domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
}

package productrepo

import (
	"context"
	"errors"

	"github.com/apa-portal/member-portal/internal/domain"
)

var (
	ErrNotFound = errors.New("product not found")
	// ErrAlreadyExists is returned for a duplicate ID or SKU.
	ErrAlreadyExists = errors.New("product already exists")
)

// Repository provides access to persisted products.
// List returns products ordered by Name ascending (case-insensitive), then ID.
type Repository interface {
	Create(ctx context.Context, p domain.Product) error
	Update(ctx context.Context, p domain.Product) error
	GetByID(ctx context.Context, id domain.ProductID) (domain.Product, error)
	List(ctx context.Context, includeInactive bool) ([]domain.Product, error)
}

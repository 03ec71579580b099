package rewardrepo

import (
	"context"
	"errors"

	"github.com/apa-portal/member-portal/internal/domain"
)

var ErrNotFound = errors.New("reward type not found")

// Repository provides access to the reward type collection.
//
// Result ordering expectations:
//   - ListActiveByCost returns only records with IsActive=true, ordered by PointsCost ascending
//     (ties by Name, then ID).
//   - List orders the same way but includes inactive records when asked.
type Repository interface {
	Create(ctx context.Context, rt domain.RewardType) error
	Update(ctx context.Context, rt domain.RewardType) error
	GetByID(ctx context.Context, id domain.RewardTypeID) (domain.RewardType, error)

	ListActiveByCost(ctx context.Context) ([]domain.RewardType, error)
	List(ctx context.Context, includeInactive bool) ([]domain.RewardType, error)
}

package rewardrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/apa-portal/member-portal/internal/domain"
	"github.com/apa-portal/member-portal/internal/ports/out/rewardrepo"
)

// Repo is an in-memory implementation of rewardrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu   sync.RWMutex
	byID map[domain.RewardTypeID]domain.RewardType
}

func NewRepo() *Repo {
	return &Repo{byID: make(map[domain.RewardTypeID]domain.RewardType)}
}

func (r *Repo) Create(ctx context.Context, rt domain.RewardType) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[rt.ID] = cloneRewardType(rt)
	return nil
}

func (r *Repo) Update(ctx context.Context, rt domain.RewardType) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[rt.ID]; !ok {
		return rewardrepo.ErrNotFound
	}
	r.byID[rt.ID] = cloneRewardType(rt)
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.RewardTypeID) (domain.RewardType, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	rt, ok := r.byID[id]
	if !ok {
		return domain.RewardType{}, rewardrepo.ErrNotFound
	}
	return cloneRewardType(rt), nil
}

func (r *Repo) ListActiveByCost(ctx context.Context) ([]domain.RewardType, error) {
	return r.List(ctx, false)
}

func (r *Repo) List(ctx context.Context, includeInactive bool) ([]domain.RewardType, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.RewardType, 0, len(r.byID))
	for _, rt := range r.byID {
		if !includeInactive && !rt.IsActive {
			continue
		}
		out = append(out, cloneRewardType(rt))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PointsCost != out[j].PointsCost {
			return out[i].PointsCost < out[j].PointsCost
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func cloneRewardType(rt domain.RewardType) domain.RewardType {
	out := rt
	if rt.Description != nil {
		v := *rt.Description
		out.Description = &v
	}
	return out
}

package orderrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/apa-portal/member-portal/internal/domain"
	"github.com/apa-portal/member-portal/internal/ports/out/orderrepo"
)

// Repo is an in-memory implementation of orderrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu sync.RWMutex

	byNumber map[string]domain.Order
	ids      map[domain.OrderID]struct{}
}

func NewRepo() *Repo {
	return &Repo{
		byNumber: make(map[string]domain.Order),
		ids:      make(map[domain.OrderID]struct{}),
	}
}

func (r *Repo) Create(ctx context.Context, o domain.Order) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byNumber[o.Number]; ok {
		return orderrepo.ErrAlreadyExists
	}
	if _, ok := r.ids[o.ID]; ok {
		return orderrepo.ErrAlreadyExists
	}
	r.byNumber[o.Number] = o
	r.ids[o.ID] = struct{}{}
	return nil
}

func (r *Repo) GetByNumber(ctx context.Context, number string) (domain.Order, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.byNumber[number]
	if !ok {
		return domain.Order{}, orderrepo.ErrNotFound
	}
	return o, nil
}

func (r *Repo) ListByMember(ctx context.Context, memberID domain.MemberID) ([]domain.Order, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Order, 0)
	for _, o := range r.byNumber {
		if o.MemberID == memberID {
			out = append(out, o)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *Repo) List(ctx context.Context) ([]domain.Order, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Order, 0, len(r.byNumber))
	for _, o := range r.byNumber {
		out = append(out, o)
	}
	sortNewestFirst(out)
	return out, nil
}

func sortNewestFirst(os []domain.Order) {
	sort.Slice(os, func(i, j int) bool {
		if !os[i].CreatedAt.Equal(os[j].CreatedAt) {
			return os[i].CreatedAt.After(os[j].CreatedAt)
		}
		return os[i].Number > os[j].Number
	})
}

package voucherrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/apa-portal/member-portal/internal/domain"
	"github.com/apa-portal/member-portal/internal/ports/out/voucherrepo"
)

// Repo is an in-memory implementation of voucherrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu     sync.RWMutex
	byCode map[string]domain.Voucher
}

func NewRepo() *Repo {
	return &Repo{byCode: make(map[string]domain.Voucher)}
}

func (r *Repo) Create(ctx context.Context, v domain.Voucher) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byCode[v.Code]; ok {
		return voucherrepo.ErrAlreadyExists
	}
	r.byCode[v.Code] = v
	return nil
}

func (r *Repo) ListByMember(ctx context.Context, memberID domain.MemberID) ([]domain.Voucher, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Voucher, 0)
	for _, v := range r.byCode {
		if v.MemberID == memberID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].IssuedAt.Equal(out[j].IssuedAt) {
			return out[i].IssuedAt.After(out[j].IssuedAt)
		}
		return out[i].Code > out[j].Code
	})
	return out, nil
}

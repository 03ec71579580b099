package productrepo

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/apa-portal/member-portal/internal/domain"
	"github.com/apa-portal/member-portal/internal/ports/out/productrepo"
)

// Repo is an in-memory implementation of productrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu sync.RWMutex

	byID    map[domain.ProductID]domain.Product
	idBySKU map[string]domain.ProductID
}

func NewRepo() *Repo {
	return &Repo{
		byID:    make(map[domain.ProductID]domain.Product),
		idBySKU: make(map[string]domain.ProductID),
	}
}

func (r *Repo) Create(ctx context.Context, p domain.Product) error {
	_ = ctx
	if p.ID == "" {
		return productrepo.ErrAlreadyExists
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[p.ID]; ok {
		return productrepo.ErrAlreadyExists
	}
	if _, ok := r.idBySKU[p.SKU]; ok {
		return productrepo.ErrAlreadyExists
	}
	r.byID[p.ID] = cloneProduct(p)
	r.idBySKU[p.SKU] = p.ID
	return nil
}

func (r *Repo) Update(ctx context.Context, p domain.Product) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[p.ID]
	if !ok {
		return productrepo.ErrNotFound
	}
	if owner, ok := r.idBySKU[p.SKU]; ok && owner != p.ID {
		return productrepo.ErrAlreadyExists
	}
	delete(r.idBySKU, existing.SKU)
	r.idBySKU[p.SKU] = p.ID
	r.byID[p.ID] = cloneProduct(p)
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.ProductID) (domain.Product, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byID[id]
	if !ok {
		return domain.Product{}, productrepo.ErrNotFound
	}
	return cloneProduct(p), nil
}

func (r *Repo) List(ctx context.Context, includeInactive bool) ([]domain.Product, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Product, 0, len(r.byID))
	for _, p := range r.byID {
		if !includeInactive && !p.IsActive {
			continue
		}
		out = append(out, cloneProduct(p))
	}
	sort.Slice(out, func(i, j int) bool {
		ni := strings.ToLower(out[i].Name)
		nj := strings.ToLower(out[j].Name)
		if ni == nj {
			return out[i].ID < out[j].ID
		}
		return ni < nj
	})
	return out, nil
}

func cloneProduct(p domain.Product) domain.Product {
	out := p
	if p.Description != nil {
		v := *p.Description
		out.Description = &v
	}
	return out
}

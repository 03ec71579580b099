package memberrepo

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/apa-portal/member-portal/internal/domain"
	"github.com/apa-portal/member-portal/internal/ports/out/memberrepo"
)

// Repo is an in-memory implementation of memberrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu sync.RWMutex

	byID      map[domain.MemberID]memberrepo.Member
	idByEmail map[string]domain.MemberID
}

func NewRepo() *Repo {
	return &Repo{
		byID:      make(map[domain.MemberID]memberrepo.Member),
		idByEmail: make(map[string]domain.MemberID),
	}
}

func (r *Repo) Create(ctx context.Context, m memberrepo.Member) error {
	_ = ctx
	if m.ID == "" {
		return memberrepo.ErrAlreadyExists // treat empty ID as invalid; the app layer always assigns one
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[m.ID]; ok {
		return memberrepo.ErrAlreadyExists
	}
	key := emailKey(m.Email)
	if _, ok := r.idByEmail[key]; ok {
		return memberrepo.ErrEmailAlreadyInUse
	}

	r.byID[m.ID] = m
	r.idByEmail[key] = m.ID
	return nil
}

func (r *Repo) Update(ctx context.Context, m memberrepo.Member) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[m.ID]
	if !ok {
		return memberrepo.ErrNotFound
	}
	newKey := emailKey(m.Email)
	if owner, ok := r.idByEmail[newKey]; ok && owner != m.ID {
		return memberrepo.ErrEmailAlreadyInUse
	}

	delete(r.idByEmail, emailKey(existing.Email))
	r.idByEmail[newKey] = m.ID
	r.byID[m.ID] = m
	return nil
}

func (r *Repo) AdjustPoints(ctx context.Context, id domain.MemberID, delta int, at time.Time) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.byID[id]
	if !ok {
		return memberrepo.ErrNotFound
	}
	if m.PointsBalance+delta < 0 {
		return memberrepo.ErrInsufficientPoints
	}
	m.PointsBalance += delta
	m.UpdatedAt = at
	r.byID[id] = m
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.MemberID) (memberrepo.Member, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.byID[id]
	if !ok {
		return memberrepo.Member{}, memberrepo.ErrNotFound
	}
	return m, nil
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (memberrepo.Member, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.idByEmail[emailKey(email)]
	if !ok {
		return memberrepo.Member{}, memberrepo.ErrNotFound
	}
	m, ok := r.byID[id]
	if !ok {
		return memberrepo.Member{}, memberrepo.ErrNotFound
	}
	return m, nil
}

func (r *Repo) List(ctx context.Context, includeInactive bool) ([]memberrepo.Member, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]memberrepo.Member, 0, len(r.byID))
	for _, m := range r.byID {
		if !includeInactive && !m.IsActive {
			continue
		}
		out = append(out, m)
	}
	sortMembersByDisplayName(out)
	return out, nil
}

func (r *Repo) SearchActiveByDisplayName(ctx context.Context, query string, limit int) ([]memberrepo.Member, error) {
	_ = ctx

	qTokens := tokenize(query)
	if len(qTokens) == 0 {
		return []memberrepo.Member{}, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]memberrepo.Member, 0)
	for _, m := range r.byID {
		if !m.IsActive {
			continue
		}
		if matchesAllTokens(m.DisplayName, qTokens) {
			out = append(out, m)
		}
	}
	sortMembersByDisplayName(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func sortMembersByDisplayName(ms []memberrepo.Member) {
	sort.Slice(ms, func(i, j int) bool {
		di := strings.ToLower(ms[i].DisplayName)
		dj := strings.ToLower(ms[j].DisplayName)
		if di == dj {
			return string(ms[i].ID) < string(ms[j].ID)
		}
		return di < dj
	})
}

func tokenize(s string) []string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return nil
	}
	return strings.Fields(s)
}

func matchesAllTokens(displayName string, tokens []string) bool {
	hay := strings.ToLower(displayName)
	for _, t := range tokens {
		if !strings.Contains(hay, t) {
			return false
		}
	}
	return true
}

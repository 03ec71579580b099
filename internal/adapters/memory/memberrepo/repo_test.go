package memberrepo

import (
	"context"
	"testing"
	"time"

	"github.com/apa-portal/member-portal/internal/domain"
	"github.com/apa-portal/member-portal/internal/ports/out/memberrepo"
)

func TestRepo_CreateAndGet(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	now := time.Unix(100, 0).UTC()

	m := memberrepo.Member{
		ID:            domain.MemberID("m1"),
		DisplayName:   "Alice Smith",
		Email:         "Alice@Example.com",
		PasswordHash:  "hash",
		IsActive:      true,
		PointsBalance: 250,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := r.Create(context.Background(), m); err != nil {
		t.Fatalf("Create() err=%v", err)
	}

	gotByID, err := r.GetByID(context.Background(), m.ID)
	if err != nil {
		t.Fatalf("GetByID() err=%v", err)
	}
	if gotByID != m {
		t.Fatalf("GetByID()=%+v, want %+v", gotByID, m)
	}

	gotByEmail, err := r.GetByEmail(context.Background(), "alice@example.COM")
	if err != nil {
		t.Fatalf("GetByEmail() err=%v", err)
	}
	if gotByEmail.ID != m.ID {
		t.Fatalf("GetByEmail().ID=%q, want %q", gotByEmail.ID, m.ID)
	}
}

func TestRepo_CreateRejectsDuplicateID(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	m1 := memberrepo.Member{ID: "m1", Email: "a@example.com", DisplayName: "A", IsActive: true}
	m2 := memberrepo.Member{ID: "m1", Email: "b@example.com", DisplayName: "B", IsActive: true}

	if err := r.Create(context.Background(), m1); err != nil {
		t.Fatalf("Create(m1) err=%v", err)
	}
	if err := r.Create(context.Background(), m2); err != memberrepo.ErrAlreadyExists {
		t.Fatalf("Create(m2) err=%v, want %v", err, memberrepo.ErrAlreadyExists)
	}
}

func TestRepo_CreateRejectsDuplicateEmail(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	m1 := memberrepo.Member{ID: "m1", Email: "a@example.com", DisplayName: "A", IsActive: true}
	m2 := memberrepo.Member{ID: "m2", Email: "A@EXAMPLE.com", DisplayName: "B", IsActive: true}

	if err := r.Create(context.Background(), m1); err != nil {
		t.Fatalf("Create(m1) err=%v", err)
	}
	if err := r.Create(context.Background(), m2); err != memberrepo.ErrEmailAlreadyInUse {
		t.Fatalf("Create(m2) err=%v, want %v", err, memberrepo.ErrEmailAlreadyInUse)
	}
}

func TestRepo_UpdateRequiresExistingAndReindexesEmail(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	ctx := context.Background()

	m := memberrepo.Member{ID: "m1", Email: "alice@example.com", DisplayName: "Alice", IsActive: true}
	if err := r.Update(ctx, m); err != memberrepo.ErrNotFound {
		t.Fatalf("Update(nonexistent) err=%v, want %v", err, memberrepo.ErrNotFound)
	}
	if err := r.Create(ctx, m); err != nil {
		t.Fatalf("Create() err=%v", err)
	}
	if err := r.Create(ctx, memberrepo.Member{ID: "m2", Email: "bob@example.com", DisplayName: "Bob", IsActive: true}); err != nil {
		t.Fatalf("Create(bob) err=%v", err)
	}

	taken := m
	taken.Email = "BOB@example.com"
	if err := r.Update(ctx, taken); err != memberrepo.ErrEmailAlreadyInUse {
		t.Fatalf("Update(taken email) err=%v, want %v", err, memberrepo.ErrEmailAlreadyInUse)
	}

	updated := m
	updated.Email = "alice.z@example.com"
	updated.DisplayName = "Alice Z"
	updated.IsActive = false
	if err := r.Update(ctx, updated); err != nil {
		t.Fatalf("Update() err=%v", err)
	}
	if _, err := r.GetByEmail(ctx, "alice@example.com"); err != memberrepo.ErrNotFound {
		t.Fatalf("old email still indexed: err=%v", err)
	}
	got, err := r.GetByEmail(ctx, "alice.z@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() err=%v", err)
	}
	if got.DisplayName != "Alice Z" || got.IsActive {
		t.Fatalf("after update=%+v", got)
	}
}

func TestRepo_ListOrdersByDisplayName(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	_ = r.Create(context.Background(), memberrepo.Member{ID: "m2", Email: "b1@x.com", DisplayName: "bob", IsActive: true})
	_ = r.Create(context.Background(), memberrepo.Member{ID: "m1", Email: "a@x.com", DisplayName: "Alice", IsActive: true})
	_ = r.Create(context.Background(), memberrepo.Member{ID: "m3", Email: "b2@x.com", DisplayName: "Bob", IsActive: true})

	got, err := r.List(context.Background(), true)
	if err != nil {
		t.Fatalf("List() err=%v", err)
	}
	if len(got) != 3 {
		t.Fatalf("List() len=%d, want 3", len(got))
	}
	// Case-insensitive sort; tie breaks by ID.
	if got[0].DisplayName != "Alice" || got[1].ID != "m2" || got[2].ID != "m3" {
		t.Fatalf("List() order=%v", []domain.MemberID{got[0].ID, got[1].ID, got[2].ID})
	}
}

func TestRepo_ListFiltersInactiveUnlessIncluded(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	_ = r.Create(context.Background(), memberrepo.Member{ID: "m1", Email: "a@x.com", DisplayName: "A", IsActive: true})
	_ = r.Create(context.Background(), memberrepo.Member{ID: "m2", Email: "b@x.com", DisplayName: "B", IsActive: false})

	got, err := r.List(context.Background(), false)
	if err != nil {
		t.Fatalf("List() err=%v", err)
	}
	if len(got) != 1 || got[0].ID != "m1" {
		t.Fatalf("List(includeInactive=false)=%v, want [m1]", got)
	}

	got, err = r.List(context.Background(), true)
	if err != nil {
		t.Fatalf("List() err=%v", err)
	}
	if len(got) != 2 {
		t.Fatalf("List(includeInactive=true) len=%d, want 2", len(got))
	}
}

func TestRepo_SearchActiveByDisplayName_TokenizedCaseInsensitive(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	_ = r.Create(context.Background(), memberrepo.Member{ID: "m1", Email: "j@x.com", DisplayName: "John Smith", IsActive: true})
	_ = r.Create(context.Background(), memberrepo.Member{ID: "m2", Email: "jo@x.com", DisplayName: "Joanna Smythe", IsActive: true})
	_ = r.Create(context.Background(), memberrepo.Member{ID: "m3", Email: "q@x.com", DisplayName: "John  Q  Public", IsActive: false})

	got, err := r.SearchActiveByDisplayName(context.Background(), "SMI joH", 10)
	if err != nil {
		t.Fatalf("SearchActiveByDisplayName() err=%v", err)
	}
	if len(got) != 1 || got[0].ID != "m1" {
		t.Fatalf("SearchActiveByDisplayName()=%v, want [m1]", got)
	}
}

func TestRepo_SearchActiveByDisplayName_RespectsLimit(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	_ = r.Create(context.Background(), memberrepo.Member{ID: "m1", Email: "a@x.com", DisplayName: "Ann A", IsActive: true})
	_ = r.Create(context.Background(), memberrepo.Member{ID: "m2", Email: "b@x.com", DisplayName: "Ann B", IsActive: true})

	got, err := r.SearchActiveByDisplayName(context.Background(), "ann", 1)
	if err != nil {
		t.Fatalf("SearchActiveByDisplayName() err=%v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len=%d, want 1", len(got))
	}
}

package contracttest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/apa-portal/member-portal/internal/domain"
	idempotencyport "github.com/apa-portal/member-portal/internal/ports/out/idempotency"
	memberrepoport "github.com/apa-portal/member-portal/internal/ports/out/memberrepo"
	orderrepoport "github.com/apa-portal/member-portal/internal/ports/out/orderrepo"
	productrepoport "github.com/apa-portal/member-portal/internal/ports/out/productrepo"
	rewardrepoport "github.com/apa-portal/member-portal/internal/ports/out/rewardrepo"
	sessionstoreport "github.com/apa-portal/member-portal/internal/ports/out/sessionstore"
	voucherrepoport "github.com/apa-portal/member-portal/internal/ports/out/voucherrepo"
)

type CleanupFunc = func()

type MemberRepoFactory func(t *testing.T) (memberrepoport.Repository, CleanupFunc)
type ProductRepoFactory func(t *testing.T) (productrepoport.Repository, CleanupFunc)
type RewardRepoFactory func(t *testing.T) (rewardrepoport.Repository, CleanupFunc)
type VoucherRepoFactory func(t *testing.T) (voucherrepoport.Repository, CleanupFunc)
type OrderRepoFactory func(t *testing.T) (orderrepoport.Repository, CleanupFunc)
type SessionStoreFactory func(t *testing.T) (sessionstoreport.Store, CleanupFunc)
type IdemStoreFactory func(t *testing.T) (idempotencyport.Store, CleanupFunc)

func RunIdempotencyStore(t *testing.T, newStore IdemStoreFactory) {
	t.Helper()
	ctx := context.Background()

	store, cleanup := newStore(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	fp := idempotencyport.Fingerprint{
		Key:      "k-1",
		MemberID: domain.MemberID(uuid.NewString()),
		Method:   "POST",
		Route:    "/api/orders",
		BodyHash: "",
	}
	if _, ok, err := store.Get(ctx, fp); err != nil || ok {
		t.Fatalf("Get before Put: ok=%v err=%v", ok, err)
	}
	rec := idempotencyport.Record{
		StatusCode:  0,
		ContentType: "text/plain",
		Body:        []byte("hash-abc"),
		CreatedAt:   time.Unix(123, 0).UTC(),
	}
	if err := store.Put(ctx, fp, rec); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := store.Get(ctx, fp)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatalf("expected ok=true")
	}
	if string(got.Body) != "hash-abc" || got.ContentType != "text/plain" || got.StatusCode != 0 {
		t.Fatalf("unexpected record: %+v", got)
	}

	// Overwrite semantics.
	rec2 := rec
	rec2.Body = []byte("hash-def")
	if err := store.Put(ctx, fp, rec2); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	got, ok, err = store.Get(ctx, fp)
	if err != nil || !ok || string(got.Body) != "hash-def" {
		t.Fatalf("expected overwritten record, got ok=%v err=%v body=%q", ok, err, string(got.Body))
	}
}

func RunMemberRepo(t *testing.T, newRepo MemberRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	now := time.Unix(1000, 0).UTC()
	aID := domain.MemberID(uuid.NewString())
	if err := repo.Create(ctx, memberrepoport.Member{
		ID:            aID,
		DisplayName:   "Alice Johnson",
		Email:         "alice@example.com",
		PasswordHash:  "hash-a",
		IsActive:      true,
		PointsBalance: 500,
		CreatedAt:     now,
		UpdatedAt:     now,
	}); err != nil {
		t.Fatalf("Create a: %v", err)
	}
	got, err := repo.GetByID(ctx, aID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.PasswordHash != "hash-a" || got.PointsBalance != 500 || !got.CreatedAt.Equal(now) {
		t.Fatalf("unexpected member: %+v", got)
	}
	if _, err := repo.GetByEmail(ctx, "ALICE@example.com"); err != nil {
		t.Fatalf("GetByEmail (case-insensitive): %v", err)
	}
	if _, err := repo.GetByID(ctx, domain.MemberID(uuid.NewString())); !errors.Is(err, memberrepoport.ErrNotFound) {
		t.Fatalf("GetByID unknown: err=%v, want ErrNotFound", err)
	}

	// Email uniqueness.
	if err := repo.Create(ctx, memberrepoport.Member{
		ID:          domain.MemberID(uuid.NewString()),
		DisplayName: "Alice 2",
		Email:       "Alice@Example.com",
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}); !errors.Is(err, memberrepoport.ErrEmailAlreadyInUse) {
		t.Fatalf("expected ErrEmailAlreadyInUse, got %v", err)
	}

	// Deterministic list ordering by displayName (case-insensitive).
	bID := domain.MemberID(uuid.NewString())
	if err := repo.Create(ctx, memberrepoport.Member{
		ID:          bID,
		DisplayName: "bob",
		Email:       "bob@example.com",
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}); err != nil {
		t.Fatalf("Create b: %v", err)
	}
	cs, err := repo.List(ctx, true)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(cs) < 2 || cs[0].DisplayName != "Alice Johnson" {
		t.Fatalf("unexpected ordering: %#v", cs)
	}

	// Update persists balance and flags.
	upd := got
	upd.PointsBalance = 125
	upd.IsAdmin = true
	upd.UpdatedAt = now.Add(time.Minute)
	if err := repo.Update(ctx, upd); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err = repo.GetByID(ctx, aID)
	if err != nil || got.PointsBalance != 125 || !got.IsAdmin {
		t.Fatalf("after update: %+v err=%v", got, err)
	}

	// AdjustPoints only touches the balance and never goes negative.
	later := now.Add(2 * time.Minute)
	if err := repo.AdjustPoints(ctx, aID, -100, later); err != nil {
		t.Fatalf("AdjustPoints debit: %v", err)
	}
	if err := repo.AdjustPoints(ctx, aID, -26, later); !errors.Is(err, memberrepoport.ErrInsufficientPoints) {
		t.Fatalf("overdraw: err=%v, want ErrInsufficientPoints", err)
	}
	if err := repo.AdjustPoints(ctx, aID, 10, later); err != nil {
		t.Fatalf("AdjustPoints credit: %v", err)
	}
	if err := repo.AdjustPoints(ctx, domain.MemberID(uuid.NewString()), -1, later); !errors.Is(err, memberrepoport.ErrNotFound) {
		t.Fatalf("unknown member: err=%v, want ErrNotFound", err)
	}
	got, err = repo.GetByID(ctx, aID)
	if err != nil || got.PointsBalance != 35 || !got.IsAdmin || got.DisplayName != "Alice Johnson" || !got.UpdatedAt.Equal(later) {
		t.Fatalf("after AdjustPoints: %+v err=%v", got, err)
	}

	// Search token match (AND across tokens), active-only, limit.
	if err := repo.Create(ctx, memberrepoport.Member{
		ID:          domain.MemberID(uuid.NewString()),
		DisplayName: "Alice Inactive",
		Email:       "alice-inactive@example.com",
		IsActive:    false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}); err != nil {
		t.Fatalf("Create inactive: %v", err)
	}
	res, err := repo.SearchActiveByDisplayName(ctx, "ali jo", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res) != 1 || res[0].ID != aID {
		t.Fatalf("unexpected search result: %#v", res)
	}
}

func RunProductRepo(t *testing.T, newRepo ProductRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	now := time.Unix(2000, 0).UTC()
	desc := "Loose leaf"
	tea := domain.Product{
		ID:              domain.ProductID(uuid.NewString()),
		SKU:             "TEA-01",
		Name:            "Tea",
		Description:     &desc,
		PriceCents:      1250,
		SampleAvailable: true,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := repo.Create(ctx, tea); err != nil {
		t.Fatalf("Create tea: %v", err)
	}
	got, err := repo.GetByID(ctx, tea.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.SKU != "TEA-01" || got.Description == nil || *got.Description != desc || !got.SampleAvailable {
		t.Fatalf("unexpected product: %+v", got)
	}

	dup := tea
	dup.ID = domain.ProductID(uuid.NewString())
	if err := repo.Create(ctx, dup); !errors.Is(err, productrepoport.ErrAlreadyExists) {
		t.Fatalf("duplicate SKU: err=%v, want ErrAlreadyExists", err)
	}

	apron := domain.Product{
		ID:        domain.ProductID(uuid.NewString()),
		SKU:       "APR-01",
		Name:      "apron",
		IsActive:  false,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := repo.Create(ctx, apron); err != nil {
		t.Fatalf("Create apron: %v", err)
	}
	active, err := repo.List(ctx, false)
	if err != nil || len(active) != 1 || active[0].ID != tea.ID {
		t.Fatalf("List active: %#v err=%v", active, err)
	}
	all, err := repo.List(ctx, true)
	if err != nil || len(all) != 2 || all[0].ID != apron.ID {
		t.Fatalf("List all (name order): %#v err=%v", all, err)
	}

	got.Description = nil
	got.PriceCents = 1500
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err = repo.GetByID(ctx, tea.ID)
	if err != nil || got.Description != nil || got.PriceCents != 1500 {
		t.Fatalf("after update: %+v err=%v", got, err)
	}

	missing := tea
	missing.ID = domain.ProductID(uuid.NewString())
	missing.SKU = "NEW-01"
	if err := repo.Update(ctx, missing); !errors.Is(err, productrepoport.ErrNotFound) {
		t.Fatalf("Update unknown: err=%v, want ErrNotFound", err)
	}
}

// RunRewardRepo covers the catalog contract: active-only, ascending points cost.
func RunRewardRepo(t *testing.T, newRepo RewardRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	now := time.Unix(3000, 0).UTC()
	mk := func(name string, cost int, active bool) domain.RewardType {
		return domain.RewardType{
			ID:         domain.RewardTypeID(uuid.NewString()),
			Name:       name,
			PointsCost: cost,
			IsActive:   active,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
	}
	mug := mk("Mug", 200, true)
	retired := mk("Retired Cap", 300, false)
	sticker := mk("Sticker", 100, true)
	for _, rt := range []domain.RewardType{mug, retired, sticker} {
		if err := repo.Create(ctx, rt); err != nil {
			t.Fatalf("Create %s: %v", rt.Name, err)
		}
	}

	catalog, err := repo.ListActiveByCost(ctx)
	if err != nil {
		t.Fatalf("ListActiveByCost: %v", err)
	}
	if len(catalog) != 2 || catalog[0].ID != sticker.ID || catalog[1].ID != mug.ID {
		t.Fatalf("unexpected catalog: %#v", catalog)
	}
	for _, rt := range catalog {
		if !rt.IsActive {
			t.Fatalf("inactive record in catalog: %#v", rt)
		}
	}

	all, err := repo.List(ctx, true)
	if err != nil || len(all) != 3 || all[2].ID != retired.ID {
		t.Fatalf("List all: %#v err=%v", all, err)
	}

	retired.IsActive = true
	retired.PointsCost = 50
	if err := repo.Update(ctx, retired); err != nil {
		t.Fatalf("Update: %v", err)
	}
	catalog, err = repo.ListActiveByCost(ctx)
	if err != nil || len(catalog) != 3 || catalog[0].ID != retired.ID {
		t.Fatalf("catalog after reactivation: %#v err=%v", catalog, err)
	}

	if _, err := repo.GetByID(ctx, domain.RewardTypeID(uuid.NewString())); !errors.Is(err, rewardrepoport.ErrNotFound) {
		t.Fatalf("GetByID unknown: err=%v, want ErrNotFound", err)
	}
}

// RunVoucherRepo needs a seeded member and reward type for stores with foreign keys,
// so the factory receives them via the seed callback.
func RunVoucherRepo(t *testing.T, newRepo VoucherRepoFactory) {
	RunVoucherRepoWithSeed(t, newRepo, nil)
}

// VoucherSeed returns the member and reward type IDs vouchers may reference.
type VoucherSeed func(t *testing.T) (domain.MemberID, domain.RewardTypeID)

func RunVoucherRepoWithSeed(t *testing.T, newRepo VoucherRepoFactory, seed VoucherSeed) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	memberID := domain.MemberID(uuid.NewString())
	rewardID := domain.RewardTypeID(uuid.NewString())
	if seed != nil {
		memberID, rewardID = seed(t)
	}

	now := time.Unix(4000, 0).UTC()
	first := domain.Voucher{Code: "APA-ABCD-EFGH", RewardTypeID: rewardID, MemberID: memberID, PointsCost: 100, IssuedAt: now}
	second := domain.Voucher{Code: "APA-JKLM-NPQR", RewardTypeID: rewardID, MemberID: memberID, PointsCost: 100, IssuedAt: now.Add(time.Minute)}
	for _, v := range []domain.Voucher{first, second} {
		if err := repo.Create(ctx, v); err != nil {
			t.Fatalf("Create %s: %v", v.Code, err)
		}
	}
	if err := repo.Create(ctx, first); !errors.Is(err, voucherrepoport.ErrAlreadyExists) {
		t.Fatalf("duplicate code: err=%v, want ErrAlreadyExists", err)
	}

	vs, err := repo.ListByMember(ctx, memberID)
	if err != nil {
		t.Fatalf("ListByMember: %v", err)
	}
	if len(vs) != 2 || vs[0].Code != second.Code || vs[1].Code != first.Code {
		t.Fatalf("unexpected vouchers: %#v", vs)
	}
	if !vs[1].IssuedAt.Equal(now) || vs[1].PointsCost != 100 {
		t.Fatalf("unexpected voucher fields: %#v", vs[1])
	}
}

// OrderSeed returns the member and product IDs orders may reference.
type OrderSeed func(t *testing.T) (domain.MemberID, domain.ProductID)

func RunOrderRepo(t *testing.T, newRepo OrderRepoFactory) {
	RunOrderRepoWithSeed(t, newRepo, nil)
}

func RunOrderRepoWithSeed(t *testing.T, newRepo OrderRepoFactory, seed OrderSeed) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	memberID := domain.MemberID(uuid.NewString())
	productID := domain.ProductID(uuid.NewString())
	if seed != nil {
		memberID, productID = seed(t)
	}

	now := time.Unix(5000, 0).UTC()
	order := domain.Order{
		ID:             domain.OrderID(uuid.NewString()),
		Number:         "ORD-20240305-1234",
		Kind:           domain.OrderKindOrder,
		MemberID:       memberID,
		ProductID:      productID,
		Quantity:       3,
		UnitPriceCents: 1250,
		CreatedAt:      now,
	}
	sample := domain.Order{
		ID:        domain.OrderID(uuid.NewString()),
		Number:    "SMP-20240305-5678",
		Kind:      domain.OrderKindSample,
		MemberID:  memberID,
		ProductID: productID,
		Quantity:  1,
		CreatedAt: now.Add(time.Minute),
	}
	for _, o := range []domain.Order{order, sample} {
		if err := repo.Create(ctx, o); err != nil {
			t.Fatalf("Create %s: %v", o.Number, err)
		}
	}

	collision := order
	collision.ID = domain.OrderID(uuid.NewString())
	if err := repo.Create(ctx, collision); !errors.Is(err, orderrepoport.ErrAlreadyExists) {
		t.Fatalf("duplicate number: err=%v, want ErrAlreadyExists", err)
	}

	got, err := repo.GetByNumber(ctx, order.Number)
	if err != nil {
		t.Fatalf("GetByNumber: %v", err)
	}
	if got.ID != order.ID || got.Quantity != 3 || got.UnitPriceCents != 1250 || got.Kind != domain.OrderKindOrder {
		t.Fatalf("unexpected order: %#v", got)
	}
	if _, err := repo.GetByNumber(ctx, "ORD-19990101-1000"); !errors.Is(err, orderrepoport.ErrNotFound) {
		t.Fatalf("GetByNumber unknown: err=%v, want ErrNotFound", err)
	}

	mine, err := repo.ListByMember(ctx, memberID)
	if err != nil || len(mine) != 2 || mine[0].Number != sample.Number {
		t.Fatalf("ListByMember: %#v err=%v", mine, err)
	}
	all, err := repo.List(ctx)
	if err != nil || len(all) < 2 {
		t.Fatalf("List: %#v err=%v", all, err)
	}
}

// SessionSeed returns a member ID sessions may reference.
type SessionSeed func(t *testing.T) domain.MemberID

func RunSessionStore(t *testing.T, newStore SessionStoreFactory) {
	RunSessionStoreWithSeed(t, newStore, nil)
}

func RunSessionStoreWithSeed(t *testing.T, newStore SessionStoreFactory, seed SessionSeed) {
	t.Helper()
	ctx := context.Background()

	store, cleanup := newStore(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	memberID := domain.MemberID(uuid.NewString())
	if seed != nil {
		memberID = seed(t)
	}

	now := time.Unix(6000, 0).UTC()
	s1 := sessionstoreport.Session{
		ID:        domain.SessionID(uuid.NewString()),
		MemberID:  memberID,
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}
	s2 := s1
	s2.ID = domain.SessionID(uuid.NewString())
	for _, s := range []sessionstoreport.Session{s1, s2} {
		if err := store.Create(ctx, s); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	got, err := store.Get(ctx, s1.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.MemberID != memberID || !got.ExpiresAt.Equal(s1.ExpiresAt) {
		t.Fatalf("unexpected session: %#v", got)
	}

	if err := store.Delete(ctx, s1.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Delete(ctx, s1.ID); err != nil {
		t.Fatalf("Delete twice should be idempotent: %v", err)
	}
	if _, err := store.Get(ctx, s1.ID); !errors.Is(err, sessionstoreport.ErrNotFound) {
		t.Fatalf("Get deleted: err=%v, want ErrNotFound", err)
	}

	if err := store.DeleteByMember(ctx, memberID); err != nil {
		t.Fatalf("DeleteByMember: %v", err)
	}
	if _, err := store.Get(ctx, s2.ID); !errors.Is(err, sessionstoreport.ErrNotFound) {
		t.Fatalf("Get after DeleteByMember: err=%v, want ErrNotFound", err)
	}
}

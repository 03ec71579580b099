package orders

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	memclock "github.com/apa-portal/member-portal/internal/adapters/memory/clock"
	memorderrepo "github.com/apa-portal/member-portal/internal/adapters/memory/orderrepo"
	memproductrepo "github.com/apa-portal/member-portal/internal/adapters/memory/productrepo"
	"github.com/apa-portal/member-portal/internal/app/apperr"
	"github.com/apa-portal/member-portal/internal/domain"
	"github.com/apa-portal/member-portal/internal/platform/idgen"
	"github.com/apa-portal/member-portal/internal/ports/out/orderrepo"
)

type scriptedNumbers struct {
	orders  []string
	samples []string
	calls   int
}

func (s *scriptedNumbers) OrderNumber() string {
	n := s.orders[s.calls%len(s.orders)]
	s.calls++
	return n
}

func (s *scriptedNumbers) SampleRequestNumber() string {
	n := s.samples[s.calls%len(s.samples)]
	s.calls++
	return n
}

func seedProducts(t *testing.T, repo *memproductrepo.Repo) {
	t.Helper()
	for _, p := range []domain.Product{
		{ID: "p-beans", SKU: "BEANS", Name: "Beans", PriceCents: 1599, SampleAvailable: true, IsActive: true},
		{ID: "p-grinder", SKU: "GRINDER", Name: "Grinder", PriceCents: 8900, IsActive: true},
		{ID: "p-old", SKU: "OLD", Name: "Old", PriceCents: 100, SampleAvailable: true, IsActive: false},
	} {
		if err := repo.Create(context.Background(), p); err != nil {
			t.Fatalf("seed product: %v", err)
		}
	}
}

func TestService_PlaceOrder_UsesDatedOrderNumber(t *testing.T) {
	t.Parallel()

	products := memproductrepo.NewRepo()
	seedProducts(t, products)
	clk := memclock.NewManualClock(time.Date(2024, 3, 5, 9, 30, 0, 0, time.UTC))
	svc := NewService(memorderrepo.NewRepo(), products, idgen.New(clk), clk)

	o, err := svc.PlaceOrder(context.Background(), "m-1", "p-beans", 2)
	if err != nil {
		t.Fatalf("PlaceOrder err=%v", err)
	}
	if !regexp.MustCompile(`^ORD-20240305-\d{4}$`).MatchString(o.Number) {
		t.Fatalf("number=%q", o.Number)
	}
	if o.Kind != domain.OrderKindOrder || o.Quantity != 2 || o.UnitPriceCents != 1599 {
		t.Fatalf("order=%+v", o)
	}
}

func TestService_RequestSample(t *testing.T) {
	t.Parallel()

	products := memproductrepo.NewRepo()
	seedProducts(t, products)
	clk := memclock.NewManualClock(time.Date(2024, 3, 5, 9, 30, 0, 0, time.UTC))
	svc := NewService(memorderrepo.NewRepo(), products, idgen.New(clk), clk)
	ctx := context.Background()

	o, err := svc.RequestSample(ctx, "m-1", "p-beans")
	if err != nil {
		t.Fatalf("RequestSample err=%v", err)
	}
	if !regexp.MustCompile(`^SMP-20240305-\d{4}$`).MatchString(o.Number) || o.Quantity != 1 || o.UnitPriceCents != 0 {
		t.Fatalf("sample=%+v", o)
	}

	_, err = svc.RequestSample(ctx, "m-1", "p-grinder")
	if !apperr.HasCode(err, "SAMPLES_UNAVAILABLE") {
		t.Fatalf("err=%v, want SAMPLES_UNAVAILABLE", err)
	}
	_, err = svc.RequestSample(ctx, "m-1", "p-old")
	if !apperr.HasCode(err, "PRODUCT_INACTIVE") {
		t.Fatalf("err=%v, want PRODUCT_INACTIVE", err)
	}
	_, err = svc.RequestSample(ctx, "m-1", "p-missing")
	if !apperr.HasCode(err, "PRODUCT_NOT_FOUND") {
		t.Fatalf("err=%v, want PRODUCT_NOT_FOUND", err)
	}
}

func TestService_PlaceOrder_QuantityBounds(t *testing.T) {
	t.Parallel()

	products := memproductrepo.NewRepo()
	seedProducts(t, products)
	clk := memclock.NewManualClock(time.Unix(0, 0).UTC())
	svc := NewService(memorderrepo.NewRepo(), products, idgen.New(clk), clk)

	for _, q := range []int{0, -1, MaxQuantity + 1} {
		_, err := svc.PlaceOrder(context.Background(), "m-1", "p-beans", q)
		if !apperr.HasCode(err, "VALIDATION_ERROR") {
			t.Fatalf("quantity %d: err=%v, want VALIDATION_ERROR", q, err)
		}
	}
}

func TestService_PlaceOrder_RetriesCollisions(t *testing.T) {
	t.Parallel()

	products := memproductrepo.NewRepo()
	seedProducts(t, products)
	orders := memorderrepo.NewRepo()
	clk := memclock.NewManualClock(time.Unix(0, 0).UTC())
	numbers := &scriptedNumbers{orders: []string{"ORD-20240305-1000", "ORD-20240305-1000", "ORD-20240305-2000"}}
	svc := NewService(orders, products, numbers, clk)
	ctx := context.Background()

	first, err := svc.PlaceOrder(ctx, "m-1", "p-beans", 1)
	if err != nil {
		t.Fatalf("PlaceOrder err=%v", err)
	}
	second, err := svc.PlaceOrder(ctx, "m-1", "p-beans", 1)
	if err != nil {
		t.Fatalf("PlaceOrder err=%v", err)
	}
	if first.Number != "ORD-20240305-1000" || second.Number != "ORD-20240305-2000" {
		t.Fatalf("numbers=%s,%s", first.Number, second.Number)
	}

	numbers.orders = []string{"ORD-20240305-1000"}
	numbers.calls = 0
	_, err = svc.PlaceOrder(ctx, "m-1", "p-beans", 1)
	if !errors.Is(err, orderrepo.ErrAlreadyExists) || numbers.calls != MaxIssueAttempts {
		t.Fatalf("err=%v calls=%d, want ErrAlreadyExists after %d draws", err, numbers.calls, MaxIssueAttempts)
	}
}

func TestService_ListOrders_NewestFirst(t *testing.T) {
	t.Parallel()

	products := memproductrepo.NewRepo()
	seedProducts(t, products)
	clk := memclock.NewManualClock(time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC))
	svc := NewService(memorderrepo.NewRepo(), products, idgen.New(clk), clk)
	ctx := context.Background()

	a, _ := svc.PlaceOrder(ctx, "m-1", "p-beans", 1)
	clk.Advance(time.Minute)
	b, _ := svc.RequestSample(ctx, "m-1", "p-beans")
	clk.Advance(time.Minute)
	if _, err := svc.PlaceOrder(ctx, "m-2", "p-grinder", 1); err != nil {
		t.Fatalf("PlaceOrder err=%v", err)
	}

	mine, err := svc.ListOrdersForMember(ctx, "m-1")
	if err != nil || len(mine) != 2 || mine[0].ID != b.ID || mine[1].ID != a.ID {
		t.Fatalf("mine=%+v err=%v", mine, err)
	}
	all, err := svc.ListOrders(ctx)
	if err != nil || len(all) != 3 || all[0].MemberID != "m-2" {
		t.Fatalf("all=%+v err=%v", all, err)
	}
}

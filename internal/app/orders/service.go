package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/apa-portal/member-portal/internal/app/apperr"
	"github.com/apa-portal/member-portal/internal/domain"
	clockport "github.com/apa-portal/member-portal/internal/ports/out/clock"
	"github.com/apa-portal/member-portal/internal/ports/out/orderrepo"
	"github.com/apa-portal/member-portal/internal/ports/out/productrepo"
)

const (
	// MaxIssueAttempts bounds number draws when the store reports a collision.
	MaxIssueAttempts = 5
	MaxQuantity      = 100
)

// NumberGenerator draws order and sample-request numbers. Numbers carry no uniqueness promise.
type NumberGenerator interface {
	OrderNumber() string
	SampleRequestNumber() string
}

type Service struct {
	orders   orderrepo.Repository
	products productrepo.Repository
	numbers  NumberGenerator
	clk      clockport.Clock

	newOrderID func() domain.OrderID
}

func NewService(orders orderrepo.Repository, products productrepo.Repository, numbers NumberGenerator, clk clockport.Clock) *Service {
	return &Service{
		orders:   orders,
		products: products,
		numbers:  numbers,
		clk:      clk,
		newOrderID: func() domain.OrderID {
			return domain.OrderID(uuid.NewString())
		},
	}
}

func (s *Service) PlaceOrder(ctx context.Context, memberID domain.MemberID, productID domain.ProductID, quantity int) (domain.Order, error) {
	if quantity < 1 || quantity > MaxQuantity {
		return domain.Order{}, apperr.Validation("invalid quantity", "quantity", fmt.Sprintf("must be between 1 and %d", MaxQuantity))
	}
	p, err := s.activeProduct(ctx, productID)
	if err != nil {
		return domain.Order{}, err
	}
	o := domain.Order{
		Kind:           domain.OrderKindOrder,
		MemberID:       memberID,
		ProductID:      p.ID,
		Quantity:       quantity,
		UnitPriceCents: p.PriceCents,
	}
	if err := s.issue(ctx, &o, s.numbers.OrderNumber); err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

func (s *Service) RequestSample(ctx context.Context, memberID domain.MemberID, productID domain.ProductID) (domain.Order, error) {
	p, err := s.activeProduct(ctx, productID)
	if err != nil {
		return domain.Order{}, err
	}
	if !p.SampleAvailable {
		return domain.Order{}, apperr.Unprocessable("SAMPLES_UNAVAILABLE", "samples are not offered for this product")
	}
	o := domain.Order{
		Kind:      domain.OrderKindSample,
		MemberID:  memberID,
		ProductID: p.ID,
		Quantity:  1,
	}
	if err := s.issue(ctx, &o, s.numbers.SampleRequestNumber); err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

func (s *Service) ListOrdersForMember(ctx context.Context, memberID domain.MemberID) ([]domain.Order, error) {
	return s.orders.ListByMember(ctx, memberID)
}

func (s *Service) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return s.orders.List(ctx)
}

func (s *Service) activeProduct(ctx context.Context, id domain.ProductID) (domain.Product, error) {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, productrepo.ErrNotFound) {
			return domain.Product{}, apperr.NotFound("PRODUCT_NOT_FOUND", "product not found")
		}
		return domain.Product{}, err
	}
	if !p.IsActive {
		return domain.Product{}, apperr.Unprocessable("PRODUCT_INACTIVE", "product is no longer available")
	}
	return p, nil
}

func (s *Service) issue(ctx context.Context, o *domain.Order, next func() string) error {
	o.ID = s.newOrderID()
	o.CreatedAt = s.clk.Now()
	for attempt := 0; attempt < MaxIssueAttempts; attempt++ {
		o.Number = next()
		err := s.orders.Create(ctx, *o)
		if err == nil {
			return nil
		}
		if !errors.Is(err, orderrepo.ErrAlreadyExists) {
			return err
		}
	}
	return fmt.Errorf("issue %s: %d colliding numbers: %w", o.Kind, MaxIssueAttempts, orderrepo.ErrAlreadyExists)
}

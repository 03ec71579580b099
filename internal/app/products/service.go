package products

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/apa-portal/member-portal/internal/app/apperr"
	"github.com/apa-portal/member-portal/internal/domain"
	clockport "github.com/apa-portal/member-portal/internal/ports/out/clock"
	"github.com/apa-portal/member-portal/internal/ports/out/productrepo"
)

type Service struct {
	repo productrepo.Repository
	clk  clockport.Clock

	newProductID func() domain.ProductID
}

func NewService(repo productrepo.Repository, clk clockport.Clock) *Service {
	return &Service{
		repo: repo,
		clk:  clk,
		newProductID: func() domain.ProductID {
			return domain.ProductID(uuid.NewString())
		},
	}
}

func (s *Service) ListProducts(ctx context.Context, includeInactive bool) ([]domain.Product, error) {
	return s.repo.List(ctx, includeInactive)
}

func (s *Service) GetProduct(ctx context.Context, id domain.ProductID) (domain.Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, productrepo.ErrNotFound) {
			return domain.Product{}, apperr.NotFound("PRODUCT_NOT_FOUND", "product not found")
		}
		return domain.Product{}, err
	}
	return p, nil
}

func (s *Service) CreateProduct(ctx context.Context, in CreateProductInput) (domain.Product, error) {
	sku := domain.NormalizeSKU(in.SKU)
	if sku == "" {
		return domain.Product{}, apperr.Validation("invalid sku", "sku", "must be non-empty")
	}
	name := domain.NormalizeHumanName(in.Name)
	if name == "" {
		return domain.Product{}, apperr.Validation("invalid name", "name", "must be non-empty")
	}
	if in.PriceCents < 0 {
		return domain.Product{}, apperr.Validation("invalid priceCents", "priceCents", "must be >= 0")
	}

	now := s.clk.Now()
	p := domain.Product{
		ID:              s.newProductID(),
		SKU:             sku,
		Name:            name,
		Description:     normalizeDescription(in.Description),
		PriceCents:      in.PriceCents,
		SampleAvailable: in.SampleAvailable,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, productrepo.ErrAlreadyExists) {
			return domain.Product{}, skuInUse()
		}
		return domain.Product{}, err
	}
	return p, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id domain.ProductID, in UpdateProductInput) (domain.Product, error) {
	p, err := s.GetProduct(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}

	if in.SKU.IsSpecified() {
		sku := ""
		if !in.SKU.IsNull() {
			sku = domain.NormalizeSKU(in.SKU.Value())
		}
		if sku == "" {
			return domain.Product{}, apperr.Validation("invalid sku", "sku", "must be non-empty")
		}
		p.SKU = sku
	}
	if in.Name.IsSpecified() {
		name := ""
		if !in.Name.IsNull() {
			name = domain.NormalizeHumanName(in.Name.Value())
		}
		if name == "" {
			return domain.Product{}, apperr.Validation("invalid name", "name", "must be non-empty")
		}
		p.Name = name
	}
	if in.Description.IsSpecified() {
		if in.Description.IsNull() {
			p.Description = nil
		} else {
			v := in.Description.Value()
			p.Description = normalizeDescription(&v)
		}
	}
	if in.PriceCents.IsSpecified() {
		if in.PriceCents.IsNull() || in.PriceCents.Value() < 0 {
			return domain.Product{}, apperr.Validation("invalid priceCents", "priceCents", "must be >= 0")
		}
		p.PriceCents = in.PriceCents.Value()
	}
	if in.SampleAvailable.IsSpecified() {
		if in.SampleAvailable.IsNull() {
			return domain.Product{}, apperr.Validation("invalid sampleAvailable", "sampleAvailable", "cannot be null")
		}
		p.SampleAvailable = in.SampleAvailable.Value()
	}
	if in.IsActive.IsSpecified() {
		if in.IsActive.IsNull() {
			return domain.Product{}, apperr.Validation("invalid isActive", "isActive", "cannot be null")
		}
		p.IsActive = in.IsActive.Value()
	}

	p.UpdatedAt = s.clk.Now()
	if err := s.repo.Update(ctx, p); err != nil {
		if errors.Is(err, productrepo.ErrAlreadyExists) {
			return domain.Product{}, skuInUse()
		}
		return domain.Product{}, err
	}
	return p, nil
}

// DeactivateProduct hides the product from members; existing orders keep referencing it.
func (s *Service) DeactivateProduct(ctx context.Context, id domain.ProductID) (domain.Product, error) {
	return s.UpdateProduct(ctx, id, UpdateProductInput{IsActive: domain.Some(false)})
}

func normalizeDescription(d *string) *string {
	if d == nil {
		return nil
	}
	v := strings.TrimSpace(*d)
	if v == "" {
		return nil
	}
	return &v
}

func skuInUse() *apperr.Error {
	return apperr.Conflict("SKU_ALREADY_IN_USE", "sku is already in use")
}

package products

import "github.com/apa-portal/member-portal/internal/domain"

type CreateProductInput struct {
	SKU             string
	Name            string
	Description     *string
	PriceCents      int64
	SampleAvailable bool
}

// UpdateProductInput is a tri-state patch; Description may be cleared with null.
type UpdateProductInput struct {
	SKU             domain.Optional[string]
	Name            domain.Optional[string]
	Description     domain.Optional[string]
	PriceCents      domain.Optional[int64]
	SampleAvailable domain.Optional[bool]
	IsActive        domain.Optional[bool]
}

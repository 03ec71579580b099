package domain

import "time"

// Product is an item members can order or request a sample of.
type Product struct {
	ID          ProductID
	SKU         string
	Name        string
	Description *string

	PriceCents      int64
	SampleAvailable bool
	IsActive        bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

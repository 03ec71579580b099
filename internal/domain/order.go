package domain

import "time"

type OrderKind string

const (
	OrderKindOrder  OrderKind = "ORDER"
	OrderKindSample OrderKind = "SAMPLE"
)

// Order is a product order or a sample request placed by a member.
// Number carries the human-readable ORD-/SMP- identifier.
type Order struct {
	ID     OrderID
	Number string
	Kind   OrderKind

	MemberID  MemberID
	ProductID ProductID

	Quantity       int
	UnitPriceCents int64

	CreatedAt time.Time
}

package domain

// MemberID is an internal identifier for a member record.
type MemberID string

// ProductID is an internal identifier for a product record.
type ProductID string

// RewardTypeID is an internal identifier for a reward catalog entry.
type RewardTypeID string

// OrderID is an internal identifier for an order or sample request.
type OrderID string

// SessionID identifies a persisted member session. It is embedded in the
// session token as the `jti` claim.
type SessionID string

package domain

import "time"

// RewardType is a catalog entry redeemable for points.
type RewardType struct {
	ID          RewardTypeID
	Name        string
	Description *string

	PointsCost int
	IsActive   bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Voucher is issued when a member redeems a reward type.
type Voucher struct {
	Code         string
	RewardTypeID RewardTypeID
	MemberID     MemberID
	PointsCost   int
	IssuedAt     time.Time
}

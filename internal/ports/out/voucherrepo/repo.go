package voucherrepo

import (
	"context"
	"errors"

	"github.com/apa-portal/member-portal/internal/domain"
)

// ErrAlreadyExists indicates a voucher with the same code was already issued.
var ErrAlreadyExists = errors.New("voucher code already issued")

// Repository persists issued vouchers.
type Repository interface {
	Create(ctx context.Context, v domain.Voucher) error
	// ListByMember returns vouchers newest first.
	ListByMember(ctx context.Context, memberID domain.MemberID) ([]domain.Voucher, error)
}

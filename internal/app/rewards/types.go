package rewards

import "github.com/apa-portal/member-portal/internal/domain"

// MaxIssueAttempts bounds voucher code draws when the store reports a collision.
const MaxIssueAttempts = 5

// CodeGenerator draws voucher codes. Codes carry no uniqueness promise.
type CodeGenerator interface {
	VoucherCode() string
}

type CreateRewardTypeInput struct {
	Name        string
	Description *string
	PointsCost  int
}

type UpdateRewardTypeInput struct {
	Name        domain.Optional[string]
	Description domain.Optional[string]
	PointsCost  domain.Optional[int]
	IsActive    domain.Optional[bool]
}

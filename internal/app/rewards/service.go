package rewards

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/apa-portal/member-portal/internal/app/apperr"
	"github.com/apa-portal/member-portal/internal/domain"
	clockport "github.com/apa-portal/member-portal/internal/ports/out/clock"
	"github.com/apa-portal/member-portal/internal/ports/out/memberrepo"
	"github.com/apa-portal/member-portal/internal/ports/out/rewardrepo"
	"github.com/apa-portal/member-portal/internal/ports/out/voucherrepo"
)

type Service struct {
	rewards  rewardrepo.Repository
	vouchers voucherrepo.Repository
	members  memberrepo.Repository
	codes    CodeGenerator
	clk      clockport.Clock

	newRewardTypeID func() domain.RewardTypeID
}

func NewService(
	rewards rewardrepo.Repository,
	vouchers voucherrepo.Repository,
	members memberrepo.Repository,
	codes CodeGenerator,
	clk clockport.Clock,
) *Service {
	return &Service{
		rewards:  rewards,
		vouchers: vouchers,
		members:  members,
		codes:    codes,
		clk:      clk,
		newRewardTypeID: func() domain.RewardTypeID {
			return domain.RewardTypeID(uuid.NewString())
		},
	}
}

// ListCatalog returns active reward types, cheapest first.
// Store errors are returned unchanged and no partial list is produced.
func (s *Service) ListCatalog(ctx context.Context) ([]domain.RewardType, error) {
	rts, err := s.rewards.ListActiveByCost(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.RewardType, 0, len(rts))
	for _, rt := range rts {
		if rt.IsActive {
			out = append(out, rt)
		}
	}
	sortByCost(out)
	return out, nil
}

func (s *Service) ListRewardTypes(ctx context.Context, includeInactive bool) ([]domain.RewardType, error) {
	rts, err := s.rewards.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	sortByCost(rts)
	return rts, nil
}

func (s *Service) GetRewardType(ctx context.Context, id domain.RewardTypeID) (domain.RewardType, error) {
	rt, err := s.rewards.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, rewardrepo.ErrNotFound) {
			return domain.RewardType{}, apperr.NotFound("REWARD_TYPE_NOT_FOUND", "reward type not found")
		}
		return domain.RewardType{}, err
	}
	return rt, nil
}

func (s *Service) CreateRewardType(ctx context.Context, in CreateRewardTypeInput) (domain.RewardType, error) {
	name := domain.NormalizeHumanName(in.Name)
	if name == "" {
		return domain.RewardType{}, apperr.Validation("invalid name", "name", "must be non-empty")
	}
	if in.PointsCost <= 0 {
		return domain.RewardType{}, apperr.Validation("invalid pointsCost", "pointsCost", "must be > 0")
	}
	now := s.clk.Now()
	rt := domain.RewardType{
		ID:          s.newRewardTypeID(),
		Name:        name,
		Description: trimmedOrNil(in.Description),
		PointsCost:  in.PointsCost,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.rewards.Create(ctx, rt); err != nil {
		return domain.RewardType{}, err
	}
	return rt, nil
}

func (s *Service) UpdateRewardType(ctx context.Context, id domain.RewardTypeID, in UpdateRewardTypeInput) (domain.RewardType, error) {
	rt, err := s.GetRewardType(ctx, id)
	if err != nil {
		return domain.RewardType{}, err
	}
	if in.Name.IsSpecified() {
		name := ""
		if !in.Name.IsNull() {
			name = domain.NormalizeHumanName(in.Name.Value())
		}
		if name == "" {
			return domain.RewardType{}, apperr.Validation("invalid name", "name", "must be non-empty")
		}
		rt.Name = name
	}
	if in.Description.IsSpecified() {
		if in.Description.IsNull() {
			rt.Description = nil
		} else {
			v := in.Description.Value()
			rt.Description = trimmedOrNil(&v)
		}
	}
	if in.PointsCost.IsSpecified() {
		if in.PointsCost.IsNull() || in.PointsCost.Value() <= 0 {
			return domain.RewardType{}, apperr.Validation("invalid pointsCost", "pointsCost", "must be > 0")
		}
		rt.PointsCost = in.PointsCost.Value()
	}
	if in.IsActive.IsSpecified() {
		if in.IsActive.IsNull() {
			return domain.RewardType{}, apperr.Validation("invalid isActive", "isActive", "cannot be null")
		}
		rt.IsActive = in.IsActive.Value()
	}
	rt.UpdatedAt = s.clk.Now()
	if err := s.rewards.Update(ctx, rt); err != nil {
		return domain.RewardType{}, err
	}
	return rt, nil
}

// Redeem spends the reward's points from the member balance and issues a voucher.
func (s *Service) Redeem(ctx context.Context, memberID domain.MemberID, rewardTypeID domain.RewardTypeID) (domain.Voucher, error) {
	rt, err := s.GetRewardType(ctx, rewardTypeID)
	if err != nil {
		return domain.Voucher{}, err
	}
	if !rt.IsActive {
		return domain.Voucher{}, apperr.Unprocessable("REWARD_TYPE_INACTIVE", "reward type is no longer available")
	}

	m, err := s.members.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, memberrepo.ErrNotFound) {
			return domain.Voucher{}, apperr.NotFound("MEMBER_NOT_FOUND", "member not found")
		}
		return domain.Voucher{}, err
	}
	if m.PointsBalance < rt.PointsCost {
		return domain.Voucher{}, insufficientPoints(m.PointsBalance, rt.PointsCost)
	}

	// The debit is the authoritative balance check; the read above may be stale.
	now := s.clk.Now()
	if err := s.members.AdjustPoints(ctx, m.ID, -rt.PointsCost, now); err != nil {
		switch {
		case errors.Is(err, memberrepo.ErrInsufficientPoints):
			return domain.Voucher{}, insufficientPoints(m.PointsBalance, rt.PointsCost)
		case errors.Is(err, memberrepo.ErrNotFound):
			return domain.Voucher{}, apperr.NotFound("MEMBER_NOT_FOUND", "member not found")
		}
		return domain.Voucher{}, fmt.Errorf("deduct points: %w", err)
	}

	v := domain.Voucher{
		RewardTypeID: rt.ID,
		MemberID:     m.ID,
		PointsCost:   rt.PointsCost,
		IssuedAt:     now,
	}
	if err := s.issue(ctx, &v); err != nil {
		if rerr := s.members.AdjustPoints(ctx, m.ID, rt.PointsCost, s.clk.Now()); rerr != nil {
			return domain.Voucher{}, errors.Join(err, fmt.Errorf("refund %d points to member %s: %w", rt.PointsCost, m.ID, rerr))
		}
		return domain.Voucher{}, err
	}
	return v, nil
}

func insufficientPoints(balance, cost int) *apperr.Error {
	return &apperr.Error{
		Status:  422,
		Code:    "INSUFFICIENT_POINTS",
		Message: "not enough points to redeem this reward",
		Details: map[string]any{"pointsBalance": balance, "pointsCost": cost},
	}
}

func (s *Service) issue(ctx context.Context, v *domain.Voucher) error {
	for attempt := 0; attempt < MaxIssueAttempts; attempt++ {
		v.Code = s.codes.VoucherCode()
		err := s.vouchers.Create(ctx, *v)
		if err == nil {
			return nil
		}
		if !errors.Is(err, voucherrepo.ErrAlreadyExists) {
			return err
		}
	}
	return fmt.Errorf("issue voucher: %d colliding codes: %w", MaxIssueAttempts, voucherrepo.ErrAlreadyExists)
}

func (s *Service) ListVouchers(ctx context.Context, memberID domain.MemberID) ([]domain.Voucher, error) {
	return s.vouchers.ListByMember(ctx, memberID)
}

func sortByCost(rts []domain.RewardType) {
	sort.SliceStable(rts, func(i, j int) bool {
		if rts[i].PointsCost != rts[j].PointsCost {
			return rts[i].PointsCost < rts[j].PointsCost
		}
		if rts[i].Name != rts[j].Name {
			return rts[i].Name < rts[j].Name
		}
		return rts[i].ID < rts[j].ID
	})
}

func trimmedOrNil(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}

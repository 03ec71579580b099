package voucherrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/apa-portal/member-portal/internal/adapters/postgres"
	"github.com/apa-portal/member-portal/internal/domain"
	"github.com/apa-portal/member-portal/internal/ports/out/voucherrepo"
)

// Repo is a Postgres implementation of voucherrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Create(ctx context.Context, v domain.Voucher) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	memberID, err := uuid.Parse(string(v.MemberID))
	if err != nil {
		return fmt.Errorf("invalid member id: %w", err)
	}
	rewardID, err := uuid.Parse(string(v.RewardTypeID))
	if err != nil {
		return fmt.Errorf("invalid reward type id: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO vouchers (code, reward_type_id, member_id, points_cost, issued_at)
		VALUES ($1, $2, $3, $4, $5)
	`, v.Code, rewardID, memberID, v.PointsCost, v.IssuedAt.UTC())
	if postgres.IsUniqueViolation(err, "vouchers_pkey") {
		return voucherrepo.ErrAlreadyExists
	}
	return err
}

func (r *Repo) ListByMember(ctx context.Context, memberID domain.MemberID) ([]domain.Voucher, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	uid, err := uuid.Parse(string(memberID))
	if err != nil {
		return []domain.Voucher{}, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT code, reward_type_id, member_id, points_cost, issued_at
		FROM vouchers
		WHERE member_id = $1
		ORDER BY issued_at DESC, code DESC
	`, uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Voucher, 0)
	for rows.Next() {
		var (
			v        domain.Voucher
			rewardID uuid.UUID
			ownerID  uuid.UUID
			issuedAt time.Time
		)
		if err := rows.Scan(&v.Code, &rewardID, &ownerID, &v.PointsCost, &issuedAt); err != nil {
			return nil, err
		}
		v.RewardTypeID = domain.RewardTypeID(rewardID.String())
		v.MemberID = domain.MemberID(ownerID.String())
		v.IssuedAt = issuedAt.UTC()
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

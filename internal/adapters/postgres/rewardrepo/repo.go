package rewardrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/apa-portal/member-portal/internal/domain"
	"github.com/apa-portal/member-portal/internal/ports/out/rewardrepo"
)

const rewardColumns = `
	id,
	name,
	description,
	points_cost,
	is_active,
	created_at,
	updated_at
`

// Repo is a Postgres implementation of rewardrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Create(ctx context.Context, rt domain.RewardType) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(rt.ID))
	if err != nil {
		return fmt.Errorf("invalid reward type id: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO reward_types (`+rewardColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		id,
		rt.Name,
		rt.Description,
		rt.PointsCost,
		rt.IsActive,
		rt.CreatedAt.UTC(),
		rt.UpdatedAt.UTC(),
	)
	return err
}

func (r *Repo) Update(ctx context.Context, rt domain.RewardType) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(rt.ID))
	if err != nil {
		return rewardrepo.ErrNotFound
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE reward_types
		SET name = $2,
		    description = $3,
		    points_cost = $4,
		    is_active = $5,
		    updated_at = $6
		WHERE id = $1
	`,
		id,
		rt.Name,
		rt.Description,
		rt.PointsCost,
		rt.IsActive,
		rt.UpdatedAt.UTC(),
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return rewardrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.RewardTypeID) (domain.RewardType, error) {
	if r.pool == nil {
		return domain.RewardType{}, errors.New("nil postgres pool")
	}
	uid, err := uuid.Parse(string(id))
	if err != nil {
		return domain.RewardType{}, rewardrepo.ErrNotFound
	}
	return scanRewardType(r.pool.QueryRow(ctx, `SELECT `+rewardColumns+` FROM reward_types WHERE id = $1`, uid))
}

// ListActiveByCost backs the public catalog.
func (r *Repo) ListActiveByCost(ctx context.Context) ([]domain.RewardType, error) {
	return r.List(ctx, false)
}

func (r *Repo) List(ctx context.Context, includeInactive bool) ([]domain.RewardType, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	where := ""
	if !includeInactive {
		where = "WHERE is_active = true"
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+rewardColumns+`
		FROM reward_types
		`+where+`
		ORDER BY points_cost ASC, name COLLATE "C" ASC, id::text ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.RewardType, 0)
	for rows.Next() {
		rt, err := scanRewardType(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanRewardType(row pgx.Row) (domain.RewardType, error) {
	var (
		id        uuid.UUID
		rt        domain.RewardType
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(&id, &rt.Name, &rt.Description, &rt.PointsCost, &rt.IsActive, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.RewardType{}, rewardrepo.ErrNotFound
		}
		return domain.RewardType{}, err
	}
	rt.ID = domain.RewardTypeID(id.String())
	rt.CreatedAt = createdAt.UTC()
	rt.UpdatedAt = updatedAt.UTC()
	return rt, nil
}

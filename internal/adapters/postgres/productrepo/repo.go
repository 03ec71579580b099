package productrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/apa-portal/member-portal/internal/adapters/postgres"
	"github.com/apa-portal/member-portal/internal/domain"
	"github.com/apa-portal/member-portal/internal/ports/out/productrepo"
)

const productColumns = `
	id,
	sku,
	name,
	description,
	price_cents,
	sample_available,
	is_active,
	created_at,
	updated_at
`

// Repo is a Postgres implementation of productrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Create(ctx context.Context, p domain.Product) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(p.ID))
	if err != nil {
		return fmt.Errorf("invalid product id: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO products (`+productColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		id,
		p.SKU,
		p.Name,
		p.Description,
		p.PriceCents,
		p.SampleAvailable,
		p.IsActive,
		p.CreatedAt.UTC(),
		p.UpdatedAt.UTC(),
	)
	return mapWriteError(err)
}

func (r *Repo) Update(ctx context.Context, p domain.Product) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(p.ID))
	if err != nil {
		return productrepo.ErrNotFound
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE products
		SET sku = $2,
		    name = $3,
		    description = $4,
		    price_cents = $5,
		    sample_available = $6,
		    is_active = $7,
		    updated_at = $8
		WHERE id = $1
	`,
		id,
		p.SKU,
		p.Name,
		p.Description,
		p.PriceCents,
		p.SampleAvailable,
		p.IsActive,
		p.UpdatedAt.UTC(),
	)
	if err != nil {
		return mapWriteError(err)
	}
	if ct.RowsAffected() == 0 {
		return productrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.ProductID) (domain.Product, error) {
	if r.pool == nil {
		return domain.Product{}, errors.New("nil postgres pool")
	}
	uid, err := uuid.Parse(string(id))
	if err != nil {
		return domain.Product{}, productrepo.ErrNotFound
	}
	return scanProduct(r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, uid))
}

func (r *Repo) List(ctx context.Context, includeInactive bool) ([]domain.Product, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	where := ""
	if !includeInactive {
		where = "WHERE is_active = true"
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+productColumns+`
		FROM products
		`+where+`
		ORDER BY lower(name) COLLATE "C" ASC, id::text ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func mapWriteError(err error) error {
	if err == nil {
		return nil
	}
	if postgres.IsUniqueViolation(err, "products_sku_unique") || postgres.IsUniqueViolation(err, "products_pkey") {
		return productrepo.ErrAlreadyExists
	}
	return err
}

func scanProduct(row pgx.Row) (domain.Product, error) {
	var (
		id        uuid.UUID
		p         domain.Product
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(
		&id,
		&p.SKU,
		&p.Name,
		&p.Description,
		&p.PriceCents,
		&p.SampleAvailable,
		&p.IsActive,
		&createdAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Product{}, productrepo.ErrNotFound
		}
		return domain.Product{}, err
	}
	p.ID = domain.ProductID(id.String())
	p.CreatedAt = createdAt.UTC()
	p.UpdatedAt = updatedAt.UTC()
	return p, nil
}

package orderrepo

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
	"github.com/apa-portal/member-portal/internal/ports/out/orderrepo"
)

const orderColumns = `
	id,
	number,
	kind,
	member_id,
	product_id,
	quantity,
	unit_price_cents,
	created_at
`

// Repo is a Postgres implementation of orderrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Create(ctx context.Context, o domain.Order) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(o.ID))
	if err != nil {
		return fmt.Errorf("invalid order id: %w", err)
	}
	memberID, err := uuid.Parse(string(o.MemberID))
	if err != nil {
		return fmt.Errorf("invalid member id: %w", err)
	}
	productID, err := uuid.Parse(string(o.ProductID))
	if err != nil {
		return fmt.Errorf("invalid product id: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO orders (`+orderColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		id,
		o.Number,
		string(o.Kind),
		memberID,
		productID,
		o.Quantity,
		o.UnitPriceCents,
		o.CreatedAt.UTC(),
	)
	if postgres.IsUniqueViolation(err, "orders_number_unique") || postgres.IsUniqueViolation(err, "orders_pkey") {
		return orderrepo.ErrAlreadyExists
	}
	return err
}

func (r *Repo) GetByNumber(ctx context.Context, number string) (domain.Order, error) {
	if r.pool == nil {
		return domain.Order{}, errors.New("nil postgres pool")
	}
	return scanOrder(r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE number = $1`, number))
}

func (r *Repo) ListByMember(ctx context.Context, memberID domain.MemberID) ([]domain.Order, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	uid, err := uuid.Parse(string(memberID))
	if err != nil {
		return []domain.Order{}, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE member_id = $1
		ORDER BY created_at DESC, number DESC
	`, uid)
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

func (r *Repo) List(ctx context.Context) ([]domain.Order, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		ORDER BY created_at DESC, number DESC
	`)
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

func collectOrders(rows pgx.Rows) ([]domain.Order, error) {
	defer rows.Close()
	out := make([]domain.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanOrder(row pgx.Row) (domain.Order, error) {
	var (
		id        uuid.UUID
		memberID  uuid.UUID
		productID uuid.UUID
		kind      string
		createdAt time.Time
		o         domain.Order
	)
	if err := row.Scan(&id, &o.Number, &kind, &memberID, &productID, &o.Quantity, &o.UnitPriceCents, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Order{}, orderrepo.ErrNotFound
		}
		return domain.Order{}, err
	}
	o.ID = domain.OrderID(id.String())
	o.Kind = domain.OrderKind(kind)
	o.MemberID = domain.MemberID(memberID.String())
	o.ProductID = domain.ProductID(productID.String())
	o.CreatedAt = createdAt.UTC()
	return o, nil
}

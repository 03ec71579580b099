package memberrepo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/apa-portal/member-portal/internal/adapters/postgres"
	"github.com/apa-portal/member-portal/internal/domain"
	"github.com/apa-portal/member-portal/internal/ports/out/memberrepo"
)

const memberColumns = `
	id,
	display_name,
	email,
	password_hash,
	is_admin,
	is_active,
	points_balance,
	created_at,
	updated_at
`

// Repo is a Postgres implementation of memberrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Create(ctx context.Context, m memberrepo.Member) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(m.ID))
	if err != nil {
		return fmt.Errorf("invalid member id: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO members (`+memberColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		id,
		m.DisplayName,
		m.Email,
		m.PasswordHash,
		m.IsAdmin,
		m.IsActive,
		m.PointsBalance,
		m.CreatedAt.UTC(),
		m.UpdatedAt.UTC(),
	)
	return mapWriteError(err)
}

func (r *Repo) Update(ctx context.Context, m memberrepo.Member) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(m.ID))
	if err != nil {
		return memberrepo.ErrNotFound
	}

	ct, err := r.pool.Exec(ctx, `
		UPDATE members
		SET display_name = $2,
		    email = $3,
		    password_hash = $4,
		    is_admin = $5,
		    is_active = $6,
		    points_balance = $7,
		    updated_at = $8
		WHERE id = $1
	`,
		id,
		m.DisplayName,
		m.Email,
		m.PasswordHash,
		m.IsAdmin,
		m.IsActive,
		m.PointsBalance,
		m.UpdatedAt.UTC(),
	)
	if err != nil {
		return mapWriteError(err)
	}
	if ct.RowsAffected() == 0 {
		return memberrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) AdjustPoints(ctx context.Context, id domain.MemberID, delta int, at time.Time) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	uid, err := uuid.Parse(string(id))
	if err != nil {
		return memberrepo.ErrNotFound
	}

	ct, err := r.pool.Exec(ctx, `
		UPDATE members
		SET points_balance = points_balance + $2,
		    updated_at = $3
		WHERE id = $1 AND points_balance + $2 >= 0
	`, uid, delta, at.UTC())
	if err != nil {
		return mapWriteError(err)
	}
	if ct.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM members WHERE id = $1)`, uid).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return memberrepo.ErrNotFound
	}
	return memberrepo.ErrInsufficientPoints
}

func (r *Repo) GetByID(ctx context.Context, id domain.MemberID) (memberrepo.Member, error) {
	if r.pool == nil {
		return memberrepo.Member{}, errors.New("nil postgres pool")
	}
	uid, err := uuid.Parse(string(id))
	if err != nil {
		return memberrepo.Member{}, memberrepo.ErrNotFound
	}
	row := r.pool.QueryRow(ctx, `SELECT `+memberColumns+` FROM members WHERE id = $1`, uid)
	return scanMember(row)
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (memberrepo.Member, error) {
	if r.pool == nil {
		return memberrepo.Member{}, errors.New("nil postgres pool")
	}
	row := r.pool.QueryRow(ctx, `
		SELECT `+memberColumns+`
		FROM members
		WHERE lower(email) = lower($1)
	`, strings.TrimSpace(email))
	return scanMember(row)
}

func (r *Repo) List(ctx context.Context, includeInactive bool) ([]memberrepo.Member, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	where := ""
	if !includeInactive {
		where = "WHERE is_active = true"
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+memberColumns+`
		FROM members
		`+where+`
		ORDER BY lower(display_name) ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	out, err := collectMembers(rows)
	if err != nil {
		return nil, err
	}
	sortMembersByDisplayName(out)
	return out, nil
}

func (r *Repo) SearchActiveByDisplayName(ctx context.Context, query string, limit int) ([]memberrepo.Member, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	qTokens := tokenize(query)
	if len(qTokens) == 0 {
		return []memberrepo.Member{}, nil
	}

	var sb strings.Builder
	sb.WriteString(`SELECT ` + memberColumns + ` FROM members WHERE is_active = true`)
	args := make([]any, 0, len(qTokens))
	for i, tok := range qTokens {
		// Match all tokens (AND) in a case-insensitive way.
		sb.WriteString(fmt.Sprintf(" AND lower(display_name) LIKE $%d ", i+1))
		args = append(args, "%"+escapeLike(tok)+"%")
	}
	sb.WriteString(" ORDER BY lower(display_name) ASC, id ASC ")
	if limit > 0 {
		sb.WriteString(fmt.Sprintf(" LIMIT %d ", limit))
	}

	rows, err := r.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	out, err := collectMembers(rows)
	if err != nil {
		return nil, err
	}
	sortMembersByDisplayName(out)
	return out, nil
}

// --- helpers ---

func mapWriteError(err error) error {
	if err == nil {
		return nil
	}
	if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
		switch pe.ConstraintName {
		case "members_email_unique":
			return memberrepo.ErrEmailAlreadyInUse
		case "members_pkey":
			return memberrepo.ErrAlreadyExists
		}
	}
	return err
}

func tokenize(s string) []string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return nil
	}
	return strings.Fields(s)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// sortMembersByDisplayName re-sorts in Go; database collation may disagree with byte order.
func sortMembersByDisplayName(ms []memberrepo.Member) {
	sort.Slice(ms, func(i, j int) bool {
		di := strings.ToLower(ms[i].DisplayName)
		dj := strings.ToLower(ms[j].DisplayName)
		if di == dj {
			return string(ms[i].ID) < string(ms[j].ID)
		}
		return di < dj
	})
}

func collectMembers(rows pgx.Rows) ([]memberrepo.Member, error) {
	defer rows.Close()
	out := make([]memberrepo.Member, 0)
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanMember(row pgx.Row) (memberrepo.Member, error) {
	var (
		id        uuid.UUID
		m         memberrepo.Member
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(
		&id,
		&m.DisplayName,
		&m.Email,
		&m.PasswordHash,
		&m.IsAdmin,
		&m.IsActive,
		&m.PointsBalance,
		&createdAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return memberrepo.Member{}, memberrepo.ErrNotFound
		}
		return memberrepo.Member{}, err
	}
	m.ID = domain.MemberID(id.String())
	m.CreatedAt = createdAt.UTC()
	m.UpdatedAt = updatedAt.UTC()
	return m, nil
}

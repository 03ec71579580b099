package sessionstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/apa-portal/member-portal/internal/domain"
	"github.com/apa-portal/member-portal/internal/ports/out/sessionstore"
)

// Store is a Postgres implementation of sessionstore.Store.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Create(ctx context.Context, sess sessionstore.Session) error {
	if s.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(sess.ID))
	if err != nil {
		return fmt.Errorf("invalid session id: %w", err)
	}
	memberID, err := uuid.Parse(string(sess.MemberID))
	if err != nil {
		return fmt.Errorf("invalid member id: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO member_sessions (id, member_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
	`, id, memberID, sess.CreatedAt.UTC(), sess.ExpiresAt.UTC())
	return err
}

func (s *Store) Get(ctx context.Context, id domain.SessionID) (sessionstore.Session, error) {
	if s.pool == nil {
		return sessionstore.Session{}, errors.New("nil postgres pool")
	}
	uid, err := uuid.Parse(string(id))
	if err != nil {
		return sessionstore.Session{}, sessionstore.ErrNotFound
	}
	var (
		out      sessionstore.Session
		memberID uuid.UUID
	)
	err = s.pool.QueryRow(ctx, `
		SELECT member_id, created_at, expires_at
		FROM member_sessions
		WHERE id = $1
	`, uid).Scan(&memberID, &out.CreatedAt, &out.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return sessionstore.Session{}, sessionstore.ErrNotFound
		}
		return sessionstore.Session{}, err
	}
	out.ID = id
	out.MemberID = domain.MemberID(memberID.String())
	out.CreatedAt = out.CreatedAt.UTC()
	out.ExpiresAt = out.ExpiresAt.UTC()
	return out, nil
}

func (s *Store) Delete(ctx context.Context, id domain.SessionID) error {
	if s.pool == nil {
		return errors.New("nil postgres pool")
	}
	uid, err := uuid.Parse(string(id))
	if err != nil {
		return nil
	}
	_, err = s.pool.Exec(ctx, `DELETE FROM member_sessions WHERE id = $1`, uid)
	return err
}

func (s *Store) DeleteByMember(ctx context.Context, memberID domain.MemberID) error {
	if s.pool == nil {
		return errors.New("nil postgres pool")
	}
	uid, err := uuid.Parse(string(memberID))
	if err != nil {
		return nil
	}
	_, err = s.pool.Exec(ctx, `DELETE FROM member_sessions WHERE member_id = $1`, uid)
	return err
}

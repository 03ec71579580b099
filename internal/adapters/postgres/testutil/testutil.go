// Package testutil opens throwaway Postgres schemas for adapter tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/apa-portal/member-portal/internal/adapters/postgres"
	"github.com/apa-portal/member-portal/internal/domain"
)

// EnvDatabaseURL names the variable that enables Postgres-backed tests.
const EnvDatabaseURL = "TEST_DATABASE_URL"

// OpenMigratedPool returns a pool bound to a fresh, migrated schema that is
// dropped when the test finishes. The test is skipped when TEST_DATABASE_URL is unset.
func OpenMigratedPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv(EnvDatabaseURL))
	if dsn == "" {
		t.Skipf("%s not set; skipping postgres test", EnvDatabaseURL)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	schema := "t_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	admin, err := pgx.Connect(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if _, err := admin.Exec(ctx, fmt.Sprintf("CREATE SCHEMA %s", pgx.Identifier{schema}.Sanitize())); err != nil {
		_ = admin.Close(ctx)
		t.Fatalf("create schema: %v", err)
	}
	_ = admin.Close(ctx)

	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolOptions{MaxConns: 4, SearchPath: schema})
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		t.Fatalf("Migrate: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		dropCtx, dropCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer dropCancel()
		conn, err := pgx.Connect(dropCtx, dsn)
		if err != nil {
			return
		}
		defer conn.Close(dropCtx)
		_, _ = conn.Exec(dropCtx, fmt.Sprintf("DROP SCHEMA %s CASCADE", pgx.Identifier{schema}.Sanitize()))
	})
	return pool
}

// SeedMember inserts an active member row and returns its ID.
func SeedMember(t *testing.T, pool *pgxpool.Pool) domain.MemberID {
	t.Helper()
	id := uuid.New()
	now := time.Now().UTC()
	_, err := pool.Exec(context.Background(), `
		INSERT INTO members (id, display_name, email, password_hash, is_admin, is_active, points_balance, created_at, updated_at)
		VALUES ($1, $2, $3, '', false, true, 0, $4, $4)
	`, id, "Seed Member", id.String()+"@example.test", now)
	if err != nil {
		t.Fatalf("seed member: %v", err)
	}
	return domain.MemberID(id.String())
}

// SeedProduct inserts an active product row and returns its ID.
func SeedProduct(t *testing.T, pool *pgxpool.Pool) domain.ProductID {
	t.Helper()
	id := uuid.New()
	now := time.Now().UTC()
	_, err := pool.Exec(context.Background(), `
		INSERT INTO products (id, sku, name, price_cents, sample_available, is_active, created_at, updated_at)
		VALUES ($1, $2, 'Seed Product', 100, true, true, $3, $3)
	`, id, "SEED-"+strings.ToUpper(id.String()[:8]), now)
	if err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return domain.ProductID(id.String())
}

// SeedRewardType inserts an active reward type row and returns its ID.
func SeedRewardType(t *testing.T, pool *pgxpool.Pool) domain.RewardTypeID {
	t.Helper()
	id := uuid.New()
	now := time.Now().UTC()
	_, err := pool.Exec(context.Background(), `
		INSERT INTO reward_types (id, name, points_cost, is_active, created_at, updated_at)
		VALUES ($1, 'Seed Reward', 100, true, $2, $2)
	`, id, now)
	if err != nil {
		t.Fatalf("seed reward type: %v", err)
	}
	return domain.RewardTypeID(id.String())
}

package main

import (
	"context"
	"fmt"
	"strings"

	memidempotency "github.com/apa-portal/member-portal/internal/adapters/memory/idempotency"
	memmemberrepo "github.com/apa-portal/member-portal/internal/adapters/memory/memberrepo"
	memorderrepo "github.com/apa-portal/member-portal/internal/adapters/memory/orderrepo"
	memproductrepo "github.com/apa-portal/member-portal/internal/adapters/memory/productrepo"
	memrewardrepo "github.com/apa-portal/member-portal/internal/adapters/memory/rewardrepo"
	memsessionstore "github.com/apa-portal/member-portal/internal/adapters/memory/sessionstore"
	memvoucherrepo "github.com/apa-portal/member-portal/internal/adapters/memory/voucherrepo"
	"github.com/apa-portal/member-portal/internal/adapters/postgres"
	pgidempotency "github.com/apa-portal/member-portal/internal/adapters/postgres/idempotency"
	pgmemberrepo "github.com/apa-portal/member-portal/internal/adapters/postgres/memberrepo"
	pgorderrepo "github.com/apa-portal/member-portal/internal/adapters/postgres/orderrepo"
	pgproductrepo "github.com/apa-portal/member-portal/internal/adapters/postgres/productrepo"
	pgrewardrepo "github.com/apa-portal/member-portal/internal/adapters/postgres/rewardrepo"
	pgsessionstore "github.com/apa-portal/member-portal/internal/adapters/postgres/sessionstore"
	pgvoucherrepo "github.com/apa-portal/member-portal/internal/adapters/postgres/voucherrepo"
	"github.com/apa-portal/member-portal/internal/platform/config"
	idempotencyport "github.com/apa-portal/member-portal/internal/ports/out/idempotency"
	memberrepoport "github.com/apa-portal/member-portal/internal/ports/out/memberrepo"
	orderrepoport "github.com/apa-portal/member-portal/internal/ports/out/orderrepo"
	productrepoport "github.com/apa-portal/member-portal/internal/ports/out/productrepo"
	rewardrepoport "github.com/apa-portal/member-portal/internal/ports/out/rewardrepo"
	sessionstoreport "github.com/apa-portal/member-portal/internal/ports/out/sessionstore"
	voucherrepoport "github.com/apa-portal/member-portal/internal/ports/out/voucherrepo"
)

type stores struct {
	members     memberrepoport.Repository
	products    productrepoport.Repository
	rewards     rewardrepoport.Repository
	vouchers    voucherrepoport.Repository
	orders      orderrepoport.Repository
	sessions    sessionstoreport.Store
	idempotency idempotencyport.Store

	close func()
}

// openStores builds every repository for the configured backend. Postgres
// pools are migrated before use.
func openStores(ctx context.Context, cfg config.Config) (stores, error) {
	switch strings.ToLower(cfg.StorageBackend) {
	case config.StoragePostgres:
		pool, err := postgres.NewPool(ctx, cfg.Database.URL, postgres.PoolOptions{MaxConns: cfg.Database.MaxConns})
		if err != nil {
			return stores{}, fmt.Errorf("open postgres: %w", err)
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return stores{}, fmt.Errorf("migrate postgres: %w", err)
		}
		return stores{
			members:     pgmemberrepo.NewRepo(pool),
			products:    pgproductrepo.NewRepo(pool),
			rewards:     pgrewardrepo.NewRepo(pool),
			vouchers:    pgvoucherrepo.NewRepo(pool),
			orders:      pgorderrepo.NewRepo(pool),
			sessions:    pgsessionstore.NewStore(pool),
			idempotency: pgidempotency.NewStore(pool),
			close:       pool.Close,
		}, nil
	default:
		return stores{
			members:     memmemberrepo.NewRepo(),
			products:    memproductrepo.NewRepo(),
			rewards:     memrewardrepo.NewRepo(),
			vouchers:    memvoucherrepo.NewRepo(),
			orders:      memorderrepo.NewRepo(),
			sessions:    memsessionstore.NewStore(),
			idempotency: memidempotency.NewStore(),
			close:       func() {},
		}, nil
	}
}

package orderrepo

import (
	"testing"

	"github.com/apa-portal/member-portal/internal/adapters/contracttest"
	"github.com/apa-portal/member-portal/internal/adapters/postgres/testutil"
	"github.com/apa-portal/member-portal/internal/domain"
	orderrepoport "github.com/apa-portal/member-portal/internal/ports/out/orderrepo"
)

func TestContract_PostgresOrderRepo(t *testing.T) {
	pool := testutil.OpenMigratedPool(t)

	contracttest.RunOrderRepoWithSeed(t,
		func(t *testing.T) (orderrepoport.Repository, func()) {
			t.Helper()
			return NewRepo(pool), nil
		},
		func(t *testing.T) (domain.MemberID, domain.ProductID) {
			return testutil.SeedMember(t, pool), testutil.SeedProduct(t, pool)
		},
	)
}

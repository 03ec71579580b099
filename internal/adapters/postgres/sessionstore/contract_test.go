package sessionstore

import (
	"testing"

	"github.com/apa-portal/member-portal/internal/adapters/contracttest"
	"github.com/apa-portal/member-portal/internal/adapters/postgres/testutil"
	"github.com/apa-portal/member-portal/internal/domain"
	sessionstoreport "github.com/apa-portal/member-portal/internal/ports/out/sessionstore"
)

func TestContract_PostgresSessionStore(t *testing.T) {
	pool := testutil.OpenMigratedPool(t)

	contracttest.RunSessionStoreWithSeed(t,
		func(t *testing.T) (sessionstoreport.Store, func()) {
			t.Helper()
			return NewStore(pool), nil
		},
		func(t *testing.T) domain.MemberID {
			return testutil.SeedMember(t, pool)
		},
	)
}

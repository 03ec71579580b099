package itest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/apa-portal/member-portal/internal/adapters/httpapi"
	memclock "github.com/apa-portal/member-portal/internal/adapters/memory/clock"
	memidempotency "github.com/apa-portal/member-portal/internal/adapters/memory/idempotency"
	memmemberrepo "github.com/apa-portal/member-portal/internal/adapters/memory/memberrepo"
	memorderrepo "github.com/apa-portal/member-portal/internal/adapters/memory/orderrepo"
	memproductrepo "github.com/apa-portal/member-portal/internal/adapters/memory/productrepo"
	memrewardrepo "github.com/apa-portal/member-portal/internal/adapters/memory/rewardrepo"
	memsessionstore "github.com/apa-portal/member-portal/internal/adapters/memory/sessionstore"
	memvoucherrepo "github.com/apa-portal/member-portal/internal/adapters/memory/voucherrepo"
	pgidempotency "github.com/apa-portal/member-portal/internal/adapters/postgres/idempotency"
	pgmemberrepo "github.com/apa-portal/member-portal/internal/adapters/postgres/memberrepo"
	pgorderrepo "github.com/apa-portal/member-portal/internal/adapters/postgres/orderrepo"
	pgproductrepo "github.com/apa-portal/member-portal/internal/adapters/postgres/productrepo"
	pgrewardrepo "github.com/apa-portal/member-portal/internal/adapters/postgres/rewardrepo"
	pgsessionstore "github.com/apa-portal/member-portal/internal/adapters/postgres/sessionstore"
	postgres_testutil "github.com/apa-portal/member-portal/internal/adapters/postgres/testutil"
	pgvoucherrepo "github.com/apa-portal/member-portal/internal/adapters/postgres/voucherrepo"
	"github.com/apa-portal/member-portal/internal/app/members"
	"github.com/apa-portal/member-portal/internal/app/orders"
	"github.com/apa-portal/member-portal/internal/app/products"
	"github.com/apa-portal/member-portal/internal/app/rewards"
	"github.com/apa-portal/member-portal/internal/app/sessions"
	"github.com/apa-portal/member-portal/internal/platform/auth/sessiontoken"
	"github.com/apa-portal/member-portal/internal/platform/config"
	"github.com/apa-portal/member-portal/internal/platform/idgen"
	"github.com/apa-portal/member-portal/internal/platform/logging"
	idempotencyport "github.com/apa-portal/member-portal/internal/ports/out/idempotency"
	memberrepoport "github.com/apa-portal/member-portal/internal/ports/out/memberrepo"
	orderrepoport "github.com/apa-portal/member-portal/internal/ports/out/orderrepo"
	productrepoport "github.com/apa-portal/member-portal/internal/ports/out/productrepo"
	rewardrepoport "github.com/apa-portal/member-portal/internal/ports/out/rewardrepo"
	sessionstoreport "github.com/apa-portal/member-portal/internal/ports/out/sessionstore"
	voucherrepoport "github.com/apa-portal/member-portal/internal/ports/out/voucherrepo"
)

type backend string

const (
	backendMemory   backend = "memory"
	backendPostgres backend = "postgres"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "admin-password"
)

func backendsFromEnv(t *testing.T) []backend {
	t.Helper()
	switch strings.ToLower(strings.TrimSpace(os.Getenv("ITEST_BACKEND"))) {
	case "", "memory":
		return []backend{backendMemory}
	case "postgres":
		return []backend{backendPostgres}
	case "all":
		return []backend{backendMemory, backendPostgres}
	default:
		t.Fatalf("unknown ITEST_BACKEND value (expected memory|postgres|all)")
		return nil
	}
}

type testServer struct {
	baseURL string
	client  *http.Client
}

func newTestServer(t *testing.T, b backend) *testServer {
	t.Helper()

	clk := memclock.NewManualClock(time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC))

	var (
		memberRepo   memberrepoport.Repository
		productRepo  productrepoport.Repository
		rewardRepo   rewardrepoport.Repository
		voucherRepo  voucherrepoport.Repository
		orderRepo    orderrepoport.Repository
		sessionStore sessionstoreport.Store
		idemStore    idempotencyport.Store
	)

	switch b {
	case backendPostgres:
		pool := postgres_testutil.OpenMigratedPool(t)
		memberRepo = pgmemberrepo.NewRepo(pool)
		productRepo = pgproductrepo.NewRepo(pool)
		rewardRepo = pgrewardrepo.NewRepo(pool)
		voucherRepo = pgvoucherrepo.NewRepo(pool)
		orderRepo = pgorderrepo.NewRepo(pool)
		sessionStore = pgsessionstore.NewStore(pool)
		idemStore = pgidempotency.NewStore(pool)
	case backendMemory:
		memberRepo = memmemberrepo.NewRepo()
		productRepo = memproductrepo.NewRepo()
		rewardRepo = memrewardrepo.NewRepo()
		voucherRepo = memvoucherrepo.NewRepo()
		orderRepo = memorderrepo.NewRepo()
		sessionStore = memsessionstore.NewStore()
		idemStore = memidempotency.NewStore()
	default:
		t.Fatalf("unknown backend: %s", b)
	}

	log := logging.Discard()
	ids := idgen.New(clk)
	signer := sessiontoken.NewWithClock(config.SessionConfig{
		Secret: strings.Repeat("k", 32),
		Issuer: "itest-issuer",
	}, clk)

	memberSvc := members.NewService(memberRepo, sessionStore, clk)
	memberSvc.HashCost = bcrypt.MinCost
	if _, err := memberSvc.CreateMember(context.Background(), members.CreateMemberInput{
		DisplayName: "Admin",
		Email:       adminEmail,
		Password:    adminPassword,
		IsAdmin:     true,
	}); err != nil {
		t.Fatalf("bootstrap admin: %v", err)
	}

	api := httpapi.NewServer(httpapi.Services{
		Members:  memberSvc,
		Products: products.NewService(productRepo, clk),
		Rewards:  rewards.NewService(rewardRepo, voucherRepo, memberRepo, ids, clk),
		Orders:   orders.NewService(orderRepo, productRepo, ids, clk),
		Sessions: sessions.NewService(memberRepo, sessionStore, signer, clk, time.Hour, log),
	}, idemStore, httpapi.ServerOptions{
		SessionTTL: time.Hour,
		Logger:     log,
		Clock:      clk,
	})

	srv := httptest.NewServer(httpapi.NewRouter(api))
	t.Cleanup(srv.Close)

	client := srv.Client()
	client.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }

	return &testServer{
		baseURL: srv.URL,
		client:  client,
	}
}

func (s *testServer) url(path string) string {
	if strings.HasPrefix(path, "/") {
		return s.baseURL + path
	}
	return s.baseURL + "/" + path
}

// login posts credentials and returns the session cookie value.
func (s *testServer) login(t *testing.T, email, password string) string {
	t.Helper()
	status, body, h := s.doJSON(t, http.MethodPost, "/member/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	if status != http.StatusOK {
		t.Fatalf("login status=%d body=%s", status, string(body))
	}
	resp := http.Response{Header: h}
	for _, c := range resp.Cookies() {
		if c.Name == httpapi.SessionCookieName {
			return c.Value
		}
	}
	t.Fatalf("login set no %s cookie", httpapi.SessionCookieName)
	return ""
}

func (s *testServer) doJSON(t *testing.T, method string, path string, session string, body any, headers ...string) (int, []byte, http.Header) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, s.url(path), r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if session != "" {
		req.AddCookie(&http.Cookie{Name: httpapi.SessionCookieName, Value: session})
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := s.client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()
	out, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, out, resp.Header
}

type errorResponse struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"requestId"`
	} `json:"error"`
}

func mustUnmarshal[T any](t *testing.T, b []byte) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v\nbody=%s", err, string(b))
	}
	return out
}

func requireStatus(t *testing.T, status int, body []byte, want int) {
	t.Helper()
	if status != want {
		t.Fatalf("status=%d want=%d body=%s", status, want, string(body))
	}
}

func requireErrorCode(t *testing.T, status int, body []byte, wantStatus int, wantCode string) {
	t.Helper()
	requireStatus(t, status, body, wantStatus)
	got := mustUnmarshal[errorResponse](t, body)
	if got.Error.Code != wantCode {
		t.Fatalf("error.code=%q want=%q body=%s", got.Error.Code, wantCode, string(body))
	}
}

func requireHeaderPresent(t *testing.T, h http.Header, key string) {
	t.Helper()
	if strings.TrimSpace(h.Get(key)) == "" {
		t.Fatalf("expected header %q to be present", key)
	}
}

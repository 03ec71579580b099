package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	memclock "github.com/apa-portal/member-portal/internal/adapters/memory/clock"
	memidempotency "github.com/apa-portal/member-portal/internal/adapters/memory/idempotency"
	memmemberrepo "github.com/apa-portal/member-portal/internal/adapters/memory/memberrepo"
	memorderrepo "github.com/apa-portal/member-portal/internal/adapters/memory/orderrepo"
	memproductrepo "github.com/apa-portal/member-portal/internal/adapters/memory/productrepo"
	memrewardrepo "github.com/apa-portal/member-portal/internal/adapters/memory/rewardrepo"
	memsessionstore "github.com/apa-portal/member-portal/internal/adapters/memory/sessionstore"
	memvoucherrepo "github.com/apa-portal/member-portal/internal/adapters/memory/voucherrepo"
	"github.com/apa-portal/member-portal/internal/app/members"
	"github.com/apa-portal/member-portal/internal/app/orders"
	"github.com/apa-portal/member-portal/internal/app/products"
	"github.com/apa-portal/member-portal/internal/app/rewards"
	"github.com/apa-portal/member-portal/internal/app/sessions"
	"github.com/apa-portal/member-portal/internal/domain"
	"github.com/apa-portal/member-portal/internal/platform/auth/sessiontoken"
	"github.com/apa-portal/member-portal/internal/platform/config"
	"github.com/apa-portal/member-portal/internal/platform/idgen"
	"github.com/apa-portal/member-portal/internal/platform/logging"
	"github.com/apa-portal/member-portal/internal/ports/out/rewardrepo"
)

type testEnv struct {
	h        http.Handler
	clk      *memclock.ManualClock
	rewards  *memrewardrepo.Repo
	products *memproductrepo.Repo
	svcs     Services
}

type envOptions struct {
	rewardRepo rewardrepo.Repository
	routerOpts RouterOptions
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWithOptions(t, envOptions{})
}

func newTestEnvWithOptions(t *testing.T, opts envOptions) *testEnv {
	t.Helper()

	clk := memclock.NewManualClock(time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC))
	log := logging.Discard()

	memberRepo := memmemberrepo.NewRepo()
	sessionStore := memsessionstore.NewStore()
	productRepo := memproductrepo.NewRepo()
	rewardRepo := memrewardrepo.NewRepo()
	ids := idgen.New(clk)

	var rewardsRepo rewardrepo.Repository = rewardRepo
	if opts.rewardRepo != nil {
		rewardsRepo = opts.rewardRepo
	}

	signer := sessiontoken.NewWithClock(config.SessionConfig{
		Secret: strings.Repeat("s", 32),
		Issuer: "member-portal-test",
	}, clk)

	memberSvc := members.NewService(memberRepo, sessionStore, clk)
	memberSvc.HashCost = bcrypt.MinCost
	svcs := Services{
		Members:  memberSvc,
		Products: products.NewService(productRepo, clk),
		Rewards:  rewards.NewService(rewardsRepo, memvoucherrepo.NewRepo(), memberRepo, ids, clk),
		Orders:   orders.NewService(memorderrepo.NewRepo(), productRepo, ids, clk),
		Sessions: sessions.NewService(memberRepo, sessionStore, signer, clk, time.Hour, log),
	}
	srv := NewServer(svcs, memidempotency.NewStore(), ServerOptions{
		CookieSecure: true,
		SessionTTL:   time.Hour,
		Logger:       log,
		Clock:        clk,
	})
	return &testEnv{
		h:        NewRouterWithOptions(srv, opts.routerOpts),
		clk:      clk,
		rewards:  rewardRepo,
		products: productRepo,
		svcs:     svcs,
	}
}

func (e *testEnv) createMember(t *testing.T, email string, isAdmin bool, points int) domain.Member {
	t.Helper()
	m, err := e.svcs.Members.CreateMember(context.Background(), members.CreateMemberInput{
		DisplayName:   strings.Split(email, "@")[0],
		Email:         email,
		Password:      "password1",
		IsAdmin:       isAdmin,
		PointsBalance: points,
	})
	if err != nil {
		t.Fatalf("CreateMember: %v", err)
	}
	return m
}

func (e *testEnv) login(t *testing.T, email string) string {
	t.Helper()
	res, err := e.svcs.Sessions.Login(context.Background(), email, "password1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	return res.Token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	} else {
		rdr = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	e.h.ServeHTTP(rec, req)
	return rec
}

func decodeResponse[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func requireErrorCode(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status=%d, want %d body=%s", rec.Code, status, rec.Body.String())
	}
	var er struct {
		Error struct {
			Code      string `json:"code"`
			RequestID string `json:"requestId"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &er); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	if er.Error.Code != code {
		t.Fatalf("code=%q, want %q body=%s", er.Error.Code, code, rec.Body.String())
	}
	if er.Error.RequestID == "" {
		t.Fatalf("missing requestId: %s", rec.Body.String())
	}
}

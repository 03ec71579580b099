package sessiontoken_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/apa-portal/member-portal/internal/platform/auth/sessiontoken"
	"github.com/apa-portal/member-portal/internal/platform/config"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }
func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func testConfig() config.SessionConfig {
	return config.SessionConfig{
		Secret: strings.Repeat("k", 32),
		Issuer: "test-iss",
		TTL:    time.Hour,
	}
}

func TestSigner_IssueThenVerify(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{now: time.Unix(1700000000, 0)}
	s := sessiontoken.NewWithClock(testConfig(), clk)

	raw, err := s.Issue(sessiontoken.Claims{
		SessionID: "sess-1",
		MemberID:  "member-123",
		IssuedAt:  clk.Now(),
		ExpiresAt: clk.Now().Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	got, err := s.Verify(raw)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if got.SessionID != "sess-1" || got.MemberID != "member-123" {
		t.Fatalf("claims mismatch: %+v", got)
	}
	if !got.ExpiresAt.Equal(time.Unix(1700000000+3600, 0).UTC()) {
		t.Fatalf("ExpiresAt=%v", got.ExpiresAt)
	}
}

func TestSigner_Verify_Expired(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{now: time.Unix(1700000000, 0)}
	s := sessiontoken.NewWithClock(testConfig(), clk)

	raw, err := s.Issue(sessiontoken.Claims{
		SessionID: "sess-1",
		MemberID:  "member-123",
		IssuedAt:  clk.Now(),
		ExpiresAt: clk.Now().Add(5 * time.Minute),
	})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	clk.Advance(6 * time.Minute)
	if _, err := s.Verify(raw); !errors.Is(err, sessiontoken.ErrUnauthorized) {
		t.Fatalf("err=%v, want ErrUnauthorized", err)
	}
}

func TestSigner_Verify_WrongSecretOrIssuer(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{now: time.Unix(1700000000, 0)}
	s := sessiontoken.NewWithClock(testConfig(), clk)

	otherCfg := testConfig()
	otherCfg.Secret = strings.Repeat("x", 32)
	other := sessiontoken.NewWithClock(otherCfg, clk)

	raw, err := other.Issue(sessiontoken.Claims{
		SessionID: "sess-1",
		MemberID:  "m",
		IssuedAt:  clk.Now(),
		ExpiresAt: clk.Now().Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := s.Verify(raw); !errors.Is(err, sessiontoken.ErrUnauthorized) {
		t.Fatalf("wrong secret: err=%v, want ErrUnauthorized", err)
	}

	issCfg := testConfig()
	issCfg.Issuer = "someone-else"
	wrongIss := sessiontoken.NewWithClock(issCfg, clk)
	raw, err = wrongIss.Issue(sessiontoken.Claims{
		SessionID: "sess-1",
		MemberID:  "m",
		IssuedAt:  clk.Now(),
		ExpiresAt: clk.Now().Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := s.Verify(raw); !errors.Is(err, sessiontoken.ErrUnauthorized) {
		t.Fatalf("wrong issuer: err=%v, want ErrUnauthorized", err)
	}
}

func TestSigner_Verify_RejectsNoneAndGarbage(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{now: time.Unix(1700000000, 0)}
	s := sessiontoken.NewWithClock(testConfig(), clk)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Issuer:    "test-iss",
		Subject:   "m",
		ID:        "sess-1",
		ExpiresAt: jwt.NewNumericDate(clk.Now().Add(time.Hour)),
	})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("SignedString: %v", err)
	}

	for _, tok := range []string{"", "not-a-jwt", raw} {
		if _, err := s.Verify(tok); !errors.Is(err, sessiontoken.ErrUnauthorized) {
			t.Fatalf("Verify(%q) err=%v, want ErrUnauthorized", tok, err)
		}
	}
}

func TestSigner_Issue_RequiresIDs(t *testing.T) {
	t.Parallel()

	s := sessiontoken.New(testConfig())
	if _, err := s.Issue(sessiontoken.Claims{MemberID: "m"}); err == nil {
		t.Fatalf("expected error for missing session ID")
	}
}

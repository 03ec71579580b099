package httpapi

import (
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"

	"github.com/apa-portal/member-portal/internal/app/sessions"
	"github.com/apa-portal/member-portal/internal/domain"
)

func TestTokensFromRequest(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := tokensFromRequest(req); len(got) != 0 {
		t.Fatalf("no credentials: %q", got)
	}

	req.Header.Set("Authorization", "Bearer  bearer-token ")
	if got := tokensFromRequest(req); !slices.Equal(got, []string{"bearer-token"}) {
		t.Fatalf("bearer: %q", got)
	}

	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "cookie-token"})
	if got := tokensFromRequest(req); !slices.Equal(got, []string{"cookie-token", "bearer-token"}) {
		t.Fatalf("cookie then bearer: %q", got)
	}

	same := httptest.NewRequest(http.MethodGet, "/", nil)
	same.Header.Set("Authorization", "Bearer tok")
	same.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "tok"})
	if got := tokensFromRequest(same); !slices.Equal(got, []string{"tok"}) {
		t.Fatalf("duplicate token: %q", got)
	}

	basic := httptest.NewRequest(http.MethodGet, "/", nil)
	basic.Header.Set("Authorization", "Basic abc")
	if got := tokensFromRequest(basic); len(got) != 0 {
		t.Fatalf("basic auth: %q", got)
	}
}

func TestSessionMiddleware_StaleCookieFallsBackToBearer(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.createMember(t, "alice@example.com", false, 0)
	token := env.login(t, "alice@example.com")

	req := httptest.NewRequest(http.MethodGet, "/api/auth/status", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "stale-session-token"})
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	env.h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s, want 200 from the bearer session", rec.Code, rec.Body.String())
	}
	if got := decodeResponse[AuthStatusResponse](t, rec); !got.Authenticated || got.Member == nil || got.Member.MemberId == "" {
		t.Fatalf("auth status=%+v", got)
	}
}

func TestGuards(t *testing.T) {
	t.Parallel()

	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTeapot) })
	member := sessions.Present(domain.MemberSession{MemberID: "m-1"})
	admin := sessions.Present(domain.MemberSession{MemberID: "m-2", IsAdmin: true})

	cases := []struct {
		name  string
		guard func(http.Handler) http.Handler
		res   sessions.Resolution
		want  int
	}{
		{"member api absent", RequireMember, sessions.Absent(), http.StatusUnauthorized},
		{"member api present", RequireMember, member, http.StatusTeapot},
		{"member page absent", RequireMemberPage, sessions.Absent(), http.StatusSeeOther},
		{"member page present", RequireMemberPage, member, http.StatusTeapot},
		{"admin absent", RequireAdmin, sessions.Absent(), http.StatusUnauthorized},
		{"admin as member", RequireAdmin, member, http.StatusForbidden},
		{"admin as admin", RequireAdmin, admin, http.StatusTeapot},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			h := NewSessionMiddleware(fixedResolver{res: tc.res})(tc.guard(ok))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
			if rec.Code != tc.want {
				t.Fatalf("status=%d, want %d", rec.Code, tc.want)
			}
			if tc.want == http.StatusSeeOther && rec.Header().Get("Location") != "/member/login" {
				t.Fatalf("Location=%q", rec.Header().Get("Location"))
			}
		})
	}
}

package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/apa-portal/member-portal/internal/app/sessions"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "member_session"

// SessionResolver turns a raw session token into a two-variant resolution.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) sessions.Resolution
}

// NewSessionMiddleware resolves the caller's session once per request and stores the
// result in request context. It never rejects a request; guards below do that.
func NewSessionMiddleware(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Health endpoint is deliberately unauthenticated.
			if r.URL.Path == "/healthz" {
				next.ServeHTTP(w, r)
				return
			}
			res := sessions.Absent()
			for _, token := range tokensFromRequest(r) {
				if res = resolver.Resolve(r.Context(), token); res.IsPresent() {
					break
				}
			}
			next.ServeHTTP(w, r.WithContext(WithResolution(r.Context(), res)))
		})
	}
}

// tokensFromRequest returns the non-empty session tokens in the order they are
// tried: the session cookie, then Authorization: Bearer. A stale cookie does not
// hide a valid bearer token.
func tokensFromRequest(r *http.Request) []string {
	var out []string
	if c, err := r.Cookie(SessionCookieName); err == nil {
		if v := strings.TrimSpace(c.Value); v != "" {
			out = append(out, v)
		}
	}
	const prefix = "Bearer "
	if authz := r.Header.Get("Authorization"); strings.HasPrefix(authz, prefix) {
		if v := strings.TrimSpace(strings.TrimPrefix(authz, prefix)); v != "" && (len(out) == 0 || out[0] != v) {
			out = append(out, v)
		}
	}
	return out
}

// RequireMember rejects API requests without a live session (401).
func RequireMember(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := SessionFromContext(r.Context()); !ok {
			writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "member session required", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireMemberPage sends visitors without a session to the login page (303).
func RequireMemberPage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := SessionFromContext(r.Context()); !ok {
			http.Redirect(w, r, sessions.LoginPath, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects requests without a session (401) or from non-admins (403).
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := SessionFromContext(r.Context())
		if !ok {
			writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "member session required", nil)
			return
		}
		if !sess.IsAdmin {
			writeError(w, r, http.StatusForbidden, "FORBIDDEN", "admin access required", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

package httpapi

import (
	"mime"
	"net/http"
	"net/url"
	"time"

	"github.com/apa-portal/member-portal/internal/app/apperr"
	"github.com/apa-portal/member-portal/internal/app/sessions"
)

func (s *Server) LoginPage(w http.ResponseWriter, r *http.Request) {
	if ResolutionFromContext(r.Context()).IsPresent() {
		http.Redirect(w, r, sessions.DashboardPath, http.StatusFound)
		return
	}
	writeJSON(w, http.StatusOK, LoginHintResponse{
		Action: sessions.LoginPath,
		Method: http.MethodPost,
		Fields: []string{"email", "password"},
	})
}

// Login accepts a JSON body or a urlencoded form. Form posts are answered with
// redirects; JSON callers get the session descriptor.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	form := isFormPost(r)

	var in LoginRequest
	if form {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid form body", nil)
			return
		}
		in.Email = r.PostForm.Get("email")
		in.Password = r.PostForm.Get("password")
	} else if !decodeBody(w, r, &in) {
		return
	}

	res, err := s.Sessions.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		if form && apperr.HasCode(err, "INVALID_CREDENTIALS") {
			http.Redirect(w, r, sessions.LoginPath+"?"+url.Values{"error": {"invalid_credentials"}}.Encode(), http.StatusSeeOther)
			return
		}
		writeAppError(w, r, s.log, err)
		return
	}

	http.SetCookie(w, s.sessionCookie(res.Token, res.Session.ExpiresAt))
	if form {
		http.Redirect(w, r, sessions.DashboardPath, http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, AuthStatusResponse{Authenticated: true, Member: memberSessionFromDomain(res.Session)})
}

func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	for _, token := range tokensFromRequest(r) {
		if err := s.Sessions.Logout(r.Context(), token); err != nil {
			writeAppError(w, r, s.log, err)
			return
		}
	}
	http.SetCookie(w, s.clearedSessionCookie())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) Dashboard(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFromContext(r.Context())
	ctx := r.Context()

	m, err := s.Members.GetMember(ctx, sess.MemberID)
	if err != nil {
		writeAppError(w, r, s.log, err)
		return
	}
	ords, err := s.Orders.ListOrdersForMember(ctx, sess.MemberID)
	if err != nil {
		writeAppError(w, r, s.log, err)
		return
	}
	vs, err := s.Rewards.ListVouchers(ctx, sess.MemberID)
	if err != nil {
		writeAppError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, DashboardResponse{
		Member:   memberFromDomain(m),
		Orders:   ordersFromDomain(ords),
		Vouchers: vouchersFromDomain(vs),
	})
}

func (s *Server) sessionCookie(token string, expiresAt time.Time) *http.Cookie {
	c := &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		Expires:  expiresAt.UTC(),
	}
	if s.sessionTTL > 0 {
		c.MaxAge = int(s.sessionTTL / time.Second)
	}
	return c
}

func (s *Server) clearedSessionCookie() *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	}
}

func isFormPost(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/x-www-form-urlencoded"
}

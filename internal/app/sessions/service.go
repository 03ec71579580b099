package sessions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/apa-portal/member-portal/internal/app/apperr"
	"github.com/apa-portal/member-portal/internal/domain"
	"github.com/apa-portal/member-portal/internal/platform/auth/sessiontoken"
	clockport "github.com/apa-portal/member-portal/internal/ports/out/clock"
	"github.com/apa-portal/member-portal/internal/ports/out/memberrepo"
	"github.com/apa-portal/member-portal/internal/ports/out/sessionstore"
)

// TokenCodec signs and verifies session tokens.
type TokenCodec interface {
	Issue(c sessiontoken.Claims) (string, error)
	Verify(raw string) (sessiontoken.Claims, error)
}

type LoginResult struct {
	Token   string
	Session domain.MemberSession
}

type Service struct {
	members memberrepo.Repository
	store   sessionstore.Store
	tokens  TokenCodec
	clk     clockport.Clock
	log     *slog.Logger
	ttl     time.Duration

	newSessionID    func() domain.SessionID
	comparePassword func(hash, password []byte) error
}

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// dummyPasswordHash is compared against when no usable member hash exists.
func dummyPasswordHash() []byte {
	dummyHashOnce.Do(func() {
		h, err := bcrypt.GenerateFromPassword([]byte("member-portal-unused-password"), bcrypt.DefaultCost)
		if err != nil {
			panic(fmt.Sprintf("sessions: dummy password hash: %v", err))
		}
		dummyHash = h
	})
	return dummyHash
}

func NewService(
	members memberrepo.Repository,
	store sessionstore.Store,
	tokens TokenCodec,
	clk clockport.Clock,
	ttl time.Duration,
	log *slog.Logger,
) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		members: members,
		store:   store,
		tokens:  tokens,
		clk:     clk,
		log:     log,
		ttl:     ttl,
		newSessionID: func() domain.SessionID {
			return domain.SessionID(uuid.NewString())
		},
		comparePassword: bcrypt.CompareHashAndPassword,
	}
}

func invalidCredentials() *apperr.Error {
	return &apperr.Error{Status: 401, Code: "INVALID_CREDENTIALS", Message: "invalid email or password"}
}

func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return LoginResult{}, invalidCredentials()
	}
	m, err := s.members.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, memberrepo.ErrNotFound) {
		return LoginResult{}, err
	}
	// Every login attempt that reaches here performs exactly one bcrypt comparison.
	usable := err == nil && m.IsActive && m.PasswordHash != ""
	hash := dummyPasswordHash()
	if usable {
		hash = []byte(m.PasswordHash)
	}
	if cmpErr := s.comparePassword(hash, []byte(password)); cmpErr != nil || !usable {
		return LoginResult{}, invalidCredentials()
	}

	now := s.clk.Now().UTC()
	rec := sessionstore.Session{
		ID:        s.newSessionID(),
		MemberID:  m.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.store.Create(ctx, rec); err != nil {
		return LoginResult{}, err
	}
	token, err := s.tokens.Issue(sessiontoken.Claims{
		SessionID: rec.ID,
		MemberID:  rec.MemberID,
		IssuedAt:  rec.CreatedAt,
		ExpiresAt: rec.ExpiresAt,
	})
	if err != nil {
		return LoginResult{}, err
	}
	s.log.InfoContext(ctx, "member logged in", "member_id", m.ID, "session_id", rec.ID)
	return LoginResult{Token: token, Session: describe(m, rec)}, nil
}

// Logout revokes the session behind token. Unknown or invalid tokens are not an error.
func (s *Service) Logout(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return nil
	}
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil
	}
	return s.store.Delete(ctx, claims.SessionID)
}

// Resolve makes exactly one attempt to find the live session behind token.
// Every failure collapses to Absent; the cause is logged, never returned.
func (s *Service) Resolve(ctx context.Context, token string) Resolution {
	if strings.TrimSpace(token) == "" {
		return Absent()
	}
	claims, err := s.tokens.Verify(token)
	if err != nil {
		s.log.WarnContext(ctx, "session token rejected", "error", err)
		return Absent()
	}
	rec, err := s.store.Get(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, sessionstore.ErrNotFound) {
			s.log.WarnContext(ctx, "session revoked", "session_id", claims.SessionID)
		} else {
			s.log.WarnContext(ctx, "session lookup failed", "session_id", claims.SessionID, "error", err)
		}
		return Absent()
	}
	if rec.MemberID != claims.MemberID {
		s.log.WarnContext(ctx, "session member mismatch", "session_id", rec.ID)
		return Absent()
	}
	if !s.clk.Now().Before(rec.ExpiresAt) {
		s.log.WarnContext(ctx, "session expired", "session_id", rec.ID)
		if err := s.store.Delete(ctx, rec.ID); err != nil {
			s.log.WarnContext(ctx, "expired session cleanup failed", "session_id", rec.ID, "error", err)
		}
		return Absent()
	}
	m, err := s.members.GetByID(ctx, rec.MemberID)
	if err != nil {
		s.log.WarnContext(ctx, "session member lookup failed", "member_id", rec.MemberID, "error", err)
		return Absent()
	}
	if !m.IsActive {
		s.log.WarnContext(ctx, "session member deactivated", "member_id", m.ID)
		return Absent()
	}
	return Present(describe(m, rec))
}

func describe(m memberrepo.Member, rec sessionstore.Session) domain.MemberSession {
	return domain.MemberSession{
		SessionID:   rec.ID,
		MemberID:    m.ID,
		DisplayName: m.DisplayName,
		Email:       m.Email,
		IsAdmin:     m.IsAdmin,
		IssuedAt:    rec.CreatedAt,
		ExpiresAt:   rec.ExpiresAt,
	}
}

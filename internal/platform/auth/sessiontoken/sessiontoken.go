// Package sessiontoken signs and verifies member session tokens.
//
// A token is an HS256 JWT whose `sub` is the member ID and whose `jti` is the
// server-side session ID. Verifying a token only proves it was issued by us and
// has not expired; whether the session is still live is the session store's call.
package sessiontoken

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/apa-portal/member-portal/internal/domain"
	"github.com/apa-portal/member-portal/internal/platform/config"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
)

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Claims is the verified content of a session token.
type Claims struct {
	SessionID domain.SessionID
	MemberID  domain.MemberID
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type Signer struct {
	secret []byte
	issuer string
	clock  Clock
}

func New(cfg config.SessionConfig) *Signer {
	return NewWithClock(cfg, nil)
}

func NewWithClock(cfg config.SessionConfig, clock Clock) *Signer {
	if clock == nil {
		clock = realClock{}
	}
	return &Signer{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		clock:  clock,
	}
}

// Issue signs a token for the given session.
func (s *Signer) Issue(c Claims) (string, error) {
	if c.SessionID == "" || c.MemberID == "" {
		return "", errors.New("session token requires session and member IDs")
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    s.issuer,
		Subject:   string(c.MemberID),
		ID:        string(c.SessionID),
		IssuedAt:  jwt.NewNumericDate(c.IssuedAt),
		NotBefore: jwt.NewNumericDate(c.IssuedAt),
		ExpiresAt: jwt.NewNumericDate(c.ExpiresAt),
	})
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, issuer, exp and nbf and returns the claims.
// Every failure collapses to ErrUnauthorized.
func (s *Signer) Verify(raw string) (Claims, error) {
	if raw == "" {
		return Claims{}, ErrUnauthorized
	}
	var rc jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &rc, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil {
		return Claims{}, ErrUnauthorized
	}
	if rc.Subject == "" || rc.ID == "" {
		return Claims{}, ErrUnauthorized
	}

	out := Claims{
		SessionID: domain.SessionID(rc.ID),
		MemberID:  domain.MemberID(rc.Subject),
	}
	if rc.IssuedAt != nil {
		out.IssuedAt = rc.IssuedAt.UTC()
	}
	if rc.ExpiresAt != nil {
		out.ExpiresAt = rc.ExpiresAt.UTC()
	}
	return out, nil
}

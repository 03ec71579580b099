package httpapi

import (
	"log/slog"
	"time"

	"github.com/apa-portal/member-portal/internal/app/members"
	"github.com/apa-portal/member-portal/internal/app/orders"
	"github.com/apa-portal/member-portal/internal/app/products"
	"github.com/apa-portal/member-portal/internal/app/rewards"
	"github.com/apa-portal/member-portal/internal/app/sessions"
	"github.com/apa-portal/member-portal/internal/ports/out/clock"
	"github.com/apa-portal/member-portal/internal/ports/out/idempotency"
)

// Services groups the application services the HTTP adapter delegates to.
type Services struct {
	Members  *members.Service
	Products *products.Service
	Rewards  *rewards.Service
	Orders   *orders.Service
	Sessions *sessions.Service
}

type ServerOptions struct {
	// CookieSecure sets the Secure attribute on the session cookie.
	CookieSecure bool
	SessionTTL   time.Duration
	Logger       *slog.Logger
	// Clock stamps idempotency records; defaults to wall time.
	Clock clock.Clock
}

// Server holds the HTTP handlers.
type Server struct {
	Members  *members.Service
	Products *products.Service
	Rewards  *rewards.Service
	Orders   *orders.Service
	Sessions *sessions.Service
	Idem     idempotency.Store

	cookieSecure bool
	sessionTTL   time.Duration
	log          *slog.Logger
	clk          clock.Clock
}

type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now().UTC() }

func NewServer(svcs Services, idem idempotency.Store, opts ServerOptions) *Server {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	var clk clock.Clock = wallClock{}
	if opts.Clock != nil {
		clk = opts.Clock
	}
	return &Server{
		Members:      svcs.Members,
		Products:     svcs.Products,
		Rewards:      svcs.Rewards,
		Orders:       svcs.Orders,
		Sessions:     svcs.Sessions,
		Idem:         idem,
		cookieSecure: opts.CookieSecure,
		sessionTTL:   opts.SessionTTL,
		log:          log,
		clk:          clk,
	}
}

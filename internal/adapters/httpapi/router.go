package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type RouterOptions struct {
	// SessionMiddleware overrides session resolution; tests use it to inject a fixed resolver.
	SessionMiddleware func(http.Handler) http.Handler
}

// NewRouter constructs the HTTP router with session resolution backed by the server's sessions service.
func NewRouter(s *Server) http.Handler {
	return NewRouterWithOptions(s, RouterOptions{})
}

func NewRouterWithOptions(s *Server, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(NewRequestLogger(s.log))
	r.Use(middleware.Recoverer)

	// Health endpoint is deliberately unauthenticated (used for infra checks).
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	sessionMW := opts.SessionMiddleware
	if sessionMW == nil {
		sessionMW = NewSessionMiddleware(s.Sessions)
	}

	r.Group(func(r chi.Router) {
		r.Use(sessionMW)

		r.Get("/member", s.MemberGate)
		r.Get("/member/login", s.LoginPage)
		r.Post("/member/login", s.Login)
		r.Post("/member/logout", s.Logout)
		r.With(RequireMemberPage).Get("/member/dashboard", s.Dashboard)

		r.Route("/api", func(r chi.Router) {
			r.Get("/auth/status", s.AuthStatus)
			r.Get("/rewards", s.RewardCatalog)

			r.Group(func(r chi.Router) {
				r.Use(RequireMember)
				r.Post("/rewards/{rewardTypeId}/redeem", s.RedeemReward)
				r.Get("/vouchers", s.ListMyVouchers)
				r.Get("/orders", s.ListMyOrders)
				r.Post("/orders", s.PlaceOrder)
				r.Post("/sample-requests", s.RequestSample)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(RequireAdmin)

			r.Get("/members", s.AdminListMembers)
			r.Get("/members/search", s.AdminSearchMembers)
			r.Post("/members", s.AdminCreateMember)
			r.Get("/members/{memberId}", s.AdminGetMember)
			r.Patch("/members/{memberId}", s.AdminUpdateMember)
			r.Delete("/members/{memberId}", s.AdminDeactivateMember)

			r.Get("/products", s.AdminListProducts)
			r.Post("/products", s.AdminCreateProduct)
			r.Get("/products/{productId}", s.AdminGetProduct)
			r.Patch("/products/{productId}", s.AdminUpdateProduct)
			r.Delete("/products/{productId}", s.AdminDeactivateProduct)

			r.Get("/reward-types", s.AdminListRewardTypes)
			r.Post("/reward-types", s.AdminCreateRewardType)
			r.Patch("/reward-types/{rewardTypeId}", s.AdminUpdateRewardType)

			r.Get("/orders", s.AdminListOrders)
		})
	})
	return r
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/apa-portal/member-portal/internal/adapters/httpapi"
	"github.com/apa-portal/member-portal/internal/app/apperr"
	"github.com/apa-portal/member-portal/internal/app/members"
	"github.com/apa-portal/member-portal/internal/app/orders"
	"github.com/apa-portal/member-portal/internal/app/products"
	"github.com/apa-portal/member-portal/internal/app/rewards"
	"github.com/apa-portal/member-portal/internal/app/sessions"
	"github.com/apa-portal/member-portal/internal/platform/auth/sessiontoken"
	platformclock "github.com/apa-portal/member-portal/internal/platform/clock"
	"github.com/apa-portal/member-portal/internal/platform/config"
	"github.com/apa-portal/member-portal/internal/platform/idgen"
	"github.com/apa-portal/member-portal/internal/platform/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	log := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.close()

	clk := platformclock.NewSystemClock()
	ids := idgen.New(clk)
	signer := sessiontoken.New(cfg.Session)

	memberSvc := members.NewService(st.members, st.sessions, clk)
	if cfg.Bootstrap.Enabled() {
		if err := bootstrapAdmin(ctx, memberSvc, cfg.Bootstrap, log); err != nil {
			return err
		}
	}

	api := httpapi.NewServer(httpapi.Services{
		Members:  memberSvc,
		Products: products.NewService(st.products, clk),
		Rewards:  rewards.NewService(st.rewards, st.vouchers, st.members, ids, clk),
		Orders:   orders.NewService(st.orders, st.products, ids, clk),
		Sessions: sessions.NewService(st.members, st.sessions, signer, clk, cfg.Session.TTL, log),
	}, st.idempotency, httpapi.ServerOptions{
		CookieSecure: cfg.Session.CookieSecure,
		SessionTTL:   cfg.Session.TTL,
		Logger:       log,
		Clock:        clk,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpapi.NewRouter(api),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("api listening", "addr", srv.Addr, "storage", cfg.StorageBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down", "timeout", cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// bootstrapAdmin seeds the configured admin unless the email is already taken.
func bootstrapAdmin(ctx context.Context, svc *members.Service, b config.BootstrapConfig, log *slog.Logger) error {
	m, err := svc.CreateMember(ctx, members.CreateMemberInput{
		DisplayName: "Administrator",
		Email:       b.AdminEmail,
		Password:    b.AdminPassword,
		IsAdmin:     true,
	})
	switch {
	case apperr.HasCode(err, "EMAIL_ALREADY_IN_USE"):
		log.Info("bootstrap admin already present", "email", b.AdminEmail)
		return nil
	case err != nil:
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	log.Info("bootstrap admin created", "member_id", m.ID)
	return nil
}

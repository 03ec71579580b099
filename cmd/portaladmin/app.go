package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/apa-portal/member-portal/internal/adapters/postgres"
	pgmemberrepo "github.com/apa-portal/member-portal/internal/adapters/postgres/memberrepo"
	pgsessionstore "github.com/apa-portal/member-portal/internal/adapters/postgres/sessionstore"
	"github.com/apa-portal/member-portal/internal/app/members"
	platformclock "github.com/apa-portal/member-portal/internal/platform/clock"
	"github.com/apa-portal/member-portal/internal/platform/idgen"
	memberrepoport "github.com/apa-portal/member-portal/internal/ports/out/memberrepo"
	sessionstoreport "github.com/apa-portal/member-portal/internal/ports/out/sessionstore"
)

const usage = `usage: portaladmin <command> [flags]

commands:
  create-admin   create an admin member in the Postgres database
  gen            print sample order numbers, sample request numbers and voucher codes
`

var errUsage = errors.New("invalid usage")

// storeOpener opens the repositories create-admin writes to.
type storeOpener func(ctx context.Context, dsn string) (memberrepoport.Repository, sessionstoreport.Store, func(), error)

type app struct {
	getenv     func(string) string
	openStores storeOpener
	gen        *idgen.Generator
	clk        platformclock.SystemClock
}

func newApp(getenv func(string) string, open storeOpener) *app {
	clk := platformclock.NewSystemClock()
	return &app{getenv: getenv, openStores: open, gen: idgen.New(clk), clk: clk}
}

func (a *app) run(ctx context.Context, args []string, out, errOut io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(errOut, usage)
		return errUsage
	}
	switch args[0] {
	case "create-admin":
		return a.createAdmin(ctx, args[1:], out, errOut)
	case "gen":
		return a.generate(args[1:], out, errOut)
	case "-h", "--help", "help":
		fmt.Fprint(out, usage)
		return nil
	default:
		fmt.Fprint(errOut, usage)
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
}

func (a *app) createAdmin(ctx context.Context, args []string, out, errOut io.Writer) error {
	fs := flag.NewFlagSet("create-admin", flag.ContinueOnError)
	fs.SetOutput(errOut)
	dsn := fs.String("database-url", a.getenv("DATABASE_URL"), "postgres connection string")
	email := fs.String("email", "", "admin email address")
	name := fs.String("name", "Administrator", "admin display name")
	password := fs.String("password", a.getenv("PORTALADMIN_PASSWORD"), "admin password (or PORTALADMIN_PASSWORD)")
	points := fs.Int("points", 0, "initial points balance")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*email) == "" {
		return fmt.Errorf("%w: -email is required", errUsage)
	}
	if *password == "" {
		return fmt.Errorf("%w: -password or PORTALADMIN_PASSWORD is required", errUsage)
	}
	if strings.TrimSpace(*dsn) == "" {
		return fmt.Errorf("%w: -database-url or DATABASE_URL is required", errUsage)
	}

	repo, sessions, closeFn, err := a.openStores(ctx, *dsn)
	if err != nil {
		return err
	}
	defer closeFn()

	svc := members.NewService(repo, sessions, a.clk)
	m, err := svc.CreateMember(ctx, members.CreateMemberInput{
		DisplayName:   *name,
		Email:         *email,
		Password:      *password,
		IsAdmin:       true,
		PointsBalance: *points,
	})
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	fmt.Fprintf(out, "created admin %s <%s> id=%s\n", m.DisplayName, m.Email, m.ID)
	return nil
}

func (a *app) generate(args []string, out, errOut io.Writer) error {
	fs := flag.NewFlagSet("gen", flag.ContinueOnError)
	fs.SetOutput(errOut)
	n := fs.Int("n", 1, "identifiers per kind")
	kind := fs.String("kind", "all", "order, sample, voucher or all")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *n < 1 {
		return fmt.Errorf("%w: -n must be positive", errUsage)
	}

	var gens []func() string
	switch *kind {
	case "order":
		gens = append(gens, a.gen.OrderNumber)
	case "sample":
		gens = append(gens, a.gen.SampleRequestNumber)
	case "voucher":
		gens = append(gens, a.gen.VoucherCode)
	case "all":
		gens = append(gens, a.gen.OrderNumber, a.gen.SampleRequestNumber, a.gen.VoucherCode)
	default:
		return fmt.Errorf("%w: unknown kind %q", errUsage, *kind)
	}
	for _, g := range gens {
		for i := 0; i < *n; i++ {
			fmt.Fprintln(out, g())
		}
	}
	return nil
}

func openPostgresStores(ctx context.Context, dsn string) (memberrepoport.Repository, sessionstoreport.Store, func(), error) {
	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolOptions{MaxConns: 2})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("migrate postgres: %w", err)
	}
	return pgmemberrepo.NewRepo(pool), pgsessionstore.NewStore(pool), pool.Close, nil
}

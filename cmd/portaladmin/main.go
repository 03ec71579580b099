// Command portaladmin is the operator CLI for the member portal.
//
//	portaladmin create-admin -email admin@example.com -name "Site Admin"
//	portaladmin gen -n 3
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := newApp(os.Getenv, openPostgresStores)
	if err := app.run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "portaladmin: %v\n", err)
		os.Exit(1)
	}
}

// Package main provides the tdb command.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/leapstack-labs/tdb/internal/cli"

	// Register the SQL Server adapter.
	_ "github.com/leapstack-labs/tdb/pkg/adapters/mssql"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

// run keeps deferred cleanup ahead of the process exit.
func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return cli.Execute(ctx, os.Args[1:])
}

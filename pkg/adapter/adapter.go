// Package adapter defines the execution boundary between tdb and a database
// server.
//
// Concrete adapters live in pkg/adapters/ subdirectories and register
// themselves by name from an init function. Import them with a blank
// identifier:
//
//	import _ "github.com/leapstack-labs/tdb/pkg/adapters/mssql"
package adapter

import (
	"context"

	"github.com/leapstack-labs/tdb/pkg/core"
)

// Adapter defines the interface that all database adapters must implement.
type Adapter interface {
	// Connect opens a session to the database described by cfg.
	// It returns once the server has accepted the login.
	Connect(ctx context.Context, cfg core.AdapterConfig) error

	// Close closes the session and releases resources.
	Close() error

	// Query executes a statement and returns every row it produced,
	// decoded into typed column values.
	Query(ctx context.Context, sql string) (*core.ResultSet, error)
}

package mssql

import (
	"log/slog"

	"github.com/leapstack-labs/tdb/pkg/adapter"
)

// Name is the adapter type registered by this package.
const Name = "mssql"

func init() {
	adapter.Register(Name, func(logger *slog.Logger) adapter.Adapter { return New(logger) })
}

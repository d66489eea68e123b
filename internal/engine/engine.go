// Package engine runs one tdb invocation: it resolves the server and
// database, builds the statement, executes it and prints the result.
package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/leapstack-labs/tdb/internal/dbname"
	"github.com/leapstack-labs/tdb/internal/query"
	"github.com/leapstack-labs/tdb/internal/registry"
	"github.com/leapstack-labs/tdb/internal/render"
	"github.com/leapstack-labs/tdb/pkg/adapter"
	"github.com/leapstack-labs/tdb/pkg/core"
)

// DefaultAdapter is the adapter type used when Config.AdapterType is empty.
const DefaultAdapter = "mssql"

// AdapterFactory builds an adapter for a connection config.
type AdapterFactory func(cfg core.AdapterConfig, logger *slog.Logger) (adapter.Adapter, error)

// Config holds engine configuration.
type Config struct {
	// Servers resolves server names to addresses.
	Servers *registry.ServerRegistry
	// AdapterType selects the registered adapter. Empty means DefaultAdapter.
	AdapterType string
	// Username and Password are passed to the server login when set.
	Username string
	Password string
	// ConnectTimeout bounds the connect phase. Zero uses the adapter default.
	ConnectTimeout time.Duration
	// NewAdapter overrides adapter construction. Nil uses adapter.NewAdapter.
	NewAdapter AdapterFactory
	// Out receives rendered results. Nil means os.Stdout.
	Out io.Writer
	// Logger is the structured logger (optional, uses discard if nil).
	Logger *slog.Logger
}

// Request is one parsed invocation.
type Request struct {
	Server    string
	Database  string
	Operation query.Operation
	Table     string
	Clauses   query.ClauseSet
	Format    render.Format
	// Timeout bounds statement execution. Zero means unbounded.
	Timeout time.Duration
}

// Engine dispatches requests against the configured servers.
type Engine struct {
	servers        *registry.ServerRegistry
	adapterType    string
	username       string
	password       string
	connectTimeout time.Duration
	newAdapter     AdapterFactory
	fromRegistry   bool
	out            io.Writer
	logger         *slog.Logger
}

// New creates an engine.
func New(cfg Config) *Engine {
	e := &Engine{
		servers:        cfg.Servers,
		adapterType:    cfg.AdapterType,
		username:       cfg.Username,
		password:       cfg.Password,
		connectTimeout: cfg.ConnectTimeout,
		newAdapter:     cfg.NewAdapter,
		out:            cfg.Out,
		logger:         cfg.Logger,
	}
	if e.servers == nil {
		e.servers = registry.NewServerRegistry(nil)
	}
	if e.adapterType == "" {
		e.adapterType = DefaultAdapter
	}
	if e.newAdapter == nil {
		e.fromRegistry = true
		e.newAdapter = func(c core.AdapterConfig, l *slog.Logger) (adapter.Adapter, error) {
			return adapter.NewAdapter(c, l)
		}
	}
	if e.out == nil {
		e.out = os.Stdout
	}
	if e.logger == nil {
		e.logger = slog.New(slog.DiscardHandler)
	}
	return e
}

// Run performs resolve, build, execute and render for req. Every step fails
// fast; nothing touches the network until the statement has been built.
func (e *Engine) Run(ctx context.Context, req Request) error {
	if e.fromRegistry && !adapter.IsRegistered(e.adapterType) {
		return &adapter.UnknownAdapterError{Type: e.adapterType, Available: adapter.ListAdapters()}
	}

	entry, err := e.servers.Resolve(req.Server)
	if err != nil {
		return err
	}

	database := dbname.Resolve(req.Database)
	if database != req.Database {
		e.logger.Debug("expanded database code", slog.String("code", req.Database), slog.String("database", database))
	}

	stmt, err := query.Build(req.Operation, req.Table, req.Clauses)
	if err != nil {
		return err
	}

	log := e.logger.With(slog.String("server", entry.Name), slog.String("database", database))
	log.Debug("built statement", slog.String("sql", stmt))

	cfg := core.AdapterConfig{
		Type:           e.adapterType,
		Host:           entry.Host,
		Port:           int(entry.Port),
		Database:       database,
		Username:       e.username,
		Password:       e.password,
		ConnectTimeout: e.connectTimeout,
	}

	db, err := e.newAdapter(cfg, log)
	if err != nil {
		return err
	}
	if err := db.Connect(ctx, cfg); err != nil {
		return fmt.Errorf("server %s: %w", entry.Name, err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn("failed to close connection", slog.Any("error", err))
		}
	}()

	qctx := ctx
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		qctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	start := time.Now()
	rs, err := db.Query(qctx, stmt)
	if err != nil {
		return err
	}
	log.Info("query complete", slog.Int("rows", rs.Len()), slog.Duration("elapsed", time.Since(start)))

	rows, err := render.Render(rs)
	if err != nil {
		return err
	}
	return render.Write(e.out, rows, req.Format)
}

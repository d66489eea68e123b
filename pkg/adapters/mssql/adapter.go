// Package mssql provides the SQL Server adapter for tdb.
package mssql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/leapstack-labs/tdb/pkg/adapter"
	"github.com/leapstack-labs/tdb/pkg/core"
)

const (
	// DefaultPort is the SQL Server TCP port used when none is configured.
	DefaultPort = 1433

	// DefaultAppName is reported to the server as the client application.
	DefaultAppName = "tdb"

	// DefaultConnectTimeout bounds the dial and login phase.
	DefaultConnectTimeout = 3 * time.Second
)

// Adapter implements the adapter.Adapter interface for SQL Server.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new SQL Server adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger, Decode: decodeValue},
	}
}

// Connect opens a session and waits for the login to complete. The wait is
// bounded by cfg.ConnectTimeout, or DefaultConnectTimeout when unset.
func (a *Adapter) Connect(ctx context.Context, cfg core.AdapterConfig) error {
	cfg = withDefaults(cfg)
	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))

	a.Logger.Debug("connecting to sql server",
		slog.String("addr", addr),
		slog.String("database", cfg.Database),
		slog.Duration("timeout", cfg.ConnectTimeout))

	db, err := sql.Open("sqlserver", buildDSN(cfg))
	if err != nil {
		return fmt.Errorf("failed to open sql server connection: %w", err)
	}
	db.SetMaxOpenConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return connectError(pingCtx, addr, cfg.ConnectTimeout, err)
	}

	a.Logger.Info("connected", slog.String("addr", addr), slog.String("database", cfg.Database))

	a.DB = db
	a.Cfg = cfg
	return nil
}

func withDefaults(cfg core.AdapterConfig) core.AdapterConfig {
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.AppName == "" {
		cfg.AppName = DefaultAppName
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = DefaultConnectTimeout
	}
	return cfg
}

// buildDSN constructs a sqlserver:// connection URL. Encryption is always
// required; cfg.Options may add further driver parameters but cannot turn
// encryption off.
func buildDSN(cfg core.AdapterConfig) string {
	q := url.Values{}

	keys := make([]string, 0, len(cfg.Options))
	for k := range cfg.Options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		q.Set(k, cfg.Options[k])
	}

	if cfg.Database != "" {
		q.Set("database", cfg.Database)
	}
	q.Set("app name", cfg.AppName)
	q.Set("encrypt", "true")
	if cfg.ConnectTimeout > 0 {
		secs := int((cfg.ConnectTimeout + time.Second - 1) / time.Second)
		q.Set("dial timeout", strconv.Itoa(secs))
	}

	u := &url.URL{
		Scheme:   "sqlserver",
		Host:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		RawQuery: q.Encode(),
	}
	if cfg.Username != "" {
		u.User = url.UserPassword(cfg.Username, cfg.Password)
	}
	return u.String()
}

func connectError(ctx context.Context, addr string, timeout time.Duration, err error) error {
	var netErr net.Error
	if errors.Is(ctx.Err(), context.DeadlineExceeded) ||
		errors.Is(err, context.DeadlineExceeded) ||
		(errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: connecting to %s took longer than %s: %w", core.ErrTimeout, addr, timeout, err)
	}
	if errors.Is(ctx.Err(), context.Canceled) {
		return fmt.Errorf("connecting to %s: %w", addr, ctx.Err())
	}
	return fmt.Errorf("%w: failed to connect to %s: %w", core.ErrExec, addr, err)
}

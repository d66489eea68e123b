package adapter

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/tdb/pkg/core"
)

// errNotConnected is returned when a query is attempted before Connect.
var errNotConnected = errors.New("database connection not established")

// DecodeFunc converts one scanned cell into a typed value. col describes the
// column the cell came from; raw is nil for SQL NULL.
type DecodeFunc func(col *sql.ColumnType, raw any) (core.ColumnValue, error)

// BaseSQLAdapter provides common database/sql functionality for adapters.
// Embed this struct in concrete adapter implementations to get standard
// Close and Query implementations.
type BaseSQLAdapter struct {
	DB     *sql.DB
	Cfg    core.AdapterConfig
	Logger *slog.Logger

	// Decode converts scanned cells. Nil uses DecodeGeneric.
	Decode DecodeFunc
}

// Close closes the database connection.
func (b *BaseSQLAdapter) Close() error {
	if b.DB != nil {
		if b.Logger != nil {
			b.Logger.Debug("closing database connection")
		}
		err := b.DB.Close()
		b.DB = nil
		return err
	}
	return nil
}

// IsConnected returns true if the database connection is established.
func (b *BaseSQLAdapter) IsConnected() bool {
	return b.DB != nil
}

// Query executes a statement and drains every row into a ResultSet.
// Failures reported by the server wrap core.ErrExec and an expired context
// wraps core.ErrTimeout. Cancellation wraps the context error.
func (b *BaseSQLAdapter) Query(ctx context.Context, sqlStr string) (*core.ResultSet, error) {
	if b.DB == nil {
		return nil, errNotConnected
	}

	rows, err := b.DB.QueryContext(ctx, sqlStr)
	if err != nil {
		return nil, classify(ctx, fmt.Errorf("failed to execute query: %w", err))
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.ColumnTypes()
	if err != nil {
		return nil, classify(ctx, fmt.Errorf("failed to read column types: %w", err))
	}

	decode := b.Decode
	if decode == nil {
		decode = DecodeGeneric
	}

	rs := &core.ResultSet{Columns: make([]string, len(cols))}
	for i, c := range cols {
		rs.Columns[i] = c.Name()
	}

	raw := make([]any, len(cols))
	dest := make([]any, len(cols))
	for i := range raw {
		dest[i] = &raw[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, classify(ctx, fmt.Errorf("failed to scan row %d: %w", len(rs.Rows)+1, err))
		}
		row := make([]core.ColumnValue, len(cols))
		for i, c := range cols {
			v, err := decode(c, raw[i])
			if err != nil {
				return nil, fmt.Errorf("column %q: %w", c.Name(), err)
			}
			row[i] = v
		}
		rs.Rows = append(rs.Rows, row)
	}

	if err := rows.Err(); err != nil {
		return nil, classify(ctx, fmt.Errorf("error iterating rows: %w", err))
	}

	if b.Logger != nil {
		b.Logger.Debug("query complete", slog.Int("rows", len(rs.Rows)), slog.Int("columns", len(cols)))
	}
	return rs, nil
}

// classify tags err with core.ErrTimeout when ctx hit its deadline and
// core.ErrExec otherwise. Cancellation is passed through untagged.
func classify(ctx context.Context, err error) error {
	switch ctxErr := ctx.Err(); {
	case errors.Is(ctxErr, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", core.ErrTimeout, err)
	case errors.Is(ctxErr, context.Canceled):
		return fmt.Errorf("%w: %w", ctxErr, err)
	}
	return fmt.Errorf("%w: %w", core.ErrExec, err)
}

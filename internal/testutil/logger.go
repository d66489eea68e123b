// Package testutil provides shared test helpers.
package testutil

import (
	"log/slog"
	"testing"

	"github.com/leapstack-labs/tdb/internal/cli/config"
)

// NewTestLogger returns a trace-level logger that writes through t.Log, so
// output only shows for failing tests or under -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return config.NewLogger(testWriter{t}, config.LevelTrace)
}

type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (n int, err error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

package core

import "errors"

// Error taxonomy. Every layer wraps one of these with fmt.Errorf("...: %w")
// so callers can classify failures with errors.Is.
var (
	// ErrConfig reports a missing, unreadable or malformed config file.
	ErrConfig = errors.New("config error")

	// ErrNotFound reports an unknown server name.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument reports a bad operation, output format or clause combination.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrTimeout reports that connecting or executing exceeded its bound.
	ErrTimeout = errors.New("timeout")

	// ErrExec reports a failure returned by the database server.
	ErrExec = errors.New("execution failed")

	// ErrEmptyResult reports a successful query that returned zero rows.
	ErrEmptyResult = errors.New("query returned no rows")

	// ErrUnimplemented reports an operation with no statement builder.
	ErrUnimplemented = errors.New("not implemented")
)

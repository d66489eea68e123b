// Package core defines the shared language of tdb.
//
// This package contains:
//   - Column values (Kind, ColumnValue) and result sets
//   - Adapter connection configuration (AdapterConfig)
//   - The error taxonomy shared by every layer (ErrNotFound, ErrTimeout, ...)
//
// The Golden Rule: pkg/core imports only stdlib and value libraries
// (uuid, decimal). All other packages depend on core, not the reverse.
package core

package query

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/tdb/pkg/core"
)

// Operation is one of the statement kinds tdb can issue.
type Operation int

// Supported operations.
const (
	OpSelect Operation = iota + 1
	OpInsert
	OpUpdate
)

// OperationTokens lists every accepted spelling, short form first.
var OperationTokens = []string{"s", "select", "i", "insert", "u", "update"}

func (o Operation) String() string {
	switch o {
	case OpSelect:
		return "select"
	case OpInsert:
		return "insert"
	case OpUpdate:
		return "update"
	default:
		return fmt.Sprintf("Operation(%d)", int(o))
	}
}

// ParseOperation maps a case-insensitive token to an Operation.
func ParseOperation(token string) (Operation, error) {
	switch strings.ToLower(token) {
	case "s", "select":
		return OpSelect, nil
	case "i", "insert":
		return OpInsert, nil
	case "u", "update":
		return OpUpdate, nil
	default:
		return 0, fmt.Errorf("operation %q (expected one of %s): %w",
			token, strings.Join(OperationTokens, ", "), core.ErrInvalidArgument)
	}
}

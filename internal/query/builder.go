// Package query builds the single SQL statement issued per invocation.
//
// Table names and clause fragments are inserted verbatim. No quoting or
// escaping is performed: tdb is an operator tool and its arguments are
// trusted the same way a SQL console's input is.
package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/leapstack-labs/tdb/pkg/core"
)

// RowLimit caps every SELECT. It is not configurable.
const RowLimit = 100

// ClauseSet holds the optional fragments supplied on the command line.
// A nil field is absent; a non-nil empty string was supplied explicitly.
type ClauseSet struct {
	Where   *string
	GroupBy *string
	OrderBy *string
	Set     *string
	Values  *string
}

// Build returns the statement for op against table.
func Build(op Operation, table string, clauses ClauseSet) (string, error) {
	switch op {
	case OpSelect:
		return buildSelect(table, clauses)
	case OpInsert, OpUpdate:
		return "", fmt.Errorf("%s statements: %w", op, core.ErrUnimplemented)
	default:
		return "", fmt.Errorf("%s: %w", op, core.ErrInvalidArgument)
	}
}

func buildSelect(table string, c ClauseSet) (string, error) {
	if c.Set != nil {
		return "", fmt.Errorf("--set is not valid for select: %w", core.ErrInvalidArgument)
	}
	if c.Values != nil {
		return "", fmt.Errorf("--values is not valid for select: %w", core.ErrInvalidArgument)
	}

	var sb strings.Builder
	sb.WriteString("SELECT TOP ")
	sb.WriteString(strconv.Itoa(RowLimit))
	sb.WriteString(" * FROM ")
	sb.WriteString(table)
	sb.WriteString(" WITH (NOLOCK) ")

	// Fixed clause order; each clause ends with a single space.
	appendClause(&sb, "WHERE", c.Where)
	appendClause(&sb, "GROUP BY", c.GroupBy)
	appendClause(&sb, "ORDER BY", c.OrderBy)

	return sb.String(), nil
}

func appendClause(sb *strings.Builder, keyword string, fragment *string) {
	if fragment == nil {
		return
	}
	sb.WriteString(keyword)
	sb.WriteByte(' ')
	sb.WriteString(*fragment)
	sb.WriteByte(' ')
}

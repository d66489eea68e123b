// Package render converts typed result rows into display strings and writes
// them as text tables.
//
// Null handling is uniform: numeric and bit kinds render their zero value,
// character and binary kinds render an empty value, GUIDs render the nil
// GUID, and date/time kinds render the Unix epoch. Offset timestamps are
// shown in UTC.
package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/leapstack-labs/tdb/pkg/core"
	"github.com/shopspring/decimal"
)

// epoch is the substitute for null date and time values.
var epoch = time.Unix(0, 0).UTC()

const (
	dateLayout     = "2006-01-02"
	timeLayout     = "15:04:05"
	dateTimeLayout = dateLayout + " " + timeLayout
)

// Field is one (column name, display value) pair.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Row is one rendered result row with fields in column order.
type Row []Field

// Render converts every row of rs into display strings.
// A result with no rows is reported as core.ErrEmptyResult.
func Render(rs *core.ResultSet) ([]Row, error) {
	if rs.Len() == 0 {
		return nil, core.ErrEmptyResult
	}

	rows := make([]Row, 0, len(rs.Rows))
	for i, values := range rs.Rows {
		if len(values) != len(rs.Columns) {
			return nil, fmt.Errorf("row %d has %d values for %d columns", i+1, len(values), len(rs.Columns))
		}
		row := make(Row, len(values))
		for j, v := range values {
			row[j] = Field{Name: rs.Columns[j], Value: Stringify(v)}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Stringify returns the display string for a single value.
func Stringify(v core.ColumnValue) string {
	s, ok := stringify(v)
	if !ok {
		return fmt.Sprintf("<unsupported %s>", v.Kind)
	}
	return s
}

// Supported reports whether k has a rendering rule.
func Supported(k core.Kind) bool {
	_, ok := stringify(core.NullValue(k))
	return ok
}

func stringify(v core.ColumnValue) (string, bool) {
	switch v.Kind {
	case core.KindU8, core.KindI16, core.KindI32, core.KindI64:
		if v.Null {
			return "0", true
		}
		return strconv.FormatInt(v.Int, 10), true

	case core.KindF32:
		if v.Null {
			return "0", true
		}
		return strconv.FormatFloat(v.Float, 'f', -1, 32), true

	case core.KindF64:
		if v.Null {
			return "0", true
		}
		return strconv.FormatFloat(v.Float, 'f', -1, 64), true

	case core.KindBit:
		return strconv.FormatBool(!v.Null && v.Bool), true

	case core.KindString, core.KindXML:
		if v.Null {
			return "", true
		}
		return v.Text, true

	case core.KindBinary:
		if v.Null {
			return formatBytes(nil), true
		}
		return formatBytes(v.Bytes), true

	case core.KindGUID:
		if v.Null {
			return uuid.Nil.String(), true
		}
		return v.GUID.String(), true

	case core.KindNumeric:
		d := v.Numeric
		if v.Null {
			d = decimal.New(0, 0)
		}
		return formatNumeric(d), true

	case core.KindDate:
		return orEpoch(v).Format(dateLayout), true

	case core.KindTime:
		t := orEpoch(v)
		return t.Format(timeLayout) + fraction(t), true

	case core.KindDateTime, core.KindSmallDateTime, core.KindDateTime2:
		t := orEpoch(v)
		return t.Format(dateTimeLayout) + fraction(t), true

	case core.KindDateTimeOffset:
		t := orEpoch(v).UTC()
		return t.Format(dateTimeLayout) + fraction(t) + " UTC", true
	}
	return "", false
}

func orEpoch(v core.ColumnValue) time.Time {
	if v.Null {
		return epoch
	}
	return v.Time
}

// fraction returns the sub-second part with 3, 6 or 9 digits, whichever is
// the shortest exact form, or "" for whole seconds.
func fraction(t time.Time) string {
	ns := t.Nanosecond()
	switch {
	case ns == 0:
		return ""
	case ns%1_000_000 == 0:
		return fmt.Sprintf(".%03d", ns/1_000_000)
	case ns%1_000 == 0:
		return fmt.Sprintf(".%06d", ns/1_000)
	default:
		return fmt.Sprintf(".%09d", ns)
	}
}

// formatBytes lists b as comma separated decimal bytes in brackets.
func formatBytes(b []byte) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, c := range b {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.Itoa(int(c)))
	}
	sb.WriteByte(']')
	return sb.String()
}

// formatNumeric prints the unscaled integer and the scale of d.
func formatNumeric(d decimal.Decimal) string {
	value := d.Coefficient()
	scale := int32(0)
	if exp := d.Exponent(); exp > 0 {
		value.Mul(value, decimal.New(1, exp).BigInt())
	} else {
		scale = -exp
	}
	return fmt.Sprintf("Numeric { value: %s, scale: %d }", value.String(), scale)
}

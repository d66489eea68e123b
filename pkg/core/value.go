package core

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind identifies the wire-level type of a column value.
type Kind int

// Column kinds reported by SQL Server.
const (
	KindU8 Kind = iota
	KindI16
	KindI32
	KindI64
	KindF32
	KindF64
	KindBit
	KindString
	KindBinary
	KindGUID
	KindNumeric
	KindDate
	KindTime
	KindDateTime
	KindSmallDateTime
	KindDateTime2
	KindDateTimeOffset
	KindXML

	kindCount
)

var kindNames = [kindCount]string{
	KindU8:             "u8",
	KindI16:            "i16",
	KindI32:            "i32",
	KindI64:            "i64",
	KindF32:            "f32",
	KindF64:            "f64",
	KindBit:            "bit",
	KindString:         "string",
	KindBinary:         "binary",
	KindGUID:           "guid",
	KindNumeric:        "numeric",
	KindDate:           "date",
	KindTime:           "time",
	KindDateTime:       "datetime",
	KindSmallDateTime:  "smalldatetime",
	KindDateTime2:      "datetime2",
	KindDateTimeOffset: "datetimeoffset",
	KindXML:            "xml",
}

func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return "unknown"
	}
	return kindNames[k]
}

// AllKinds returns every column kind in declaration order.
func AllKinds() []Kind {
	kinds := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// ColumnValue is one cell of a result row. Kind selects which payload field
// is meaningful; Null is independent of Kind.
type ColumnValue struct {
	Kind Kind
	Null bool

	Int     int64           // U8, I16, I32, I64
	Float   float64         // F32, F64
	Bool    bool            // Bit
	Text    string          // String, XML
	Bytes   []byte          // Binary
	GUID    uuid.UUID       // GUID
	Numeric decimal.Decimal // Numeric
	Time    time.Time       // Date, Time, DateTime, SmallDateTime, DateTime2, DateTimeOffset
}

// NullValue returns a null value of the given kind.
func NullValue(k Kind) ColumnValue {
	return ColumnValue{Kind: k, Null: true}
}

// U8 returns a tinyint value.
func U8(v uint8) ColumnValue { return ColumnValue{Kind: KindU8, Int: int64(v)} }

// I16 returns a smallint value.
func I16(v int16) ColumnValue { return ColumnValue{Kind: KindI16, Int: int64(v)} }

// I32 returns an int value.
func I32(v int32) ColumnValue { return ColumnValue{Kind: KindI32, Int: int64(v)} }

// I64 returns a bigint value.
func I64(v int64) ColumnValue { return ColumnValue{Kind: KindI64, Int: v} }

// F32 returns a real value.
func F32(v float32) ColumnValue { return ColumnValue{Kind: KindF32, Float: float64(v)} }

// F64 returns a float value.
func F64(v float64) ColumnValue { return ColumnValue{Kind: KindF64, Float: v} }

// Bit returns a bit value.
func Bit(v bool) ColumnValue { return ColumnValue{Kind: KindBit, Bool: v} }

// String returns a character data value.
func String(v string) ColumnValue { return ColumnValue{Kind: KindString, Text: v} }

// Binary returns a binary value.
func Binary(v []byte) ColumnValue { return ColumnValue{Kind: KindBinary, Bytes: v} }

// GUID returns a uniqueidentifier value.
func GUID(v uuid.UUID) ColumnValue { return ColumnValue{Kind: KindGUID, GUID: v} }

// Numeric returns a decimal or numeric value.
func Numeric(v decimal.Decimal) ColumnValue { return ColumnValue{Kind: KindNumeric, Numeric: v} }

// XML returns an xml value.
func XML(v string) ColumnValue { return ColumnValue{Kind: KindXML, Text: v} }

// Temporal returns a value of one of the date and time kinds.
func Temporal(k Kind, v time.Time) ColumnValue { return ColumnValue{Kind: k, Time: v} }

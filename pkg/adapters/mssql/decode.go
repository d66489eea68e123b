package mssql

import (
	"database/sql"
	"fmt"

	// Also registers the "sqlserver" database/sql driver.
	mssqldb "github.com/denisenkom/go-mssqldb"
	"github.com/google/uuid"
	"github.com/leapstack-labs/tdb/pkg/adapter"
	"github.com/leapstack-labs/tdb/pkg/core"
	"github.com/shopspring/decimal"
)

// kindByTypeName maps driver column type names to value kinds.
var kindByTypeName = map[string]core.Kind{
	"TINYINT":          core.KindU8,
	"SMALLINT":         core.KindI16,
	"INT":              core.KindI32,
	"BIGINT":           core.KindI64,
	"REAL":             core.KindF32,
	"FLOAT":            core.KindF64,
	"BIT":              core.KindBit,
	"CHAR":             core.KindString,
	"NCHAR":            core.KindString,
	"VARCHAR":          core.KindString,
	"NVARCHAR":         core.KindString,
	"TEXT":             core.KindString,
	"NTEXT":            core.KindString,
	"BINARY":           core.KindBinary,
	"VARBINARY":        core.KindBinary,
	"IMAGE":            core.KindBinary,
	"UNIQUEIDENTIFIER": core.KindGUID,
	"DECIMAL":          core.KindNumeric,
	"NUMERIC":          core.KindNumeric,
	"MONEY":            core.KindNumeric,
	"SMALLMONEY":       core.KindNumeric,
	"DATE":             core.KindDate,
	"TIME":             core.KindTime,
	"DATETIME":         core.KindDateTime,
	"SMALLDATETIME":    core.KindSmallDateTime,
	"DATETIME2":        core.KindDateTime2,
	"DATETIMEOFFSET":   core.KindDateTimeOffset,
	"XML":              core.KindXML,
}

// KindOf returns the value kind for a driver column type name.
func KindOf(typeName string) (core.Kind, bool) {
	k, ok := kindByTypeName[typeName]
	return k, ok
}

func decodeValue(col *sql.ColumnType, raw any) (core.ColumnValue, error) {
	kind, ok := KindOf(col.DatabaseTypeName())
	if !ok {
		return adapter.DecodeGeneric(col, raw)
	}
	if raw == nil {
		return core.NullValue(kind), nil
	}
	v, err := decodeKind(kind, raw)
	if err != nil {
		return core.ColumnValue{}, fmt.Errorf("decoding %s: %w", col.DatabaseTypeName(), err)
	}
	return v, nil
}

func decodeKind(kind core.Kind, raw any) (core.ColumnValue, error) {
	switch kind {
	case core.KindU8, core.KindI16, core.KindI32, core.KindI64:
		n, err := adapter.AsInt64(raw)
		if err != nil {
			return core.ColumnValue{}, err
		}
		return core.ColumnValue{Kind: kind, Int: n}, nil

	case core.KindF32, core.KindF64:
		f, err := adapter.AsFloat64(raw)
		if err != nil {
			return core.ColumnValue{}, err
		}
		return core.ColumnValue{Kind: kind, Float: f}, nil

	case core.KindBit:
		b, ok := raw.(bool)
		if !ok {
			return core.ColumnValue{}, fmt.Errorf("expected a bool, got %T", raw)
		}
		return core.Bit(b), nil

	case core.KindString, core.KindXML:
		s, err := adapter.AsString(raw)
		if err != nil {
			return core.ColumnValue{}, err
		}
		return core.ColumnValue{Kind: kind, Text: s}, nil

	case core.KindBinary:
		b, err := adapter.AsBytes(raw)
		if err != nil {
			return core.ColumnValue{}, err
		}
		return core.Binary(b), nil

	case core.KindGUID:
		var id mssqldb.UniqueIdentifier
		if err := id.Scan(raw); err != nil {
			return core.ColumnValue{}, err
		}
		return core.GUID(uuid.UUID(id)), nil

	case core.KindNumeric:
		s, err := adapter.AsString(raw)
		if err != nil {
			return core.ColumnValue{}, err
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return core.ColumnValue{}, err
		}
		return core.Numeric(d), nil

	case core.KindDate, core.KindTime, core.KindDateTime, core.KindSmallDateTime,
		core.KindDateTime2, core.KindDateTimeOffset:
		t, err := adapter.AsTime(raw)
		if err != nil {
			return core.ColumnValue{}, err
		}
		return core.Temporal(kind, t), nil
	}
	return core.ColumnValue{}, fmt.Errorf("no decoder for kind %s", kind)
}

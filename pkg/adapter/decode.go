package adapter

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/leapstack-labs/tdb/pkg/core"
)

// DecodeGeneric maps a scanned cell to a value by its Go type alone. It is
// the fallback for drivers that do not report useful column type names.
// NULL cells decode as a null string.
func DecodeGeneric(_ *sql.ColumnType, raw any) (core.ColumnValue, error) {
	switch v := raw.(type) {
	case nil:
		return core.NullValue(core.KindString), nil
	case bool:
		return core.Bit(v), nil
	case int64, int32, int16, int8, int, uint8, uint16, uint32:
		n, err := AsInt64(v)
		if err != nil {
			return core.ColumnValue{}, err
		}
		return core.I64(n), nil
	case float32:
		return core.F32(v), nil
	case float64:
		return core.F64(v), nil
	case string:
		return core.String(v), nil
	case []byte:
		return core.Binary(v), nil
	case time.Time:
		return core.Temporal(core.KindDateTime2, v), nil
	default:
		return core.ColumnValue{}, fmt.Errorf("unsupported value type %T", raw)
	}
}

// AsInt64 widens any integer driver value to int64.
func AsInt64(raw any) (int64, error) {
	switch v := raw.(type) {
	case int64:
		return v, nil
	case int32:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int:
		return int64(v), nil
	case uint8:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	default:
		return 0, fmt.Errorf("expected an integer, got %T", raw)
	}
}

// AsFloat64 widens any floating point driver value to float64.
func AsFloat64(raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("expected a float, got %T", raw)
	}
}

// AsString accepts textual driver values delivered as string or []byte.
func AsString(raw any) (string, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return "", fmt.Errorf("expected text, got %T", raw)
	}
}

// AsBytes accepts binary driver values.
func AsBytes(raw any) ([]byte, error) {
	switch v := raw.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("expected bytes, got %T", raw)
	}
}

// AsTime accepts time.Time driver values.
func AsTime(raw any) (time.Time, error) {
	t, ok := raw.(time.Time)
	if !ok {
		return time.Time{}, fmt.Errorf("expected a time, got %T", raw)
	}
	return t, nil
}

package adapter

import (
	"testing"
	"time"

	"github.com/leapstack-labs/tdb/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeGeneric(t *testing.T) {
	ts := time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC)

	tests := []struct {
		name string
		raw  any
		want core.ColumnValue
	}{
		{"nil", nil, core.NullValue(core.KindString)},
		{"bool", true, core.Bit(true)},
		{"int64", int64(-5), core.I64(-5)},
		{"int32", int32(7), core.I64(7)},
		{"uint8", uint8(200), core.I64(200)},
		{"float32", float32(1.5), core.F32(1.5)},
		{"float64", 2.25, core.F64(2.25)},
		{"string", "abc", core.String("abc")},
		{"bytes", []byte{0xde, 0xad}, core.Binary([]byte{0xde, 0xad})},
		{"time", ts, core.Temporal(core.KindDateTime2, ts)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeGeneric(nil, tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeGeneric_Unsupported(t *testing.T) {
	_, err := DecodeGeneric(nil, struct{}{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported value type struct {}")
}

func TestAsHelpers(t *testing.T) {
	n, err := AsInt64(int16(-3))
	require.NoError(t, err)
	assert.Equal(t, int64(-3), n)

	_, err = AsInt64("3")
	assert.ErrorContains(t, err, "expected an integer, got string")

	f, err := AsFloat64(float32(0.5))
	require.NoError(t, err)
	assert.InDelta(t, 0.5, f, 0)

	_, err = AsFloat64(int64(1))
	assert.ErrorContains(t, err, "expected a float")

	s, err := AsString([]byte("héllo"))
	require.NoError(t, err)
	assert.Equal(t, "héllo", s)

	_, err = AsString(1)
	assert.ErrorContains(t, err, "expected text")

	b, err := AsBytes("ab")
	require.NoError(t, err)
	assert.Equal(t, []byte("ab"), b)

	_, err = AsTime("2021-01-01")
	assert.ErrorContains(t, err, "expected a time")
}

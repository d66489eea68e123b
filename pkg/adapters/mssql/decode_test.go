package mssql

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/leapstack-labs/tdb/pkg/core"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// guidWire is 6F9619FF-8B86-D011-B42D-00C04FC964FF as SQL Server sends it:
// the first three groups are little-endian.
var guidWire = []byte{
	0xFF, 0x19, 0x96, 0x6F,
	0x86, 0x8B,
	0x11, 0xD0,
	0xB4, 0x2D, 0x00, 0xC0, 0x4F, 0xC9, 0x64, 0xFF,
}

func queryOne(t *testing.T, typeName string, sample any, raw any) (core.ColumnValue, error) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	rows := sqlmock.NewRowsWithColumnDefinition(
		sqlmock.NewColumn("c").OfType(typeName, sample).Nullable(true),
	).AddRow(raw)
	mock.ExpectQuery("SELECT").WillReturnRows(rows)

	a := New(nil)
	a.DB = db
	rs, err := a.Query(context.Background(), "SELECT c FROM t")
	if err != nil {
		return core.ColumnValue{}, err
	}
	require.Equal(t, []string{"c"}, rs.Columns)
	require.Len(t, rs.Rows, 1)
	return rs.Rows[0][0], nil
}

func TestDecodeValue(t *testing.T) {
	ts := time.Date(2021, 3, 4, 5, 6, 7, 123_000_000, time.UTC)
	offset := time.Date(2021, 3, 4, 5, 6, 7, 0, time.FixedZone("", 2*60*60))

	tests := []struct {
		typeName string
		sample   any
		raw      any
		want     core.ColumnValue
	}{
		{"TINYINT", int64(0), int64(255), core.U8(255)},
		{"SMALLINT", int64(0), int64(-300), core.I16(-300)},
		{"INT", int64(0), int64(42), core.I32(42)},
		{"BIGINT", int64(0), int64(1) << 40, core.I64(1 << 40)},
		{"REAL", float64(0), float64(1.5), core.F32(1.5)},
		{"FLOAT", float64(0), 3.25, core.F64(3.25)},
		{"BIT", false, true, core.Bit(true)},
		{"NVARCHAR", "", "héllo", core.String("héllo")},
		{"VARCHAR", "", []byte("bytes as text"), core.String("bytes as text")},
		{"CHAR", "", "x  ", core.String("x  ")},
		{"NTEXT", "", "long", core.String("long")},
		{"VARBINARY", []byte{}, []byte{1, 2, 255}, core.Binary([]byte{1, 2, 255})},
		{"IMAGE", []byte{}, []byte{9}, core.Binary([]byte{9})},
		{"UNIQUEIDENTIFIER", []byte{}, guidWire, core.GUID(uuid.MustParse("6f9619ff-8b86-d011-b42d-00c04fc964ff"))},
		{"DECIMAL", []byte{}, []byte("123.45"), core.Numeric(decimal.RequireFromString("123.45"))},
		{"MONEY", []byte{}, []byte("12.3400"), core.Numeric(decimal.RequireFromString("12.3400"))},
		{"SMALLMONEY", []byte{}, []byte("-1.0000"), core.Numeric(decimal.RequireFromString("-1.0000"))},
		{"DATE", time.Time{}, ts, core.Temporal(core.KindDate, ts)},
		{"TIME", time.Time{}, ts, core.Temporal(core.KindTime, ts)},
		{"DATETIME", time.Time{}, ts, core.Temporal(core.KindDateTime, ts)},
		{"SMALLDATETIME", time.Time{}, ts, core.Temporal(core.KindSmallDateTime, ts)},
		{"DATETIME2", time.Time{}, ts, core.Temporal(core.KindDateTime2, ts)},
		{"DATETIMEOFFSET", time.Time{}, offset, core.Temporal(core.KindDateTimeOffset, offset)},
		{"XML", "", "<a>1</a>", core.XML("<a>1</a>")},
	}

	for _, tt := range tests {
		t.Run(tt.typeName, func(t *testing.T) {
			got, err := queryOne(t, tt.typeName, tt.sample, tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want.Kind, got.Kind)
			assert.False(t, got.Null)

			switch tt.want.Kind {
			case core.KindNumeric:
				assert.True(t, tt.want.Numeric.Equal(got.Numeric))
				assert.Equal(t, tt.want.Numeric.Exponent(), got.Numeric.Exponent(), "scale must survive decoding")
			case core.KindDate, core.KindTime, core.KindDateTime, core.KindSmallDateTime,
				core.KindDateTime2, core.KindDateTimeOffset:
				assert.True(t, tt.want.Time.Equal(got.Time))
				_, wantOff := tt.want.Time.Zone()
				_, gotOff := got.Time.Zone()
				assert.Equal(t, wantOff, gotOff)
			default:
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestDecodeValue_Null(t *testing.T) {
	for typeName, kind := range kindByTypeName {
		t.Run(typeName, func(t *testing.T) {
			got, err := queryOne(t, typeName, "", nil)
			require.NoError(t, err)
			assert.Equal(t, core.NullValue(kind), got)
		})
	}
}

func TestDecodeValue_UnknownTypeFallsBack(t *testing.T) {
	got, err := queryOne(t, "SQL_VARIANT", "", "v")
	require.NoError(t, err)
	assert.Equal(t, core.String("v"), got)
}

func TestDecodeValue_Mismatch(t *testing.T) {
	tests := []struct {
		typeName string
		raw      any
		errMsg   string
	}{
		{"INT", "not a number", "decoding INT: expected an integer"},
		{"BIT", int64(1), "decoding BIT: expected a bool"},
		{"UNIQUEIDENTIFIER", []byte{1, 2, 3}, "invalid UniqueIdentifier length"},
		{"DECIMAL", []byte("12,5"), "decoding DECIMAL"},
		{"DATETIME", "2021-01-01", "decoding DATETIME: expected a time"},
	}

	for _, tt := range tests {
		t.Run(tt.typeName, func(t *testing.T) {
			_, err := queryOne(t, tt.typeName, "", tt.raw)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestKindOf_CoversEveryKind(t *testing.T) {
	covered := make(map[core.Kind]bool)
	for name := range kindByTypeName {
		k, ok := KindOf(name)
		require.True(t, ok)
		covered[k] = true
	}
	for _, k := range core.AllKinds() {
		assert.True(t, covered[k], "no SQL Server type decodes to %s", k)
	}

	_, ok := KindOf("GEOGRAPHY")
	assert.False(t, ok)
}

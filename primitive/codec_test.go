package primitive

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cdflib/cdf/endian"
	"github.com/cdflib/cdf/format"
)

func TestScalarRoundTrip(t *testing.T) {
	cases := []struct {
		name     string
		dataType format.DataType
		value    any
	}{
		{"int1", format.TypeInt1, int64(-12)},
		{"uint1", format.TypeUint1, uint64(200)},
		{"int2", format.TypeInt2, int64(-1234)},
		{"uint4", format.TypeUint4, uint64(4000000000)},
		{"int8", format.TypeInt8, int64(-9000000000000)},
		{"real4", format.TypeReal4, float64(3.5)},
		{"real8", format.TypeDouble, float64(-123456.789)},
		{"epoch", format.TypeEpoch, float64(63587289600000)},
		{"epoch16", format.TypeEpoch16, [2]float64{63587289600, 500e9}},
		{"tt2000", format.TypeTT2000, int64(500000000000)},
	}

	for _, eng := range []endian.EndianEngine{endian.GetLittleEndianEngine(), endian.GetBigEndianEngine()} {
		codec := NewCodec(eng)
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				buf, err := codec.WriteScalar(tc.value, tc.dataType, 1)
				require.NoError(t, err)

				got, err := codec.ReadScalar(buf, tc.dataType, 1)
				require.NoError(t, err)

				switch v := tc.value.(type) {
				case int64:
					require.EqualValues(t, v, got)
				case uint64:
					require.EqualValues(t, v, got)
				case float64:
					require.InDelta(t, v, toFloat64(t, got), 1e-6)
				case [2]float64:
					pair, ok := got.([2]float64)
					require.True(t, ok)
					require.InDelta(t, v[0], pair[0], 1e-6)
					require.InDelta(t, v[1], pair[1], 1e-6)
				}
			})
		}
	}
}

func toFloat64(t *testing.T, v any) float64 {
	t.Helper()
	switch n := v.(type) {
	case float32:
		return float64(n)
	case float64:
		return n
	default:
		t.Fatalf("unexpected type %T", v)
		return 0
	}
}

func TestStringRoundTrip(t *testing.T) {
	codec := NewCodec(endian.GetLittleEndianEngine())

	buf, err := codec.WriteScalar("cdf", format.TypeChar, 8)
	require.NoError(t, err)
	require.Len(t, buf, 8)
	require.Equal(t, "cdf     ", string(buf))

	got, err := codec.ReadScalar(buf, format.TypeChar, 8)
	require.NoError(t, err)
	require.Equal(t, "cdf", got)
}

func TestStringTooLong(t *testing.T) {
	codec := NewCodec(endian.GetLittleEndianEngine())
	_, err := codec.WriteScalar("too long for the field", format.TypeChar, 4)
	require.Error(t, err)
}

func TestInsufficientBytes(t *testing.T) {
	codec := NewCodec(endian.GetLittleEndianEngine())
	_, err := codec.ReadScalar([]byte{1, 2}, format.TypeDouble, 1)
	require.Error(t, err)
}

func TestArrayRoundTrip(t *testing.T) {
	codec := NewCodec(endian.GetLittleEndianEngine())
	values := []any{int64(1), int64(2), int64(3)}

	buf, err := codec.WriteArray(values, format.TypeInt4, 1)
	require.NoError(t, err)
	require.Len(t, buf, 12)

	got, err := codec.ReadArray(buf, format.TypeInt4, 1, 3)
	require.NoError(t, err)
	require.EqualValues(t, []any{int32(1), int32(2), int32(3)}, got)
}

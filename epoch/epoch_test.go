package epoch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cdflib/cdf/errs"
)

func TestEpochRoundTrip(t *testing.T) {
	want := time.Date(2020, time.March, 15, 10, 30, 0, 500*int(time.Millisecond), time.UTC)
	e := FromTime(want)
	got := e.Time()
	require.WithinDuration(t, want, got, time.Millisecond)
}

func TestEpochBreakdownRoundTrip(t *testing.T) {
	e := FromTime(time.Date(1999, time.December, 31, 23, 59, 59, 999*int(time.Millisecond), time.UTC))
	b := e.Breakdown()
	require.Equal(t, 1999, b.Year)
	require.Equal(t, 12, b.Month)
	require.Equal(t, 31, b.Day)
	require.Equal(t, 999, b.Msec)

	got := Compute(b)
	require.InDelta(t, float64(e), float64(got), 1.0)
}

func TestEpoch16RoundTrip(t *testing.T) {
	want := time.Date(2015, time.June, 1, 0, 0, 0, 123456000, time.UTC)
	e := FromTime16(want)
	got := e.Time()
	require.WithinDuration(t, want, got, time.Microsecond)
}

func TestEpoch16NormalizeCarriesPicosecondOverflow(t *testing.T) {
	e := Epoch16{Seconds: 10, Picoseconds: picosecondsPerSecond}
	n := e.Normalize()
	require.Equal(t, float64(11), n.Seconds)
	require.Equal(t, float64(0), n.Picoseconds)
}

func TestEpoch16NormalizeHandlesNegativePicoseconds(t *testing.T) {
	e := Epoch16{Seconds: 10, Picoseconds: -1}
	n := e.Normalize()
	require.Equal(t, float64(9), n.Seconds)
	require.InDelta(t, picosecondsPerSecond-1, n.Picoseconds, 1e-6)
}

func TestTT2000RoundTrip(t *testing.T) {
	table := NewTable()
	want := time.Date(2010, time.January, 1, 0, 0, 0, 0, time.UTC)

	v, warn := FromTimeTT2000(want, table)
	require.Nil(t, warn)

	got, warn := v.Time(table)
	require.Nil(t, warn)
	require.WithinDuration(t, want, got, time.Nanosecond)
}

func TestTT2000WarnsPastTableRange(t *testing.T) {
	table := NewTable()
	future := time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC)

	_, warn := FromTimeTT2000(future, table)
	require.NotNil(t, warn)
}

func TestTT2000LeapSecondOffsetIncreasesOverTime(t *testing.T) {
	table := NewTable()
	before, _ := FromTimeTT2000(time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC), table)
	after, _ := FromTimeTT2000(time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC), table)
	require.Greater(t, int64(after), int64(before))
}

func TestFindRangeMonotonic(t *testing.T) {
	table := NewTable()
	for i := 1; i < len(table.entries); i++ {
		require.LessOrEqual(t, table.entries[i-1].Offset, table.entries[i].Offset)
	}
}

func TestTT2000BreakdownLeapSecond(t *testing.T) {
	table := NewTable()
	b := Breakdown{Year: 2016, Month: 12, Day: 31, Hour: 23, Minute: 59, Second: 60, Msec: 500}

	v, warn := ComputeTT2000(b, table)
	require.Nil(t, warn)

	got, warn := v.Breakdown(table)
	require.Nil(t, warn)
	require.Equal(t, 2016, got.Year)
	require.Equal(t, 12, got.Month)
	require.Equal(t, 31, got.Day)
	require.Equal(t, 23, got.Hour)
	require.Equal(t, 59, got.Minute)
	require.Equal(t, 60, got.Second)
	require.Equal(t, 500, got.Msec)
	require.Equal(t, 0, got.Usec)
	require.Equal(t, 0, got.Nsec)

	roundTripped, warn := ComputeTT2000(got, table)
	require.Nil(t, warn)
	require.Equal(t, v, roundTripped)
}

func TestTT2000BreakdownOrdinaryInstant(t *testing.T) {
	table := NewTable()
	want := Breakdown{Year: 2016, Month: 6, Day: 15, Hour: 12, Minute: 30, Second: 45, Msec: 250}

	v, warn := ComputeTT2000(want, table)
	require.Nil(t, warn)

	got, warn := v.Breakdown(table)
	require.Nil(t, warn)
	require.Equal(t, want, got)
}

func TestTT2000BreakdownMidnightAfterLeapSecond(t *testing.T) {
	table := NewTable()
	want := Breakdown{Year: 2017, Month: 1, Day: 1, Hour: 0, Minute: 0, Second: 0}

	v, warn := ComputeTT2000(want, table)
	require.Nil(t, warn)

	got, warn := v.Breakdown(table)
	require.Nil(t, warn)
	require.Equal(t, want, got)
}

func TestEpochEncodeParseRoundTrip(t *testing.T) {
	e := FromTime(time.Date(2020, time.March, 15, 10, 30, 0, 500*int(time.Millisecond), time.UTC))

	got, err := ParseEpoch(e.Encode(false))
	require.NoError(t, err)
	require.InDelta(t, float64(e), float64(got), 1.0)

	gotISO, err := ParseEpoch(e.Encode(true))
	require.NoError(t, err)
	require.InDelta(t, float64(e), float64(gotISO), 1.0)
}

func TestEpoch16EncodeParseRoundTrip(t *testing.T) {
	e := FromTime16(time.Date(2015, time.June, 1, 0, 0, 0, 123456000, time.UTC))

	got, err := ParseEpoch16(e.Encode(false))
	require.NoError(t, err)
	n, gotN := e.Normalize(), got.Normalize()
	require.Equal(t, n.Seconds, gotN.Seconds)
	require.InDelta(t, n.Picoseconds, gotN.Picoseconds, 1.0)
}

func TestTT2000EncodeParseRoundTripLeapSecond(t *testing.T) {
	table := NewTable()
	v, warn := ComputeTT2000(Breakdown{Year: 2016, Month: 12, Day: 31, Hour: 23, Minute: 59, Second: 60, Msec: 500}, table)
	require.Nil(t, warn)

	s, warn := v.Encode(table, false)
	require.Nil(t, warn)
	require.Equal(t, "31-Dec-2016 23:59:60.500.000.000", s)

	got, warn, err := ParseTT2000(s, table)
	require.NoError(t, err)
	require.Nil(t, warn)
	require.Equal(t, v, got)
}

func TestParseTimeStringRejectsMalformedInput(t *testing.T) {
	_, err := ParseEpoch("not-a-time")
	require.ErrorIs(t, err, errs.ErrMalformedTimeString)
}

func TestFindEpochRange(t *testing.T) {
	values := []Epoch{1, 2, 3, 4, 5}
	first, last, ok := FindEpochRange(values, 2, 4)
	require.True(t, ok)
	require.Equal(t, 1, first)
	require.Equal(t, 3, last)

	_, _, ok = FindEpochRange(values, 10, 20)
	require.False(t, ok)
}

func TestFindTT2000Range(t *testing.T) {
	values := []TT2000{100, 200, 300, 400}
	first, last, ok := FindTT2000Range(values, 150, 350)
	require.True(t, ok)
	require.Equal(t, 1, first)
	require.Equal(t, 2, last)
}

func TestWarningSink(t *testing.T) {
	var sink Sink
	sink.Add(nil)
	require.Empty(t, sink.All())

	sink.Add(&Warning{Err: errLeapTableStale})
	require.Len(t, sink.All(), 1)
}

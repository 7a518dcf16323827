// Package epoch implements the CDF epoch subsystem: the three time
// representations variables may be stored in (CDF_EPOCH, CDF_EPOCH16 and
// CDF_TIME_TT2000), and conversion between each of them and Go's time.Time.
//
// CDF_EPOCH and CDF_EPOCH16 are both proleptic-Gregorian, leap-second-blind
// counts from 0000-01-01T00:00:00.000; CDF_TIME_TT2000 is a leap-second-aware
// count of TAI nanoseconds since the J2000 epoch (2000-01-01T12:00:00 TAI).
// Only TT2000 needs the leap-second Table in leapseconds.go.
package epoch

import (
	"math"
	"time"
)

// epochBase is 0000-01-01T00:00:00.000 UTC, the zero point CDF_EPOCH and
// CDF_EPOCH16 count from. The span from it to any modern date is far longer
// than a time.Duration can hold (about 292 years), so the conversions below
// count whole seconds from epochBase via Unix seconds rather than Sub/Add.
var epochBase = time.Date(0, time.January, 1, 0, 0, 0, 0, time.UTC)

// Epoch is a CDF_EPOCH value: milliseconds since 0000-01-01T00:00:00.000.
type Epoch float64

// FromTime converts a time.Time (treated as UTC) to an Epoch value.
func FromTime(t time.Time) Epoch {
	t = t.UTC()
	secs := t.Unix() - epochBase.Unix()
	return Epoch(float64(secs)*1000 + float64(t.Nanosecond())/float64(time.Millisecond))
}

// Time converts an Epoch value back to a time.Time in UTC.
func (e Epoch) Time() time.Time {
	secs := math.Floor(float64(e) / 1000)
	nanos := math.Round((float64(e) - secs*1000) * float64(time.Millisecond))
	return time.Unix(int64(secs)+epochBase.Unix(), int64(nanos)).UTC()
}

// ToUnixSeconds returns the Unix timestamp (seconds since 1970-01-01 UTC,
// fractional) this Epoch value represents.
func (e Epoch) ToUnixSeconds() float64 {
	return float64(e.Time().UnixNano()) / 1e9
}

// Breakdown is the calendar decomposition of a CDF time value, common to
// all three representations (below the second, Epoch fills only Msec,
// TT2000 adds Usec and Nsec, and Epoch16 adds Psec as well).
type Breakdown struct {
	Year, Month, Day       int
	Hour, Minute, Second   int
	Msec, Usec, Nsec, Psec int
}

// Breakdown decomposes e into its calendar components.
func (e Epoch) Breakdown() Breakdown {
	t := e.Time()
	msec := t.Nanosecond() / int(time.Millisecond)
	return Breakdown{
		Year: t.Year(), Month: int(t.Month()), Day: t.Day(),
		Hour: t.Hour(), Minute: t.Minute(), Second: t.Second(),
		Msec: msec,
	}
}

// Compute assembles an Epoch from calendar components, mirroring
// Breakdown's field set (sub-millisecond fields are ignored: CDF_EPOCH has
// millisecond resolution).
func Compute(b Breakdown) Epoch {
	t := time.Date(b.Year, time.Month(b.Month), b.Day, b.Hour, b.Minute, b.Second,
		b.Msec*int(time.Millisecond), time.UTC)
	return FromTime(t)
}

// Encode renders e as a string, either in CDF's default dd-Mmm-yyyy grammar
// or, if iso8601, as yyyy-mm-ddTHH:MM:SS.fff. CDF_EPOCH has millisecond
// resolution, so the fractional part is always a single three-digit group.
func (e Epoch) Encode(iso8601 bool) string {
	b := e.Breakdown()
	if iso8601 {
		return encodeISO(b, 3)
	}
	return encodeDefault(b, 1)
}

// ParseEpoch parses s, in either grammar Encode produces, into an Epoch
// value.
func ParseEpoch(s string) (Epoch, error) {
	b, err := parseTimeString(s)
	if err != nil {
		return 0, err
	}
	return Compute(b), nil
}

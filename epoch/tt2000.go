package epoch

import "time"

// nanosPerDay is 86400 seconds expressed in nanoseconds, the unit
// utcNanosFromBreakdown and the Table's day-based offset lookups share.
const nanosPerDay = 86400_000_000_000

// ttOffsetNanos is the fixed TT-TAI offset: 32.184 seconds, by definition.
const ttOffsetNanos int64 = 32_184_000_000

// ttOffset is ttOffsetNanos as a time.Duration, for the time.Time-based
// conversions below.
const ttOffset = time.Duration(ttOffsetNanos)

// j2000 is the nominal UTC-labeled instant TT2000 counts nanoseconds from:
// 2000-01-01T12:00:00, interpreted on the Terrestrial Time scale.
var j2000 = time.Date(2000, time.January, 1, 12, 0, 0, 0, time.UTC)

// j2000Nanos is the same instant on the continuous accounting
// utcNanosFromBreakdown uses, i.e. not routed through time.Date. 2000-01-01
// carries no leap second, so the two representations agree exactly; this
// constant exists only so the calendar-composition path never touches
// time.Time.
var j2000Nanos = utcNanosFromBreakdown(2000, 1, 1, 12, 0, 0, 0)

// TT2000 is a CDF_TIME_TT2000 value: nanoseconds since the J2000 epoch on
// the TAI-derived Terrestrial Time scale, leap-second aware.
type TT2000 int64

// FillValue is the CDF-reserved TT2000 sentinel for "no value"
// (-9223372036854775808, i.e. math.MinInt64), distinct from a pad value.
const FillValue TT2000 = -9223372036854775808

// Warning is a non-fatal condition surfaced by a conversion, collected by
// callers that care (Reader.Warnings(), see cdffile) rather than
// failing the read/write outright.
type Warning struct {
	Err error
	At  time.Time
}

// FromTimeTT2000 converts a UTC time.Time to TT2000 using table for the
// leap-second offset, returning a Warning (non-nil Err) if t falls past the
// table's known-good range. time.Time itself cannot represent a leap
// second (Second only ranges 0-59), so this entry point is exact for every
// instant time.Time can express; Breakdown/ComputeTT2000 below are the
// leap-second-exact path for the one instant per insertion it cannot.
func FromTimeTT2000(t time.Time, table *Table) (TT2000, *Warning) {
	t = t.UTC()
	offset, stale := table.OffsetAtUTC(t)
	tai := t.Add(time.Duration(offset) * time.Second)
	tt := tai.Add(ttOffset)
	ns := tt.Sub(j2000)

	var warn *Warning
	if stale {
		warn = &Warning{Err: errLeapTableStale, At: t}
	}
	return TT2000(ns.Nanoseconds()), warn
}

// Time converts a TT2000 value back to a UTC time.Time using table. A
// value representing a 23:59:60 leap second normalizes forward to the
// following midnight, since time.Time has no way to hold it; use
// Breakdown to observe the leap second itself.
func (v TT2000) Time(table *Table) (time.Time, *Warning) {
	tt := j2000.Add(time.Duration(v))
	tai := tt.Add(-ttOffset)
	offset, stale := table.OffsetAtTAI(tai)
	utc := tai.Add(time.Duration(-offset) * time.Second)

	var warn *Warning
	if stale {
		warn = &Warning{Err: errLeapTableStale, At: utc}
	}
	return utc, warn
}

// ToUnixSeconds returns the Unix timestamp, fractional, this value
// represents under table.
func (v TT2000) ToUnixSeconds(table *Table) (float64, *Warning) {
	t, warn := v.Time(table)
	return float64(t.UnixNano()) / 1e9, warn
}

// Breakdown decomposes v into its calendar components under table,
// entirely in integer day/nanosecond arithmetic rather than through
// time.Time, so a TT2000 value that lands exactly on a 23:59:60 leap
// second decodes to Second: 60 instead of silently rolling forward to the
// next day's 00:00:00 (which is what routing through time.Date would do).
func (v TT2000) Breakdown(table *Table) (Breakdown, *Warning) {
	taiNanos := int64(v) + j2000Nanos - ttOffsetNanos
	offsetSeconds, stale := table.offsetAtTAINanos(taiNanos)
	utcNanos := taiNanos - int64(offsetSeconds)*1_000_000_000

	// utcNanos alone cannot distinguish a 23:59:60 leap second from the
	// following day's 00:00:00: both land on the same multiple of
	// nanosPerDay. The offset actually used above disambiguates: if the
	// naively floor-divided day's own offset differs from it, utcNanos
	// belongs to the leap second at the end of the previous day instead.
	day := utcNanos / nanosPerDay
	rem := utcNanos % nanosPerDay
	if rem < 0 {
		rem += nanosPerDay
		day--
	}
	if dayOffset, _ := table.offsetAtUTCDay(day); dayOffset != offsetSeconds {
		day--
		rem += nanosPerDay
	}

	y, mo, d := civilFromDays(day)
	secOfDay := rem / 1_000_000_000
	nanos := int(rem % 1_000_000_000)
	h, mi, s := splitSecondsOfDay(secOfDay)

	b := Breakdown{
		Year: y, Month: mo, Day: d, Hour: h, Minute: mi, Second: s,
		Msec: nanos / 1000000,
		Usec: (nanos / 1000) % 1000,
		Nsec: nanos % 1000,
	}

	var warn *Warning
	if stale {
		warn = &Warning{Err: errLeapTableStale}
	}
	return b, warn
}

// ComputeTT2000 assembles a TT2000 value from calendar components under
// table, the inverse of Breakdown. A Breakdown with Second: 60 composes
// the leap second itself rather than being rejected or silently
// normalized, since the offset lookup and day arithmetic here never touch
// time.Date.
func ComputeTT2000(b Breakdown, table *Table) (TT2000, *Warning) {
	nanos := b.Msec*1000000 + b.Usec*1000 + b.Nsec
	utcNanos := utcNanosFromBreakdown(b.Year, b.Month, b.Day, b.Hour, b.Minute, b.Second, nanos)

	offsetSeconds, stale := table.offsetAtUTCDay(daysFromCivil(b.Year, b.Month, b.Day))
	taiNanos := utcNanos + int64(offsetSeconds)*1_000_000_000
	tt2000Nanos := taiNanos - j2000Nanos + ttOffsetNanos

	var warn *Warning
	if stale {
		warn = &Warning{Err: errLeapTableStale}
	}
	return TT2000(tt2000Nanos), warn
}

// Encode renders v as a string under table, either in CDF's default
// dd-Mmm-yyyy grammar or, if iso8601, as yyyy-mm-ddTHH:MM:SS.fffffffff.
// CDF_TIME_TT2000 carries nanosecond resolution, so the fractional part
// spans three three-digit groups (9 digits) in the default grammar, or 9
// digits in one ISO block. A Second of 60 round-trips through Encode/Parse
// exactly, since Breakdown/ComputeTT2000 never route it through time.Date.
func (v TT2000) Encode(table *Table, iso8601 bool) (string, *Warning) {
	b, warn := v.Breakdown(table)
	if iso8601 {
		return encodeISO(b, 9), warn
	}
	return encodeDefault(b, 3), warn
}

// ParseTT2000 parses s, in either grammar Encode produces, into a TT2000
// value under table.
func ParseTT2000(s string, table *Table) (TT2000, *Warning, error) {
	b, err := parseTimeString(s)
	if err != nil {
		return 0, nil, err
	}
	v, warn := ComputeTT2000(b, table)
	return v, warn, nil
}

// utcNanosFromBreakdown combines a calendar breakdown into a count of
// nanoseconds on a continuous, leap-second-inclusive accounting anchored
// at 1970-01-01: unlike time.Date, a Second of 60 is not normalized into
// the next minute, it simply occupies nanosecond slot 86400e9 of its day.
func utcNanosFromBreakdown(y, mo, d, h, mi, s, nanos int) int64 {
	days := daysFromCivil(y, mo, d)
	return days*nanosPerDay + secondsOfDay(h, mi, s)*1_000_000_000 + int64(nanos)
}

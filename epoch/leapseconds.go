package epoch

import "time"

// entry is one TAI-UTC offset change: the offset (seconds) is in effect
// from At (inclusive) until the next entry's At.
type entry struct {
	At     time.Time
	Offset int // TAI - UTC, seconds
}

// Table is the compiled-in leap-second table TT2000 conversions are computed
// against. A fresh Table is returned by NewTable; conversions never mutate
// the package-level default.
type Table struct {
	entries []entry
}

// staleAfter is the point past which this compiled-in table can no longer
// be trusted to have every announced leap second: IERS publishes insertions
// at least six months ahead, so a table more than a couple of years past
// its last known entry is running blind.
var staleAfter = time.Date(2019, time.January, 1, 0, 0, 0, 0, time.UTC)

// defaultEntries is the historical TAI-UTC offset table, one entry per
// leap-second insertion from the start of the leap-second era (1972) through
// the most recent insertion this table was compiled against (2017-01-01).
var defaultEntries = []entry{
	{time.Date(1972, 1, 1, 0, 0, 0, 0, time.UTC), 10},
	{time.Date(1972, 7, 1, 0, 0, 0, 0, time.UTC), 11},
	{time.Date(1973, 1, 1, 0, 0, 0, 0, time.UTC), 12},
	{time.Date(1974, 1, 1, 0, 0, 0, 0, time.UTC), 13},
	{time.Date(1975, 1, 1, 0, 0, 0, 0, time.UTC), 14},
	{time.Date(1976, 1, 1, 0, 0, 0, 0, time.UTC), 15},
	{time.Date(1977, 1, 1, 0, 0, 0, 0, time.UTC), 16},
	{time.Date(1978, 1, 1, 0, 0, 0, 0, time.UTC), 17},
	{time.Date(1979, 1, 1, 0, 0, 0, 0, time.UTC), 18},
	{time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC), 19},
	{time.Date(1981, 7, 1, 0, 0, 0, 0, time.UTC), 20},
	{time.Date(1982, 7, 1, 0, 0, 0, 0, time.UTC), 21},
	{time.Date(1983, 7, 1, 0, 0, 0, 0, time.UTC), 22},
	{time.Date(1985, 7, 1, 0, 0, 0, 0, time.UTC), 23},
	{time.Date(1988, 1, 1, 0, 0, 0, 0, time.UTC), 24},
	{time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC), 25},
	{time.Date(1991, 1, 1, 0, 0, 0, 0, time.UTC), 26},
	{time.Date(1992, 7, 1, 0, 0, 0, 0, time.UTC), 27},
	{time.Date(1993, 7, 1, 0, 0, 0, 0, time.UTC), 28},
	{time.Date(1994, 7, 1, 0, 0, 0, 0, time.UTC), 29},
	{time.Date(1996, 1, 1, 0, 0, 0, 0, time.UTC), 30},
	{time.Date(1997, 7, 1, 0, 0, 0, 0, time.UTC), 31},
	{time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC), 32},
	{time.Date(2006, 1, 1, 0, 0, 0, 0, time.UTC), 33},
	{time.Date(2009, 1, 1, 0, 0, 0, 0, time.UTC), 34},
	{time.Date(2012, 7, 1, 0, 0, 0, 0, time.UTC), 35},
	{time.Date(2015, 7, 1, 0, 0, 0, 0, time.UTC), 36},
	{time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC), 37},
}

// DefaultTable is a package-level table for callers that have no Table of
// their own to pass to FromTimeTT2000 and the other TT2000 conversions (the
// common case: most callers never need more than one leap-second table per
// process).
var DefaultTable = NewTable()

// NewTable returns a Table seeded with the compiled-in leap-second history.
func NewTable() *Table {
	return &Table{entries: defaultEntries}
}

// LastUpdated returns the date of the table's most recent leap-second
// insertion, encoded as a yyyymmdd decimal (the GDR's LeapSecondLastUpdated
// field), or 0 if the table carries no entries.
func (tb *Table) LastUpdated() int32 {
	if len(tb.entries) == 0 {
		return 0
	}
	last := tb.entries[len(tb.entries)-1].At
	return int32(last.Year())*10000 + int32(last.Month())*100 + int32(last.Day())
}

// OffsetAtUTC returns the TAI-UTC offset, in seconds, in effect at UTC
// instant t, along with whether t falls past the table's known-good range
// (a reader should surface this as ErrLeapTableStale via Warnings(), not
// fail the conversion: the offset is still the best available answer).
func (tb *Table) OffsetAtUTC(t time.Time) (offset int, stale bool) {
	offset = tb.entries[0].Offset
	for _, e := range tb.entries {
		if t.Before(e.At) {
			break
		}
		offset = e.Offset
	}
	return offset, t.After(staleAfter)
}

// OffsetAtTAI is the inverse lookup, used when converting a TAI instant
// back to UTC: it finds the offset whose effective range (expressed in TAI)
// contains t. FindRange performs the binary search.
func (tb *Table) OffsetAtTAI(t time.Time) (offset int, stale bool) {
	idx := tb.FindRange(t)
	offset = tb.entries[idx].Offset
	return offset, t.Add(time.Duration(-offset) * time.Second).After(staleAfter)
}

// FindRange binary-searches the table for the index of the entry whose
// TAI-shifted effective range contains t, returning the last index if t is
// past every entry and 0 if t precedes the first.
func (tb *Table) FindRange(taiInstant time.Time) int {
	lo, hi := 0, len(tb.entries)-1
	best := 0
	for lo <= hi {
		mid := (lo + hi) / 2
		taiAt := tb.entries[mid].At.Add(time.Duration(tb.entries[mid].Offset) * time.Second)
		if !taiInstant.Before(taiAt) {
			best = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	return best
}

// entryDay returns the day count (days since 1970-01-01, per daysFromCivil)
// an entry's effective date falls on. Every compiled-in entry is a bare UTC
// midnight, so this loses nothing relative to e.At.
func entryDay(e entry) int64 {
	return daysFromCivil(e.At.Year(), int(e.At.Month()), e.At.Day())
}

func (tb *Table) staleDay() int64 {
	return daysFromCivil(staleAfter.Year(), int(staleAfter.Month()), staleAfter.Day())
}

// offsetAtUTCDay returns the TAI-UTC offset in effect for UTC calendar day
// `day` (days since 1970-01-01, per daysFromCivil), used by the TT2000
// calendar composition path. Operating on a bare day count rather than a
// time.Time keeps a 23:59:60 leap second representable: that instant still
// belongs to the day that precedes the offset's increment, which is
// exactly what a day-granularity lookup returns.
func (tb *Table) offsetAtUTCDay(day int64) (offset int, stale bool) {
	offset = tb.entries[0].Offset
	for _, e := range tb.entries {
		if day < entryDay(e) {
			break
		}
		offset = e.Offset
	}
	return offset, day > tb.staleDay()
}

// offsetAtTAINanos is the inverse lookup on the same continuous
// nanoseconds-since-1970 accounting offsetAtUTCDay uses (see
// utcNanosFromBreakdown), binary-searching for the entry whose TAI-shifted
// effective instant contains taiNanos.
func (tb *Table) offsetAtTAINanos(taiNanos int64) (offset int, stale bool) {
	lo, hi := 0, len(tb.entries)-1
	best := 0
	for lo <= hi {
		mid := (lo + hi) / 2
		taiAt := entryDay(tb.entries[mid])*nanosPerDay + int64(tb.entries[mid].Offset)*1_000_000_000
		if taiNanos >= taiAt {
			best = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	offset = tb.entries[best].Offset
	utcDay := (taiNanos - int64(offset)*1_000_000_000) / nanosPerDay
	return offset, utcDay > tb.staleDay()
}

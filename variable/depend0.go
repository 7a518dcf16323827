package variable

import "sort"

// TimeSeries exposes a variable's monotonically increasing DEPEND_0 time
// values for range resolution, without committing to a particular epoch
// representation: callers convert CDF_EPOCH/EPOCH16/TT2000 to a comparable
// float64 (e.g. Unix seconds) before calling ResolveRange.
type TimeSeries interface {
	// Len returns the number of records in the DEPEND_0 variable.
	Len() int
	// At returns the comparable time value of record i.
	At(i int) float64
}

// sliceTimeSeries adapts a plain slice to TimeSeries.
type sliceTimeSeries []float64

func (s sliceTimeSeries) Len() int          { return len(s) }
func (s sliceTimeSeries) At(i int) float64 { return s[i] }

// NewTimeSeries wraps a sorted slice of comparable time values as a
// TimeSeries.
func NewTimeSeries(values []float64) TimeSeries {
	return sliceTimeSeries(values)
}

// ResolveRange finds the inclusive record range [first, last] whose
// DEPEND_0 time values fall within [start, end]. If no record falls in
// range, ok is false. ts must be sorted ascending, as DEPEND_0 time
// variables always are.
func ResolveRange(ts TimeSeries, start, end float64) (first, last int, ok bool) {
	n := ts.Len()
	if n == 0 || start > end {
		return 0, 0, false
	}

	lo := sort.Search(n, func(i int) bool { return ts.At(i) >= start })
	if lo == n || ts.At(lo) > end {
		return 0, 0, false
	}

	hi := sort.Search(n, func(i int) bool { return ts.At(i) > end }) - 1
	if hi < lo {
		return 0, 0, false
	}

	return lo, hi, true
}

package epoch

import "sort"

// FindEpochRange returns the inclusive index range [first, last] of the
// ascending-sorted slice values whose CDF_EPOCH value falls within
// [start, end]. ok is false if no value does. This is the typed
// findepochrange operation for CDF_EPOCH arrays; Table.FindRange is an
// unrelated internal TAI-offset-table lookup.
func FindEpochRange(values []Epoch, start, end Epoch) (first, last int, ok bool) {
	return findRange(len(values),
		func(i int) bool { return values[i] >= start },
		func(i int) bool { return values[i] > end })
}

// FindEpoch16Range is FindEpochRange for CDF_EPOCH16 arrays.
func FindEpoch16Range(values []Epoch16, start, end Epoch16) (first, last int, ok bool) {
	return findRange(len(values),
		func(i int) bool { return !epoch16Less(values[i], start) },
		func(i int) bool { return epoch16Less(end, values[i]) })
}

// FindTT2000Range is FindEpochRange for CDF_TIME_TT2000 arrays, comparing
// natively as int64 rather than through a float64 conversion that would
// lose precision at nanosecond resolution.
func FindTT2000Range(values []TT2000, start, end TT2000) (first, last int, ok bool) {
	return findRange(len(values),
		func(i int) bool { return values[i] >= start },
		func(i int) bool { return values[i] > end })
}

func epoch16Less(a, b Epoch16) bool {
	na, nb := a.Normalize(), b.Normalize()
	if na.Seconds != nb.Seconds {
		return na.Seconds < nb.Seconds
	}
	return na.Picoseconds < nb.Picoseconds
}

// findRange is the shared binary-search core: atOrAfterStart(i) reports
// whether values[i] >= start, afterEnd(i) whether values[i] > end.
func findRange(n int, atOrAfterStart, afterEnd func(i int) bool) (first, last int, ok bool) {
	lo := sort.Search(n, atOrAfterStart)
	if lo == n || afterEnd(lo) {
		return 0, 0, false
	}
	hi := sort.Search(n, afterEnd) - 1
	if hi < lo {
		return 0, 0, false
	}
	return lo, hi, true
}

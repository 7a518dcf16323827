package epoch

// daysFromCivil converts a proleptic Gregorian calendar date to the number
// of days since 1970-01-01, following Howard Hinnant's days_from_civil
// algorithm. Unlike time.Date, it performs no field normalization: a
// caller-supplied (y, m, d) maps to exactly one day count, with no carry
// into adjacent days, which matters because seconds-of-day is tracked
// separately and must be free to reach 86400 (the 23:59:60 leap second)
// without the date itself shifting.
func daysFromCivil(y, m, d int) int64 {
	yy := int64(y)
	if m <= 2 {
		yy--
	}
	era := yy
	if yy < 0 {
		era -= 399
	}
	era /= 400
	yoe := yy - era*400 // [0, 399]
	var mp int64
	if m > 2 {
		mp = int64(m) - 3
	} else {
		mp = int64(m) + 9
	}
	doy := (153*mp+2)/5 + int64(d) - 1 // [0, 365]
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return era*146097 + doe - 719468
}

// civilFromDays is the inverse of daysFromCivil.
func civilFromDays(z int64) (y, m, d int) {
	z += 719468
	era := z
	if z < 0 {
		era -= 146096
	}
	era /= 146097
	doe := z - era*146097 // [0, 146096]
	yoe := (doe - doe/1460 + doe/36524 - doe/146096) / 365
	yy := yoe + era*400
	doy := doe - (365*yoe + yoe/4 - yoe/100) // [0, 365]
	mp := (5*doy + 2) / 153
	dd := doy - (153*mp+2)/5 + 1
	var mm int64
	if mp < 10 {
		mm = mp + 3
	} else {
		mm = mp - 9
	}
	if mm <= 2 {
		yy++
	}
	return int(yy), int(mm), int(dd)
}

// secondsOfDay combines an hour/minute/second triple into a single count,
// deliberately not wrapping a second value of 60: the 23:59:60 leap second
// lands at secondsOfDay == 86400, one past the usual end of the day,
// distinct from 00:00:00 the next day.
func secondsOfDay(h, mi, s int) int64 {
	return int64(h)*3600 + int64(mi)*60 + int64(s)
}

// splitSecondsOfDay is the inverse of secondsOfDay, accepting the same
// [0, 86400] range (86400 decoding back to the leap second 23:59:60 rather
// than rolling over to the next day's 00:00:00).
func splitSecondsOfDay(total int64) (h, mi, s int) {
	if total == 86400 {
		return 23, 59, 60
	}
	h = int(total / 3600)
	rem := total % 3600
	mi = int(rem / 60)
	s = int(rem % 60)
	return h, mi, s
}

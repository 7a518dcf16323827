package epoch

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cdflib/cdf/errs"
)

var monthByAbbr = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

var defaultGrammar = regexp.MustCompile(
	`^(\d{2})-([A-Za-z]{3})-(\d{4}) (\d{2}):(\d{2}):(\d{2})((?:\.\d{3}){0,4})$`)

var isoGrammar = regexp.MustCompile(
	`^(\d{4})-(\d{2})-(\d{2})T(\d{2}):(\d{2}):(\d{2})(?:\.(\d{1,12}))?$`)

// fracDigitsString renders b's sub-second fields as a 12-digit string at
// picosecond resolution (msec, usec, nsec, psec concatenated), the common
// unit encodeDefault and encodeISO both slice a prefix from.
func fracDigitsString(b Breakdown) string {
	return fmt.Sprintf("%03d%03d%03d%03d", b.Msec, b.Usec, b.Nsec, b.Psec)
}

// encodeDefault renders b in CDF's default dd-Mmm-yyyy grammar, with the
// fractional part split into fracGroups three-digit dotted groups (Epoch: 1,
// TT2000: 3, Epoch16: 4).
func encodeDefault(b Breakdown, fracGroups int) string {
	month := time.Month(b.Month).String()[:3]
	digits := fracDigitsString(b)
	var frac strings.Builder
	for i := 0; i < fracGroups; i++ {
		frac.WriteByte('.')
		frac.WriteString(digits[i*3 : i*3+3])
	}
	return fmt.Sprintf("%02d-%s-%04d %02d:%02d:%02d%s", b.Day, month, b.Year, b.Hour, b.Minute, b.Second, frac.String())
}

// encodeISO renders b in ISO 8601 grammar, with a single fractional block
// fracDigits digits wide (Epoch: 3, TT2000: 9, Epoch16: 12).
func encodeISO(b Breakdown, fracDigits int) string {
	digits := fracDigitsString(b)[:fracDigits]
	return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02d.%s", b.Year, b.Month, b.Day, b.Hour, b.Minute, b.Second, digits)
}

// parseFracDigits pads or truncates raw (a run of decimal digits, most
// significant first) to 12 digits of picosecond resolution and splits it
// into the four three-digit Breakdown sub-second fields.
func parseFracDigits(raw string) (msec, usec, nsec, psec int, err error) {
	padded := raw
	for len(padded) < 12 {
		padded += "0"
	}
	padded = padded[:12]

	var vals [4]int
	for i := range vals {
		n, convErr := strconv.Atoi(padded[i*3 : i*3+3])
		if convErr != nil {
			return 0, 0, 0, 0, fmt.Errorf("%w: %q", errs.ErrMalformedTimeString, raw)
		}
		vals[i] = n
	}
	return vals[0], vals[1], vals[2], vals[3], nil
}

// parseTimeString decodes s against whichever of the two CDF time-string
// grammars it matches: ISO 8601 (yyyy-mm-ddTHH:MM:SS.fff...) or the default
// dd-Mmm-yyyy HH:MM:SS.fff[.fff[.fff[.fff]]] form Encode also produces.
func parseTimeString(s string) (Breakdown, error) {
	if m := isoGrammar.FindStringSubmatch(s); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		hour, _ := strconv.Atoi(m[4])
		minute, _ := strconv.Atoi(m[5])
		second, _ := strconv.Atoi(m[6])
		msec, usec, nsec, psec, err := parseFracDigits(m[7])
		if err != nil {
			return Breakdown{}, err
		}
		return Breakdown{
			Year: year, Month: month, Day: day,
			Hour: hour, Minute: minute, Second: second,
			Msec: msec, Usec: usec, Nsec: nsec, Psec: psec,
		}, nil
	}

	if m := defaultGrammar.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, ok := monthByAbbr[strings.ToLower(m[2])]
		if !ok {
			return Breakdown{}, fmt.Errorf("%w: %q", errs.ErrMalformedTimeString, s)
		}
		year, _ := strconv.Atoi(m[3])
		hour, _ := strconv.Atoi(m[4])
		minute, _ := strconv.Atoi(m[5])
		second, _ := strconv.Atoi(m[6])
		msec, usec, nsec, psec, err := parseFracDigits(strings.ReplaceAll(m[7], ".", ""))
		if err != nil {
			return Breakdown{}, err
		}
		return Breakdown{
			Year: year, Month: month, Day: day,
			Hour: hour, Minute: minute, Second: second,
			Msec: msec, Usec: usec, Nsec: nsec, Psec: psec,
		}, nil
	}

	return Breakdown{}, fmt.Errorf("%w: %q", errs.ErrMalformedTimeString, s)
}

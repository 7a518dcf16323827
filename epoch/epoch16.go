package epoch

import (
	"time"
)

// Epoch16 is a CDF_EPOCH16 value: whole seconds since 0000-01-01T00:00:00.000
// paired with a picosecond remainder, stored as the on-disk [2]float64.
type Epoch16 struct {
	Seconds     float64
	Picoseconds float64
}

const picosecondsPerSecond = 1e12

// Normalize carries a picosecond remainder of exactly 1e12 (or more, or
// negative) into the seconds field, so every Epoch16 this package produces
// satisfies 0 <= Picoseconds < 1e12. Files written by other tools
// occasionally round a picosecond remainder up to exactly 1e12; rather than
// rejecting that as malformed, reads pass the value through Normalize.
func (e Epoch16) Normalize() Epoch16 {
	carry := e.Picoseconds / picosecondsPerSecond
	sec := e.Seconds
	psec := e.Picoseconds
	if carry >= 1 || carry < 0 {
		whole := float64(int64(carry))
		if carry < 0 && whole != carry {
			whole--
		}
		sec += whole
		psec -= whole * picosecondsPerSecond
	}
	return Epoch16{Seconds: sec, Picoseconds: psec}
}

// FromTime16 converts a time.Time (UTC) to an Epoch16 value.
func FromTime16(t time.Time) Epoch16 {
	t = t.UTC()
	secs := t.Unix() - epochBase.Unix()
	return Epoch16{Seconds: float64(secs), Picoseconds: float64(t.Nanosecond()) * 1000}
}

// Time converts an Epoch16 value back to a time.Time, truncated to
// nanosecond resolution (Go's time.Time cannot represent picoseconds).
func (e Epoch16) Time() time.Time {
	n := e.Normalize()
	nanos := n.Picoseconds / 1000
	return time.Unix(int64(n.Seconds)+epochBase.Unix(), int64(nanos)).UTC()
}

// ToUnixSeconds returns the Unix timestamp, fractional, this value represents.
func (e Epoch16) ToUnixSeconds() float64 {
	return float64(e.Time().UnixNano()) / 1e9
}

// Breakdown decomposes e into its calendar components, including the
// picosecond remainder beyond nanosecond resolution.
func (e Epoch16) Breakdown() Breakdown {
	n := e.Normalize()
	t := n.Time()
	nsecTotal := int(n.Picoseconds) / 1000
	psecRemainder := int(n.Picoseconds) - (nsecTotal/1000)*1000
	return Breakdown{
		Year: t.Year(), Month: int(t.Month()), Day: t.Day(),
		Hour: t.Hour(), Minute: t.Minute(), Second: t.Second(),
		Msec: nsecTotal / 1000000,
		Usec: (nsecTotal / 1000) % 1000,
		Nsec: nsecTotal % 1000,
		Psec: psecRemainder % 1000,
	}
}

// Compute16 assembles an Epoch16 from calendar components.
func Compute16(b Breakdown) Epoch16 {
	t := time.Date(b.Year, time.Month(b.Month), b.Day, b.Hour, b.Minute, b.Second, 0, time.UTC)
	base := FromTime16(t)
	frac := float64(b.Msec)*1e9 + float64(b.Usec)*1e6 + float64(b.Nsec)*1e3 + float64(b.Psec)
	return Epoch16{Seconds: base.Seconds, Picoseconds: base.Picoseconds + frac}
}

// Encode renders e as a string, either in CDF's default dd-Mmm-yyyy grammar
// or, if iso8601, as yyyy-mm-ddTHH:MM:SS.ffffffffffff. CDF_EPOCH16 carries
// picosecond resolution, so the fractional part spans four three-digit
// groups (12 digits) in the default grammar, or 12 digits in one ISO block.
func (e Epoch16) Encode(iso8601 bool) string {
	b := e.Breakdown()
	if iso8601 {
		return encodeISO(b, 12)
	}
	return encodeDefault(b, 4)
}

// ParseEpoch16 parses s, in either grammar Encode produces, into an
// Epoch16 value.
func ParseEpoch16(s string) (Epoch16, error) {
	b, err := parseTimeString(s)
	if err != nil {
		return Epoch16{}, err
	}
	return Compute16(b), nil
}

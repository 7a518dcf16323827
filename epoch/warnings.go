package epoch

import "github.com/cdflib/cdf/errs"

var errLeapTableStale = errs.ErrLeapTableStale

// Sink collects non-fatal Warnings raised over the lifetime of a Reader or
// Writer, so a long-running conversion pass doesn't have to fail (or spam a
// logger) just because the compiled-in leap-second table has aged out.
type Sink struct {
	warnings []Warning
}

// Add records w if it is non-nil.
func (s *Sink) Add(w *Warning) {
	if w != nil {
		s.warnings = append(s.warnings, *w)
	}
}

// All returns every warning recorded so far.
func (s *Sink) All() []Warning {
	return s.warnings
}

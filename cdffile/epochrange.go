package cdffile

import (
	"fmt"
	"time"

	"github.com/cdflib/cdf/epoch"
	"github.com/cdflib/cdf/errs"
	"github.com/cdflib/cdf/format"
	"github.com/cdflib/cdf/primitive"
	"github.com/cdflib/cdf/variable"
)

// Epochrange resolves the inclusive record range [first, last] of variable
// name whose DEPEND_0 time values fall within [start, end] (both treated as
// UTC). ok is false if no record of name's DEPEND_0 variable falls in
// range. The DEPEND_0 variable is decoded according to its own data type;
// CDF_TIME_TT2000 values are compared natively as int64 rather than through
// a lossy float64 conversion (see epoch.FindTT2000Range).
func (r *Reader) Epochrange(name string, start, end time.Time) (first, last int64, ok bool, err error) {
	depName, err := r.dependency0(name)
	if err != nil {
		return 0, 0, false, err
	}
	return r.epochrangeFor(depName, start, end)
}

// dependency0 resolves name's DEPEND_0 attribute to the name of the time
// variable it targets.
func (r *Reader) dependency0(name string) (string, error) {
	entries, err := r.Varattsget("DEPEND_0", name)
	if err != nil {
		return "", fmt.Errorf("%w: %q", errs.ErrNoDependency0, name)
	}
	depName, ok := entries[0].Value.(string)
	if !ok || depName == "" {
		return "", fmt.Errorf("%w: %q", errs.ErrNoDependency0, name)
	}
	return depName, nil
}

func (r *Reader) epochrangeFor(epochVar string, start, end time.Time) (first, last int64, ok bool, err error) {
	vi, err := r.Varinq(epochVar)
	if err != nil {
		return 0, 0, false, err
	}
	raw, err := r.GetRange(epochVar, 0, int64(vi.MaxRec))
	if err != nil {
		return 0, 0, false, err
	}
	codec := primitive.NewCodec(r.ctx.Engine)

	switch vi.DataType {
	case format.TypeTT2000:
		values := make([]epoch.TT2000, len(raw))
		for i, rec := range raw {
			v, err := codec.ReadScalar(rec, format.TypeTT2000, 1)
			if err != nil {
				return 0, 0, false, err
			}
			values[i] = epoch.TT2000(v.(int64))
		}
		startTT, warn := epoch.FromTimeTT2000(start, epoch.DefaultTable)
		r.warnings.Add(warn)
		endTT, warn := epoch.FromTimeTT2000(end, epoch.DefaultTable)
		r.warnings.Add(warn)

		lo, hi, found := epoch.FindTT2000Range(values, startTT, endTT)
		return int64(lo), int64(hi), found, nil

	case format.TypeEpoch, format.TypeEpoch16:
		unixSeconds := make([]float64, len(raw))
		for i, rec := range raw {
			v, err := codec.ReadScalar(rec, vi.DataType, 1)
			if err != nil {
				return 0, 0, false, err
			}
			if vi.DataType == format.TypeEpoch {
				unixSeconds[i] = epoch.Epoch(v.(float64)).ToUnixSeconds()
			} else {
				pair := v.([2]float64)
				unixSeconds[i] = epoch.Epoch16{Seconds: pair[0], Picoseconds: pair[1]}.ToUnixSeconds()
			}
		}
		ts := variable.NewTimeSeries(unixSeconds)
		lo, hi, found := variable.ResolveRange(ts, float64(start.UnixNano())/1e9, float64(end.UnixNano())/1e9)
		return int64(lo), int64(hi), found, nil

	default:
		return 0, 0, false, fmt.Errorf("%w: %q is not an epoch-typed variable", errs.ErrUnsupportedDataType, epochVar)
	}
}

package cdffile

import (
	"time"

	"github.com/cdflib/cdf/format"
)

// VargetOptions selects which records Varget returns. Set FirstRec and
// LastRec to -1 (both) to request the whole variable; set Start and End
// instead to resolve the range through DEPEND_0 (or EpochVar, to override
// which time variable that range is resolved against).
type VargetOptions struct {
	FirstRec, LastRec int64
	Start, End        *time.Time
	EpochVar          string
}

// VargetResult is the combined shape/data/coverage answer to a Varget call.
type VargetResult struct {
	RecNdim         int
	RecShape        []int32
	NumRecords      int64
	RecordsReturned int64
	DataType        format.DataType
	Data            [][]byte
	RealRecords     []int64
}

// Varget reads variable name's data for the record range opts selects,
// together with enough shape and coverage metadata to interpret it: the
// dimensionality and per-record shape, the variable's total record count,
// how many of the requested records were actually returned, and which of
// those are physically stored (RealRecords) as opposed to filled in by
// Pad/Previous sparseness.
func (r *Reader) Varget(name string, opts VargetOptions) (VargetResult, error) {
	vi, err := r.Varinq(name)
	if err != nil {
		return VargetResult{}, err
	}

	first, last := opts.FirstRec, opts.LastRec
	switch {
	case opts.Start != nil && opts.End != nil:
		epochVar := opts.EpochVar
		if epochVar == "" {
			epochVar, err = r.dependency0(name)
			if err != nil {
				return VargetResult{}, err
			}
		}
		lo, hi, ok, err := r.epochrangeFor(epochVar, *opts.Start, *opts.End)
		if err != nil {
			return VargetResult{}, err
		}
		if !ok {
			return VargetResult{
				RecNdim: len(vi.DimSizes), RecShape: vi.DimSizes,
				NumRecords: int64(vi.MaxRec) + 1, DataType: vi.DataType,
			}, nil
		}
		first, last = lo, hi
	case first < 0 && last < 0:
		first, last = 0, int64(vi.MaxRec)
	}

	data, err := r.GetRange(name, first, last)
	if err != nil {
		return VargetResult{}, err
	}

	vr, err := r.variableReader(name)
	if err != nil {
		return VargetResult{}, err
	}
	realRecords := make([]int64, 0, len(data))
	for rec := first; rec <= last; rec++ {
		if vr.IsRecordPresent(rec) {
			realRecords = append(realRecords, rec)
		}
	}

	return VargetResult{
		RecNdim: len(vi.DimSizes), RecShape: vi.DimSizes,
		NumRecords: int64(vi.MaxRec) + 1, RecordsReturned: int64(len(data)),
		DataType: vi.DataType, Data: data, RealRecords: realRecords,
	}, nil
}

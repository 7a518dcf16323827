// Package variable implements the variable data engine: the hyperslab
// read path over a VXR index tree, sparse-record fill, row/column majority
// transposition, the segmented VVR/CVVR write path, and DEPEND_0
// time-range-to-record-range resolution.
package variable

import (
	"github.com/cdflib/cdf/format"
	"github.com/cdflib/cdf/record"
)

// Descriptor is the shape and storage metadata of one variable, assembled
// from its VDR (and, for r-variables, the file-wide GDR dimensionality).
type Descriptor struct {
	Name           string
	Number         int32
	Kind           format.VarKind
	DataType       format.DataType
	NumElems       int32 // character width for CDF_CHAR/CDF_UCHAR, 1 otherwise
	DimSizes       []int32
	DimVarys       []int32 // 0 or 1 per dimension
	RecVary        bool
	MaxRec         int32
	Sparseness     format.Sparseness
	PadValue       []byte
	BlockingFactor int32
	Compressed     bool
	VXRhead        int64
	CPRorSPRoffset int64
}

// FromVDR builds a Descriptor from a parsed VDR. rDimSizes supplies the
// file-wide r-variable shape (ignored for z-variables, which carry their
// own DimSizes).
func FromVDR(v record.VDR, rDimSizes []int32) Descriptor {
	dims := v.DimSizes
	if v.Kind == format.KindRVariable {
		dims = rDimSizes
	}
	return Descriptor{
		Name:           v.Name,
		Number:         v.Num,
		Kind:           v.Kind,
		DataType:       v.DataType,
		NumElems:       v.NumElems,
		DimSizes:       dims,
		DimVarys:       v.DimVarys,
		RecVary:        v.HasRecVary(),
		MaxRec:         v.MaxRec,
		Sparseness:     v.SRecords,
		PadValue:       v.PadValue,
		BlockingFactor: v.BlockingFactor,
		Compressed:     v.IsCompressed(),
		VXRhead:        v.VXRhead,
		CPRorSPRoffset: v.CPRorSPRoffset,
	}
}

// StoredDims returns the subset of DimSizes that vary per record. A
// dimension with DimVarys == 0 is stored once (not once per record) and
// broadcast across that axis when a full-shape value is materialized.
func (d Descriptor) StoredDims() []int32 {
	out := make([]int32, 0, len(d.DimSizes))
	for i, size := range d.DimSizes {
		if i >= len(d.DimVarys) || d.DimVarys[i] != 0 {
			out = append(out, size)
		}
	}
	return out
}

// ElementCount returns the number of scalar elements physically stored per
// record (the product of StoredDims, or 1 for a scalar variable).
func (d Descriptor) ElementCount() int {
	n := 1
	for _, size := range d.StoredDims() {
		n *= int(size)
	}
	return n
}

// FullElementCount returns the number of scalar elements in the variable's
// full logical shape (the product of all DimSizes), ignoring variance.
func (d Descriptor) FullElementCount() int {
	n := 1
	for _, size := range d.DimSizes {
		n *= int(size)
	}
	return n
}

package record

import (
	"fmt"

	"github.com/cdflib/cdf/errs"
	"github.com/cdflib/cdf/format"
)

const vdrNameLen = 256

// VDR flag bits.
const (
	VDRFlagRecVary  = 1 << 0 // record variance: values differ between records
	VDRFlagCompress = 1 << 2 // payload stored in CVVR rather than VVR
)

// VDR is a Variable descriptor record. The same layout serves r-variables
// (chained from GDR.RVDRhead, dimension variance taken from GDR.RDimSizes)
// and z-variables (chained from GDR.ZVDRhead, own DimSizes/DimVarys); Kind
// records which.
type VDR struct {
	Header Header
	Kind   format.VarKind

	VDRnext        int64
	DataType       format.DataType
	MaxRec         int32
	VXRhead        int64
	VXRtail        int64
	Flags          int32
	SRecords       format.Sparseness
	Num            int32
	NumElems       int32
	NumDims        int32 // zVariables only; rVariables take dimensionality from the GDR
	DimSizes       []int32 // zVariables only
	DimVarys       []int32 // per-dimension variance mask, NumDims (z) or GDR.RNumDims (r) wide
	BlockingFactor int32
	Name           string
	CPRorSPRoffset int64 // -1 if absent
	PadValue       []byte
}

// HasRecVary reports whether values differ between records.
func (v VDR) HasRecVary() bool { return v.Flags&VDRFlagRecVary != 0 }

// IsCompressed reports whether this variable's data records are CVVR, not VVR.
func (v VDR) IsCompressed() bool { return v.Flags&VDRFlagCompress != 0 }

// ParseVDR parses an rVDR/zVDR body at offset. recType distinguishes which;
// zVariables carry their own NumDims/DimSizes, rVariables take shape from
// the GDR and rNumDims is passed in by the caller (the walking orchestrator,
// which has already parsed the GDR).
func ParseVDR(ctx *Ctx, buf []byte, offset int64, recType format.RecordType, rNumDims int32) (VDR, int64, error) {
	hdr, err := ctx.ReadHeader(buf[offset:])
	if err != nil {
		return VDR{}, 0, err
	}
	if hdr.Type != recType {
		return VDR{}, 0, fmt.Errorf("%w: expected %s, got %s", errs.ErrMalformedRecordOrder, recType, hdr.Type)
	}

	kind := format.KindZVariable
	if recType == format.RecrVDR {
		kind = format.KindRVariable
	}

	p := offset + int64(ctx.HeaderLen())
	b := buf[p:]
	ws := ctx.WordSize

	v := VDR{Header: hdr, Kind: kind}
	v.VDRnext = ctx.ReadOffset(b[0*ws:])
	off := ws
	v.DataType = format.DataType(ctx.ReadInt32(b[off:]))
	off += 4
	v.MaxRec = ctx.ReadInt32(b[off:])
	off += 4
	v.VXRhead = ctx.ReadOffset(b[off:])
	off += ws
	v.VXRtail = ctx.ReadOffset(b[off:])
	off += ws
	v.Flags = ctx.ReadInt32(b[off:])
	off += 4
	v.SRecords = format.Sparseness(ctx.ReadInt32(b[off:]))
	off += 4
	off += 4 * 2 // rfuB, rfuC
	off += 4     // rfuF
	v.Num = ctx.ReadInt32(b[off:])
	off += 4
	v.CPRorSPRoffset = ctx.ReadOffset(b[off:])
	off += ws
	v.BlockingFactor = ctx.ReadInt32(b[off:])
	off += 4

	if len(b) < off+vdrNameLen {
		return VDR{}, 0, fmt.Errorf("%w: VDR name field truncated", errs.ErrTruncated)
	}
	v.Name = readFixedString(b[off:off+vdrNameLen], vdrNameLen)
	off += vdrNameLen

	v.NumElems = ctx.ReadInt32(b[off:])
	off += 4

	var dimCount int
	if kind == format.KindZVariable {
		v.NumDims = ctx.ReadInt32(b[off:])
		off += 4
		dimCount = int(v.NumDims)
		if dimCount < 0 || off+dimCount*4 > len(b) {
			return VDR{}, 0, fmt.Errorf("%w: VDR DimSizes truncated", errs.ErrTruncated)
		}
		v.DimSizes = make([]int32, dimCount)
		for i := 0; i < dimCount; i++ {
			v.DimSizes[i] = ctx.ReadInt32(b[off+i*4:])
		}
		off += dimCount * 4
	} else {
		dimCount = int(rNumDims)
	}

	if off+dimCount*4 > len(b) {
		return VDR{}, 0, fmt.Errorf("%w: VDR DimVarys truncated", errs.ErrTruncated)
	}
	v.DimVarys = make([]int32, dimCount)
	for i := 0; i < dimCount; i++ {
		v.DimVarys[i] = ctx.ReadInt32(b[off+i*4:])
	}
	off += dimCount * 4

	padSize, err := valueSize(v.DataType, int(v.NumElems))
	if err != nil {
		return VDR{}, 0, err
	}
	hasPad := v.SRecords == format.SparsePad
	if hasPad {
		if off+padSize > len(b) {
			return VDR{}, 0, fmt.Errorf("%w: VDR pad value truncated", errs.ErrTruncated)
		}
		v.PadValue = append([]byte(nil), b[off:off+padSize]...)
	}

	return v, offset + hdr.Size, nil
}

// Emit encodes the VDR and writes it to sink. The RecordType it is emitted
// under is derived from v.Kind.
func (v VDR) Emit(ctx *Ctx, sink *Sink) int64 {
	recType := format.RecZVDR
	if v.Kind == format.KindRVariable {
		recType = format.RecrVDR
	}

	body := make([]byte, 0, 256)
	body = ctx.AppendOffset(body, v.VDRnext)
	body = ctx.AppendInt32(body, int32(v.DataType))
	body = ctx.AppendInt32(body, v.MaxRec)
	body = ctx.AppendOffset(body, v.VXRhead)
	body = ctx.AppendOffset(body, v.VXRtail)
	body = ctx.AppendInt32(body, v.Flags)
	body = ctx.AppendInt32(body, int32(v.SRecords))
	body = ctx.AppendInt32(body, 0) // rfuB
	body = ctx.AppendInt32(body, 0) // rfuC
	body = ctx.AppendInt32(body, 0) // rfuF
	body = ctx.AppendInt32(body, v.Num)
	body = ctx.AppendOffset(body, v.CPRorSPRoffset)
	body = ctx.AppendInt32(body, v.BlockingFactor)
	body = appendFixedString(body, v.Name, vdrNameLen)
	body = ctx.AppendInt32(body, v.NumElems)

	if v.Kind == format.KindZVariable {
		body = ctx.AppendInt32(body, int32(len(v.DimSizes)))
		for _, d := range v.DimSizes {
			body = ctx.AppendInt32(body, d)
		}
	}
	for _, d := range v.DimVarys {
		body = ctx.AppendInt32(body, d)
	}
	if v.SRecords == format.SparsePad {
		body = append(body, v.PadValue...)
	}

	return sink.Write(ctx.finalize(recType, body))
}

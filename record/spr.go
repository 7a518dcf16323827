package record

import (
	"fmt"

	"github.com/cdflib/cdf/errs"
	"github.com/cdflib/cdf/format"
)

// SPR is a Sparseness parameters record, pointed to by VDR.CPRorSPRoffset
// when the variable uses an array-element sparseness beyond the plain
// record-level policy already recorded in VDR.SRecords. No CDF component in
// this implementation writes SPRs (only record sparseness is supported, per
// VDR.SRecords), and the file reader does not call ParseSPR either; both
// functions are standalone codec entry points.
type SPR struct {
	Header Header

	SArraysType format.Sparseness
	SParms      []int32
}

// ParseSPR parses an SPR body at offset.
func ParseSPR(ctx *Ctx, buf []byte, offset int64) (SPR, int64, error) {
	hdr, err := ctx.ReadHeader(buf[offset:])
	if err != nil {
		return SPR{}, 0, err
	}
	if hdr.Type != format.RecSPR {
		return SPR{}, 0, fmt.Errorf("%w: expected SPR, got %s", errs.ErrMalformedRecordOrder, hdr.Type)
	}

	p := offset + int64(ctx.HeaderLen())
	b := buf[p:]

	if len(b) < 4*2 {
		return SPR{}, 0, fmt.Errorf("%w: SPR header truncated", errs.ErrTruncated)
	}
	s := SPR{Header: hdr}
	s.SArraysType = format.Sparseness(ctx.ReadInt32(b[0:]))
	off := 4
	count := ctx.ReadInt32(b[off:])
	off += 4

	n := int(count)
	if n < 0 || off+n*4 > len(b) {
		return SPR{}, 0, fmt.Errorf("%w: SPR parameters truncated", errs.ErrTruncated)
	}
	s.SParms = make([]int32, n)
	for i := 0; i < n; i++ {
		s.SParms[i] = ctx.ReadInt32(b[off+i*4:])
	}

	return s, offset + hdr.Size, nil
}

// Emit encodes the SPR and writes it to sink.
func (s SPR) Emit(ctx *Ctx, sink *Sink) int64 {
	body := make([]byte, 0, 4*2+len(s.SParms)*4)
	body = ctx.AppendInt32(body, int32(s.SArraysType))
	body = ctx.AppendInt32(body, int32(len(s.SParms)))
	for _, p := range s.SParms {
		body = ctx.AppendInt32(body, p)
	}

	return sink.Write(ctx.finalize(format.RecSPR, body))
}

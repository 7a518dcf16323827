package record

import (
	"fmt"

	"github.com/cdflib/cdf/errs"
	"github.com/cdflib/cdf/format"
)

// CPR is a Compression parameters record, pointed to by VDR.CPRorSPRoffset
// when the variable's data records are compressed. CDF defines one
// parameter for GZIP: the deflate level (0-9).
type CPR struct {
	Header Header

	CType  format.Compression
	CParms []int32
}

// ParseCPR parses a CPR body at offset.
func ParseCPR(ctx *Ctx, buf []byte, offset int64) (CPR, int64, error) {
	hdr, err := ctx.ReadHeader(buf[offset:])
	if err != nil {
		return CPR{}, 0, err
	}
	if hdr.Type != format.RecCPR {
		return CPR{}, 0, fmt.Errorf("%w: expected CPR, got %s", errs.ErrMalformedRecordOrder, hdr.Type)
	}

	p := offset + int64(ctx.HeaderLen())
	b := buf[p:]

	if len(b) < 4*3 {
		return CPR{}, 0, fmt.Errorf("%w: CPR header truncated", errs.ErrTruncated)
	}
	c := CPR{Header: hdr}
	c.CType = format.Compression(ctx.ReadInt32(b[0:]))
	off := 4
	off += 4 // rfuA
	count := ctx.ReadInt32(b[off:])
	off += 4

	n := int(count)
	if n < 0 || off+n*4 > len(b) {
		return CPR{}, 0, fmt.Errorf("%w: CPR parameters truncated", errs.ErrTruncated)
	}
	c.CParms = make([]int32, n)
	for i := 0; i < n; i++ {
		c.CParms[i] = ctx.ReadInt32(b[off+i*4:])
	}

	return c, offset + hdr.Size, nil
}

// Emit encodes the CPR and writes it to sink.
func (c CPR) Emit(ctx *Ctx, sink *Sink) int64 {
	body := make([]byte, 0, 4*3+len(c.CParms)*4)
	body = ctx.AppendInt32(body, int32(c.CType))
	body = ctx.AppendInt32(body, 0) // rfuA
	body = ctx.AppendInt32(body, int32(len(c.CParms)))
	for _, p := range c.CParms {
		body = ctx.AppendInt32(body, p)
	}

	return sink.Write(ctx.finalize(format.RecCPR, body))
}

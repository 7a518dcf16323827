package record

import (
	"fmt"

	"github.com/cdflib/cdf/errs"
	"github.com/cdflib/cdf/format"
)

// CCR is the CDF compressed file record: a whole-file wrapper that replaces
// everything after the CDR with a single compressed run, pointed to by the
// CDR's GDRoffset when format.MagicNumber2Compressed is in effect. CData
// inflates to the GDR and every record that follows it.
type CCR struct {
	Header Header

	CPRoffset int64
	USize     int64
	CData     []byte
}

// ParseCCR parses a CCR body at offset.
func ParseCCR(ctx *Ctx, buf []byte, offset int64) (CCR, int64, error) {
	hdr, err := ctx.ReadHeader(buf[offset:])
	if err != nil {
		return CCR{}, 0, err
	}
	if hdr.Type != format.RecCCR {
		return CCR{}, 0, fmt.Errorf("%w: expected CCR, got %s", errs.ErrMalformedRecordOrder, hdr.Type)
	}

	p := offset + int64(ctx.HeaderLen())
	b := buf[p:]
	ws := ctx.WordSize

	if len(b) < ws+ws {
		return CCR{}, 0, fmt.Errorf("%w: CCR header truncated", errs.ErrTruncated)
	}
	c := CCR{Header: hdr}
	c.CPRoffset = ctx.ReadOffset(b[0*ws:])
	c.USize = ctx.ReadOffset(b[1*ws:])

	end := offset + hdr.Size
	if end > int64(len(buf)) {
		return CCR{}, 0, fmt.Errorf("%w: CCR payload truncated", errs.ErrTruncated)
	}
	c.CData = buf[p+2*int64(ws) : end]

	return c, end, nil
}

// Emit encodes the CCR and writes it to sink.
func (c CCR) Emit(ctx *Ctx, sink *Sink) int64 {
	ws := ctx.WordSize
	body := make([]byte, 0, 2*ws+len(c.CData))
	body = ctx.AppendOffset(body, c.CPRoffset)
	body = ctx.AppendOffset(body, c.USize)
	body = append(body, c.CData...)

	return sink.Write(ctx.finalize(format.RecCCR, body))
}

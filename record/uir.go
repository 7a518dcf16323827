package record

import (
	"fmt"

	"github.com/cdflib/cdf/errs"
	"github.com/cdflib/cdf/format"
)

// UIR is an Unused internal record: a hole in the record chain left behind
// by a delete, kept in a doubly linked free list off GDR.UIRhead/NextUIR/PrevUIR so
// a writer can reclaim the space instead of always appending.
type UIR struct {
	Header Header

	NextUIR int64
	PrevUIR int64
	// Unused is the filler occupying the rest of the record's declared size.
	Unused []byte
}

// ParseUIR parses a UIR body at offset.
func ParseUIR(ctx *Ctx, buf []byte, offset int64) (UIR, int64, error) {
	hdr, err := ctx.ReadHeader(buf[offset:])
	if err != nil {
		return UIR{}, 0, err
	}
	if hdr.Type != format.RecUIR {
		return UIR{}, 0, fmt.Errorf("%w: expected UIR, got %s", errs.ErrMalformedRecordOrder, hdr.Type)
	}

	p := offset + int64(ctx.HeaderLen())
	b := buf[p:]
	ws := ctx.WordSize

	if len(b) < 2*ws {
		return UIR{}, 0, fmt.Errorf("%w: UIR header truncated", errs.ErrTruncated)
	}
	u := UIR{Header: hdr}
	u.NextUIR = ctx.ReadOffset(b[0*ws:])
	u.PrevUIR = ctx.ReadOffset(b[1*ws:])

	end := offset + hdr.Size
	if end > int64(len(buf)) {
		return UIR{}, 0, fmt.Errorf("%w: UIR declared size exceeds file", errs.ErrTruncated)
	}
	u.Unused = buf[p+2*int64(ws) : end]

	return u, end, nil
}

// Emit encodes the UIR, padding the body to size total bytes (including
// header), and writes it to sink. size must be at least the header plus two
// offset fields.
func (u UIR) Emit(ctx *Ctx, sink *Sink, size int64) int64 {
	ws := ctx.WordSize
	bodyLen := int(size) - ctx.HeaderLen()
	body := make([]byte, 0, bodyLen)
	body = ctx.AppendOffset(body, u.NextUIR)
	body = ctx.AppendOffset(body, u.PrevUIR)
	if pad := bodyLen - 2*ws; pad > 0 {
		body = append(body, make([]byte, pad)...)
	}

	return sink.Write(ctx.finalize(format.RecUIR, body))
}

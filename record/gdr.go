package record

import (
	"fmt"

	"github.com/cdflib/cdf/errs"
	"github.com/cdflib/cdf/format"
)

// GDR is the Global descriptor record: head offsets of the r-variable,
// z-variable, and attribute chains, rVariable dimensionality, and the
// end-of-file marker. Exactly one per file.
type GDR struct {
	Header Header

	RVDRhead  int64
	ZVDRhead  int64
	ADRhead   int64
	EOF       int64
	NrVars    int32
	NumAttr   int32
	RMaxRec   int32
	RNumDims  int32
	NzVars    int32
	UIRhead   int64
	// LeapSecondLastUpdated is the TT2000 leap-second table date this file
	// was last written against, encoded as yyyymmdd decimal (0 if unused).
	LeapSecondLastUpdated int32
	RDimSizes             []int32
}

// ParseGDR parses the GDR body at offset.
func ParseGDR(ctx *Ctx, buf []byte, offset int64) (GDR, int64, error) {
	hdr, err := ctx.ReadHeader(buf[offset:])
	if err != nil {
		return GDR{}, 0, err
	}
	if hdr.Type != format.RecGDR {
		return GDR{}, 0, fmt.Errorf("%w: expected GDR, got %s", errs.ErrMalformedRecordOrder, hdr.Type)
	}

	p := offset + int64(ctx.HeaderLen())
	b := buf[p:]
	ws := ctx.WordSize

	g := GDR{Header: hdr}
	g.RVDRhead = ctx.ReadOffset(b[0*ws:])
	g.ZVDRhead = ctx.ReadOffset(b[1*ws:])
	g.ADRhead = ctx.ReadOffset(b[2*ws:])
	g.EOF = ctx.ReadOffset(b[3*ws:])
	off := 4 * ws
	g.NrVars = ctx.ReadInt32(b[off:])
	off += 4
	g.NumAttr = ctx.ReadInt32(b[off:])
	off += 4
	g.RMaxRec = ctx.ReadInt32(b[off:])
	off += 4
	g.RNumDims = ctx.ReadInt32(b[off:])
	off += 4
	g.NzVars = ctx.ReadInt32(b[off:])
	off += 4
	g.UIRhead = ctx.ReadOffset(b[off:])
	off += ws
	off += 4 * 3 // rfu C/D/E
	g.LeapSecondLastUpdated = ctx.ReadInt32(b[off:])
	off += 4
	off += 4 // rfu (future)

	n := int(g.RNumDims)
	if n < 0 || off+n*4 > len(b) {
		return GDR{}, 0, fmt.Errorf("%w: GDR rDimSizes truncated", errs.ErrTruncated)
	}
	g.RDimSizes = make([]int32, n)
	for i := 0; i < n; i++ {
		g.RDimSizes[i] = ctx.ReadInt32(b[off+i*4:])
	}

	return g, offset + hdr.Size, nil
}

// Emit encodes the GDR and writes it to sink.
func (g GDR) Emit(ctx *Ctx, sink *Sink) int64 {
	ws := ctx.WordSize
	body := make([]byte, 0, 4*ws+ws+6*4+len(g.RDimSizes)*4)
	body = ctx.AppendOffset(body, g.RVDRhead)
	body = ctx.AppendOffset(body, g.ZVDRhead)
	body = ctx.AppendOffset(body, g.ADRhead)
	body = ctx.AppendOffset(body, g.EOF)
	body = ctx.AppendInt32(body, g.NrVars)
	body = ctx.AppendInt32(body, g.NumAttr)
	body = ctx.AppendInt32(body, g.RMaxRec)
	body = ctx.AppendInt32(body, int32(len(g.RDimSizes)))
	body = ctx.AppendInt32(body, g.NzVars)
	body = ctx.AppendOffset(body, g.UIRhead)
	body = ctx.AppendInt32(body, 0) // rfuC
	body = ctx.AppendInt32(body, 0) // rfuD
	body = ctx.AppendInt32(body, 0) // rfuE
	body = ctx.AppendInt32(body, g.LeapSecondLastUpdated)
	body = ctx.AppendInt32(body, 0) // reserved for future use
	for _, d := range g.RDimSizes {
		body = ctx.AppendInt32(body, d)
	}

	return sink.Write(ctx.finalize(format.RecGDR, body))
}

package record

import (
	"fmt"

	"github.com/cdflib/cdf/errs"
	"github.com/cdflib/cdf/format"
)

// VVR is a Variable values record: one uncompressed run of a variable's
// record data, referenced by a VXR entry.
type VVR struct {
	Header Header
	Data   []byte
}

// ParseVVR parses a VVR body at offset. The caller supplies the byte range
// via the header's declared Size; Data is returned as a view into buf and
// must be copied out by the caller if buf will be reused.
func ParseVVR(ctx *Ctx, buf []byte, offset int64) (VVR, int64, error) {
	hdr, err := ctx.ReadHeader(buf[offset:])
	if err != nil {
		return VVR{}, 0, err
	}
	if hdr.Type != format.RecVVR {
		return VVR{}, 0, fmt.Errorf("%w: expected VVR, got %s", errs.ErrMalformedRecordOrder, hdr.Type)
	}

	p := offset + int64(ctx.HeaderLen())
	end := offset + hdr.Size
	if end > int64(len(buf)) {
		return VVR{}, 0, fmt.Errorf("%w: VVR payload truncated", errs.ErrTruncated)
	}

	return VVR{Header: hdr, Data: buf[p:end]}, end, nil
}

// Emit writes the VVR's raw payload to sink.
func (v VVR) Emit(ctx *Ctx, sink *Sink) int64 {
	return sink.Write(ctx.finalize(format.RecVVR, v.Data))
}

// CVVR is a Compressed variable values record: a VVR payload run through a
// CPR-specified compressor (GZIP only, see spec's compress package). USize
// is the uncompressed byte count, recorded so a reader can size its
// inflation buffer without guessing.
type CVVR struct {
	Header Header
	USize  int64
	Data   []byte // compressed bytes
}

// ParseCVVR parses a CVVR body at offset.
func ParseCVVR(ctx *Ctx, buf []byte, offset int64) (CVVR, int64, error) {
	hdr, err := ctx.ReadHeader(buf[offset:])
	if err != nil {
		return CVVR{}, 0, err
	}
	if hdr.Type != format.RecCVVR {
		return CVVR{}, 0, fmt.Errorf("%w: expected CVVR, got %s", errs.ErrMalformedRecordOrder, hdr.Type)
	}

	p := offset + int64(ctx.HeaderLen())
	b := buf[p:]
	ws := ctx.WordSize

	if len(b) < ws+4 {
		return CVVR{}, 0, fmt.Errorf("%w: CVVR header truncated", errs.ErrTruncated)
	}
	usize := ctx.ReadOffset(b[0:ws])
	off := ws
	off += 4 // rfuA

	end := offset + hdr.Size
	if end > int64(len(buf)) {
		return CVVR{}, 0, fmt.Errorf("%w: CVVR payload truncated", errs.ErrTruncated)
	}
	data := buf[p+int64(off) : end]

	return CVVR{Header: hdr, USize: usize, Data: data}, end, nil
}

// Emit encodes the CVVR and writes it to sink.
func (c CVVR) Emit(ctx *Ctx, sink *Sink) int64 {
	ws := ctx.WordSize
	body := make([]byte, 0, ws+4+len(c.Data))
	body = ctx.AppendOffset(body, c.USize)
	body = ctx.AppendInt32(body, 0) // rfuA
	body = append(body, c.Data...)

	return sink.Write(ctx.finalize(format.RecCVVR, body))
}

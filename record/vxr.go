package record

import (
	"fmt"

	"github.com/cdflib/cdf/errs"
	"github.com/cdflib/cdf/format"
)

// VXR is a Variable index record: a node of the index tree mapping record
// ranges onto VVR/CVVR offsets for one variable. NUsed of the NEntries slots
// are populated; readers accept any NEntries a file presents, writers choose
// their own fan-out (see defaultVXREntriesPerNode in package variable).
type VXR struct {
	Header Header

	VXRnext int64
	NUsed   int32
	First   []int64 // first record number covered by entry i
	Last    []int64 // last record number covered by entry i
	Offset  []int64 // absolute offset of the VVR/CVVR for entry i
}

// ParseVXR parses a VXR body at offset.
func ParseVXR(ctx *Ctx, buf []byte, offset int64) (VXR, int64, error) {
	hdr, err := ctx.ReadHeader(buf[offset:])
	if err != nil {
		return VXR{}, 0, err
	}
	if hdr.Type != format.RecVXR {
		return VXR{}, 0, fmt.Errorf("%w: expected VXR, got %s", errs.ErrMalformedRecordOrder, hdr.Type)
	}

	p := offset + int64(ctx.HeaderLen())
	b := buf[p:]
	ws := ctx.WordSize

	v := VXR{Header: hdr}
	v.VXRnext = ctx.ReadOffset(b[0*ws:])
	off := ws
	nEntries := ctx.ReadInt32(b[off:])
	off += 4
	v.NUsed = ctx.ReadInt32(b[off:])
	off += 4

	n := int(nEntries)
	if n < 0 || int(v.NUsed) > n {
		return VXR{}, 0, fmt.Errorf("%w: VXR entry counts inconsistent", errs.ErrMalformedRecordSize)
	}
	need := n*4*2 + n*ws
	if off+need > len(b) {
		return VXR{}, 0, fmt.Errorf("%w: VXR entries truncated", errs.ErrTruncated)
	}

	v.First = make([]int64, n)
	v.Last = make([]int64, n)
	v.Offset = make([]int64, n)
	for i := 0; i < n; i++ {
		v.First[i] = int64(ctx.ReadInt32(b[off+i*4:]))
	}
	off += n * 4
	for i := 0; i < n; i++ {
		v.Last[i] = int64(ctx.ReadInt32(b[off+i*4:]))
	}
	off += n * 4
	for i := 0; i < n; i++ {
		v.Offset[i] = ctx.ReadOffset(b[off+i*ws:])
	}

	return v, offset + hdr.Size, nil
}

// Emit encodes the VXR and writes it to sink. len(First) determines NEntries.
func (v VXR) Emit(ctx *Ctx, sink *Sink) int64 {
	ws := ctx.WordSize
	n := len(v.First)
	body := make([]byte, 0, ws+2*4+n*4*2+n*ws)
	body = ctx.AppendOffset(body, v.VXRnext)
	body = ctx.AppendInt32(body, int32(n))
	body = ctx.AppendInt32(body, v.NUsed)
	for i := 0; i < n; i++ {
		body = ctx.AppendInt32(body, int32(v.First[i]))
	}
	for i := 0; i < n; i++ {
		body = ctx.AppendInt32(body, int32(v.Last[i]))
	}
	for i := 0; i < n; i++ {
		body = ctx.AppendOffset(body, v.Offset[i])
	}

	return sink.Write(ctx.finalize(format.RecVXR, body))
}

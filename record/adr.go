package record

import (
	"fmt"

	"github.com/cdflib/cdf/errs"
	"github.com/cdflib/cdf/format"
)

const adrNameLen = 256

// ADR is the Attribute descriptor record: one per global or variable
// attribute, heading two chains of entry records: AgrEDR (global-scope
// entries and r-variable entries) and AzEDR (z-variable entries).
type ADR struct {
	Header Header

	ADRnext    int64
	AgrEDRhead int64
	Scope      format.AttrScope
	Num        int32
	NgrEntries int32
	MAXgrEntry int32
	AzEDRhead  int64
	NzEntries  int32
	MAXzEntry  int32
	Name       string
}

// ParseADR parses the ADR body at offset.
func ParseADR(ctx *Ctx, buf []byte, offset int64) (ADR, int64, error) {
	hdr, err := ctx.ReadHeader(buf[offset:])
	if err != nil {
		return ADR{}, 0, err
	}
	if hdr.Type != format.RecADR {
		return ADR{}, 0, fmt.Errorf("%w: expected ADR, got %s", errs.ErrMalformedRecordOrder, hdr.Type)
	}

	p := offset + int64(ctx.HeaderLen())
	b := buf[p:]
	ws := ctx.WordSize

	a := ADR{Header: hdr}
	a.ADRnext = ctx.ReadOffset(b[0*ws:])
	a.AgrEDRhead = ctx.ReadOffset(b[1*ws:])
	off := 2 * ws
	a.Scope = format.AttrScope(ctx.ReadInt32(b[off:]))
	off += 4
	a.Num = ctx.ReadInt32(b[off:])
	off += 4
	a.NgrEntries = ctx.ReadInt32(b[off:])
	off += 4
	a.MAXgrEntry = ctx.ReadInt32(b[off:])
	off += 4
	off += 4 // rfuA
	a.AzEDRhead = ctx.ReadOffset(b[off:])
	off += ws
	a.NzEntries = ctx.ReadInt32(b[off:])
	off += 4
	a.MAXzEntry = ctx.ReadInt32(b[off:])
	off += 4
	off += 4 // rfuB

	if len(b) < off+adrNameLen {
		return ADR{}, 0, fmt.Errorf("%w: ADR name field truncated", errs.ErrTruncated)
	}
	a.Name = readFixedString(b[off:off+adrNameLen], adrNameLen)

	return a, offset + hdr.Size, nil
}

// Emit encodes the ADR and writes it to sink.
func (a ADR) Emit(ctx *Ctx, sink *Sink) int64 {
	ws := ctx.WordSize
	body := make([]byte, 0, 2*ws+4*4+ws+2*4+adrNameLen)
	body = ctx.AppendOffset(body, a.ADRnext)
	body = ctx.AppendOffset(body, a.AgrEDRhead)
	body = ctx.AppendInt32(body, int32(a.Scope))
	body = ctx.AppendInt32(body, a.Num)
	body = ctx.AppendInt32(body, a.NgrEntries)
	body = ctx.AppendInt32(body, a.MAXgrEntry)
	body = ctx.AppendInt32(body, 0) // rfuA
	body = ctx.AppendOffset(body, a.AzEDRhead)
	body = ctx.AppendInt32(body, a.NzEntries)
	body = ctx.AppendInt32(body, a.MAXzEntry)
	body = ctx.AppendInt32(body, 0) // rfuB
	body = appendFixedString(body, a.Name, adrNameLen)

	return sink.Write(ctx.finalize(format.RecADR, body))
}

// AEDR is an Attribute entry descriptor record. The same layout serves both
// AgrEDR (global or r/z-variable scoped, chained from ADR.AgrEDRhead) and
// AzEDR (z-variable scoped, chained from ADR.AzEDRhead); RecType records
// which header the record was written with so a round trip reproduces it.
type AEDR struct {
	Header Header

	AEDRnext  int64
	AttrNum   int32
	DataType  format.DataType
	Num       int32 // variable number this entry targets, or entry number for global attrs
	NumElems  int32
	NumStrings int32
	Value     []byte
}

// ParseAEDR parses an AgrEDR/AzEDR body at offset. recType must be
// format.RecAgrEDR or format.RecAzEDR; the caller knows which chain it is
// walking.
func ParseAEDR(ctx *Ctx, buf []byte, offset int64, recType format.RecordType) (AEDR, int64, error) {
	hdr, err := ctx.ReadHeader(buf[offset:])
	if err != nil {
		return AEDR{}, 0, err
	}
	if hdr.Type != recType {
		return AEDR{}, 0, fmt.Errorf("%w: expected %s, got %s", errs.ErrMalformedRecordOrder, recType, hdr.Type)
	}

	p := offset + int64(ctx.HeaderLen())
	b := buf[p:]
	ws := ctx.WordSize

	e := AEDR{Header: hdr}
	e.AEDRnext = ctx.ReadOffset(b[0*ws:])
	off := ws
	e.AttrNum = ctx.ReadInt32(b[off:])
	off += 4
	e.DataType = format.DataType(ctx.ReadInt32(b[off:]))
	off += 4
	e.Num = ctx.ReadInt32(b[off:])
	off += 4
	e.NumElems = ctx.ReadInt32(b[off:])
	off += 4
	e.NumStrings = ctx.ReadInt32(b[off:])
	off += 4
	off += 4 * 5 // rfuA..rfuE

	size, err := valueSize(e.DataType, int(e.NumElems))
	if err != nil {
		return AEDR{}, 0, err
	}
	if len(b) < off+size {
		return AEDR{}, 0, fmt.Errorf("%w: AEDR value truncated", errs.ErrTruncated)
	}
	e.Value = append([]byte(nil), b[off:off+size]...)

	return e, offset + hdr.Size, nil
}

// Emit encodes the AEDR under recType and writes it to sink.
func (e AEDR) Emit(ctx *Ctx, sink *Sink, recType format.RecordType) int64 {
	ws := ctx.WordSize
	body := make([]byte, 0, ws+5*4+5*4+len(e.Value))
	body = ctx.AppendOffset(body, e.AEDRnext)
	body = ctx.AppendInt32(body, e.AttrNum)
	body = ctx.AppendInt32(body, int32(e.DataType))
	body = ctx.AppendInt32(body, e.Num)
	body = ctx.AppendInt32(body, e.NumElems)
	body = ctx.AppendInt32(body, e.NumStrings)
	for i := 0; i < 5; i++ {
		body = ctx.AppendInt32(body, 0)
	}
	body = append(body, e.Value...)

	return sink.Write(ctx.finalize(recType, body))
}

func valueSize(dt format.DataType, numElems int) (int, error) {
	if !dt.IsValid() {
		return 0, fmt.Errorf("%w: code %d", errs.ErrUnsupportedDataType, dt)
	}
	if dt.IsString() {
		if numElems < 1 {
			numElems = 1
		}
		return numElems, nil
	}
	return dt.ElementSize() * maxInt(numElems, 1), nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

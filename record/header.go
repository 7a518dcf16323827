// Package record implements the internal-record codec: parsing and
// emitting the CDF version 3 chain of typed, length-prefixed records (CDR,
// GDR, ADR, AgrEDR/AzEDR, VDR, VXR, VVR, CVVR, CPR, SPR, UIR, CCR) and
// walking the offset-linked chains between them.
//
// Every record begins with a {size, type} header. The large-file variant
// uses 8-byte sizes and 8-byte offsets throughout; the classic variant uses
// 4-byte. Ctx carries this choice (WordSize) plus the file-wide byte order,
// and every Parse/Emit function in this package takes a *Ctx.
package record

import (
	"fmt"

	"github.com/cdflib/cdf/endian"
	"github.com/cdflib/cdf/errs"
	"github.com/cdflib/cdf/format"
	"github.com/cdflib/cdf/internal/pool"
)

// Ctx carries the file-wide decoding parameters every record needs:
// byte order and offset/size word width (4 bytes classic, 8 bytes large-file).
type Ctx struct {
	Engine   endian.EndianEngine
	WordSize int // 4 or 8
}

// Header is the common {size, type} prefix of every internal record.
type Header struct {
	// Size is the total record length in bytes, including the header itself.
	Size int64
	Type format.RecordType
}

// HeaderLen returns the byte width of a record header under this Ctx:
// WordSize bytes for Size plus 4 bytes for the (always 32-bit) Type.
func (c *Ctx) HeaderLen() int {
	return c.WordSize + 4
}

// ReadHeader decodes the {size, type} header at the start of buf.
func (c *Ctx) ReadHeader(buf []byte) (Header, error) {
	hl := c.HeaderLen()
	if len(buf) < hl {
		return Header{}, fmt.Errorf("%w: record header needs %d bytes, have %d", errs.ErrTruncated, hl, len(buf))
	}

	size := c.readWord(buf[:c.WordSize])
	typ := int32(c.Engine.Uint32(buf[c.WordSize : c.WordSize+4]))

	if size < int64(hl) {
		return Header{}, fmt.Errorf("%w: declared size %d smaller than header", errs.ErrMalformedRecordSize, size)
	}

	return Header{Size: size, Type: format.RecordType(typ)}, nil
}

// WriteHeader encodes h into a freshly allocated buffer of HeaderLen() bytes.
func (c *Ctx) WriteHeader(h Header) []byte {
	buf := make([]byte, c.HeaderLen())
	c.writeWord(buf[:c.WordSize], h.Size)
	c.Engine.PutUint32(buf[c.WordSize:c.WordSize+4], uint32(h.Type))
	return buf
}

// ReadOffset decodes a WordSize-wide absolute file offset.
func (c *Ctx) ReadOffset(buf []byte) int64 {
	return c.readWord(buf)
}

// WriteOffset encodes a WordSize-wide absolute file offset into dst.
func (c *Ctx) WriteOffset(dst []byte, offset int64) {
	c.writeWord(dst, offset)
}

func (c *Ctx) readWord(buf []byte) int64 {
	if c.WordSize == format.WordSize8 {
		return int64(c.Engine.Uint64(buf))
	}
	return int64(int32(c.Engine.Uint32(buf)))
}

func (c *Ctx) writeWord(dst []byte, v int64) {
	if c.WordSize == format.WordSize8 {
		c.Engine.PutUint64(dst, uint64(v))
	} else {
		c.Engine.PutUint32(dst, uint32(v))
	}
}

// ReadInt32 reads a file-wide-endian 32-bit signed integer; counts, flags,
// and similar small fields are always 4 bytes regardless of WordSize.
func (c *Ctx) ReadInt32(buf []byte) int32 {
	return int32(c.Engine.Uint32(buf))
}

// AppendInt32 appends a 32-bit signed integer in the file's byte order.
func (c *Ctx) AppendInt32(buf []byte, v int32) []byte {
	return c.Engine.AppendUint32(buf, uint32(v))
}

// AppendOffset appends a WordSize-wide absolute file offset.
func (c *Ctx) AppendOffset(buf []byte, v int64) []byte {
	if c.WordSize == format.WordSize8 {
		return c.Engine.AppendUint64(buf, uint64(v))
	}
	return c.Engine.AppendUint32(buf, uint32(v))
}

// readFixedString reads an n-byte NUL/space-padded string field.
func readFixedString(buf []byte, n int) string {
	end := 0
	for end < n && buf[end] != 0 {
		end++
	}
	s := buf[:end]
	trimEnd := len(s)
	for trimEnd > 0 && s[trimEnd-1] == ' ' {
		trimEnd--
	}
	return string(s[:trimEnd])
}

// appendFixedString appends an n-byte NUL-padded string field.
func appendFixedString(buf []byte, s string, n int) []byte {
	start := len(buf)
	buf = append(buf, make([]byte, n)...)
	copy(buf[start:start+n], s)
	return buf
}

// finalize wraps a record body (everything after the header) with a header
// whose Size is computed from the body length, and returns the full record
// bytes ready to be written at the reserved offset.
func (c *Ctx) finalize(typ format.RecordType, body []byte) []byte {
	h := Header{Size: int64(c.HeaderLen() + len(body)), Type: typ}
	out := make([]byte, 0, len(body)+c.HeaderLen())
	out = append(out, c.WriteHeader(h)...)
	out = append(out, body...)
	return out
}

// Sink is the growable output buffer records are emitted into while a file
// is being assembled, backed by a pooled ByteBuffer and tracking the
// absolute offset each emitted record lands at (offsets are always
// relative to byte 0 of the final file image).
type Sink struct {
	buf  *pool.ByteBuffer
	base int64 // absolute file offset of buf.B[0]
}

// NewSink creates a Sink whose first byte will land at baseOffset in the
// final file image (0 for the main record stream; nonzero when records are
// being staged inside a to-be-compressed CCR payload).
func NewSink(baseOffset int64) *Sink {
	return &Sink{buf: pool.GetSegmentBuffer(), base: baseOffset}
}

// Offset returns the absolute file offset the next Write will land at.
func (s *Sink) Offset() int64 {
	return s.base + int64(s.buf.Len())
}

// Write appends raw bytes and returns the offset they were written at.
func (s *Sink) Write(b []byte) int64 {
	off := s.Offset()
	s.buf.MustWrite(b)
	return off
}

// PatchOffset overwrites a previously written WordSize-wide offset field at
// absolute file offset at, used for the classic two-pass "reserve zero,
// patch next/head later" chain-emission pattern.
func (s *Sink) PatchOffset(ctx *Ctx, at int64, value int64) error {
	local := at - s.base
	if local < 0 || local+int64(ctx.WordSize) > int64(s.buf.Len()) {
		return fmt.Errorf("%w: patch offset %d out of sink range", errs.ErrMalformedRecordOrder, at)
	}
	ctx.writeWord(s.buf.Bytes()[local:local+int64(ctx.WordSize)], value)
	return nil
}

// Bytes returns the accumulated image.
func (s *Sink) Bytes() []byte { return s.buf.Bytes() }

// Release returns the sink's buffer to the pool. Call after Bytes() has been
// copied out, or when the sink is no longer needed.
func (s *Sink) Release() { pool.PutSegmentBuffer(s.buf) }

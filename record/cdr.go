package record

import (
	"fmt"

	"github.com/cdflib/cdf/errs"
	"github.com/cdflib/cdf/format"
)

// CDR flag bits, packed into the 32-bit Flags field.
const (
	FlagMajorityColumn = 1 << 0 // 0=row major, 1=column major
	FlagChecksum       = 1 << 2 // MD5 trailer present
	FlagCompressed     = 1 << 3 // whole-file GZIP via CCR present (redundant with magic2, kept for round-trip fidelity)
)

const copyrightLen = 256

// CDR is the File descriptor record: magic numbers (verified before Parse is
// called, by the orchestrator, since they precede the record header itself),
// version triple, encoding, flags, and copyright string. Exactly one per file.
type CDR struct {
	Header Header

	GDRoffset int64
	Version   int32
	Release   int32
	Encoding  format.Encoding
	Flags     int32
	Increment int32
	Identifier int32
	Copyright string
}

// Majority returns the file's record majority as implied by Flags.
func (c CDR) Majority() format.Majority {
	if c.Flags&FlagMajorityColumn != 0 {
		return format.ColumnMajor
	}
	return format.RowMajor
}

// HasChecksum reports whether the file carries an MD5 trailer.
func (c CDR) HasChecksum() bool { return c.Flags&FlagChecksum != 0 }

// HasFileCompression reports whether the CDR's compressed flag is set,
// meaning the rest of the file after the CDR is wrapped in a single CCR.
func (c CDR) HasFileCompression() bool { return c.Flags&FlagCompressed != 0 }

// ParseCDR parses the CDR body following an already-validated header at offset.
// ctx.WordSize must already reflect the large-file flag decoded from the
// magic number pair by the caller (the CDR is the one record whose layout
// is known before Ctx can be fully derived from it).
func ParseCDR(ctx *Ctx, buf []byte, offset int64) (CDR, int64, error) {
	hdr, err := ctx.ReadHeader(buf[offset:])
	if err != nil {
		return CDR{}, 0, err
	}
	if hdr.Type != format.RecCDR {
		return CDR{}, 0, fmt.Errorf("%w: expected CDR, got %s", errs.ErrMalformedRecordOrder, hdr.Type)
	}

	p := offset + int64(ctx.HeaderLen())
	b := buf[p:]

	c := CDR{Header: hdr}
	c.GDRoffset = ctx.ReadOffset(b[0:ctx.WordSize])
	p2 := ctx.WordSize
	c.Version = ctx.ReadInt32(b[p2:])
	p2 += 4
	c.Release = ctx.ReadInt32(b[p2:])
	p2 += 4
	c.Encoding = format.Encoding(ctx.ReadInt32(b[p2:]))
	p2 += 4
	c.Flags = ctx.ReadInt32(b[p2:])
	p2 += 4
	p2 += 4 // rfuA
	p2 += 4 // rfuB
	c.Increment = ctx.ReadInt32(b[p2:])
	p2 += 4
	c.Identifier = ctx.ReadInt32(b[p2:])
	p2 += 4
	p2 += 4 // rfuE

	if len(b) < p2+copyrightLen {
		return CDR{}, 0, fmt.Errorf("%w: CDR copyright field truncated", errs.ErrTruncated)
	}
	c.Copyright = readFixedString(b[p2:p2+copyrightLen], copyrightLen)

	if c.Version < 3 {
		return CDR{}, 0, fmt.Errorf("%w: version %d.%d", errs.ErrUnsupportedCDFVersion, c.Version, c.Release)
	}

	return c, offset + hdr.Size, nil
}

// Emit encodes the CDR and writes it to sink, returning the absolute offset
// the record landed at.
func (c CDR) Emit(ctx *Ctx, sink *Sink) int64 {
	body := make([]byte, 0, ctx.WordSize+copyrightLen+7*4)
	body = ctx.AppendOffset(body, c.GDRoffset)
	body = ctx.AppendInt32(body, c.Version)
	body = ctx.AppendInt32(body, c.Release)
	body = ctx.AppendInt32(body, int32(c.Encoding))
	body = ctx.AppendInt32(body, c.Flags)
	body = ctx.AppendInt32(body, 0) // rfuA
	body = ctx.AppendInt32(body, 0) // rfuB
	body = ctx.AppendInt32(body, c.Increment)
	body = ctx.AppendInt32(body, c.Identifier)
	body = ctx.AppendInt32(body, 0) // rfuE
	body = appendFixedString(body, c.Copyright, copyrightLen)

	return sink.Write(ctx.finalize(format.RecCDR, body))
}

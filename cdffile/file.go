// Package cdffile implements the file orchestrator: Open/Create/Close, the
// CDR/GDR bootstrap, file-wide metadata queries, the MD5 checksum trailer,
// and file-level CCR inflate-on-open.
//
// A Reader materializes the whole file image into memory once at Open and
// serves every subsequent query from that immutable byte slice plus the
// record tables parsed out of it, rather than re-reading from disk per call.
package cdffile

import (
	"fmt"
	"os"

	"github.com/cdflib/cdf/compress"
	"github.com/cdflib/cdf/endian"
	"github.com/cdflib/cdf/epoch"
	"github.com/cdflib/cdf/errs"
	"github.com/cdflib/cdf/format"
	"github.com/cdflib/cdf/record"
	"github.com/cdflib/cdf/variable"
)

// Info summarizes a CDF file's global properties.
type Info struct {
	Encoding   format.Encoding
	Majority   format.Majority
	Checksum   bool
	Compressed bool
	NumRVars   int
	NumZVars   int
	NumAttrs   int
	RNumDims   int
	RDimSizes  []int32
}

// varEntry is one r- or z-variable's parsed descriptor plus a lazily built
// variable.Reader, cached so repeated reads don't reparse the VXR tree.
type varEntry struct {
	vdr    record.VDR
	reader *variable.Reader
}

// attrEntry is one attribute's parsed descriptor plus its entry chains.
type attrEntry struct {
	adr       record.ADR
	grEntries []record.AEDR // global-, r-, or z-variable scoped entries (AgrEDR chain)
	zEntries  []record.AEDR // z-variable scoped entries (AzEDR chain)
}

// Reader serves read-only queries against an already-open CDF file image.
type Reader struct {
	ctx *record.Ctx
	cdr record.CDR
	gdr record.GDR
	buf []byte // the fully inflated, uncompressed record stream, CDR onward

	varsByName map[string]*varEntry
	attrs      map[string]*attrEntry
	attrsByNum map[int32]*attrEntry
	attrOrder  []string

	// checksumErr holds a checksum mismatch detected at Open, deferred so
	// the file still opens successfully and metadata queries still work;
	// it surfaces on the first data read instead (see variableReader).
	checksumErr error

	warnings epoch.Sink
	closed   bool
}

// Open reads path fully into memory and parses it; see OpenBytes.
func Open(path string) (*Reader, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrIO, err)
	}
	return OpenBytes(raw)
}

// OpenBytes parses an in-memory CDF file image: it verifies the magic
// words and (if present) the MD5 checksum trailer, inflates a file-level
// CCR if one wraps the payload, and walks every variable and attribute
// chain so later queries are pure in-memory lookups.
func OpenBytes(raw []byte) (*Reader, error) {
	wordSize, compressedFile, err := readMagic(raw)
	if err != nil {
		return nil, err
	}

	// The CDR is always encoded big-endian regardless of the file's chosen
	// data encoding, so it can be parsed before that encoding is known.
	bootstrap := &record.Ctx{Engine: endian.GetBigEndianEngine(), WordSize: wordSize}
	cdr, next, err := record.ParseCDR(bootstrap, raw, magicLen)
	if err != nil {
		return nil, err
	}

	// A checksum mismatch does not abort Open: the file still opens and
	// metadata queries still work off the in-memory record tables. The
	// error is deferred and surfaces on the first data read instead.
	checksumErr := verifyChecksum(cdr, raw)

	ctx := ctxFor(cdr, wordSize)

	// A file-level CCR occupies the space from `next` to EOF; everything
	// after the CDR materializes as if it had never been compressed, at
	// the same absolute offsets the uncompressed layout would have used.
	buf := raw
	if compressedFile {
		ccr, _, err := record.ParseCCR(ctx, raw, next)
		if err != nil {
			return nil, err
		}
		codec, err := compress.New(format.CompressionGzip, nil)
		if err != nil {
			return nil, err
		}
		inflated, err := codec.Decompress(ccr.CData, int(ccr.USize))
		if err != nil {
			return nil, err
		}
		buf = make([]byte, 0, int(next)+len(inflated))
		buf = append(buf, raw[:next]...)
		buf = append(buf, inflated...)
	}

	gdr, _, err := record.ParseGDR(ctx, buf, cdr.GDRoffset)
	if err != nil {
		return nil, err
	}

	r := &Reader{ctx: ctx, cdr: cdr, gdr: gdr, buf: buf, checksumErr: checksumErr}
	if err := r.indexVariables(); err != nil {
		return nil, err
	}
	if err := r.indexAttributes(); err != nil {
		return nil, err
	}

	return r, nil
}

func (r *Reader) indexVariables() error {
	r.varsByName = make(map[string]*varEntry)

	walk := func(head int64, recType format.RecordType) error {
		return record.WalkChain(head, func(offset int64) (int64, error) {
			vdr, _, err := record.ParseVDR(r.ctx, r.buf, offset, recType, r.gdr.RNumDims)
			if err != nil {
				return 0, err
			}
			r.varsByName[vdr.Name] = &varEntry{vdr: vdr}
			return vdr.VDRnext, nil
		})
	}

	if err := walk(r.gdr.RVDRhead, format.RecrVDR); err != nil {
		return err
	}
	return walk(r.gdr.ZVDRhead, format.RecZVDR)
}

func (r *Reader) indexAttributes() error {
	r.attrs = make(map[string]*attrEntry)
	r.attrsByNum = make(map[int32]*attrEntry)

	return record.WalkChain(r.gdr.ADRhead, func(offset int64) (int64, error) {
		adr, _, err := record.ParseADR(r.ctx, r.buf, offset)
		if err != nil {
			return 0, err
		}

		entry := &attrEntry{adr: adr}
		if err := record.WalkChain(adr.AgrEDRhead, func(o int64) (int64, error) {
			e, _, err := record.ParseAEDR(r.ctx, r.buf, o, format.RecAgrEDR)
			if err != nil {
				return 0, err
			}
			entry.grEntries = append(entry.grEntries, e)
			return e.AEDRnext, nil
		}); err != nil {
			return 0, err
		}
		if err := record.WalkChain(adr.AzEDRhead, func(o int64) (int64, error) {
			e, _, err := record.ParseAEDR(r.ctx, r.buf, o, format.RecAzEDR)
			if err != nil {
				return 0, err
			}
			entry.zEntries = append(entry.zEntries, e)
			return e.AEDRnext, nil
		}); err != nil {
			return 0, err
		}

		r.attrs[adr.Name] = entry
		r.attrsByNum[adr.Num] = entry
		r.attrOrder = append(r.attrOrder, adr.Name)
		return adr.ADRnext, nil
	})
}

// Info returns the file's global properties.
func (r *Reader) Info() Info {
	return Info{
		Encoding:   r.cdr.Encoding,
		Majority:   r.cdr.Majority(),
		Checksum:   r.cdr.HasChecksum(),
		Compressed: r.cdr.HasFileCompression(),
		NumRVars:   int(r.gdr.NrVars),
		NumZVars:   int(r.gdr.NzVars),
		NumAttrs:   int(r.gdr.NumAttr),
		RNumDims:   int(r.gdr.RNumDims),
		RDimSizes:  r.gdr.RDimSizes,
	}
}

// Close releases the Reader. The in-memory image is simply dropped; there
// is no underlying file descriptor kept open past Open/OpenBytes.
func (r *Reader) Close() error {
	r.closed = true
	return nil
}

// Warnings returns every non-fatal condition (e.g. a TT2000 conversion past
// the leap-second table's known-good range) raised since Open.
func (r *Reader) Warnings() []epoch.Warning { return r.warnings.All() }

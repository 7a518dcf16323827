package variable

import (
	"fmt"

	"github.com/cdflib/cdf/compress"
	"github.com/cdflib/cdf/errs"
	"github.com/cdflib/cdf/format"
	"github.com/cdflib/cdf/primitive"
	"github.com/cdflib/cdf/record"
)

// Reader serves record-range reads for one variable against an
// already-resident file image (buf), using a flattened Entry index and a
// compressor resolved from the variable's CPR, if any.
type Reader struct {
	ctx   *record.Ctx
	codec *primitive.Codec
	desc  Descriptor
	index []Entry
	comp  compress.Codec
}

// NewReader builds a Reader for desc against buf. cpr is the parsed CPR if
// desc.Compressed, else may be the zero value.
func NewReader(ctx *record.Ctx, codec *primitive.Codec, buf []byte, desc Descriptor, cpr record.CPR) (*Reader, error) {
	index, err := BuildIndex(ctx, buf, desc.VXRhead)
	if err != nil {
		return nil, err
	}

	comp := compress.Codec(compress.NoopCodec{})
	if desc.Compressed {
		comp, err = compress.New(cpr.CType, cpr.CParms)
		if err != nil {
			return nil, err
		}
	}

	return &Reader{ctx: ctx, codec: codec, desc: desc, index: index, comp: comp}, nil
}

// recordStoredSize is the byte width of one record's physically stored
// element run (StoredDims elements wide).
func (r *Reader) recordStoredSize() (int, error) {
	elemSize, err := primitive.SizeOf(r.desc.DataType, int(r.desc.NumElems))
	if err != nil {
		return 0, err
	}
	return elemSize * r.desc.ElementCount(), nil
}

// ReadRecord returns the raw stored bytes (StoredDims shape, file majority,
// not yet broadcast to the full logical shape) for a single record number.
// Missing records are filled per desc.Sparseness: Pad substitutes
// desc.PadValue, Previous repeats the nearest preceding stored record
// (rec 0 falls back to Pad, since there is no preceding record), and None
// fails with errs.ErrRecordOutOfRange.
func (r *Reader) ReadRecord(buf []byte, rec int64) ([]byte, error) {
	if rec < 0 || rec > int64(r.desc.MaxRec) {
		return nil, fmt.Errorf("%w: record %d (max %d)", errs.ErrRecordOutOfRange, rec, r.desc.MaxRec)
	}

	if entry, ok := Find(r.index, rec); ok {
		return r.sliceRecord(buf, entry, rec)
	}

	switch r.desc.Sparseness {
	case format.SparsePad:
		return r.desc.PadValue, nil
	case format.SparsePrev:
		for prev := rec - 1; prev >= 0; prev-- {
			if entry, ok := Find(r.index, prev); ok {
				return r.sliceRecord(buf, entry, prev)
			}
		}
		return r.desc.PadValue, nil
	default:
		return nil, fmt.Errorf("%w: record %d not physically present and variable is not sparse", errs.ErrRecordOutOfRange, rec)
	}
}

func (r *Reader) sliceRecord(buf []byte, entry Entry, rec int64) ([]byte, error) {
	size, err := r.recordStoredSize()
	if err != nil {
		return nil, err
	}

	var payload []byte
	var usize int
	if entry.Compressed {
		cvvr, _, err := record.ParseCVVR(r.ctx, buf, entry.Offset)
		if err != nil {
			return nil, err
		}
		usize = int(cvvr.USize)
		payload, err = r.comp.Decompress(cvvr.Data, usize)
		if err != nil {
			return nil, err
		}
	} else {
		vvr, _, err := record.ParseVVR(r.ctx, buf, entry.Offset)
		if err != nil {
			return nil, err
		}
		payload = vvr.Data
	}

	idx := rec - entry.First
	start := int(idx) * size
	end := start + size
	if end > len(payload) {
		return nil, fmt.Errorf("%w: record %d exceeds segment payload", errs.ErrTruncated, rec)
	}
	return payload[start:end], nil
}

// ReadRange reads records [first, last] inclusive, one stored-shape slice
// per record.
func (r *Reader) ReadRange(buf []byte, first, last int64) ([][]byte, error) {
	if last < first {
		return nil, nil
	}
	out := make([][]byte, 0, last-first+1)
	for rec := first; rec <= last; rec++ {
		data, err := r.ReadRecord(buf, rec)
		if err != nil {
			return nil, err
		}
		out = append(out, data)
	}
	return out, nil
}

// Descriptor returns the variable's shape/storage metadata.
func (r *Reader) Descriptor() Descriptor { return r.desc }

// IsRecordPresent reports whether rec is physically stored (as opposed to
// filled in by Pad/Previous sparseness at read time).
func (r *Reader) IsRecordPresent(rec int64) bool {
	_, ok := Find(r.index, rec)
	return ok
}

package variable

import (
	"fmt"
	"sort"

	"github.com/cdflib/cdf/errs"
	"github.com/cdflib/cdf/format"
	"github.com/cdflib/cdf/record"
)

// Entry is a flattened, leaf-level VXR index entry: the inclusive record
// range [First, Last] stored contiguously at Offset, either as a VVR or a
// CVVR (Compressed distinguishes which).
type Entry struct {
	First, Last int64
	Offset      int64
	Compressed  bool
}

// BuildIndex flattens the VXR tree rooted at head into leaf entries, sorted
// by First. A VXR entry may point at another VXR (a sub-index, for
// variables with enough records to need more than one index node's worth
// of entries) rather than directly at a VVR/CVVR; BuildIndex recurses
// through those transparently.
func BuildIndex(ctx *record.Ctx, buf []byte, head int64) ([]Entry, error) {
	var entries []Entry

	var walk func(nodeHead int64) error
	walk = func(nodeHead int64) error {
		return record.WalkChain(nodeHead, func(offset int64) (int64, error) {
			vxr, _, err := record.ParseVXR(ctx, buf, offset)
			if err != nil {
				return 0, err
			}
			for i := 0; i < int(vxr.NUsed); i++ {
				childOffset := vxr.Offset[i]
				typ, err := peekType(ctx, buf, childOffset)
				if err != nil {
					return 0, err
				}
				switch typ {
				case format.RecVXR:
					if err := walk(childOffset); err != nil {
						return 0, err
					}
				case format.RecVVR:
					entries = append(entries, Entry{First: vxr.First[i], Last: vxr.Last[i], Offset: childOffset})
				case format.RecCVVR:
					entries = append(entries, Entry{First: vxr.First[i], Last: vxr.Last[i], Offset: childOffset, Compressed: true})
				default:
					return 0, fmt.Errorf("%w: VXR entry points at unexpected record type %s", errs.ErrMalformedRecordOrder, typ)
				}
			}
			return vxr.VXRnext, nil
		})
	}

	if err := walk(head); err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].First < entries[j].First })
	return entries, nil
}

func peekType(ctx *record.Ctx, buf []byte, offset int64) (format.RecordType, error) {
	hdr, err := ctx.ReadHeader(buf[offset:])
	if err != nil {
		return 0, err
	}
	return hdr.Type, nil
}

// Find returns the entry covering record rec, or false if none does (a
// sparse hole).
func Find(entries []Entry, rec int64) (Entry, bool) {
	lo, hi := 0, len(entries)-1
	for lo <= hi {
		mid := (lo + hi) / 2
		e := entries[mid]
		switch {
		case rec < e.First:
			hi = mid - 1
		case rec > e.Last:
			lo = mid + 1
		default:
			return e, true
		}
	}
	return Entry{}, false
}

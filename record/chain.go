package record

import (
	"fmt"

	"github.com/cdflib/cdf/errs"
)

// maxChainLength bounds chain walks against a corrupt file whose next
// pointers cycle back on themselves; no CDF file legitimately needs a chain
// this long (it would imply millions of variables or attributes).
const maxChainLength = 1 << 20

// WalkChain follows a singly linked record chain starting at head, calling
// visit at each offset. visit returns the next offset taken from that
// record (0 terminates the chain). WalkChain stops at the first error from
// visit, and fails with ErrMalformedRecordOrder if the chain does not
// terminate within maxChainLength hops or revisits an offset already seen.
func WalkChain(head int64, visit func(offset int64) (next int64, err error)) error {
	seen := make(map[int64]bool)
	offset := head
	for i := 0; offset != 0; i++ {
		if i >= maxChainLength {
			return fmt.Errorf("%w: chain exceeds %d records", errs.ErrMalformedRecordOrder, maxChainLength)
		}
		if seen[offset] {
			return fmt.Errorf("%w: chain revisits offset %d", errs.ErrMalformedRecordOrder, offset)
		}
		seen[offset] = true

		next, err := visit(offset)
		if err != nil {
			return err
		}
		offset = next
	}
	return nil
}

// CollectChain walks a chain and returns every offset visited, in order.
func CollectChain(head int64, nextOf func(offset int64) (int64, error)) ([]int64, error) {
	var offsets []int64
	err := WalkChain(head, func(offset int64) (int64, error) {
		offsets = append(offsets, offset)
		return nextOf(offset)
	})
	return offsets, err
}

// ChainWriter assembles a singly linked chain by emitting records one at a
// time and patching each record's next-pointer field once the following
// record's offset is known, mirroring the reserve-then-patch pattern used
// throughout the writer. Every chained record type in this package (ADR,
// AEDR, VDR, VXR) places its next-pointer as the first body field, so
// the patch location is always HeaderLen() bytes into the record.
type ChainWriter struct {
	ctx       *Ctx
	sink      *Sink
	head      int64
	prevPatch int64 // absolute offset of the previous record's next-pointer field; -1 if none yet
}

// NewChainWriter creates a ChainWriter.
func NewChainWriter(ctx *Ctx, sink *Sink) *ChainWriter {
	return &ChainWriter{ctx: ctx, sink: sink, prevPatch: -1}
}

// Append records that a record was just written at recordOffset, patching
// the previous record's next-pointer to point at it.
func (w *ChainWriter) Append(recordOffset int64) error {
	if w.head == 0 {
		w.head = recordOffset
	}
	if w.prevPatch >= 0 {
		if err := w.sink.PatchOffset(w.ctx, w.prevPatch, recordOffset); err != nil {
			return err
		}
	}
	w.prevPatch = recordOffset + int64(w.ctx.HeaderLen())
	return nil
}

// Head returns the offset of the first record appended, or 0 if none were.
func (w *ChainWriter) Head() int64 { return w.head }

package variable

import (
	"github.com/cdflib/cdf/compress"
	"github.com/cdflib/cdf/record"
)

// defaultVXREntriesPerNode is the fan-out a Writer uses for newly created
// VXR index nodes. Readers accept any fan-out a file presents (driven by
// each VXR's own NUsed/NEntries), so this is a write-side choice only: a
// small, fixed node size keeps each VXR cheap to scan, trading node width
// for chain depth as a variable accumulates more segments.
const defaultVXREntriesPerNode = 7

// Writer accumulates a variable's record data into blockingFactor-sized
// segments and emits each as a VVR (or, when the variable is compressed, a
// CVVR), then assembles the VXR index chain once every segment has been
// written.
type Writer struct {
	ctx            *record.Ctx
	recordSize     int // bytes per stored-shape record
	blockingFactor int
	compressed     bool
	comp           compress.Codec

	pending    []byte
	pendingLen int // records buffered in pending
	firstRec   int64
	haveFirst  bool

	entries []Entry
}

// NewWriter creates a Writer. recordSize is the byte width of one record's
// stored-shape element run (see Descriptor.ElementCount). When compressed
// is true, comp compresses each flushed segment into a CVVR.
func NewWriter(ctx *record.Ctx, recordSize, blockingFactor int, compressed bool, comp compress.Codec) *Writer {
	if blockingFactor < 1 {
		blockingFactor = 1
	}
	return &Writer{
		ctx:            ctx,
		recordSize:     recordSize,
		blockingFactor: blockingFactor,
		compressed:     compressed,
		comp:           comp,
	}
}

// Append buffers one record's stored-shape bytes, flushing a segment to
// sink whenever blockingFactor records have accumulated. A rec that does
// not directly follow the buffered run first flushes that run, so each
// segment covers consecutive record numbers only.
func (w *Writer) Append(sink *record.Sink, rec int64, data []byte) error {
	if w.haveFirst && rec != w.firstRec+int64(w.pendingLen) {
		if err := w.flush(sink); err != nil {
			return err
		}
	}
	if !w.haveFirst {
		w.firstRec = rec
		w.haveFirst = true
	}
	w.pending = append(w.pending, data...)
	w.pendingLen++

	if w.pendingLen >= w.blockingFactor {
		return w.flush(sink)
	}
	return nil
}

// Flush writes any partially filled segment still buffered. Call once after
// the last Append.
func (w *Writer) Flush(sink *record.Sink) error {
	if w.pendingLen == 0 {
		return nil
	}
	return w.flush(sink)
}

func (w *Writer) flush(sink *record.Sink) error {
	raw := w.pending
	last := w.firstRec + int64(w.pendingLen) - 1

	var offset int64
	compressedSegment := false
	if w.compressed {
		compressed, err := w.comp.Compress(raw)
		if err != nil {
			return err
		}
		if len(compressed) < len(raw) {
			cvvr := record.CVVR{USize: int64(len(raw)), Data: compressed}
			offset = cvvr.Emit(w.ctx, sink)
			compressedSegment = true
		}
	}
	if !compressedSegment {
		vvr := record.VVR{Data: raw}
		offset = vvr.Emit(w.ctx, sink)
	}

	w.entries = append(w.entries, Entry{First: w.firstRec, Last: last, Offset: offset, Compressed: compressedSegment})

	w.pending = nil
	w.pendingLen = 0
	w.haveFirst = false
	return nil
}

// BuildIndex assembles the VXR chain over every segment flushed so far,
// returning the head and tail offsets to store in the variable's VDR.
func (w *Writer) BuildIndex(sink *record.Sink) (head, tail int64, err error) {
	if len(w.entries) == 0 {
		return 0, 0, nil
	}

	cw := record.NewChainWriter(w.ctx, sink)
	for i := 0; i < len(w.entries); i += defaultVXREntriesPerNode {
		end := i + defaultVXREntriesPerNode
		if end > len(w.entries) {
			end = len(w.entries)
		}
		group := w.entries[i:end]

		node := record.VXR{NUsed: int32(len(group))}
		for _, e := range group {
			node.First = append(node.First, e.First)
			node.Last = append(node.Last, e.Last)
			node.Offset = append(node.Offset, e.Offset)
		}

		off := node.Emit(w.ctx, sink)
		if err := cw.Append(off); err != nil {
			return 0, 0, err
		}
		tail = off
	}

	return cw.Head(), tail, nil
}

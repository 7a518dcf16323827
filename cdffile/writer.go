package cdffile

import (
	"fmt"
	"os"
	"sort"

	"github.com/cdflib/cdf/compress"
	"github.com/cdflib/cdf/endian"
	"github.com/cdflib/cdf/epoch"
	"github.com/cdflib/cdf/errs"
	"github.com/cdflib/cdf/format"
	"github.com/cdflib/cdf/primitive"
	"github.com/cdflib/cdf/record"
	"github.com/cdflib/cdf/variable"
)

type writerState int

const (
	writerOpen writerState = iota
	writerClosed
	writerPoisoned
)

// pendingVar is one variable's definition plus its in-progress data writer,
// accumulated while the Writer is open and finalized at Close.
type pendingVar struct {
	name           string
	kind           format.VarKind
	num            int32
	dataType       format.DataType
	numElems       int32
	dimSizes       []int32
	dimVarys       []int32
	recVary        bool
	sparseness     format.Sparseness
	padValue       []byte
	blockingFactor int32
	compressed     bool
	maxRec         int64

	vw *variable.Writer
}

func (pv *pendingVar) elementCount() int {
	n := 1
	for i, size := range pv.dimSizes {
		if i < len(pv.dimVarys) && pv.dimVarys[i] == 0 {
			continue
		}
		n *= int(size)
	}
	return n
}

// pendingEntry is one not-yet-written attribute entry.
type pendingEntry struct {
	num      int32
	dataType format.DataType
	numElems int32
	value    []byte
}

// pendingAttr is one attribute's definition plus its accumulated entries.
type pendingAttr struct {
	name  string
	num   int32
	scope format.AttrScope

	grEntries []pendingEntry
	zEntries  []pendingEntry
}

// Writer assembles a new CDF file in memory, record by record, and produces
// the final image at Close. Variable data is streamed into the underlying
// Sink as PutRecord is called, flushing a VVR/CVVR segment every
// blockingFactor records; the GDR/ADR/VDR/VXR chains are only assembled once
// the full shape of the file (every variable's record count, every
// attribute's entries) is known, at Close.
type Writer struct {
	path string

	encoding       format.Encoding
	majority       format.Majority
	checksum       bool
	fileCompressed bool
	wordSize       int
	rDimSizes      []int32

	sink      *record.Sink
	cdrOffset int64
	cdrEnd    int64 // absolute offset the CCR (if any) begins at

	vars       []*pendingVar
	varByName  map[string]*pendingVar
	nextRNum   int32
	nextZNum   int32

	attrs       []*pendingAttr
	attrByName  map[string]*pendingAttr
	nextAttrNum int32

	state writerState
}

// Create opens a new Writer for path, ready to accept variable and
// attribute definitions. Nothing is written to disk until Close.
func Create(path string, opts ...Option) (*Writer, error) {
	w := &Writer{
		path:      path,
		encoding:  format.EncodingIBMPC,
		majority:  format.RowMajor,
		wordSize:  format.WordSize4,
		varByName: make(map[string]*pendingVar),
		attrByName: make(map[string]*pendingAttr),
	}
	for _, opt := range opts {
		opt(w)
	}

	w.sink = record.NewSink(magicLen)

	flags := int32(0)
	if w.majority == format.ColumnMajor {
		flags |= record.FlagMajorityColumn
	}
	if w.checksum {
		flags |= record.FlagChecksum
	}
	if w.fileCompressed {
		flags |= record.FlagCompressed
	}

	cdr := record.CDR{
		Version:   3,
		Release:   8,
		Encoding:  w.encoding,
		Flags:     flags,
		Copyright: "CDF (cdflib/cdf)",
	}
	// The CDR is written big-endian whatever the data encoding, matching
	// the bootstrap context OpenBytes parses it with.
	w.cdrOffset = cdr.Emit(&record.Ctx{Engine: endian.GetBigEndianEngine(), WordSize: w.wordSize}, w.sink)
	w.cdrEnd = w.sink.Offset()

	return w, nil
}

func (w *Writer) ctx() *record.Ctx {
	return &record.Ctx{Engine: endian.ForCDFEncoding(w.encoding), WordSize: w.wordSize}
}

func (w *Writer) checkOpen() error {
	switch w.state {
	case writerClosed:
		return errs.ErrWriterClosed
	case writerPoisoned:
		return errs.ErrWriterPoisoned
	default:
		return nil
	}
}

func (w *Writer) poison(err error) error {
	w.state = writerPoisoned
	return err
}

// DefineZVariable defines a z-variable with its own shape. dimVarys must be
// the same length as dimSizes.
func (w *Writer) DefineZVariable(name string, dataType format.DataType, numElems int32, dimSizes, dimVarys []int32, recVary bool, sparseness format.Sparseness, padValue []byte, blockingFactor int32, compressed bool) (int32, error) {
	return w.defineVariable(name, format.KindZVariable, dataType, numElems, dimSizes, dimVarys, recVary, sparseness, padValue, blockingFactor, compressed)
}

// DefineRVariable defines an r-variable; its shape is the file-wide
// dimensionality set by WithRDims, and dimVarys must be that same length.
func (w *Writer) DefineRVariable(name string, dataType format.DataType, numElems int32, dimVarys []int32, recVary bool, sparseness format.Sparseness, padValue []byte, blockingFactor int32, compressed bool) (int32, error) {
	return w.defineVariable(name, format.KindRVariable, dataType, numElems, w.rDimSizes, dimVarys, recVary, sparseness, padValue, blockingFactor, compressed)
}

func (w *Writer) defineVariable(name string, kind format.VarKind, dataType format.DataType, numElems int32, dimSizes, dimVarys []int32, recVary bool, sparseness format.Sparseness, padValue []byte, blockingFactor int32, compressed bool) (int32, error) {
	if err := w.checkOpen(); err != nil {
		return 0, err
	}
	if _, exists := w.varByName[name]; exists {
		return 0, fmt.Errorf("%w: %q", errs.ErrDuplicateVariableName, name)
	}
	if len(dimVarys) != len(dimSizes) {
		return 0, fmt.Errorf("%w: %q has %d dimensions but %d variance flags", errs.ErrInvalidDimensions, name, len(dimSizes), len(dimVarys))
	}
	if sparseness == format.SparsePad && padValue == nil {
		return 0, fmt.Errorf("%w: %q declares pad sparseness without a pad value", errs.ErrInvalidSparseness, name)
	}
	if blockingFactor < 1 {
		blockingFactor = 1
	}

	pv := &pendingVar{
		name: name, kind: kind, dataType: dataType, numElems: numElems,
		dimSizes: dimSizes, dimVarys: dimVarys, recVary: recVary,
		sparseness: sparseness, padValue: padValue,
		blockingFactor: blockingFactor, compressed: compressed, maxRec: -1,
	}
	if kind == format.KindRVariable {
		pv.num = w.nextRNum
		w.nextRNum++
	} else {
		pv.num = w.nextZNum
		w.nextZNum++
	}

	elemSize, err := primitive.SizeOf(dataType, int(numElems))
	if err != nil {
		return 0, err
	}
	recordSize := pv.elementCount() * elemSize

	var comp compress.Codec
	if compressed {
		comp, err = compress.New(format.CompressionGzip, nil)
		if err != nil {
			return 0, err
		}
	}
	pv.vw = variable.NewWriter(w.ctx(), recordSize, int(blockingFactor), compressed, comp)

	w.vars = append(w.vars, pv)
	w.varByName[name] = pv
	return pv.num, nil
}

// PutRecord encodes values as one record of variable name's declared type
// and stored shape (ElementCount values, in the variable's own majority)
// and appends it at record index rec. rec must be non-decreasing across
// calls for the same variable; sparse-record gaps are permitted and are
// served by the declared Sparseness policy at read time.
func (w *Writer) PutRecord(name string, rec int64, values []any) error {
	if err := w.checkOpen(); err != nil {
		return err
	}
	pv, ok := w.varByName[name]
	if !ok {
		return fmt.Errorf("%w: %q", errs.ErrVariableNotFound, name)
	}
	if len(values) != pv.elementCount() {
		return fmt.Errorf("%w: %q expects %d stored elements, got %d", errs.ErrInvalidDimensions, name, pv.elementCount(), len(values))
	}

	codec := primitive.NewCodec(w.ctx().Engine)
	data, err := codec.WriteArray(values, pv.dataType, int(pv.numElems))
	if err != nil {
		return w.poison(err)
	}
	if err := pv.vw.Append(w.sink, rec, data); err != nil {
		return w.poison(err)
	}
	if rec > pv.maxRec {
		pv.maxRec = rec
	}
	return nil
}

// DefineGlobalAttribute defines a file-scoped attribute.
func (w *Writer) DefineGlobalAttribute(name string) error {
	return w.defineAttribute(name, format.ScopeGlobal)
}

// DefineVariableAttribute defines a variable-scoped attribute, whose entries
// are attached per-variable via PutVarEntry.
func (w *Writer) DefineVariableAttribute(name string) error {
	return w.defineAttribute(name, format.ScopeVariable)
}

func (w *Writer) defineAttribute(name string, scope format.AttrScope) error {
	if err := w.checkOpen(); err != nil {
		return err
	}
	if _, exists := w.attrByName[name]; exists {
		return fmt.Errorf("%w: %q", errs.ErrDuplicateAttributeName, name)
	}
	pa := &pendingAttr{name: name, scope: scope, num: w.nextAttrNum}
	w.nextAttrNum++
	w.attrs = append(w.attrs, pa)
	w.attrByName[name] = pa
	return nil
}

// PutGlobalEntry appends the entryNum'th entry of a global attribute.
func (w *Writer) PutGlobalEntry(attrName string, entryNum int32, dataType format.DataType, value any) error {
	if err := w.checkOpen(); err != nil {
		return err
	}
	pa, ok := w.attrByName[attrName]
	if !ok {
		return fmt.Errorf("%w: %q", errs.ErrAttributeNotFound, attrName)
	}
	if pa.scope != format.ScopeGlobal {
		return fmt.Errorf("%w: %q is not a global attribute", errs.ErrAttributeNotFound, attrName)
	}

	numElems, raw, err := w.encodeEntryValue(dataType, value)
	if err != nil {
		return w.poison(err)
	}
	pa.grEntries = append(pa.grEntries, pendingEntry{num: entryNum, dataType: dataType, numElems: numElems, value: raw})
	return nil
}

// PutVarEntry attaches a variable attribute's entry to varName. z-variable
// entries are stored in the AzEDR chain, r-variable entries in the AgrEDR
// chain, matching how Varattsget searches them back out.
func (w *Writer) PutVarEntry(attrName, varName string, dataType format.DataType, value any) error {
	if err := w.checkOpen(); err != nil {
		return err
	}
	pa, ok := w.attrByName[attrName]
	if !ok {
		return fmt.Errorf("%w: %q", errs.ErrAttributeNotFound, attrName)
	}
	if pa.scope != format.ScopeVariable {
		return fmt.Errorf("%w: %q is not a variable attribute", errs.ErrAttributeNotFound, attrName)
	}
	pv, ok := w.varByName[varName]
	if !ok {
		return fmt.Errorf("%w: %q", errs.ErrVariableNotFound, varName)
	}

	numElems, raw, err := w.encodeEntryValue(dataType, value)
	if err != nil {
		return w.poison(err)
	}
	entry := pendingEntry{num: pv.num, dataType: dataType, numElems: numElems, value: raw}
	if pv.kind == format.KindZVariable {
		pa.zEntries = append(pa.zEntries, entry)
	} else {
		pa.grEntries = append(pa.grEntries, entry)
	}
	return nil
}

func (w *Writer) encodeEntryValue(dataType format.DataType, value any) (int32, []byte, error) {
	numElems := int32(1)
	if s, ok := value.(string); ok {
		numElems = int32(len(s))
	}
	codec := primitive.NewCodec(w.ctx().Engine)
	raw, err := codec.WriteScalar(value, dataType, int(numElems))
	if err != nil {
		return 0, nil, err
	}
	return numElems, raw, nil
}

// Close finalizes every variable's VXR index and VDR, every attribute's
// entry chains and ADR, the GDR, and (if requested) wraps the whole payload
// in a file-level CCR and appends the MD5 checksum trailer, then writes the
// result to disk. The Writer is unusable after Close, successful or not.
func (w *Writer) Close() error {
	if err := w.checkOpen(); err != nil {
		return err
	}

	ctx := w.ctx()

	rChain := record.NewChainWriter(ctx, w.sink)
	zChain := record.NewChainWriter(ctx, w.sink)
	var rMaxRec, zMaxRec int32 = -1, -1

	for _, pv := range w.vars {
		if err := pv.vw.Flush(w.sink); err != nil {
			return w.poison(err)
		}
		vxrHead, vxrTail, err := pv.vw.BuildIndex(w.sink)
		if err != nil {
			return w.poison(err)
		}

		cprOffset := int64(-1)
		if pv.compressed {
			cpr := record.CPR{CType: format.CompressionGzip, CParms: []int32{int32(compress.DefaultGzipLevel)}}
			cprOffset = cpr.Emit(ctx, w.sink)
		}

		flags := int32(0)
		if pv.recVary {
			flags |= record.VDRFlagRecVary
		}
		if pv.compressed {
			flags |= record.VDRFlagCompress
		}

		vdr := record.VDR{
			Kind: pv.kind, DataType: pv.dataType, MaxRec: int32(pv.maxRec),
			VXRhead: vxrHead, VXRtail: vxrTail, Flags: flags, SRecords: pv.sparseness,
			Num: pv.num, NumElems: pv.numElems, NumDims: int32(len(pv.dimSizes)),
			DimSizes: pv.dimSizes, DimVarys: pv.dimVarys,
			BlockingFactor: pv.blockingFactor, Name: pv.name,
			CPRorSPRoffset: cprOffset, PadValue: pv.padValue,
		}
		vdrOffset := vdr.Emit(ctx, w.sink)

		if pv.kind == format.KindRVariable {
			if err := rChain.Append(vdrOffset); err != nil {
				return w.poison(err)
			}
			if vdr.MaxRec > rMaxRec {
				rMaxRec = vdr.MaxRec
			}
		} else {
			if err := zChain.Append(vdrOffset); err != nil {
				return w.poison(err)
			}
			if vdr.MaxRec > zMaxRec {
				zMaxRec = vdr.MaxRec
			}
		}
	}

	adrChain := record.NewChainWriter(ctx, w.sink)
	for _, pa := range w.attrs {
		grChain := record.NewChainWriter(ctx, w.sink)
		for _, e := range pa.grEntries {
			aedr := record.AEDR{AttrNum: pa.num, DataType: e.dataType, Num: e.num, NumElems: e.numElems, Value: e.value}
			if err := grChain.Append(aedr.Emit(ctx, w.sink, format.RecAgrEDR)); err != nil {
				return w.poison(err)
			}
		}
		zChainAttr := record.NewChainWriter(ctx, w.sink)
		for _, e := range pa.zEntries {
			aedr := record.AEDR{AttrNum: pa.num, DataType: e.dataType, Num: e.num, NumElems: e.numElems, Value: e.value}
			if err := zChainAttr.Append(aedr.Emit(ctx, w.sink, format.RecAzEDR)); err != nil {
				return w.poison(err)
			}
		}

		adr := record.ADR{
			AgrEDRhead: grChain.Head(), Scope: pa.scope, Num: pa.num,
			NgrEntries: int32(len(pa.grEntries)), MAXgrEntry: int32(len(pa.grEntries)) - 1,
			AzEDRhead: zChainAttr.Head(), NzEntries: int32(len(pa.zEntries)),
			MAXzEntry: int32(len(pa.zEntries)) - 1, Name: pa.name,
		}
		if err := adrChain.Append(adr.Emit(ctx, w.sink)); err != nil {
			return w.poison(err)
		}
	}

	maxRec := rMaxRec
	if zMaxRec > maxRec {
		maxRec = zMaxRec
	}
	var leapSecondLastUpdated int32
	for _, pv := range w.vars {
		if pv.dataType == format.TypeTT2000 {
			leapSecondLastUpdated = epoch.DefaultTable.LastUpdated()
			break
		}
	}

	gdr := record.GDR{
		RVDRhead: rChain.Head(), ZVDRhead: zChain.Head(), ADRhead: adrChain.Head(),
		NrVars: int32(countKind(w.vars, format.KindRVariable)),
		NumAttr: int32(len(w.attrs)), RMaxRec: maxRec,
		RNumDims: int32(len(w.rDimSizes)), NzVars: int32(countKind(w.vars, format.KindZVariable)),
		RDimSizes: w.rDimSizes, LeapSecondLastUpdated: leapSecondLastUpdated,
	}
	gdrOffset := gdr.Emit(ctx, w.sink)
	gdr.EOF = w.sink.Offset()
	eofFieldOffset := gdrOffset + int64(ctx.HeaderLen()) + 3*int64(ctx.WordSize)
	if err := w.sink.PatchOffset(ctx, eofFieldOffset, gdr.EOF); err != nil {
		return w.poison(err)
	}

	cdrCtx := &record.Ctx{Engine: endian.GetBigEndianEngine(), WordSize: ctx.WordSize}
	if err := w.sink.PatchOffset(cdrCtx, w.cdrOffset+int64(cdrCtx.HeaderLen()), gdrOffset); err != nil {
		return w.poison(err)
	}

	full := w.sink.Bytes()
	cdrLocalEnd := int(w.cdrEnd - magicLen)
	cdrBytes := full[:cdrLocalEnd]
	tail := full[cdrLocalEnd:]

	out := writeMagic(w.wordSize, w.fileCompressed)
	out = append(out, cdrBytes...)
	if w.fileCompressed {
		comp, err := compress.New(format.CompressionGzip, nil)
		if err != nil {
			w.sink.Release()
			return w.poison(err)
		}
		compressed, err := comp.Compress(tail)
		if err != nil {
			w.sink.Release()
			return w.poison(err)
		}
		ccrSink := record.NewSink(w.cdrEnd)
		ccr := record.CCR{CPRoffset: -1, USize: int64(len(tail)), CData: compressed}
		ccr.Emit(ctx, ccrSink)
		out = append(out, ccrSink.Bytes()...)
		ccrSink.Release()
	} else {
		out = append(out, tail...)
	}
	w.sink.Release()

	if w.checksum {
		out = appendChecksum(out)
	}

	if err := os.WriteFile(w.path, out, 0o644); err != nil {
		return w.poison(fmt.Errorf("%w: %v", errs.ErrIO, err))
	}

	w.state = writerClosed
	return nil
}

func countKind(vars []*pendingVar, kind format.VarKind) int {
	n := 0
	for _, v := range vars {
		if v.kind == kind {
			n++
		}
	}
	return n
}

// VarNames returns the names of every variable defined so far, sorted.
func (w *Writer) VarNames() []string {
	names := make([]string, 0, len(w.varByName))
	for name := range w.varByName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package record

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cdflib/cdf/endian"
	"github.com/cdflib/cdf/format"
)

func testCtx() *Ctx {
	return &Ctx{Engine: endian.GetLittleEndianEngine(), WordSize: format.WordSize8}
}

func TestCDRRoundTrip(t *testing.T) {
	ctx := testCtx()
	sink := NewSink(0)
	defer sink.Release()

	want := CDR{
		GDRoffset: 2048,
		Version:   3,
		Release:   9,
		Encoding:  format.EncodingIBMPC,
		Flags:     FlagChecksum,
		Increment: 0,
		Copyright: "example copyright",
	}
	off := want.Emit(ctx, sink)
	require.Zero(t, off)

	got, next, err := ParseCDR(ctx, sink.Bytes(), off)
	require.NoError(t, err)
	require.Equal(t, want.GDRoffset, got.GDRoffset)
	require.Equal(t, want.Version, got.Version)
	require.Equal(t, want.Encoding, got.Encoding)
	require.Equal(t, want.Copyright, got.Copyright)
	require.True(t, got.HasChecksum())
	require.Equal(t, format.RowMajor, got.Majority())
	require.Equal(t, int64(len(sink.Bytes())), next)
}

func TestCDRRejectsOldVersion(t *testing.T) {
	ctx := testCtx()
	sink := NewSink(0)
	defer sink.Release()

	old := CDR{Version: 2, Release: 7}
	old.Emit(ctx, sink)

	_, _, err := ParseCDR(ctx, sink.Bytes(), 0)
	require.Error(t, err)
}

func TestGDRRoundTrip(t *testing.T) {
	ctx := testCtx()
	sink := NewSink(0)
	defer sink.Release()

	want := GDR{
		RVDRhead:  0,
		ZVDRhead:  4096,
		ADRhead:   8192,
		EOF:       65536,
		NrVars:    0,
		NumAttr:   2,
		NzVars:    3,
		RDimSizes: []int32{4, 8},
	}
	want.RNumDims = int32(len(want.RDimSizes))
	want.Emit(ctx, sink)

	got, _, err := ParseGDR(ctx, sink.Bytes(), 0)
	require.NoError(t, err)
	require.Equal(t, want.ZVDRhead, got.ZVDRhead)
	require.Equal(t, want.NzVars, got.NzVars)
	require.Equal(t, want.RDimSizes, got.RDimSizes)
}

func TestADRAndAEDRRoundTrip(t *testing.T) {
	ctx := testCtx()
	sink := NewSink(0)
	defer sink.Release()

	adr := ADR{
		Scope:      format.ScopeVariable,
		Num:        1,
		Name:       "FIELDNAM",
		NgrEntries: 1,
		MAXgrEntry: 0,
	}
	adrOff := adr.Emit(ctx, sink)

	gotADR, _, err := ParseADR(ctx, sink.Bytes(), adrOff)
	require.NoError(t, err)
	require.Equal(t, "FIELDNAM", gotADR.Name)
	require.Equal(t, format.ScopeVariable, gotADR.Scope)

	entry := AEDR{
		AttrNum:  1,
		DataType: format.TypeChar,
		Num:      0,
		NumElems: 5,
		Value:    []byte("Bx   "),
	}
	entryOff := entry.Emit(ctx, sink, format.RecAgrEDR)

	gotEntry, _, err := ParseAEDR(ctx, sink.Bytes(), entryOff, format.RecAgrEDR)
	require.NoError(t, err)
	require.Equal(t, entry.Value, gotEntry.Value)
	require.Equal(t, format.TypeChar, gotEntry.DataType)
}

func TestVDRRoundTripZVariable(t *testing.T) {
	ctx := testCtx()
	sink := NewSink(0)
	defer sink.Release()

	want := VDR{
		Kind:           format.KindZVariable,
		DataType:       format.TypeDouble,
		MaxRec:         99,
		Flags:          VDRFlagRecVary,
		SRecords:       format.SparseNone,
		Num:            0,
		NumElems:       1,
		Name:           "Epoch",
		CPRorSPRoffset: -1,
		BlockingFactor: 32,
		DimSizes:       []int32{3},
		DimVarys:       []int32{1},
	}
	off := want.Emit(ctx, sink)

	got, _, err := ParseVDR(ctx, sink.Bytes(), off, format.RecZVDR, 0)
	require.NoError(t, err)
	require.Equal(t, want.Name, got.Name)
	require.Equal(t, want.DataType, got.DataType)
	require.Equal(t, want.DimSizes, got.DimSizes)
	require.Equal(t, want.DimVarys, got.DimVarys)
	require.True(t, got.HasRecVary())
	require.False(t, got.IsCompressed())
}

func TestVDRRoundTripWithPadValue(t *testing.T) {
	ctx := testCtx()
	sink := NewSink(0)
	defer sink.Release()

	want := VDR{
		Kind:     format.KindZVariable,
		DataType: format.TypeInt4,
		SRecords: format.SparsePad,
		NumElems: 1,
		Name:     "flag",
		DimSizes: nil,
		DimVarys: nil,
		PadValue: []byte{0xFF, 0xFF, 0xFF, 0xFF},
	}
	off := want.Emit(ctx, sink)

	got, _, err := ParseVDR(ctx, sink.Bytes(), off, format.RecZVDR, 0)
	require.NoError(t, err)
	require.Equal(t, want.PadValue, got.PadValue)
}

func TestVXRRoundTrip(t *testing.T) {
	ctx := testCtx()
	sink := NewSink(0)
	defer sink.Release()

	want := VXR{
		NUsed:  2,
		First:  []int64{0, 10},
		Last:   []int64{9, 19},
		Offset: []int64{1000, 2000},
	}
	off := want.Emit(ctx, sink)

	got, _, err := ParseVXR(ctx, sink.Bytes(), off)
	require.NoError(t, err)
	require.Equal(t, want.First, got.First)
	require.Equal(t, want.Last, got.Last)
	require.Equal(t, want.Offset, got.Offset)
}

func TestVVRRoundTrip(t *testing.T) {
	ctx := testCtx()
	sink := NewSink(0)
	defer sink.Release()

	want := VVR{Data: []byte("some raw variable data")}
	off := want.Emit(ctx, sink)

	got, next, err := ParseVVR(ctx, sink.Bytes(), off)
	require.NoError(t, err)
	require.Equal(t, want.Data, got.Data)
	require.Equal(t, int64(len(sink.Bytes())), next)
}

func TestCVVRRoundTrip(t *testing.T) {
	ctx := testCtx()
	sink := NewSink(0)
	defer sink.Release()

	want := CVVR{USize: 1024, Data: []byte{1, 2, 3, 4, 5}}
	off := want.Emit(ctx, sink)

	got, _, err := ParseCVVR(ctx, sink.Bytes(), off)
	require.NoError(t, err)
	require.Equal(t, want.USize, got.USize)
	require.Equal(t, want.Data, got.Data)
}

func TestCPRRoundTrip(t *testing.T) {
	ctx := testCtx()
	sink := NewSink(0)
	defer sink.Release()

	want := CPR{CType: format.CompressionGzip, CParms: []int32{6}}
	off := want.Emit(ctx, sink)

	got, _, err := ParseCPR(ctx, sink.Bytes(), off)
	require.NoError(t, err)
	require.Equal(t, want.CType, got.CType)
	require.Equal(t, want.CParms, got.CParms)
}

func TestUIREmitRespectsSize(t *testing.T) {
	ctx := testCtx()
	sink := NewSink(0)
	defer sink.Release()

	u := UIR{NextUIR: 0, PrevUIR: 0}
	off := u.Emit(ctx, sink, 64)

	got, next, err := ParseUIR(ctx, sink.Bytes(), off)
	require.NoError(t, err)
	require.Len(t, got.Unused, 64-ctx.HeaderLen()-2*ctx.WordSize)
	require.Equal(t, int64(64), next)
}

func TestCCRRoundTrip(t *testing.T) {
	ctx := testCtx()
	sink := NewSink(0)
	defer sink.Release()

	want := CCR{CPRoffset: 512, USize: 4096, CData: []byte{9, 9, 9}}
	off := want.Emit(ctx, sink)

	got, _, err := ParseCCR(ctx, sink.Bytes(), off)
	require.NoError(t, err)
	require.Equal(t, want.CPRoffset, got.CPRoffset)
	require.Equal(t, want.USize, got.USize)
	require.Equal(t, want.CData, got.CData)
}

func TestWalkChainDetectsCycle(t *testing.T) {
	err := WalkChain(8, func(offset int64) (int64, error) {
		return 8, nil
	})
	require.Error(t, err)
}

func TestWalkChainTerminates(t *testing.T) {
	visited := 0
	chain := []int64{8, 16, 24, 0}
	err := WalkChain(chain[0], func(offset int64) (int64, error) {
		visited++
		idx := visited
		return chain[idx], nil
	})
	require.NoError(t, err)
	require.Equal(t, 3, visited)
}

func TestChainWriterPatchesNext(t *testing.T) {
	ctx := testCtx()
	sink := NewSink(0)
	defer sink.Release()

	cw := NewChainWriter(ctx, sink)
	a := ADR{Name: "A"}
	off1 := a.Emit(ctx, sink)
	require.NoError(t, cw.Append(off1))

	b := ADR{Name: "B"}
	off2 := b.Emit(ctx, sink)
	require.NoError(t, cw.Append(off2))

	require.Equal(t, off1, cw.Head())

	gotA, _, err := ParseADR(ctx, sink.Bytes(), off1)
	require.NoError(t, err)
	require.Equal(t, off2, gotA.ADRnext)
}

package cdffile

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cdflib/cdf/epoch"
	"github.com/cdflib/cdf/format"
	"github.com/cdflib/cdf/primitive"
)

func TestWriterReaderRoundTripUncompressed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "density.cdf")

	w, err := Create(path, WithEncoding(format.EncodingIBMPC), WithChecksum(true))
	require.NoError(t, err)

	_, err = w.DefineZVariable("Density", format.TypeDouble, 1, nil, nil, true, format.SparseNone, nil, 2, false)
	require.NoError(t, err)

	require.NoError(t, w.DefineGlobalAttribute("Project"))
	require.NoError(t, w.PutGlobalEntry("Project", 0, format.TypeChar, "ionosphere survey"))

	require.NoError(t, w.DefineVariableAttribute("FIELDNAM"))
	require.NoError(t, w.PutVarEntry("FIELDNAM", "Density", format.TypeChar, "electron density"))

	values := []float64{1.5, 2.5, 3.25, 4.125, 5.0}
	for i, v := range values {
		require.NoError(t, w.PutRecord("Density", int64(i), []any{v}))
	}

	require.NoError(t, w.Close())
	require.Error(t, w.Close())
}

func TestWriterClosedStateRejectsFurtherWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "closed.cdf")
	w, err := Create(path)
	require.NoError(t, err)
	_, err = w.DefineZVariable("X", format.TypeInt4, 1, nil, nil, true, format.SparseNone, nil, 1, false)
	require.NoError(t, err)
	require.NoError(t, w.PutRecord("X", 0, []any{int64(1)}))
	require.NoError(t, w.Close())

	err = w.PutRecord("X", 1, []any{int64(2)})
	require.Error(t, err)
}

func TestWriterReaderRoundTripReadBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "readback.cdf")

	w, err := Create(path, WithEncoding(format.EncodingIBMPC), WithChecksum(true))
	require.NoError(t, err)

	_, err = w.DefineZVariable("Density", format.TypeDouble, 1, nil, nil, true, format.SparseNone, nil, 2, false)
	require.NoError(t, err)
	require.NoError(t, w.DefineGlobalAttribute("Project"))
	require.NoError(t, w.PutGlobalEntry("Project", 0, format.TypeChar, "ionosphere survey"))
	require.NoError(t, w.DefineVariableAttribute("FIELDNAM"))
	require.NoError(t, w.PutVarEntry("FIELDNAM", "Density", format.TypeChar, "electron density"))

	values := []float64{1.5, 2.5, 3.25, 4.125, 5.0}
	for i, v := range values {
		require.NoError(t, w.PutRecord("Density", int64(i), []any{v}))
	}
	require.NoError(t, w.Close())

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	info := r.Info()
	require.True(t, info.Checksum)
	require.Equal(t, format.EncodingIBMPC, info.Encoding)
	require.Equal(t, 1, info.NumZVars)

	inq, err := r.Varinq("Density")
	require.NoError(t, err)
	require.Equal(t, format.TypeDouble, inq.DataType)
	require.True(t, inq.RecVary)

	codec := primitive.NewCodec(r.ctx.Engine)
	for i, want := range values {
		raw, err := r.GetRecord("Density", int64(i))
		require.NoError(t, err)
		got, err := codec.ReadScalar(raw, format.TypeDouble, 1)
		require.NoError(t, err)
		require.InDelta(t, want, got.(float64), 1e-9)
	}

	globals, err := r.Globalattsget("Project")
	require.NoError(t, err)
	require.Len(t, globals, 1)
	require.Equal(t, "ionosphere survey", globals[0].Value)

	varAttrs, err := r.Varattsget("FIELDNAM", "Density")
	require.NoError(t, err)
	require.Len(t, varAttrs, 1)
	require.Equal(t, "electron density", varAttrs[0].Value)
}

func TestWriterReaderRoundTripCompressedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compressed.cdf")

	w, err := Create(path, WithFileCompression(true))
	require.NoError(t, err)
	_, err = w.DefineZVariable("Flux", format.TypeInt4, 1, nil, nil, true, format.SparseNone, nil, 3, true)
	require.NoError(t, err)

	for i := int64(0); i < 10; i++ {
		require.NoError(t, w.PutRecord("Flux", i, []any{int64(i * 10)}))
	}
	require.NoError(t, w.Close())

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	require.True(t, r.Info().Compressed)
	codec := primitive.NewCodec(r.ctx.Engine)
	for i := int64(0); i < 10; i++ {
		raw, err := r.GetRecord("Flux", i)
		require.NoError(t, err)
		got, err := codec.ReadScalar(raw, format.TypeInt4, 1)
		require.NoError(t, err)
		require.EqualValues(t, i*10, got)
	}
}

func TestDefineVariableRejectsDuplicateName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dup.cdf")
	w, err := Create(path)
	require.NoError(t, err)
	_, err = w.DefineZVariable("X", format.TypeInt4, 1, nil, nil, true, format.SparseNone, nil, 1, false)
	require.NoError(t, err)
	_, err = w.DefineZVariable("X", format.TypeInt4, 1, nil, nil, true, format.SparseNone, nil, 1, false)
	require.Error(t, err)
}

func TestEpochrangeAndVargetResolveTimeRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "epochrange.cdf")

	w, err := Create(path)
	require.NoError(t, err)

	_, err = w.DefineZVariable("Epoch", format.TypeTT2000, 1, nil, nil, true, format.SparseNone, nil, 1, false)
	require.NoError(t, err)
	_, err = w.DefineZVariable("Density", format.TypeDouble, 1, nil, nil, true, format.SparseNone, nil, 1, false)
	require.NoError(t, err)

	require.NoError(t, w.DefineVariableAttribute("DEPEND_0"))
	require.NoError(t, w.PutVarEntry("DEPEND_0", "Density", format.TypeChar, "Epoch"))

	base := time.Date(2018, time.June, 1, 0, 0, 0, 0, time.UTC)
	table := epoch.NewTable()
	for i := 0; i < 5; i++ {
		tt, warn := epoch.FromTimeTT2000(base.Add(time.Duration(i)*time.Hour), table)
		require.Nil(t, warn)
		require.NoError(t, w.PutRecord("Epoch", int64(i), []any{int64(tt)}))
		require.NoError(t, w.PutRecord("Density", int64(i), []any{float64(i)}))
	}
	require.NoError(t, w.Close())

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	start := base.Add(1 * time.Hour)
	end := base.Add(3 * time.Hour)
	first, last, ok, err := r.Epochrange("Density", start, end)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(1), first)
	require.Equal(t, int64(3), last)

	result, err := r.Varget("Density", VargetOptions{Start: &start, End: &end})
	require.NoError(t, err)
	require.Equal(t, int64(3), result.RecordsReturned)
	require.Equal(t, int64(5), result.NumRecords)
	require.Len(t, result.RealRecords, 3)
	require.Equal(t, format.TypeDouble, result.DataType)

	whole, err := r.Varget("Density", VargetOptions{FirstRec: -1, LastRec: -1})
	require.NoError(t, err)
	require.Equal(t, int64(5), whole.RecordsReturned)
}

func TestAttinqAndAttget(t *testing.T) {
	path := filepath.Join(t.TempDir(), "attinq.cdf")

	w, err := Create(path)
	require.NoError(t, err)
	_, err = w.DefineZVariable("X", format.TypeInt4, 1, nil, nil, true, format.SparseNone, nil, 1, false)
	require.NoError(t, err)
	require.NoError(t, w.DefineVariableAttribute("FIELDNAM"))
	require.NoError(t, w.PutVarEntry("FIELDNAM", "X", format.TypeChar, "sample variable"))
	require.NoError(t, w.Close())

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	inq, err := r.Attinq("FIELDNAM")
	require.NoError(t, err)
	require.Equal(t, "FIELDNAM", inq.Name)
	require.Equal(t, format.ScopeVariable, inq.Scope)

	byNum, err := r.AttinqNum(inq.Number)
	require.NoError(t, err)
	require.Equal(t, inq.Name, byNum.Name)

	vi, err := r.Varinq("X")
	require.NoError(t, err)
	entry, err := r.Attget("FIELDNAM", vi.Number)
	require.NoError(t, err)
	require.Equal(t, "sample variable", entry.Value)
}

func TestDefinePadVariableRequiresPadValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pad.cdf")
	w, err := Create(path)
	require.NoError(t, err)
	_, err = w.DefineZVariable("X", format.TypeInt4, 1, nil, nil, true, format.SparsePad, nil, 1, false)
	require.Error(t, err)
}

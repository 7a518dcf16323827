package variable

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cdflib/cdf/compress"
	"github.com/cdflib/cdf/endian"
	"github.com/cdflib/cdf/format"
	"github.com/cdflib/cdf/record"
)

func testCtx() *record.Ctx {
	return &record.Ctx{Engine: endian.GetLittleEndianEngine(), WordSize: format.WordSize8}
}

func TestWriterReaderRoundTripUncompressed(t *testing.T) {
	ctx := testCtx()
	sink := record.NewSink(0)
	defer sink.Release()

	w := NewWriter(ctx, 8, 4, false, compress.NoopCodec{})
	for i := int64(0); i < 10; i++ {
		data := make([]byte, 8)
		data[0] = byte(i)
		require.NoError(t, w.Append(sink, i, data))
	}
	require.NoError(t, w.Flush(sink))

	head, _, err := w.BuildIndex(sink)
	require.NoError(t, err)
	require.NotZero(t, head)

	desc := Descriptor{
		DataType: format.TypeDouble,
		NumElems: 1,
		MaxRec:   9,
		VXRhead:  head,
	}
	reader, err := NewReader(ctx, nil, sink.Bytes(), desc, record.CPR{})
	require.NoError(t, err)

	for i := int64(0); i < 10; i++ {
		got, err := reader.ReadRecord(sink.Bytes(), i)
		require.NoError(t, err)
		require.Equal(t, byte(i), got[0])
	}
}

func TestWriterReaderRoundTripCompressed(t *testing.T) {
	ctx := testCtx()
	sink := record.NewSink(0)
	defer sink.Release()

	comp := compress.NewGzipCodec(6)
	w := NewWriter(ctx, 8, 100, true, comp)
	for i := int64(0); i < 50; i++ {
		data := make([]byte, 8)
		data[0] = byte(i)
		require.NoError(t, w.Append(sink, i, data))
	}
	require.NoError(t, w.Flush(sink))
	head, _, err := w.BuildIndex(sink)
	require.NoError(t, err)

	desc := Descriptor{
		DataType:   format.TypeDouble,
		NumElems:   1,
		MaxRec:     49,
		Compressed: true,
		VXRhead:    head,
	}
	reader, err := NewReader(ctx, nil, sink.Bytes(), desc, record.CPR{CType: format.CompressionGzip, CParms: []int32{6}})
	require.NoError(t, err)

	got, err := reader.ReadRecord(sink.Bytes(), 25)
	require.NoError(t, err)
	require.Equal(t, byte(25), got[0])
}

func TestReaderSparsePadFill(t *testing.T) {
	ctx := testCtx()
	sink := record.NewSink(0)
	defer sink.Release()

	w := NewWriter(ctx, 4, 1, false, compress.NoopCodec{})
	require.NoError(t, w.Append(sink, 0, []byte{1, 1, 1, 1}))
	require.NoError(t, w.Append(sink, 5, []byte{9, 9, 9, 9}))
	require.NoError(t, w.Flush(sink))
	head, _, err := w.BuildIndex(sink)
	require.NoError(t, err)

	desc := Descriptor{
		DataType:   format.TypeInt4,
		NumElems:   1,
		MaxRec:     5,
		Sparseness: format.SparsePad,
		PadValue:   []byte{0, 0, 0, 0},
		VXRhead:    head,
	}
	reader, err := NewReader(ctx, nil, sink.Bytes(), desc, record.CPR{})
	require.NoError(t, err)

	got, err := reader.ReadRecord(sink.Bytes(), 3)
	require.NoError(t, err)
	require.Equal(t, desc.PadValue, got)
}

func TestReaderSparsePreviousFill(t *testing.T) {
	ctx := testCtx()
	sink := record.NewSink(0)
	defer sink.Release()

	w := NewWriter(ctx, 4, 1, false, compress.NoopCodec{})
	require.NoError(t, w.Append(sink, 0, []byte{7, 7, 7, 7}))
	require.NoError(t, w.Flush(sink))
	head, _, err := w.BuildIndex(sink)
	require.NoError(t, err)

	desc := Descriptor{
		DataType:   format.TypeInt4,
		NumElems:   1,
		MaxRec:     3,
		Sparseness: format.SparsePrev,
		VXRhead:    head,
	}
	reader, err := NewReader(ctx, nil, sink.Bytes(), desc, record.CPR{})
	require.NoError(t, err)

	got, err := reader.ReadRecord(sink.Bytes(), 2)
	require.NoError(t, err)
	require.Equal(t, []byte{7, 7, 7, 7}, got)
}

func TestReaderNoneSparsenessErrorsOnHole(t *testing.T) {
	ctx := testCtx()
	sink := record.NewSink(0)
	defer sink.Release()

	w := NewWriter(ctx, 4, 1, false, compress.NoopCodec{})
	require.NoError(t, w.Append(sink, 0, []byte{1, 2, 3, 4}))
	require.NoError(t, w.Append(sink, 2, []byte{5, 6, 7, 8}))
	require.NoError(t, w.Flush(sink))
	head, _, err := w.BuildIndex(sink)
	require.NoError(t, err)

	desc := Descriptor{DataType: format.TypeInt4, NumElems: 1, MaxRec: 2, VXRhead: head}
	reader, err := NewReader(ctx, nil, sink.Bytes(), desc, record.CPR{})
	require.NoError(t, err)

	_, err = reader.ReadRecord(sink.Bytes(), 1)
	require.Error(t, err)
}

func TestTransposeRowToColumnMajor2D(t *testing.T) {
	// Row-major [[1,2,3],[4,5,6]] (dims 2x3) -> column-major layout.
	data := []byte{1, 2, 3, 4, 5, 6}
	dims := []int32{2, 3}

	got := Transpose(data, 1, dims, format.RowMajor, format.ColumnMajor)
	// Column-major storage order for a 2x3 matrix: col0=(1,4), col1=(2,5), col2=(3,6)
	require.Equal(t, []byte{1, 4, 2, 5, 3, 6}, got)

	back := Transpose(got, 1, dims, format.ColumnMajor, format.RowMajor)
	require.Equal(t, data, back)
}

func TestTransposeNoopOnSameMajority(t *testing.T) {
	data := []byte{1, 2, 3, 4}
	got := Transpose(data, 1, []int32{2, 2}, format.RowMajor, format.RowMajor)
	require.Equal(t, data, got)
}

func TestResolveRange(t *testing.T) {
	ts := NewTimeSeries([]float64{0, 10, 20, 30, 40})

	first, last, ok := ResolveRange(ts, 15, 35)
	require.True(t, ok)
	require.Equal(t, 2, first)
	require.Equal(t, 3, last)

	_, _, ok = ResolveRange(ts, 100, 200)
	require.False(t, ok)
}

func TestDescriptorStoredDimsBroadcast(t *testing.T) {
	d := Descriptor{DimSizes: []int32{3, 4}, DimVarys: []int32{1, 0}}
	require.Equal(t, []int32{3}, d.StoredDims())
	require.Equal(t, 3, d.ElementCount())
	require.Equal(t, 12, d.FullElementCount())
}

package compress

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cdflib/cdf/format"
)

func TestGzipRoundTrip(t *testing.T) {
	codec := NewGzipCodec(defaultGzipLevel)
	original := bytes64KPattern()

	compressed, err := codec.Compress(original)
	require.NoError(t, err)
	require.Less(t, len(compressed), len(original))

	got, err := codec.Decompress(compressed, len(original))
	require.NoError(t, err)
	require.Equal(t, original, got)
}

func TestGzipRoundTripUnknownSize(t *testing.T) {
	codec := NewGzipCodec(defaultGzipLevel)
	original := []byte("a short payload that still compresses fine")

	compressed, err := codec.Compress(original)
	require.NoError(t, err)

	got, err := codec.Decompress(compressed, 0)
	require.NoError(t, err)
	require.Equal(t, original, got)
}

func TestNoopCodec(t *testing.T) {
	codec := NoopCodec{}
	data := []byte{1, 2, 3}

	compressed, err := codec.Compress(data)
	require.NoError(t, err)
	require.Equal(t, data, compressed)

	got, err := codec.Decompress(compressed, len(data))
	require.NoError(t, err)
	require.Equal(t, data, got)
}

func TestNewRejectsUnsupported(t *testing.T) {
	_, err := New(format.Compression(99), nil)
	require.Error(t, err)
}

func TestNewDispatchesGzipAndNone(t *testing.T) {
	c, err := New(format.CompressionNone, nil)
	require.NoError(t, err)
	require.IsType(t, NoopCodec{}, c)

	c, err = New(format.CompressionGzip, []int32{9})
	require.NoError(t, err)
	require.IsType(t, &GzipCodec{}, c)
}

func bytes64KPattern() []byte {
	out := make([]byte, 64*1024)
	for i := range out {
		out[i] = byte(i % 17)
	}
	return out
}

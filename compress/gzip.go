package compress

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/gzip"

	"github.com/cdflib/cdf/errs"
)

const defaultGzipLevel = gzip.DefaultCompression

// DefaultGzipLevel is the deflate level New chooses when a CPR/CCR omits
// the level parameter.
const DefaultGzipLevel = defaultGzipLevel

// GzipCodec compresses and decompresses CVVR/CCR payloads with GZIP, the
// only algorithm CDF v3's CPR record type enumerates. Writers are pooled
// per compression level since gzip.NewWriterLevel is not cheap to construct
// repeatedly on a file with many variables.
type GzipCodec struct {
	level      int
	writerPool *sync.Pool
}

var _ Codec = (*GzipCodec)(nil)

// NewGzipCodec creates a GzipCodec at the given deflate level (1-9, or
// gzip.DefaultCompression).
func NewGzipCodec(level int) *GzipCodec {
	return &GzipCodec{
		level: level,
		writerPool: &sync.Pool{
			New: func() any {
				w, _ := gzip.NewWriterLevel(io.Discard, level)
				return w
			},
		},
	}
}

// Compress deflates data at the codec's configured level.
func (c *GzipCodec) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := c.writerPool.Get().(*gzip.Writer)
	defer c.writerPool.Put(w)
	w.Reset(&buf)

	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrCompressionFailed, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrCompressionFailed, err)
	}
	return buf.Bytes(), nil
}

// Decompress inflates data, preallocating the output buffer to usize bytes
// when usize is known (usize <= 0 falls back to growing the buffer).
func (c *GzipCodec) Decompress(data []byte, usize int) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrCompressionFailed, err)
	}
	defer r.Close()

	var out bytes.Buffer
	if usize > 0 {
		out.Grow(usize)
	}
	if _, err := io.Copy(&out, r); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrCompressionFailed, err)
	}
	return out.Bytes(), nil
}

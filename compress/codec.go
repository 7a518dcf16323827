// Package compress implements the one data-compression algorithm CDF v3
// defines for variable and file payloads: GZIP. It keeps the
// Compressor/Decompressor/Codec interface split the rest of this module's
// ancestry uses for pluggable algorithms, narrowed to the two
// implementations CDF actually needs: Gzip and a pass-through no-op used
// when a variable or file declares format.CompressionNone.
package compress

import (
	"fmt"

	"github.com/cdflib/cdf/errs"
	"github.com/cdflib/cdf/format"
)

// Compressor compresses a single payload (a run of variable values, or the
// whole post-CDR file image for a file-level CCR).
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor decompresses a single payload produced by a Compressor.
// usize is the uncompressed size recorded alongside the payload (in the
// CVVR or CCR), used to preallocate the output buffer exactly.
type Decompressor interface {
	Decompress(data []byte, usize int) ([]byte, error)
}

// Codec combines both directions.
type Codec interface {
	Compressor
	Decompressor
}

// New returns the Codec for the given CPR/CCR compression type and
// deflate-level parameter list (CParms[0], ignored for types that take no
// parameter). It returns errs.ErrUnsupportedCompression for anything but
// None and Gzip, since those are the only two CDF v3 defines.
func New(ctype format.Compression, cparms []int32) (Codec, error) {
	switch ctype {
	case format.CompressionNone:
		return NoopCodec{}, nil
	case format.CompressionGzip:
		level := defaultGzipLevel
		if len(cparms) > 0 {
			level = int(cparms[0])
		}
		return NewGzipCodec(level), nil
	default:
		return nil, fmt.Errorf("%w: compression type %d", errs.ErrUnsupportedCompression, ctype)
	}
}

package cdffile

import "github.com/cdflib/cdf/format"

// Option configures a Writer at Create time, following the functional
// options pattern used throughout this module's ancestry for encoder/codec
// construction.
type Option func(*Writer)

// WithEncoding sets the file's data encoding (byte order). Defaults to
// format.EncodingIBMPC (little-endian), the common case for files written
// on and read back by the same machine.
func WithEncoding(enc format.Encoding) Option {
	return func(w *Writer) { w.encoding = enc }
}

// WithMajority sets the file's record majority. Defaults to format.RowMajor.
func WithMajority(maj format.Majority) Option {
	return func(w *Writer) { w.majority = maj }
}

// WithChecksum enables the trailing MD5 checksum.
func WithChecksum(enabled bool) Option {
	return func(w *Writer) { w.checksum = enabled }
}

// WithFileCompression wraps the whole post-CDR payload in a single
// file-level CCR at Close.
func WithFileCompression(enabled bool) Option {
	return func(w *Writer) { w.fileCompressed = enabled }
}

// WithLargeFile selects the 8-byte offset/size record layout. Defaults to
// the classic 4-byte layout.
func WithLargeFile(enabled bool) Option {
	return func(w *Writer) {
		if enabled {
			w.wordSize = format.WordSize8
		} else {
			w.wordSize = format.WordSize4
		}
	}
}

// WithRDims sets the file-wide r-variable dimensionality. Call before
// defining any r-variable; r-variables all share this shape.
func WithRDims(dimSizes []int32) Option {
	return func(w *Writer) { w.rDimSizes = dimSizes }
}

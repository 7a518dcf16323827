// Package cdf is a reader and writer for version 3 of NASA's Common Data
// Format (CDF): a self-describing binary container for typed, named,
// record-indexed variables and their attributes, built to the same wire
// layout CDF's own reference library uses so files produced here open in
// any CDF-compliant tool, and vice versa.
//
// Open and Create are the two entry points; everything else lives on the
// *cdffile.Reader / *cdffile.Writer they return.
package cdf

import "github.com/cdflib/cdf/cdffile"

// Reader serves read-only queries against an open CDF file.
type Reader = cdffile.Reader

// Writer assembles a new CDF file.
type Writer = cdffile.Writer

// Option configures a Writer at Create time.
type Option = cdffile.Option

// Info summarizes a CDF file's global properties.
type Info = cdffile.Info

// VarInq is the metadata returned for one variable by Varinq.
type VarInq = cdffile.VarInq

// AttrEntry is one decoded attribute entry value.
type AttrEntry = cdffile.AttrEntry

// AttrInq is the metadata returned for one attribute by Attinq.
type AttrInq = cdffile.AttrInq

// VargetOptions selects which records Varget returns.
type VargetOptions = cdffile.VargetOptions

// VargetResult is the combined shape/data/coverage answer to a Varget call.
type VargetResult = cdffile.VargetResult

// Re-exported Option constructors, so callers need only import this package.
var (
	WithEncoding        = cdffile.WithEncoding
	WithMajority        = cdffile.WithMajority
	WithChecksum        = cdffile.WithChecksum
	WithFileCompression = cdffile.WithFileCompression
	WithLargeFile       = cdffile.WithLargeFile
	WithRDims           = cdffile.WithRDims
)

// Open reads path fully into memory and parses it as a CDF version 3 file.
func Open(path string) (*Reader, error) {
	return cdffile.Open(path)
}

// OpenBytes parses an in-memory CDF version 3 file image.
func OpenBytes(raw []byte) (*Reader, error) {
	return cdffile.OpenBytes(raw)
}

// Create opens a new Writer for path, ready to accept variable and
// attribute definitions. Nothing is written to disk until Writer.Close.
func Create(path string, opts ...Option) (*Writer, error) {
	return cdffile.Create(path, opts...)
}

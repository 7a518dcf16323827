// Package errs collects the sentinel errors returned by the cdf module.
//
// Every distinct failure mode the module can report is represented by
// exactly one sentinel value here; callers match with errors.Is and call
// sites attach context (offsets, names, record kinds) by wrapping with
// fmt.Errorf's %w.
package errs

import "errors"

// Malformed: magic, version, or record-header inconsistency. Raised eagerly.
var (
	ErrMalformedMagic       = errors.New("cdf: bad magic number")
	ErrMalformedVersion     = errors.New("cdf: unsupported or malformed version")
	ErrMalformedRecordSize  = errors.New("cdf: record size inconsistent with record type")
	ErrMalformedRecordOrder = errors.New("cdf: record chain is inconsistent")
	ErrMalformedTimeString  = errors.New("cdf: time string does not match either epoch grammar")
	ErrTruncated            = errors.New("cdf: file image is truncated")
)

// Unsupported: encoding, data type, or record kind not implemented.
var (
	ErrUnsupportedEncoding     = errors.New("cdf: unsupported encoding code")
	ErrUnsupportedDataType     = errors.New("cdf: unsupported data type code")
	ErrUnsupportedRecordType   = errors.New("cdf: unsupported record type code")
	ErrUnsupportedCompression  = errors.New("cdf: unsupported compression algorithm")
	ErrUnsupportedCDFVersion   = errors.New("cdf: only CDF version 3 files are supported")
	ErrStringLengthMismatch    = errors.New("cdf: string length does not match declared width")
	ErrInsufficientBytes       = errors.New("cdf: insufficient bytes for requested read")
)

// ChecksumMismatch: surfaced on the first read after open, never silent.
var ErrChecksumMismatch = errors.New("cdf: MD5 checksum trailer does not match file contents")

// CompressionFailed: raw gzip error, payload-level.
var ErrCompressionFailed = errors.New("cdf: compression or decompression failed")

// NotFound: variable or attribute by name/number.
var (
	ErrVariableNotFound  = errors.New("cdf: variable not found")
	ErrAttributeNotFound = errors.New("cdf: attribute not found")
	ErrEntryNotFound     = errors.New("cdf: attribute entry not found")
)

// OutOfRange: component value out of valid range (write-side), or record
// index out of [0, last_rec] (warn-and-clamp for reads, error for writes).
var (
	ErrOutOfRange        = errors.New("cdf: value out of representable range")
	ErrRecordOutOfRange  = errors.New("cdf: record index out of range")
)

// LeapTableStale: requested TT2000 conversion lies past the leap-second
// table's validity. This is a warning surfaced through the Reader's
// Warnings(), never returned as an error.
var ErrLeapTableStale = errors.New("cdf: TT2000 conversion past leap-second table validity")

// IOError: underlying transport.
var ErrIO = errors.New("cdf: I/O error")

// Writer-side state machine.
var (
	ErrWriterClosed  = errors.New("cdf: writer is closed")
	ErrWriterPoisoned = errors.New("cdf: writer is in a poisoned state after a failed write")
	ErrReaderClosed  = errors.New("cdf: reader is closed")
)

// Variable/attribute definition errors.
var (
	ErrDuplicateVariableName  = errors.New("cdf: variable name already exists")
	ErrDuplicateAttributeName = errors.New("cdf: attribute name already exists")
	ErrInvalidDimensions      = errors.New("cdf: dimension sizes/variance mask mismatch")
	ErrInvalidSparseness      = errors.New("cdf: invalid sparse record specification")
	ErrNoDependency0          = errors.New("cdf: variable has no DEPEND_0 attribute")
)

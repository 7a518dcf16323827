package cdffile

import (
	"encoding/binary"
	"fmt"

	"github.com/cdflib/cdf/endian"
	"github.com/cdflib/cdf/errs"
	"github.com/cdflib/cdf/format"
	"github.com/cdflib/cdf/record"
)

const magicLen = 8

// readMagic reads the two magic words at file offset 0 and derives the
// word size (4 or 8 byte offsets) and whether the rest of the file is
// wrapped in a single CCR. The magic words are always big-endian, fixed
// width, and read ahead of any record.Ctx (which they determine).
func readMagic(buf []byte) (wordSize int, compressed bool, err error) {
	if len(buf) < magicLen {
		return 0, false, fmt.Errorf("%w: file shorter than magic number pair", errs.ErrTruncated)
	}

	magic1 := binary.BigEndian.Uint32(buf[0:4])
	magic2 := binary.BigEndian.Uint32(buf[4:8])

	switch magic1 {
	case format.MagicNumber1:
		wordSize = format.WordSize4
	case format.MagicNumber1Large:
		wordSize = format.WordSize8
	default:
		return 0, false, fmt.Errorf("%w: first magic word 0x%08X", errs.ErrMalformedMagic, magic1)
	}

	switch magic2 {
	case format.MagicNumber2Uncompressed:
		compressed = false
	case format.MagicNumber2Compressed:
		compressed = true
	default:
		return 0, false, fmt.Errorf("%w: second magic word 0x%08X", errs.ErrMalformedMagic, magic2)
	}

	return wordSize, compressed, nil
}

// writeMagic encodes the two magic words for the given word size and
// compression state.
func writeMagic(wordSize int, compressed bool) []byte {
	buf := make([]byte, magicLen)

	magic1 := format.MagicNumber1
	if wordSize == format.WordSize8 {
		magic1 = format.MagicNumber1Large
	}
	binary.BigEndian.PutUint32(buf[0:4], magic1)

	magic2 := format.MagicNumber2Uncompressed
	if compressed {
		magic2 = format.MagicNumber2Compressed
	}
	binary.BigEndian.PutUint32(buf[4:8], magic2)

	return buf
}

// ctxFor builds a record.Ctx from a CDR's encoding and the file-wide word
// size already resolved from the magic words.
func ctxFor(cdr record.CDR, wordSize int) *record.Ctx {
	return &record.Ctx{Engine: endian.ForCDFEncoding(cdr.Encoding), WordSize: wordSize}
}

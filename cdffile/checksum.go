package cdffile

import (
	"crypto/md5"
	"fmt"

	"github.com/cdflib/cdf/errs"
	"github.com/cdflib/cdf/format"
	"github.com/cdflib/cdf/record"
)

// verifyChecksum checks the trailing MD5 digest against the file contents
// that precede it, when cdr.HasChecksum() reports one is present. The
// digest covers every byte of the file except itself.
func verifyChecksum(cdr record.CDR, raw []byte) error {
	if !cdr.HasChecksum() {
		return nil
	}
	if len(raw) < format.ChecksumSize {
		return fmt.Errorf("%w: file too short for checksum trailer", errs.ErrTruncated)
	}

	payload := raw[:len(raw)-format.ChecksumSize]
	want := raw[len(raw)-format.ChecksumSize:]
	got := md5.Sum(payload)

	for i := range got {
		if got[i] != want[i] {
			return errs.ErrChecksumMismatch
		}
	}
	return nil
}

// appendChecksum computes the MD5 digest of buf and appends it as a
// trailer.
func appendChecksum(buf []byte) []byte {
	sum := md5.Sum(buf)
	return append(buf, sum[:]...)
}

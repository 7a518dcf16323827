package variable

import "iter"

// Records returns a sequential iterator over r's stored-shape record bytes
// from first to last inclusive, reading lazily one record at a time rather
// than materializing the whole range up front. Iteration stops early,
// without error, if the caller's range function returns false; a read
// error ends iteration after yielding that record number once with nil
// data (callers should check len(data) == 0).
func Records(r *Reader, buf []byte, first, last int64) iter.Seq2[int64, []byte] {
	return func(yield func(int64, []byte) bool) {
		for rec := first; rec <= last; rec++ {
			data, err := r.ReadRecord(buf, rec)
			if err != nil {
				yield(rec, nil)
				return
			}
			if !yield(rec, data) {
				return
			}
		}
	}
}

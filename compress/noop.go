package compress

// NoopCodec bypasses compression entirely, used when a variable or file
// declares format.CompressionNone.
type NoopCodec struct{}

var _ Codec = NoopCodec{}

// Compress returns data unchanged.
func (NoopCodec) Compress(data []byte) ([]byte, error) { return data, nil }

// Decompress returns data unchanged; usize is ignored.
func (NoopCodec) Decompress(data []byte, usize int) ([]byte, error) { return data, nil }

// Package primitive implements the typed primitive codec: encode/decode of
// the enumerated CDF scalar types with a selectable endianness. Endianness
// is a property of the Codec, not of individual calls, so one Codec is
// built per open/create file and reused for every read/write in that file.
package primitive

import (
	"fmt"
	"math"

	"github.com/cdflib/cdf/endian"
	"github.com/cdflib/cdf/errs"
	"github.com/cdflib/cdf/format"
)

// Codec reads and writes CDF scalar and array values using a fixed byte order.
type Codec struct {
	engine endian.EndianEngine
}

// NewCodec creates a Codec parametrized by engine. engine is normally derived
// once from the CDR's encoding field via endian.ForCDFEncoding.
func NewCodec(engine endian.EndianEngine) *Codec {
	return &Codec{engine: engine}
}

// Engine returns the codec's byte-order engine.
func (c *Codec) Engine() endian.EndianEngine { return c.engine }

// SizeOf returns the total on-disk size, in bytes, of one value of dataType
// with the given element count (character length for strings, 1 otherwise).
func SizeOf(dataType format.DataType, numElements int) (int, error) {
	if !dataType.IsValid() {
		return 0, fmt.Errorf("%w: code %d", errs.ErrUnsupportedDataType, dataType)
	}
	if dataType.IsString() {
		if numElements < 1 {
			numElements = 1
		}
		return numElements, nil
	}
	return dataType.ElementSize(), nil
}

// ReadScalar decodes a single value of dataType from the start of buf.
// Strings (CDF_CHAR/CDF_UCHAR) return the numElements-wide space-padded
// string as a Go string with trailing pad stripped.
func (c *Codec) ReadScalar(buf []byte, dataType format.DataType, numElements int) (any, error) {
	size, err := SizeOf(dataType, numElements)
	if err != nil {
		return nil, err
	}
	if len(buf) < size {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", errs.ErrInsufficientBytes, size, len(buf))
	}

	switch dataType {
	case format.TypeInt1, format.TypeByte:
		return int8(buf[0]), nil
	case format.TypeUint1:
		return buf[0], nil
	case format.TypeInt2:
		return int16(c.engine.Uint16(buf)), nil
	case format.TypeUint2:
		return c.engine.Uint16(buf), nil
	case format.TypeInt4:
		return int32(c.engine.Uint32(buf)), nil
	case format.TypeUint4:
		return c.engine.Uint32(buf), nil
	case format.TypeInt8, format.TypeTT2000:
		return int64(c.engine.Uint64(buf)), nil
	case format.TypeReal4, format.TypeFloat:
		return math.Float32frombits(c.engine.Uint32(buf)), nil
	case format.TypeReal8, format.TypeDouble, format.TypeEpoch:
		return math.Float64frombits(c.engine.Uint64(buf)), nil
	case format.TypeEpoch16:
		sec := math.Float64frombits(c.engine.Uint64(buf[0:8]))
		psec := math.Float64frombits(c.engine.Uint64(buf[8:16]))
		return [2]float64{sec, psec}, nil
	case format.TypeChar, format.TypeUchar:
		return trimPad(buf[:size]), nil
	default:
		return nil, fmt.Errorf("%w: code %d", errs.ErrUnsupportedDataType, dataType)
	}
}

// WriteScalar encodes value (of the Go type matching dataType, see
// ReadScalar) into a freshly allocated buffer sized for numElements.
func (c *Codec) WriteScalar(value any, dataType format.DataType, numElements int) ([]byte, error) {
	size, err := SizeOf(dataType, numElements)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, size)

	switch dataType {
	case format.TypeInt1, format.TypeByte:
		buf[0] = byte(mustInt64(value))
	case format.TypeUint1:
		buf[0] = byte(mustUint64(value))
	case format.TypeInt2:
		c.engine.PutUint16(buf, uint16(mustInt64(value)))
	case format.TypeUint2:
		c.engine.PutUint16(buf, uint16(mustUint64(value)))
	case format.TypeInt4:
		c.engine.PutUint32(buf, uint32(mustInt64(value)))
	case format.TypeUint4:
		c.engine.PutUint32(buf, uint32(mustUint64(value)))
	case format.TypeInt8, format.TypeTT2000:
		c.engine.PutUint64(buf, uint64(mustInt64(value)))
	case format.TypeReal4, format.TypeFloat:
		f, err := mustFloat32(value)
		if err != nil {
			return nil, err
		}
		c.engine.PutUint32(buf, math.Float32bits(f))
	case format.TypeReal8, format.TypeDouble, format.TypeEpoch:
		f, err := mustFloat64(value)
		if err != nil {
			return nil, err
		}
		c.engine.PutUint64(buf, math.Float64bits(f))
	case format.TypeEpoch16:
		pair, ok := value.([2]float64)
		if !ok {
			return nil, fmt.Errorf("%w: CDF_EPOCH16 expects [2]float64", errs.ErrUnsupportedDataType)
		}
		c.engine.PutUint64(buf[0:8], math.Float64bits(pair[0]))
		c.engine.PutUint64(buf[8:16], math.Float64bits(pair[1]))
	case format.TypeChar, format.TypeUchar:
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("%w: CDF_CHAR/CDF_UCHAR expects string", errs.ErrUnsupportedDataType)
		}
		if len(s) > size {
			return nil, fmt.Errorf("%w: string %q longer than declared width %d", errs.ErrStringLengthMismatch, s, size)
		}
		copy(buf, s)
		for i := len(s); i < size; i++ {
			buf[i] = ' '
		}
	default:
		return nil, fmt.Errorf("%w: code %d", errs.ErrUnsupportedDataType, dataType)
	}

	return buf, nil
}

// ReadArray decodes count consecutive values of dataType starting at the
// beginning of buf. For string types, count is the number of
// numElements-wide strings (not the number of characters).
func (c *Codec) ReadArray(buf []byte, dataType format.DataType, numElements, count int) ([]any, error) {
	elemSize, err := SizeOf(dataType, numElements)
	if err != nil {
		return nil, err
	}
	need := elemSize * count
	if len(buf) < need {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", errs.ErrInsufficientBytes, need, len(buf))
	}

	out := make([]any, count)
	for i := 0; i < count; i++ {
		v, err := c.ReadScalar(buf[i*elemSize:(i+1)*elemSize], dataType, numElements)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// WriteArray encodes values into a single contiguous buffer.
func (c *Codec) WriteArray(values []any, dataType format.DataType, numElements int) ([]byte, error) {
	elemSize, err := SizeOf(dataType, numElements)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, elemSize*len(values))
	for _, v := range values {
		b, err := c.WriteScalar(v, dataType, numElements)
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}
	return out, nil
}

func trimPad(b []byte) string {
	end := len(b)
	for end > 0 && b[end-1] == ' ' {
		end--
	}
	return string(b[:end])
}

func mustInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int32:
		return int64(n)
	case int16:
		return int64(n)
	case int8:
		return int64(n)
	case int:
		return int64(n)
	default:
		return 0
	}
}

func mustUint64(v any) uint64 {
	switch n := v.(type) {
	case uint64:
		return n
	case uint32:
		return uint64(n)
	case uint16:
		return uint64(n)
	case uint8:
		return uint64(n)
	case int:
		return uint64(n)
	default:
		return 0
	}
}

func mustFloat32(v any) (float32, error) {
	switch n := v.(type) {
	case float32:
		return n, nil
	case float64:
		return float32(n), nil
	default:
		return 0, fmt.Errorf("%w: expected float32/float64", errs.ErrUnsupportedDataType)
	}
}

func mustFloat64(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("%w: expected float64", errs.ErrUnsupportedDataType)
	}
}

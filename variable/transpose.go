package variable

import "github.com/cdflib/cdf/format"

// Transpose reorders one record's flattened element bytes between row-major
// and column-major layout for a multi-dimensional variable. data holds
// count elements of elemSize bytes each, arranged according to from; the
// returned slice holds the same elements arranged according to to. If from
// == to, or dims describes a scalar (no dimensions), data is returned
// unchanged.
func Transpose(data []byte, elemSize int, dims []int32, from, to format.Majority) []byte {
	if from == to || len(dims) < 2 {
		return data
	}

	n := len(dims)

	// Row-major: the last dimension varies fastest. Column-major: the first
	// dimension varies fastest. Build strides for reading in `from` order
	// and writing in `to` order.
	fromStrides := majorityStrides(dims, from)
	toStrides := majorityStrides(dims, to)

	total := 1
	for _, d := range dims {
		total *= int(d)
	}

	out := make([]byte, len(data))
	idx := make([]int, n)
	for linear := 0; linear < total; linear++ {
		// Decompose linear (in `from` iteration order) into per-axis indices.
		rem := linear
		for axis := 0; axis < n; axis++ {
			order := fromIterOrder(n, from)[axis]
			size := int(dims[order])
			idx[order] = rem % size
			rem /= size
		}

		srcOff := 0
		dstOff := 0
		for axis := 0; axis < n; axis++ {
			srcOff += idx[axis] * fromStrides[axis]
			dstOff += idx[axis] * toStrides[axis]
		}

		copy(out[dstOff*elemSize:(dstOff+1)*elemSize], data[srcOff*elemSize:(srcOff+1)*elemSize])
	}

	return out
}

// majorityStrides returns, for each axis, the stride (in elements) between
// consecutive indices along that axis for a contiguous buffer laid out in
// maj order.
func majorityStrides(dims []int32, maj format.Majority) []int {
	n := len(dims)
	strides := make([]int, n)
	if maj == format.RowMajor {
		stride := 1
		for axis := n - 1; axis >= 0; axis-- {
			strides[axis] = stride
			stride *= int(dims[axis])
		}
	} else {
		stride := 1
		for axis := 0; axis < n; axis++ {
			strides[axis] = stride
			stride *= int(dims[axis])
		}
	}
	return strides
}

// fromIterOrder returns the axis visited at each position when counting a
// linear index up in maj order (row-major counts the last axis fastest,
// column-major counts the first axis fastest).
func fromIterOrder(n int, maj format.Majority) []int {
	order := make([]int, n)
	if maj == format.RowMajor {
		for i := 0; i < n; i++ {
			order[i] = n - 1 - i
		}
	} else {
		for i := 0; i < n; i++ {
			order[i] = i
		}
	}
	return order
}

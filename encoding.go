package bkdnn

import (
	"encoding/binary"
	"math"
)

// BytesPerDim is the packed width of a single dimension: one sortable
// big-endian float32.
const BytesPerDim = 4

// EncodeDim writes v into buf[0:4] using the sortable float32 encoding: the
// sign bit is flipped for non-negative values, and all bits are flipped for
// negative values, so that lexicographic byte comparison matches numeric
// order.
func EncodeDim(buf []byte, v float32) {
	bits := math.Float32bits(v)
	if bits&0x80000000 == 0 {
		bits |= 0x80000000
	} else {
		bits = ^bits
	}
	binary.BigEndian.PutUint32(buf, bits)
}

// DecodeDim decodes dimension dim (0-based) from a packed point and returns
// it as a float32. packed must be at least (dim+1)*BytesPerDim bytes long.
func DecodeDim(packed []byte, dim int) float32 {
	off := dim * BytesPerDim
	bits := binary.BigEndian.Uint32(packed[off : off+BytesPerDim])
	if bits&0x80000000 != 0 {
		bits &^= 0x80000000
	} else {
		bits = ^bits
	}
	return math.Float32frombits(bits)
}

// PointToRectSq returns the squared Euclidean distance from origin to the
// closest point of the closed axis-aligned box [min, max], both given as
// packed points of the same dimensionality as origin. Per dimension, the
// box contributes 0 if origin falls inside [min_i, max_i], otherwise the
// squared distance to the nearer face. The result is always finite and
// non-negative for finite inputs.
func PointToRectSq(minPacked, maxPacked []byte, origin []float32) float64 {
	var sum float64
	for i := range origin {
		oi := float64(origin[i])
		mn := float64(DecodeDim(minPacked, i))
		mx := float64(DecodeDim(maxPacked, i))
		switch {
		case oi < mn:
			d := mn - oi
			sum += d * d
		case oi > mx:
			d := mx - oi
			sum += d * d
		}
	}
	return sum
}

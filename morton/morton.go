// Package morton interleaves two 32-bit coordinates into one 64-bit Z-order code and back.
//
// Bit i of x ends up at bit 2i of the code, bit i of y at bit 2i+1.
package morton

import "math"

type Z = uint64

var (
	masks = [...]uint64{
		0b0101010101010101010101010101010101010101010101010101010101010101,
		0b0011001100110011001100110011001100110011001100110011001100110011,
		0b0000111100001111000011110000111100001111000011110000111100001111,
		0b0000000011111111000000001111111100000000111111110000000011111111,
		0b0000000000000000111111111111111100000000000000001111111111111111,
		0b0000000000000000000000000000000011111111111111111111111111111111,
	}
	shifts = [...]uint{0, 1, 2, 4, 8, 16}
)

// ToZ interleaves x and y. ok is false when one of them does not fit in 32 bits,
// in which case the high bits are silently dropped.
func ToZ(x, y uint64) (z Z, ok bool) {
	ok = x <= math.MaxUint32 && y <= math.MaxUint32
	return spread(x&masks[5]) | spread(y&masks[5])<<1, ok
}

// FromZ splits a Z-order code into its x and y coordinate.
func FromZ(z Z) (x, y uint64) {
	return squash(z), squash(z >> 1)
}

// spread moves the 32 low bits of v to the even bit positions.
func spread(v uint64) uint64 {
	for i := 4; i >= 0; i-- {
		v = (v | (v << shifts[i+1])) & masks[i]
	}
	return v
}

// squash is the inverse of spread, the odd bit positions are ignored.
func squash(v uint64) uint64 {
	for i := 0; i < len(masks); i++ {
		v = (v | (v >> shifts[i])) & masks[i]
	}
	return v
}

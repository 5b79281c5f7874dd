package quadbin

import (
	"fmt"

	"github.com/pdok/quadbin/morton"
)

// Cell is a quadbin index of mode 1, see the package documentation for its layout.
type Cell uint64

const (
	// MaxResolution is the deepest level of the quadtree.
	MaxResolution = 26

	// bitsPerLevel is the number of payload bits every resolution level occupies.
	// Shared by the codec and the validity checks.
	bitsPerLevel = 2

	header          uint64 = 1 << 62
	reserved        uint64 = 1 << 63
	modeShift              = 59
	modeMask        uint64 = 0b111
	cellMode        uint64 = 1
	maxMode         uint64 = 6
	resolutionShift        = 52
	resolutionMask  uint64 = 0b11111
	payloadMask     uint64 = 1<<resolutionShift - 1
	// payloadAlign left-aligns the payload in a 64-bit Z-order code
	payloadAlign = 64 - resolutionShift
	// coordinateBits is the width of the coordinates fed to the interleave
	coordinateBits = 32
)

// padding returns the trailing payload bits that are unused at resolution.
func padding(resolution int) uint64 {
	return payloadMask >> (uint(resolution) * bitsPerLevel)
}

// FromTile encodes a tile as a cell.
// The tile is not checked, use Tile.Valid beforehand for untrusted input.
func FromTile(t Tile) Cell {
	shift := coordinateBits - uint(t.Z)
	z, _ := morton.ToZ(uint64(t.X)<<shift, uint64(t.Y)<<shift)
	return Cell(header |
		cellMode<<modeShift |
		uint64(t.Z)<<resolutionShift |
		z>>payloadAlign |
		padding(t.Z))
}

// Tile decodes the cell into its tile.
func (c Cell) Tile() Tile {
	z := c.Resolution()
	x, y := morton.FromZ((uint64(c) & payloadMask) << payloadAlign)
	shift := coordinateBits - uint(z)
	return Tile{X: uint32(x >> shift), Y: uint32(y >> shift), Z: z}
}

// Resolution reads the resolution field, no decoding involved.
func (c Cell) Resolution() int {
	return int((uint64(c) >> resolutionShift) & resolutionMask)
}

func validateResolution(resolution int) error {
	if resolution < 0 || resolution > MaxResolution {
		return fmt.Errorf("%w: %d should be between 0 and %d", ErrInvalidResolution, resolution, MaxResolution)
	}
	return nil
}

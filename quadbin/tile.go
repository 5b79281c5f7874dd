package quadbin

import (
	"fmt"

	"github.com/pdok/quadbin/mathhelp"
)

// Tile is a node of the quadtree in standard top-left-origin tile coordinates.
type Tile struct {
	X uint32 // column
	Y uint32 // row
	Z int    // zoom, equal to the resolution of the cell
}

// Valid reports whether the zoom is a resolution and X and Y are inside the grid of that zoom.
func (t Tile) Valid() bool {
	if t.Z < 0 || t.Z > MaxResolution {
		return false
	}
	size := mathhelp.Pow2(uint(t.Z))
	return uint64(t.X) < size && uint64(t.Y) < size
}

func (t Tile) String() string {
	return fmt.Sprintf("%d/%d/%d", t.Z, t.X, t.Y)
}

// last returns the highest column (and row) index at the tile's zoom.
func (t Tile) last() uint32 {
	return uint32(mathhelp.Pow2(uint(t.Z)) - 1)
}

package quadbin

import (
	"fmt"
	"iter"
	"slices"
)

// Parent returns the ancestor of the cell at the given (coarser or equal) resolution.
//
// Only the resolution field and the padding change: the payload of a child starts with the payload of its parent.
func (c Cell) Parent(resolution int) (Cell, error) {
	own := c.Resolution()
	if resolution < 0 || resolution > own {
		return 0, fmt.Errorf("%w: parent resolution %d should be between 0 and %d", ErrInvalidResolution, resolution, own)
	}
	v := uint64(c) &^ (resolutionMask << resolutionShift)
	return Cell(v | uint64(resolution)<<resolutionShift | padding(resolution)), nil
}

// Children returns all 4^(resolution - c.Resolution()) descendants of the cell at resolution.
// The order of the cells carries no meaning.
func (c Cell) Children(resolution int) ([]Cell, error) {
	children, err := c.ChildrenSeq(resolution)
	if err != nil {
		return nil, err
	}
	return slices.Collect(children), nil
}

// ChildrenSeq is the lazy variant of Children.
func (c Cell) ChildrenSeq(resolution int) (iter.Seq[Cell], error) {
	own := c.Resolution()
	if resolution <= own || resolution > MaxResolution {
		return nil, fmt.Errorf("%w: children resolution %d should be between %d and %d", ErrInvalidResolution, resolution, own+1, MaxResolution)
	}
	parent := c.Tile()
	diff := uint(resolution - parent.Z)
	minX, minY := parent.X<<diff, parent.Y<<diff
	size := uint32(1) << diff
	return func(yield func(Cell) bool) {
		for x := minX; x < minX+size; x++ {
			for y := minY; y < minY+size; y++ {
				if !yield(FromTile(Tile{X: x, Y: y, Z: resolution})) {
					return
				}
			}
		}
	}, nil
}

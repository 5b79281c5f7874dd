package quadbin

import (
	"fmt"
	"iter"
	"strings"

	"github.com/pdok/quadbin/mathhelp"
)

// Direction of a sibling. Parsing is case-insensitive.
type Direction string

const (
	Left  Direction = "left"
	Right Direction = "right"
	Up    Direction = "up"
	Down  Direction = "down"
)

// ParseDirection normalizes a direction token.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(s)); d {
	case Left, Right, Up, Down:
		return d, nil
	}
	return "", fmt.Errorf("%w: %q, expected one of left, right, up or down", ErrInvalidDirection, s)
}

// CellDistance pairs a cell of a ring with its Chebyshev distance to the origin.
type CellDistance struct {
	Cell     Cell `json:"index"`
	Distance int  `json:"distance"`
}

// Sibling returns the adjacent cell at the same resolution in direction d.
// ok is false when the move would leave the grid; there is no wraparound.
func (c Cell) Sibling(d Direction) (sibling Cell, ok bool, err error) {
	d, err = ParseDirection(string(d))
	if err != nil {
		return 0, false, err
	}
	t, ok := c.Tile().sibling(d)
	if !ok {
		return 0, false, nil
	}
	return FromTile(t), true, nil
}

func (t Tile) sibling(d Direction) (Tile, bool) {
	switch d {
	case Left:
		if t.X == 0 {
			return t, false
		}
		t.X--
	case Right:
		if t.X >= t.last() {
			return t, false
		}
		t.X++
	case Up:
		if t.Y == 0 {
			return t, false
		}
		t.Y--
	case Down:
		if t.Y >= t.last() {
			return t, false
		}
		t.Y++
	}
	return t, true
}

// walk moves t at most n steps in direction d and returns the number of steps taken.
func (t *Tile) walk(d Direction, n int) int {
	for i := 0; i < n; i++ {
		next, ok := t.sibling(d)
		if !ok {
			return i
		}
		*t = next
	}
	return n
}

// KRing returns the (2k+1)x(2k+1) block of cells centred on c, row by row from the top left.
// Near the edge of the grid the block is clipped and fewer cells are returned.
func (c Cell) KRing(k int) ([]Cell, error) {
	ring, err := c.KRingSeq(k)
	if err != nil {
		return nil, err
	}
	cells := make([]Cell, 0, c.ringCapacity(k))
	for cell := range ring {
		cells = append(cells, cell)
	}
	return cells, nil
}

// KRingSeq is the lazy variant of KRing.
func (c Cell) KRingSeq(k int) (iter.Seq[Cell], error) {
	ring, err := c.KRingDistancesSeq(k)
	if err != nil {
		return nil, err
	}
	return func(yield func(Cell) bool) {
		for cell := range ring {
			if !yield(cell) {
				return
			}
		}
	}, nil
}

// KRingDistances is KRing with the Chebyshev distance of every cell to c.
func (c Cell) KRingDistances(k int) ([]CellDistance, error) {
	ring, err := c.KRingDistancesSeq(k)
	if err != nil {
		return nil, err
	}
	cells := make([]CellDistance, 0, c.ringCapacity(k))
	for cell, distance := range ring {
		cells = append(cells, CellDistance{Cell: cell, Distance: distance})
	}
	return cells, nil
}

// KRingDistancesSeq is the lazy variant of KRingDistances.
func (c Cell) KRingDistancesSeq(k int) (iter.Seq2[Cell, int], error) {
	if k < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDistance, k)
	}
	origin := c.Tile()
	return func(yield func(Cell, int) bool) {
		rowStart := origin
		left := rowStart.walk(Left, k)
		up := rowStart.walk(Up, k)
		for dy := -up; dy <= k; dy++ {
			if dy > -up && rowStart.walk(Down, 1) == 0 {
				return
			}
			t := rowStart
			for dx := -left; dx <= k; dx++ {
				if dx > -left && t.walk(Right, 1) == 0 {
					break
				}
				if !yield(FromTile(t), chebyshev(dx, dy)) {
					return
				}
			}
		}
	}, nil
}

// ringCapacity is the size of the ring of distance k before clipping, bounded by the grid size.
func (c Cell) ringCapacity(k int) int {
	side := min(uint64(k)*2+1, mathhelp.Pow2(uint(c.Resolution())))
	return int(side * side)
}

func chebyshev(dx, dy int) int {
	return max(abs(dx), abs(dy))
}

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}

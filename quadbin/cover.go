package quadbin

import (
	"fmt"
	"iter"
	"slices"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
	"github.com/paulmach/orb/maptile/tilecover"

	"github.com/pdok/quadbin/webmercator"
)

// GeometryToCells returns the cells at resolution that intersect the geometry, each cell once.
func GeometryToCells(g orb.Geometry, resolution int) ([]Cell, error) {
	var cells []Cell
	for cell, err := range CoverGeometry(g, resolution) {
		if err != nil {
			return nil, err
		}
		cells = append(cells, cell)
	}
	return cells, nil
}

// CoverGeometry lazily yields the cells at resolution that intersect the geometry.
//
// Multi geometries and collections are covered part by part, so only the tiles of one part
// are held at a time (besides the set of yielded cells that keeps the output free of duplicates).
// An error ends the sequence.
func CoverGeometry(g orb.Geometry, resolution int) iter.Seq2[Cell, error] {
	return func(yield func(Cell, error) bool) {
		if err := validateResolution(resolution); err != nil {
			yield(0, err)
			return
		}
		seen := make(map[Cell]struct{})
		for part := range parts(g) {
			cells, err := coverPart(part, resolution)
			if err != nil {
				yield(0, err)
				return
			}
			for _, cell := range cells {
				if _, ok := seen[cell]; ok {
					continue
				}
				seen[cell] = struct{}{}
				if !yield(cell, nil) {
					return
				}
			}
		}
	}
}

// coverPart returns the cells of a single part, sorted.
func coverPart(part orb.Geometry, resolution int) ([]Cell, error) {
	switch part.(type) {
	case orb.Point, orb.LineString, orb.Ring, orb.Polygon, orb.Bound:
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedGeometry, part)
	}
	if b := part.Bound(); !webmercator.Finite(b.Min.Lon(), b.Min.Lat()) || !webmercator.Finite(b.Max.Lon(), b.Max.Lat()) {
		return nil, fmt.Errorf("%w: %s with bound %v", ErrInvalidPoint, part.GeoJSONType(), b)
	}
	tiles, err := tilecover.Geometry(part, maptile.Zoom(resolution))
	if err != nil {
		return nil, fmt.Errorf("could not cover %s: %w", part.GeoJSONType(), err)
	}
	cells := make([]Cell, 0, len(tiles))
	for t := range tiles {
		cells = append(cells, FromTile(Tile{X: t.X, Y: t.Y, Z: int(t.Z)}))
	}
	slices.Sort(cells)
	return cells, nil
}

// parts splits multi geometries and (nested) collections into their single parts.
func parts(g orb.Geometry) iter.Seq[orb.Geometry] {
	return func(yield func(orb.Geometry) bool) {
		walkParts(g, yield)
	}
}

func walkParts(g orb.Geometry, yield func(orb.Geometry) bool) bool {
	switch g := g.(type) {
	case orb.MultiPoint:
		for _, p := range g {
			if !yield(p) {
				return false
			}
		}
	case orb.MultiLineString:
		for _, ls := range g {
			if !yield(ls) {
				return false
			}
		}
	case orb.MultiPolygon:
		for _, p := range g {
			if !yield(p) {
				return false
			}
		}
	case orb.Collection:
		for _, child := range g {
			if !walkParts(child, yield) {
				return false
			}
		}
	default:
		return yield(g)
	}
	return true
}

package quadbin

import (
	"fmt"

	"github.com/go-spatial/geom"

	"github.com/pdok/quadbin/geomhelp"
	"github.com/pdok/quadbin/webmercator"
)

// FromPoint returns the cell at resolution that contains the point.
// Coordinates outside the web mercator world are clipped first.
func FromPoint(lon, lat float64, resolution int) (Cell, error) {
	if err := validateResolution(resolution); err != nil {
		return 0, err
	}
	if !webmercator.Finite(lon, lat) {
		return 0, fmt.Errorf("%w: (%v, %v)", ErrInvalidPoint, lon, lat)
	}
	x, y := webmercator.TileFromPoint(
		webmercator.ClipLongitude(lon),
		webmercator.ClipLatitude(lat),
		uint(resolution))
	return FromTile(Tile{X: x, Y: y, Z: resolution}), nil
}

// Point returns the centre of the cell as longitude, latitude.
func (c Cell) Point() geom.Point {
	t := c.Tile()
	return geom.Point{
		webmercator.TileLongitude(t.X, uint(t.Z), 0.5),
		webmercator.TileLatitude(t.Y, uint(t.Z), 0.5),
	}
}

// BoundingBox returns [xmin, ymin, xmax, ymax] of the cell in degrees.
func (c Cell) BoundingBox() geom.Extent {
	t := c.Tile()
	z := uint(t.Z)
	return geom.Extent{
		webmercator.TileLongitude(t.X, z, 0),
		webmercator.TileLatitude(t.Y, z, 1),
		webmercator.TileLongitude(t.X, z, 1),
		webmercator.TileLatitude(t.Y, z, 0),
	}
}

// Boundary returns the closed ring NW, SW, SE, NE, NW around the cell.
func (c Cell) Boundary() geom.LineString {
	e := c.BoundingBox()
	minX, minY, maxX, maxY := e[0], e[1], e[2], e[3]
	return geom.LineString{
		{minX, maxY},
		{minX, minY},
		{maxX, minY},
		{maxX, maxY},
		{minX, maxY},
	}
}

// PointText renders Point as a point geometry.
func (c Cell) PointText(format geomhelp.Format) (string, error) {
	return geomhelp.Encode(c.Point(), format)
}

// BoundaryText renders Boundary as a polygon geometry.
func (c Cell) BoundaryText(format geomhelp.Format) (string, error) {
	return geomhelp.Encode(geom.Polygon{c.Boundary()}, format)
}

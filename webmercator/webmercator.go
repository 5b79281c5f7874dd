// Package webmercator holds the spherical web mercator formulas that relate
// longitude/latitude to the tiles of a standard top-left-origin quadtree.
package webmercator

import (
	"math"

	"github.com/pdok/quadbin/mathhelp"
)

const (
	MinLongitude = -180.0
	MaxLongitude = 180.0
	// MaxLatitude is the latitude where the square web mercator world ends
	MaxLatitude = 85.051129
	MinLatitude = -MaxLatitude
)

// Finite reports whether neither coordinate is NaN or infinite. The clip functions do not check this.
func Finite(lon, lat float64) bool {
	return !math.IsNaN(lon) && !math.IsInf(lon, 0) && !math.IsNaN(lat) && !math.IsInf(lat, 0)
}

func ClipLongitude(lon float64) float64 {
	return mathhelp.Clamp(lon, MinLongitude, MaxLongitude)
}

func ClipLatitude(lat float64) float64 {
	return mathhelp.Clamp(lat, MinLatitude, MaxLatitude)
}

// TileFraction returns the (fractional) column and row of a point at zoom.
// Columns wrap around the antimeridian, rows are clamped to the grid.
func TileFraction(lon, lat float64, zoom uint) (x, y float64) {
	z2 := float64(mathhelp.Pow2(zoom))
	sinLat := math.Sin(lat * math.Pi / 180.0)
	x = mathhelp.EuclidianMod(z2*(lon/360.0+0.5), z2)
	y = z2 * (0.5 - 0.25*math.Log((1+sinLat)/(1-sinLat))/math.Pi)
	return x, mathhelp.Clamp(y, 0, z2-1)
}

// TileFromPoint returns the column and row of the tile that contains the point at zoom.
func TileFromPoint(lon, lat float64, zoom uint) (x, y uint32) {
	fx, fy := TileFraction(lon, lat, zoom)
	last := uint32(mathhelp.Pow2(zoom) - 1)
	return min(uint32(math.Floor(fx)), last), min(uint32(math.Floor(fy)), last)
}

// TileLongitude returns the longitude at fraction (0 = west edge, 1 = east edge) of column x.
func TileLongitude(x uint32, zoom uint, fraction float64) float64 {
	return 180.0 * (2.0*(float64(x)+fraction)/float64(mathhelp.Pow2(zoom)) - 1.0)
}

// TileLatitude returns the latitude at fraction (0 = north edge, 1 = south edge) of row y.
func TileLatitude(y uint32, zoom uint, fraction float64) float64 {
	expY := math.Exp(-(2.0*(float64(y)+fraction)/float64(mathhelp.Pow2(zoom)) - 1.0) * math.Pi)
	return 360.0 * (math.Atan(expY)/math.Pi - 0.25)
}

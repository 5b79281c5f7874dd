package quadbin

import "math"

// earthRadius is the WGS84 semi-major axis in metres
const earthRadius = 6378137.0

// Area returns the area of the cell in square metres on a sphere.
func (c Cell) Area() float64 {
	e := c.BoundingBox()
	lonSpan := (e[2] - e[0]) * math.Pi / 180
	sinSpan := math.Abs(math.Sin(e[3]*math.Pi/180) - math.Sin(e[1]*math.Pi/180))
	return earthRadius * earthRadius * lonSpan * sinSpan
}

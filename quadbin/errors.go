package quadbin

import "errors"

var (
	// ErrInvalidResolution is returned when a (target) resolution is outside of its allowed range.
	ErrInvalidResolution = errors.New("invalid resolution")
	// ErrInvalidDirection is returned for a sibling direction other than left, right, up or down.
	ErrInvalidDirection = errors.New("invalid direction")
	// ErrInvalidDistance is returned for a negative ring distance.
	ErrInvalidDistance = errors.New("invalid negative distance")
	// ErrInvalidText is returned when text is not a hexadecimal cell.
	ErrInvalidText = errors.New("invalid cell text")
	// ErrInvalidPoint is returned for NaN or infinite coordinates.
	ErrInvalidPoint = errors.New("invalid point")
	// ErrUnsupportedGeometry is returned when a geometry cannot be covered.
	ErrUnsupportedGeometry = errors.New("unsupported geometry")
)

package processing

import (
	"context"

	"github.com/paulmach/orb"

	"github.com/pdok/quadbin/quadbin"
)

type Feature interface {
	ID() any
	Properties() map[string]any
	Geometry() orb.Geometry
}

// CoveredFeature is a Feature with the cells that cover its geometry at one resolution.
type CoveredFeature interface {
	Feature
	Resolution() int
	Cells() []quadbin.Cell
}

type Source interface {
	ReadFeatures(context.Context, chan<- Feature) error
}

type Target interface {
	WriteFeatures(<-chan CoveredFeature) error
}

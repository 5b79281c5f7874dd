package processing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// GeoJSONSource reads a GeoJSON Geometry, Feature or FeatureCollection.
type GeoJSONSource struct {
	features []*geojson.Feature
}

// NewGeoJSONSource decodes all of r. A bare geometry becomes a single feature without id.
func NewGeoJSONSource(r io.Reader) (*GeoJSONSource, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var object struct {
		Type string `json:"type"`
	}
	if err = json.Unmarshal(data, &object); err != nil {
		return nil, fmt.Errorf("not a GeoJSON object: %w", err)
	}

	switch object.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, err
		}
		return &GeoJSONSource{features: fc.Features}, nil
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, err
		}
		return &GeoJSONSource{features: []*geojson.Feature{f}}, nil
	case "":
		return nil, fmt.Errorf(`GeoJSON object without "type"`)
	}
	g, err := geojson.UnmarshalGeometry(data)
	if err != nil {
		return nil, err
	}
	if g.Geometry() == nil {
		return nil, fmt.Errorf("unknown GeoJSON type %q", object.Type)
	}
	return &GeoJSONSource{features: []*geojson.Feature{geojson.NewFeature(g.Geometry())}}, nil
}

func (s *GeoJSONSource) ReadFeatures(ctx context.Context, features chan<- Feature) error {
	for _, f := range s.features {
		select {
		case features <- geoJSONFeature{f}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Len is the number of features in the source.
func (s *GeoJSONSource) Len() int {
	return len(s.features)
}

type geoJSONFeature struct {
	feature *geojson.Feature
}

func (f geoJSONFeature) ID() any {
	return f.feature.ID
}

func (f geoJSONFeature) Properties() map[string]any {
	return f.feature.Properties
}

func (f geoJSONFeature) Geometry() orb.Geometry {
	return f.feature.Geometry
}

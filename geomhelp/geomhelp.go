// Package geomhelp renders go-spatial geometries as text.
package geomhelp

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-spatial/geom"
	"github.com/go-spatial/geom/encoding/geojson"
	"github.com/go-spatial/geom/encoding/wkt"
	"github.com/muesli/reflow/truncate"
)

// Format is a textual geometry encoding.
type Format string

const (
	GeoJSON Format = "geojson"
	WKT     Format = "wkt"
)

// ParseFormat accepts the (case-insensitive) name of a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case GeoJSON, WKT:
		return f, nil
	}
	return "", fmt.Errorf("unknown geometry text format %q, expected %q or %q", s, GeoJSON, WKT)
}

// Encode renders g in the given format. An empty format means GeoJSON.
func Encode(g geom.Geometry, format Format) (string, error) {
	switch format {
	case GeoJSON, "":
		b, err := json.Marshal(geojson.Geometry{Geometry: g})
		if err != nil {
			return "", err
		}
		return string(b), nil
	case WKT:
		var sb strings.Builder
		// shortest representation that round trips, like encoding/json does for GeoJSON
		if err := wkt.NewEncoder(&sb, false, -1, 'f').Encode(g); err != nil {
			return "", err
		}
		return sb.String(), nil
	}
	return "", fmt.Errorf("unknown geometry text format %q", format)
}

// Truncate shortens s to width characters (tail included). Zero width leaves s alone.
func Truncate(s string, width uint) string {
	if width == 0 {
		return s
	}
	return truncate.StringWithTail(s, width, "...")
}

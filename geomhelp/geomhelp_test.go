package geomhelp

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/go-spatial/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "geojson", want: GeoJSON},
		{in: "WKT", want: WKT},
		{in: "gml", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncode_GeoJSON(t *testing.T) {
	for _, format := range []Format{GeoJSON, ""} {
		s, err := Encode(geom.Point{33.75, -11.25}, format)
		require.NoError(t, err)
		var decoded struct {
			Type        string     `json:"type"`
			Coordinates [2]float64 `json:"coordinates"`
		}
		require.NoError(t, json.Unmarshal([]byte(s), &decoded))
		assert.Equal(t, "Point", decoded.Type)
		assert.Equal(t, [2]float64{33.75, -11.25}, decoded.Coordinates)
	}

	s, err := Encode(geom.Polygon{{{0, 0}, {0, 1}, {1, 1}, {1, 0}, {0, 0}}}, GeoJSON)
	require.NoError(t, err)
	var decoded struct {
		Type        string         `json:"type"`
		Coordinates [][][2]float64 `json:"coordinates"`
	}
	require.NoError(t, json.Unmarshal([]byte(s), &decoded))
	assert.Equal(t, "Polygon", decoded.Type)
	require.Len(t, decoded.Coordinates, 1)
	ring := decoded.Coordinates[0]
	require.GreaterOrEqual(t, len(ring), 5)
	assert.Equal(t, ring[0], ring[len(ring)-1])
}

func TestEncode_WKT(t *testing.T) {
	s, err := Encode(geom.Point{33.75, -11.25}, WKT)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(s, "POINT"), s)
	assert.Contains(t, s, "33.75")

	s, err = Encode(geom.Polygon{{{0, 0}, {0, 1}, {1, 1}, {1, 0}}}, WKT)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(s, "POLYGON"), s)

	s, err = Encode(geom.Point{-21.943045533438166, 0.000001}, WKT)
	require.NoError(t, err)
	assert.Equal(t, "POINT (-21.943045533438166 0.000001)", s)
}

func TestEncode_UnknownFormat(t *testing.T) {
	_, err := Encode(geom.Point{1, 2}, Format("kml"))
	require.Error(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "POINT (1 2)", Truncate("POINT (1 2)", 0))
	assert.Equal(t, "POINT (1 2)", Truncate("POINT (1 2)", 20))
	assert.Equal(t, "POI...", Truncate("POINT (1 2)", 6))
}

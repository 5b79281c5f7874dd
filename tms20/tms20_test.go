package tms20

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-spatial/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdok/quadbin/quadbin"
)

func TestWebMercatorQuad(t *testing.T) {
	tms, err := WebMercatorQuad(quadbin.MaxResolution)
	require.NoError(t, err)
	require.Len(t, tms.TileMatrices, quadbin.MaxResolution+1)

	srid, err := tms.CRS.SRID()
	require.NoError(t, err)
	assert.Equal(t, uint(3857), srid)

	tm := tms.TileMatrices[0]
	assert.Equal(t, "0", tm.ID)
	assert.InDelta(t, 559082264.0287178, tm.ScaleDenominator, 1e-6)
	assert.Equal(t, uint(1), tm.MatrixWidth)

	tm = tms.TileMatrices[quadbin.MaxResolution]
	assert.Equal(t, "26", tm.ID)
	assert.Equal(t, uint(1<<26), tm.MatrixHeight)
	assert.InDelta(t, 156543.03392804097/(1<<26), tm.CellSize, 1e-12)

	for _, res := range []int{-1, 27} {
		_, err = WebMercatorQuad(res)
		require.ErrorIs(t, err, quadbin.ErrInvalidResolution)
	}
}

func TestTileMatrixSet_MarshalJSON(t *testing.T) {
	tms, err := WebMercatorQuad(12)
	require.NoError(t, err)

	b, err := json.Marshal(&tms)
	require.NoError(t, err)

	var raw struct {
		CRS          string `json:"crs"`
		TileMatrices []struct {
			ID string `json:"id"`
		} `json:"tileMatrices"`
		BoundingBox struct {
			CRS string `json:"crs"`
		} `json:"boundingBox"`
	}
	require.NoError(t, json.Unmarshal(b, &raw))
	assert.Equal(t, webMercatorCRS, raw.CRS)
	assert.Equal(t, webMercatorCRS, raw.BoundingBox.CRS)
	require.Len(t, raw.TileMatrices, 13)
	for i, tm := range raw.TileMatrices {
		assert.Equal(t, fmt.Sprint(i), tm.ID, "tile matrices are sorted by resolution")
	}

	var again TileMatrixSet
	require.NoError(t, json.Unmarshal(b, &again))
	assert.Equal(t, tms, again)
}

func TestLoadJSONTileMatrixSet(t *testing.T) {
	jsonFilePath, err := filepath.Abs(filepath.Join("testdata", "BottomLeftQuad.json"))
	require.NoError(t, err)
	got, err := LoadJSONTileMatrixSet(jsonFilePath)
	require.NoErrorf(t, err, "LoadJSONTileMatrixSet() error = %v", err)

	remarshalled, err := json.Marshal(&got)
	require.NoError(t, err)
	rawJSON, err := os.ReadFile(jsonFilePath)
	require.NoError(t, err)
	require.JSONEq(t, string(rawJSON), string(remarshalled))

	srid, err := got.CRS.SRID()
	require.NoError(t, err)
	assert.Equal(t, uint(28992), srid)
	assert.Equal(t, "EPSG", got.CRS.AuthorityName)
	for z, tm := range got.TileMatrices {
		assert.Equal(t, BottomLeft, tm.CornerOfOrigin, "tile matrix %d", z)
	}
}

func TestCornerOfOrigin_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		json    string
		want    CornerOfOrigin
		wantErr bool
	}{
		{json: `"topLeft"`, want: TopLeft},
		{json: `"bottomLeft"`, want: BottomLeft},
		{json: `""`, want: TopLeft},
		{json: `"middle"`, wantErr: true},
		{json: `1`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.json, func(t *testing.T) {
			var got CornerOfOrigin
			err := json.Unmarshal([]byte(tt.json), &got)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	var tm TileMatrix
	require.NoError(t, json.Unmarshal([]byte(`{"id": "0", "scaleDenominator": 1, "cellSize": 1, "pointOfOrigin": [0, 0],
		"tileWidth": 256, "tileHeight": 256, "matrixWidth": 1, "matrixHeight": 1}`), &tm))
	assert.Equal(t, TopLeft, tm.CornerOfOrigin, "defaults to topLeft")
}

func TestLoadJSONTileMatrixSet_Invalid(t *testing.T) {
	_, err := LoadJSONTileMatrixSet(filepath.Join("testdata", "InvalidTileMatrix.json"))
	require.Error(t, err)

	_, err = LoadJSONTileMatrixSet(filepath.Join("testdata", "does-not-exist.json"))
	require.Error(t, err)
}

func TestTileMatrixSet_UnmarshalJSON_Errors(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{name: "missing crs", json: `{"tileMatrices": []}`},
		{name: "unparsable crs", json: `{"crs": "EPSG:3857", "tileMatrices": []}`},
		{name: "crs without uri", json: `{"crs": {"wkt": {}}, "tileMatrices": []}`},
		{name: "missing tile matrices", json: `{"crs": "http://www.opengis.net/def/crs/EPSG/0/3857"}`},
		{name: "no tile matrices", json: `{"crs": "http://www.opengis.net/def/crs/EPSG/0/3857", "tileMatrices": []}`},
		{name: "tile matrix is not an object", json: `{"crs": "http://www.opengis.net/def/crs/EPSG/0/3857", "tileMatrices": [1]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var tms TileMatrixSet
			require.Error(t, json.Unmarshal([]byte(tt.json), &tms))
		})
	}
}

func TestNewCRS(t *testing.T) {
	tests := []struct {
		uri       string
		authority string
		code      string
		wantErr   bool
	}{
		{uri: "http://www.opengis.net/def/crs/EPSG/0/3857", authority: "EPSG", code: "3857"},
		{uri: "https://www.opengis.net/def/crs/OGC/1.3/CRS84", authority: "OGC", code: "CRS84"},
		{uri: "urn:ogc:def:crs:EPSG::28992", authority: "EPSG", code: "28992"},
		{uri: "EPSG:3857", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			crs, err := NewCRS(tt.uri)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.authority, crs.AuthorityName)
			assert.Equal(t, tt.code, crs.AuthorityCode)
		})
	}

	crs84, err := NewCRS("https://www.opengis.net/def/crs/OGC/1.3/CRS84")
	require.NoError(t, err)
	_, err = crs84.SRID()
	require.Error(t, err)
}

func TestTileMatrixSet_Size(t *testing.T) {
	tms, err := WebMercatorQuad(3)
	require.NoError(t, err)
	bottomLeft, err := LoadJSONTileMatrixSet(filepath.Join("testdata", "BottomLeftQuad.json"))
	require.NoError(t, err)

	tests := []struct {
		tms           *TileMatrixSet
		z             int
		width, height uint
		ok            bool
	}{
		{tms: &tms, z: 0, width: 1, height: 1, ok: true},
		{tms: &tms, z: 3, width: 8, height: 8, ok: true},
		{tms: &tms, z: 4},
		{tms: &bottomLeft, z: 1, width: 2, height: 4, ok: true},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v.Size(%v)", tt.tms.ID, tt.z), func(t *testing.T) {
			width, height, ok := tt.tms.Size(tt.z)
			require.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.width, width)
			assert.Equal(t, tt.height, height)
		})
	}
}

func TestTileMatrixSet_FromNative(t *testing.T) {
	tms, err := WebMercatorQuad(4)
	require.NoError(t, err)
	bottomLeft, err := LoadJSONTileMatrixSet(filepath.Join("testdata", "BottomLeftQuad.json"))
	require.NoError(t, err)

	tests := []struct {
		tms    *TileMatrixSet
		z      int
		pt     geom.Point
		want   quadbin.Tile
		wantOK bool
	}{
		{tms: &tms, z: 0, pt: geom.Point{0, 0}, want: quadbin.Tile{Z: 0}, wantOK: true},
		{tms: &tms, z: 1, pt: geom.Point{1, 1}, want: quadbin.Tile{X: 1, Y: 0, Z: 1}, wantOK: true},
		{tms: &tms, z: 1, pt: geom.Point{-1, -1}, want: quadbin.Tile{X: 0, Y: 1, Z: 1}, wantOK: true},
		{tms: &tms, z: 1, pt: geom.Point{-20037508.3427892, 20037508.3427892}, want: quadbin.Tile{X: 0, Y: 0, Z: 1}, wantOK: true},
		{tms: &tms, z: 1, pt: geom.Point{-20037509, 0}},
		{tms: &tms, z: 1, pt: geom.Point{0, 20037509}},
		{tms: &tms, z: 1, pt: geom.Point{20037509, 0}},
		{tms: &tms, z: 5, pt: geom.Point{0, 0}},
		{tms: &bottomLeft, z: 1, pt: geom.Point{100000, 500000}, want: quadbin.Tile{X: 0, Y: 1, Z: 1}, wantOK: true},
		{tms: &bottomLeft, z: 0, pt: geom.Point{100000, 0}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v.FromNative(%v, %v)", tt.tms.ID, tt.z, tt.pt), func(t *testing.T) {
			got, ok := tt.tms.FromNative(tt.z, tt.pt)
			require.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestTileMatrixSet_ToNative(t *testing.T) {
	tms, err := WebMercatorQuad(4)
	require.NoError(t, err)
	bottomLeft, err := LoadJSONTileMatrixSet(filepath.Join("testdata", "BottomLeftQuad.json"))
	require.NoError(t, err)

	tests := []struct {
		tms    *TileMatrixSet
		tile   quadbin.Tile
		want   geom.Point
		wantOK bool
	}{
		{tms: &tms, tile: quadbin.Tile{Z: 0}, want: geom.Point{-20037508.3427892, 20037508.3427892}, wantOK: true},
		{tms: &tms, tile: quadbin.Tile{X: 1, Y: 1, Z: 1}, want: geom.Point{0, 0}, wantOK: true},
		{tms: &tms, tile: quadbin.Tile{X: 2, Y: 2, Z: 1}, want: geom.Point{20037508.3427892, -20037508.3427892}, wantOK: true},
		{tms: &tms, tile: quadbin.Tile{X: 3, Y: 0, Z: 1}},
		{tms: &tms, tile: quadbin.Tile{Z: 5}},
		{tms: &bottomLeft, tile: quadbin.Tile{X: 0, Y: 0, Z: 0}, want: geom.Point{-285401.92, 903401.92}, wantOK: true},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v.ToNative(%v)", tt.tms.ID, tt.tile), func(t *testing.T) {
			got, ok := tt.tms.ToNative(tt.tile)
			require.Equal(t, tt.wantOK, ok)
			if ok {
				assert.InDelta(t, tt.want.X(), got.X(), 1e-6)
				assert.InDelta(t, tt.want.Y(), got.Y(), 1e-6)
			}
		})
	}
}

func TestTileMatrixSet_CellFromNative_AgreesWithFromPoint(t *testing.T) {
	tms, err := WebMercatorQuad(quadbin.MaxResolution)
	require.NoError(t, err)

	lon, lat := -3.71219873428345, 40.413365349070865
	x := 6378137 * lon * math.Pi / 180
	y := 6378137 * math.Log(math.Tan(math.Pi/4+lat*math.Pi/360))
	for _, res := range []int{0, 4, 10, 17} {
		want, err := quadbin.FromPoint(lon, lat, res)
		require.NoError(t, err)
		got, ok := tms.CellFromNative(res, geom.Point{x, y})
		require.True(t, ok)
		assert.Equal(t, want, got, "resolution %d", res)
	}

	_, ok := tms.CellFromNative(1, geom.Point{0, 3e7})
	assert.False(t, ok)
}

func TestTileMatrixSet_CellFromNative_OutsideQuadbinGrid(t *testing.T) {
	bottomLeft, err := LoadJSONTileMatrixSet(filepath.Join("testdata", "BottomLeftQuad.json"))
	require.NoError(t, err)
	for _, pt := range []geom.Point{{100000, 500000}, {100000, -1000000}} {
		_, ok := bottomLeft.CellFromNative(0, pt)
		assert.False(t, ok, "bottom left rows are not quadbin rows")
	}

	tall, err := WebMercatorQuad(1)
	require.NoError(t, err)
	tm := tall.TileMatrices[1]
	tm.MatrixHeight = 4
	tall.TileMatrices[1] = tm
	tile, ok := tall.FromNative(1, geom.Point{0, -3e7})
	require.True(t, ok)
	require.Equal(t, quadbin.Tile{X: 1, Y: 2, Z: 1}, tile)
	_, ok = tall.CellFromNative(1, geom.Point{0, -3e7})
	assert.False(t, ok, "row 2 does not exist at resolution 1")

	cell, ok := tall.CellFromNative(1, geom.Point{1, -1})
	require.True(t, ok)
	assert.Equal(t, quadbin.FromTile(quadbin.Tile{X: 1, Y: 1, Z: 1}), cell)
}

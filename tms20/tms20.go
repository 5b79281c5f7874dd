// Package tms20 describes the quadbin grid as an OGC Tile Matrix Set (v2.0) and maps
// projected coordinates to quadbin tiles and back.
// See https://www.ogc.org/standard/tms/
package tms20

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"slices"
	"strconv"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/go-spatial/geom"
	"github.com/perimeterx/marshmallow"
	"golang.org/x/exp/maps"

	"github.com/pdok/quadbin/mathhelp"
	"github.com/pdok/quadbin/quadbin"
)

const (
	webMercatorQuadID = "WebMercatorQuad"
	webMercatorCRS    = "http://www.opengis.net/def/crs/EPSG/0/3857"
	webMercatorOrigin = 20037508.3427892
	// cell size of resolution 0, in metres per pixel
	webMercatorCellSize = 156543.03392804097
	// standardized rendering pixel size of 0.28mm
	pixelSize = 0.00028
	tileSize  = 256
)

// WebMercatorQuad builds the tile matrix set of quadbin resolutions 0 up to and including maxResolution.
func WebMercatorQuad(maxResolution int) (TileMatrixSet, error) {
	var tms TileMatrixSet
	if maxResolution < 0 || maxResolution > quadbin.MaxResolution {
		return tms, fmt.Errorf("%w: %d, expected 0..%d", quadbin.ErrInvalidResolution, maxResolution, quadbin.MaxResolution)
	}
	crs, err := NewCRS(webMercatorCRS)
	if err != nil {
		return tms, err
	}
	tms = TileMatrixSet{
		ID:                webMercatorQuadID,
		Title:             "Google Maps Compatible for the World",
		URI:               "http://www.opengis.net/def/tilematrixset/OGC/1.0/WebMercatorQuad",
		OrderedAxes:       []string{"E", "N"},
		CRS:               crs,
		WellKnownScaleSet: "http://www.opengis.net/def/wkss/OGC/1.0/GoogleMapsCompatible",
		BoundingBox: &TwoDBoundingBox{
			LowerLeft:  TwoDPoint{-webMercatorOrigin, -webMercatorOrigin},
			UpperRight: TwoDPoint{webMercatorOrigin, webMercatorOrigin},
			CRS:        crs,
		},
		TileMatrices: make(map[int]TileMatrix, maxResolution+1),
	}
	for z := 0; z <= maxResolution; z++ {
		cellSize := webMercatorCellSize / float64(mathhelp.Pow2(uint(z)))
		size := uint(mathhelp.Pow2(uint(z)))
		tms.TileMatrices[z] = TileMatrix{
			ID:               strconv.Itoa(z),
			ScaleDenominator: cellSize / pixelSize,
			CellSize:         cellSize,
			CornerOfOrigin:   TopLeft,
			PointOfOrigin:    TwoDPoint{-webMercatorOrigin, webMercatorOrigin},
			TileWidth:        tileSize,
			TileHeight:       tileSize,
			MatrixWidth:      size,
			MatrixHeight:     size,
		}
	}
	return tms, newValidator().Struct(&tms)
}

// LoadJSONTileMatrixSet reads and validates a tile matrix set from a JSON file.
func LoadJSONTileMatrixSet(path string) (TileMatrixSet, error) {
	var tms TileMatrixSet
	tmsJSON, err := os.ReadFile(path)
	if err != nil {
		return tms, err
	}
	err = json.Unmarshal(tmsJSON, &tms)
	if err != nil {
		return tms, fmt.Errorf("could not read tile matrix set %s: %w", path, err)
	}
	return tms, nil
}

func newValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

// TileMatrixSet is a definition of a tile matrix set following the Tile Matrix Set standard.
type TileMatrixSet struct {
	// Tile matrix set identifier. Implementation of 'identifier'
	ID string `json:"id,omitempty"`
	// Title of this tile matrix set, normally used for display to a human
	Title string `json:"title,omitempty"`
	// Brief narrative description of this tile matrix set, normally available for display to a human
	Description string `json:"description,omitempty"`
	// Reference to an official source for this TileMatrixSet
	URI         string   `validate:"omitempty,uri" json:"uri,omitempty"`
	OrderedAxes []string `validate:"omitnil,min=1" json:"orderedAxes"`
	// Coordinate Reference System (CRS)
	CRS CRS `validate:"required" json:"-"`
	// Reference to a well-known scale set
	WellKnownScaleSet string `validate:"omitempty,uri" json:"wellKnownScaleSet,omitempty"`
	// Minimum bounding rectangle surrounding the tile matrix set, in the supported CRS
	BoundingBox *TwoDBoundingBox `json:"boundingBox,omitempty"`
	// Describes scale levels and its tile matrices, keyed by resolution
	TileMatrices map[int]TileMatrix `validate:"required,min=1,dive" json:"-"`
}

func (tms *TileMatrixSet) MarshalJSON() ([]byte, error) {
	resolutions := maps.Keys(tms.TileMatrices)
	slices.Sort(resolutions)
	tileMatrices := make([]TileMatrix, 0, len(resolutions))
	for _, z := range resolutions {
		tileMatrices = append(tileMatrices, tms.TileMatrices[z])
	}
	return json.Marshal(struct {
		TileMatrixSet                    // not a pointer, because it would cause recursion to this function
		SpecialCRS          CRS          `json:"crs"`
		SpecialTileMatrices []TileMatrix `json:"tileMatrices"`
	}{
		TileMatrixSet:       *tms,
		SpecialCRS:          tms.CRS,
		SpecialTileMatrices: tileMatrices,
	})
}

func (tms *TileMatrixSet) UnmarshalJSON(data []byte) error {
	err := defaults.Set(tms)
	if err != nil {
		return err
	}

	specials, err := marshmallow.Unmarshal(data, tms, marshmallow.WithExcludeKnownFieldsFromMap(true))
	if err != nil {
		return err
	}

	rawCrs, ok := specials["crs"]
	if !ok {
		return fmt.Errorf(`missing key "crs"`)
	}
	tms.CRS, err = unmarshalCRS(rawCrs)
	if err != nil {
		return err
	}

	rawTileMatrices, ok := specials["tileMatrices"]
	if !ok {
		return fmt.Errorf(`missing key "tileMatrices"`)
	}
	tms.TileMatrices, err = unmarshalTileMatrices(rawTileMatrices)
	if err != nil {
		return err
	}

	return newValidator().Struct(tms)
}

func unmarshalTileMatrices(rawTileMatrices any) (map[int]TileMatrix, error) {
	rawTileMatricesList, ok := rawTileMatrices.([]any)
	if !ok {
		return nil, fmt.Errorf(`"tileMatrices" should be an array`)
	}
	tileMatrices := make(map[int]TileMatrix, len(rawTileMatricesList))
	for _, rawTileMatrix := range rawTileMatricesList {
		var tileMatrix TileMatrix
		err := tileMatrix.UnmarshalJSONFromMap(rawTileMatrix)
		if err != nil {
			return nil, err
		}
		z, err := strconv.Atoi(tileMatrix.ID)
		if err != nil {
			return nil, fmt.Errorf("only resolution ids are supported for tile matrices: %w", err)
		}
		if _, exists := tileMatrices[z]; exists {
			return nil, fmt.Errorf("duplicate tile matrix id %d", z)
		}
		tileMatrices[z] = tileMatrix
	}
	return tileMatrices, nil
}

var (
	crsURIRegexURL = regexp.MustCompile("https?://.+/def/crs/(?P<authority>[^/]+)/[^/]+/(?P<code>[^/]+)$")
	crsURIRegexURN = regexp.MustCompile("^urn:ogc:def:crs:(?P<authority>[^:]+)::(?P<code>[^:]+)$")
)

// CRS is a coordinate reference system referenced by URI.
type CRS struct {
	URI           string `validate:"required,uri"`
	AuthorityName string `validate:"required"`
	AuthorityCode string `validate:"required"`
}

// NewCRS parses an OGC CRS URL or URN.
func NewCRS(uri string) (CRS, error) {
	uriParts := crsURIRegexURL.FindStringSubmatch(uri)
	if uriParts == nil {
		uriParts = crsURIRegexURN.FindStringSubmatch(uri)
	}
	if uriParts == nil {
		return CRS{}, fmt.Errorf(`could not parse crs uri "%v"`, uri)
	}
	crs := CRS{URI: uri, AuthorityName: uriParts[1], AuthorityCode: uriParts[2]}
	return crs, newValidator().Struct(&crs)
}

// SRID is the numeric authority code of the CRS.
func (crs CRS) SRID() (uint, error) {
	code, err := strconv.ParseUint(crs.AuthorityCode, 10, 64)
	if err != nil {
		return 0, fmt.Errorf(`could not parse uri authority code "%v": %w`, crs.AuthorityCode, err)
	}
	return uint(code), nil
}

func (crs CRS) MarshalJSON() ([]byte, error) {
	return json.Marshal(crs.URI)
}

func (crs *CRS) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := unmarshalCRS(raw)
	if err != nil {
		return err
	}
	*crs = parsed
	return nil
}

// unmarshalCRS accepts a plain uri or an object with an uri property
func unmarshalCRS(rawCrs any) (CRS, error) {
	switch raw := rawCrs.(type) {
	case string:
		return NewCRS(raw)
	case map[string]any:
		rawURI, ok := raw["uri"]
		if !ok {
			return CRS{}, fmt.Errorf(`only crs uris are supported, uri property not found`)
		}
		uri, ok := rawURI.(string)
		if !ok {
			return CRS{}, fmt.Errorf(`uri property is not a string but a %T`, rawURI)
		}
		return NewCRS(uri)
	}
	return CRS{}, fmt.Errorf(`wrong type key "crs": %T`, rawCrs)
}

// Minimum bounding rectangle surrounding a 2D resource in the CRS indicated elsewhere
type TwoDBoundingBox struct {
	LowerLeft  TwoDPoint `validate:"required" json:"lowerLeft"`
	UpperRight TwoDPoint `validate:"required" json:"upperRight"`
	CRS        CRS       `json:"-"`
}

func (bb *TwoDBoundingBox) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		TwoDBoundingBox     // not a pointer, because it would cause recursion to this function
		SpecialCRS      CRS `json:"crs"`
	}{
		TwoDBoundingBox: *bb,
		SpecialCRS:      bb.CRS,
	})
}

func (bb *TwoDBoundingBox) UnmarshalJSON(data []byte) error {
	specials, err := marshmallow.Unmarshal(data, bb, marshmallow.WithExcludeKnownFieldsFromMap(true))
	if err != nil {
		return err
	}

	rawCrs, ok := specials["crs"]
	if !ok {
		return fmt.Errorf(`missing key "crs" in boundingBox`)
	}
	bb.CRS, err = unmarshalCRS(rawCrs)
	if err != nil {
		return err
	}

	return newValidator().Struct(bb)
}

// A 2D Point in the CRS indicated elsewhere
type TwoDPoint [2]float64

// A tile matrix, corresponding to one quadbin resolution.
type TileMatrix struct {
	// Identifier of the tile matrix, the resolution as a string
	ID string `validate:"required" json:"id"`
	// Scale denominator of this tile matrix
	ScaleDenominator float64 `validate:"required,gt=0" json:"scaleDenominator"`
	// Cell size of this tile matrix
	CellSize float64 `validate:"required,gt=0" json:"cellSize"`
	// The corner of the tile matrix (_topLeft_ or _bottomLeft_) used as the origin for numbering tile rows and columns.
	CornerOfOrigin CornerOfOrigin `default:"topLeft" validate:"oneof=topLeft bottomLeft" json:"cornerOfOrigin,omitempty"`
	// Position in CRS coordinates of the corner of origin. This position is also a corner of the (0, 0) tile.
	PointOfOrigin TwoDPoint `validate:"required" json:"pointOfOrigin"`
	// Width of each tile of this tile matrix in pixels
	TileWidth uint `validate:"required,min=1" json:"tileWidth"`
	// Height of each tile of this tile matrix in pixels
	TileHeight uint `validate:"required,min=1" json:"tileHeight"`
	// Width of the matrix (number of tiles in width)
	MatrixWidth uint `validate:"required,min=1" json:"matrixWidth"`
	// Height of the matrix (number of tiles in height)
	MatrixHeight uint `validate:"required,min=1" json:"matrixHeight"`
}

func (tm *TileMatrix) UnmarshalJSON(data []byte) error {
	var dataMap map[string]any
	err := json.Unmarshal(data, &dataMap)
	if err != nil {
		return err
	}
	return tm.UnmarshalJSONFromMap(dataMap)
}

func (tm *TileMatrix) UnmarshalJSONFromMap(data any) error {
	err := defaults.Set(tm)
	if err != nil {
		return err
	}

	dataMap, ok := data.(map[string]any)
	if !ok {
		return fmt.Errorf(`tile matrix is not an object but a %T`, data)
	}

	_, err = marshmallow.UnmarshalFromJSONMap(dataMap, tm, marshmallow.WithExcludeKnownFieldsFromMap(true))
	if err != nil {
		return err
	}

	return newValidator().Struct(tm)
}

type CornerOfOrigin string

const (
	TopLeft    CornerOfOrigin = "topLeft"
	BottomLeft CornerOfOrigin = "bottomLeft"
)

func (c *CornerOfOrigin) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return c.UnmarshalJSONFromMap(raw)
}

func (c *CornerOfOrigin) UnmarshalJSONFromMap(data any) error {
	dataString, ok := data.(string)
	if !ok {
		return fmt.Errorf(`CornerOfOrigin data is not a string but a %T`, data)
	}
	switch dataString {
	case "", string(TopLeft):
		*c = TopLeft
	case string(BottomLeft):
		*c = BottomLeft
	default:
		return fmt.Errorf(`unknown CornerOfOrigin: %v`, data)
	}
	return nil
}

// Size returns the number of tile columns and rows at resolution z.
func (tms *TileMatrixSet) Size(z int) (width, height uint, ok bool) {
	tm, ok := tms.TileMatrices[z]
	if !ok {
		return 0, 0, false
	}
	return tm.MatrixWidth, tm.MatrixHeight, true
}

// FromNative returns the tile at resolution z that contains pt.
func (tms *TileMatrixSet) FromNative(z int, pt geom.Point) (quadbin.Tile, bool) {
	tm, ok := tms.TileMatrices[z]
	if !ok {
		return quadbin.Tile{}, false
	}

	tileSizeX := float64(tm.TileWidth) * tm.CellSize
	minX := tm.PointOfOrigin[0]
	x := (pt.X() - minX) / tileSizeX
	if x < 0 || x >= float64(tm.MatrixWidth) {
		return quadbin.Tile{}, false
	}

	tileSizeY := float64(tm.TileHeight) * tm.CellSize
	var y float64
	switch tm.CornerOfOrigin {
	case BottomLeft:
		minY := tm.PointOfOrigin[1]
		y = (pt.Y() - minY) / tileSizeY
	default:
		maxY := tm.PointOfOrigin[1]
		y = (maxY - pt.Y()) / tileSizeY
	}
	if y < 0 || y >= float64(tm.MatrixHeight) {
		return quadbin.Tile{}, false
	}

	return quadbin.Tile{X: uint32(x), Y: uint32(y), Z: z}, true
}

// ToNative returns the top left corner of the tile in CRS coordinates.
// Tiles one past the last column or row are accepted, so the corners of the whole matrix can be computed.
func (tms *TileMatrixSet) ToNative(tile quadbin.Tile) (geom.Point, bool) {
	topLeftPt := geom.Point{}
	tm, ok := tms.TileMatrices[tile.Z]
	if !ok {
		return topLeftPt, false
	}
	if uint(tile.X) > tm.MatrixWidth || uint(tile.Y) > tm.MatrixHeight {
		return topLeftPt, false
	}

	tileSizeX := float64(tm.TileWidth) * tm.CellSize
	topLeftPt[0] = tm.PointOfOrigin[0] + float64(tile.X)*tileSizeX

	tileSizeY := float64(tm.TileHeight) * tm.CellSize
	switch tm.CornerOfOrigin {
	case BottomLeft:
		topLeftPt[1] = tm.PointOfOrigin[1] + float64(tile.Y+1)*tileSizeY
	default:
		topLeftPt[1] = tm.PointOfOrigin[1] - float64(tile.Y)*tileSizeY
	}

	return topLeftPt, true
}

// CellFromNative is FromNative followed by quadbin encoding.
// Only top left matrices whose tile fits the quadbin grid of resolution z yield a cell.
func (tms *TileMatrixSet) CellFromNative(z int, pt geom.Point) (quadbin.Cell, bool) {
	if tm, ok := tms.TileMatrices[z]; !ok || tm.CornerOfOrigin != TopLeft {
		return 0, false
	}
	tile, ok := tms.FromNative(z, pt)
	if !ok || !tile.Valid() {
		return 0, false
	}
	return quadbin.FromTile(tile), true
}

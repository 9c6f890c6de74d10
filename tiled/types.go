package tiled

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/rowan"
)

var (
	// ErrUnsupportedFormat is returned when a JSON document's declared type
	// is not "map" (or "tileset" for external tileset documents).
	ErrUnsupportedFormat = errors.New("tiled: unsupported document format")

	// ErrMalformedDocument is returned when a required structural element
	// or attribute is missing or out of context.
	ErrMalformedDocument = errors.New("tiled: malformed document")

	// ErrUnsupportedEncoding is returned for unknown tile-data encodings or
	// compression tags.
	ErrUnsupportedEncoding = errors.New("tiled: unsupported tile data encoding")
)

// debugEnabled toggles stderr logging for this package.
var debugEnabled bool

// SetDebug toggles debug logging for the tiled package.
func SetDebug(enabled bool) {
	debugEnabled = enabled
}

// Map is a fully loaded tile map.
type Map struct {
	// Grid dimensions in cells and cell size in pixels.
	Width, Height         int
	TileWidth, TileHeight int

	Orientation     string
	RenderOrder     string
	BackgroundColor rowan.Color

	// Next-id counters from the source document.
	NextLayerID  int
	NextObjectID int

	// Tilesets ordered by ascending FirstGID.
	Tilesets []*Tileset

	TileLayers   []*TileLayer
	ImageLayers  []*ImageLayer
	ObjectGroups []*ObjectGroup

	// layers is the merged draw list built by Sort.
	layers []Layer
}

// PixelWidth returns the map's width in pixels.
func (m *Map) PixelWidth() int { return m.Width * m.TileWidth }

// PixelHeight returns the map's height in pixels.
func (m *Map) PixelHeight() int { return m.Height * m.TileHeight }

// Layer is a drawable layer in the merged draw list: either a *TileLayer or
// an *ImageLayer.
type Layer interface {
	// LayerID returns the layer's declared id, the draw-list sort key.
	LayerID() int
	// LayerName returns the layer's name.
	LayerName() string
}

// TileLayer is a grid of global tile ids.
type TileLayer struct {
	ID      int
	Name    string
	Width   int // in cells
	Height  int // in cells
	OffsetX float64
	OffsetY float64
	Opacity float64
	Visible bool
	Tint    rowan.Color

	// Data holds one raw cell value per grid position, row-major. Zero
	// means "no tile"; nonzero values are 1-based global tile ids, with
	// the top three bits carrying flip flags.
	Data []uint32
}

func (l *TileLayer) LayerID() int      { return l.ID }
func (l *TileLayer) LayerName() string { return l.Name }

// Cell returns the raw value at (col, row), or 0 when out of range.
func (l *TileLayer) Cell(col, row int) uint32 {
	if col < 0 || col >= l.Width || row < 0 || row >= l.Height {
		return 0
	}
	return l.Data[row*l.Width+col]
}

// ImageLayer is a single static image with a pixel offset.
type ImageLayer struct {
	ID      int
	Name    string
	OffsetX float64
	OffsetY float64
	Opacity float64
	Visible bool
	Tint    rowan.Color

	Source string // image file reference, "" for flattened layers
	Image  *ebiten.Image
}

func (l *ImageLayer) LayerID() int      { return l.ID }
func (l *ImageLayer) LayerName() string { return l.Name }

// ObjectGroup is a named collection of placed objects.
type ObjectGroup struct {
	ID      int
	Name    string
	Objects []Object
}

// Object is an axis-aligned rectangle with an optional property bag.
type Object struct {
	ID         int
	Name       string
	Type       string
	X, Y       float64
	Width      float64
	Height     float64
	Properties Properties
}

// Properties is a bag of named values. Values keep their string form; typed
// getters parse on access.
type Properties map[string]string

// Get returns the raw value and whether the property exists.
func (p Properties) Get(name string) (string, bool) {
	v, ok := p[name]
	return v, ok
}

// Int returns the property parsed as an integer, or fallback when absent or
// unparsable.
func (p Properties) Int(name string, fallback int) int {
	v, ok := p[name]
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// Bool returns the property parsed as a boolean, or fallback when absent.
func (p Properties) Bool(name string, fallback bool) bool {
	v, ok := p[name]
	if !ok {
		return fallback
	}
	return v == "true" || v == "1"
}

// ObjectGroupByName returns the first object group with the given name.
// Absence is an expected outcome, reported through ok.
func (m *Map) ObjectGroupByName(name string) (*ObjectGroup, bool) {
	for _, g := range m.ObjectGroups {
		if g.Name == name {
			return g, true
		}
	}
	return nil, false
}

// parseColor decodes "#RRGGBB" or "#AARRGGBB" (Tiled's color attribute
// syntax). The zero string maps to transparent black.
func parseColor(s string) (rowan.Color, error) {
	if s == "" {
		return rowan.Color{}, nil
	}
	hex := strings.TrimPrefix(s, "#")
	v, err := strconv.ParseUint(hex, 16, 64)
	if err != nil {
		return rowan.Color{}, fmt.Errorf("%w: bad color %q", ErrMalformedDocument, s)
	}
	c := rowan.Color{A: 1}
	switch len(hex) {
	case 6:
		c.R = float64(v>>16&0xff) / 255
		c.G = float64(v>>8&0xff) / 255
		c.B = float64(v&0xff) / 255
	case 8:
		c.A = float64(v>>24&0xff) / 255
		c.R = float64(v>>16&0xff) / 255
		c.G = float64(v>>8&0xff) / 255
		c.B = float64(v&0xff) / 255
	default:
		return rowan.Color{}, fmt.Errorf("%w: bad color %q", ErrMalformedDocument, s)
	}
	return c, nil
}

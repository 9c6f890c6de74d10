package tiled

import (
	"encoding/xml"
	"fmt"

	"github.com/phanxgames/rowan"
)

// Wire structs for the TMX format. Attribute presence is optional per the
// format's own schema: absent attributes keep their zero value, and defaults
// (opacity 1, visible true) are applied during conversion.

type xmlMap struct {
	XMLName          xml.Name `xml:"map"`
	Orientation      string   `xml:"orientation,attr"`
	RenderOrder      string   `xml:"renderorder,attr"`
	Width            int      `xml:"width,attr"`
	Height           int      `xml:"height,attr"`
	TileWidth        int      `xml:"tilewidth,attr"`
	TileHeight       int      `xml:"tileheight,attr"`
	BackgroundColor  string   `xml:"backgroundcolor,attr"`
	NextLayerID      int      `xml:"nextlayerid,attr"`
	NextObjectID     int      `xml:"nextobjectid,attr"`
	CompressionLevel int      `xml:"compressionlevel,attr"`

	Tilesets     []xmlTileset     `xml:"tileset"`
	Layers       []xmlLayer       `xml:"layer"`
	ImageLayers  []xmlImageLayer  `xml:"imagelayer"`
	ObjectGroups []xmlObjectGroup `xml:"objectgroup"`
}

type xmlTileset struct {
	FirstGID   int       `xml:"firstgid,attr"`
	Source     string    `xml:"source,attr"`
	Name       string    `xml:"name,attr"`
	TileWidth  int       `xml:"tilewidth,attr"`
	TileHeight int       `xml:"tileheight,attr"`
	TileCount  int       `xml:"tilecount,attr"`
	Columns    int       `xml:"columns,attr"`
	Image      *xmlImage `xml:"image"`
}

type xmlImage struct {
	Source string `xml:"source,attr"`
	Width  int    `xml:"width,attr"`
	Height int    `xml:"height,attr"`
}

type xmlLayer struct {
	ID        int      `xml:"id,attr"`
	Name      string   `xml:"name,attr"`
	Width     int      `xml:"width,attr"`
	Height    int      `xml:"height,attr"`
	OffsetX   float64  `xml:"offsetx,attr"`
	OffsetY   float64  `xml:"offsety,attr"`
	Opacity   *float64 `xml:"opacity,attr"`
	Visible   *int     `xml:"visible,attr"`
	TintColor string   `xml:"tintcolor,attr"`
	Data      *xmlData `xml:"data"`
}

type xmlData struct {
	Encoding    string `xml:"encoding,attr"`
	Compression string `xml:"compression,attr"`
	Payload     string `xml:",chardata"`
}

type xmlImageLayer struct {
	ID        int       `xml:"id,attr"`
	Name      string    `xml:"name,attr"`
	OffsetX   float64   `xml:"offsetx,attr"`
	OffsetY   float64   `xml:"offsety,attr"`
	Opacity   *float64  `xml:"opacity,attr"`
	Visible   *int      `xml:"visible,attr"`
	TintColor string    `xml:"tintcolor,attr"`
	Image     *xmlImage `xml:"image"`
}

type xmlObjectGroup struct {
	ID      int         `xml:"id,attr"`
	Name    string      `xml:"name,attr"`
	Objects []xmlObject `xml:"object"`
}

type xmlObject struct {
	ID         int            `xml:"id,attr"`
	Name       string         `xml:"name,attr"`
	Type       string         `xml:"type,attr"`
	X          float64        `xml:"x,attr"`
	Y          float64        `xml:"y,attr"`
	Width      float64        `xml:"width,attr"`
	Height     float64        `xml:"height,attr"`
	Properties *xmlProperties `xml:"properties"`
}

type xmlProperties struct {
	Props []xmlProperty `xml:"property"`
}

type xmlProperty struct {
	Name  string `xml:"name,attr"`
	Type  string `xml:"type,attr"`
	Value string `xml:"value,attr"`
}

// parseTMX decodes a TMX document and resolves it into a Map. dir is the
// directory the document was read from, used to resolve tileset and image
// references.
func (l *Loader) parseTMX(data []byte, dir string) (*Map, error) {
	var wire xmlMap
	if err := xml.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}

	m := &Map{
		Orientation:  wire.Orientation,
		RenderOrder:  wire.RenderOrder,
		Width:        wire.Width,
		Height:       wire.Height,
		TileWidth:    wire.TileWidth,
		TileHeight:   wire.TileHeight,
		NextLayerID:  wire.NextLayerID,
		NextObjectID: wire.NextObjectID,
	}
	bg, err := parseColor(wire.BackgroundColor)
	if err != nil {
		return nil, err
	}
	m.BackgroundColor = bg

	for _, ts := range wire.Tilesets {
		resolved, err := l.resolveTileset(ts, dir)
		if err != nil {
			return nil, err
		}
		m.Tilesets = append(m.Tilesets, resolved)
	}

	for _, layer := range wire.Layers {
		converted, err := convertTileLayer(layer, wire.CompressionLevel)
		if err != nil {
			return nil, err
		}
		m.TileLayers = append(m.TileLayers, converted)
	}

	for _, layer := range wire.ImageLayers {
		converted, err := l.convertImageLayer(layer, dir)
		if err != nil {
			return nil, err
		}
		m.ImageLayers = append(m.ImageLayers, converted)
	}

	for _, group := range wire.ObjectGroups {
		m.ObjectGroups = append(m.ObjectGroups, convertObjectGroup(group))
	}

	m.Sort()
	return m, nil
}

func convertTileLayer(wire xmlLayer, chunkCount int) (*TileLayer, error) {
	if wire.Data == nil {
		return nil, fmt.Errorf("%w: layer %q has no data element", ErrMalformedDocument, wire.Name)
	}
	cells, err := decodeCells(wire.Data.Payload, wire.Data.Encoding, wire.Data.Compression, chunkCount)
	if err != nil {
		return nil, fmt.Errorf("layer %q: %w", wire.Name, err)
	}
	if len(cells) != wire.Width*wire.Height {
		return nil, fmt.Errorf("%w: layer %q has %d cells, want %d",
			ErrMalformedDocument, wire.Name, len(cells), wire.Width*wire.Height)
	}

	layer := &TileLayer{
		ID:      wire.ID,
		Name:    wire.Name,
		Width:   wire.Width,
		Height:  wire.Height,
		OffsetX: wire.OffsetX,
		OffsetY: wire.OffsetY,
		Opacity: 1,
		Visible: wire.Visible == nil || *wire.Visible != 0,
		Data:    cells,
	}
	if wire.Opacity != nil {
		layer.Opacity = *wire.Opacity
	}
	tint, err := parseColor(wire.TintColor)
	if err != nil {
		return nil, err
	}
	if wire.TintColor == "" {
		tint = rowan.ColorWhite
	}
	layer.Tint = tint
	return layer, nil
}

func (l *Loader) convertImageLayer(wire xmlImageLayer, dir string) (*ImageLayer, error) {
	layer := &ImageLayer{
		ID:      wire.ID,
		Name:    wire.Name,
		OffsetX: wire.OffsetX,
		OffsetY: wire.OffsetY,
		Opacity: 1,
		Visible: wire.Visible == nil || *wire.Visible != 0,
	}
	if wire.Opacity != nil {
		layer.Opacity = *wire.Opacity
	}
	tint, err := parseColor(wire.TintColor)
	if err != nil {
		return nil, err
	}
	if wire.TintColor == "" {
		tint = rowan.ColorWhite
	}
	layer.Tint = tint

	if wire.Image != nil {
		layer.Source = wire.Image.Source
		img, err := l.loadImage(dir, wire.Image.Source)
		if err != nil {
			return nil, err
		}
		layer.Image = img
	}
	return layer, nil
}

func convertObjectGroup(wire xmlObjectGroup) *ObjectGroup {
	group := &ObjectGroup{ID: wire.ID, Name: wire.Name}
	for _, obj := range wire.Objects {
		converted := Object{
			ID:     obj.ID,
			Name:   obj.Name,
			Type:   obj.Type,
			X:      obj.X,
			Y:      obj.Y,
			Width:  obj.Width,
			Height: obj.Height,
		}
		if obj.Properties != nil {
			converted.Properties = Properties{}
			for _, prop := range obj.Properties.Props {
				converted.Properties[prop.Name] = prop.Value
			}
		}
		group.Objects = append(group.Objects, converted)
	}
	return group
}

// parseTSX decodes an external tileset document (a tileset/image root).
func parseTSX(data []byte) (*xmlTileset, error) {
	var wire struct {
		XMLName xml.Name `xml:"tileset"`
		xmlTileset
	}
	if err := xml.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("%w: external tileset: %v", ErrMalformedDocument, err)
	}
	return &wire.xmlTileset, nil
}

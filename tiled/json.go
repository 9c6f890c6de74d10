package tiled

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"strconv"

	"github.com/phanxgames/rowan"
)

// Wire structs for the TMJ format. The document's declared type must be
// "map"; layers are discriminated by their "type" field.

type tmjMap struct {
	Type             string       `json:"type"`
	Orientation      string       `json:"orientation"`
	RenderOrder      string       `json:"renderorder"`
	Width            int          `json:"width"`
	Height           int          `json:"height"`
	TileWidth        int          `json:"tilewidth"`
	TileHeight       int          `json:"tileheight"`
	BackgroundColor  string       `json:"backgroundcolor"`
	NextLayerID      int          `json:"nextlayerid"`
	NextObjectID     int          `json:"nextobjectid"`
	CompressionLevel int          `json:"compressionlevel"`
	Tilesets         []tmjTileset `json:"tilesets"`
	Layers           []tmjLayer   `json:"layers"`
}

type tmjTileset struct {
	FirstGID   int    `json:"firstgid"`
	Source     string `json:"source"`
	Name       string `json:"name"`
	TileWidth  int    `json:"tilewidth"`
	TileHeight int    `json:"tileheight"`
	TileCount  int    `json:"tilecount"`
	Columns    int    `json:"columns"`
	Image      string `json:"image"`
}

type tmjLayer struct {
	Type        string          `json:"type"`
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Width       int             `json:"width"`
	Height      int             `json:"height"`
	OffsetX     float64         `json:"offsetx"`
	OffsetY     float64         `json:"offsety"`
	Opacity     *float64        `json:"opacity"`
	Visible     *bool           `json:"visible"`
	TintColor   string          `json:"tintcolor"`
	Data        json.RawMessage `json:"data"`
	Encoding    string          `json:"encoding"`
	Compression string          `json:"compression"`
	Image       string          `json:"image"`
	Objects     []tmjObject     `json:"objects"`
}

type tmjObject struct {
	ID         int           `json:"id"`
	Name       string        `json:"name"`
	Type       string        `json:"type"`
	X          float64       `json:"x"`
	Y          float64       `json:"y"`
	Width      float64       `json:"width"`
	Height     float64       `json:"height"`
	Properties []tmjProperty `json:"properties"`
}

type tmjProperty struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value any    `json:"value"`
}

const (
	tmjTypeTileLayer   = "tilelayer"
	tmjTypeImageLayer  = "imagelayer"
	tmjTypeObjectGroup = "objectgroup"
)

// parseTMJ decodes a TMJ document and resolves it into a Map.
func (l *Loader) parseTMJ(data []byte, dir string) (*Map, error) {
	var wire tmjMap
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	if wire.Type != "map" {
		return nil, fmt.Errorf("%w: document type %q, want \"map\"", ErrUnsupportedFormat, wire.Type)
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
		resolved, err := l.resolveTileset(xmlTileset{
			FirstGID:   ts.FirstGID,
			Source:     ts.Source,
			Name:       ts.Name,
			TileWidth:  ts.TileWidth,
			TileHeight: ts.TileHeight,
			TileCount:  ts.TileCount,
			Columns:    ts.Columns,
			Image:      tmjTilesetImage(ts),
		}, dir)
		if err != nil {
			return nil, err
		}
		m.Tilesets = append(m.Tilesets, resolved)
	}

	for _, layer := range wire.Layers {
		switch layer.Type {
		case tmjTypeTileLayer:
			converted, err := convertTMJTileLayer(layer, wire.CompressionLevel)
			if err != nil {
				return nil, err
			}
			m.TileLayers = append(m.TileLayers, converted)
		case tmjTypeImageLayer:
			converted, err := l.convertTMJImageLayer(layer, dir)
			if err != nil {
				return nil, err
			}
			m.ImageLayers = append(m.ImageLayers, converted)
		case tmjTypeObjectGroup:
			m.ObjectGroups = append(m.ObjectGroups, convertTMJObjectGroup(layer))
		default:
			if debugEnabled {
				log.Printf("tiled: skipping layer %q with unknown type %q", layer.Name, layer.Type)
			}
		}
	}

	m.Sort()
	return m, nil
}

func tmjTilesetImage(ts tmjTileset) *xmlImage {
	if ts.Image == "" {
		return nil
	}
	return &xmlImage{Source: ts.Image}
}

func convertTMJTileLayer(wire tmjLayer, chunkCount int) (*TileLayer, error) {
	if len(wire.Data) == 0 {
		return nil, fmt.Errorf("%w: tilelayer %q has no data", ErrMalformedDocument, wire.Name)
	}

	var cells []uint32
	if bytes.HasPrefix(bytes.TrimSpace(wire.Data), []byte("[")) {
		// Plain (or csv-encoded) numeric array.
		var values []int64
		if err := json.Unmarshal(wire.Data, &values); err != nil {
			return nil, fmt.Errorf("%w: tilelayer %q: %v", ErrMalformedDocument, wire.Name, err)
		}
		cells = make([]uint32, len(values))
		for i, v := range values {
			cells[i] = uint32(v)
		}
	} else {
		var payload string
		if err := json.Unmarshal(wire.Data, &payload); err != nil {
			return nil, fmt.Errorf("%w: tilelayer %q: %v", ErrMalformedDocument, wire.Name, err)
		}
		var err error
		cells, err = decodeCells(payload, wire.Encoding, wire.Compression, chunkCount)
		if err != nil {
			return nil, fmt.Errorf("layer %q: %w", wire.Name, err)
		}
	}
	if len(cells) != wire.Width*wire.Height {
		return nil, fmt.Errorf("%w: tilelayer %q has %d cells, want %d",
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
		Visible: wire.Visible == nil || *wire.Visible,
		Data:    cells,
	}
	if wire.Opacity != nil {
		layer.Opacity = *wire.Opacity
	}
	tint := rowan.ColorWhite
	if wire.TintColor != "" {
		var err error
		tint, err = parseColor(wire.TintColor)
		if err != nil {
			return nil, err
		}
	}
	layer.Tint = tint
	return layer, nil
}

func (l *Loader) convertTMJImageLayer(wire tmjLayer, dir string) (*ImageLayer, error) {
	layer := &ImageLayer{
		ID:      wire.ID,
		Name:    wire.Name,
		OffsetX: wire.OffsetX,
		OffsetY: wire.OffsetY,
		Opacity: 1,
		Visible: wire.Visible == nil || *wire.Visible,
		Source:  wire.Image,
	}
	if wire.Opacity != nil {
		layer.Opacity = *wire.Opacity
	}
	tint := rowan.ColorWhite
	if wire.TintColor != "" {
		var err error
		tint, err = parseColor(wire.TintColor)
		if err != nil {
			return nil, err
		}
	}
	layer.Tint = tint

	if wire.Image != "" {
		img, err := l.loadImage(dir, wire.Image)
		if err != nil {
			return nil, err
		}
		layer.Image = img
	}
	return layer, nil
}

func convertTMJObjectGroup(wire tmjLayer) *ObjectGroup {
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
		if len(obj.Properties) > 0 {
			converted.Properties = Properties{}
			for _, prop := range obj.Properties {
				converted.Properties[prop.Name] = propertyString(prop.Value)
			}
		}
		group.Objects = append(group.Objects, converted)
	}
	return group
}

// propertyString normalizes a JSON property value to its string form so both
// wire formats populate the same bag shape.
func propertyString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}

// parseTSJ decodes an external tileset document in JSON form.
func parseTSJ(data []byte) (*xmlTileset, error) {
	var wire tmjTileset
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: external tileset: %v", ErrMalformedDocument, err)
	}
	if probe.Type != "tileset" {
		return nil, fmt.Errorf("%w: external tileset type %q", ErrUnsupportedFormat, probe.Type)
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("%w: external tileset: %v", ErrMalformedDocument, err)
	}
	return &xmlTileset{
		Name:       wire.Name,
		TileWidth:  wire.TileWidth,
		TileHeight: wire.TileHeight,
		TileCount:  wire.TileCount,
		Columns:    wire.Columns,
		Image:      tmjTilesetImage(wire),
	}, nil
}

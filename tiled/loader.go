package tiled

import (
	"bytes"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"

	// Atlas and image-layer files are usually PNG, but Tiled happily
	// references JPEG and BMP images too.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
)

// Loader reads map documents and their referenced tilesets and images.
// The zero value reads from the operating system's filesystem and shares
// tilesets through the package default cache.
type Loader struct {
	// FS is the filesystem documents and images are read from. Nil means
	// the OS filesystem, with slash-separated paths.
	FS fs.FS

	// Cache shares loaded tilesets between maps. Nil means DefaultCache.
	Cache *TilesetCache
}

// LoadMapFile loads a map with a zero-value Loader.
func LoadMapFile(name string) (*Map, error) {
	var l Loader
	return l.LoadMap(name)
}

// LoadMap reads and parses a map document. The wire format is sniffed from
// the content: documents starting with '<' parse as TMX, anything else as
// TMJ. Tileset and image references resolve relative to the document.
func (l *Loader) LoadMap(name string) (*Map, error) {
	data, err := l.readFile(name)
	if err != nil {
		return nil, fmt.Errorf("tiled: read %s: %w", name, err)
	}
	m, err := l.LoadMapData(data, path.Dir(name))
	if err != nil {
		return nil, fmt.Errorf("tiled: load %s: %w", name, err)
	}
	return m, nil
}

// LoadMapData parses a map document from a byte buffer. dir is the directory
// external references resolve against.
func (l *Loader) LoadMapData(data []byte, dir string) (*Map, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '<' {
		return l.parseTMX(data, dir)
	}
	return l.parseTMJ(data, dir)
}

func (l *Loader) cache() *TilesetCache {
	if l.Cache != nil {
		return l.Cache
	}
	return defaultCache
}

func (l *Loader) readFile(name string) ([]byte, error) {
	if l.FS != nil {
		return fs.ReadFile(l.FS, name)
	}
	return os.ReadFile(name)
}

// loadImage reads and decodes an image reference and uploads it.
func (l *Loader) loadImage(dir, source string) (*ebiten.Image, error) {
	name := path.Join(dir, source)
	data, err := l.readFile(name)
	if err != nil {
		return nil, fmt.Errorf("tiled: read image %s: %w", name, err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("tiled: decode image %s: %w", name, err)
	}
	return ebiten.NewImageFromImage(img), nil
}

// resolveTileset turns a tileset reference into a sliced Tileset. External
// references (a source path) consult the shared cache first, then load the
// external document recursively; inline tilesets are built from the
// embedded fields directly.
func (l *Loader) resolveTileset(wire xmlTileset, dir string) (*Tileset, error) {
	if wire.Source == "" {
		return l.buildTileset(wire, dir)
	}

	source := path.Join(dir, wire.Source)
	if ts, ok := l.cache().lookup(source, wire.FirstGID); ok {
		return ts, nil
	}

	data, err := l.readFile(source)
	if err != nil {
		return nil, fmt.Errorf("tiled: read tileset %s: %w", source, err)
	}
	var external *xmlTileset
	if strings.HasSuffix(source, ".tsj") || strings.HasSuffix(source, ".json") {
		external, err = parseTSJ(data)
	} else {
		external, err = parseTSX(data)
	}
	if err != nil {
		return nil, err
	}
	external.FirstGID = wire.FirstGID

	ts, err := l.buildTileset(*external, path.Dir(source))
	if err != nil {
		return nil, err
	}
	ts.Source = source
	l.cache().store(source, ts)
	return ts, nil
}

// buildTileset constructs and slices a tileset from resolved fields.
func (l *Loader) buildTileset(wire xmlTileset, dir string) (*Tileset, error) {
	ts := &Tileset{
		FirstGID:   wire.FirstGID,
		Name:       wire.Name,
		TileWidth:  wire.TileWidth,
		TileHeight: wire.TileHeight,
		TileCount:  wire.TileCount,
		Columns:    wire.Columns,
	}
	if wire.Image == nil {
		return nil, fmt.Errorf("%w: tileset %q has no image element", ErrMalformedDocument, wire.Name)
	}
	img, err := l.loadImage(dir, wire.Image.Source)
	if err != nil {
		return nil, err
	}
	ts.Image = img
	if ts.Columns <= 0 && ts.TileWidth > 0 {
		ts.Columns = img.Bounds().Dx() / ts.TileWidth
	}
	if ts.TileCount <= 0 && ts.TileWidth > 0 && ts.TileHeight > 0 {
		ts.TileCount = ts.Columns * (img.Bounds().Dy() / ts.TileHeight)
	}
	ts.slice()
	return ts, nil
}

package tiled

import (
	"image"
	"log"
	"path"

	"github.com/hajimehoshi/ebiten/v2"
)

// GID flag bits (standard TMX convention).
const (
	FlipH    uint32 = 1 << 31 // horizontal flip
	FlipV    uint32 = 1 << 30 // vertical flip
	FlipD    uint32 = 1 << 29 // diagonal flip (90 degree rotation)
	flagMask uint32 = FlipH | FlipV | FlipD
)

// Tileset is one atlas strip-sliced into per-tile images. FirstGID
// establishes the global-id offset at which this tileset's tiles begin.
type Tileset struct {
	FirstGID   int
	Name       string
	Source     string // external document path, "" for inline tilesets
	TileWidth  int
	TileHeight int
	TileCount  int
	Columns    int

	// Image is the atlas page; Tiles are its per-tile subimages in strip
	// order (left to right, top to bottom).
	Image *ebiten.Image
	Tiles []*ebiten.Image

	// rects are the per-tile source rectangles within the atlas, kept for
	// vertex-based drawing.
	rects []image.Rectangle
}

// slice populates Tiles and rects from the atlas image. Tiles beyond the
// atlas bounds (a count larger than the image can hold) are dropped with a
// debug warning.
func (ts *Tileset) slice() {
	if ts.Image == nil || ts.Columns <= 0 {
		return
	}
	bounds := ts.Image.Bounds()
	ts.Tiles = make([]*ebiten.Image, 0, ts.TileCount)
	ts.rects = make([]image.Rectangle, 0, ts.TileCount)
	for i := 0; i < ts.TileCount; i++ {
		col := i % ts.Columns
		row := i / ts.Columns
		r := image.Rect(
			bounds.Min.X+col*ts.TileWidth,
			bounds.Min.Y+row*ts.TileHeight,
			bounds.Min.X+(col+1)*ts.TileWidth,
			bounds.Min.Y+(row+1)*ts.TileHeight,
		)
		if !r.In(bounds) {
			if debugEnabled {
				log.Printf("tiled: tileset %q tile %d exceeds atlas bounds, truncating", ts.Name, i)
			}
			ts.TileCount = i
			break
		}
		ts.Tiles = append(ts.Tiles, ts.Image.SubImage(r).(*ebiten.Image))
		ts.rects = append(ts.rects, r)
	}
}

// NewTileset builds a tileset directly from an atlas image and slices it.
// Mostly useful for constructing maps programmatically and in tests.
func NewTileset(name string, firstGID int, atlas *ebiten.Image, tileW, tileH, columns, count int) *Tileset {
	ts := &Tileset{
		FirstGID:   firstGID,
		Name:       name,
		TileWidth:  tileW,
		TileHeight: tileH,
		TileCount:  count,
		Columns:    columns,
		Image:      atlas,
	}
	ts.slice()
	return ts
}

// ResolveTile maps a zero-based global tile index to the owning tileset and
// its tile image. The index walks tilesets in ascending FirstGID order,
// accumulating tile counts; the owner is the first tileset whose cumulative
// range covers the index. Returns nil for a negative index (a cell value of
// 0) or one past every tileset's total count.
func (m *Map) ResolveTile(index int) *ebiten.Image {
	ts, local := m.resolve(index)
	if ts == nil || local >= len(ts.Tiles) {
		return nil
	}
	return ts.Tiles[local]
}

// ResolveCell resolves a raw cell value: flip flags are masked off and the
// 1-based gid is converted to a tile image plus its flags. A cell value of 0
// returns a nil image.
func (m *Map) ResolveCell(cell uint32) (*ebiten.Image, uint32) {
	flags := cell & flagMask
	return m.ResolveTile(int(cell&^flagMask) - 1), flags
}

// resolve returns the owning tileset and local tile index, or (nil, 0).
func (m *Map) resolve(index int) (*Tileset, int) {
	if index < 0 {
		return nil, 0
	}
	count := 0
	for _, ts := range m.Tilesets {
		if index < count+ts.TileCount {
			return ts, index - count
		}
		count += ts.TileCount
	}
	return nil, 0
}

// TilesetCache shares loaded tilesets between maps, keyed by source path, so
// two maps referencing the same tileset document reuse the decoded atlas.
// Caches are not synchronized: loads must happen on one goroutine at a time.
type TilesetCache struct {
	entries map[string]*Tileset
}

// NewTilesetCache creates an empty cache.
func NewTilesetCache() *TilesetCache {
	return &TilesetCache{entries: map[string]*Tileset{}}
}

// defaultCache is the process-wide cache used when a Loader has none
// injected. Same single-threaded constraint as any other cache.
var defaultCache = NewTilesetCache()

// DefaultCache returns the process-wide tileset cache.
func DefaultCache() *TilesetCache {
	return defaultCache
}

// lookup returns the cached tileset for a source path, adjusted to the
// requested firstgid. The tile images are shared; only the offset differs
// between maps.
func (c *TilesetCache) lookup(source string, firstGID int) (*Tileset, bool) {
	ts, ok := c.entries[path.Clean(source)]
	if !ok {
		return nil, false
	}
	if ts.FirstGID == firstGID {
		return ts, true
	}
	clone := *ts
	clone.FirstGID = firstGID
	return &clone, true
}

// store remembers a tileset under its source path.
func (c *TilesetCache) store(source string, ts *Tileset) {
	c.entries[path.Clean(source)] = ts
}

package tiled

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
	"testing/fstest"
)

// pngFixture encodes a flat-colored PNG of the given size for use as an
// atlas or image-layer file in test filesystems.
func pngFixture(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	img.Set(0, 0, color.RGBA{R: 0xff, A: 0xff})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

const mapTMX = `<?xml version="1.0" encoding="UTF-8"?>
<map version="1.10" orientation="orthogonal" renderorder="right-down"
     width="2" height="2" tilewidth="8" tileheight="8"
     backgroundcolor="#336699" nextlayerid="4" nextobjectid="3">
 <tileset firstgid="1" name="ground" tilewidth="8" tileheight="8" tilecount="4" columns="2">
  <image source="ground.png" width="16" height="16"/>
 </tileset>
 <tileset firstgid="5" source="props.tsx"/>
 <layer id="1" name="floor" width="2" height="2">
  <data encoding="csv">
1,2,
3,4
  </data>
 </layer>
 <layer id="3" name="deco" width="2" height="2" opacity="0.5" visible="0" tintcolor="#ff0000">
  <data encoding="csv">0,5,0,6</data>
 </layer>
 <imagelayer id="2" name="sky" offsetx="4" offsety="-2">
  <image source="sky.png" width="16" height="16"/>
 </imagelayer>
 <objectgroup id="4" name="spawns">
  <object id="1" name="player" type="spawn" x="8" y="8" width="8" height="8">
   <properties>
    <property name="team" value="red"/>
    <property name="hp" type="int" value="3"/>
   </properties>
  </object>
 </objectgroup>
</map>`

const propsTSX = `<?xml version="1.0" encoding="UTF-8"?>
<tileset version="1.10" name="props" tilewidth="8" tileheight="8" tilecount="6" columns="3">
 <image source="props.png" width="24" height="16"/>
</tileset>`

func testFS(t *testing.T) fstest.MapFS {
	t.Helper()
	return fstest.MapFS{
		"maps/level1.tmx": {Data: []byte(mapTMX)},
		"maps/props.tsx":  {Data: []byte(propsTSX)},
		"maps/ground.png": {Data: pngFixture(t, 16, 16)},
		"maps/props.png":  {Data: pngFixture(t, 24, 16)},
		"maps/sky.png":    {Data: pngFixture(t, 16, 16)},
	}
}

func TestLoadTMX(t *testing.T) {
	l := Loader{FS: testFS(t), Cache: NewTilesetCache()}
	m, err := l.LoadMap("maps/level1.tmx")
	if err != nil {
		t.Fatalf("LoadMap: %v", err)
	}

	if m.Width != 2 || m.Height != 2 || m.TileWidth != 8 || m.TileHeight != 8 {
		t.Fatalf("dimensions = %dx%d cells of %dx%d", m.Width, m.Height, m.TileWidth, m.TileHeight)
	}
	if m.PixelWidth() != 16 || m.PixelHeight() != 16 {
		t.Fatalf("pixel size = %dx%d", m.PixelWidth(), m.PixelHeight())
	}
	if m.Orientation != "orthogonal" || m.RenderOrder != "right-down" {
		t.Fatalf("orientation %q renderorder %q", m.Orientation, m.RenderOrder)
	}
	if m.BackgroundColor.A != 1 || m.BackgroundColor.B <= m.BackgroundColor.R {
		t.Fatalf("background = %+v", m.BackgroundColor)
	}

	if len(m.Tilesets) != 2 {
		t.Fatalf("got %d tilesets", len(m.Tilesets))
	}
	if m.Tilesets[1].Name != "props" || m.Tilesets[1].FirstGID != 5 {
		t.Fatalf("external tileset = %q firstgid %d", m.Tilesets[1].Name, m.Tilesets[1].FirstGID)
	}
	if len(m.Tilesets[1].Tiles) != 6 {
		t.Fatalf("external tileset sliced %d tiles", len(m.Tilesets[1].Tiles))
	}

	if len(m.TileLayers) != 2 {
		t.Fatalf("got %d tile layers", len(m.TileLayers))
	}
	floor := m.TileLayers[0]
	if floor.Name != "floor" || floor.Cell(1, 1) != 4 {
		t.Fatalf("floor cell(1,1) = %d", floor.Cell(1, 1))
	}
	if !floor.Visible || floor.Opacity != 1 {
		t.Fatal("floor should default to visible at full opacity")
	}
	deco := m.TileLayers[1]
	if deco.Visible || deco.Opacity != 0.5 {
		t.Fatalf("deco visible=%v opacity=%v", deco.Visible, deco.Opacity)
	}
	if deco.Tint.R != 1 || deco.Tint.G != 0 {
		t.Fatalf("deco tint = %+v", deco.Tint)
	}

	if len(m.ImageLayers) != 1 {
		t.Fatalf("got %d image layers", len(m.ImageLayers))
	}
	sky := m.ImageLayers[0]
	if sky.OffsetX != 4 || sky.OffsetY != -2 || sky.Image == nil {
		t.Fatalf("sky offset (%v,%v) image %v", sky.OffsetX, sky.OffsetY, sky.Image)
	}

	// Cell 5 is the external tileset's first tile.
	if m.ResolveTile(4) != m.Tilesets[1].Tiles[0] {
		t.Fatal("gid 5 should resolve into the external tileset")
	}
}

func TestLoadTMXObjects(t *testing.T) {
	l := Loader{FS: testFS(t), Cache: NewTilesetCache()}
	m, err := l.LoadMap("maps/level1.tmx")
	if err != nil {
		t.Fatalf("LoadMap: %v", err)
	}

	g, ok := m.ObjectGroupByName("spawns")
	if !ok {
		t.Fatal("spawns group missing")
	}
	if len(g.Objects) != 1 {
		t.Fatalf("got %d objects", len(g.Objects))
	}
	obj := g.Objects[0]
	if obj.Name != "player" || obj.Type != "spawn" || obj.X != 8 {
		t.Fatalf("object = %+v", obj)
	}
	if v, _ := obj.Properties.Get("team"); v != "red" {
		t.Fatalf("team = %q", v)
	}
	if obj.Properties.Int("hp", 0) != 3 {
		t.Fatal("hp should parse as 3")
	}
	if obj.Properties.Bool("elite", true) != true {
		t.Fatal("absent bool should fall back")
	}

	if _, ok := m.ObjectGroupByName("missing"); ok {
		t.Fatal("missing group should report !ok")
	}
}

func TestLoadTMXSortsLayers(t *testing.T) {
	l := Loader{FS: testFS(t), Cache: NewTilesetCache()}
	m, err := l.LoadMap("maps/level1.tmx")
	if err != nil {
		t.Fatalf("LoadMap: %v", err)
	}
	layers := m.Layers()
	if len(layers) != 3 {
		t.Fatalf("got %d layers", len(layers))
	}
	want := []int{1, 2, 3}
	for i, layer := range layers {
		if layer.LayerID() != want[i] {
			t.Fatalf("layer %d has id %d, want %d", i, layer.LayerID(), want[i])
		}
	}
	if layers[1].LayerName() != "sky" {
		t.Fatal("image layer should interleave by id")
	}
}

func TestLoadTMXSharedTilesetCache(t *testing.T) {
	fsys := testFS(t)
	cache := NewTilesetCache()
	l := Loader{FS: fsys, Cache: cache}

	first, err := l.LoadMap("maps/level1.tmx")
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	second, err := l.LoadMap("maps/level1.tmx")
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if first.Tilesets[1].Tiles[0] != second.Tilesets[1].Tiles[0] {
		t.Fatal("external tileset should be shared through the cache")
	}
}

func TestLoadTMXMissingData(t *testing.T) {
	doc := `<map width="1" height="1" tilewidth="8" tileheight="8">
 <layer id="1" name="broken" width="1" height="1"/>
</map>`
	var l Loader
	l.FS = fstest.MapFS{}
	if _, err := l.LoadMapData([]byte(doc), "."); !errors.Is(err, ErrMalformedDocument) {
		t.Fatalf("got %v, want ErrMalformedDocument", err)
	}
}

func TestLoadTMXShortLayerData(t *testing.T) {
	// Three cells for a 4x4 grid must be rejected at load, not left to
	// blow up in a later draw or optimize pass.
	doc := `<map width="4" height="4" tilewidth="8" tileheight="8">
 <layer id="1" name="short" width="4" height="4">
  <data encoding="csv">1,2,3</data>
 </layer>
</map>`
	var l Loader
	l.FS = fstest.MapFS{}
	if _, err := l.LoadMapData([]byte(doc), "."); !errors.Is(err, ErrMalformedDocument) {
		t.Fatalf("got %v, want ErrMalformedDocument", err)
	}
}

func TestLoadTMXBadColor(t *testing.T) {
	doc := `<map width="1" height="1" tilewidth="8" tileheight="8" backgroundcolor="#nope"/>`
	var l Loader
	l.FS = fstest.MapFS{}
	if _, err := l.LoadMapData([]byte(doc), "."); !errors.Is(err, ErrMalformedDocument) {
		t.Fatalf("got %v, want ErrMalformedDocument", err)
	}
}

func TestParseColorForms(t *testing.T) {
	c, err := parseColor("#80ff0000")
	if err != nil {
		t.Fatalf("parseColor: %v", err)
	}
	if c.R != 1 || c.A < 0.5 || c.A > 0.51 {
		t.Fatalf("argb = %+v", c)
	}
	c, err = parseColor("")
	if err != nil || c.A != 0 {
		t.Fatalf("empty color = %+v, %v", c, err)
	}
}

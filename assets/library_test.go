package assets

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/png"
	"testing"
	"testing/fstest"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

// puppetBytes assembles a minimal puppet container: header magic, document
// length and body, texture magic, then one PNG texture blob.
func puppetBytes(t *testing.T) []byte {
	t.Helper()
	doc := `{
  "meta": {"name": "hero", "version": "1.0"},
  "nodes": {
    "type": "Node", "uuid": 1, "zsort": 0,
    "children": [
      {"type": "Part", "uuid": 2, "name": "body", "zsort": 1,
       "mesh": {"verts": [0,0, 16,0, 0,16, 16,16]},
       "textures": [0]}
    ]
  }
}`
	tex := pngBytes(t, 16, 16)

	var buf bytes.Buffer
	buf.WriteString("TRNSRTS\x00")
	writeU32(&buf, uint32(len(doc)))
	buf.WriteString(doc)
	buf.WriteString("TEX_SECT")
	writeU32(&buf, 1)
	writeU32(&buf, uint32(len(tex)))
	buf.WriteByte(0)
	buf.Write(tex)
	return buf.Bytes()
}

func writeU32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

const manifestYAML = `puppets:
  hero: puppets/hero.pup
maps:
  level1: maps/level1.tmj
images:
  logo: art/logo.png
`

func assetFS(t *testing.T) fstest.MapFS {
	t.Helper()
	mapDoc := `{
  "type": "map", "width": 2, "height": 2, "tilewidth": 8, "tileheight": 8,
  "tilesets": [{"firstgid": 1, "name": "ground", "image": "ground.png",
    "tilewidth": 8, "tileheight": 8, "tilecount": 4, "columns": 2}],
  "layers": [{"type": "tilelayer", "id": 1, "name": "floor",
    "width": 2, "height": 2, "data": [1, 2, 3, 4]}]
}`
	return fstest.MapFS{
		"game/manifest.yaml":    {Data: []byte(manifestYAML)},
		"game/puppets/hero.pup": {Data: puppetBytes(t)},
		"game/maps/level1.tmj":  {Data: []byte(mapDoc)},
		"game/maps/ground.png":  {Data: pngBytes(t, 16, 16)},
		"game/art/logo.png":     {Data: pngBytes(t, 32, 8)},
	}
}

func TestLoadLibrary(t *testing.T) {
	l := Loader{FS: assetFS(t)}
	lib, err := l.Load("game/manifest.yaml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	p, ok := lib.Puppet("hero")
	if !ok {
		t.Fatal("hero puppet missing")
	}
	if p.Meta.Name != "hero" || p.FindNode("body") == nil {
		t.Fatalf("hero = %+v", p.Meta)
	}
	if len(p.Textures) != 1 {
		t.Fatalf("hero has %d textures", len(p.Textures))
	}

	m, ok := lib.Map("level1")
	if !ok {
		t.Fatal("level1 map missing")
	}
	if m.Width != 2 || len(m.TileLayers) != 1 {
		t.Fatalf("level1 = %dx%d with %d tile layers", m.Width, m.Height, len(m.TileLayers))
	}

	img, ok := lib.Image("logo")
	if !ok {
		t.Fatal("logo image missing")
	}
	if img.Bounds().Dx() != 32 {
		t.Fatalf("logo width = %d", img.Bounds().Dx())
	}

	if _, ok := lib.Puppet("villain"); ok {
		t.Fatal("unknown name should report !ok")
	}
}

func TestLoadLibraryOptimizesMaps(t *testing.T) {
	fsys := assetFS(t)
	fsys["game/manifest.yaml"] = &fstest.MapFile{Data: []byte(manifestYAML + "optimize_maps: true\n")}

	l := Loader{FS: fsys}
	lib, err := l.Load("game/manifest.yaml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	m, _ := lib.Map("level1")
	if len(m.TileLayers) != 0 {
		t.Fatal("maps should load pre-flattened")
	}
	if len(m.Layers()) != 1 {
		t.Fatalf("got %d layers", len(m.Layers()))
	}
}

func TestLoadLibraryMissingAsset(t *testing.T) {
	fsys := assetFS(t)
	delete(fsys, "game/art/logo.png")

	l := Loader{FS: fsys}
	if _, err := l.Load("game/manifest.yaml"); err == nil {
		t.Fatal("missing image should fail the load")
	}
}

func TestParseManifestBadYAML(t *testing.T) {
	if _, err := ParseManifest([]byte("puppets: [unclosed")); err == nil {
		t.Fatal("bad yaml should error")
	}
}

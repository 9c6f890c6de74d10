package tiled

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/rowan"
)

func layeredMap() *Map {
	m := twoTilesetMap()
	m.TileLayers = []*TileLayer{
		{ID: 1, Name: "floor", Width: 4, Height: 4, Opacity: 1, Visible: true,
			Tint: rowan.ColorWhite, Data: make([]uint32, 16)},
		{ID: 3, Name: "deco", Width: 4, Height: 4, Opacity: 0.5, Visible: false,
			OffsetX: 4, OffsetY: -4, Tint: rowan.Color{R: 1, A: 1},
			Data: []uint32{1, 2, 0, 0, 5, FlipH | 6, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}},
	}
	m.ImageLayers = []*ImageLayer{
		{ID: 2, Name: "sky", Opacity: 1, Visible: true, Tint: rowan.ColorWhite,
			Image: ebiten.NewImage(32, 32)},
	}
	m.Sort()
	return m
}

func TestSortOrders(t *testing.T) {
	m := layeredMap()
	layers := m.Layers()
	if len(layers) != 3 {
		t.Fatalf("got %d layers", len(layers))
	}
	for i, want := range []int{1, 2, 3} {
		if layers[i].LayerID() != want {
			t.Fatalf("layer %d id = %d, want %d", i, layers[i].LayerID(), want)
		}
	}
}

func TestSortStableOnDuplicateIDs(t *testing.T) {
	m := &Map{
		TileLayers: []*TileLayer{
			{ID: 1, Name: "a"},
			{ID: 1, Name: "b"},
		},
	}
	m.Sort()
	if m.Layers()[0].LayerName() != "a" || m.Layers()[1].LayerName() != "b" {
		t.Fatal("equal ids should keep insertion order")
	}
}

func TestOptimizeFlattensTileLayers(t *testing.T) {
	m := layeredMap()
	m.Optimize()

	if len(m.TileLayers) != 0 {
		t.Fatalf("%d tile layers remain", len(m.TileLayers))
	}
	layers := m.Layers()
	if len(layers) != 3 {
		t.Fatalf("got %d layers after optimize", len(layers))
	}
	for i, want := range []int{1, 2, 3} {
		il, ok := layers[i].(*ImageLayer)
		if !ok {
			t.Fatalf("layer %d is still a tile layer", i)
		}
		if il.ID != want {
			t.Fatalf("layer %d id = %d, want %d", i, il.ID, want)
		}
	}
}

func TestOptimizeCarriesLayerStyle(t *testing.T) {
	m := layeredMap()
	m.Optimize()

	var deco *ImageLayer
	for _, layer := range m.Layers() {
		if layer.LayerName() == "deco" {
			deco = layer.(*ImageLayer)
		}
	}
	if deco == nil {
		t.Fatal("deco layer missing after optimize")
	}
	if deco.Opacity != 0.5 || deco.Visible || deco.OffsetX != 4 || deco.OffsetY != -4 {
		t.Fatalf("deco style = %+v", deco)
	}
	if deco.Tint.R != 1 || deco.Tint.G != 0 {
		t.Fatalf("deco tint = %+v", deco.Tint)
	}
	if deco.Source != "" {
		t.Fatal("flattened layer should have no file source")
	}
	if deco.Image == nil {
		t.Fatal("flattened layer should carry an image")
	}
	b := deco.Image.Bounds()
	if b.Dx() != m.PixelWidth() || b.Dy() != m.PixelHeight() {
		t.Fatalf("flattened image is %dx%d, want %dx%d",
			b.Dx(), b.Dy(), m.PixelWidth(), m.PixelHeight())
	}
}

func TestOptimizeIdempotent(t *testing.T) {
	m := layeredMap()
	m.Optimize()
	first := m.Layers()[0].(*ImageLayer).Image
	m.Optimize()
	if m.Layers()[0].(*ImageLayer).Image != first {
		t.Fatal("second optimize should be a no-op")
	}
	if len(m.Layers()) != 3 {
		t.Fatalf("got %d layers", len(m.Layers()))
	}
}

func TestOptimizeLeavesResolveForRemainingTilesets(t *testing.T) {
	m := layeredMap()
	m.Optimize()
	// Tilesets survive; only the cell grids are gone.
	if m.ResolveTile(0) == nil {
		t.Fatal("tileset resolution should survive optimize")
	}
}

package tiled

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestUVOrderIsPermutation(t *testing.T) {
	for flags, order := range uvOrder {
		var seen [4]bool
		for _, idx := range order {
			if idx < 0 || idx > 3 || seen[idx] {
				t.Fatalf("flags %d: order %v is not a corner permutation", flags, order)
			}
			seen[idx] = true
		}
	}
}

func TestUVOrderFlipsInvert(t *testing.T) {
	// Applying H flip twice must restore the identity assignment.
	h := uvOrder[4]
	for i := range h {
		if h[h[i]] != i {
			t.Fatalf("H flip is not an involution: %v", h)
		}
	}
	v := uvOrder[2]
	for i := range v {
		if v[v[i]] != i {
			t.Fatalf("V flip is not an involution: %v", v)
		}
	}
}

func TestDrawSmoke(t *testing.T) {
	m := layeredMap()
	m.TileLayers[1].Visible = true
	m.Sort()
	dst := ebiten.NewImage(64, 64)
	m.Draw(dst, 8, 8)
}

func TestDrawSkipsUnsliceableCells(t *testing.T) {
	m := twoTilesetMap()
	m.TileLayers = []*TileLayer{{
		ID: 1, Name: "floor", Width: 2, Height: 2,
		Opacity: 1, Visible: true,
		// Cell 99 is past every tileset; cell 0 is empty.
		Data: []uint32{1, 99, 0, 4},
	}}
	m.Sort()
	dst := ebiten.NewImage(64, 64)
	m.Draw(dst, 0, 0)
}

func TestDrawAfterOptimize(t *testing.T) {
	m := layeredMap()
	m.Optimize()
	dst := ebiten.NewImage(64, 64)
	m.Draw(dst, 0, 0)
}

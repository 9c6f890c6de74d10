package tiled

import (
	"log"
	"sort"

	"github.com/phanxgames/rowan"
)

// Sort rebuilds the drawable layer list from the map's tile and image
// layers, ordered by ascending layer id. Layers sharing an id keep their
// existing relative order. Object groups are metadata and never drawn.
func (m *Map) Sort() {
	m.layers = m.layers[:0]
	for _, l := range m.TileLayers {
		m.layers = append(m.layers, l)
	}
	for _, l := range m.ImageLayers {
		m.layers = append(m.layers, l)
	}
	sort.SliceStable(m.layers, func(i, j int) bool {
		return m.layers[i].LayerID() < m.layers[j].LayerID()
	})
}

// Layers returns the drawable layers in draw order. The slice is owned by
// the map; callers must not modify it.
func (m *Map) Layers() []Layer {
	return m.layers
}

// Optimize flattens every tile layer into a static image layer so the map
// draws with one blit per layer instead of one quad per cell. Each tile
// layer is rendered alone, untinted and at full opacity, onto a transparent
// target the size of the map; the resulting image layer inherits the tile
// layer's id, name, offset, opacity, tint and visibility so later styling
// still applies once. The conversion is one-directional: the cell data is
// discarded and ResolveTile lookups against the converted layers are gone.
func (m *Map) Optimize() {
	converted := 0
	for _, layer := range m.layers {
		tl, ok := layer.(*TileLayer)
		if !ok {
			continue
		}
		rt := rowan.NewRenderTexture(m.PixelWidth(), m.PixelHeight())
		m.renderTileLayer(rt.Image(), tl, 0, 0, rowan.ColorWhite, 1)
		m.ImageLayers = append(m.ImageLayers, &ImageLayer{
			ID:      tl.ID,
			Name:    tl.Name,
			OffsetX: tl.OffsetX,
			OffsetY: tl.OffsetY,
			Opacity: tl.Opacity,
			Tint:    tl.Tint,
			Visible: tl.Visible,
			Image:   rt.Image(),
		})
		converted++
	}
	if converted == 0 {
		return
	}
	m.TileLayers = nil
	m.Sort()
	if debugEnabled {
		log.Printf("tiled: optimize flattened %d tile layers", converted)
	}
}

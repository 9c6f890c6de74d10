package tiled

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/rowan"
)

// uvOrder defines vertex UV assignment for each combination of flip flags.
// Indexed by 3-bit flag value: (flipH << 2) | (flipV << 1) | flipD.
// Each entry contains 4 corner indices: TL=0, TR=1, BL=2, BR=3;
// result[i] is which source corner goes to vertex position i.
var uvOrder = [8][4]int{
	{0, 1, 2, 3}, // no flags
	{2, 0, 3, 1}, // D only (90 CW + H flip)
	{2, 3, 0, 1}, // V flip
	{3, 2, 1, 0}, // V+D (90 CCW)
	{1, 0, 3, 2}, // H flip
	{0, 2, 1, 3}, // H+D (90 CW)
	{3, 2, 1, 0}, // H+V
	{1, 3, 0, 2}, // H+V+D (90 CW + V flip)
}

// quadIndices is the fixed two-triangle topology of a tile quad.
var quadIndices = []uint16{0, 1, 2, 1, 3, 2}

// drawTile draws one tile of a tileset at (x, y) on dst, applying flip flags
// through the UV order table and tinting all four corners.
func drawTile(dst *ebiten.Image, ts *Tileset, local int, flags uint32, x, y float64, tint rowan.Color, opacity float64) {
	if local < 0 || local >= len(ts.rects) {
		return
	}
	r := ts.rects[local]

	// The four UV corners: TL(0), TR(1), BL(2), BR(3).
	uvX := [4]float32{float32(r.Min.X), float32(r.Max.X), float32(r.Min.X), float32(r.Max.X)}
	uvY := [4]float32{float32(r.Min.Y), float32(r.Min.Y), float32(r.Max.Y), float32(r.Max.Y)}

	flagIdx := 0
	if flags&FlipH != 0 {
		flagIdx |= 4
	}
	if flags&FlipV != 0 {
		flagIdx |= 2
	}
	if flags&FlipD != 0 {
		flagIdx |= 1
	}
	order := uvOrder[flagIdx]

	alpha := float32(tint.A * opacity)
	cr := float32(tint.R) * alpha
	cg := float32(tint.G) * alpha
	cb := float32(tint.B) * alpha

	x0 := float32(x)
	y0 := float32(y)
	x1 := x0 + float32(ts.TileWidth)
	y1 := y0 + float32(ts.TileHeight)

	verts := [4]ebiten.Vertex{
		{DstX: x0, DstY: y0},
		{DstX: x1, DstY: y0},
		{DstX: x0, DstY: y1},
		{DstX: x1, DstY: y1},
	}
	for i := range verts {
		verts[i].SrcX = uvX[order[i]]
		verts[i].SrcY = uvY[order[i]]
		verts[i].ColorR = cr
		verts[i].ColorG = cg
		verts[i].ColorB = cb
		verts[i].ColorA = alpha
	}

	dst.DrawTriangles(verts[:], quadIndices, ts.Image, nil)
}

// renderTileLayer draws every non-empty cell of a tile layer onto dst at the
// given origin, with the supplied tint and opacity.
func (m *Map) renderTileLayer(dst *ebiten.Image, l *TileLayer, ox, oy float64, tint rowan.Color, opacity float64) {
	for row := 0; row < l.Height; row++ {
		for col := 0; col < l.Width; col++ {
			cell := l.Data[row*l.Width+col]
			if cell == 0 {
				continue
			}
			flags := cell & flagMask
			ts, local := m.resolve(int(cell&^flagMask) - 1)
			if ts == nil || ts.Image == nil {
				continue
			}
			drawTile(dst, ts, local, flags,
				ox+float64(col*m.TileWidth),
				oy+float64(row*m.TileHeight),
				tint, opacity)
		}
	}
}

// Draw renders the map's sorted layer list onto dst with the given origin.
// Invisible layers are skipped; tile layers draw per cell and image layers
// as single blits, so an optimized map costs one draw per layer.
func (m *Map) Draw(dst *ebiten.Image, ox, oy float64) {
	for _, layer := range m.layers {
		switch l := layer.(type) {
		case *TileLayer:
			if !l.Visible {
				continue
			}
			m.renderTileLayer(dst, l, ox+l.OffsetX, oy+l.OffsetY, l.Tint, l.Opacity)
		case *ImageLayer:
			if !l.Visible || l.Image == nil {
				continue
			}
			var op ebiten.DrawImageOptions
			op.GeoM.Translate(ox+l.OffsetX, oy+l.OffsetY)
			op.ColorScale.Scale(
				float32(l.Tint.R*l.Tint.A*l.Opacity),
				float32(l.Tint.G*l.Tint.A*l.Opacity),
				float32(l.Tint.B*l.Tint.A*l.Opacity),
				float32(l.Tint.A*l.Opacity),
			)
			dst.DrawImage(l.Image, &op)
		}
	}
}

package puppet

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	xdraw "golang.org/x/image/draw"

	"github.com/phanxgames/rowan"
)

// DrawOptions positions and tints a puppet draw.
type DrawOptions struct {
	// X and Y offset the puppet's origin on the destination, in pixels.
	X, Y float64
	// Scale is a uniform scale factor. Zero defaults to 1.
	Scale float64
	// Tint is a multiplicative color. Zero value defaults to white.
	Tint rowan.Color
	// Blend selects the compositing operation.
	Blend rowan.BlendMode
}

// Draw renders the puppet's resolved draw list onto dst, in draw-list order
// (descending effective depth). Each part's mesh is transformed by its world
// matrix, tinted by the part opacity and the options tint, and drawn with
// from its first texture slot via DrawTriangles.
func (p *Puppet) Draw(dst *ebiten.Image, opts DrawOptions) {
	scale := opts.Scale
	if scale == 0 {
		scale = 1
	}
	tint := opts.Tint
	if tint == (rowan.Color{}) {
		tint = rowan.ColorWhite
	}

	var triOpts ebiten.DrawTrianglesOptions
	triOpts.Blend = opts.Blend.EbitenBlend()

	for _, part := range p.drawList {
		tex := p.partTexture(part)
		if tex == nil || part.Mesh == nil {
			continue
		}
		verts := buildPartVertices(part, tex, opts.X, opts.Y, scale, tint)
		dst.DrawTriangles(verts, part.Mesh.TriangleIndices(), tex.GPU(), &triOpts)
	}
}

// partTexture returns the texture for the part's first slot, or nil if the
// part has no slots or the slot index is out of range.
func (p *Puppet) partTexture(part *Node) *Texture {
	if len(part.Textures) == 0 {
		return nil
	}
	slot := part.Textures[0]
	if slot < 0 || slot >= len(p.Textures) {
		return nil
	}
	return p.Textures[slot]
}

// buildPartVertices converts the part's interleaved mesh buffer into ebiten
// vertices: positions through the world matrix plus the draw offset, UVs
// scaled to texel coordinates, color premultiplied.
func buildPartVertices(part *Node, tex *Texture, dx, dy, scale float64, tint rowan.Color) []ebiten.Vertex {
	buf := part.Mesh.Interleaved()
	world := part.WorldTransform()
	bounds := tex.Image.Bounds()
	tw := float32(bounds.Dx())
	th := float32(bounds.Dy())

	alpha := float32(tint.A * part.Opacity)
	cr := float32(tint.R) * alpha
	cg := float32(tint.G) * alpha
	cb := float32(tint.B) * alpha

	n := len(buf) / 4
	verts := make([]ebiten.Vertex, n)
	for i := 0; i < n; i++ {
		pos := world.Apply(rowan.Vec2{
			X: float64(buf[i*4]),
			Y: float64(buf[i*4+1]),
		})
		verts[i] = ebiten.Vertex{
			DstX:   float32(pos.X*scale + dx),
			DstY:   float32(pos.Y*scale + dy),
			SrcX:   buf[i*4+2] * tw,
			SrcY:   buf[i*4+3] * th,
			ColorR: cr,
			ColorG: cg,
			ColorB: cb,
			ColorA: alpha,
		}
	}
	return verts
}

// Bounds returns the world-space axis-aligned bounding box of every part in
// the current draw list. A puppet with no drawable content returns the zero
// rect.
func (p *Puppet) Bounds() rowan.Rect {
	minX := math.Inf(1)
	minY := math.Inf(1)
	maxX := math.Inf(-1)
	maxY := math.Inf(-1)
	found := false

	for _, part := range p.drawList {
		if part.Mesh == nil {
			continue
		}
		world := part.WorldTransform()
		verts := part.Mesh.Verts
		for i := 0; i < len(verts)/2; i++ {
			pos := world.Apply(rowan.Vec2{
				X: float64(verts[i*2]),
				Y: float64(verts[i*2+1]),
			})
			minX = math.Min(minX, pos.X)
			minY = math.Min(minY, pos.Y)
			maxX = math.Max(maxX, pos.X)
			maxY = math.Max(maxY, pos.Y)
			found = true
		}
	}
	if !found {
		return rowan.Rect{}
	}
	return rowan.Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Thumbnail renders the puppet into an offscreen target sized to its bounds
// and downscales the capture so its longest edge is maxSize pixels. Returns
// nil for a puppet with no drawable content.
func (p *Puppet) Thumbnail(maxSize int) *image.NRGBA {
	bounds := p.Bounds()
	w := int(math.Ceil(bounds.Width))
	h := int(math.Ceil(bounds.Height))
	if w <= 0 || h <= 0 {
		return nil
	}

	rt := rowan.NewRenderTexture(w, h)
	defer rt.Dispose()
	p.Draw(rt.Image(), DrawOptions{X: -bounds.X, Y: -bounds.Y})
	full := rt.Capture()

	tw, th := w, h
	if w >= h {
		tw = maxSize
		th = h * maxSize / w
	} else {
		th = maxSize
		tw = w * maxSize / h
	}
	if tw < 1 {
		tw = 1
	}
	if th < 1 {
		th = 1
	}
	thumb := image.NewNRGBA(image.Rect(0, 0, tw, th))
	xdraw.ApproxBiLinear.Scale(thumb, thumb.Bounds(), full, full.Bounds(), xdraw.Over, nil)
	return thumb
}

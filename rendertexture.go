package rowan

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
)

// RenderTexture is a persistent offscreen canvas. Unlike the scratch images
// ebiten pools internally, a RenderTexture is owned by the caller and is NOT
// recycled between frames. The tiled optimize pass renders each flattened
// layer into one of these.
type RenderTexture struct {
	image *ebiten.Image
	w, h  int
}

// NewRenderTexture creates a persistent offscreen canvas of the given size,
// initially transparent.
func NewRenderTexture(w, h int) *RenderTexture {
	return &RenderTexture{
		image: ebiten.NewImage(w, h),
		w:     w,
		h:     h,
	}
}

// Image returns the underlying *ebiten.Image for direct manipulation.
func (rt *RenderTexture) Image() *ebiten.Image {
	return rt.image
}

// Width returns the texture width in pixels.
func (rt *RenderTexture) Width() int {
	return rt.w
}

// Height returns the texture height in pixels.
func (rt *RenderTexture) Height() int {
	return rt.h
}

// Clear fills the texture with transparent black.
func (rt *RenderTexture) Clear() {
	rt.image.Clear()
}

// Fill fills the entire texture with the given color.
func (rt *RenderTexture) Fill(c Color) {
	rt.image.Fill(c.RGBA())
}

// DrawImageAt draws src at the given position with the specified blend mode.
func (rt *RenderTexture) DrawImageAt(src *ebiten.Image, x, y float64, blend BlendMode) {
	var op ebiten.DrawImageOptions
	op.GeoM.Translate(x, y)
	op.Blend = blend.EbitenBlend()
	rt.image.DrawImage(src, &op)
}

// DrawImageTinted draws src at (x, y) with a multiplicative tint and opacity.
func (rt *RenderTexture) DrawImageTinted(src *ebiten.Image, x, y float64, tint Color, opacity float64, blend BlendMode) {
	var op ebiten.DrawImageOptions
	op.GeoM.Translate(x, y)
	op.ColorScale.Scale(
		float32(tint.R*tint.A*opacity),
		float32(tint.G*tint.A*opacity),
		float32(tint.B*tint.A*opacity),
		float32(tint.A*opacity),
	)
	op.Blend = blend.EbitenBlend()
	rt.image.DrawImage(src, &op)
}

// Capture reads the texture's pixels back from the GPU and returns them as a
// straight-alpha NRGBA image. This is a synchronous round-trip; use sparingly.
func (rt *RenderTexture) Capture() *image.NRGBA {
	pixels := make([]byte, 4*rt.w*rt.h)
	rt.image.ReadPixels(pixels)

	// ReadPixels yields premultiplied RGBA; convert to straight alpha.
	img := image.NewNRGBA(image.Rect(0, 0, rt.w, rt.h))
	for i := 0; i < len(pixels); i += 4 {
		r, g, b, a := pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]
		if a > 0 && a < 255 {
			r = uint8(min(int(r)*255/int(a), 255))
			g = uint8(min(int(g)*255/int(a), 255))
			b = uint8(min(int(b)*255/int(a), 255))
		}
		img.Pix[i] = r
		img.Pix[i+1] = g
		img.Pix[i+2] = b
		img.Pix[i+3] = a
	}
	return img
}

// Resize deallocates the old image and creates a new one at the given dimensions.
func (rt *RenderTexture) Resize(width, height int) {
	if globalDebug {
		fmt.Fprintf(os.Stderr, "[rowan] render texture resize %dx%d -> %dx%d\n", rt.w, rt.h, width, height)
	}
	if rt.image != nil {
		rt.image.Deallocate()
	}
	rt.image = ebiten.NewImage(width, height)
	rt.w = width
	rt.h = height
}

// Dispose deallocates the underlying image. The RenderTexture should not be
// used after calling Dispose.
func (rt *RenderTexture) Dispose() {
	if rt.image != nil {
		rt.image.Deallocate()
		rt.image = nil
	}
}

// WritePNG encodes img as a PNG file at path.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("rowan: create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("rowan: encode %s: %w", path, err)
	}
	return f.Close()
}

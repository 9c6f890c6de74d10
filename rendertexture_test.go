package rowan

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestRenderTextureLifecycle(t *testing.T) {
	rt := NewRenderTexture(64, 32)
	if rt.Width() != 64 || rt.Height() != 32 {
		t.Fatalf("size = %dx%d", rt.Width(), rt.Height())
	}
	if rt.Image() == nil {
		t.Fatal("backing image missing")
	}

	rt.Fill(Color{R: 1, A: 1})
	rt.Clear()
	rt.DrawImageAt(ebiten.NewImage(8, 8), 4, 4, BlendAdd)
	rt.DrawImageTinted(ebiten.NewImage(8, 8), 0, 0, ColorWhite, 0.5, BlendNormal)

	rt.Resize(16, 16)
	if rt.Width() != 16 || rt.Height() != 16 {
		t.Fatalf("resized to %dx%d", rt.Width(), rt.Height())
	}
	b := rt.Image().Bounds()
	if b.Dx() != 16 || b.Dy() != 16 {
		t.Fatalf("backing image is %dx%d", b.Dx(), b.Dy())
	}

	rt.Dispose()
	if rt.Image() != nil {
		t.Fatal("disposed texture should drop its image")
	}
}

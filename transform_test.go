package rowan

import (
	"math"
	"testing"
)

func matNear(t *testing.T, got, want Mat4) {
	t.Helper()
	for i := 0; i < 16; i++ {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Fatalf("matrix mismatch at [%d]: got %v want %v\ngot:  %v\nwant: %v", i, got[i], want[i], got, want)
		}
	}
}

func TestMat4MulIdentity(t *testing.T) {
	m := Mat4Translation(3, -2, 0).Mul(Mat4Scaling(2, 0.5, 1))
	matNear(t, m.Mul(Mat4Identity()), m)
	matNear(t, Mat4Identity().Mul(m), m)
}

func TestMat4Apply(t *testing.T) {
	m := Mat4Translation(10, 20, 0)
	p := m.Apply(Vec2{X: 1, Y: 2})
	if p.X != 11 || p.Y != 22 {
		t.Fatalf("apply = %+v, want (11, 22)", p)
	}

	m = Mat4Scaling(2, 3, 1)
	p = m.Apply(Vec2{X: 1, Y: 2})
	if p.X != 2 || p.Y != 6 {
		t.Fatalf("apply = %+v, want (2, 6)", p)
	}
}

func TestTransformIdentity(t *testing.T) {
	matNear(t, IdentityTransform().Matrix(), Mat4Identity())
}

func TestTransformComposition(t *testing.T) {
	tr := IdentityTransform()
	tr.Translation = [3]float64{5, 7, 0}
	tr.Scale = [2]float64{2, 2}

	// Scale applies before translation.
	p := tr.Matrix().Apply(Vec2{X: 1, Y: 1})
	if p.X != 7 || p.Y != 9 {
		t.Fatalf("point = %+v, want (7, 9)", p)
	}
}

func TestTransformRotationSignFlip(t *testing.T) {
	tr := IdentityTransform()
	tr.Rotation = [3]float64{0, 0, math.Pi / 2}

	// Stored +90 degrees around Z becomes -90 in the matrix.
	p := tr.Matrix().Apply(Vec2{X: 1, Y: 0})
	if math.Abs(p.X) > 1e-9 || math.Abs(p.Y-(-1)) > 1e-9 {
		t.Fatalf("rotated point = %+v, want (0, -1)", p)
	}
}

func TestTransformAxisLocks(t *testing.T) {
	tr := IdentityTransform()
	tr.Translation = [3]float64{5, 7, 0}
	tr.Rotation = [3]float64{0, 0, math.Pi}
	tr.Scale = [2]float64{4, 4}
	tr.TranslationLock = [3]bool{true, true, true}
	tr.RotationLock = [3]bool{true, true, true}
	tr.ScaleLock = [2]bool{true, true}

	// Every axis locked: stored values are ignored entirely.
	matNear(t, tr.Matrix(), Mat4Identity())

	// Unlock just translation Y.
	tr.TranslationLock[1] = false
	p := tr.Matrix().Apply(Vec2{})
	if p.X != 0 || p.Y != 7 {
		t.Fatalf("point = %+v, want (0, 7)", p)
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 20, Height: 20}
	if !r.Contains(10, 10) || !r.Contains(30, 30) || !r.Contains(15, 25) {
		t.Error("expected points inside")
	}
	if r.Contains(9.9, 15) || r.Contains(15, 30.1) {
		t.Error("expected points outside")
	}
}

func TestColorRGBAPremultiplies(t *testing.T) {
	c := Color{R: 1, G: 0.5, B: 0, A: 0.5}
	got := c.RGBA()
	if got.A != 127 {
		t.Fatalf("alpha = %d, want 127", got.A)
	}
	if got.R != 127 {
		t.Fatalf("red = %d, want 127 (premultiplied)", got.R)
	}
}

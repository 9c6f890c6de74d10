package rowan

import "math"

// Mat4 is a 4x4 matrix stored row-major:
//
//	| m0  m1  m2  m3  |
//	| m4  m5  m6  m7  |
//	| m8  m9  m10 m11 |
//	| m12 m13 m14 m15 |
type Mat4 [16]float64

// Mat4Identity returns the identity matrix.
func Mat4Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mul returns m x other.
func (m Mat4) Mul(other Mat4) Mat4 {
	var out Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			out[r*4+c] = m[r*4+0]*other[0*4+c] + m[r*4+1]*other[1*4+c] +
				m[r*4+2]*other[2*4+c] + m[r*4+3]*other[3*4+c]
		}
	}
	return out
}

// Apply transforms a 2D point (z=0, w=1) by the matrix.
func (m Mat4) Apply(v Vec2) Vec2 {
	return Vec2{
		X: m[0]*v.X + m[1]*v.Y + m[3],
		Y: m[4]*v.X + m[5]*v.Y + m[7],
	}
}

// Mat4Translation builds a translation matrix.
func Mat4Translation(x, y, z float64) Mat4 {
	return Mat4{
		1, 0, 0, x,
		0, 1, 0, y,
		0, 0, 1, z,
		0, 0, 0, 1,
	}
}

// Mat4Scaling builds a scaling matrix.
func Mat4Scaling(x, y, z float64) Mat4 {
	return Mat4{
		x, 0, 0, 0,
		0, y, 0, 0,
		0, 0, z, 0,
		0, 0, 0, 1,
	}
}

// Mat4RotationEuler builds a rotation matrix from Euler angles in radians,
// applied in Z, then Y, then X order (Rx * Ry * Rz).
func Mat4RotationEuler(rx, ry, rz float64) Mat4 {
	sx, cx := math.Sincos(rx)
	sy, cy := math.Sincos(ry)
	sz, cz := math.Sincos(rz)

	x := Mat4{
		1, 0, 0, 0,
		0, cx, -sx, 0,
		0, sx, cx, 0,
		0, 0, 0, 1,
	}
	y := Mat4{
		cy, 0, sy, 0,
		0, 1, 0, 0,
		-sy, 0, cy, 0,
		0, 0, 0, 1,
	}
	z := Mat4{
		cz, -sz, 0, 0,
		sz, cz, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
	return x.Mul(y).Mul(z)
}

// Transform is a 3-axis translation, 3-axis Euler rotation (radians), and
// 2-axis scale. Each axis can be locked independently: a locked axis
// contributes its identity value (zero translation/rotation, unit scale) to
// the matrix regardless of the stored value.
type Transform struct {
	Translation [3]float64
	Rotation    [3]float64
	Scale       [2]float64

	TranslationLock [3]bool
	RotationLock    [3]bool
	ScaleLock       [2]bool
}

// IdentityTransform returns a transform producing the identity matrix.
func IdentityTransform() Transform {
	return Transform{Scale: [2]float64{1, 1}}
}

// Matrix builds the local matrix: translate * rotate * scale. The rotation
// angles are negated — the puppet wire format stores them sign-flipped, and
// the convention has to be preserved for assets to load the way they were
// authored.
func (t Transform) Matrix() Mat4 {
	var tr [3]float64
	for i := 0; i < 3; i++ {
		if !t.TranslationLock[i] {
			tr[i] = t.Translation[i]
		}
	}
	var rot [3]float64
	for i := 0; i < 3; i++ {
		if !t.RotationLock[i] {
			rot[i] = t.Rotation[i]
		}
	}
	sc := [2]float64{1, 1}
	for i := 0; i < 2; i++ {
		if !t.ScaleLock[i] {
			sc[i] = t.Scale[i]
		}
	}

	m := Mat4Translation(tr[0], tr[1], tr[2])
	m = m.Mul(Mat4RotationEuler(-rot[0], -rot[1], -rot[2]))
	return m.Mul(Mat4Scaling(sc[0], sc[1], 1))
}

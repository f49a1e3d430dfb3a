package vmath

import "github.com/hulkholden/gpubind/common/math32"

// M2, M3 and M4 are column-major square matrices.
type (
	M2 [4]float32
	M3 [9]float32
	M4 [16]float32
)

func IdentityM4() M4 {
	return M4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// At returns the element in the given column and row.
func (m M4) At(col, row int) float32 { return m[col*4+row] }

func (m M4) Mul(n M4) M4 {
	var r M4
	for c := 0; c < 4; c++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m.At(k, row) * n.At(c, k)
			}
			r[c*4+row] = sum
		}
	}
	return r
}

func (m M4) MulV4(v V4) V4 {
	return V4{
		X: m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12]*v.W,
		Y: m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13]*v.W,
		Z: m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14]*v.W,
		W: m[3]*v.X + m[7]*v.Y + m[11]*v.Z + m[15]*v.W,
	}
}

func (m M4) Transpose() M4 {
	var r M4
	for c := 0; c < 4; c++ {
		for row := 0; row < 4; row++ {
			r[row*4+c] = m[c*4+row]
		}
	}
	return r
}

func TranslateM4(t V3) M4 {
	m := IdentityM4()
	m[12], m[13], m[14] = t.X, t.Y, t.Z
	return m
}

func ScaleM4(s V3) M4 {
	m := IdentityM4()
	m[0], m[5], m[10] = s.X, s.Y, s.Z
	return m
}

// PerspectiveM4 builds a right-handed projection mapping depth to [0, 1].
func PerspectiveM4(fovY, aspect, near, far float32) M4 {
	f := 1 / math32.Tan(fovY/2)
	nf := 1 / (near - far)
	return M4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, far * nf, -1,
		0, 0, far * near * nf, 0,
	}
}

func LookAtM4(eye, center, up V3) M4 {
	f := center.Sub(eye).Normalize()
	s := f.Cross(up).Normalize()
	u := s.Cross(f)
	return M4{
		s.X, u.X, -f.X, 0,
		s.Y, u.Y, -f.Y, 0,
		s.Z, u.Z, -f.Z, 0,
		-s.Dot(eye), -u.Dot(eye), f.Dot(eye), 1,
	}
}

package vmath

import (
	"fmt"

	"github.com/hulkholden/gpubind/common/math32"
)

type V3 struct {
	X, Y, Z float32
}

func NewV3(x, y, z float32) V3 { return V3{X: x, Y: y, Z: z} }

func (v V3) String() string {
	return fmt.Sprintf("{%f, %f, %f}", v.X, v.Y, v.Z)
}

func (v V3) Add(w V3) V3        { return V3{X: v.X + w.X, Y: v.Y + w.Y, Z: v.Z + w.Z} }
func (v V3) Sub(w V3) V3        { return V3{X: v.X - w.X, Y: v.Y - w.Y, Z: v.Z - w.Z} }
func (v V3) Scale(s float32) V3 { return V3{X: v.X * s, Y: v.Y * s, Z: v.Z * s} }
func (v V3) Dot(w V3) float32   { return v.X*w.X + v.Y*w.Y + v.Z*w.Z }
func (v V3) Length() float32    { return math32.Sqrt(v.Dot(v)) }

func (v V3) Cross(w V3) V3 {
	return V3{
		X: v.Y*w.Z - v.Z*w.Y,
		Y: v.Z*w.X - v.X*w.Z,
		Z: v.X*w.Y - v.Y*w.X,
	}
}

// Normalize returns v scaled to unit length. The zero vector is returned unchanged.
func (v V3) Normalize() V3 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

func (v V3) Array() [3]float32 { return [3]float32{v.X, v.Y, v.Z} }

type V4 struct {
	X, Y, Z, W float32
}

func NewV4(x, y, z, w float32) V4 { return V4{X: x, Y: y, Z: z, W: w} }

func (v V4) String() string {
	return fmt.Sprintf("{%f, %f, %f, %f}", v.X, v.Y, v.Z, v.W)
}

func (v V4) XYZ() V3           { return V3{X: v.X, Y: v.Y, Z: v.Z} }
func (v V4) Array() [4]float32 { return [4]float32{v.X, v.Y, v.Z, v.W} }

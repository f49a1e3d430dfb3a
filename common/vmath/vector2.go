package vmath

import (
	"fmt"

	"github.com/hulkholden/gpubind/common/math32"
)

type V2 struct {
	X, Y float32
}

func NewV2(x, y float32) V2 { return V2{X: x, Y: y} }

func (v V2) String() string {
	return fmt.Sprintf("{%f, %f}", v.X, v.Y)
}

func (v V2) Add(w V2) V2             { return V2{X: v.X + w.X, Y: v.Y + w.Y} }
func (v V2) Sub(w V2) V2             { return V2{X: v.X - w.X, Y: v.Y - w.Y} }
func (v V2) Scale(s float32) V2      { return V2{X: v.X * s, Y: v.Y * s} }
func (v V2) Dot(w V2) float32        { return v.X*w.X + v.Y*w.Y }
func (v V2) Length() float32         { return math32.Sqrt(v.Dot(v)) }
func (v V2) Lerp(w V2, f float32) V2 { return v.Scale(1 - f).Add(w.Scale(f)) }

// Array returns the components in shader order.
func (v V2) Array() [2]float32 { return [2]float32{v.X, v.Y} }

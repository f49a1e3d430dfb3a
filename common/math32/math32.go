package math32

import (
	"math"
	"math/rand"
)

const (
	Pi      = float32(math.Pi)
	TwoPi   = float32(2. * Pi)
	HalfPi  = float32(Pi / 2)
	Epsilon = 1e-6
)

func Abs(x float32) float32 {
	return float32(math.Abs(float64(x)))
}

func Sqrt(x float32) float32 {
	return float32(math.Sqrt(float64(x)))
}

func Sin(x float32) float32 {
	return float32(math.Sin(float64(x)))
}

func Cos(x float32) float32 {
	return float32(math.Cos(float64(x)))
}

func Tan(x float32) float32 {
	return float32(math.Tan(float64(x)))
}

func SinCos(x float32) (float32, float32) {
	return Sin(x), Cos(x)
}

func Min(x, y float32) float32 {
	if x < y {
		return x
	}
	return y
}

func Max(x, y float32) float32 {
	if x > y {
		return x
	}
	return y
}

func Clamp(x, min, max float32) float32 {
	return Max(Min(x, max), min)
}

func Lerp(a, b, f float32) float32 {
	return a*(1-f) + b*f
}

// ApproxEqual reports whether a and b differ by less than Epsilon.
func ApproxEqual(a, b float32) bool {
	return Abs(a-b) < Epsilon
}

func RadiansFromDegrees(degrees float32) float32 {
	return (degrees * TwoPi) / 360
}

func DegreesFromRadians(radians float32) float32 {
	return (radians * 360) / TwoPi
}

// RangedValue is a value drawn uniformly from [Min, Max).
type RangedValue struct {
	Min, Max float32
}

func (v RangedValue) Get(r *rand.Rand) float32 {
	return v.Min + (r.Float32() * (v.Max - v.Min))
}

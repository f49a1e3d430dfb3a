package math32

import (
	"math"
	"math/rand"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name        string
		x, min, max float32
		want        float32
	}{
		{name: "in range", x: 5, min: 0, max: 10, want: 5},
		{name: "at min", x: 0, min: 0, max: 10, want: 0},
		{name: "at max", x: 10, min: 0, max: 10, want: 10},
		{name: "below min", x: -5, min: 0, max: 10, want: 0},
		{name: "above max", x: 15, min: 0, max: 10, want: 10},
		{name: "negative range", x: -3, min: -5, max: -1, want: -3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Clamp(tc.x, tc.min, tc.max)
			if got != tc.want {
				t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tc.x, tc.min, tc.max, got, tc.want)
			}
		})
	}
}

func TestLerp(t *testing.T) {
	tests := []struct {
		name    string
		a, b, f float32
		want    float32
	}{
		{name: "f=0", a: 10, b: 20, f: 0, want: 10},
		{name: "f=1", a: 10, b: 20, f: 1, want: 20},
		{name: "f=0.5", a: 10, b: 20, f: 0.5, want: 15},
		{name: "negative values", a: -10, b: 10, f: 0.5, want: 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Lerp(tc.a, tc.b, tc.f)
			if got != tc.want {
				t.Errorf("Lerp(%v, %v, %v) = %v, want %v", tc.a, tc.b, tc.f, got, tc.want)
			}
		})
	}
}

func TestRadiansDegreesRoundTrip(t *testing.T) {
	for _, deg := range []float32{0, 45, 90, 180, -270} {
		got := DegreesFromRadians(RadiansFromDegrees(deg))
		if !ApproxEqual(got, deg) && Abs(got-deg) > 1e-4 {
			t.Errorf("round trip of %v = %v", deg, got)
		}
	}
}

func TestTan(t *testing.T) {
	got := Tan(Pi / 4)
	if Abs(got-1) > 1e-5 {
		t.Errorf("Tan(Pi/4) = %v, want 1", got)
	}
	if want := float32(math.Tan(0.3)); Tan(0.3) != want {
		t.Errorf("Tan(0.3) = %v, want %v", Tan(0.3), want)
	}
}

func TestRangedValueUsesSource(t *testing.T) {
	v := RangedValue{Min: 2, Max: 4}
	a := rand.New(rand.NewSource(7))
	b := rand.New(rand.NewSource(7))
	for i := 0; i < 100; i++ {
		x, y := v.Get(a), v.Get(b)
		if x != y {
			t.Fatalf("same seed produced %v and %v", x, y)
		}
		if x < v.Min || x >= v.Max {
			t.Fatalf("Get() = %v, want in [%v, %v)", x, v.Min, v.Max)
		}
	}
}

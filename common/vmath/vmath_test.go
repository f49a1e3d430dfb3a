package vmath

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var approx = cmpopts.EquateApprox(0, 1e-5)

func TestV2Add(t *testing.T) {
	tests := []struct {
		name string
		v, w V2
		want V2
	}{
		{name: "basic", v: NewV2(1, 2), w: NewV2(3, 4), want: NewV2(4, 6)},
		{name: "zero", v: NewV2(1, 2), w: NewV2(0, 0), want: NewV2(1, 2)},
		{name: "negative", v: NewV2(1, 2), w: NewV2(-1, -2), want: NewV2(0, 0)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.v.Add(tc.w)
			if got != tc.want {
				t.Errorf("(%v).Add(%v) = %v, want %v", tc.v, tc.w, got, tc.want)
			}
		})
	}
}

func TestV3Cross(t *testing.T) {
	tests := []struct {
		name string
		v, w V3
		want V3
	}{
		{name: "x cross y", v: NewV3(1, 0, 0), w: NewV3(0, 1, 0), want: NewV3(0, 0, 1)},
		{name: "y cross x", v: NewV3(0, 1, 0), w: NewV3(1, 0, 0), want: NewV3(0, 0, -1)},
		{name: "parallel", v: NewV3(2, 2, 2), w: NewV3(1, 1, 1), want: NewV3(0, 0, 0)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.v.Cross(tc.w); got != tc.want {
				t.Errorf("(%v).Cross(%v) = %v, want %v", tc.v, tc.w, got, tc.want)
			}
		})
	}
}

func TestV3NormalizeZero(t *testing.T) {
	if got := (V3{}).Normalize(); got != (V3{}) {
		t.Errorf("Normalize() of zero vector = %v, want zero", got)
	}
}

func TestM4MulIdentity(t *testing.T) {
	m := TranslateM4(NewV3(1, 2, 3)).Mul(ScaleM4(NewV3(2, 2, 2)))
	if diff := cmp.Diff(m, IdentityM4().Mul(m)); diff != "" {
		t.Errorf("I*m mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(m, m.Mul(IdentityM4())); diff != "" {
		t.Errorf("m*I mismatch (-want +got):\n%s", diff)
	}
}

func TestM4MulV4(t *testing.T) {
	m := TranslateM4(NewV3(1, 2, 3)).Mul(ScaleM4(NewV3(2, 3, 4)))
	got := m.MulV4(NewV4(1, 1, 1, 1))
	want := NewV4(3, 5, 7, 1)
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("MulV4 mismatch (-want +got):\n%s", diff)
	}
}

func TestTranspose(t *testing.T) {
	m := TranslateM4(NewV3(1, 2, 3))
	if got := m.Transpose().Transpose(); got != m {
		t.Errorf("double transpose = %v, want %v", got, m)
	}
	if got := m.Transpose().At(3, 0); got != 0 {
		t.Errorf("transposed translation column = %v, want 0", got)
	}
}

func TestLookAtMovesEyeToOrigin(t *testing.T) {
	eye := NewV3(0, 0, 5)
	m := LookAtM4(eye, NewV3(0, 0, 0), NewV3(0, 1, 0))
	got := m.MulV4(NewV4(eye.X, eye.Y, eye.Z, 1))
	if diff := cmp.Diff(NewV4(0, 0, 0, 1), got, approx); diff != "" {
		t.Errorf("eye in view space mismatch (-want +got):\n%s", diff)
	}
	target := m.MulV4(NewV4(0, 0, 0, 1))
	if diff := cmp.Diff(NewV4(0, 0, -5, 1), target, approx); diff != "" {
		t.Errorf("target in view space mismatch (-want +got):\n%s", diff)
	}
}

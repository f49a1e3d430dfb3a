package wgsltypes

import (
	"encoding/binary"
	"math"

	"github.com/hulkholden/gpubind/common/vmath"
)

// Value is a typed uniform payload. The set of implementations is closed:
// scalars, vectors and matrices over f32, f64, i32, u32 and bool.
type Value interface {
	// Type returns the WGSL type of the value.
	Type() Type
	// put writes the host-shareable encoding of the value to dst.
	put(dst []byte)
}

type (
	Float float32
	Vec2  vmath.V2
	Vec3  vmath.V3
	Vec4  vmath.V4

	Double float64
	DVec2  [2]float64
	DVec3  [3]float64
	DVec4  [4]float64

	Int   int32
	IVec2 [2]int32
	IVec3 [3]int32
	IVec4 [4]int32

	Uint  uint32
	UVec2 [2]uint32
	UVec3 [3]uint32
	UVec4 [4]uint32

	Bool  bool
	BVec2 [2]bool
	BVec3 [3]bool
	BVec4 [4]bool

	Mat2  vmath.M2
	Mat3  vmath.M3
	Mat4  vmath.M4
	DMat2 [4]float64
	DMat3 [9]float64
	DMat4 [16]float64
)

var (
	typeF32, typeVec2, typeVec3, typeVec4     = MustLookup("f32"), MustLookup("vec2<f32>"), MustLookup("vec3<f32>"), MustLookup("vec4<f32>")
	typeF64, typeDVec2, typeDVec3, typeDVec4  = MustLookup("f64"), MustLookup("vec2<f64>"), MustLookup("vec3<f64>"), MustLookup("vec4<f64>")
	typeI32, typeIVec2, typeIVec3, typeIVec4  = MustLookup("i32"), MustLookup("vec2<i32>"), MustLookup("vec3<i32>"), MustLookup("vec4<i32>")
	typeU32, typeUVec2, typeUVec3, typeUVec4  = MustLookup("u32"), MustLookup("vec2<u32>"), MustLookup("vec3<u32>"), MustLookup("vec4<u32>")
	typeBool, typeBVec2, typeBVec3, typeBVec4 = MustLookup("bool"), MustLookup("vec2<bool>"), MustLookup("vec3<bool>"), MustLookup("vec4<bool>")
	typeMat2, typeMat3, typeMat4              = MustLookup("mat2x2<f32>"), MustLookup("mat3x3<f32>"), MustLookup("mat4x4<f32>")
	typeDMat2, typeDMat3, typeDMat4           = MustLookup("mat2x2<f64>"), MustLookup("mat3x3<f64>"), MustLookup("mat4x4<f64>")
)

func (Float) Type() Type { return typeF32 }
func (Vec2) Type() Type  { return typeVec2 }
func (Vec3) Type() Type  { return typeVec3 }
func (Vec4) Type() Type  { return typeVec4 }

func (Double) Type() Type { return typeF64 }
func (DVec2) Type() Type  { return typeDVec2 }
func (DVec3) Type() Type  { return typeDVec3 }
func (DVec4) Type() Type  { return typeDVec4 }

func (Int) Type() Type   { return typeI32 }
func (IVec2) Type() Type { return typeIVec2 }
func (IVec3) Type() Type { return typeIVec3 }
func (IVec4) Type() Type { return typeIVec4 }

func (Uint) Type() Type  { return typeU32 }
func (UVec2) Type() Type { return typeUVec2 }
func (UVec3) Type() Type { return typeUVec3 }
func (UVec4) Type() Type { return typeUVec4 }

func (Bool) Type() Type  { return typeBool }
func (BVec2) Type() Type { return typeBVec2 }
func (BVec3) Type() Type { return typeBVec3 }
func (BVec4) Type() Type { return typeBVec4 }

func (Mat2) Type() Type  { return typeMat2 }
func (Mat3) Type() Type  { return typeMat3 }
func (Mat4) Type() Type  { return typeMat4 }
func (DMat2) Type() Type { return typeDMat2 }
func (DMat3) Type() Type { return typeDMat3 }
func (DMat4) Type() Type { return typeDMat4 }

func (v Float) put(dst []byte) { putF32(dst, float32(v)) }
func (v Vec2) put(dst []byte)  { putF32(dst, v.X, v.Y) }
func (v Vec3) put(dst []byte)  { putF32(dst, v.X, v.Y, v.Z) }
func (v Vec4) put(dst []byte)  { putF32(dst, v.X, v.Y, v.Z, v.W) }

func (v Double) put(dst []byte) { putF64(dst, float64(v)) }
func (v DVec2) put(dst []byte)  { putF64(dst, v[:]...) }
func (v DVec3) put(dst []byte)  { putF64(dst, v[:]...) }
func (v DVec4) put(dst []byte)  { putF64(dst, v[:]...) }

func (v Int) put(dst []byte)   { putU32(dst, uint32(v)) }
func (v IVec2) put(dst []byte) { putI32(dst, v[:]) }
func (v IVec3) put(dst []byte) { putI32(dst, v[:]) }
func (v IVec4) put(dst []byte) { putI32(dst, v[:]) }

func (v Uint) put(dst []byte)  { putU32(dst, uint32(v)) }
func (v UVec2) put(dst []byte) { putU32(dst, v[:]...) }
func (v UVec3) put(dst []byte) { putU32(dst, v[:]...) }
func (v UVec4) put(dst []byte) { putU32(dst, v[:]...) }

func (v Bool) put(dst []byte)  { putBool(dst, bool(v)) }
func (v BVec2) put(dst []byte) { putBool(dst, v[:]...) }
func (v BVec3) put(dst []byte) { putBool(dst, v[:]...) }
func (v BVec4) put(dst []byte) { putBool(dst, v[:]...) }

func (v Mat2) put(dst []byte)  { putMatF32(dst, typeMat2, v[:]) }
func (v Mat3) put(dst []byte)  { putMatF32(dst, typeMat3, v[:]) }
func (v Mat4) put(dst []byte)  { putMatF32(dst, typeMat4, v[:]) }
func (v DMat2) put(dst []byte) { putMatF64(dst, typeDMat2, v[:]) }
func (v DMat3) put(dst []byte) { putMatF64(dst, typeDMat3, v[:]) }
func (v DMat4) put(dst []byte) { putMatF64(dst, typeDMat4, v[:]) }

func putF32(dst []byte, vs ...float32) {
	for i, v := range vs {
		binary.LittleEndian.PutUint32(dst[4*i:], math.Float32bits(v))
	}
}

func putF64(dst []byte, vs ...float64) {
	for i, v := range vs {
		binary.LittleEndian.PutUint64(dst[8*i:], math.Float64bits(v))
	}
}

func putU32(dst []byte, vs ...uint32) {
	for i, v := range vs {
		binary.LittleEndian.PutUint32(dst[4*i:], v)
	}
}

func putI32(dst []byte, vs []int32) {
	for i, v := range vs {
		binary.LittleEndian.PutUint32(dst[4*i:], uint32(v))
	}
}

// Booleans are stored as one u32 per component.
func putBool(dst []byte, vs ...bool) {
	for i, v := range vs {
		var u uint32
		if v {
			u = 1
		}
		binary.LittleEndian.PutUint32(dst[4*i:], u)
	}
}

func putMatF32(dst []byte, t Type, elems []float32) {
	stride := t.ColumnStride()
	for c := 0; c < t.Cols; c++ {
		putF32(dst[c*stride:], elems[c*t.Rows:(c+1)*t.Rows]...)
	}
}

func putMatF64(dst []byte, t Type, elems []float64) {
	stride := t.ColumnStride()
	for c := 0; c < t.Cols; c++ {
		putF64(dst[c*stride:], elems[c*t.Rows:(c+1)*t.Rows]...)
	}
}

// Put writes the encoding of v into dst, which must hold at least
// v.Type().SizeOf bytes. Matrix column padding is left untouched.
func Put(dst []byte, v Value) {
	if len(dst) < v.Type().SizeOf {
		panic("wgsltypes: destination too small for " + string(v.Type().Name))
	}
	v.put(dst)
}

// Encode returns the host-shareable encoding of v.
func Encode(v Value) []byte {
	dst := make([]byte, v.Type().SizeOf)
	v.put(dst)
	return dst
}

// Zero returns the zero value of the named type.
// Opaque types have no value and return false.
func Zero(name TypeName) (Value, bool) {
	switch name {
	case "f32":
		return Float(0), true
	case "vec2<f32>":
		return Vec2{}, true
	case "vec3<f32>":
		return Vec3{}, true
	case "vec4<f32>":
		return Vec4{}, true
	case "f64":
		return Double(0), true
	case "vec2<f64>":
		return DVec2{}, true
	case "vec3<f64>":
		return DVec3{}, true
	case "vec4<f64>":
		return DVec4{}, true
	case "i32":
		return Int(0), true
	case "vec2<i32>":
		return IVec2{}, true
	case "vec3<i32>":
		return IVec3{}, true
	case "vec4<i32>":
		return IVec4{}, true
	case "u32":
		return Uint(0), true
	case "vec2<u32>":
		return UVec2{}, true
	case "vec3<u32>":
		return UVec3{}, true
	case "vec4<u32>":
		return UVec4{}, true
	case "bool":
		return Bool(false), true
	case "vec2<bool>":
		return BVec2{}, true
	case "vec3<bool>":
		return BVec3{}, true
	case "vec4<bool>":
		return BVec4{}, true
	case "mat2x2<f32>":
		return Mat2{}, true
	case "mat3x3<f32>":
		return Mat3{}, true
	case "mat4x4<f32>":
		return Mat4{}, true
	case "mat2x2<f64>":
		return DMat2{}, true
	case "mat3x3<f64>":
		return DMat3{}, true
	case "mat4x4<f64>":
		return DMat4{}, true
	}
	return nil, false
}

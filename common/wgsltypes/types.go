package wgsltypes

import "fmt"

// TypeName is the name of a WGSL type.
type TypeName string

// Kind is the scalar component kind of a type.
type Kind int

const (
	KindF32 Kind = iota
	KindF64
	KindI32
	KindU32
	KindBool
	// KindTexture marks opaque sampled-texture types. They have no host layout.
	KindTexture
)

func (k Kind) String() string {
	switch k {
	case KindF32:
		return "f32"
	case KindF64:
		return "f64"
	case KindI32:
		return "i32"
	case KindU32:
		return "u32"
	case KindBool:
		return "bool"
	case KindTexture:
		return "texture"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

type Type struct {
	// Name of the WGSL type.
	Name TypeName
	// Alignment of the WGSL type (see https://www.w3.org/TR/WGSL/#alignof).
	AlignOf int
	// Size if the WGSL type (see https://www.w3.org/TR/WGSL/#sizeof).
	SizeOf int

	// Kind is the scalar kind of every component.
	Kind Kind
	// Rows is the number of components of a vector, or of each matrix column.
	Rows int
	// Cols is the number of matrix columns, or 0 for scalars and vectors.
	Cols int
}

// IsMatrix reports whether t is a matrix type.
func (t Type) IsMatrix() bool { return t.Cols > 0 }

// IsOpaque reports whether t cannot be stored in a buffer.
func (t Type) IsOpaque() bool { return t.Kind == KindTexture }

// ColumnStride is the distance in bytes between matrix columns.
func (t Type) ColumnStride() int {
	if !t.IsMatrix() {
		return t.SizeOf
	}
	return vectorAlign(t.Kind, t.Rows)
}

// Texture2D is the type of a sampled 2D texture uniform.
const Texture2D TypeName = "texture_2d<f32>"

var typeMap = buildTypeMap()

func scalarSize(k Kind) int {
	if k == KindF64 {
		return 8
	}
	return 4
}

func vectorAlign(k Kind, n int) int {
	s := scalarSize(k)
	switch n {
	case 1:
		return s
	case 2:
		return 2 * s
	}
	return 4 * s
}

func buildTypeMap() map[TypeName]Type {
	m := make(map[TypeName]Type)
	register := func(t Type) { m[t.Name] = t }
	for _, k := range []Kind{KindF32, KindF64, KindI32, KindU32, KindBool} {
		s := scalarSize(k)
		register(Type{Name: TypeName(k.String()), AlignOf: s, SizeOf: s, Kind: k, Rows: 1})
		for n := 2; n <= 4; n++ {
			register(Type{
				Name:    TypeName(fmt.Sprintf("vec%d<%s>", n, k)),
				AlignOf: vectorAlign(k, n),
				SizeOf:  n * s,
				Kind:    k,
				Rows:    n,
			})
		}
	}
	for _, k := range []Kind{KindF32, KindF64} {
		for n := 2; n <= 4; n++ {
			stride := vectorAlign(k, n)
			register(Type{
				Name:    TypeName(fmt.Sprintf("mat%dx%d<%s>", n, n, k)),
				AlignOf: stride,
				SizeOf:  n * stride,
				Kind:    k,
				Rows:    n,
				Cols:    n,
			})
		}
	}
	register(Type{Name: Texture2D, Kind: KindTexture})
	return m
}

// Lookup returns the type with the given name.
func Lookup(name TypeName) (Type, bool) {
	t, ok := typeMap[name]
	return t, ok
}

// MustLookup is like Lookup but panics for unknown types.
func MustLookup(name TypeName) Type {
	t, ok := typeMap[name]
	if !ok {
		panic("unknown WGSL type: " + string(name))
	}
	return t
}

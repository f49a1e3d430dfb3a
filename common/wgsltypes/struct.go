package wgsltypes

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/hulkholden/gpubind/common/vmath"
)

// goToTypeMap maps Go types whose memory layout matches a WGSL type.
var goToTypeMap = map[reflect.Type]TypeName{
	reflect.TypeOf(float32(0)): "f32",
	reflect.TypeOf(float64(0)): "f64",
	reflect.TypeOf(int32(0)):   "i32",
	reflect.TypeOf(uint32(0)):  "u32",
	reflect.TypeOf(vmath.V2{}): "vec2<f32>",
	reflect.TypeOf(vmath.V3{}): "vec3<f32>",
	reflect.TypeOf(vmath.V4{}): "vec4<f32>",
	reflect.TypeOf(vmath.M2{}): "mat2x2<f32>",
	reflect.TypeOf(vmath.M4{}): "mat4x4<f32>",
}

// A Struct describes the memory layout of a host-shareable struct.
type Struct struct {
	// Name is the name of the struct.
	Name string
	// Size of the structure, in bytes.
	Size int
	// Align is the alignment of the structure, in bytes.
	Align int

	// Fields is a slice of the struct's fields, in declaration order.
	Fields []string
	// FieldMap maps field names to Fields.
	FieldMap map[string]Field
}

// A Field provides information about a particular field in a struct.
type Field struct {
	// Name is the name of the field.
	Name string

	// Offset is the offset (in bytes) of the field in the struct.
	Offset uintptr

	// WGSLType is the corresponding WGSL type to use.
	WGSLType Type
}

// A Member declares one field of a struct built by NewLayout.
type Member struct {
	Name string
	Type TypeName
}

func MustNewStruct[T any](name string) Struct {
	s, err := NewStruct[T](name)
	if err != nil {
		panic(fmt.Sprintf("exporting %q: %v", name, err))
	}
	return s
}

// NewStruct describes the Go struct T. Field offsets are taken from the Go
// layout and must satisfy WGSL alignment, so padding has to be explicit.
func NewStruct[T any](name string) (Struct, error) {
	var t T
	structType := reflect.TypeOf(t)
	if structType == nil || structType.Kind() != reflect.Struct {
		return Struct{}, fmt.Errorf("provided type is not a struct")
	}

	s := Struct{
		Name:     name,
		Size:     int(structType.Size()),
		Align:    1,
		FieldMap: make(map[string]Field),
	}

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		wgslTypeName, ok := goToTypeMap[field.Type]
		if !ok {
			return Struct{}, fmt.Errorf("unhandled Go type: %q", field.Type)
		}
		wgslType := MustLookup(wgslTypeName)
		if int(field.Offset)%wgslType.AlignOf != 0 {
			return Struct{}, fmt.Errorf("field %s at offset %d is not aligned to %d", field.Name, field.Offset, wgslType.AlignOf)
		}
		s.Align = max(s.Align, wgslType.AlignOf)
		s.Fields = append(s.Fields, field.Name)
		s.FieldMap[field.Name] = Field{
			Name:     field.Name,
			Offset:   field.Offset,
			WGSLType: wgslType,
		}
	}
	return s, nil
}

func MustNewLayout(name string, members ...Member) Struct {
	s, err := NewLayout(name, members...)
	if err != nil {
		panic(fmt.Sprintf("laying out %q: %v", name, err))
	}
	return s
}

// NewLayout lays out members following the WGSL memory layout rules
// (see https://www.w3.org/TR/WGSL/#memory-layouts).
func NewLayout(name string, members ...Member) (Struct, error) {
	s := Struct{
		Name:     name,
		Align:    1,
		FieldMap: make(map[string]Field),
	}
	offset := 0
	for _, m := range members {
		if _, dup := s.FieldMap[m.Name]; dup {
			return Struct{}, fmt.Errorf("duplicate member %q", m.Name)
		}
		t, ok := Lookup(m.Type)
		if !ok {
			return Struct{}, fmt.Errorf("unhandled WGSL type: %q", m.Type)
		}
		if t.IsOpaque() {
			return Struct{}, fmt.Errorf("member %q: %s is not host-shareable", m.Name, m.Type)
		}
		offset = RoundUp(offset, t.AlignOf)
		s.Fields = append(s.Fields, m.Name)
		s.FieldMap[m.Name] = Field{
			Name:     m.Name,
			Offset:   uintptr(offset),
			WGSLType: t,
		}
		offset += t.SizeOf
		s.Align = max(s.Align, t.AlignOf)
	}
	s.Size = RoundUp(offset, s.Align)
	return s, nil
}

// RoundUp rounds n up to a multiple of k.
func RoundUp(n, k int) int {
	return (n + k - 1) / k * k
}

// UniformBufferSize is the minimum size of a buffer bound to a
// var<uniform> of this struct type.
func (s Struct) UniformBufferSize() int {
	return RoundUp(max(s.Size, 1), 16)
}

func (s Struct) String() string {
	var output strings.Builder
	output.WriteString(fmt.Sprintf("struct %q, size %d\n", s.Name, s.Size))
	for idx, fName := range s.Fields {
		f := s.FieldMap[fName]
		output.WriteString(fmt.Sprintf("  %d: %s at offset %d\n", idx, f.Name, f.Offset))
	}
	return output.String()
}

// ToWGSL returns a string representing the struct as a WGSL struct definition.
func (s Struct) ToWGSL() string {
	var output strings.Builder
	output.WriteString(fmt.Sprintf("struct %s {\n", s.Name))
	for _, fieldName := range s.Fields {
		f := s.FieldMap[fieldName]
		output.WriteString(fmt.Sprintf("  %s : %s,\n", fieldName, f.WGSLType.Name))
	}
	output.WriteString("}\n")
	return output.String()
}

// MustOffsetOf returns the offset of the specified field.
// Panics if the field is not found.
func (s *Struct) MustOffsetOf(fieldName string) int {
	field, ok := s.FieldMap[fieldName]
	if !ok {
		panic("unknown field: " + fieldName)
	}
	return int(field.Offset)
}

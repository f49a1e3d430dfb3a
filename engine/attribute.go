package engine

import (
	"fmt"

	"github.com/hulkholden/gpubind/common/wgsltypes"
)

// AttributeBuffer feeds vertex attributes from a buffer of Layout structs.
// A Divisor of 0 advances per vertex; n > 0 advances once every n instances.
type AttributeBuffer struct {
	Layout  wgsltypes.Struct
	Buffer  Buffer
	Divisor int
}

// Attribute is one shader input read from an AttributeBuffer.
type Attribute struct {
	Location int
	Field    string
	Type     wgsltypes.Type
	Offset   int
}

func NewAttributeBuffer(layout wgsltypes.Struct, buf Buffer, divisor int) (*AttributeBuffer, error) {
	if divisor < 0 {
		return nil, fmt.Errorf("attribute buffer %q: negative divisor %d", layout.Name, divisor)
	}
	if layout.Size == 0 {
		return nil, fmt.Errorf("attribute buffer %q: empty layout", layout.Name)
	}
	return &AttributeBuffer{Layout: layout, Buffer: buf, Divisor: divisor}, nil
}

func (a *AttributeBuffer) Instanced() bool { return a.Divisor > 0 }

// Stride is the distance between consecutive elements, in bytes.
func (a *AttributeBuffer) Stride() int { return a.Layout.Size }

// Len returns the number of whole elements in the buffer.
func (a *AttributeBuffer) Len() int {
	if a.Buffer == nil {
		return 0
	}
	return a.Buffer.Size() / a.Layout.Size
}

// Attributes assigns consecutive shader locations, starting at first, to
// the layout's fields.
func (a *AttributeBuffer) Attributes(first int) []Attribute {
	attrs := make([]Attribute, 0, len(a.Layout.Fields))
	for i, name := range a.Layout.Fields {
		f := a.Layout.FieldMap[name]
		attrs = append(attrs, Attribute{
			Location: first + i,
			Field:    name,
			Type:     f.WGSLType,
			Offset:   int(f.Offset),
		})
	}
	return attrs
}

// Put writes element i of the buffer.
func (a *AttributeBuffer) Put(i int, values ...wgsltypes.Value) {
	if len(values) != len(a.Layout.Fields) {
		panic(fmt.Sprintf("attribute buffer %q: got %d values for %d fields", a.Layout.Name, len(values), len(a.Layout.Fields)))
	}
	elem := make([]byte, a.Layout.Size)
	for j, v := range values {
		f := a.Layout.FieldMap[a.Layout.Fields[j]]
		if v.Type().Name != f.WGSLType.Name {
			precondition(ErrTypeMismatch, "attribute %q is %s, not %s", f.Name, f.WGSLType.Name, v.Type().Name)
		}
		wgsltypes.Put(elem[f.Offset:], v)
	}
	a.Buffer.SetSubData(i*a.Layout.Size, elem)
}

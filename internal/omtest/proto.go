package omtest

import (
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// Message builds a protobuf message field by field.
type Message struct {
	b []byte
}

// NewMessage returns an empty message builder.
func NewMessage() *Message {
	return &Message{}
}

// Bytes returns the encoded message.
func (m *Message) Bytes() []byte {
	return m.b
}

// Raw appends pre-encoded bytes, for malformed-input tests.
func (m *Message) Raw(b []byte) *Message {
	m.b = append(m.b, b...)
	return m
}

// Varint appends a varint field.
func (m *Message) Varint(num protowire.Number, v uint64) *Message {
	m.b = protowire.AppendTag(m.b, num, protowire.VarintType)
	m.b = protowire.AppendVarint(m.b, v)
	return m
}

// Int appends an int64 field.
func (m *Message) Int(num protowire.Number, v int64) *Message {
	return m.Varint(num, uint64(v)) //nolint:gosec // G115: two's complement on the wire.
}

// Bool appends a bool field.
func (m *Message) Bool(num protowire.Number, v bool) *Message {
	return m.Varint(num, protowire.EncodeBool(v))
}

// Float appends a float field.
func (m *Message) Float(num protowire.Number, v float32) *Message {
	m.b = protowire.AppendTag(m.b, num, protowire.Fixed32Type)
	m.b = protowire.AppendFixed32(m.b, math.Float32bits(v))
	return m
}

// Data appends a length-delimited field.
func (m *Message) Data(num protowire.Number, v []byte) *Message {
	m.b = protowire.AppendTag(m.b, num, protowire.BytesType)
	m.b = protowire.AppendBytes(m.b, v)
	return m
}

// Text appends a string field.
func (m *Message) Text(num protowire.Number, v string) *Message {
	m.b = protowire.AppendTag(m.b, num, protowire.BytesType)
	m.b = protowire.AppendString(m.b, v)
	return m
}

// Message appends an embedded message.
func (m *Message) Message(num protowire.Number, sub *Message) *Message {
	return m.Data(num, sub.Bytes())
}

// PackedInts appends a packed repeated int64 field.
func (m *Message) PackedInts(num protowire.Number, vs ...int64) *Message {
	var packed []byte
	for _, v := range vs {
		packed = protowire.AppendVarint(packed, uint64(v)) //nolint:gosec // G115: two's complement on the wire.
	}
	return m.Data(num, packed)
}

// PackedFloats appends a packed repeated float field.
func (m *Message) PackedFloats(num protowire.Number, vs ...float32) *Message {
	var packed []byte
	for _, v := range vs {
		packed = protowire.AppendFixed32(packed, math.Float32bits(v))
	}
	return m.Data(num, packed)
}

// PackedBools appends a packed repeated bool field.
func (m *Message) PackedBools(num protowire.Number, vs ...bool) *Message {
	var packed []byte
	for _, v := range vs {
		packed = protowire.AppendVarint(packed, protowire.EncodeBool(v))
	}
	return m.Data(num, packed)
}

// Graph-engine message helpers. Field numbers follow ge_ir.proto.

// Model encodes a ModelDef with the given graphs.
func Model(name string, graphs ...*Message) *Message {
	m := NewMessage().Text(1, name).Varint(2, 1)
	for _, g := range graphs {
		m.Message(7, g)
	}
	return m
}

// Graph encodes a GraphDef with the given ops.
func Graph(name string, ops ...*Message) *Message {
	g := NewMessage().Text(1, name)
	for _, op := range ops {
		g.Message(6, op)
	}
	return g
}

// Op starts an OpDef with name, type and inputs. Further fields can be chained.
func Op(name, typ string, inputs ...string) *Message {
	op := NewMessage().Text(1, name).Text(2, typ)
	for _, in := range inputs {
		op.Text(5, in)
	}
	return op
}

// InputDesc appends an input_desc to an OpDef.
func InputDesc(op, desc *Message) *Message {
	return op.Message(33, desc)
}

// OutputDesc appends an output_desc to an OpDef.
func OutputDesc(op, desc *Message) *Message {
	return op.Message(34, desc)
}

// OpAttr appends an attr map entry to an OpDef.
func OpAttr(op *Message, key string, value *Message) *Message {
	return op.Message(10, NewMessage().Text(1, key).Message(2, value))
}

// Desc encodes a TensorDescriptor with dtype ordinal, layout and dims.
func Desc(dtype int64, layout string, dims ...int64) *Message {
	d := NewMessage().Int(2, dtype)
	if dims != nil {
		d.Message(3, NewMessage().PackedInts(1, dims...))
	}
	if layout != "" {
		d.Text(4, layout)
	}
	return d
}

// DescAttr appends an attr map entry to a TensorDescriptor.
func DescAttr(desc *Message, key string, value *Message) *Message {
	return desc.Message(5, NewMessage().Text(1, key).Message(2, value))
}

// AttrInt encodes an AttrDef holding an int.
func AttrInt(v int64) *Message { return NewMessage().Int(3, v) }

// AttrFloat encodes an AttrDef holding a float.
func AttrFloat(v float32) *Message { return NewMessage().Float(4, v) }

// AttrBool encodes an AttrDef holding a bool.
func AttrBool(v bool) *Message { return NewMessage().Bool(5, v) }

// AttrString encodes an AttrDef holding a string.
func AttrString(v string) *Message { return NewMessage().Text(2, v) }

// AttrInts encodes an AttrDef holding a list of ints.
func AttrInts(vs ...int64) *Message {
	return NewMessage().Message(1, NewMessage().PackedInts(3, vs...))
}

// AttrTensor encodes an AttrDef holding a TensorDef.
func AttrTensor(desc *Message, data []byte) *Message {
	t := NewMessage().Message(1, desc)
	if data != nil {
		t.Data(2, data)
	}
	return NewMessage().Message(12, t)
}

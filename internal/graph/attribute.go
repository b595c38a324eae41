package graph

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	xunicode "golang.org/x/text/encoding/unicode"

	"github.com/born-ml/omview/internal/ge"
	"github.com/born-ml/omview/internal/metadata"
)

// Attribute type tags.
const (
	TypeInt64       = "int64"
	TypeFloat32     = "float32"
	TypeBoolean     = "boolean"
	TypeTensor      = "tensor"
	TypeString      = "string"
	TypeStringList  = "string[]"
	TypeBooleanList = "boolean[]"
	TypeInt64List   = "int64[]"
	TypeFloat32List = "float32[]"
	TypeTypeList    = "type[]"
	TypeShapeList   = "shape[]"
)

// Attribute is a decoded op attribute. Type and Value are empty when the attribute carried
// no recognized value.
type Attribute struct {
	Name    string
	Schema  *metadata.Attribute
	Visible bool
	Type    string
	Value   AttributeValue
}

// AttributeValue is one of Int, Float, Bool, TensorValue, String, Bytes, StringList,
// BoolList, IntList, FloatList, TypeList or ShapeList.
type AttributeValue interface {
	fmt.Stringer
	attributeValue()
}

type (
	Int         int64
	Float       float32
	Bool        bool
	TensorValue struct{ Tensor *Tensor }
	String      string
	Bytes       []byte // String attribute whose bytes are not printable text
	StringList  []string
	BoolList    []bool
	IntList     []int64
	FloatList   []float32
	TypeList    []string
	ShapeList   []TensorShape
)

func (Int) attributeValue()         {}
func (Float) attributeValue()       {}
func (Bool) attributeValue()        {}
func (TensorValue) attributeValue() {}
func (String) attributeValue()      {}
func (Bytes) attributeValue()       {}
func (StringList) attributeValue()  {}
func (BoolList) attributeValue()    {}
func (IntList) attributeValue()     {}
func (FloatList) attributeValue()   {}
func (TypeList) attributeValue()    {}
func (ShapeList) attributeValue()   {}

func (v Int) String() string   { return strconv.FormatInt(int64(v), 10) }
func (v Float) String() string { return strconv.FormatFloat(float64(v), 'g', -1, 32) }
func (v Bool) String() string  { return strconv.FormatBool(bool(v)) }

func (v TensorValue) String() string {
	if v.Tensor == nil {
		return ""
	}
	return v.Tensor.Type.String()
}

func (v String) String() string { return string(v) }
func (v Bytes) String() string  { return fmt.Sprintf("%x", []byte(v)) }

// String joins the elements with ", ".
func (v StringList) String() string { return strings.Join(v, ", ") }

func (v BoolList) String() string  { return joinList(v, strconv.FormatBool) }
func (v IntList) String() string   { return joinList(v, formatInt) }
func (v FloatList) String() string { return joinList(v, formatFloat) }
func (v TypeList) String() string  { return joinList(v, formatString) }
func (v ShapeList) String() string { return joinList(v, TensorShape.String) }

func formatInt(i int64) string     { return strconv.FormatInt(i, 10) }
func formatFloat(f float32) string { return Float(f).String() }
func formatString(s string) string { return s }

func joinList[T any](items []T, format func(T) string) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = format(item)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// DecodeAttribute converts a wire attribute into its typed form. schema may be nil.
func DecodeAttribute(name string, schema *metadata.Attribute, value *ge.AttrDef) (*Attribute, error) {
	attr := &Attribute{
		Name:    name,
		Schema:  schema,
		Visible: schema.IsVisible(),
	}
	if value == nil {
		return attr, nil
	}

	switch value.Kind {
	case ge.AttrInt:
		attr.Type, attr.Value = TypeInt64, Int(value.I)
	case ge.AttrFloat:
		attr.Type, attr.Value = TypeFloat32, Float(value.F)
	case ge.AttrBool:
		attr.Type, attr.Value = TypeBoolean, Bool(value.B)
	case ge.AttrBytes:
		if len(value.BT) > 0 {
			attr.Type = TypeTensor
			attr.Value = TensorValue{Tensor: &Tensor{
				Kind: KindConstant,
				Type: NewTensorType("float32", []int64{int64(len(value.BT) / 4)}, "", ""),
				Data: value.BT,
			}}
		}
	case ge.AttrTensor:
		t, err := tensorAttribute(value.T)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", name, err)
		}
		attr.Type, attr.Value = TypeTensor, TensorValue{Tensor: t}
	case ge.AttrString:
		attr.Type, attr.Value = TypeString, decodeText(value.S)
	case ge.AttrList:
		attr.Type, attr.Value = decodeList(value.List)
	}
	return attr, nil
}

func tensorAttribute(t *ge.TensorDef) (*Tensor, error) {
	if t == nil {
		t = &ge.TensorDef{}
	}
	desc := t.Desc
	if desc == nil {
		desc = &ge.TensorDescriptor{}
	}
	dtype, err := DataTypeName(desc.DType)
	if err != nil {
		return nil, err
	}
	return &Tensor{
		Kind: KindConstant,
		Type: NewTensorType(dtype, desc.Dims(), desc.Layout, ""),
		Data: t.Data,
	}, nil
}

// decodeText returns the bytes as text when they are printable UTF-8, else as raw Bytes.
func decodeText(b []byte) AttributeValue {
	if !utf8.Valid(b) {
		return Bytes(b)
	}
	for _, r := range string(b) {
		if !unicode.IsPrint(r) && r != '\t' && r != '\n' && r != '\r' {
			return Bytes(b)
		}
	}
	return String(b)
}

// decodeList picks the first non-empty member in order s, b, i, f, dt, td.
func decodeList(l *ge.ListValue) (string, AttributeValue) {
	if l == nil {
		return "", nil
	}
	switch {
	case len(l.S) > 0:
		items := make(StringList, len(l.S))
		for i, s := range l.S {
			items[i] = decodeWidened(s)
		}
		return TypeStringList, items
	case len(l.B) > 0:
		return TypeBooleanList, BoolList(l.B)
	case len(l.I) > 0:
		return TypeInt64List, IntList(l.I)
	case len(l.F) > 0:
		return TypeFloat32List, FloatList(l.F)
	case len(l.DT) > 0:
		types := make(TypeList, len(l.DT))
		for i, dt := range l.DT {
			name, err := DataTypeName(dt)
			if err != nil {
				name = "?"
			}
			types[i] = name
		}
		return TypeTypeList, types
	case len(l.TD) > 0:
		shapes := make(ShapeList, len(l.TD))
		for i, td := range l.TD {
			shapes[i] = TensorShape{Dimensions: td.Dims()}
		}
		return TypeShapeList, shapes
	default:
		return "", nil
	}
}

var utf16Decoder = xunicode.UTF16(xunicode.LittleEndian, xunicode.IgnoreBOM)

// decodeWidened treats every byte of a list string as one UTF-16 code unit. Unlike scalar
// strings, multi-byte UTF-8 sequences are not reassembled.
func decodeWidened(b []byte) string {
	units := make([]byte, 2*len(b))
	for i, c := range b {
		units[2*i] = c
	}
	s, err := utf16Decoder.NewDecoder().Bytes(units)
	if err != nil {
		return string(b)
	}
	return string(s)
}

package ge

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Graph-engine protobuf data structures (hand-written, subset of ge_ir.proto).

// AttrMap holds attributes in wire order.
type AttrMap = orderedmap.OrderedMap[string, *AttrDef]

// NewAttrMap returns an empty attribute map.
func NewAttrMap() *AttrMap {
	return orderedmap.New[string, *AttrDef]()
}

// ModelDef is the top-level graph-definition message stored in partition 0.
type ModelDef struct {
	Name          string
	Version       uint32
	CustomVersion string
	Graphs        []*GraphDef
	Attr          *orderedmap.OrderedMap[string, *AttrDef]
}

// GraphDef is a single computation graph.
type GraphDef struct {
	Name    string
	Inputs  []string
	Outputs []string
	Ops     []*OpDef
	Attr    *orderedmap.OrderedMap[string, *AttrDef]
}

// OpDef is one operation of a graph.
type OpDef struct {
	Name       string
	Type       string
	Inputs     []string // "producer:index", "" for an unused slot, index -1 for control edges
	Attr       *orderedmap.OrderedMap[string, *AttrDef]
	ID         int64
	StreamID   int64
	InputDesc  []*TensorDescriptor
	OutputDesc []*TensorDescriptor
}

// Attribute returns the named attribute of the op.
func (o *OpDef) Attribute(name string) (*AttrDef, bool) {
	return lookup(o.Attr, name)
}

// TensorDescriptor describes one tensor slot: element type, shape, layout and placement
// in the weight blob.
type TensorDescriptor struct {
	Name       string
	DType      int64 // Ordinal into the dtype table
	Shape      *ShapeDef
	Layout     string
	Attr       *orderedmap.OrderedMap[string, *AttrDef]
	Size       int64
	WeightSize int64
	DeviceType string
	RealDimCnt int64
	DataOffset int64
}

// Attribute returns the named attribute of the descriptor.
func (d *TensorDescriptor) Attribute(name string) (*AttrDef, bool) {
	if d == nil {
		return nil, false
	}
	return lookup(d.Attr, name)
}

// Dims returns the descriptor shape, nil when absent.
func (d *TensorDescriptor) Dims() []int64 {
	if d == nil || d.Shape == nil {
		return nil
	}
	return d.Shape.Dims
}

// ShapeDef is a list of dimensions; negative values are unknown.
type ShapeDef struct {
	Dims []int64
}

// TensorDef is a tensor value: descriptor plus optional inline data.
type TensorDef struct {
	Desc *TensorDescriptor
	Data []byte
}

// AttrKind records which member of an AttrDef is set.
type AttrKind int

// Attribute kinds.
const (
	AttrNone AttrKind = iota
	AttrList
	AttrString
	AttrInt
	AttrFloat
	AttrBool
	AttrBytes
	AttrTensorDesc
	AttrTensor
	AttrDataType
)

var attrKindNames = [...]string{
	AttrNone:       "none",
	AttrList:       "list",
	AttrString:     "s",
	AttrInt:        "i",
	AttrFloat:      "f",
	AttrBool:       "b",
	AttrBytes:      "bt",
	AttrTensorDesc: "td",
	AttrTensor:     "t",
	AttrDataType:   "dt",
}

func (k AttrKind) String() string {
	if k >= 0 && int(k) < len(attrKindNames) {
		return attrKindNames[k]
	}
	return "unknown"
}

// AttrDef is a tagged attribute value. Only the member named by Kind is meaningful.
type AttrDef struct {
	Kind AttrKind
	S    []byte
	I    int64
	F    float32
	B    bool
	BT   []byte
	List *ListValue
	TD   *TensorDescriptor
	T    *TensorDef
	DT   int64
}

// ListValue holds the repeated members of a list attribute.
type ListValue struct {
	S  [][]byte
	I  []int64
	F  []float32
	B  []bool
	TD []*TensorDescriptor
	DT []int64
}

func lookup(m *AttrMap, name string) (*AttrDef, bool) {
	if m == nil {
		return nil, false
	}
	return m.Get(name)
}

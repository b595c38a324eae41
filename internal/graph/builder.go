package graph

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/born-ml/omview/internal/binreader"
	"github.com/born-ml/omview/internal/ge"
	"github.com/born-ml/omview/internal/metadata"
)

const (
	constOpType     = "Const"
	unnamedProducer = "internal_unnamed"
	controlIndex    = "-1"
	deviceAttribute = "device"
)

// ErrMissingConstValue is returned when a constant op consumed as an input carries no
// tensor in its "value" attribute.
var ErrMissingConstValue = errors.New("constant has no tensor value")

// inputOps are the op types whose outputs take the first input's shape when they declare
// none.
var inputOps = map[string]bool{
	"Data":             true,
	"ImageData":        true,
	"DynamicImageData": true,
}

type builder struct {
	ops      map[string]*ge.OpDef
	weights  []byte
	provider metadata.Provider
}

// Build converts a decoded graph definition into a Graph. weights is the weight blob, nil
// when the container has none. A nil provider behaves as an empty catalog.
func Build(def *ge.GraphDef, weights []byte, provider metadata.Provider) (*Graph, error) {
	if provider == nil {
		provider = metadata.Empty()
	}
	b := &builder{
		ops:      make(map[string]*ge.OpDef, len(def.Ops)),
		weights:  weights,
		provider: provider,
	}
	for _, op := range def.Ops {
		if _, ok := b.ops[op.Name]; !ok {
			b.ops[op.Name] = op
		}
	}

	g := &Graph{
		Name:    def.Name,
		Inputs:  def.Inputs,
		Outputs: def.Outputs,
	}
	for _, op := range def.Ops {
		if op.Type == constOpType {
			continue
		}
		n, err := b.node(op)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", op.Name, err)
		}
		g.Nodes = append(g.Nodes, n)
	}
	return g, nil
}

func (b *builder) node(op *ge.OpDef) (*Node, error) {
	typ := b.provider.Type(op.Type)
	if typ == nil {
		typ = &metadata.Type{Name: op.Type}
	}
	n := &Node{Name: op.Name, Type: typ}

	if err := b.inputs(op, n); err != nil {
		return nil, err
	}
	if err := b.outputs(op, n); err != nil {
		return nil, err
	}
	if err := b.attributes(op, n); err != nil {
		return nil, err
	}
	return n, nil
}

// inputs resolves input references. desc is the running input-descriptor counter; it
// advances only for data inputs, never for empty slots or control edges.
func (b *builder) inputs(op *ge.OpDef, n *Node) error {
	desc := 0
	for i, ref := range op.Inputs {
		if ref == "" {
			continue
		}
		producer, index := splitInput(ref)
		if index == controlIndex {
			n.ControlDependencies = append(n.ControlDependencies, producer)
			continue
		}

		d := descriptor(op.InputDesc, desc)
		var arg *Argument
		if p, ok := b.ops[producer]; ok && p.Type == constOpType {
			t, err := b.constant(p, d)
			if err != nil {
				return fmt.Errorf("input %d (%s): %w", i, ref, err)
			}
			arg = &Argument{Name: producer, Initializer: t}
		} else {
			tt, err := descriptorType(d)
			if err != nil {
				return fmt.Errorf("input %d (%s): %w", i, ref, err)
			}
			id := producer
			if index != "0" {
				id = producer + ":" + index
			}
			arg = &Argument{Name: id, Type: tt}
		}

		name, ok := n.Type.InputName(i)
		if !ok {
			name = positional("input", i)
		}
		n.Inputs = append(n.Inputs, &Parameter{Name: name, Visible: true, Arguments: []*Argument{arg}})
		desc++
	}
	return nil
}

// constant folds a constant producer into a tensor. consumer is the consumer's input
// descriptor for this position, whose layout becomes the tensor format.
func (b *builder) constant(p *ge.OpDef, consumer *ge.TensorDescriptor) (*Tensor, error) {
	value, ok := p.Attribute("value")
	if !ok || value.Kind != ge.AttrTensor || value.T == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingConstValue, p.Name)
	}
	desc := value.T.Desc
	if desc == nil {
		desc = &ge.TensorDescriptor{}
	}

	dims := desc.Dims()
	if origin, ok := desc.Attribute("origin_shape"); ok {
		dims = nil
		if origin.List != nil {
			dims = origin.List.I
		}
	}

	data := value.T.Data
	if len(data) == 0 {
		data = nil
		if b.weights != nil {
			offset := desc.DataOffset
			if merged, ok := desc.Attribute("merged_offset"); ok {
				offset = merged.I
			}
			var err error
			data, err = binreader.New(b.weights).Slice(offset, desc.WeightSize)
			if err != nil {
				return nil, fmt.Errorf("constant %s weights: %w", p.Name, err)
			}
		}
	}

	dtype, err := DataTypeName(desc.DType)
	if err != nil {
		return nil, fmt.Errorf("constant %s: %w", p.Name, err)
	}
	format := ""
	if consumer != nil {
		format = consumer.Layout
	}
	return &Tensor{
		Kind: KindConstant,
		Type: NewTensorType(dtype, dims, format, desc.Layout),
		Data: data,
	}, nil
}

func (b *builder) outputs(op *ge.OpDef, n *Node) error {
	for i, d := range op.OutputDesc {
		tt, err := descriptorType(d)
		if err != nil {
			return fmt.Errorf("output %d: %w", i, err)
		}
		if inputOps[op.Type] && (d == nil || d.Shape == nil) {
			tt.Shape = TensorShape{Dimensions: descriptor(op.InputDesc, 0).Dims()}
		}

		id := op.Name
		if i > 0 {
			id = op.Name + ":" + strconv.Itoa(i)
		}
		name, ok := n.Type.OutputName(i)
		if !ok {
			name = positional("output", i)
		}
		n.Outputs = append(n.Outputs, &Parameter{
			Name:      name,
			Visible:   true,
			Arguments: []*Argument{{Name: id, Type: tt}},
		})
	}
	return nil
}

func (b *builder) attributes(op *ge.OpDef, n *Node) error {
	if op.Attr == nil {
		return nil
	}
	for pair := op.Attr.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Key == deviceAttribute {
			n.Device = deviceName(pair.Value)
			continue
		}
		attr, err := DecodeAttribute(pair.Key, b.provider.Attribute(op.Type, pair.Key), pair.Value)
		if err != nil {
			return err
		}
		n.Attributes = append(n.Attributes, attr)
	}
	return nil
}

// splitInput splits "producer:index" at the last colon. A reference without a colon names
// output 0 of the producer.
func splitInput(ref string) (producer, index string) {
	pos := strings.LastIndexByte(ref, ':')
	switch {
	case pos < 0:
		return ref, "0"
	case pos == 0:
		return unnamedProducer, ref[1:]
	default:
		return ref[:pos], ref[pos+1:]
	}
}

func descriptor(descs []*ge.TensorDescriptor, i int) *ge.TensorDescriptor {
	if i < len(descs) {
		return descs[i]
	}
	return nil
}

// descriptorType builds the tensor type of a descriptor. A missing descriptor yields an
// "undefined" type with no shape.
func descriptorType(d *ge.TensorDescriptor) (*TensorType, error) {
	if d == nil {
		return NewTensorType(dataTypes[0], nil, "", ""), nil
	}
	dtype, err := DataTypeName(d.DType)
	if err != nil {
		return nil, err
	}
	return NewTensorType(dtype, d.Dims(), d.Layout, ""), nil
}

func deviceName(v *ge.AttrDef) string {
	if v == nil {
		return ""
	}
	switch v.Kind {
	case ge.AttrString:
		return string(v.S)
	case ge.AttrInt:
		return strconv.FormatInt(v.I, 10)
	case ge.AttrList:
		if v.List != nil && len(v.List.S) > 0 {
			return string(v.List.S[0])
		}
	}
	return ""
}

// positional returns "prefix" for index 0 and "prefixN" otherwise.
func positional(prefix string, i int) string {
	if i == 0 {
		return prefix
	}
	return prefix + strconv.Itoa(i)
}

package ge

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// Decode parses a serialized ModelDef.
func Decode(data []byte) (*ModelDef, error) {
	m := &ModelDef{Attr: NewAttrMap()}
	d := newDecoder(data, 0, "ModelDef")
	if err := d.readModelDef(m); err != nil {
		return nil, err
	}
	return m, nil
}

// decoder walks one message. Sub-messages get their own decoder whose base records the
// absolute offset of the sub-buffer, so errors point into the original input.
type decoder struct {
	data  []byte
	pos   int
	base  int
	msg   string
	field protowire.Number
	depth int
}

// maxDepth bounds message nesting, matching the protobuf-go default.
const maxDepth = 10000

func newDecoder(data []byte, base int, msg string) *decoder {
	return &decoder{data: data, base: base, msg: msg}
}

func (d *decoder) fail(err error) error {
	return &DecodeError{Message: d.msg, Field: int(d.field), Offset: d.base + d.pos, Err: err}
}

// next reads the next tag. ok is false once the message is exhausted.
func (d *decoder) next() (num protowire.Number, typ protowire.Type, ok bool, err error) {
	if d.pos >= len(d.data) {
		return 0, 0, false, nil
	}
	d.field = 0
	num, typ, n := protowire.ConsumeTag(d.data[d.pos:])
	if n < 0 {
		return 0, 0, false, d.fail(protowire.ParseError(n))
	}
	d.pos += n
	d.field = num
	return num, typ, true, nil
}

func (d *decoder) expect(typ, want protowire.Type) error {
	if typ != want {
		return d.fail(fmt.Errorf("%w %d, want %d", ErrWireType, typ, want))
	}
	return nil
}

func (d *decoder) varint(typ protowire.Type) (uint64, error) {
	if err := d.expect(typ, protowire.VarintType); err != nil {
		return 0, err
	}
	v, n := protowire.ConsumeVarint(d.data[d.pos:])
	if n < 0 {
		return 0, d.fail(protowire.ParseError(n))
	}
	d.pos += n
	return v, nil
}

func (d *decoder) varint64(typ protowire.Type) (int64, error) {
	v, err := d.varint(typ)
	return int64(v), err //nolint:gosec // G115: int64 fields are two's complement varints.
}

func (d *decoder) fixed32(typ protowire.Type) (uint32, error) {
	if err := d.expect(typ, protowire.Fixed32Type); err != nil {
		return 0, err
	}
	v, n := protowire.ConsumeFixed32(d.data[d.pos:])
	if n < 0 {
		return 0, d.fail(protowire.ParseError(n))
	}
	d.pos += n
	return v, nil
}

// bytes returns a view of a length-delimited field and its absolute start offset.
func (d *decoder) bytes(typ protowire.Type) ([]byte, int, error) {
	if err := d.expect(typ, protowire.BytesType); err != nil {
		return nil, 0, err
	}
	v, n := protowire.ConsumeBytes(d.data[d.pos:])
	if n < 0 {
		return nil, 0, d.fail(protowire.ParseError(n))
	}
	start := d.base + d.pos + n - len(v)
	d.pos += n
	return v, start, nil
}

func (d *decoder) str(typ protowire.Type) (string, error) {
	v, _, err := d.bytes(typ)
	return string(v), err
}

func (d *decoder) skip(num protowire.Number, typ protowire.Type) error {
	n := protowire.ConsumeFieldValue(num, typ, d.data[d.pos:])
	if n < 0 {
		return d.fail(protowire.ParseError(n))
	}
	d.pos += n
	return nil
}

// message decodes an embedded message with read.
func (d *decoder) message(typ protowire.Type, name string, read func(*decoder) error) error {
	data, start, err := d.bytes(typ)
	if err != nil {
		return err
	}
	if d.depth >= maxDepth {
		return d.fail(ErrDepth)
	}
	sub := newDecoder(data, start, name)
	sub.depth = d.depth + 1
	return read(sub)
}

// packed decodes a repeated scalar that may be either packed or one element per tag.
func (d *decoder) packed(typ, elem protowire.Type, each func(*decoder) error) error {
	if typ != protowire.BytesType {
		if err := d.expect(typ, elem); err != nil {
			return err
		}
		return each(d)
	}
	data, start, err := d.bytes(typ)
	if err != nil {
		return err
	}
	sub := newDecoder(data, start, d.msg)
	sub.field = d.field
	sub.depth = d.depth
	for sub.pos < len(sub.data) {
		if err := each(sub); err != nil {
			return err
		}
	}
	return nil
}

func (d *decoder) int64s(typ protowire.Type, dst *[]int64) error {
	return d.packed(typ, protowire.VarintType, func(s *decoder) error {
		v, err := s.varint64(protowire.VarintType)
		if err != nil {
			return err
		}
		*dst = append(*dst, v)
		return nil
	})
}

func (d *decoder) float32s(typ protowire.Type, dst *[]float32) error {
	return d.packed(typ, protowire.Fixed32Type, func(s *decoder) error {
		v, err := s.fixed32(protowire.Fixed32Type)
		if err != nil {
			return err
		}
		*dst = append(*dst, math.Float32frombits(v))
		return nil
	})
}

func (d *decoder) bools(typ protowire.Type, dst *[]bool) error {
	return d.packed(typ, protowire.VarintType, func(s *decoder) error {
		v, err := s.varint(protowire.VarintType)
		if err != nil {
			return err
		}
		*dst = append(*dst, v != 0)
		return nil
	})
}

// readModelDef reads ModelDef message.
func (d *decoder) readModelDef(m *ModelDef) error {
	for {
		num, typ, ok, err := d.next()
		if err != nil || !ok {
			return err
		}

		switch num {
		case 1: // name
			m.Name, err = d.str(typ)
		case 2: // version
			var v uint64
			v, err = d.varint(typ)
			m.Version = uint32(v) //nolint:gosec // G115: uint32 field.
		case 3: // custom_version
			m.CustomVersion, err = d.str(typ)
		case 7: // graph
			g := &GraphDef{Attr: NewAttrMap()}
			err = d.message(typ, "GraphDef", func(s *decoder) error { return s.readGraphDef(g) })
			m.Graphs = append(m.Graphs, g)
		case 11: // attr
			err = d.message(typ, "ModelDef.AttrEntry", func(s *decoder) error { return s.readAttrEntry(m.Attr) })
		default:
			err = d.skip(num, typ)
		}

		if err != nil {
			return err
		}
	}
}

// readGraphDef reads GraphDef message.
func (d *decoder) readGraphDef(g *GraphDef) error {
	for {
		num, typ, ok, err := d.next()
		if err != nil || !ok {
			return err
		}

		switch num {
		case 1: // name
			g.Name, err = d.str(typ)
		case 4: // input
			var s string
			s, err = d.str(typ)
			g.Inputs = append(g.Inputs, s)
		case 5: // output
			var s string
			s, err = d.str(typ)
			g.Outputs = append(g.Outputs, s)
		case 6: // op
			op := &OpDef{Attr: NewAttrMap()}
			err = d.message(typ, "OpDef", func(s *decoder) error { return s.readOpDef(op) })
			g.Ops = append(g.Ops, op)
		case 11: // attr
			err = d.message(typ, "GraphDef.AttrEntry", func(s *decoder) error { return s.readAttrEntry(g.Attr) })
		default:
			err = d.skip(num, typ)
		}

		if err != nil {
			return err
		}
	}
}

// readOpDef reads OpDef message.
func (d *decoder) readOpDef(op *OpDef) error {
	for {
		num, typ, ok, err := d.next()
		if err != nil || !ok {
			return err
		}

		switch num {
		case 1: // name
			op.Name, err = d.str(typ)
		case 2: // type
			op.Type, err = d.str(typ)
		case 5: // input
			var s string
			s, err = d.str(typ)
			op.Inputs = append(op.Inputs, s)
		case 10: // attr
			err = d.message(typ, "OpDef.AttrEntry", func(s *decoder) error { return s.readAttrEntry(op.Attr) })
		case 21: // id
			op.ID, err = d.varint64(typ)
		case 22: // stream_id
			op.StreamID, err = d.varint64(typ)
		case 33: // input_desc
			desc := &TensorDescriptor{Attr: NewAttrMap()}
			err = d.message(typ, "TensorDescriptor", func(s *decoder) error { return s.readTensorDescriptor(desc) })
			op.InputDesc = append(op.InputDesc, desc)
		case 34: // output_desc
			desc := &TensorDescriptor{Attr: NewAttrMap()}
			err = d.message(typ, "TensorDescriptor", func(s *decoder) error { return s.readTensorDescriptor(desc) })
			op.OutputDesc = append(op.OutputDesc, desc)
		default:
			err = d.skip(num, typ)
		}

		if err != nil {
			return err
		}
	}
}

// readTensorDescriptor reads TensorDescriptor message.
//
//nolint:gocyclo,cyclop // Field-by-field switch.
func (d *decoder) readTensorDescriptor(desc *TensorDescriptor) error {
	for {
		num, typ, ok, err := d.next()
		if err != nil || !ok {
			return err
		}

		switch num {
		case 1: // name
			desc.Name, err = d.str(typ)
		case 2: // dtype
			desc.DType, err = d.varint64(typ)
		case 3: // shape
			if desc.Shape == nil {
				desc.Shape = &ShapeDef{}
			}
			err = d.message(typ, "ShapeDef", func(s *decoder) error { return s.readShapeDef(desc.Shape) })
		case 4: // layout
			desc.Layout, err = d.str(typ)
		case 5: // attr
			err = d.message(typ, "TensorDescriptor.AttrEntry", func(s *decoder) error { return s.readAttrEntry(desc.Attr) })
		case 10: // size
			desc.Size, err = d.varint64(typ)
		case 11: // weight_size
			desc.WeightSize, err = d.varint64(typ)
		case 14: // device_type
			desc.DeviceType, err = d.str(typ)
		case 16: // real_dim_cnt
			desc.RealDimCnt, err = d.varint64(typ)
		case 18: // data_offset
			desc.DataOffset, err = d.varint64(typ)
		default:
			err = d.skip(num, typ)
		}

		if err != nil {
			return err
		}
	}
}

// readShapeDef reads ShapeDef message.
func (d *decoder) readShapeDef(s *ShapeDef) error {
	for {
		num, typ, ok, err := d.next()
		if err != nil || !ok {
			return err
		}

		switch num {
		case 1: // dim
			err = d.int64s(typ, &s.Dims)
		default:
			err = d.skip(num, typ)
		}

		if err != nil {
			return err
		}
	}
}

// readTensorDef reads TensorDef message.
func (d *decoder) readTensorDef(t *TensorDef) error {
	for {
		num, typ, ok, err := d.next()
		if err != nil || !ok {
			return err
		}

		switch num {
		case 1: // desc
			if t.Desc == nil {
				t.Desc = &TensorDescriptor{Attr: NewAttrMap()}
			}
			err = d.message(typ, "TensorDescriptor", func(s *decoder) error { return s.readTensorDescriptor(t.Desc) })
		case 2: // data
			t.Data, _, err = d.bytes(typ)
		default:
			err = d.skip(num, typ)
		}

		if err != nil {
			return err
		}
	}
}

// readAttrEntry reads one map<string, AttrDef> entry into m. A repeated key replaces the
// earlier value and keeps its position.
func (d *decoder) readAttrEntry(m *AttrMap) error {
	var key string
	value := &AttrDef{}
	for {
		num, typ, ok, err := d.next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}

		switch num {
		case 1: // key
			key, err = d.str(typ)
		case 2: // value
			err = d.message(typ, "AttrDef", func(s *decoder) error { return s.readAttrDef(value) })
		default:
			err = d.skip(num, typ)
		}

		if err != nil {
			return err
		}
	}
	m.Set(key, value)
	return nil
}

// readAttrDef reads AttrDef message. Members form a oneof; the last one on the wire wins.
//
//nolint:gocyclo,cyclop // Field-by-field switch.
func (d *decoder) readAttrDef(a *AttrDef) error {
	for {
		num, typ, ok, err := d.next()
		if err != nil || !ok {
			return err
		}

		switch num {
		case 1: // list
			if a.List == nil {
				a.List = &ListValue{}
			}
			err = d.message(typ, "ListValue", func(s *decoder) error { return s.readListValue(a.List) })
			a.Kind = AttrList
		case 2: // s
			a.S, _, err = d.bytes(typ)
			a.Kind = AttrString
		case 3: // i
			a.I, err = d.varint64(typ)
			a.Kind = AttrInt
		case 4: // f
			var v uint32
			v, err = d.fixed32(typ)
			a.F = math.Float32frombits(v)
			a.Kind = AttrFloat
		case 5: // b
			var v uint64
			v, err = d.varint(typ)
			a.B = v != 0
			a.Kind = AttrBool
		case 7: // bt
			a.BT, _, err = d.bytes(typ)
			a.Kind = AttrBytes
		case 11: // td
			if a.TD == nil {
				a.TD = &TensorDescriptor{Attr: NewAttrMap()}
			}
			err = d.message(typ, "TensorDescriptor", func(s *decoder) error { return s.readTensorDescriptor(a.TD) })
			a.Kind = AttrTensorDesc
		case 12: // t
			if a.T == nil {
				a.T = &TensorDef{}
			}
			err = d.message(typ, "TensorDef", func(s *decoder) error { return s.readTensorDef(a.T) })
			a.Kind = AttrTensor
		case 15: // dt
			a.DT, err = d.varint64(typ)
			a.Kind = AttrDataType
		default:
			// func (10), g (13) and the nested list kinds are not materialized.
			err = d.skip(num, typ)
		}

		if err != nil {
			return err
		}
	}
}

// readListValue reads ListValue message.
func (d *decoder) readListValue(l *ListValue) error {
	for {
		num, typ, ok, err := d.next()
		if err != nil || !ok {
			return err
		}

		switch num {
		case 2: // s
			var v []byte
			v, _, err = d.bytes(typ)
			l.S = append(l.S, v)
		case 3: // i
			err = d.int64s(typ, &l.I)
		case 4: // f
			err = d.float32s(typ, &l.F)
		case 5: // b
			err = d.bools(typ, &l.B)
		case 8: // td
			desc := &TensorDescriptor{Attr: NewAttrMap()}
			err = d.message(typ, "TensorDescriptor", func(s *decoder) error { return s.readTensorDescriptor(desc) })
			l.TD = append(l.TD, desc)
		case 12: // dt
			err = d.int64s(typ, &l.DT)
		default:
			err = d.skip(num, typ)
		}

		if err != nil {
			return err
		}
	}
}

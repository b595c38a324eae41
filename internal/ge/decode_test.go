package ge_test

import (
	"errors"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/born-ml/omview/internal/ge"
	"github.com/born-ml/omview/internal/omtest"
)

func TestDecodeModel(t *testing.T) {
	data := omtest.Op("data", "Data")
	omtest.OutputDesc(data, omtest.Desc(1, "NCHW", 1, 3, 224, 224))

	conv := omtest.Op("conv1", "Conv2D", "data:0", "weight:0", "", "^ctrl:-1")
	conv.Int(21, 7).Int(22, 1)
	omtest.InputDesc(conv, omtest.Desc(1, "NCHW", 1, 3, 224, 224))
	omtest.OutputDesc(conv, omtest.Desc(1, "NCHW", 1, 64, 112, 112))
	omtest.OpAttr(conv, "strides", omtest.AttrInts(1, 1, 2, 2))
	omtest.OpAttr(conv, "data_format", omtest.AttrString("NCHW"))
	omtest.OpAttr(conv, "groups", omtest.AttrInt(1))

	g := omtest.Graph("main", data, conv).Text(4, "data").Text(5, "conv1")
	model := omtest.Model("resnet", g).Text(3, "custom-1")

	def, err := ge.Decode(model.Bytes())
	require.NoError(t, err)

	assert.Equal(t, "resnet", def.Name)
	assert.Equal(t, uint32(1), def.Version)
	assert.Equal(t, "custom-1", def.CustomVersion)
	require.Len(t, def.Graphs, 1)

	graph := def.Graphs[0]
	assert.Equal(t, "main", graph.Name)
	assert.Equal(t, []string{"data"}, graph.Inputs)
	assert.Equal(t, []string{"conv1"}, graph.Outputs)
	require.Len(t, graph.Ops, 2)

	op := graph.Ops[1]
	assert.Equal(t, "conv1", op.Name)
	assert.Equal(t, "Conv2D", op.Type)
	assert.Equal(t, []string{"data:0", "weight:0", "", "^ctrl:-1"}, op.Inputs)
	assert.Equal(t, int64(7), op.ID)
	assert.Equal(t, int64(1), op.StreamID)
	require.Len(t, op.InputDesc, 1)
	require.Len(t, op.OutputDesc, 1)
	assert.Equal(t, []int64{1, 64, 112, 112}, op.OutputDesc[0].Dims())
	assert.Equal(t, "NCHW", op.OutputDesc[0].Layout)
	assert.Equal(t, int64(1), op.OutputDesc[0].DType)

	var keys []string
	for pair := op.Attr.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	assert.Equal(t, []string{"strides", "data_format", "groups"}, keys)

	strides, ok := op.Attribute("strides")
	require.True(t, ok)
	assert.Equal(t, ge.AttrList, strides.Kind)
	assert.Equal(t, []int64{1, 1, 2, 2}, strides.List.I)

	format, ok := op.Attribute("data_format")
	require.True(t, ok)
	assert.Equal(t, ge.AttrString, format.Kind)
	assert.Equal(t, []byte("NCHW"), format.S)

	_, ok = op.Attribute("missing")
	assert.False(t, ok)
}

func TestDecodeAttrDef(t *testing.T) {
	shapeList := omtest.NewMessage().
		Message(8, omtest.Desc(0, "", 2, 3)).
		Message(8, omtest.Desc(0, "", -1, 4))

	tests := []struct {
		name  string
		value *omtest.Message
		want  *ge.AttrDef
	}{
		{
			name:  "int",
			value: omtest.AttrInt(-5),
			want:  &ge.AttrDef{Kind: ge.AttrInt, I: -5},
		},
		{
			name:  "float",
			value: omtest.AttrFloat(0.5),
			want:  &ge.AttrDef{Kind: ge.AttrFloat, F: 0.5},
		},
		{
			name:  "bool",
			value: omtest.AttrBool(true),
			want:  &ge.AttrDef{Kind: ge.AttrBool, B: true},
		},
		{
			name:  "bytes",
			value: omtest.NewMessage().Data(7, []byte{0, 0, 128, 63}),
			want:  &ge.AttrDef{Kind: ge.AttrBytes, BT: []byte{0, 0, 128, 63}},
		},
		{
			name:  "data type",
			value: omtest.NewMessage().Int(15, 27),
			want:  &ge.AttrDef{Kind: ge.AttrDataType, DT: 27},
		},
		{
			name:  "oneof last wins",
			value: omtest.NewMessage().Int(3, 1).Bool(5, true),
			want:  &ge.AttrDef{Kind: ge.AttrBool, I: 1, B: true},
		},
		{
			name: "string list",
			value: omtest.NewMessage().Message(1, omtest.NewMessage().
				Text(2, "a").Text(2, "bc")),
			want: &ge.AttrDef{Kind: ge.AttrList, List: &ge.ListValue{S: [][]byte{[]byte("a"), []byte("bc")}}},
		},
		{
			name: "unpacked ints",
			value: omtest.NewMessage().Message(1, omtest.NewMessage().
				Int(3, 4).Int(3, -1)),
			want: &ge.AttrDef{Kind: ge.AttrList, List: &ge.ListValue{I: []int64{4, -1}}},
		},
		{
			name: "packed floats and bools",
			value: omtest.NewMessage().Message(1, omtest.NewMessage().
				PackedFloats(4, 1.5, -2).PackedBools(5, true, false)),
			want: &ge.AttrDef{Kind: ge.AttrList, List: &ge.ListValue{F: []float32{1.5, -2}, B: []bool{true, false}}},
		},
		{
			name: "unpacked float",
			value: omtest.NewMessage().Message(1, omtest.NewMessage().
				Float(4, 3)),
			want: &ge.AttrDef{Kind: ge.AttrList, List: &ge.ListValue{F: []float32{3}}},
		},
		{
			name: "type list",
			value: omtest.NewMessage().Message(1, omtest.NewMessage().
				PackedInts(12, 1, 3, 99)),
			want: &ge.AttrDef{Kind: ge.AttrList, List: &ge.ListValue{DT: []int64{1, 3, 99}}},
		},
		{
			name:  "graph member skipped",
			value: omtest.NewMessage().Message(13, omtest.Graph("sub")),
			want:  &ge.AttrDef{Kind: ge.AttrNone},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := omtest.Op("n", "T")
			omtest.OpAttr(op, "a", tt.value)
			def, err := ge.Decode(omtest.Model("m", omtest.Graph("g", op)).Bytes())
			require.NoError(t, err)

			got, ok := def.Graphs[0].Ops[0].Attribute("a")
			require.True(t, ok)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("attribute mismatch (-want +got):\n%s", diff)
			}
		})
	}

	t.Run("shape list", func(t *testing.T) {
		op := omtest.Op("n", "T")
		omtest.OpAttr(op, "shapes", omtest.NewMessage().Message(1, shapeList))
		def, err := ge.Decode(omtest.Model("m", omtest.Graph("g", op)).Bytes())
		require.NoError(t, err)

		got, _ := def.Graphs[0].Ops[0].Attribute("shapes")
		require.Equal(t, ge.AttrList, got.Kind)
		require.Len(t, got.List.TD, 2)
		assert.Equal(t, []int64{2, 3}, got.List.TD[0].Dims())
		assert.Equal(t, []int64{-1, 4}, got.List.TD[1].Dims())
	})
}

func TestDecodeTensorAttr(t *testing.T) {
	desc := omtest.Desc(1, "ND", 2, 2).Int(11, 16).Int(18, 64)
	omtest.DescAttr(desc, "origin_shape", omtest.AttrInts(4))

	op := omtest.Op("w", "Const")
	omtest.OpAttr(op, "value", omtest.AttrTensor(desc, []byte{1, 2, 3}))

	def, err := ge.Decode(omtest.Model("m", omtest.Graph("g", op)).Bytes())
	require.NoError(t, err)

	value, ok := def.Graphs[0].Ops[0].Attribute("value")
	require.True(t, ok)
	require.Equal(t, ge.AttrTensor, value.Kind)
	require.NotNil(t, value.T.Desc)

	d := value.T.Desc
	assert.Equal(t, []byte{1, 2, 3}, value.T.Data)
	assert.Equal(t, []int64{2, 2}, d.Dims())
	assert.Equal(t, "ND", d.Layout)
	assert.Equal(t, int64(16), d.WeightSize)
	assert.Equal(t, int64(64), d.DataOffset)

	origin, ok := d.Attribute("origin_shape")
	require.True(t, ok)
	assert.Equal(t, []int64{4}, origin.List.I)
}

func TestDecodeRepeatedAttrKey(t *testing.T) {
	op := omtest.Op("n", "T")
	omtest.OpAttr(op, "a", omtest.AttrInt(1))
	omtest.OpAttr(op, "b", omtest.AttrInt(2))
	omtest.OpAttr(op, "a", omtest.AttrInt(3))

	def, err := ge.Decode(omtest.Model("m", omtest.Graph("g", op)).Bytes())
	require.NoError(t, err)

	attrs := def.Graphs[0].Ops[0].Attr
	assert.Equal(t, 2, attrs.Len())
	assert.Equal(t, "a", attrs.Oldest().Key)
	assert.Equal(t, int64(3), attrs.Oldest().Value.I)
}

func TestDecodeSkipsUnknownFields(t *testing.T) {
	op := omtest.Op("n", "T").
		Text(99, "ignored").
		Float(40, 1).
		Raw(protowire.AppendTag(nil, 41, protowire.Fixed64Type)).
		Raw(protowire.AppendFixed64(nil, 7)).
		Int(42, 3)

	def, err := ge.Decode(omtest.Model("m", omtest.Graph("g", op)).Bytes())
	require.NoError(t, err)
	assert.Equal(t, "n", def.Graphs[0].Ops[0].Name)
}

func TestDecodeEmpty(t *testing.T) {
	def, err := ge.Decode(nil)
	require.NoError(t, err)
	assert.Empty(t, def.Graphs)
	assert.Equal(t, 0, def.Attr.Len())
}

func TestDecodeMalformed(t *testing.T) {
	truncatedOp := omtest.Graph("g").Raw([]byte{0x32, 0x10, 0x0a}) // op field claims 16 bytes

	tests := []struct {
		name    string
		data    []byte
		wantErr error
		message string
	}{
		{
			name:    "truncated varint",
			data:    []byte{0x10, 0xff},
			wantErr: io.ErrUnexpectedEOF,
			message: "ModelDef",
		},
		{
			name:    "truncated sub-message",
			data:    omtest.Model("m", truncatedOp).Bytes(),
			wantErr: io.ErrUnexpectedEOF,
			message: "GraphDef",
		},
		{
			name:    "wrong wire type",
			data:    omtest.NewMessage().Int(1, 5).Bytes(),
			wantErr: ge.ErrWireType,
			message: "ModelDef",
		},
		{
			name:    "truncated tag",
			data:    []byte{0x80},
			wantErr: io.ErrUnexpectedEOF,
			message: "ModelDef",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ge.Decode(tt.data)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var decodeErr *ge.DecodeError
			require.True(t, errors.As(err, &decodeErr))
			assert.Equal(t, tt.message, decodeErr.Message)
		})
	}
}

func TestDecodeErrorOffset(t *testing.T) {
	inner := []byte{0x0a, 0x05, 'a'}
	data := omtest.NewMessage().Text(1, "m").Data(7, inner).Bytes()

	_, err := ge.Decode(data)
	var decodeErr *ge.DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, 1, decodeErr.Field)
	// Graph payload starts at 5 after "0a 01 6d 3a 03"; its name length prefix is at 6.
	assert.Equal(t, 6, decodeErr.Offset)
	assert.Contains(t, decodeErr.Error(), "GraphDef field 1")
}

// nestedDesc returns a TensorDescriptor whose attribute holds a tensor whose descriptor
// holds another such attribute, levels times over. Each level adds four message frames.
func nestedDesc(levels int) *omtest.Message {
	desc := omtest.NewMessage()
	for range levels {
		tensor := omtest.NewMessage().Message(1, desc)
		desc = omtest.DescAttr(omtest.NewMessage(), "k", omtest.NewMessage().Message(12, tensor))
	}
	return desc
}

func TestDecodeNestingLimit(t *testing.T) {
	shallow := omtest.Model("m", omtest.Graph("g", omtest.InputDesc(omtest.Op("n", "Relu"), nestedDesc(100))))
	def, err := ge.Decode(shallow.Bytes())
	require.NoError(t, err)
	attr, ok := def.Graphs[0].Ops[0].InputDesc[0].Attribute("k")
	require.True(t, ok)
	assert.Equal(t, ge.AttrTensor, attr.Kind)

	deep := omtest.Model("m", omtest.Graph("g", omtest.InputDesc(omtest.Op("n", "Relu"), nestedDesc(3000))))
	_, err = ge.Decode(deep.Bytes())
	var decodeErr *ge.DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.ErrorIs(t, err, ge.ErrDepth)
}

func TestAttrMapFields(t *testing.T) {
	value := &ge.AttrDef{Kind: ge.AttrInt, I: 3}
	maps := []*ge.AttrMap{ge.NewAttrMap(), ge.NewAttrMap(), ge.NewAttrMap(), ge.NewAttrMap()}
	for _, m := range maps {
		m.Set("n", value)
	}

	model := &ge.ModelDef{Attr: maps[0]}
	graph := &ge.GraphDef{Attr: maps[1]}
	op := &ge.OpDef{Attr: maps[2]}
	desc := &ge.TensorDescriptor{Attr: maps[3]}

	assert.Equal(t, 1, model.Attr.Len())
	assert.Equal(t, 1, graph.Attr.Len())
	got, ok := op.Attribute("n")
	require.True(t, ok)
	assert.Same(t, value, got)
	got, ok = desc.Attribute("n")
	require.True(t, ok)
	assert.Same(t, value, got)
}

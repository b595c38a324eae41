package graph

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/x448/float16"
)

// UnknownDim marks a dimension whose size is not known.
const UnknownDim int64 = -1

// KindConstant is the kind of tensors folded in from constant ops.
const KindConstant = "Constant"

// ErrUnsupportedPreview is returned by Tensor.Float32s for dtypes it cannot decode.
var ErrUnsupportedPreview = errors.New("tensor preview not supported for dtype")

// TensorShape is an ordered list of dimensions. Negative entries are unknown.
type TensorShape struct {
	Dimensions []int64
}

// String renders the shape as "[d0,d1,...]" with unknown dimensions as "?", or "" when
// the shape has no dimensions.
func (s TensorShape) String() string {
	if len(s.Dimensions) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteByte('[')
	for i, d := range s.Dimensions {
		if i > 0 {
			sb.WriteByte(',')
		}
		if d < 0 {
			sb.WriteByte('?')
		} else {
			sb.WriteString(strconv.FormatInt(d, 10))
		}
	}
	sb.WriteByte(']')
	return sb.String()
}

// NumElements returns the element count, false when any dimension is unknown.
// A scalar (no dimensions) has one element.
func (s TensorShape) NumElements() (int64, bool) {
	n := int64(1)
	for _, d := range s.Dimensions {
		if d < 0 {
			return 0, false
		}
		n *= d
	}
	return n, true
}

// TensorType is the element type, shape and layout annotation of a tensor.
type TensorType struct {
	DataType   string
	Shape      TensorShape
	Denotation string
}

// NewTensorType builds a tensor type. The denotation joins a non-empty format with a
// distinct non-empty denotation.
func NewTensorType(dtype string, dims []int64, format, denotation string) *TensorType {
	var parts []string
	if format != "" {
		parts = append(parts, format)
	}
	if denotation != "" && denotation != format {
		parts = append(parts, denotation)
	}
	return &TensorType{
		DataType:   dtype,
		Shape:      TensorShape{Dimensions: dims},
		Denotation: strings.Join(parts, " "),
	}
}

func (t *TensorType) String() string {
	return t.DataType + t.Shape.String()
}

// Tensor is a constant value. Data is a view into the weight blob or the inline bytes of
// the graph definition, nil when neither was available.
type Tensor struct {
	Kind string
	Type *TensorType
	Data []byte
}

// Float32s decodes up to limit leading elements (all when limit <= 0) of a float32 or
// float16 tensor.
func (t *Tensor) Float32s(limit int) ([]float32, error) {
	size := ElementSize(t.Type.DataType)
	switch t.Type.DataType {
	case "float32", "float16":
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedPreview, t.Type.DataType)
	}

	n := len(t.Data) / size
	if limit > 0 && limit < n {
		n = limit
	}

	out := make([]float32, n)
	for i := range out {
		b := t.Data[i*size:]
		if size == 4 {
			out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b))
		} else {
			out[i] = float16.Frombits(binary.LittleEndian.Uint16(b)).Float32()
		}
	}
	return out, nil
}

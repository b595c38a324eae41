package graph

import "fmt"

// dataTypes maps a dtype ordinal to its name.
var dataTypes = [...]string{
	"undefined",
	"float32",
	"float16",
	"int8",
	"uint8",
	"int16",
	"uint16",
	"int32",
	"int64",
	"uint32",
	"uint64",
	"boolean",
	"float64",
	"string",
	"dual_sub_int8",
	"dual_sub_uint8",
	"complex64",
	"complex128",
	"qint8",
	"qint16",
	"qint32",
	"quint8",
	"quint16",
	"resource",
	"stringref",
	"dual",
	"variant",
	"bfloat16",
	"int4",
	"uint1",
	"int2",
}

// UnknownDtypeError is returned for a dtype ordinal outside the table.
type UnknownDtypeError struct {
	Ordinal int64
}

// Error implements the error interface.
func (e *UnknownDtypeError) Error() string {
	return fmt.Sprintf("unknown dtype %d", e.Ordinal)
}

// DataTypeName returns the name of a dtype ordinal.
func DataTypeName(ordinal int64) (string, error) {
	if ordinal < 0 || ordinal >= int64(len(dataTypes)) {
		return "", &UnknownDtypeError{Ordinal: ordinal}
	}
	return dataTypes[ordinal], nil
}

// ElementSize returns the size in bytes of one element of a fixed-width dtype, or 0 for
// variable-width and sub-byte types.
func ElementSize(dtype string) int {
	switch dtype {
	case "int8", "uint8", "boolean", "qint8", "quint8", "dual_sub_int8", "dual_sub_uint8":
		return 1
	case "float16", "bfloat16", "int16", "uint16", "qint16", "quint16":
		return 2
	case "float32", "int32", "uint32", "qint32":
		return 4
	case "float64", "int64", "uint64", "complex64":
		return 8
	case "complex128":
		return 16
	default:
		return 0
	}
}

package ge

import (
	"errors"
	"fmt"
)

// ErrWireType is returned when a known field carries an unexpected wire type.
// Truncated input surfaces as io.ErrUnexpectedEOF.
var ErrWireType = errors.New("unexpected wire type")

// ErrDepth is returned when messages nest deeper than the decoder allows.
var ErrDepth = errors.New("message nesting too deep")

// DecodeError reports malformed wire data.
type DecodeError struct {
	Message string // Message type being decoded (e.g., "OpDef")
	Field   int    // Field number, 0 when the tag itself was unreadable
	Offset  int    // Absolute offset in the decoded buffer
	Err     error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	if e.Field == 0 {
		return fmt.Sprintf("ge: decode %s at offset %d: %v", e.Message, e.Offset, e.Err)
	}
	return fmt.Sprintf("ge: decode %s field %d at offset %d: %v", e.Message, e.Field, e.Offset, e.Err)
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

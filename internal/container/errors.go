package container

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrInvalidMagic = errors.New("invalid magic bytes: not an OM model")
	ErrTooLarge     = errors.New("buffer exceeds maximum size")
)

// DecodeError reports a failure while decoding the container layout.
type DecodeError struct {
	Op     string // What was being decoded (e.g., "partition table", "partition 2")
	Offset int64  // Absolute offset in the buffer, -1 if not applicable
	Err    error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("container: %s at offset %d: %v", e.Op, e.Offset, e.Err)
	}
	return fmt.Sprintf("container: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// UnknownPartitionError is returned for a partition kind outside the known set.
type UnknownPartitionError struct {
	Kind PartitionKind
}

// Error implements the error interface.
func (e *UnknownPartitionError) Error() string {
	return fmt.Sprintf("unknown partition kind %d", uint32(e.Kind))
}

package om

import (
	"errors"
	"fmt"

	"github.com/born-ml/omview/internal/container"
)

// Stage names the loading step that failed.
type Stage string

// Loading stages, in order.
const (
	StageContainer Stage = "container"
	StageSchema    Stage = "schema"
	StageGraph     Stage = "graph"
)

// Common errors.
var (
	// ErrFormat is returned when the data does not carry the OM signature.
	ErrFormat = container.ErrInvalidMagic

	ErrMissingModelDef = errors.New("model has no graph definition partition")
)

// Error wraps a loading failure with the stage it occurred in.
type Error struct {
	Stage Stage
	Err   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("om: %s: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

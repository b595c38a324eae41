// Package om decodes DaVinci OM model files into normalized graphs for inspection.
//
// An OM file is a container ("IMOD" signature) holding a serialized graph definition,
// a weight blob and a few auxiliary partitions. Loading runs three stages: the container
// layout is parsed, the graph definition is decoded, and every graph is built into nodes
// whose inputs are either edges from other nodes or inlined constant tensors.
//
// # Example Usage
//
//	model, err := om.LoadFile("resnet50.om")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, g := range model.Graphs() {
//	    for _, node := range g.Nodes {
//	        fmt.Println(node.Name, node.Type.Name)
//	    }
//	}
//
// Failures are reported as [*Error] naming the stage that failed:
//
//	var loadErr *om.Error
//	if errors.As(err, &loadErr) {
//	    fmt.Println("failed in stage", loadErr.Stage)
//	}
//
// # Environment
//
//   - OM_METADATA: operator catalog JSON used instead of the built-in one
//   - OM_MAX_FILE_SIZE: largest accepted file in bytes (default 4 GiB, 0 disables)
//   - OM_DEBUG: enables debug logging in commands
package om

import (
	"github.com/born-ml/omview/internal/container"
	"github.com/born-ml/omview/internal/graph"
	internalom "github.com/born-ml/omview/internal/om"
)

// LoadOptions configures model loading.
type LoadOptions = internalom.LoadOptions

// Error is a loading failure tagged with its stage.
type Error = internalom.Error

// Stage names a loading stage.
type Stage = internalom.Stage

// Loading stages.
const (
	StageContainer = internalom.StageContainer
	StageSchema    = internalom.StageSchema
	StageGraph     = internalom.StageGraph
)

// ErrFormat is returned for data without the OM signature.
var ErrFormat = internalom.ErrFormat

// Decoded graph types.
type (
	Graph      = graph.Graph
	Node       = graph.Node
	Parameter  = graph.Parameter
	Argument   = graph.Argument
	Tensor     = graph.Tensor
	TensorType = graph.TensorType
	Attribute  = graph.Attribute
)

// Container types.
type (
	Header    = container.Header
	Partition = container.Partition
)

// Info is the container-level summary returned by Inspect.
type Info = internalom.Info

// DefaultLoadOptions returns options read from the environment.
func DefaultLoadOptions() LoadOptions {
	return internalom.DefaultLoadOptions()
}

// Match reports whether data starts with the OM signature.
func Match(data []byte) bool {
	return internalom.Match(data)
}

// Load decodes a model held in memory. Tensor data of the result are views into data,
// which must not be modified while the model is in use.
//
// Example:
//
//	data, _ := os.ReadFile("model.om")
//	model, err := om.Load(data)
func Load(data []byte, opts ...LoadOptions) (Model, error) {
	m, err := internalom.Load(data, opts...)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// LoadFile reads and decodes a model file.
//
// For a custom operator catalog, pass LoadOptions:
//
//	opts := om.DefaultLoadOptions()
//	opts.Metadata = catalog
//	model, err := om.LoadFile("model.om", opts)
func LoadFile(path string, opts ...LoadOptions) (Model, error) {
	m, err := internalom.LoadFile(path, opts...)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Inspect decodes only the container layout, without decoding graphs.
func Inspect(data []byte) (*Info, error) {
	return internalom.Inspect(data)
}

// InspectFile decodes only the container layout of a file. The file is memory-mapped
// for the duration of the call.
func InspectFile(path string) (*Info, error) {
	return internalom.InspectFile(path)
}

// Package om loads DaVinci OM model files into decoded graphs.
package om

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/born-ml/omview/internal/container"
	"github.com/born-ml/omview/internal/envconfig"
	"github.com/born-ml/omview/internal/ge"
	"github.com/born-ml/omview/internal/graph"
	"github.com/born-ml/omview/internal/mapfile"
	"github.com/born-ml/omview/internal/metadata"
)

// LoadOptions configures model loading behavior.
type LoadOptions struct {
	// Metadata resolves operator schemas. Nil means no schemas.
	Metadata metadata.Provider

	// MaxSize rejects larger inputs. Zero disables the limit.
	MaxSize int64
}

// DefaultLoadOptions returns options taken from the environment: the catalog named by
// OM_METADATA (or the built-in one) and the OM_MAX_FILE_SIZE limit.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		Metadata: metadata.Open(envconfig.Metadata()),
		MaxSize:  int64(envconfig.MaxFileSize()),
	}
}

// Match reports whether data looks like an OM model.
func Match(data []byte) bool {
	return container.Match(data)
}

// LoadFile reads and decodes an OM model file.
func LoadFile(path string, opts ...LoadOptions) (*Model, error) {
	var opt LoadOptions
	if len(opts) > 0 {
		opt = opts[0]
	} else {
		opt = DefaultLoadOptions()
	}

	if opt.MaxSize > 0 {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("read model: %w", err)
		}
		if info.Size() > opt.MaxSize {
			return nil, &Error{Stage: StageContainer, Err: fmt.Errorf("%w: %d bytes, limit %d", container.ErrTooLarge, info.Size(), opt.MaxSize)}
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}

	return Load(data, opt)
}

// Load decodes an OM model held in memory. Tensor data in the result are views into data.
func Load(data []byte, opts ...LoadOptions) (*Model, error) {
	var opt LoadOptions
	if len(opts) > 0 {
		opt = opts[0]
	} else {
		opt = DefaultLoadOptions()
	}

	file, err := container.Parse(data, container.ParseOptions{MaxSize: opt.MaxSize})
	if err != nil {
		return nil, &Error{Stage: StageContainer, Err: err}
	}

	if _, ok := file.Partition(container.PartitionModelDef); !ok {
		return nil, &Error{Stage: StageSchema, Err: ErrMissingModelDef}
	}
	def, err := ge.Decode(file.Model)
	if err != nil {
		return nil, &Error{Stage: StageSchema, Err: err}
	}

	graphs := make([]*graph.Graph, 0, len(def.Graphs))
	for _, g := range def.Graphs {
		built, err := graph.Build(g, file.Weights, opt.Metadata)
		if err != nil {
			return nil, &Error{Stage: StageGraph, Err: fmt.Errorf("graph %q: %w", g.Name, err)}
		}
		graphs = append(graphs, built)
	}

	slog.Debug("om model loaded", "name", def.Name, "graphs", len(graphs), "partitions", len(file.Partitions), "weights", len(file.Weights))

	return &Model{file: file, def: def, graphs: graphs}, nil
}

// Info is the container-level summary of a model, available without decoding its graphs.
type Info struct {
	Header     container.Header
	Partitions []container.Partition
	Devices    map[string]uint32
}

// Inspect decodes only the container layout of data.
func Inspect(data []byte) (*Info, error) {
	file, err := container.Parse(data)
	if err != nil {
		return nil, &Error{Stage: StageContainer, Err: err}
	}
	return &Info{Header: file.Header, Partitions: file.Partitions, Devices: file.Devices}, nil
}

// InspectFile decodes the container layout of a file. The file is memory-mapped and
// released before returning; the result holds no references into it.
func InspectFile(path string) (*Info, error) {
	m, err := mapfile.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	defer m.Close()

	return Inspect(m.Bytes())
}

package om

import (
	"strconv"

	"github.com/born-ml/omview/internal/container"
	"github.com/born-ml/omview/internal/ge"
	"github.com/born-ml/omview/internal/graph"
)

// Model is a decoded OM model.
// It keeps the container buffer alive; tensor data are views into it.
type Model struct {
	file   *container.File
	def    *ge.ModelDef
	graphs []*graph.Graph
}

// Format returns the display name of the model format.
func (m *Model) Format() string {
	return "DaVinci OM"
}

// Name returns the model name from the graph definition, or the header name when unset.
func (m *Model) Name() string {
	if m.def.Name != "" {
		return m.def.Name
	}
	return m.file.Header.Name
}

// Version returns the graph definition version.
func (m *Model) Version() uint32 {
	return m.def.Version
}

// Graphs returns the decoded graphs in definition order.
func (m *Model) Graphs() []*graph.Graph {
	return m.graphs
}

// Header returns the container header.
func (m *Model) Header() container.Header {
	return m.file.Header
}

// Partitions returns the partition table in file order.
func (m *Model) Partitions() []container.Partition {
	return m.file.Partitions
}

// Devices returns the device table, nil when the model has none.
func (m *Model) Devices() map[string]uint32 {
	return m.file.Devices
}

// Weights returns the weight blob, nil when the model has none.
func (m *Model) Weights() []byte {
	return m.file.Weights
}

// Metadata returns model properties as key-value pairs.
func (m *Model) Metadata() map[string]string {
	h := m.file.Header
	meta := map[string]string{
		"format":           m.Format(),
		"version":          strconv.FormatUint(uint64(m.def.Version), 10),
		"model_kind":       h.ModelKind.String(),
		"deploy_mode":      h.DeployMode.String(),
		"platform_version": h.PlatformVersion,
		"platform_type":    strconv.Itoa(int(h.PlatformType)),
		"ir_version":       strconv.FormatUint(uint64(h.IRVersion), 10),
	}
	if m.def.CustomVersion != "" {
		meta["custom_version"] = m.def.CustomVersion
	}
	if m.def.Attr != nil {
		for pair := m.def.Attr.Oldest(); pair != nil; pair = pair.Next() {
			attr, err := graph.DecodeAttribute(pair.Key, nil, pair.Value)
			if err != nil || attr.Value == nil {
				continue
			}
			meta[pair.Key] = attr.Value.String()
		}
	}
	return meta
}

package om

// Model is a decoded OM model.
//
// The implementation is in internal/om; this interface keeps the public surface small.
type Model interface {
	// Format returns the display name of the format ("DaVinci OM").
	Format() string

	// Name returns the model name.
	Name() string

	// Version returns the graph definition version.
	Version() uint32

	// Graphs returns the decoded graphs in definition order.
	Graphs() []*Graph

	// Header returns the container header.
	Header() Header

	// Partitions returns the partition table in file order.
	Partitions() []Partition

	// Devices returns the device table, nil when absent.
	Devices() map[string]uint32

	// Weights returns the raw weight blob, nil when absent.
	Weights() []byte

	// Metadata returns model properties as key-value pairs.
	Metadata() map[string]string
}

// Package container decodes the OM ("IMOD") model container: the fixed header, the
// partition table and the partition payloads.
//
// Container layout:
//
//	[0..256)   fixed header region (magic "IMOD", declared header size, version, ...)
//	[size..)   uint32 partition count, then count x {kind, offset, size} (uint32 LE each)
//	[base..)   partition payloads, base = 256 + 4 + 12*count
//
// Payload slices returned by Parse are views into the input buffer; the buffer must
// outlive the File and everything derived from it.
package container

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/born-ml/omview/internal/binreader"
)

// File is a decoded container.
type File struct {
	Header     Header
	Partitions []Partition

	Model   []byte            // Serialized graph definition (partition 0)
	Weights []byte            // Weight blob (partition 1), nil when absent
	Devices map[string]uint32 // Device name to id (partition 5), nil when absent
}

// ParseOptions configures container parsing.
type ParseOptions struct {
	// MaxSize rejects larger buffers with ErrTooLarge. Zero disables the limit.
	MaxSize int64
}

// Match reports whether data starts with the OM signature.
func Match(data []byte) bool {
	return len(data) >= len(Magic) && string(data[:len(Magic)]) == Magic
}

// Parse decodes a container held entirely in memory.
func Parse(data []byte, opts ...ParseOptions) (*File, error) {
	var opt ParseOptions
	if len(opts) > 0 {
		opt = opts[0]
	}
	if opt.MaxSize > 0 && int64(len(data)) > opt.MaxSize {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrTooLarge, len(data), opt.MaxSize)
	}

	r := binreader.New(data)
	f := &File{}

	if err := parseHeader(r, &f.Header); err != nil {
		if errors.Is(err, ErrInvalidMagic) {
			return nil, err
		}
		return nil, &DecodeError{Op: "header", Offset: r.Position(), Err: err}
	}

	if err := r.SeekTo(0); err != nil {
		return nil, &DecodeError{Op: "partition table", Offset: 0, Err: err}
	}
	if err := r.Skip(int64(f.Header.HeaderSize)); err != nil {
		return nil, &DecodeError{Op: "partition table", Offset: int64(f.Header.HeaderSize), Err: err}
	}

	tableOffset := r.Position()
	partitions, err := parsePartitionTable(r)
	if err != nil {
		return nil, &DecodeError{Op: "partition table", Offset: tableOffset, Err: err}
	}
	f.Partitions = partitions

	for i, p := range partitions {
		if p.Kind > PartitionDeviceConfig {
			return nil, &DecodeError{
				Op:     fmt.Sprintf("partition %d", i),
				Offset: -1,
				Err:    &UnknownPartitionError{Kind: p.Kind},
			}
		}
	}

	if err := ValidatePartitions(partitions, r.Len()); err != nil {
		return nil, err
	}

	base := PayloadBase(len(partitions))
	for i, p := range partitions {
		offset := base + int64(p.Offset)
		payload, err := r.Slice(offset, int64(p.Size))
		if err != nil {
			return nil, &DecodeError{Op: fmt.Sprintf("partition %d (%s)", i, p.Kind), Offset: offset, Err: err}
		}

		slog.Debug("om partition", "index", i, "kind", p.Kind, "offset", offset, "size", p.Size)

		switch p.Kind {
		case PartitionModelDef:
			f.Model = payload
		case PartitionModelWeight:
			f.Weights = payload
		case PartitionTaskInfo, PartitionTBEKernels, PartitionCustAICPUKernels:
			// Recognized, not retained.
		case PartitionDeviceConfig:
			devices, err := parseDeviceConfig(payload)
			if err != nil {
				return nil, &DecodeError{Op: fmt.Sprintf("partition %d (%s)", i, p.Kind), Offset: offset, Err: err}
			}
			f.Devices = devices
		}
	}

	return f, nil
}

// Partition returns the first partition of the given kind.
func (f *File) Partition(kind PartitionKind) (Partition, bool) {
	for _, p := range f.Partitions {
		if p.Kind == kind {
			return p, true
		}
	}
	return Partition{}, false
}

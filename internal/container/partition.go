package container

import (
	"fmt"

	"github.com/born-ml/omview/internal/binreader"
)

// PartitionKind identifies the payload stored in a partition.
type PartitionKind uint32

// Partition kinds.
const (
	PartitionModelDef         PartitionKind = 0
	PartitionModelWeight      PartitionKind = 1
	PartitionTaskInfo         PartitionKind = 2
	PartitionTBEKernels       PartitionKind = 3
	PartitionCustAICPUKernels PartitionKind = 4
	PartitionDeviceConfig     PartitionKind = 5
)

// String returns the partition kind name.
func (k PartitionKind) String() string {
	switch k {
	case PartitionModelDef:
		return "ModelDef"
	case PartitionModelWeight:
		return "ModelWeight"
	case PartitionTaskInfo:
		return "TaskInfo"
	case PartitionTBEKernels:
		return "TBEKernels"
	case PartitionCustAICPUKernels:
		return "CustAICPUKernels"
	case PartitionDeviceConfig:
		return "DeviceConfig"
	default:
		return fmt.Sprintf("Unknown(%d)", uint32(k))
	}
}

// Partition is one entry of the partition table.
type Partition struct {
	Kind   PartitionKind
	Offset uint32 // Relative to the payload base
	Size   uint32
}

// PayloadBase returns the absolute offset partition offsets are relative to.
func PayloadBase(count int) int64 {
	return HeaderRegionSize + 4 + partitionEntrySize*int64(count)
}

func parsePartitionTable(r *binreader.Reader) ([]Partition, error) {
	count, err := r.Uint32()
	if err != nil {
		return nil, fmt.Errorf("read partition count: %w", err)
	}

	// Reject counts the buffer cannot possibly hold before allocating.
	if int64(count)*partitionEntrySize > r.Remaining() {
		return nil, &binreader.RangeError{
			Op:       "partition table",
			Position: r.Position(),
			Length:   int64(count) * partitionEntrySize,
			Size:     r.Len(),
		}
	}

	partitions := make([]Partition, count)
	for i := range partitions {
		p := &partitions[i]
		kind, err := r.Uint32()
		if err != nil {
			return nil, fmt.Errorf("read partition %d kind: %w", i, err)
		}
		p.Kind = PartitionKind(kind)
		if p.Offset, err = r.Uint32(); err != nil {
			return nil, fmt.Errorf("read partition %d offset: %w", i, err)
		}
		if p.Size, err = r.Uint32(); err != nil {
			return nil, fmt.Errorf("read partition %d size: %w", i, err)
		}
	}
	return partitions, nil
}

// parseDeviceConfig decodes a sequence of {len, name, id} records filling the payload.
func parseDeviceConfig(payload []byte) (map[string]uint32, error) {
	devices := make(map[string]uint32)
	r := binreader.New(payload)
	for r.Remaining() > 0 {
		length, err := r.Uint32()
		if err != nil {
			return nil, fmt.Errorf("read device name length: %w", err)
		}
		name, err := r.Read(int64(length))
		if err != nil {
			return nil, fmt.Errorf("read device name: %w", err)
		}
		id, err := r.Uint32()
		if err != nil {
			return nil, fmt.Errorf("read device id for %q: %w", name, err)
		}
		devices[string(name)] = id
	}
	return devices, nil
}

package container

import (
	"fmt"

	"github.com/born-ml/omview/internal/binreader"
)

// ValidatePartitions checks that every partition payload lies inside a buffer of
// dataSize bytes.
func ValidatePartitions(partitions []Partition, dataSize int64) error {
	base := PayloadBase(len(partitions))
	for i, p := range partitions {
		start := base + int64(p.Offset)
		if start+int64(p.Size) > dataSize {
			return &DecodeError{
				Op:     fmt.Sprintf("partition %d (%s)", i, p.Kind),
				Offset: start,
				Err: &binreader.RangeError{
					Op:       "partition",
					Position: start,
					Length:   int64(p.Size),
					Size:     dataSize,
				},
			}
		}
	}
	return nil
}

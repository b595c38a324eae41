// Package omtest builds OM containers and ge.proto payloads in memory for tests.
package omtest

import (
	"bytes"
	"encoding/binary"
)

// Partition is a partition to be written by Container.
type Partition struct {
	Kind    uint32
	Payload []byte
}

// Header holds the header fields written by Container.
type Header struct {
	Version         uint32
	Encrypted       bool
	ModelKind       uint8
	DeployMode      uint8
	Name            string
	OpCount         uint32
	IRVersion       uint32
	ModelCount      uint32
	PlatformVersion string
	PlatformType    uint8
}

// Container serializes a container with the given partitions laid out back to back
// after the partition table.
func Container(h Header, partitions ...Partition) []byte {
	buf := new(bytes.Buffer)
	order := binary.LittleEndian

	buf.WriteString("IMOD")
	_ = binary.Write(buf, order, uint32(256))
	_ = binary.Write(buf, order, h.Version)
	buf.Write(make([]byte, 64)) // checksum
	buf.Write(make([]byte, 4))  // reserved
	buf.WriteByte(boolByte(h.Encrypted))
	buf.WriteByte(0) // checksum flag
	buf.WriteByte(h.ModelKind)
	buf.WriteByte(h.DeployMode)
	buf.Write(fixed(h.Name, 32))
	_ = binary.Write(buf, order, h.OpCount)
	buf.Write(make([]byte, 32)) // user-defined info
	_ = binary.Write(buf, order, h.IRVersion)
	_ = binary.Write(buf, order, h.ModelCount)
	buf.Write(fixed(h.PlatformVersion, 20))
	buf.WriteByte(h.PlatformType)
	buf.Write(make([]byte, 256-buf.Len()))

	_ = binary.Write(buf, order, uint32(len(partitions)))
	var offset uint32
	for _, p := range partitions {
		_ = binary.Write(buf, order, p.Kind)
		_ = binary.Write(buf, order, offset)
		_ = binary.Write(buf, order, uint32(len(p.Payload)))
		offset += uint32(len(p.Payload))
	}
	for _, p := range partitions {
		buf.Write(p.Payload)
	}
	return buf.Bytes()
}

// RawContainer writes a header followed by a partition table with arbitrary entries and
// a trailing payload region, for malformed-input tests.
func RawContainer(entries [][3]uint32, payload []byte) []byte {
	buf := new(bytes.Buffer)
	order := binary.LittleEndian

	buf.WriteString("IMOD")
	_ = binary.Write(buf, order, uint32(256))
	buf.Write(make([]byte, 256-buf.Len()))

	_ = binary.Write(buf, order, uint32(len(entries)))
	for _, e := range entries {
		_ = binary.Write(buf, order, e[0])
		_ = binary.Write(buf, order, e[1])
		_ = binary.Write(buf, order, e[2])
	}
	buf.Write(payload)
	return buf.Bytes()
}

// DeviceConfig encodes a device table payload. Entries are written in the given order.
func DeviceConfig(names []string, ids []uint32) []byte {
	buf := new(bytes.Buffer)
	for i, name := range names {
		_ = binary.Write(buf, binary.LittleEndian, uint32(len(name)))
		buf.WriteString(name)
		_ = binary.Write(buf, binary.LittleEndian, ids[i])
	}
	return buf.Bytes()
}

func fixed(s string, n int) []byte {
	b := make([]byte, n)
	copy(b, s)
	return b
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

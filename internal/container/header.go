package container

import (
	"bytes"
	"fmt"

	"github.com/born-ml/omview/internal/binreader"
)

// Layout constants.
const (
	Magic = "IMOD"

	// HeaderRegionSize is the fixed on-disk header region. Partition payload offsets are
	// relative to the end of the partition table that follows it, whatever the declared
	// header size says.
	HeaderRegionSize = 256

	partitionEntrySize = 12
	checksumSize       = 64
	nameSize           = 32
	userDefineInfoSize = 32
	platformVerSize    = 20
)

// ModelKind is the model type byte of the header.
type ModelKind uint8

// Model kinds.
const (
	ModelKindIR ModelKind = iota
	ModelKindStandard
	ModelKindTiny
)

// String returns the model kind name.
func (k ModelKind) String() string {
	switch k {
	case ModelKindIR:
		return "IR"
	case ModelKindStandard:
		return "standard"
	case ModelKindTiny:
		return "OM tiny"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// DeployMode is the deployment mode byte of the header.
type DeployMode uint8

// Deployment modes.
const (
	DeployOffline DeployMode = iota
	DeployOnline
)

// String returns the deployment mode name.
func (m DeployMode) String() string {
	switch m {
	case DeployOffline:
		return "offline"
	case DeployOnline:
		return "online"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(m))
	}
}

// Header is the fixed file header.
type Header struct {
	Magic           [4]byte
	HeaderSize      uint32 // Declared header size; the partition table starts here
	Version         uint32
	Checksum        [checksumSize]byte
	Encrypted       bool
	HasChecksum     bool
	ModelKind       ModelKind
	DeployMode      DeployMode
	Name            string
	OpCount         uint32
	UserDefineInfo  [userDefineInfoSize]byte
	IRVersion       uint32
	ModelCount      uint32
	PlatformVersion string
	PlatformType    uint8
}

func parseHeader(r *binreader.Reader, h *Header) error {
	magic, err := r.Read(4)
	if err != nil {
		return fmt.Errorf("read magic: %w", err)
	}
	copy(h.Magic[:], magic)
	if string(magic) != Magic {
		return ErrInvalidMagic
	}

	if h.HeaderSize, err = r.Uint32(); err != nil {
		return fmt.Errorf("read header size: %w", err)
	}
	if h.Version, err = r.Uint32(); err != nil {
		return fmt.Errorf("read version: %w", err)
	}

	checksum, err := r.Read(checksumSize)
	if err != nil {
		return fmt.Errorf("read checksum: %w", err)
	}
	copy(h.Checksum[:], checksum)

	// reserved
	if err := r.Skip(4); err != nil {
		return fmt.Errorf("skip reserved: %w", err)
	}

	flags, err := r.Read(4)
	if err != nil {
		return fmt.Errorf("read flags: %w", err)
	}
	h.Encrypted = flags[0] != 0
	h.HasChecksum = flags[1] != 0
	h.ModelKind = ModelKind(flags[2])
	h.DeployMode = DeployMode(flags[3])

	name, err := r.Read(nameSize)
	if err != nil {
		return fmt.Errorf("read name: %w", err)
	}
	h.Name = cString(name)

	if h.OpCount, err = r.Uint32(); err != nil {
		return fmt.Errorf("read op count: %w", err)
	}

	info, err := r.Read(userDefineInfoSize)
	if err != nil {
		return fmt.Errorf("read user-defined info: %w", err)
	}
	copy(h.UserDefineInfo[:], info)

	if h.IRVersion, err = r.Uint32(); err != nil {
		return fmt.Errorf("read IR version: %w", err)
	}
	if h.ModelCount, err = r.Uint32(); err != nil {
		return fmt.Errorf("read model count: %w", err)
	}

	platform, err := r.Read(platformVerSize)
	if err != nil {
		return fmt.Errorf("read platform version: %w", err)
	}
	h.PlatformVersion = cString(platform)

	if h.PlatformType, err = r.Byte(); err != nil {
		return fmt.Errorf("read platform type: %w", err)
	}

	return nil
}

// cString decodes a fixed-size, NUL-padded text field.
func cString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

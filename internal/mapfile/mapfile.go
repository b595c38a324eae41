// Package mapfile maps model files read-only into memory.
package mapfile

import (
	"fmt"
	"os"
)

// File is a read-only memory-mapped file.
// Slices returned by Bytes are invalid after Close.
type File struct {
	file   *os.File
	data   []byte
	size   int64
	mapped bool
	closed bool
}

// Open maps the file at path. An empty file is opened without a mapping.
//
// Important: Always call Close() when done to unmap the file (use defer).
func Open(path string) (*File, error) {
	//nolint:gosec // G304: the path names the model to inspect.
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	m := &File{file: file, size: stat.Size()}
	if m.size == 0 {
		return m, nil
	}

	data, mapped, err := mapFile(file, m.size)
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("mmap failed: %w", err)
	}
	m.data = data
	m.mapped = mapped

	return m, nil
}

// Bytes returns the mapped contents.
func (m *File) Bytes() []byte {
	return m.data
}

// Len returns the file size in bytes.
func (m *File) Len() int64 {
	return m.size
}

// Close unmaps and closes the file.
func (m *File) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true

	var err error
	if m.mapped {
		err = unmapFile(m.data)
	}
	m.data = nil

	if closeErr := m.file.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	return err
}

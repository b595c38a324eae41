//go:build windows

package mapfile

import (
	"os"
	"unsafe"

	"golang.org/x/sys/windows"
)

func mapFile(f *os.File, size int64) ([]byte, bool, error) {
	handle, err := windows.CreateFileMapping(
		windows.Handle(f.Fd()),
		nil,
		windows.PAGE_READONLY,
		uint32(size>>32), //nolint:gosec // G115: high half of the size
		uint32(size),     //nolint:gosec // G115: low half of the size
		nil,
	)
	if err != nil {
		return nil, false, err
	}
	defer windows.CloseHandle(handle) //nolint:errcheck

	addr, err := windows.MapViewOfFile(handle, windows.FILE_MAP_READ, 0, 0, uintptr(size))
	if err != nil {
		return nil, false, err
	}

	//nolint:gosec // G103: addr is a live view of exactly size bytes.
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), int(size)), true, nil
}

func unmapFile(data []byte) error {
	return windows.UnmapViewOfFile(uintptr(unsafe.Pointer(&data[0]))) //nolint:gosec // G103
}

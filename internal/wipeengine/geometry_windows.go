//go:build windows

package wipeengine

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Windows IOCTL codes from winioctl.h, used here exactly as the
// original zd-win.c source uses them (spec.md §6, §9's "Windows
// draft is incomplete" note — this is the intended interface).
const (
	ioctlDiskGetDriveGeometryEx = 0x700A0
	ioctlDiskDeleteDriveLayout  = 0x7C100
)

// diskGeometryEx mirrors the fixed-size prefix of DISK_GEOMETRY_EX
// that we need: the 24-byte DISK_GEOMETRY header followed by the
// 8-byte DiskSize LARGE_INTEGER.
type diskGeometryEx struct {
	Geometry [24]byte
	DiskSize int64
}

// DiscoverSize determines the byte length of path. For a regular file
// the size reported by Stat suffices; for a block device it falls back to
// IOCTL_DISK_GET_DRIVE_GEOMETRY_EX (spec.md §6).
func DiscoverSize(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("could not open %s: %w", path, err)
	}
	defer f.Close()

	if fi, statErr := f.Stat(); statErr == nil && fi.Size() > 0 {
		return uint64(fi.Size()), nil
	}

	handle := windows.Handle(f.Fd())
	var dge diskGeometryEx
	var returned uint32
	err = windows.DeviceIoControl(
		handle,
		ioctlDiskGetDriveGeometryEx,
		nil, 0,
		(*byte)(unsafe.Pointer(&dge)), uint32(unsafe.Sizeof(dge)),
		&returned, nil,
	)
	if err != nil {
		return 0, fmt.Errorf("could not determine size of %s: %w", path, err)
	}
	if dge.DiskSize <= 0 {
		return 0, fmt.Errorf("could not determine size of %s", path)
	}
	return uint64(dge.DiskSize), nil
}

// InvalidateDriveLayout issues IOCTL_DISK_DELETE_DRIVE_LAYOUT before
// the first write of a writing mode against a block device, so the
// OS does not keep serving a stale partition table (spec.md §6).
// Regular files have no drive layout and are left untouched.
func InvalidateDriveLayout(t *Target) error {
	if fi, err := t.File.Stat(); err == nil && fi.Mode().IsRegular() {
		return nil
	}
	handle := windows.Handle(t.File.Fd())
	var returned uint32
	err := windows.DeviceIoControl(
		handle,
		ioctlDiskDeleteDriveLayout,
		nil, 0,
		nil, 0,
		&returned, nil,
	)
	if err != nil {
		return fmt.Errorf("could not invalidate drive layout of %s: %w", t.Path, err)
	}
	return nil
}

//go:build !windows

package wipeengine

import (
	"fmt"
	"io"
	"os"
)

// DiscoverSize determines the byte length of path by opening it
// read-only and seeking to the end. This works uniformly for regular
// files and POSIX block devices (spec.md §6).
func DiscoverSize(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("could not open %s: %w", path, err)
	}
	defer f.Close()

	size, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, fmt.Errorf("could not determine size of %s: %w", path, err)
	}
	if size < 0 {
		return 0, fmt.Errorf("could not determine size of %s", path)
	}
	return uint64(size), nil
}

// InvalidateDriveLayout is a no-op on POSIX systems; the Windows
// "invalidate drive layout" IOCTL hint in spec.md §6 has no POSIX
// equivalent in scope here.
func InvalidateDriveLayout(t *Target) error {
	return nil
}

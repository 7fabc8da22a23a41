package wipeengine

import (
	"fmt"
	"io"
	"os"
)

// Target owns the open descriptor for the device or file being wiped,
// its byte length, the current logical offset, and the geometry
// derived from that length and the configured block size.
//
// Pointer is the single authoritative cursor (spec.md §9's design
// note): ReadExact and WriteExact always operate at Pointer via
// positioned I/O (os.File.ReadAt/WriteAt), so the kernel file
// description's own seek offset is never consulted and cannot drift
// from Pointer across a retry.
type Target struct {
	Path    string
	File    *os.File
	Size    uint64
	Pointer uint64
	Blocks  uint64
	Tail    uint64

	// ReadCount and WriteCount tally successful ReadExact/WriteExact
	// calls. They exist so tests can assert the quantified invariants
	// in spec.md §8 (e.g. "wipe_selective issues zero writes on an
	// already-clean target") without instrumenting the pass drivers.
	ReadCount  uint64
	WriteCount uint64
}

// OpenTarget opens path with the given os package flag and returns a
// Target with Pointer at 0. It does not determine Size; callers use
// DiscoverSize (pre-pass) and DeriveGeometry to populate it.
func OpenTarget(path string, flag int) (*Target, error) {
	f, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %w", path, err)
	}
	return &Target{Path: path, File: f}, nil
}

// DeriveGeometry computes Blocks and Tail from Size and the given
// block size: blocks*blockSize + tail == size, 0 <= tail < blockSize.
func (t *Target) DeriveGeometry(blockSize uint32) {
	bs := uint64(blockSize)
	t.Blocks = t.Size / bs
	t.Tail = t.Size % bs
}

// Reopen closes the current descriptor (if any) and reopens Path with
// flag, resetting Pointer to 0. Used between passes to defeat any
// kernel-side read cache left over from the preceding writing pass
// (spec.md §4.4/§6).
func (t *Target) Reopen(flag int) error {
	if t.File != nil {
		if err := t.File.Close(); err != nil {
			return fmt.Errorf("could not close %s: %w", t.Path, err)
		}
	}
	f, err := os.OpenFile(t.Path, flag, 0)
	if err != nil {
		return fmt.Errorf("could not reopen %s: %w", t.Path, err)
	}
	t.File = f
	t.Pointer = 0
	return nil
}

// Close closes the underlying descriptor.
func (t *Target) Close() error {
	if t.File == nil {
		return nil
	}
	err := t.File.Close()
	t.File = nil
	return err
}

// Rewind resets Pointer to 0 (spec.md §4.1).
func (t *Target) Rewind() error {
	t.Pointer = 0
	return nil
}

// SeekTo positions Pointer at abs. Positioned I/O means this never
// touches the kernel cursor. It always succeeds: abs is not checked
// against Size here, which is left to callers.
func (t *Target) SeekTo(abs uint64) error {
	t.Pointer = abs
	return nil
}

// SeekRelative moves Pointer by the signed delta.
func (t *Target) SeekRelative(delta int64) error {
	next := int64(t.Pointer) + delta
	if next < 0 {
		return fmt.Errorf("cannot move pointer to negative offset in %s", t.Path)
	}
	t.Pointer = uint64(next)
	return nil
}

// ReadExact reads exactly len(buf) bytes at Pointer into buf. It does
// not advance Pointer; the caller advances it on success (spec.md
// §4.1).
func (t *Target) ReadExact(buf []byte) error {
	n, err := t.File.ReadAt(buf, int64(t.Pointer))
	if n == len(buf) {
		t.ReadCount++
		return nil
	}
	if err == nil {
		err = io.ErrUnexpectedEOF
	}
	return err
}

// WriteExact writes exactly len(buf) bytes from buf at Pointer. It
// does not advance Pointer; the caller advances it on success.
func (t *Target) WriteExact(buf []byte) error {
	n, err := t.File.WriteAt(buf, int64(t.Pointer))
	if n == len(buf) {
		t.WriteCount++
		return nil
	}
	if err == nil {
		err = io.ErrShortWrite
	}
	return err
}

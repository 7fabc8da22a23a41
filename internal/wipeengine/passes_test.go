package wipeengine

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func tempTargetFile(t *testing.T, size int, fill byte) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "target.img")
	buf := bytes.Repeat([]byte{fill}, size)
	if err := os.WriteFile(path, buf, 0o600); err != nil {
		t.Fatalf("could not create temp target: %v", err)
	}
	return path
}

func openRW(t *testing.T, path string, size uint64, blockSize uint32) *Target {
	t.Helper()
	tg, err := OpenTarget(path, os.O_RDWR)
	if err != nil {
		t.Fatalf("OpenTarget: %v", err)
	}
	tg.Size = size
	tg.DeriveGeometry(blockSize)
	return tg
}

func readAll(t *testing.T, path string) []byte {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	return b
}

// spec.md §8 scenario 1: 8192 bytes of 0x55, selective mode overwrites
// every block, verify is clean.
func TestWipeSelectiveOverwritesDirtyTarget(t *testing.T) {
	path := tempTargetFile(t, 8192, 0x55)
	conf, err := NewFillConfig(4096, 0x00)
	if err != nil {
		t.Fatalf("NewFillConfig: %v", err)
	}
	ledger := NewLedger(200, 200)
	prog := NewProgress(nil)

	tg := openRW(t, path, 8192, 4096)
	if err := WipeSelective(tg, conf, ledger, prog); err != nil {
		t.Fatalf("WipeSelective: %v", err)
	}
	tg.Close()

	if len(ledger.Entries) != 0 {
		t.Fatalf("unexpected ledger entries: %v", ledger.Entries)
	}
	if got := readAll(t, path); !bytes.Equal(got, bytes.Repeat([]byte{0}, 8192)) {
		t.Fatalf("target not fully overwritten with 0x00")
	}

	ledger.Reset()
	tg2 := openRW(t, path, 8192, 4096)
	defer tg2.Close()
	if err := Verify(tg2, conf, ledger, prog); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if len(ledger.Entries) != 0 {
		t.Fatalf("verify found faults on a freshly wiped target: %v", ledger.Entries)
	}
}

// spec.md §8 scenario 2: 8192 bytes of 0x00, selective mode issues 2
// reads, 0 writes.
func TestWipeSelectiveNoOpOnCleanTarget(t *testing.T) {
	path := tempTargetFile(t, 8192, 0x00)
	conf, err := NewFillConfig(4096, 0x00)
	if err != nil {
		t.Fatalf("NewFillConfig: %v", err)
	}
	ledger := NewLedger(200, 200)
	prog := NewProgress(nil)

	tg := openRW(t, path, 8192, 4096)
	defer tg.Close()
	if err := WipeSelective(tg, conf, ledger, prog); err != nil {
		t.Fatalf("WipeSelective: %v", err)
	}
	if tg.ReadCount != 2 {
		t.Fatalf("ReadCount = %d, want 2", tg.ReadCount)
	}
	if tg.WriteCount != 0 {
		t.Fatalf("WriteCount = %d, want 0", tg.WriteCount)
	}
}

// spec.md §8 scenario 3: 10000-byte file, 4096-byte blocks -> 2 full
// blocks plus a 1808-byte tail; after WipeAll every byte is 0x00.
func TestWipeAllHandlesTail(t *testing.T) {
	path := tempTargetFile(t, 10000, 0xAB)
	conf, err := NewFillConfig(4096, 0x00)
	if err != nil {
		t.Fatalf("NewFillConfig: %v", err)
	}
	ledger := NewLedger(200, 200)
	prog := NewProgress(nil)

	tg := openRW(t, path, 10000, 4096)
	if tg.Blocks != 2 || tg.Tail != 1808 {
		t.Fatalf("geometry = blocks=%d tail=%d, want blocks=2 tail=1808", tg.Blocks, tg.Tail)
	}
	if err := WipeAll(tg, conf, ledger, prog); err != nil {
		t.Fatalf("WipeAll: %v", err)
	}
	tg.Close()

	if tg.WriteCount != 3 {
		t.Fatalf("WriteCount = %d, want blocks+1 = 3", tg.WriteCount)
	}
	if tg.Pointer != tg.Size {
		t.Fatalf("Pointer = %d, want %d", tg.Pointer, tg.Size)
	}
	if got := readAll(t, path); !bytes.Equal(got, bytes.Repeat([]byte{0}, 10000)) {
		t.Fatalf("target not fully overwritten")
	}
}

// spec.md §8 scenario 4: -f ff fills with 0xFF; a verify-only rerun is
// clean.
func TestFillByteFFRoundTrips(t *testing.T) {
	path := tempTargetFile(t, 4096, 0x00)
	conf, err := NewFillConfig(4096, 0xFF)
	if err != nil {
		t.Fatalf("NewFillConfig: %v", err)
	}
	ledger := NewLedger(200, 200)
	prog := NewProgress(nil)

	tg := openRW(t, path, 4096, 4096)
	if err := WipeAll(tg, conf, ledger, prog); err != nil {
		t.Fatalf("WipeAll: %v", err)
	}
	tg.Close()

	if got := readAll(t, path); !bytes.Equal(got, bytes.Repeat([]byte{0xFF}, 4096)) {
		t.Fatalf("target not filled with 0xFF")
	}

	ledger.Reset()
	tg2 := openRW(t, path, 4096, 4096)
	defer tg2.Close()
	if err := Verify(tg2, conf, ledger, prog); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if len(ledger.Entries) != 0 {
		t.Fatalf("second verify-only run reported faults: %v", ledger.Entries)
	}
}

// spec.md §8 scenario 6: a single dirty byte inside an otherwise clean
// block produces exactly one Unwiped entry at the block's start
// offset.
func TestVerifyReportsUnwipedBlock(t *testing.T) {
	path := tempTargetFile(t, 4096, 0x00)
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	if _, err := f.WriteAt([]byte{0x01}, 2000); err != nil {
		t.Fatalf("WriteAt: %v", err)
	}
	f.Close()

	conf, err := NewFillConfig(4096, 0x00)
	if err != nil {
		t.Fatalf("NewFillConfig: %v", err)
	}
	ledger := NewLedger(200, 200)
	prog := NewProgress(nil)

	tg := openRW(t, path, 4096, 4096)
	defer tg.Close()
	if err := Verify(tg, conf, ledger, prog); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if len(ledger.Entries) != 1 {
		t.Fatalf("want exactly one ledger entry, got %v", ledger.Entries)
	}
	if ledger.Entries[0].Offset != 0 || ledger.Entries[0].Kind != Unwiped {
		t.Fatalf("unexpected entry: %+v", ledger.Entries[0])
	}
}

// Quantified invariant: WipeAll issues exactly blocks + (tail>0 ? 1 : 0)
// writes, and never issues a read.
func TestWipeAllWriteCount(t *testing.T) {
	cases := []struct {
		size      int
		blockSize uint32
		wantWrite uint64
	}{
		{size: 4096, blockSize: 4096, wantWrite: 1},
		{size: 8192, blockSize: 4096, wantWrite: 2},
		{size: 10000, blockSize: 4096, wantWrite: 3},
		{size: 2000, blockSize: 4096, wantWrite: 1},
	}
	for _, c := range cases {
		path := tempTargetFile(t, c.size, 0x11)
		conf, err := NewFillConfig(c.blockSize, 0x00)
		if err != nil {
			t.Fatalf("NewFillConfig: %v", err)
		}
		ledger := NewLedger(200, 200)
		tg := openRW(t, path, uint64(c.size), c.blockSize)
		if err := WipeAll(tg, conf, ledger, NewProgress(nil)); err != nil {
			t.Fatalf("WipeAll: %v", err)
		}
		tg.Close()
		if tg.WriteCount != c.wantWrite {
			t.Errorf("size=%d bs=%d: WriteCount = %d, want %d", c.size, c.blockSize, tg.WriteCount, c.wantWrite)
		}
		if tg.ReadCount != 0 {
			t.Errorf("size=%d bs=%d: ReadCount = %d, want 0", c.size, c.blockSize, tg.ReadCount)
		}
	}
}

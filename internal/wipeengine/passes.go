package wipeengine

// iterateBlocks drives the shared pass skeleton every driver uses:
// t.Blocks full-size strides starting at offset 0, then one trailing
// stride of t.Tail bytes if t.Tail > 0 (spec.md §4.3). step is called
// with the full BlockSize for every full stride and with t.Tail for
// the trailing one; it must not advance t.Pointer itself — iterateBlocks
// does that on the caller's behalf once step returns nil.
func iterateBlocks(t *Target, conf *FillConfig, prog *Progress, step func(size uint32) error) error {
	t.Pointer = 0
	for i := uint64(0); i < t.Blocks; i++ {
		if err := step(conf.BlockSize); err != nil {
			return err
		}
		t.Pointer += uint64(conf.BlockSize)
		prog.Tick(t.Pointer, t.Size, false)
	}
	if t.Tail > 0 {
		if err := step(uint32(t.Tail)); err != nil {
			return err
		}
		t.Pointer += t.Tail
	}
	prog.Tick(t.Size, t.Size, true)
	prog.Done()
	return nil
}

// WipeAll unconditionally overwrites every byte of the target with
// conf.Buffer, issuing no reads (spec.md §4.3 "wipe_all").
func WipeAll(t *Target, conf *FillConfig, ledger *Ledger, prog *Progress) error {
	return iterateBlocks(t, conf, prog, func(size uint32) error {
		_, err := writeBlock(t, ledger, conf.Buffer[:size])
		return err
	})
}

// WipeRandom is WipeAll with conf.Buffer replaced, once, by uniformly
// random bytes before the pass begins; the same buffer is reused for
// every block (spec.md §4.3 "wipe_random", §9 "random pass buffer
// reuse" — this is intentional, not cryptographic erase). When the pass
// returns, conf.Buffer is refilled with conf.Value so a following
// WipeAll writes the fill byte again.
func WipeRandom(t *Target, conf *FillConfig, ledger *Ledger, prog *Progress) error {
	if err := conf.Randomize(); err != nil {
		return err
	}
	defer fillBytes(conf.Buffer, conf.Value)
	return WipeAll(t, conf, ledger, prog)
}

// WipeSelective reads each block, skips it if already clean, and
// otherwise overwrites it in place (spec.md §4.3 "wipe_selective").
// Positioned I/O means no explicit back-seek is needed before the
// conditional write: ReadExact never advanced t.Pointer, so WriteExact
// lands at the same offset the read came from.
func WipeSelective(t *Target, conf *FillConfig, ledger *Ledger, prog *Progress) error {
	scratch := make([]byte, conf.BlockSize)
	return iterateBlocks(t, conf, prog, func(size uint32) error {
		buf := scratch[:size]
		ok, err := readBlock(t, ledger, buf)
		if err != nil || !ok {
			return err
		}
		if blockClean(buf, conf, size) {
			return nil
		}
		_, err = writeBlock(t, ledger, conf.Buffer[:size])
		return err
	})
}

// Verify reads each block and records an Unwiped entry for any block
// whose content does not match the fill value. It never writes and
// always scans from offset 0 to Size (spec.md §4.3 "verify").
func Verify(t *Target, conf *FillConfig, ledger *Ledger, prog *Progress) error {
	scratch := make([]byte, conf.BlockSize)
	return iterateBlocks(t, conf, prog, func(size uint32) error {
		buf := scratch[:size]
		ok, err := readBlock(t, ledger, buf)
		if err != nil || !ok {
			return err
		}
		if blockClean(buf, conf, size) {
			return nil
		}
		return ledger.Add(t.Pointer, Unwiped)
	})
}

// blockClean compares buf against the fill value at 64-bit word
// granularity for a full block, or byte granularity for a short
// (tail) stride.
func blockClean(buf []byte, conf *FillConfig, size uint32) bool {
	if size == conf.BlockSize {
		return wordsClean(buf, conf.Value64)
	}
	return bytesClean(buf, conf.Value)
}

package wipeengine

import (
	retry "github.com/avast/retry-go"
)

// retryIO re-attempts op up to attempts times with no backoff delay —
// the positioned-I/O equivalent of the C source's "seek back to the
// start of the failing block and retry" loop (spec.md §4.2). Since
// ReadExact/WriteExact are already positioned at the block start,
// there is nothing to re-seek between attempts.
func retryIO(attempts int, op func() error) error {
	if attempts <= 0 {
		return op()
	}
	return retry.Do(
		op,
		retry.Attempts(uint(attempts)),
		retry.Delay(0),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
}

// readBlock reads len(buf) bytes at t.Pointer, retrying on fault up to
// ledger.Retry times. On success it returns ok=true. On an unrecovered
// fault it records a ReadError at t.Pointer and returns ok=false; err
// is non-nil only when the ledger's abort threshold was just reached,
// in which case the pass must stop immediately.
func readBlock(t *Target, ledger *Ledger, buf []byte) (ok bool, err error) {
	if t.ReadExact(buf) == nil {
		return true, nil
	}
	if retryIO(ledger.Retry, func() error { return t.ReadExact(buf) }) == nil {
		return true, nil
	}
	if abortErr := ledger.Add(t.Pointer, ReadError); abortErr != nil {
		return false, abortErr
	}
	return false, nil
}

// writeBlock writes len(buf) bytes at t.Pointer, retrying on fault up
// to ledger.Retry times. Same ok/err contract as readBlock, recording
// a WriteError instead.
func writeBlock(t *Target, ledger *Ledger, buf []byte) (ok bool, err error) {
	if t.WriteExact(buf) == nil {
		return true, nil
	}
	if retryIO(ledger.Retry, func() error { return t.WriteExact(buf) }) == nil {
		return true, nil
	}
	if abortErr := ledger.Add(t.Pointer, WriteError); abortErr != nil {
		return false, abortErr
	}
	return false, nil
}

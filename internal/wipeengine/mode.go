package wipeengine

import (
	"fmt"
	"io"
	"os"
	"time"
)

// Mode selects the ordered sequence of pass drivers (spec.md §3, §4.4).
type Mode int

const (
	// Selective is the default mode: read-then-conditional-write
	// followed by verify.
	Selective Mode = iota
	// All unconditionally overwrites every byte, then verifies.
	All
	// TwoPass writes a random pass, then an unconditional fill pass,
	// then verifies.
	TwoPass
	// VerifyOnly performs no writes.
	VerifyOnly
)

func (m Mode) String() string {
	switch m {
	case Selective:
		return "selective"
	case All:
		return "all"
	case TwoPass:
		return "two_pass"
	case VerifyOnly:
		return "verify_only"
	default:
		return "unknown"
	}
}

type passSpec struct {
	verb   string // printed as "Pass N of M, <verb> PATH"
	writes bool
	run    func(t *Target, conf *FillConfig, ledger *Ledger, prog *Progress) error
}

func (c *Controller) sequence() []passSpec {
	switch c.Mode {
	case All:
		return []passSpec{
			{verb: "wiping", writes: true, run: WipeAll},
			{verb: "verifying", writes: false, run: Verify},
		}
	case TwoPass:
		return []passSpec{
			{verb: "wiping (random pass)", writes: true, run: WipeRandom},
			{verb: "wiping", writes: true, run: WipeAll},
			{verb: "verifying", writes: false, run: Verify},
		}
	case VerifyOnly:
		return []passSpec{
			{verb: "verifying", writes: false, run: Verify},
		}
	default: // Selective
		return []passSpec{
			{verb: "wiping", writes: true, run: WipeSelective},
			{verb: "verifying", writes: false, run: Verify},
		}
	}
}

// Controller sequences the pass drivers for a chosen Mode against one
// target (spec.md §4.4, §4.5).
type Controller struct {
	Mode     Mode
	Conf     *FillConfig
	Ledger   *Ledger
	Progress *Progress

	// Out receives the "Pass N of M, ..." banner lines. Nil disables
	// them.
	Out io.Writer

	// Warn is called with a human-readable ledger summary whenever a
	// non-final pass ends with a non-empty (but below-threshold)
	// ledger (spec.md §4.4). Nil disables the callback.
	Warn func(string)

	// Sync overrides the durability barrier invoked between passes.
	// Nil uses the platform default (syncFS).
	Sync SyncFunc
}

// RunResult summarizes a completed run.
type RunResult struct {
	Mode    Mode
	Ledger  []Entry
	Elapsed time.Duration
	// Warned is true when the run completed but the final ledger is
	// non-empty (spec.md §4.4 "Warned success").
	Warned bool
}

func (c *Controller) sync() SyncFunc {
	if c.Sync != nil {
		return c.Sync
	}
	return defaultSync
}

// Run executes the full pre-pass setup and pass sequence against path,
// per spec.md §4.5 and §4.4.
func (c *Controller) Run(path string) (*RunResult, error) {
	start := time.Now()

	size, err := DiscoverSize(path)
	if err != nil {
		return nil, fatal(err, nil)
	}
	if size == 0 {
		return nil, fatal(ErrTargetSizeZero, nil)
	}

	t := &Target{Path: path, Size: size}
	t.DeriveGeometry(c.Conf.BlockSize)

	seq := c.sequence()
	total := len(seq)

	firstFlag := os.O_RDONLY
	if seq[0].writes {
		firstFlag = os.O_RDWR
	}
	if err := t.Reopen(firstFlag); err != nil {
		return nil, fatal(err, c.Ledger)
	}
	defer t.Close()

	// Invalidate-drive-layout is a one-time hint issued before the run's
	// first write, not before every writing pass (spec.md §6) — two_pass
	// must not fire it again between WipeRandom and WipeAll.
	if seq[0].writes {
		if err := InvalidateDriveLayout(t); err != nil {
			return nil, fatal(err, c.Ledger)
		}
	}

	for i, ps := range seq {
		c.Ledger.Reset()
		c.banner(i+1, total, ps.verb, path)

		if err := ps.run(t, c.Conf, c.Ledger, c.Progress); err != nil {
			return nil, fatal(err, c.Ledger)
		}

		last := i == total-1
		if !last {
			if len(c.Ledger.Entries) > 0 && c.Warn != nil {
				c.Warn(Summary(c.Ledger.Entries))
			}
			next := seq[i+1]
			nextFlag := os.O_RDONLY
			if next.writes {
				nextFlag = os.O_RDWR
			}
			if err := barrier(t, c.sync(), nextFlag); err != nil {
				return nil, fatal(err, c.Ledger)
			}
		}
	}

	return &RunResult{
		Mode:    c.Mode,
		Ledger:  append([]Entry(nil), c.Ledger.Entries...),
		Elapsed: time.Since(start),
		Warned:  len(c.Ledger.Entries) > 0,
	}, nil
}

func (c *Controller) banner(n, total int, verb, path string) {
	if c.Out == nil {
		return
	}
	fmt.Fprintf(c.Out, "Pass %d of %d, %s %s\n", n, total, verb, path)
}

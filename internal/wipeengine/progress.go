package wipeengine

import (
	"fmt"
	"io"
	"time"
)

// Progress is the rate-limited textual progress printer: at most one
// update per wall second inside a pass loop, plus one at end-of-pass
// (spec.md §4.3, §6).
type Progress struct {
	Out      io.Writer
	last     time.Time
	Now      func() time.Time
}

// NewProgress returns a Progress writing to out.
func NewProgress(out io.Writer) *Progress {
	return &Progress{Out: out, Now: time.Now}
}

// Tick prints the progress line if at least one wall second has
// elapsed since the last print. force bypasses the rate limit, for the
// mandatory end-of-pass update.
func (p *Progress) Tick(current, size uint64, force bool) {
	if p.Out == nil {
		return
	}
	now := p.now()
	if !force && !p.last.IsZero() && now.Sub(p.last) < time.Second {
		return
	}
	p.last = now
	p.print(current, size)
}

func (p *Progress) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func (p *Progress) print(current, size uint64) {
	var pct uint64
	if size > 0 {
		pct = (100 * current) / size
	}
	fmt.Fprintf(p.Out, "\r...%4d%% / %20d of%20d bytes", pct, current, size)
}

// Done prints a final newline so subsequent output does not continue
// on the progress line.
func (p *Progress) Done() {
	if p.Out == nil {
		return
	}
	fmt.Fprintln(p.Out)
}

// Package zdlog wires up the structured logger every zd subsystem
// writes through, following the same charmbracelet/log usage the
// teacher's cmd/ctrlc leaf commands use (log.Info("...", "key", val)).
// This is separate from the wipe-and-verify engine's own stdout/stderr
// contract (banners, progress lines, the bad-block report, and the
// final "Error: ..." line) — zdlog exists for operational visibility,
// not for the engine's user-facing output.
package zdlog

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// New returns a logger stamped with a fresh run-correlation id, so
// every line emitted during one invocation of zd can be grepped out of
// a shared log stream. out defaults to os.Stderr when nil, keeping the
// engine's own stdout output (progress, banners) uncluttered.
func New(out io.Writer) *log.Logger {
	if out == nil {
		out = os.Stderr
	}
	l := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Level:           log.InfoLevel,
	})
	return l.With("run", uuid.NewString())
}

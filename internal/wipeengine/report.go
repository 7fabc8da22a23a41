package wipeengine

import (
	"fmt"
	"strings"
)

// FormatLedger renders entries as the bad-block report from spec.md
// §6: "OFFSET/KIND", four per line, the offset field right-padded
// (left-justified) to 20 columns.
func FormatLedger(entries []Entry) string {
	var b strings.Builder
	for i, e := range entries {
		if i%4 == 0 {
			b.WriteByte('\n')
		} else {
			b.WriteString("  ")
		}
		fmt.Fprintf(&b, "%-20d/%c", e.Offset, e.Kind.Char())
	}
	b.WriteByte('\n')
	return b.String()
}

// Summary introduces a FormatLedger report with the count and the
// one-character code legend, matching the original tool's wording.
func Summary(entries []Entry) string {
	return fmt.Sprintf(
		"Found %d bad block(s) (OFFSET/ERROR -> r = read error, w = write error, u = unwiped block):%s",
		len(entries), FormatLedger(entries),
	)
}

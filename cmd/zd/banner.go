package main

import (
	"fmt"
	"io"
)

const version = "1.0.0"

const asciiBanner = `
              000
              000
              000
00000000  0000000
   0000  0000 000
  0000   000  000
 0000    0000 000
00000000  0000000

`

// printBanner writes the banner and version that -h/--help prints
// before Cobra's own usage block; printDisclaimer follows the usage
// (spec.md §6: "-h/--help: Print banner, version, usage, disclaimer;
// exit 0").
func printBanner(w io.Writer) {
	fmt.Fprint(w, asciiBanner)
	fmt.Fprintf(w, "v%s\n\n", version)
	fmt.Fprintln(w, "Block-level wipe-and-verify engine.")
	fmt.Fprintln(w)
}

func printDisclaimer(w io.Writer) {
	fmt.Fprintln(w, "Disclaimer:")
	fmt.Fprintln(w, "This tool is destructive by design: it overwrites the target in place.")
	fmt.Fprintln(w, "There is no confirmation prompt and no undo. Double-check TARGET before running.")
	fmt.Fprintln(w)
}

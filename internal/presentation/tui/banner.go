package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the startup banner for interactive server runs.
func PrintBanner(w io.Writer, vendor, version string) {
	p := termenv.ColorProfile()
	name := termenv.String("toolgate").Foreground(p.Color("#818cf8")).Bold()
	fmt.Fprintf(w, "%s %s: %s tools\n", name, version, vendor)
}

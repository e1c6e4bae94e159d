package ui

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

var ansiRegexp = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string { return ansiRegexp.ReplaceAllString(s, "") }

// ProgressBar renders a Unicode bar with percentage.
func ProgressBar(done, total, width int) string {
	if total <= 0 {
		total = 1
	}
	if width < 5 {
		width = 5
	}
	filled := int(float64(done) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	pct := int(float64(done) / float64(total) * 100)
	return fmt.Sprintf("%s %3d%%", bar, pct)
}

// Panel draws a framed box around lines using the current theme.
func Panel(w io.Writer, lines []string) {
	t := Current()
	maxw := 0
	for _, ln := range lines {
		if vw := ansi.StringWidth(stripANSI(ln)); vw > maxw {
			maxw = vw
		}
	}
	pad := func(s string) string {
		if vis := ansi.StringWidth(stripANSI(s)); vis < maxw {
			s += strings.Repeat(" ", maxw-vis)
		}
		return s
	}
	fmt.Fprintln(w, t.CornerTL+strings.Repeat(t.H, maxw+2)+t.CornerTR)
	for _, ln := range lines {
		fmt.Fprintln(w, t.V+" "+pad(ln)+" "+t.V)
	}
	fmt.Fprintln(w, t.CornerBL+strings.Repeat(t.H, maxw+2)+t.CornerBR)
}

// Truncate shortens s to at most n display cells, marking the cut.
func Truncate(s string, n int) string {
	if ansi.StringWidth(s) <= n {
		return s
	}
	return ansi.Truncate(s, n, "...")
}

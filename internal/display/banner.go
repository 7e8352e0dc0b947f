package display

import (
	_ "embed"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
)

//go:embed banner.txt
var bannerRaw string

// RenderBanner returns the banner art horizontally centred in width
// columns. A width of zero or less uses the terminal width. Art wider than
// the column falls back to the plain "THE MOAT" title.
func RenderBanner(width int) string {
	if width <= 0 {
		width = termWidth()
	}

	lines := strings.Split(strings.TrimRight(bannerRaw, "\n"), "\n")

	maxW := 0
	for _, l := range lines {
		if w := lipgloss.Width(l); w > maxW {
			maxW = w
		}
	}
	if maxW > width {
		return bannerStyle.Render("THE MOAT")
	}

	var b strings.Builder
	for i, l := range lines {
		if pad := (width - maxW) / 2; pad > 0 {
			b.WriteString(strings.Repeat(" ", pad))
		}
		b.WriteString(bannerStyle.Render(l))
		if i < len(lines)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// TermWidth returns the column count of f, or 0 when f is not a terminal.
func TermWidth(f *os.File) int {
	if !term.IsTerminal(f.Fd()) {
		return 0
	}
	if w, _, err := term.GetSize(f.Fd()); err == nil && w > 0 {
		return w
	}
	return 0
}

// termWidth returns the current terminal column count, or 80 as fallback.
func termWidth() int {
	if w := TermWidth(os.Stdout); w > 0 {
		return w
	}
	return 80
}

// termHeight returns the current terminal row count, or 24 as fallback.
func termHeight() int {
	if _, h, err := term.GetSize(os.Stdout.Fd()); err == nil && h > 0 {
		return h
	}
	return 24
}

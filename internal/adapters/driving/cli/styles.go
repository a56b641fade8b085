package cli

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// defaultWidth is used when stdout is not a terminal.
const defaultWidth = 80

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	authorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#06B6D4"))
	scoreStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F9E2AF"))
)

// terminalWidth returns the stdout width, or defaultWidth.
func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return defaultWidth
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}

// snippet collapses whitespace and truncates s to width runes.
func snippet(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	if width <= 3 {
		width = 4
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}

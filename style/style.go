// Package style provides a functional API for composing lipgloss styles.
package style

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/subgate-cli/subgate/color"
)

func New() lipgloss.Style {
	return lipgloss.NewStyle()
}

// Colored initializes a new style with the specified foreground and background colors.
func Colored(fg, bg lipgloss.Color) lipgloss.Style {
	return New().Foreground(fg).Background(bg)
}

// Fg returns a rendering function that applies the foreground color.
func Fg(c lipgloss.Color) func(string) string {
	return func(s string) string { return Colored(c, "").Render(s) }
}

// Truncate returns a rendering function that constrains output to max cells.
func Truncate(max int) func(string) string {
	return func(s string) string { return New().Width(max).MaxWidth(max).Render(s) }
}

var (
	Faint     = func(s string) string { return New().Faint(true).Render(s) }
	Bold      = func(s string) string { return New().Bold(true).Render(s) }
	Italic    = func(s string) string { return New().Italic(true).Render(s) }
	Underline = func(s string) string { return New().Underline(true).Render(s) }
)

var Title = func(s string) string {
	return Colored(color.New("230"), color.New("62")).Padding(0, 1).Render(s)
}

var ErrorTitle = func(s string) string {
	return Colored(color.New("230"), color.Red).Padding(0, 1).Render(s)
}

// Tag encapsulates a string in a colored, padded block.
func Tag(fg, bg lipgloss.Color) func(string) string {
	return func(s string) string { return Colored(fg, bg).Padding(0, 1).Render(s) }
}

// Status colors an event status name. Unknown names render faint.
func Status(status string) string {
	switch status {
	case "success":
		return Fg(SuccessColor)(status)
	case "empty":
		return Fg(WarningColor)(status)
	case "error":
		return Fg(ErrorColor)(status)
	default:
		return Faint(status)
	}
}

// KindTab renders a resource kind tab, highlighted when active and dimmed
// when the kind is not available.
func KindTab(kind string, active, available bool) string {
	c, ok := kindColors[kind]
	if !ok {
		c = AccentColor
	}

	switch {
	case active:
		return Tag(Surface, c)(kind)
	case available:
		return Colored(c, "").Padding(0, 1).Render(kind)
	default:
		return New().Foreground(FaintColor).Strikethrough(true).Padding(0, 1).Render(kind)
	}
}

// Package ui renders short-lived notifications under a bubbletea view.
package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/subgate-cli/subgate/style"
)

// Lifetime is how long a notification stays visible.
const Lifetime = 4 * time.Second

// Notification is the message that shows a toast.
type Notification struct {
	Text  string
	Error bool
}

// clearMsg carries the sequence number of the toast it should clear, so a
// newer toast is not hidden by the timer of an older one.
type clearMsg struct {
	seq int
}

// Model holds at most one visible notification.
type Model struct {
	current Notification
	seq     int
}

// Notify returns a command showing text.
func Notify(text string) tea.Cmd {
	return func() tea.Msg { return Notification{Text: text} }
}

// NotifyError returns a command showing text as a failure.
func NotifyError(text string) tea.Cmd {
	return func() tea.Msg { return Notification{Text: text, Error: true} }
}

func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case Notification:
		m.current = msg
		m.seq++
		seq := m.seq
		return tea.Tick(Lifetime, func(time.Time) tea.Msg {
			return clearMsg{seq: seq}
		})
	case clearMsg:
		if msg.seq == m.seq {
			m.current = Notification{}
		}
	}
	return nil
}

// Current returns the visible text or "".
func (m *Model) Current() string {
	return m.current.Text
}

// View appends the notification to the last line of content.
func (m *Model) View(content string) string {
	if m.current.Text == "" {
		return content
	}

	render := style.Faint
	if m.current.Error {
		render = style.Fg(style.ErrorColor)
	}

	lines := strings.Split(content, "\n")
	lines[len(lines)-1] += "  " + render(m.current.Text)
	return strings.Join(lines, "\n")
}

// Package tui is the interactive presentation of intercepted sessions.
package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/subgate-cli/subgate/app"
	"github.com/subgate-cli/subgate/dispatch"
	"github.com/subgate-cli/subgate/event"
	"github.com/subgate-cli/subgate/orchestrator"
)

// Engine is everything the view reads from or drives.
type Engine struct {
	Commands dispatch.Table

	// Current returns a snapshot of the active session.
	Current func() (orchestrator.View, bool)

	// Submitting and Relaying gate the triggers while a call is outstanding.
	Submitting func() bool
	Relaying   func(locator string) bool
}

// Renderer draws the header of a session. It replaces the built-in one when set.
type Renderer func(view orchestrator.View, width int) string

type Options struct {
	// Address is shown while waiting for the first intercepted call.
	Address string
	Render  Renderer
}

// EngineOf adapts a wired app.
func EngineOf(a *app.App) Engine {
	return Engine{
		Commands: a.Commands,
		Current: func() (orchestrator.View, bool) {
			s := a.Registry.Current()
			if s == nil {
				return orchestrator.View{}, false
			}
			return s.Snapshot(), true
		},
		Submitting: a.Submitter.Busy,
		Relaying:   a.Relay.Busy,
	}
}

// eventMsg carries a bus event into the update loop.
type eventMsg event.Event

// Run starts the app and blocks until the user quits.
func Run(ctx context.Context, a *app.App, options *Options) error {
	bubble := newBubble(EngineOf(a), options)
	program := tea.NewProgram(bubble, tea.WithAltScreen(), tea.WithContext(ctx))

	// Events arrive on engine goroutines; Send hands them to the update loop.
	a.Bus.Subscribe(event.SinkFunc(func(e event.Event) {
		program.Send(eventMsg(e))
	}))

	if err := a.Start(); err != nil {
		return err
	}
	defer a.Close()

	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

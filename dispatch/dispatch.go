// Package dispatch maps presentation actions to component operations.
//
// Presentation layers never call components directly. They receive a Table
// and invoke commands by (component, action); outcomes come back as events.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/subgate-cli/subgate/event"
	"github.com/subgate-cli/subgate/media"
	"github.com/subgate-cli/subgate/orchestrator"
	"github.com/subgate-cli/subgate/relay"
	"github.com/subgate-cli/subgate/subscription"
)

// Action names an operation inside a component.
type Action string

const (
	Load      Action = "load"
	Episodes  Action = "episodes"
	Dismiss   Action = "dismiss"
	Submit    Action = "submit"
	SubmitRaw Action = "submit_raw"
	Share     Action = "share"
)

// Command is a dispatch key.
type Command struct {
	Component event.Component
	Action    Action
}

func (c Command) String() string {
	return fmt.Sprintf("%s.%s", c.Component, c.Action)
}

// Args carries the parameters of every command. Each handler reads what it needs.
type Args struct {
	Session string
	Kind    media.Kind
	Scope   media.Scope
	Locator string
	Label   string
	Payload any
}

// Handler runs one command. Submit and share block until answered;
// orchestrator commands return immediately.
type Handler func(ctx context.Context, args Args) error

// Table is the set of commands offered to presentation.
type Table map[Command]Handler

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrNoSession      = errors.New("no active session")
)

// Dispatch runs cmd.
func (t Table) Dispatch(ctx context.Context, cmd Command, args Args) error {
	h, ok := t[cmd]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
	}
	return h(ctx, args)
}

// Commands lists the registered commands, sorted.
func (t Table) Commands() []Command {
	cmds := make([]Command, 0, len(t))
	for c := range t {
		cmds = append(cmds, c)
	}
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].String() < cmds[j].String() })
	return cmds
}

// Deps are the components a Table drives.
type Deps struct {
	Registry  *orchestrator.Registry
	Submitter *subscription.Submitter
	Relay     *relay.Relay
}

// Build wires the standard commands.
func Build(d Deps) Table {
	session := func(id string) (*orchestrator.Session, error) {
		if id == "" {
			if s := d.Registry.Current(); s != nil {
				return s, nil
			}
			return nil, ErrNoSession
		}
		s, ok := d.Registry.Lookup(id)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNoSession, id)
		}
		return s, nil
	}

	return Table{
		{event.Orchestrator, Load}: func(_ context.Context, a Args) error {
			s, err := session(a.Session)
			if err != nil {
				return err
			}
			return s.LoadKind(a.Kind, a.Scope)
		},
		{event.Orchestrator, Episodes}: func(_ context.Context, a Args) error {
			s, err := session(a.Session)
			if err != nil {
				return err
			}
			return s.LoadEpisodes(a.Scope.Season)
		},
		{event.Orchestrator, Dismiss}: func(_ context.Context, a Args) error {
			d.Registry.Dismiss()
			return nil
		},
		{event.Submitter, Submit}: func(ctx context.Context, a Args) error {
			s, err := session(a.Session)
			if err != nil {
				return err
			}
			_, err = d.Submitter.Submit(ctx, s.ID, s.Request)
			return err
		},
		{event.Submitter, SubmitRaw}: func(ctx context.Context, a Args) error {
			if a.Payload == nil {
				return errors.New("nothing to submit")
			}
			_, err := d.Submitter.SubmitRaw(ctx, a.Payload)
			return err
		},
		{event.Relay, Share}: func(ctx context.Context, a Args) error {
			_, err := d.Relay.Relay(ctx, a.Locator, a.Label)
			return err
		},
	}
}

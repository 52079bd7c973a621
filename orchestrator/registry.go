// Package orchestrator drives resource discovery and per-kind listings for intercepted media.
package orchestrator

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/subgate-cli/subgate/event"
	"github.com/subgate-cli/subgate/media"
)

// Registry holds at most one active Session. Starting a new one closes the previous.
type Registry struct {
	catalog Catalog
	sink    event.Sink
	ctx     context.Context

	mu      sync.Mutex
	current *Session
}

// NewRegistry builds a registry whose sessions live at most as long as ctx.
func NewRegistry(ctx context.Context, catalog Catalog, sink event.Sink) *Registry {
	if sink == nil {
		sink = event.Discard
	}
	return &Registry{catalog: catalog, sink: sink, ctx: ctx}
}

// Start opens a session for req and immediately begins discovery.
func (r *Registry) Start(req *media.Request) (*Session, error) {
	if req == nil || req.TMDBID == "" {
		return nil, ErrNoIdentity
	}

	s := newSession(r.ctx, uuid.NewString(), req, r.catalog, r.sink)

	r.mu.Lock()
	previous := r.current
	r.current = s
	r.mu.Unlock()

	if previous != nil {
		previous.Close()
	}

	s.discover()
	return s, nil
}

// Current returns the active session or nil.
func (r *Registry) Current() *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Lookup returns the active session only if its id matches.
func (r *Registry) Lookup(id string) (*Session, bool) {
	s := r.Current()
	if s == nil || s.ID != id {
		return nil, false
	}
	return s, true
}

// Dismiss closes the active session, if any.
func (r *Registry) Dismiss() {
	r.mu.Lock()
	s := r.current
	r.current = nil
	r.mu.Unlock()

	if s != nil {
		s.Close()
	}
}

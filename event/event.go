// Package event is the vocabulary every component uses to report progress to presentation.
package event

import (
	"sync"
	"time"

	"github.com/subgate-cli/subgate/media"
)

// Status is the four-way outcome of an operation.
type Status string

const (
	Pending Status = "pending"
	Success Status = "success"
	Empty   Status = "empty"
	Error   Status = "error"
)

// Component identifies the emitter.
type Component string

const (
	Interceptor  Component = "interceptor"
	Orchestrator Component = "orchestrator"
	Submitter    Component = "submitter"
	Relay        Component = "relay"
	Version      Component = "version"
)

// Kind identifies the operation inside a component.
type Kind string

const (
	Intercepted Kind = "intercepted"
	Raw         Kind = "raw"
	Discovery   Kind = "discovery"
	Listing     Kind = "listing"
	Episodes    Kind = "episodes"
	Closed      Kind = "closed"
	Submit      Kind = "submit"
	Share       Kind = "share"
	Update      Kind = "update"
)

// Capture is the raw view of an intercepted call.
type Capture struct {
	Method   string `json:"method"`
	URL      string `json:"url"`
	Body     string `json:"body,omitempty"`
	Encoding string `json:"encoding"`

	// Payload is the decoded body, absent when it could not be decoded.
	Payload map[string]any `json:"payload,omitempty"`
}

// Event is one state transition. Only the fields relevant to Kind are set.
type Event struct {
	Time      time.Time `json:"time"`
	Session   string    `json:"session,omitempty"`
	Component Component `json:"component"`
	Kind      Kind      `json:"kind"`
	Status    Status    `json:"status"`
	Reason    string    `json:"reason,omitempty"`

	Request      *media.Request      `json:"request,omitempty"`
	Capture      *Capture            `json:"capture,omitempty"`
	Info         *media.Info         `json:"info,omitempty"`
	Availability media.Availability  `json:"availability,omitempty"`
	Resource     media.Kind          `json:"resource,omitempty"`
	Scope        *media.Scope        `json:"scope,omitempty"`
	Listing      *media.Listing      `json:"listing,omitempty"`
	EpisodeCount int                 `json:"episode_count,omitempty"`
	Outcome      string              `json:"outcome,omitempty"`
	Locator      string              `json:"locator,omitempty"`
	Label        string              `json:"label,omitempty"`
	Build        int                 `json:"build,omitempty"`
}

// Sink receives events. Implementations must not block for long:
// events are delivered from the goroutine that completed the operation.
type Sink interface {
	Publish(Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event)

func (f SinkFunc) Publish(e Event) { f(e) }

// Discard drops every event.
var Discard Sink = SinkFunc(func(Event) {})

// Bus fans an event out to every subscribed sink in subscription order.
type Bus struct {
	mu    sync.RWMutex
	sinks []Sink
	now   func() time.Time
}

func NewBus(sinks ...Sink) *Bus {
	return &Bus{sinks: sinks, now: time.Now}
}

// Subscribe adds a sink. Safe to call while events flow.
func (b *Bus) Subscribe(s Sink) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sinks = append(b.sinks, s)
}

func (b *Bus) Publish(e Event) {
	if e.Time.IsZero() {
		e.Time = b.now()
	}

	b.mu.RLock()
	sinks := b.sinks
	b.mu.RUnlock()

	for _, s := range sinks {
		s.Publish(e)
	}
}

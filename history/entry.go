package history

import (
	"fmt"
	"time"

	"github.com/subgate-cli/subgate/event"
	"github.com/subgate-cli/subgate/media"
)

// Action is what was done to the target.
type Action string

const (
	Subscribed Action = "subscribe"
	Relayed    Action = "relay"
)

// Entry is one journal row.
type Entry struct {
	Action  Action     `json:"action"`
	TMDBID  string     `json:"tmdb_id,omitempty"`
	Type    media.Type `json:"type,omitempty"`
	Title   string     `json:"title,omitempty"`
	Locator string     `json:"locator,omitempty"`
	Outcome string     `json:"outcome"`
	At      time.Time  `json:"at"`
	Count   int        `json:"count"`
}

func (e *Entry) encode() string {
	if e.Action == Relayed {
		return fmt.Sprintf("%s:%s", e.Action, e.Locator)
	}
	return fmt.Sprintf("%s:%s/%s", e.Action, e.Type, e.TMDBID)
}

func (e *Entry) String() string {
	if e.Action == Relayed {
		return e.Locator
	}
	return fmt.Sprintf("%s (%s %s)", e.Title, e.Type, e.TMDBID)
}

// FromEvent builds the entry for a settled submission or relay.
// Submissions without identity, failures and every other event yield false.
func FromEvent(e event.Event) (*Entry, bool) {
	if e.Status != event.Success {
		return nil, false
	}

	at := e.Time
	if at.IsZero() {
		at = time.Now()
	}

	switch {
	case e.Component == event.Submitter && e.Kind == event.Submit && e.Request != nil:
		return &Entry{
			Action:  Subscribed,
			TMDBID:  e.Request.TMDBID,
			Type:    e.Request.Type,
			Title:   e.Request.Title,
			Outcome: e.Outcome,
			At:      at,
		}, true
	case e.Component == event.Relay && e.Kind == event.Share && e.Locator != "":
		return &Entry{
			Action:  Relayed,
			Title:   e.Label,
			Locator: e.Locator,
			Outcome: "success",
			At:      at,
		}, true
	}
	return nil, false
}

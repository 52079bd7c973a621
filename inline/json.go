package inline

import (
	"path/filepath"
	"reflect"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/subgate-cli/subgate/event"
	"github.com/subgate-cli/subgate/media"
	"github.com/subgate-cli/subgate/orchestrator"
)

// Inspection is the one-shot answer of the inspect command.
type Inspection struct {
	Session orchestrator.View `json:"session"`

	// Query and Matches are set when the listing was filtered.
	Query   string       `json:"query,omitempty"`
	Matches []media.Item `json:"matches,omitempty"`
}

// NewInspection builds the output for view. A non-empty query filters the
// loaded listing of kind.
func NewInspection(view orchestrator.View, kind media.Kind, query string) *Inspection {
	out := &Inspection{Session: view}
	if query == "" || kind == "" {
		return out
	}

	out.Query = query
	out.Matches = []media.Item{}
	if listing := view.Kind(kind).Listing; listing != nil {
		out.Matches = listing.Match(query).Items
	}
	return out
}

// Schema describes the events streamed by inline mode, or the inspect
// output when inspection is set.
func Schema(inspection bool) *jsonschema.Schema {
	reflector := new(jsonschema.Reflector)
	reflector.Anonymous = true
	reflector.Namer = func(t reflect.Type) string {
		name := t.Name()
		switch strings.ToLower(name) {
		case "event", "capture", "request", "info", "item", "listing", "scope", "view":
			return filepath.Base(t.PkgPath()) + "." + name
		}
		return name
	}

	if inspection {
		return reflector.Reflect(&Inspection{})
	}
	return reflector.Reflect(&event.Event{})
}

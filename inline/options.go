package inline

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/subgate-cli/subgate/event"
	"github.com/subgate-cli/subgate/media"
)

type Options struct {
	Out io.Writer

	// AutoLoad loads the first available kind of every new session.
	AutoLoad bool

	// Components restricts output to these emitters.
	Components mo.Option[[]event.Component]

	// Pending includes pending events, which are dropped by default.
	Pending bool
}

func (o *Options) accepts(e event.Event) bool {
	if e.Status == event.Pending && !o.Pending {
		return false
	}
	if components, ok := o.Components.Get(); ok {
		return lo.Contains(components, e.Component)
	}
	return true
}

var knownComponents = []event.Component{
	event.Interceptor,
	event.Orchestrator,
	event.Submitter,
	event.Relay,
	event.Version,
}

// ParseComponents validates a list of component names.
func ParseComponents(names []string) ([]event.Component, error) {
	components := make([]event.Component, 0, len(names))
	for _, name := range names {
		c := event.Component(strings.ToLower(strings.TrimSpace(name)))
		if !lo.Contains(knownComponents, c) {
			return nil, fmt.Errorf("unknown component: %s", name)
		}
		components = append(components, c)
	}
	return lo.Uniq(components), nil
}

var (
	scopeSE    = regexp.MustCompile(`^[sS](\d+)(?:[eE](\d+))?$`)
	scopeColon = regexp.MustCompile(`^(\d+)(?::(\d+))?$`)
)

// ParseScope reads "all", "S01", "S01E02", "1" or "1:2".
func ParseScope(description string) (media.Scope, error) {
	description = strings.TrimSpace(description)
	if description == "" || description == "all" {
		return media.Whole(), nil
	}

	groups := scopeSE.FindStringSubmatch(description)
	if groups == nil {
		groups = scopeColon.FindStringSubmatch(description)
	}
	if groups == nil {
		return media.Scope{}, fmt.Errorf("invalid scope: %s", description)
	}

	season, err := strconv.Atoi(groups[1])
	if err != nil || season < 1 {
		return media.Scope{}, fmt.Errorf("invalid season in scope: %s", description)
	}
	if groups[2] == "" {
		return media.SeasonScope(season), nil
	}

	episode, err := strconv.Atoi(groups[2])
	if err != nil || episode < 1 {
		return media.Scope{}, fmt.Errorf("invalid episode in scope: %s", description)
	}
	return media.EpisodeScope(season, episode), nil
}

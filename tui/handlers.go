package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/subgate-cli/subgate/dispatch"
	"github.com/subgate-cli/subgate/event"
	"github.com/subgate-cli/subgate/internal/ui"
	"github.com/subgate-cli/subgate/log"
	"github.com/subgate-cli/subgate/media"
	"github.com/subgate-cli/subgate/open"
	"github.com/subgate-cli/subgate/orchestrator"
	"github.com/subgate-cli/subgate/relay"
	"github.com/subgate-cli/subgate/subscription"
	"github.com/subgate-cli/subgate/util"
)

// dispatchErrMsg reports a command that could not run.
type dispatchErrMsg struct {
	cmd dispatch.Command
	err error
}

// run dispatches off the update loop: components publish events
// synchronously and those are sent back into this loop.
func (b *statefulBubble) run(cmd dispatch.Command, args dispatch.Args) tea.Cmd {
	table := b.engine.Commands
	return func() tea.Msg {
		if err := table.Dispatch(context.Background(), cmd, args); err != nil {
			return dispatchErrMsg{cmd: cmd, err: err}
		}
		return nil
	}
}

func (b *statefulBubble) episodic(kind media.Kind) bool {
	return b.request != nil && b.request.Type.Episodic() && kind != media.Pan115
}

func (b *statefulBubble) scopeFor(kind media.Kind) media.Scope {
	if s, ok := b.scopes[kind]; ok {
		return s
	}
	if b.request == nil {
		return media.Whole()
	}
	return orchestrator.DefaultScope(b.request.Type, kind)
}

// loadActive fetches the active kind at its selected scope, plus the
// episode count of the selected season when one is needed.
func (b *statefulBubble) loadActive() tea.Cmd {
	if b.activeKind == "" {
		return nil
	}

	scope := b.scopeFor(b.activeKind)
	cmds := []tea.Cmd{
		b.run(dispatch.Command{Component: event.Orchestrator, Action: dispatch.Load}, dispatch.Args{
			Session: b.view.ID,
			Kind:    b.activeKind,
			Scope:   scope,
		}),
	}

	if b.episodic(b.activeKind) {
		if _, known := b.view.Episodes[scope.Season]; !known {
			cmds = append(cmds, b.run(dispatch.Command{Component: event.Orchestrator, Action: dispatch.Episodes}, dispatch.Args{
				Session: b.view.ID,
				Scope:   media.SeasonScope(scope.Season),
			}))
		}
	}

	return tea.Batch(cmds...)
}

// selectKind activates kind and loads it lazily.
func (b *statefulBubble) selectKind(kind media.Kind) tea.Cmd {
	if kind == b.activeKind {
		return nil
	}
	b.activeKind = kind
	b.itemsC.ResetFilter()
	b.itemsC.ResetSelected()
	b.syncItems()
	return b.loadActive()
}

func (b *statefulBubble) cycleKind(delta int) tea.Cmd {
	idx := 0
	for i, k := range media.Kinds {
		if k == b.activeKind {
			idx = i
		}
	}
	n := len(media.Kinds)
	return b.selectKind(media.Kinds[(idx+delta+n)%n])
}

func (b *statefulBubble) changeSeason(delta int) tea.Cmd {
	if !b.episodic(b.activeKind) {
		return nil
	}

	scope := b.scopeFor(b.activeKind)
	season := util.Clamp(scope.Season+delta, 1, len(b.view.Seasons()))
	if season == scope.Season {
		return nil
	}

	scope.Season = season
	if b.activeKind != media.Magnet {
		scope.Episode = 1
	}
	b.scopes[b.activeKind] = scope
	b.syncItems()
	return b.loadActive()
}

// changeEpisode moves the episode. Episode 0 means the whole season and
// only exists for magnets.
func (b *statefulBubble) changeEpisode(delta int) tea.Cmd {
	if !b.episodic(b.activeKind) {
		return nil
	}

	scope := b.scopeFor(b.activeKind)
	lowest := 1
	if b.activeKind == media.Magnet {
		lowest = 0
	}

	episode := util.Max(scope.Episode+delta, lowest)
	if count, ok := b.view.Episodes[scope.Season]; ok && count > 0 {
		episode = util.Min(episode, count)
	}
	if episode == scope.Episode {
		return nil
	}

	scope.Episode = episode
	b.scopes[b.activeKind] = scope
	b.syncItems()
	return b.loadActive()
}

func (b *statefulBubble) selectedItem() (media.Item, bool) {
	it, ok := b.itemsC.SelectedItem().(*listItem)
	if !ok {
		return media.Item{}, false
	}
	return it.item, true
}

func (b *statefulBubble) subscribe() tea.Cmd {
	if b.engine.Submitting != nil && b.engine.Submitting() {
		return ui.NotifyError(subscription.ErrInFlight.Error())
	}

	switch b.state {
	case rawState:
		if b.capture == nil || b.capture.Payload == nil {
			return ui.NotifyError("nothing decodable to submit")
		}
		return b.run(dispatch.Command{Component: event.Submitter, Action: dispatch.SubmitRaw}, dispatch.Args{Payload: b.capture.Payload})
	case sessionState:
		return b.run(dispatch.Command{Component: event.Submitter, Action: dispatch.Submit}, dispatch.Args{Session: b.view.ID})
	}
	return nil
}

func (b *statefulBubble) relaySelected() tea.Cmd {
	item, ok := b.selectedItem()
	if !ok {
		return nil
	}
	if !item.Kind.Relayable() {
		return ui.NotifyError(fmt.Sprintf("%s links can't be relayed", item.Kind))
	}
	if b.engine.Relaying != nil && b.engine.Relaying(item.Locator) {
		return ui.NotifyError(relay.ErrInFlight.Error())
	}

	return b.run(dispatch.Command{Component: event.Relay, Action: dispatch.Share}, dispatch.Args{
		Locator: item.Locator,
		Label:   item.DisplayName,
	})
}

func (b *statefulBubble) copySelected() tea.Cmd {
	item, ok := b.selectedItem()
	if !ok {
		return nil
	}
	return func() tea.Msg {
		if err := clipboard.WriteAll(item.Locator); err != nil {
			log.For("tui").WithError(err).Warn("clipboard unavailable")
			return ui.Notification{Text: "clipboard unavailable", Error: true}
		}
		return ui.Notification{Text: "copied " + util.Ellipsis(item.DisplayName, 40)}
	}
}

// openSelected opens the selected locator, or the TMDB page when nothing is selected.
func (b *statefulBubble) openSelected() tea.Cmd {
	link := ""
	if item, ok := b.selectedItem(); ok {
		link = item.Locator
	} else if b.request != nil {
		link = b.request.TMDBURL()
	}
	if link == "" {
		return nil
	}

	return func() tea.Msg {
		if err := open.Start(link); err != nil {
			if errors.Is(err, open.ErrUnsupportedScheme) {
				return ui.Notification{Text: "can't open this link", Error: true}
			}
			return ui.Notification{Text: err.Error(), Error: true}
		}
		return nil
	}
}

func (b *statefulBubble) dismiss() tea.Cmd {
	return b.run(dispatch.Command{Component: event.Orchestrator, Action: dispatch.Dismiss}, dispatch.Args{})
}

// syncItems shows the listing of the active kind when it matches the selected scope.
func (b *statefulBubble) syncItems() {
	kv := b.view.Kind(b.activeKind)
	var listing *media.Listing
	if kv.Scope == b.scopeFor(b.activeKind) {
		listing = kv.Listing
	}

	if listing == b.shown {
		return
	}
	b.shown = listing
	b.itemsC.SetItems(toListItems(listing, b.relayed))
}

func (b *statefulBubble) markRelayed(locator string) {
	b.relayed[locator] = true
	for i, it := range b.itemsC.Items() {
		if li, ok := it.(*listItem); ok && li.item.Locator == locator {
			li.relayed = true
			b.itemsC.SetItem(i, li)
		}
	}
}

package tui

import (
	"fmt"

	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/subgate-cli/subgate/event"
	"github.com/subgate-cli/subgate/internal/ui"
	"github.com/subgate-cli/subgate/log"
	"github.com/subgate-cli/subgate/media"
	"github.com/subgate-cli/subgate/subscription"
	"github.com/subgate-cli/subgate/util"
)

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if cmd := b.notifier.Update(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
	case spinner.TickMsg:
		var cmd tea.Cmd
		b.spinnerC, cmd = b.spinnerC.Update(msg)
		return b, tea.Batch(append(cmds, cmd)...)
	case eventMsg:
		return b, tea.Batch(append(cmds, b.handleEvent(event.Event(msg)))...)
	case dispatchErrMsg:
		log.For("tui").WithError(msg.err).Warnf("%s failed", msg.cmd)
		return b, tea.Batch(append(cmds, ui.NotifyError(msg.err.Error()))...)
	case error:
		b.raiseError(msg)
	case tea.KeyMsg:
		if bubblesKey.Matches(msg, b.keymap.forceQuit) {
			return b, tea.Quit
		}
	}

	var cmd tea.Cmd
	switch b.state {
	case waitingState:
		cmd = b.updateWaiting(msg)
	case rawState:
		cmd = b.updateRaw(msg)
	case sessionState:
		cmd = b.updateSession(msg)
	case errorState:
		cmd = b.updateError(msg)
	}

	return b, tea.Batch(append(cmds, cmd)...)
}

func (b *statefulBubble) updateWaiting(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok && bubblesKey.Matches(msg, b.keymap.quit) {
		return tea.Quit
	}
	return nil
}

func (b *statefulBubble) updateRaw(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	switch {
	case bubblesKey.Matches(keyMsg, b.keymap.quit):
		return tea.Quit
	case bubblesKey.Matches(keyMsg, b.keymap.subscribe):
		return b.subscribe()
	case bubblesKey.Matches(keyMsg, b.keymap.back):
		b.capture = nil
		b.setState(waitingState)
	}
	return nil
}

func (b *statefulBubble) updateSession(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || b.itemsC.FilterState() == list.Filtering {
		var cmd tea.Cmd
		b.itemsC, cmd = b.itemsC.Update(msg)
		return cmd
	}

	switch {
	case bubblesKey.Matches(keyMsg, b.keymap.back) && b.itemsC.FilterState() == list.FilterApplied:
		b.itemsC.ResetFilter()
		return nil
	case bubblesKey.Matches(keyMsg, b.keymap.dismiss):
		return b.dismiss()
	case bubblesKey.Matches(keyMsg, b.keymap.quit):
		return tea.Quit
	case bubblesKey.Matches(keyMsg, b.keymap.nextKind):
		return b.cycleKind(1)
	case bubblesKey.Matches(keyMsg, b.keymap.prevKind):
		return b.cycleKind(-1)
	case bubblesKey.Matches(keyMsg, b.keymap.nextSeason):
		return b.changeSeason(1)
	case bubblesKey.Matches(keyMsg, b.keymap.prevSeason):
		return b.changeSeason(-1)
	case bubblesKey.Matches(keyMsg, b.keymap.nextEpisode):
		return b.changeEpisode(1)
	case bubblesKey.Matches(keyMsg, b.keymap.prevEpisode):
		return b.changeEpisode(-1)
	case bubblesKey.Matches(keyMsg, b.keymap.load):
		return b.loadActive()
	case bubblesKey.Matches(keyMsg, b.keymap.subscribe):
		return b.subscribe()
	case bubblesKey.Matches(keyMsg, b.keymap.relay):
		return b.relaySelected()
	case bubblesKey.Matches(keyMsg, b.keymap.copyLocator):
		return b.copySelected()
	case bubblesKey.Matches(keyMsg, b.keymap.openURL):
		return b.openSelected()
	}

	var cmd tea.Cmd
	b.itemsC, cmd = b.itemsC.Update(msg)
	return cmd
}

func (b *statefulBubble) updateError(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	switch {
	case bubblesKey.Matches(keyMsg, b.keymap.quit):
		return tea.Quit
	case bubblesKey.Matches(keyMsg, b.keymap.back):
		b.lastError = nil
		b.previousState()
	}
	return nil
}

// refresh re-reads the active session. It returns false when there is none.
func (b *statefulBubble) refresh() bool {
	if b.engine.Current == nil {
		return false
	}
	view, ok := b.engine.Current()
	if !ok {
		return false
	}

	b.view, b.hasView = view, true
	if view.Request != nil {
		b.request = view.Request
	}
	b.syncItems()
	return true
}

func (b *statefulBubble) handleEvent(e event.Event) tea.Cmd {
	switch e.Component {
	case event.Interceptor:
		return b.handleIntercepted(e)
	case event.Orchestrator:
		return b.handleOrchestrator(e)
	case event.Submitter:
		return b.handleSubmitted(e)
	case event.Relay:
		return b.handleRelayed(e)
	case event.Version:
		if e.Kind == event.Update {
			b.newBuild = e.Build
			return ui.Notify(fmt.Sprintf("new CMS build %d available", e.Build))
		}
	}
	return nil
}

func (b *statefulBubble) handleIntercepted(e event.Event) tea.Cmd {
	switch e.Kind {
	case event.Intercepted:
		b.resetSession(e.Request)
		b.capture = nil
		b.setState(sessionState)
	case event.Raw:
		b.resetSession(nil)
		b.capture = e.Capture
		b.setState(rawState)
	}
	return nil
}

func (b *statefulBubble) handleOrchestrator(e event.Event) tea.Cmd {
	if !b.refresh() {
		if b.state == sessionState && e.Kind == event.Closed {
			b.resetSession(nil)
			b.setState(waitingState)
		}
		return nil
	}
	if e.Session != b.view.ID {
		return nil
	}

	if e.Kind == event.Discovery && e.Status != event.Pending && b.activeKind == "" {
		kind, ok := e.Availability.First()
		if !ok {
			kind = media.Kinds[0]
		}
		b.activeKind = kind
		b.syncItems()
		if ok {
			return b.loadActive()
		}
	}

	if e.Kind == event.Listing && e.Status == event.Empty && e.Resource == b.activeKind {
		scope := media.Whole()
		if e.Scope != nil {
			scope = *e.Scope
		}
		return ui.Notify(fmt.Sprintf("no %s resources for %s", e.Resource, scope))
	}
	return nil
}

func (b *statefulBubble) handleSubmitted(e event.Event) tea.Cmd {
	switch e.Status {
	case event.Success:
		if e.Outcome == subscription.AlreadyExists.String() {
			return ui.Notify("already subscribed")
		}
		if b.state == rawState {
			b.capture = nil
			b.setState(waitingState)
		}
		return ui.Notify("subscribed")
	case event.Error:
		return ui.NotifyError("subscription failed: " + e.Reason)
	}
	return nil
}

func (b *statefulBubble) handleRelayed(e event.Event) tea.Cmd {
	switch e.Status {
	case event.Success:
		b.markRelayed(e.Locator)
		return ui.Notify("queued " + util.Ellipsis(e.Label, 40))
	case event.Error:
		return ui.NotifyError(fmt.Sprintf("relay of %s failed: %s", util.Ellipsis(e.Label, 30), e.Reason))
	}
	return nil
}

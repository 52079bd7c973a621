package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/subgate-cli/subgate/color"
	"github.com/subgate-cli/subgate/style"
)

type statefulKeymap struct {
	state state

	quit, forceQuit,
	nextKind, prevKind,
	nextSeason, prevSeason,
	nextEpisode, prevEpisode,
	load, subscribe, relay, copyLocator, openURL,
	dismiss, back,
	up, down, top, bottom, filter,
	showHelp key.Binding
}

func (k *statefulKeymap) setState(newState state) {
	k.state = newState
}

func newStatefulKeymap() *statefulKeymap {
	return &statefulKeymap{
		quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		forceQuit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+d"),
			key.WithHelp("ctrl+c", "quit"),
		),
		nextKind: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab/→", "next kind"),
		),
		prevKind: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("←", "prev kind"),
		),
		nextSeason: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next season"),
		),
		prevSeason: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "prev season"),
		),
		nextEpisode: key.NewBinding(
			key.WithKeys("}"),
			key.WithHelp("}", "next episode"),
		),
		prevEpisode: key.NewBinding(
			key.WithKeys("{"),
			key.WithHelp("{", "prev episode"),
		),
		load: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "load"),
		),
		subscribe: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp(style.Fg(color.Orange)("s"), style.Fg(color.Orange)("subscribe")),
		),
		relay: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "relay"),
		),
		copyLocator: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy"),
		),
		openURL: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open"),
		),
		dismiss: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "dismiss"),
		),
		back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑", "up"),
		),
		down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓", "down"),
		),
		top: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "top"),
		),
		bottom: key.NewBinding(
			key.WithKeys("G"),
			key.WithHelp("G", "bottom"),
		),
		filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		showHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

func (k *statefulKeymap) help() ([]key.Binding, []key.Binding) {
	h := func(bindings ...key.Binding) []key.Binding {
		return bindings
	}

	to2 := func(a []key.Binding) ([]key.Binding, []key.Binding) {
		return a, a
	}

	switch k.state {
	case waitingState:
		return to2(h(k.quit))
	case rawState:
		return to2(h(k.subscribe, k.back, k.quit))
	case sessionState:
		return h(k.nextKind, k.subscribe, k.relay, k.dismiss),
			h(k.nextKind, k.prevKind, k.prevSeason, k.nextSeason, k.prevEpisode, k.nextEpisode, k.load, k.subscribe, k.relay, k.copyLocator, k.openURL, k.filter, k.dismiss)
	case errorState:
		return to2(h(k.back, k.quit))
	default:
		return to2(h())
	}
}

func (k *statefulKeymap) ShortHelp() []key.Binding {
	short, _ := k.help()
	return short
}

func (k *statefulKeymap) FullHelp() [][]key.Binding {
	_, full := k.help()
	return [][]key.Binding{full}
}

func (k *statefulKeymap) forList() list.KeyMap {
	return list.KeyMap{
		CursorUp:             k.up,
		CursorDown:           k.down,
		GoToStart:            k.top,
		GoToEnd:              k.bottom,
		Filter:               k.filter,
		ClearFilter:          k.back,
		CancelWhileFiltering: k.back,
		AcceptWhileFiltering: k.load,
		ShowFullHelp:         k.showHelp,
		CloseFullHelp:        k.showHelp,
		Quit:                 k.quit,
		ForceQuit:            k.forceQuit,
	}
}

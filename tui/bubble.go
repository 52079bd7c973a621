package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/viper"
	"github.com/subgate-cli/subgate/event"
	"github.com/subgate-cli/subgate/internal/ui"
	"github.com/subgate-cli/subgate/key"
	"github.com/subgate-cli/subgate/media"
	"github.com/subgate-cli/subgate/orchestrator"
	"github.com/subgate-cli/subgate/style"
	"github.com/subgate-cli/subgate/util"
)

// headerHeight is the number of lines reserved above the resource list.
const headerHeight = 10

type statefulBubble struct {
	state         state
	statesHistory util.Stack[state]

	keymap *statefulKeymap

	spinnerC spinner.Model
	itemsC   list.Model
	helpC    help.Model

	engine  Engine
	options *Options

	// request is known as soon as a call is intercepted, before the session
	// snapshot is available.
	request *media.Request
	view    orchestrator.View
	hasView bool

	activeKind media.Kind
	scopes     map[media.Kind]media.Scope
	shown      *media.Listing
	relayed    map[string]bool

	capture   *event.Capture
	lastError error
	newBuild  int

	width, height int
	notifier      *ui.Model
}

func (b *statefulBubble) raiseError(err error) {
	b.lastError = err
	b.newState(errorState)
}

func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

// newState moves to s and remembers where it came from.
func (b *statefulBubble) newState(s state) {
	if b.state == s {
		return
	}
	b.statesHistory.Push(b.state)
	b.setState(s)
}

func (b *statefulBubble) previousState() {
	if b.statesHistory.Len() > 0 {
		b.setState(b.statesHistory.Pop())
		return
	}
	b.setState(waitingState)
}

func (b *statefulBubble) resize(width, height int) {
	x, y := paddingStyle.GetFrameSize()
	xx, yy := listExtraPaddingStyle.GetFrameSize()

	b.width = width - x
	b.height = height - y

	listWidth := width - xx
	b.itemsC.SetSize(listWidth, util.Max(height-yy-headerHeight, 3))
	b.itemsC.Help.Width = listWidth
	b.helpC.Width = listWidth
}

// resetSession forgets everything shown for the previous session.
func (b *statefulBubble) resetSession(req *media.Request) {
	b.request = req
	b.view = orchestrator.View{}
	b.hasView = false
	b.activeKind = ""
	b.scopes = make(map[media.Kind]media.Scope)
	b.shown = nil
	b.relayed = make(map[string]bool)
	b.itemsC.ResetFilter()
	b.itemsC.SetItems([]list.Item{})
}

func newBubble(engine Engine, options *Options) *statefulBubble {
	if options == nil {
		options = &Options{}
	}

	bubble := &statefulBubble{
		statesHistory: util.Stack[state]{},
		keymap:        newStatefulKeymap(),
		engine:        engine,
		options:       options,
		notifier:      &ui.Model{},
	}

	delegate := list.NewDefaultDelegate()
	delegate.SetSpacing(viper.GetInt(key.TUIItemSpacing))
	delegate.Styles.SelectedTitle = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(style.AccentColor).
		Foreground(style.AccentColor).
		Padding(0, 0, 0, 1)
	delegate.Styles.NormalTitle = delegate.Styles.NormalTitle.Foreground(lipgloss.Color("7"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedTitle

	bubble.itemsC = list.New([]list.Item{}, delegate, 0, 0)
	bubble.itemsC.KeyMap = bubble.keymap.forList()
	bubble.itemsC.AdditionalShortHelpKeys = bubble.keymap.ShortHelp
	bubble.itemsC.AdditionalFullHelpKeys = func() []bubblesKey.Binding {
		return bubble.keymap.FullHelp()[0]
	}
	bubble.itemsC.SetShowTitle(false)
	bubble.itemsC.SetShowStatusBar(false)
	bubble.itemsC.SetShowPagination(false)
	bubble.itemsC.StatusMessageLifetime = time.Hour
	bubble.itemsC.Styles.NoItems = paddingStyle
	bubble.itemsC.SetStatusBarItemName("resource", "resources")

	bubble.helpC = help.New()

	bubble.spinnerC = spinner.New()
	bubble.spinnerC.Spinner = spinner.Dot
	bubble.spinnerC.Style = lipgloss.NewStyle().Foreground(style.AccentColor)

	bubble.resetSession(nil)

	if w, h, err := util.TerminalSize(); err == nil {
		bubble.resize(w, h)
	}

	return bubble
}

func (b *statefulBubble) Init() tea.Cmd {
	return b.spinnerC.Tick
}

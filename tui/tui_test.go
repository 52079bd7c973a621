package tui

import (
	"context"
	"errors"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/subgate-cli/subgate/dispatch"
	"github.com/subgate-cli/subgate/event"
	"github.com/subgate-cli/subgate/media"
	"github.com/subgate-cli/subgate/orchestrator"
)

type fakeEngine struct {
	mu      sync.Mutex
	calls   []dispatch.Command
	args    []dispatch.Args
	view    orchestrator.View
	present bool
}

func (f *fakeEngine) engine() Engine {
	handler := func(cmd dispatch.Command) dispatch.Handler {
		return func(_ context.Context, a dispatch.Args) error {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.calls = append(f.calls, cmd)
			f.args = append(f.args, a)
			return nil
		}
	}

	table := dispatch.Table{}
	for _, c := range []dispatch.Command{
		{Component: event.Orchestrator, Action: dispatch.Load},
		{Component: event.Orchestrator, Action: dispatch.Episodes},
		{Component: event.Orchestrator, Action: dispatch.Dismiss},
		{Component: event.Submitter, Action: dispatch.Submit},
		{Component: event.Submitter, Action: dispatch.SubmitRaw},
		{Component: event.Relay, Action: dispatch.Share},
	} {
		table[c] = handler(c)
	}

	return Engine{
		Commands: table,
		Current: func() (orchestrator.View, bool) {
			f.mu.Lock()
			defer f.mu.Unlock()
			return f.view, f.present
		},
		Submitting: func() bool { return false },
		Relaying:   func(string) bool { return false },
	}
}

func (f *fakeEngine) actions() []dispatch.Action {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []dispatch.Action
	for _, c := range f.calls {
		out = append(out, c.Action)
	}
	return out
}

// drain runs cmd and every command it batches.
func drain(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	if batch, ok := cmd().(tea.BatchMsg); ok {
		for _, c := range batch {
			drain(c)
		}
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestBubble(t *testing.T) {
	Convey("Given a bubble over a fake engine", t, func() {
		fake := &fakeEngine{}
		b := newBubble(fake.engine(), &Options{Address: "127.0.0.1:8095"})
		So(b.state, ShouldEqual, waitingState)
		So(b.View(), ShouldContainSubstring, "127.0.0.1:8095")

		req := &media.Request{TMDBID: "1399", Type: media.TV, Title: "Game of Thrones"}

		Convey("an intercepted call opens the session view", func() {
			b.Update(eventMsg{Component: event.Interceptor, Kind: event.Intercepted, Status: event.Success, Request: req})
			So(b.state, ShouldEqual, sessionState)
			So(b.View(), ShouldContainSubstring, "Game of Thrones")

			fake.view = orchestrator.View{
				ID:           "s1",
				Request:      req,
				Discovery:    orchestrator.Loaded,
				Info:         &media.Info{Overview: "Winter is coming", Seasons: 8},
				Availability: media.Availability{media.Magnet: true},
				Episodes:     map[int]int{},
			}
			fake.present = true

			Convey("discovery activates the first available kind and loads it", func() {
				_, cmd := b.Update(eventMsg{
					Session: "s1", Component: event.Orchestrator, Kind: event.Discovery,
					Status: event.Success, Availability: fake.view.Availability,
				})
				drain(cmd)

				So(b.activeKind, ShouldEqual, media.Magnet)
				So(fake.actions(), ShouldResemble, []dispatch.Action{dispatch.Load, dispatch.Episodes})
				So(fake.args[0].Scope, ShouldResemble, media.SeasonScope(1))

				Convey("seasons and episodes narrow the scope", func() {
					_, cmd := b.Update(keyRunes("]"))
					drain(cmd)
					So(b.scopeFor(media.Magnet), ShouldResemble, media.SeasonScope(2))

					_, cmd = b.Update(keyRunes("}"))
					drain(cmd)
					So(b.scopeFor(media.Magnet), ShouldResemble, media.EpisodeScope(2, 1))

					_, cmd = b.Update(keyRunes("{"))
					drain(cmd)
					So(b.scopeFor(media.Magnet), ShouldResemble, media.SeasonScope(2))
				})

				Convey("tab moves to the next kind with its own scope", func() {
					_, cmd := b.Update(tea.KeyMsg{Type: tea.KeyTab})
					drain(cmd)
					So(b.activeKind, ShouldEqual, media.Ed2k)

					last := fake.args[len(fake.args)-2]
					So(last.Kind, ShouldEqual, media.Ed2k)
					So(last.Scope, ShouldResemble, media.EpisodeScope(1, 1))
				})

				Convey("a loaded listing is shown", func() {
					listing := &media.Listing{Kind: media.Magnet, Scope: media.SeasonScope(1), Items: []media.Item{
						{Kind: media.Magnet, DisplayName: "GoT.S01E01.1080p", Locator: "magnet:?a"},
					}}
					fake.view.Kinds = []orchestrator.KindView{{Kind: media.Magnet, Scope: media.SeasonScope(1), State: orchestrator.Loaded, Listing: listing}}

					b.Update(eventMsg{Session: "s1", Component: event.Orchestrator, Kind: event.Listing, Status: event.Success, Resource: media.Magnet})
					So(b.itemsC.Items(), ShouldHaveLength, 1)

					Convey("and r relays the selected row", func() {
						_, cmd := b.Update(keyRunes("r"))
						drain(cmd)
						So(fake.calls[len(fake.calls)-1], ShouldResemble, dispatch.Command{Component: event.Relay, Action: dispatch.Share})
						So(fake.args[len(fake.args)-1].Locator, ShouldEqual, "magnet:?a")

						b.Update(eventMsg{Component: event.Relay, Kind: event.Share, Status: event.Success, Locator: "magnet:?a", Label: "GoT"})
						So(b.relayed["magnet:?a"], ShouldBeTrue)
					})
				})
			})

			Convey("closing the session returns to waiting", func() {
				fake.present = false
				b.Update(eventMsg{Session: "s1", Component: event.Orchestrator, Kind: event.Closed, Status: event.Success})
				So(b.state, ShouldEqual, waitingState)
			})

			Convey("s submits the session", func() {
				_, cmd := b.Update(keyRunes("s"))
				drain(cmd)
				So(fake.actions(), ShouldContain, dispatch.Submit)
			})
		})

		Convey("a raw capture shows the fallback view", func() {
			capture := &event.Capture{Method: "POST", URL: "http://cms/api/submedia/add", Body: `{"title":"x"}`, Encoding: "json", Payload: map[string]any{"title": "x"}}
			b.Update(eventMsg{Component: event.Interceptor, Kind: event.Raw, Status: event.Success, Capture: capture})
			So(b.state, ShouldEqual, rawState)
			So(b.View(), ShouldContainSubstring, "POST")

			Convey("and s submits it raw", func() {
				_, cmd := b.Update(keyRunes("s"))
				drain(cmd)
				So(fake.actions(), ShouldResemble, []dispatch.Action{dispatch.SubmitRaw})
				So(fake.args[0].Payload, ShouldResemble, capture.Payload)
			})

			Convey("and esc goes back to waiting", func() {
				b.Update(tea.KeyMsg{Type: tea.KeyEsc})
				So(b.state, ShouldEqual, waitingState)
			})

			Convey("and an error shown over it returns there on esc", func() {
				b.Update(errors.New("backend unreachable"))
				So(b.state, ShouldEqual, errorState)
				So(b.View(), ShouldContainSubstring, "backend unreachable")

				b.Update(keyRunes("x"))
				So(b.state, ShouldEqual, errorState)

				b.Update(tea.KeyMsg{Type: tea.KeyEsc})
				So(b.state, ShouldEqual, rawState)
			})
		})
	})
}

func TestRenderCallback(t *testing.T) {
	Convey("A render callback replaces the session header", t, func() {
		fake := &fakeEngine{present: true, view: orchestrator.View{ID: "s1"}}
		b := newBubble(fake.engine(), &Options{Render: func(v orchestrator.View, _ int) string {
			return "custom " + v.ID
		}})

		b.Update(eventMsg{Component: event.Interceptor, Kind: event.Intercepted, Status: event.Success, Request: &media.Request{TMDBID: "1"}})
		b.Update(eventMsg{Session: "s1", Component: event.Orchestrator, Kind: event.Discovery, Status: event.Pending})

		So(b.View(), ShouldContainSubstring, "custom s1")
	})
}

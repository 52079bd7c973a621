package inline

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/subgate-cli/subgate/event"
	"github.com/subgate-cli/subgate/media"
	"github.com/subgate-cli/subgate/orchestrator"
)

func TestWriter(t *testing.T) {
	Convey("Given a writer", t, func() {
		var buf bytes.Buffer
		options := &Options{Out: &buf}
		w := NewWriter(options)

		Convey("pending events are dropped by default", func() {
			w.Publish(event.Event{Component: event.Relay, Kind: event.Share, Status: event.Pending})
			So(buf.Len(), ShouldEqual, 0)

			options.Pending = true
			w.Publish(event.Event{Component: event.Relay, Kind: event.Share, Status: event.Pending})
			So(buf.Len(), ShouldBeGreaterThan, 0)
		})

		Convey("each event is one JSON line", func() {
			w.Publish(event.Event{Component: event.Relay, Kind: event.Share, Status: event.Success, Locator: "magnet:?a"})
			w.Publish(event.Event{Component: event.Submitter, Kind: event.Submit, Status: event.Error, Reason: "auth"})

			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			So(lines, ShouldHaveLength, 2)

			var e event.Event
			So(json.Unmarshal([]byte(lines[1]), &e), ShouldBeNil)
			So(e.Reason, ShouldEqual, "auth")
			So(e.Status, ShouldEqual, event.Error)
		})

		Convey("components narrow the output", func() {
			options.Components = mo.Some([]event.Component{event.Relay})
			w.Publish(event.Event{Component: event.Submitter, Kind: event.Submit, Status: event.Success})
			So(buf.Len(), ShouldEqual, 0)
		})
	})
}

func TestParseComponents(t *testing.T) {
	Convey("ParseComponents", t, func() {
		cs, err := ParseComponents([]string{"Relay", "relay", " submitter"})
		So(err, ShouldBeNil)
		So(cs, ShouldResemble, []event.Component{event.Relay, event.Submitter})

		_, err = ParseComponents([]string{"player"})
		So(err, ShouldNotBeNil)
	})
}

func TestParseScope(t *testing.T) {
	Convey("ParseScope", t, func() {
		cases := map[string]media.Scope{
			"":      media.Whole(),
			"all":   media.Whole(),
			"S02":   media.SeasonScope(2),
			"s1e10": media.EpisodeScope(1, 10),
			"3":     media.SeasonScope(3),
			"3:4":   media.EpisodeScope(3, 4),
		}
		for in, want := range cases {
			got, err := ParseScope(in)
			So(err, ShouldBeNil)
			So(got, ShouldResemble, want)
		}

		for _, in := range []string{"S0", "1:0", "E02", "x"} {
			_, err := ParseScope(in)
			So(err, ShouldNotBeNil)
		}
	})
}

func TestInspection(t *testing.T) {
	Convey("NewInspection filters the loaded listing", t, func() {
		view := orchestrator.View{
			Kinds: []orchestrator.KindView{{
				Kind: media.Magnet,
				Listing: &media.Listing{Kind: media.Magnet, Items: []media.Item{
					{DisplayName: "Show.S01E01.2160p", Locator: "a"},
					{DisplayName: "Show.S01E01.720p", Locator: "b"},
				}},
			}},
		}

		out := NewInspection(view, media.Magnet, "2160")
		So(out.Matches, ShouldHaveLength, 1)
		So(out.Matches[0].Locator, ShouldEqual, "a")

		So(NewInspection(view, media.Ed2k, "x").Matches, ShouldBeEmpty)
		So(NewInspection(view, media.Magnet, "").Matches, ShouldBeNil)
	})
}

func TestSchema(t *testing.T) {
	Convey("Schema reflects both outputs", t, func() {
		data, err := json.Marshal(Schema(false))
		So(err, ShouldBeNil)
		So(string(data), ShouldContainSubstring, "component")

		data, err = json.Marshal(Schema(true))
		So(err, ShouldBeNil)
		So(string(data), ShouldContainSubstring, "matches")
	})
}

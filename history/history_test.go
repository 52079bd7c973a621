package history

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/subgate-cli/subgate/event"
	"github.com/subgate-cli/subgate/filesystem"
	"github.com/subgate-cli/subgate/media"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestFromEvent(t *testing.T) {
	Convey("Given settled events", t, func() {
		req := &media.Request{TMDBID: "1399", Type: media.TV, Title: "Game of Thrones"}

		Convey("A successful submission becomes a subscribe entry", func() {
			entry, ok := FromEvent(event.Event{
				Component: event.Submitter,
				Kind:      event.Submit,
				Status:    event.Success,
				Outcome:   "already_exists",
				Request:   req,
			})
			So(ok, ShouldBeTrue)
			So(entry.Action, ShouldEqual, Subscribed)
			So(entry.Outcome, ShouldEqual, "already_exists")
			So(entry.String(), ShouldEqual, "Game of Thrones (tv 1399)")
		})

		Convey("A raw submission has no identity and is skipped", func() {
			_, ok := FromEvent(event.Event{Component: event.Submitter, Kind: event.Submit, Status: event.Success})
			So(ok, ShouldBeFalse)
		})

		Convey("A successful relay becomes a relay entry", func() {
			entry, ok := FromEvent(event.Event{
				Component: event.Relay,
				Kind:      event.Share,
				Status:    event.Success,
				Locator:   "magnet:?xt=urn:btih:abc",
				Label:     "S01 pack",
			})
			So(ok, ShouldBeTrue)
			So(entry.Action, ShouldEqual, Relayed)
			So(entry.Title, ShouldEqual, "S01 pack")
		})

		Convey("Failures and pending events are skipped", func() {
			_, ok := FromEvent(event.Event{Component: event.Relay, Kind: event.Share, Status: event.Error, Locator: "x"})
			So(ok, ShouldBeFalse)
			_, ok = FromEvent(event.Event{Component: event.Submitter, Kind: event.Submit, Status: event.Pending, Request: req})
			So(ok, ShouldBeFalse)
		})
	})
}

func TestJournal(t *testing.T) {
	Convey("Given an empty journal", t, func() {
		first := &Entry{Action: Subscribed, TMDBID: "27205", Type: media.Movie, Title: "Inception", At: time.Now().Add(-time.Hour)}
		second := &Entry{Action: Relayed, Locator: "ed2k://|file|a.mkv|1|H|/", At: time.Now()}

		Convey("When saving entries", func() {
			So(Save(first), ShouldBeNil)
			So(Save(second), ShouldBeNil)

			Convey("They come back most recent first", func() {
				entries, err := Get()
				So(err, ShouldBeNil)
				So(len(entries), ShouldBeGreaterThanOrEqualTo, 2)
				So(entries[0].Locator, ShouldEqual, second.Locator)
			})

			Convey("Repeating an action bumps the count and keeps the title", func() {
				So(Save(&Entry{Action: Subscribed, TMDBID: "27205", Type: media.Movie, At: time.Now()}), ShouldBeNil)

				entries, err := Get()
				So(err, ShouldBeNil)
				var found *Entry
				for _, e := range entries {
					if e.TMDBID == "27205" {
						found = e
					}
				}
				So(found, ShouldNotBeNil)
				So(found.Count, ShouldBeGreaterThanOrEqualTo, 2)
				So(found.Title, ShouldEqual, "Inception")
			})

			Convey("Remove drops the entry", func() {
				So(Remove(second), ShouldBeNil)

				entries, err := Get()
				So(err, ShouldBeNil)
				for _, e := range entries {
					So(e.Locator, ShouldNotEqual, second.Locator)
				}
			})
		})
	})
}

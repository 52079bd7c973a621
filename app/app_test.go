package app

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/subgate-cli/subgate/dispatch"
	"github.com/subgate-cli/subgate/event"
	"github.com/subgate-cli/subgate/filesystem"
	"github.com/subgate-cli/subgate/key"
	"github.com/subgate-cli/subgate/media"
	"github.com/subgate-cli/subgate/where"
	"github.com/zalando/go-keyring"
)

func waitFor(rec *event.Recorder, c event.Component, k event.Kind, status event.Status) event.Event {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if e, ok := rec.Last(c, k); ok && e.Status == status {
			return e
		}
		time.Sleep(5 * time.Millisecond)
	}
	e, _ := rec.Last(c, k)
	return e
}

func TestApp(t *testing.T) {
	Convey("Given a CMS and a wired app", t, func() {
		keyring.MockInit()
		filesystem.SetMemMapFs()

		var submits atomic.Int32
		var hold atomic.Pointer[chan struct{}]
		cms := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/api/submedia/add":
				if gate := hold.Load(); gate != nil {
					<-*gate
				}
				submits.Add(1)
				_, _ = io.WriteString(w, `{"code":200,"msg":"ok"}`)
			case "/api/nullbr/movie/550/resources":
				_, _ = io.WriteString(w, `{"data":{"movie_info":{"overview":"fight"},"available_resources":{"has_magnet":true}}}`)
			case "/api/nullbr/movie/550/magnet":
				_, _ = io.WriteString(w, `{"data":{"resources":[{"name":"Fight.Club.1080p","magnet":"magnet:?xt=1"}]}}`)
			default:
				http.NotFound(w, r)
			}
		}))
		defer cms.Close()

		viper.Set(key.BackendBaseURL, cms.URL)
		viper.Set(key.AuthToken, "token")
		defer viper.Set(key.BackendBaseURL, "")
		defer viper.Set(key.AuthToken, "")

		rec := &event.Recorder{}
		a, err := New(context.Background(), Options{Upstream: http.DefaultTransport, Isolated: true, Sinks: []event.Sink{rec}})
		So(err, ShouldBeNil)
		defer a.Close()

		So(a.Interceptor.Installed(), ShouldBeTrue)

		post := func(contentType, body string) *http.Response {
			resp, err := a.Host.Post(cms.URL+"/api/submedia/add", contentType, strings.NewReader(body))
			So(err, ShouldBeNil)
			resp.Body.Close()
			return resp
		}

		Convey("an intercepted call with identity starts a session", func() {
			resp := post("application/json", `{"tmdb_id":550,"media_type":"movie","title":"Fight Club"}`)
			So(resp.StatusCode, ShouldEqual, http.StatusAccepted)
			So(submits.Load(), ShouldEqual, 0)

			e := waitFor(rec, event.Orchestrator, event.Discovery, event.Success)
			So(e.Status, ShouldEqual, event.Success)
			So(e.Availability[media.Magnet], ShouldBeTrue)

			Convey("and the dispatch table drives it", func() {
				err := a.Commands.Dispatch(context.Background(), dispatch.Command{Component: event.Orchestrator, Action: dispatch.Load}, dispatch.Args{Kind: media.Magnet})
				So(err, ShouldBeNil)

				l := waitFor(rec, event.Orchestrator, event.Listing, event.Success)
				So(l.Listing, ShouldNotBeNil)
				So(l.Listing.Items[0].Locator, ShouldEqual, "magnet:?xt=1")

				err = a.Commands.Dispatch(context.Background(), dispatch.Command{Component: event.Submitter, Action: dispatch.Submit}, dispatch.Args{})
				So(err, ShouldBeNil)
				So(submits.Load(), ShouldEqual, 1)

				current := a.Registry.Current()
				So(current, ShouldNotBeNil)
				So(current.Closed(), ShouldBeFalse)
			})

			Convey("and a submission answered after a newer interception leaves the newer session open", func() {
				first := a.Registry.Current()
				So(first, ShouldNotBeNil)

				gate := make(chan struct{})
				hold.Store(&gate)
				defer hold.Store(nil)

				done := make(chan error, 1)
				go func() {
					done <- a.Commands.Dispatch(context.Background(), dispatch.Command{Component: event.Submitter, Action: dispatch.Submit}, dispatch.Args{Session: first.ID})
				}()

				deadline := time.Now().Add(2 * time.Second)
				for time.Now().Before(deadline) {
					if e, ok := rec.Last(event.Submitter, event.Submit); ok && e.Status == event.Pending {
						break
					}
					time.Sleep(5 * time.Millisecond)
				}

				post("application/json", `{"tmdb_id":550,"media_type":"movie","title":"Fight Club"}`)
				second := a.Registry.Current()
				So(second, ShouldNotBeNil)
				So(second.ID, ShouldNotEqual, first.ID)

				close(gate)
				So(<-done, ShouldBeNil)
				So(submits.Load(), ShouldEqual, 1)

				current := a.Registry.Current()
				So(current, ShouldNotBeNil)
				So(current.ID, ShouldEqual, second.ID)
				So(current.Closed(), ShouldBeFalse)
				So(first.Closed(), ShouldBeTrue)
			})

			Convey("and a call without identity dismisses it", func() {
				previous := a.Registry.Current()
				post("application/x-www-form-urlencoded", "title=Nameless")

				So(a.Registry.Current(), ShouldBeNil)
				So(previous.Closed(), ShouldBeTrue)
			})
		})

		Convey("a call without identity falls back to the raw view", func() {
			post("application/x-www-form-urlencoded", "title=Nameless")

			e := waitFor(rec, event.Interceptor, event.Raw, event.Success)
			So(e.Capture, ShouldNotBeNil)
			So(e.Capture.Payload["title"], ShouldEqual, "Nameless")
			So(a.Registry.Current(), ShouldBeNil)
		})

		Convey("an undecodable body is kept on disk", func() {
			post("application/octet-stream", "\x00\x01garbage")

			e := waitFor(rec, event.Interceptor, event.Raw, event.Error)
			So(e.Reason, ShouldEqual, "decode")

			files, err := filesystem.API().ReadDir(where.Captures())
			So(err, ShouldBeNil)
			So(len(files), ShouldEqual, 1)
		})
	})
}

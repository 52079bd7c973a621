package metrics

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/subgate-cli/subgate/event"
	"github.com/subgate-cli/subgate/media"
)

func TestPublish(t *testing.T) {
	Convey("Given a fresh registry", t, func() {
		m := New(prometheus.NewRegistry())

		Convey("pending events are not counted", func() {
			m.Publish(event.Event{Component: event.Relay, Kind: event.Share, Status: event.Pending})
			So(testutil.CollectAndCount(m.Relays), ShouldEqual, 0)
		})

		Convey("listing results are labelled by kind and status", func() {
			m.Publish(event.Event{Component: event.Orchestrator, Kind: event.Listing, Status: event.Success, Resource: media.Magnet})
			m.Publish(event.Event{Component: event.Orchestrator, Kind: event.Listing, Status: event.Success, Resource: media.Magnet})
			m.Publish(event.Event{Component: event.Orchestrator, Kind: event.Listing, Status: event.Empty, Resource: media.Ed2k})

			So(testutil.ToFloat64(m.ResourceLoads.WithLabelValues("magnet", "success")), ShouldEqual, 2)
			So(testutil.ToFloat64(m.ResourceLoads.WithLabelValues("ed2k", "empty")), ShouldEqual, 1)
		})

		Convey("submissions use the outcome", func() {
			m.Publish(event.Event{Component: event.Submitter, Kind: event.Submit, Status: event.Success, Outcome: "already_exists"})
			So(testutil.ToFloat64(m.Submissions.WithLabelValues("already_exists")), ShouldEqual, 1)
		})

		Convey("closed sessions are counted", func() {
			m.Publish(event.Event{Component: event.Orchestrator, Kind: event.Closed, Status: event.Success})
			So(testutil.ToFloat64(m.Sessions), ShouldEqual, 1)
		})

		Convey("interceptions are labelled by kind", func() {
			m.Publish(event.Event{Component: event.Interceptor, Kind: event.Raw, Status: event.Success})
			So(testutil.ToFloat64(m.Intercepted.WithLabelValues("raw")), ShouldEqual, 1)
		})
	})
}

func TestServer(t *testing.T) {
	Convey("Given a running metrics server", t, func() {
		reg := prometheus.NewRegistry()
		m := New(reg)
		m.Publish(event.Event{Component: event.Relay, Kind: event.Share, Status: event.Error})

		l, err := net.Listen("tcp", "127.0.0.1:0")
		So(err, ShouldBeNil)

		srv := NewServer(l.Addr().String(), reg)
		done := make(chan error, 1)
		go func() { done <- srv.Serve(l) }()

		resp, err := http.Get("http://" + l.Addr().String() + "/metrics")
		So(err, ShouldBeNil)
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		So(string(body), ShouldContainSubstring, `subgate_relay_relays_total{result="error"} 1`)

		So(srv.Shutdown(context.Background()), ShouldBeNil)
		So(<-done, ShouldBeNil)
	})
}

package relay

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"runtime"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/subgate-cli/subgate/backend"
	"github.com/subgate-cli/subgate/event"
)

func serve(status int, body string) (*Relay, *httptest.Server, *event.Recorder) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	c, err := backend.New(backend.Options{BaseURL: srv.URL, HTTP: srv.Client(), Token: func() string { return "t" }})
	if err != nil {
		panic(err)
	}
	rec := &event.Recorder{}
	return New(c, rec), srv, rec
}

func TestRelay(t *testing.T) {
	Convey("Relay classification against a CMS", t, func() {
		Convey("code 200 is Success", func() {
			r, srv, rec := serve(http.StatusOK, `{"code":200,"msg":"ok"}`)
			defer srv.Close()

			res, err := r.Relay(context.Background(), "magnet:?xt=1", "S01E01")
			So(err, ShouldBeNil)
			So(res.OK, ShouldBeTrue)
			So(res.String(), ShouldEqual, "success")

			e, _ := rec.Last(event.Relay, event.Share)
			So(e.Status, ShouldEqual, event.Success)
			So(e.Label, ShouldEqual, "S01E01")
		})

		Convey("Another code fails with the message", func() {
			r, srv, _ := serve(http.StatusOK, `{"code":500,"msg":"x"}`)
			defer srv.Close()

			res, _ := r.Relay(context.Background(), "magnet:?xt=1", "")
			So(res.OK, ShouldBeFalse)
			So(res.Reason, ShouldEqual, "x")
			So(res.String(), ShouldEqual, "failed(x)")
		})

		Convey("Another code without a message names the code", func() {
			r, srv, _ := serve(http.StatusOK, `{"code":403}`)
			defer srv.Close()

			res, _ := r.Relay(context.Background(), "magnet:?xt=1", "")
			So(res.Reason, ShouldEqual, "code 403")
		})

		Convey("HTTP 503 is transport", func() {
			r, srv, rec := serve(http.StatusServiceUnavailable, `busy`)
			defer srv.Close()

			res, _ := r.Relay(context.Background(), "magnet:?xt=1", "")
			So(res.Reason, ShouldEqual, "transport")

			e, _ := rec.Last(event.Relay, event.Share)
			So(e.Status, ShouldEqual, event.Error)
		})

		Convey("An undecodable body is decode", func() {
			r, srv, _ := serve(http.StatusOK, `not json`)
			defer srv.Close()

			res, _ := r.Relay(context.Background(), "magnet:?xt=1", "")
			So(res.Reason, ShouldEqual, "decode")
		})

		Convey("Blank locators never reach the network", func() {
			r, srv, rec := serve(http.StatusOK, `{"code":200}`)
			defer srv.Close()

			_, err := r.Relay(context.Background(), "   ", "")
			So(errors.Is(err, ErrEmptyLocator), ShouldBeTrue)
			So(rec.Events(), ShouldBeEmpty)
		})
	})

	Convey("Classify without a token", t, func() {
		So(Classify(nil, backend.ErrAuthMissing).Reason, ShouldEqual, "auth")
	})

	Convey("Classify reads the code as a number", t, func() {
		So(Classify(&backend.Reply{Code: "200"}, nil).OK, ShouldBeTrue)
		So(Classify(&backend.Reply{Code: "200.0"}, nil).OK, ShouldBeTrue)
		So(Classify(&backend.Reply{Code: "2e2"}, nil).OK, ShouldBeTrue)
		So(Classify(&backend.Reply{Code: "201"}, nil).Reason, ShouldEqual, "code 201")
		So(Classify(&backend.Reply{Code: "ok"}, nil).OK, ShouldBeFalse)
	})
}

type gatedQueue struct {
	mu    sync.Mutex
	seen  map[string]int
	gates map[string]chan struct{}
}

func (q *gatedQueue) RelayShare(ctx context.Context, locator string) (*backend.Reply, error) {
	q.mu.Lock()
	q.seen[locator]++
	gate := q.gates[locator]
	q.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return &backend.Reply{Code: "200"}, nil
}

func TestConcurrency(t *testing.T) {
	Convey("Given a queue that holds one locator", t, func() {
		q := &gatedQueue{seen: make(map[string]int), gates: map[string]chan struct{}{"a": make(chan struct{})}}
		r := New(q, nil)

		done := make(chan Result)
		go func() {
			res, _ := r.Relay(context.Background(), "a", "")
			done <- res
		}()
		for !r.Busy("a") {
			runtime.Gosched()
		}

		Convey("The same locator is refused while outstanding", func() {
			_, err := r.Relay(context.Background(), "a", "")
			So(errors.Is(err, ErrInFlight), ShouldBeTrue)

			close(q.gates["a"])
			So((<-done).OK, ShouldBeTrue)
		})

		Convey("A distinct locator proceeds concurrently", func() {
			res, err := r.Relay(context.Background(), "b", "")
			So(err, ShouldBeNil)
			So(res.OK, ShouldBeTrue)
			So(r.Busy("a"), ShouldBeTrue)

			close(q.gates["a"])
			So((<-done).OK, ShouldBeTrue)
			So(r.Busy("a"), ShouldBeFalse)
		})
	})

	Convey("All keeps input order", t, func() {
		q := &gatedQueue{seen: make(map[string]int), gates: map[string]chan struct{}{}}
		r := New(q, nil)

		results := r.All(context.Background(), []string{"x", "", "y"}, "batch")
		So(results, ShouldHaveLength, 3)
		So(results[0].Locator, ShouldEqual, "x")
		So(results[0].OK, ShouldBeTrue)
		So(results[1].OK, ShouldBeFalse)
		So(results[2].Locator, ShouldEqual, "y")
	})
}

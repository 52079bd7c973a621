package proxy

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/subgate-cli/subgate/intercept"
)

func TestProxy(t *testing.T) {
	Convey("Given an upstream behind the proxy", t, func() {
		var hits atomic.Int32
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			_, _ = io.WriteString(w, "upstream "+r.URL.Path)
		}))
		defer upstream.Close()

		host := &http.Client{Transport: http.DefaultTransport}
		srv, err := New("127.0.0.1:0", upstream.URL, host)
		So(err, ShouldBeNil)

		front := httptest.NewServer(srv.Handler())
		defer front.Close()

		Convey("ordinary calls reach the upstream", func() {
			resp, err := http.Get(front.URL + "/api/cloud/list")
			So(err, ShouldBeNil)
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()

			So(string(body), ShouldEqual, "upstream /api/cloud/list")
			So(hits.Load(), ShouldEqual, 1)
		})

		Convey("the interceptor installed later vetoes the subscription call", func() {
			var captured atomic.Int32
			svc := intercept.New(nil, "/api/submedia/add", func(*intercept.Capture) { captured.Add(1) })
			svc.Install(host)
			defer svc.Uninstall()

			resp, err := http.Post(front.URL+"/api/submedia/add", "application/json", strings.NewReader(`{"tmdb_id":"1"}`))
			So(err, ShouldBeNil)
			resp.Body.Close()

			So(resp.StatusCode, ShouldEqual, http.StatusAccepted)
			So(resp.Header.Get(intercept.HeaderIntercepted), ShouldEqual, "true")
			So(captured.Load(), ShouldEqual, 1)
			So(hits.Load(), ShouldEqual, 0)
		})
	})

	Convey("A relative upstream is rejected", t, func() {
		_, err := New(":0", "/only/a/path", http.DefaultClient)
		So(err, ShouldNotBeNil)
	})
}

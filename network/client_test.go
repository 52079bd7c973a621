package network

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/subgate-cli/subgate/key"
)

func TestTransports(t *testing.T) {
	Convey("Upstream transport selection", t, func() {
		Convey("Defaults to the pooled transport", func() {
			viper.Set(key.NetworkChromeTLS, false)
			_, ok := Upstream().(*http.Transport)
			So(ok, ShouldBeTrue)
		})

		Convey("Chrome fingerprint when enabled", func() {
			viper.Set(key.NetworkChromeTLS, true)
			defer viper.Set(key.NetworkChromeTLS, false)
			_, ok := Upstream().(*ChromeTransport)
			So(ok, ShouldBeTrue)
		})
	})

	Convey("ChromeTransport passes plain HTTP through", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}))
		defer srv.Close()

		client := NewClient(NewChromeTransport(NewTransport()), 5*time.Second)
		resp, err := client.Get(srv.URL)
		So(err, ShouldBeNil)
		defer resp.Body.Close()
		So(resp.StatusCode, ShouldEqual, http.StatusTeapot)
	})
}

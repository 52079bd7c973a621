// Package network builds the upstream transports shared by the proxy and the backend client.
package network

import (
	"net/http"
	"time"

	"github.com/spf13/viper"
	"github.com/subgate-cli/subgate/key"
	"github.com/subgate-cli/subgate/log"
	"golang.org/x/net/http2"
)

// NewTransport returns a pooled transport with HTTP/2 enabled.
func NewTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 100
	t.MaxIdleConnsPerHost = 32
	t.IdleConnTimeout = 90 * time.Second
	t.ResponseHeaderTimeout = 30 * time.Second
	t.ExpectContinueTimeout = time.Second
	if err := http2.ConfigureTransport(t); err != nil {
		log.For("network").WithError(err).Warn("http2 not configured")
	}
	return t
}

// Upstream returns the transport selected by network.chrome_tls.
func Upstream() http.RoundTripper {
	if viper.GetBool(key.NetworkChromeTLS) {
		return NewChromeTransport(NewTransport())
	}
	return NewTransport()
}

// NewClient wraps rt in a client with the given timeout.
// A zero timeout disables it; callers then rely on request contexts.
func NewClient(rt http.RoundTripper, timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: rt,
	}
}

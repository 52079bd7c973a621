package network

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"time"

	utls "github.com/refraction-networking/utls"
	"github.com/subgate-cli/subgate/log"
	"golang.org/x/net/http2"
)

const dialTimeout = 30 * time.Second

// ChromeTransport presents a Chrome 120 ClientHello to HTTPS upstreams.
// It tries HTTP/2 first and falls back to HTTP/1.1 when the request body can be replayed.
// Plain HTTP requests go through the fallback transport untouched.
type ChromeTransport struct {
	h2    *http2.Transport
	h1    *http.Transport
	plain http.RoundTripper
}

// NewChromeTransport builds a ChromeTransport. plain serves http:// requests.
func NewChromeTransport(plain http.RoundTripper) *ChromeTransport {
	return &ChromeTransport{
		h2: &http2.Transport{
			DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
				return dialChrome(ctx, network, addr, nil)
			},
		},
		h1: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
				return dialChrome(ctx, network, addr, []string{"http/1.1"})
			},
		},
		plain: plain,
	}
}

func (c *ChromeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.URL.Scheme != "https" {
		return c.plain.RoundTrip(req)
	}

	resp, err := c.h2.RoundTrip(req)
	if err == nil {
		return resp, nil
	}

	retry := req
	if req.Body != nil && req.Body != http.NoBody {
		if req.GetBody == nil {
			return nil, err
		}
		body, berr := req.GetBody()
		if berr != nil {
			return nil, err
		}
		retry = req.Clone(req.Context())
		retry.Body = body
	}

	log.For("network").WithError(err).Debugf("h2 to %s failed, retrying over http/1.1", req.URL.Host)
	return c.h1.RoundTrip(retry)
}

func dialChrome(ctx context.Context, network, addr string, protos []string) (net.Conn, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	dialer := &net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	tlsConn := utls.UClient(conn, &utls.Config{
		ServerName: host,
		MinVersion: tls.VersionTLS12,
		NextProtos: protos,
	}, utls.HelloChrome_120)

	if err := tlsConn.HandshakeContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("tls handshake: %w", err)
	}

	return tlsConn, nil
}

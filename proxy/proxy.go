// Package proxy hosts the CMS web application behind a local reverse proxy.
//
// Outbound traffic goes through the host client's transport, so whatever
// is installed on that client (the interceptor) sees every browser call.
package proxy

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/subgate-cli/subgate/log"
)

// hostTransport reads the client's transport on every request so that
// installing or removing the interceptor takes effect immediately.
type hostTransport struct {
	client *http.Client
}

func (t hostTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	rt := t.client.Transport
	if rt == nil {
		rt = http.DefaultTransport
	}
	return rt.RoundTrip(req)
}

type Server struct {
	upstream   *url.URL
	httpServer *http.Server
	logger     *logrus.Entry
}

// New builds a proxy from addr to upstream using host for outbound calls.
func New(addr, upstream string, host *http.Client) (*Server, error) {
	target, err := url.Parse(upstream)
	if err != nil {
		return nil, fmt.Errorf("proxy upstream: %w", err)
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("proxy upstream %q is not an absolute URL", upstream)
	}

	logger := log.For("proxy")
	rp := &httputil.ReverseProxy{
		Rewrite: func(r *httputil.ProxyRequest) {
			r.SetURL(target)
			r.SetXForwarded()
			r.Out.Host = target.Host
		},
		Transport: hostTransport{client: host},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logger.WithError(err).Warnf("%s %s failed", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusBadGateway)
		},
	}

	return &Server{
		upstream: target,
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           rp,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}, nil
}

// Handler exposes the proxy handler, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Serve accepts on l until Shutdown.
func (s *Server) Serve(l net.Listener) error {
	s.logger.Infof("proxying %s -> %s", l.Addr(), s.upstream)
	if err := s.httpServer.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Listen binds the configured address.
func (s *Server) Listen() (net.Listener, error) {
	return net.Listen("tcp", s.httpServer.Addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

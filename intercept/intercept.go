// Package intercept vetoes the host application's subscription call.
//
// A Service wraps the host client's transport. Requests whose path ends
// with the target path are captured and answered locally with a synthetic
// response; they never reach the network while the Service is installed.
// Every other request passes through unchanged. This is a total override
// of that endpoint: the host never sees a real answer for it.
package intercept

import (
	"bytes"
	"io"
	"net/http"
	"path"
	"strings"
	"sync"

	"github.com/subgate-cli/subgate/constant"
	"github.com/subgate-cli/subgate/log"
)

// HeaderIntercepted marks synthetic responses.
const HeaderIntercepted = "X-Subgate-Intercepted"

// Handler receives each capture. It runs on the caller's goroutine before
// the synthetic response is returned and must not block.
type Handler func(*Capture)

// Service is the interception RoundTripper plus its install lifecycle.
type Service struct {
	path    string
	handler Handler

	mu        sync.Mutex
	base      http.RoundTripper
	client    *http.Client
	original  http.RoundTripper
	installed bool
}

// New builds a Service matching path and forwarding everything else to base.
// A nil base means http.DefaultTransport.
func New(base http.RoundTripper, path string, handler Handler) *Service {
	if path == "" {
		path = constant.SubmitPath
	}
	if handler == nil {
		handler = func(*Capture) {}
	}
	return &Service{path: path, handler: handler, base: base}
}

var (
	global     *Service
	globalOnce sync.Once
)

// Global returns the process-wide Service, building it on first use with
// the given dependencies. Later calls ignore their arguments.
func Global(base http.RoundTripper, path string, handler Handler) *Service {
	globalOnce.Do(func() {
		global = New(base, path, handler)
	})
	return global
}

// Path is the vetoed request path.
func (s *Service) Path() string {
	return s.path
}

// Install makes client route through s. Installing twice is a no-op.
// When s was built without a base transport, the client's current one is used.
func (s *Service) Install(client *http.Client) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.installed {
		return
	}

	s.client = client
	s.original = client.Transport
	if s.base == nil {
		s.base = client.Transport
	}
	client.Transport = s
	s.installed = true

	log.For("intercept").Infof("installed on %s", s.path)
}

// Uninstall restores the client's original transport. Safe to call when not installed.
func (s *Service) Uninstall() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.installed {
		return
	}

	s.client.Transport = s.original
	s.client, s.original = nil, nil
	s.installed = false

	log.For("intercept").Info("uninstalled")
}

func (s *Service) Installed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.installed
}

// Matches reports whether req targets the vetoed path, either directly or
// below a mount prefix such as /cms. All methods match.
func (s *Service) Matches(req *http.Request) bool {
	if req.URL == nil || req.URL.Path == "" {
		return false
	}

	target := "/" + strings.Trim(s.path, "/")
	got := path.Clean("/" + req.URL.Path)
	return got == target || strings.HasSuffix(got, target)
}

func (s *Service) RoundTrip(req *http.Request) (*http.Response, error) {
	if !s.Matches(req) {
		return s.transport().RoundTrip(req)
	}

	capture := s.capture(req)
	logger := log.For("intercept").WithField("encoding", capture.Encoding)
	if capture.Err != nil {
		logger.WithError(capture.Err).Warn("captured body could not be decoded")
	} else {
		logger.Infof("vetoed %s %s", capture.Method, capture.URL)
	}

	s.handler(capture)
	return synthetic(req), nil
}

func (s *Service) transport() http.RoundTripper {
	s.mu.Lock()
	base := s.base
	s.mu.Unlock()

	if base == nil {
		return http.DefaultTransport
	}
	return base
}

func (s *Service) capture(req *http.Request) *Capture {
	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
		_ = req.Body.Close()
	}

	payload, enc, err := decode(body, req.Header.Get("Content-Type"))
	return &Capture{
		Method:   req.Method,
		URL:      req.URL.String(),
		Header:   req.Header.Clone(),
		Body:     body,
		Payload:  payload,
		Encoding: enc,
		Err:      err,
	}
}

// synthetic answers a vetoed call so the host does not hang waiting for it.
func synthetic(req *http.Request) *http.Response {
	body := `{"code":202,"msg":"` + constant.InterceptedMsg + `"}`
	header := make(http.Header)
	header.Set("Content-Type", "application/json; charset=utf-8")
	header.Set(HeaderIntercepted, "true")

	return &http.Response{
		Status:        "202 Accepted",
		StatusCode:    http.StatusAccepted,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewBufferString(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}
}

// Package app wires the engine together from configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"
	"github.com/subgate-cli/subgate/auth"
	"github.com/subgate-cli/subgate/backend"
	"github.com/subgate-cli/subgate/config"
	"github.com/subgate-cli/subgate/dispatch"
	"github.com/subgate-cli/subgate/event"
	"github.com/subgate-cli/subgate/filesystem"
	"github.com/subgate-cli/subgate/history"
	"github.com/subgate-cli/subgate/intercept"
	"github.com/subgate-cli/subgate/key"
	"github.com/subgate-cli/subgate/log"
	"github.com/subgate-cli/subgate/media"
	"github.com/subgate-cli/subgate/metrics"
	"github.com/subgate-cli/subgate/network"
	"github.com/subgate-cli/subgate/orchestrator"
	"github.com/subgate-cli/subgate/proxy"
	"github.com/subgate-cli/subgate/relay"
	"github.com/subgate-cli/subgate/subscription"
	"github.com/subgate-cli/subgate/util"
	"github.com/subgate-cli/subgate/version"
	"github.com/subgate-cli/subgate/where"
)

// Options overrides what would otherwise come from configuration.
type Options struct {
	// Upstream is the transport used for every outbound call. nil selects network.Upstream().
	Upstream http.RoundTripper

	// Isolated builds a private interceptor instead of the process-wide one.
	Isolated bool

	// Sinks are subscribed to the bus before anything can publish.
	Sinks []event.Sink
}

// App is a fully wired engine.
type App struct {
	Bus       *event.Bus
	Backend   *backend.Client
	Registry  *orchestrator.Registry
	Submitter *subscription.Submitter
	Relay     *relay.Relay
	Commands  dispatch.Table

	// Host is the client the web application's traffic leaves through.
	// The interceptor is installed on it.
	Host        *http.Client
	Interceptor *intercept.Service
	Metrics     *metrics.Metrics

	ctx     context.Context
	cancel  context.CancelFunc
	promReg *prometheus.Registry

	mu      sync.Mutex
	servers []shutdowner
}

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

// New builds the engine. Nothing listens until Start.
func New(ctx context.Context, opts Options) (*App, error) {
	upstream := opts.Upstream
	if upstream == nil {
		upstream = network.Upstream()
	}

	path := viper.GetString(key.InterceptPath)
	client, err := NewBackend(upstream)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	a := &App{
		Bus:     event.NewBus(opts.Sinks...),
		Backend: client,
		Host:    network.NewClient(upstream, 0),
		ctx:     ctx,
		cancel:  cancel,
		promReg: prometheus.NewRegistry(),
	}

	a.Metrics = metrics.New(a.promReg)
	a.Bus.Subscribe(a.Metrics)
	a.Bus.Subscribe(event.SinkFunc(logEvent))
	a.Bus.Subscribe(Journal())

	a.Registry = orchestrator.NewRegistry(ctx, client, a.Bus)
	// Sessions stay open after a submission until the user dismisses them.
	a.Submitter = subscription.New(client, a.Bus, nil)
	a.Relay = relay.New(client, a.Bus)
	a.Commands = dispatch.Build(dispatch.Deps{
		Registry:  a.Registry,
		Submitter: a.Submitter,
		Relay:     a.Relay,
	})

	if opts.Isolated {
		a.Interceptor = intercept.New(nil, path, a.handle)
	} else {
		a.Interceptor = intercept.Global(nil, path, a.handle)
	}
	a.Interceptor.Install(a.Host)

	return a, nil
}

// NewBackend builds the CMS client from configuration. nil upstream selects network.Upstream().
func NewBackend(upstream http.RoundTripper) (*backend.Client, error) {
	if upstream == nil {
		upstream = network.Upstream()
	}
	return backend.New(backend.Options{
		BaseURL:    viper.GetString(key.BackendBaseURL),
		Provider:   viper.GetString(key.BackendProvider),
		SubmitPath: viper.GetString(key.InterceptPath),
		HTTP:       network.NewClient(upstream, config.BackendTimeout()),
		Token:      auth.Token,
	})
}

// Journal is the history sink, or a discarding one when history.save is off.
func Journal() event.Sink {
	if !viper.GetBool(key.HistorySave) {
		return event.Discard
	}
	return history.Sink
}

// Context is cancelled by Close.
func (a *App) Context() context.Context {
	return a.ctx
}

// handle turns a capture into a session or a raw fallback.
func (a *App) handle(c *intercept.Capture) {
	if c.Decoded() {
		if req, ok := media.Resolve(c.Payload); ok {
			a.Bus.Publish(event.Event{
				Component: event.Interceptor,
				Kind:      event.Intercepted,
				Status:    event.Success,
				Request:   req,
			})
			if _, err := a.Registry.Start(req); err != nil {
				log.For("app").WithError(err).Warn("session not started")
			}
			return
		}
	}

	a.Registry.Dismiss()

	e := event.Event{
		Component: event.Interceptor,
		Kind:      event.Raw,
		Status:    event.Success,
		Capture: &event.Capture{
			Method:   c.Method,
			URL:      c.URL,
			Body:     string(c.Body),
			Encoding: string(c.Encoding),
			Payload:  c.Payload,
		},
	}
	if c.Err != nil {
		e.Status, e.Reason = event.Error, "decode"
		a.dump(c)
	} else {
		e.Reason = "no tmdb_id"
	}

	a.Bus.Publish(e)
}

// dump keeps an undecodable body for later inspection.
func (a *App) dump(c *intercept.Capture) {
	name := fmt.Sprintf("%s-%s.bin", time.Now().Format("20060102-150405.000"), util.SanitizeFilename(c.Method))
	path := filepath.Join(where.Captures(), name)
	if err := filesystem.Dump(path, c.Body); err != nil {
		log.For("app").WithError(err).Warn("capture not saved")
		return
	}
	log.For("app").Infof("capture saved to %s", path)
}

func logEvent(e event.Event) {
	entry := log.For(string(e.Component)).WithField("kind", e.Kind).WithField("status", e.Status)
	if e.Session != "" {
		entry = entry.WithField("session", e.Session)
	}
	if e.Reason != "" {
		entry = entry.WithField("reason", e.Reason)
	}
	entry.Debug("event")
}

// Start brings up the proxy, the metrics endpoint and the version heartbeat
// as configured. Listener errors are returned before anything is served.
func (a *App) Start() error {
	srv, err := proxy.New(viper.GetString(key.ProxyListen), config.Upstream(), a.Host)
	if err != nil {
		return err
	}
	l, err := srv.Listen()
	if err != nil {
		return fmt.Errorf("proxy listen: %w", err)
	}
	a.track(srv)
	go func() {
		if err := srv.Serve(l); err != nil {
			log.For("proxy").WithError(err).Error("proxy stopped")
		}
	}()

	if addr := viper.GetString(key.MetricsListen); addr != "" {
		ms := metrics.NewServer(addr, a.promReg)
		a.track(ms)
		go func() {
			_ = ms.Start()
		}()
	}

	a.StartHeartbeat()
	return nil
}

// StartHeartbeat schedules the version check when cli.version_check is set.
func (a *App) StartHeartbeat() {
	if !viper.GetBool(key.CliVersionCheck) {
		return
	}
	version.Schedule(a.ctx, config.VersionInterval(), version.NewCheck(a.Backend.LatestVersion, a.Bus))
}

func (a *App) track(s shutdowner) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.servers = append(a.servers, s)
}

// Close tears down the session, the interceptor and every server.
func (a *App) Close() error {
	a.Registry.Dismiss()
	a.Interceptor.Uninstall()
	a.cancel()

	a.mu.Lock()
	servers := a.servers
	a.servers = nil
	a.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var errs []error
	for _, s := range servers {
		if err := s.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

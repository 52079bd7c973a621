// Package inline is the non-interactive presentation: one JSON event per line.
package inline

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"sync"

	"github.com/subgate-cli/subgate/app"
	"github.com/subgate-cli/subgate/event"
	"github.com/subgate-cli/subgate/log"
	"github.com/subgate-cli/subgate/orchestrator"
)

// Writer is an event.Sink encoding each accepted event as one JSON line.
type Writer struct {
	mu      sync.Mutex
	enc     *json.Encoder
	options *Options
}

func NewWriter(options *Options) *Writer {
	if options.Out == nil {
		options.Out = os.Stdout
	}
	return &Writer{enc: json.NewEncoder(options.Out), options: options}
}

func (w *Writer) Publish(e event.Event) {
	if !w.options.accepts(e) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.enc.Encode(e); err != nil {
		log.For("inline").WithError(err).Warn("event not written")
	}
}

// autoLoader loads the first available kind once discovery succeeds,
// the same thing the interactive view does when a session opens.
type autoLoader struct {
	a *app.App
}

func (l autoLoader) Publish(e event.Event) {
	if e.Component != event.Orchestrator || e.Kind != event.Discovery || e.Status != event.Success {
		return
	}

	s, ok := l.a.Registry.Lookup(e.Session)
	if !ok {
		return
	}
	kind, ok := s.FirstAvailable()
	if !ok {
		return
	}

	// Called from the discovery goroutine; LoadKind only schedules work.
	if err := s.LoadKind(kind, orchestrator.DefaultScope(s.Request.Type, kind)); err != nil {
		log.For("inline").WithError(err).Warn("auto load skipped")
	}
}

// Run hosts the web application and streams events until ctx is done.
func Run(ctx context.Context, a *app.App, options *Options) error {
	a.Bus.Subscribe(NewWriter(options))
	if options.AutoLoad {
		a.Bus.Subscribe(autoLoader{a: a})
	}

	if err := a.Start(); err != nil {
		return err
	}

	<-ctx.Done()
	return a.Close()
}

// WriteJSON encodes v on out followed by a newline.
func WriteJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

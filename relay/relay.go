// Package relay hands resource locators to the CMS cloud download queue.
package relay

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/subgate-cli/subgate/backend"
	"github.com/subgate-cli/subgate/event"
	"github.com/subgate-cli/subgate/log"
)

var (
	// ErrInFlight is returned when the same locator is already being relayed.
	ErrInFlight = errors.New("this locator is already being relayed")

	// ErrEmptyLocator is returned before any request for a blank locator.
	ErrEmptyLocator = errors.New("locator is empty")
)

// Result of one relay. Reason is set when OK is false.
type Result struct {
	Locator string
	Label   string
	OK      bool
	Reason  string
	Message string
}

func (r Result) String() string {
	if r.OK {
		return "success"
	}
	return fmt.Sprintf("failed(%s)", r.Reason)
}

// Queue is the write side of the CMS used for relays.
type Queue interface {
	RelayShare(ctx context.Context, locator string) (*backend.Reply, error)
}

// Relay tracks in-flight state per locator, so distinct locators run concurrently.
type Relay struct {
	queue Queue
	sink  event.Sink

	mu       sync.Mutex
	inflight map[string]struct{}
}

func New(queue Queue, sink event.Sink) *Relay {
	if sink == nil {
		sink = event.Discard
	}
	return &Relay{queue: queue, sink: sink, inflight: make(map[string]struct{})}
}

// Busy reports whether locator is outstanding.
func (r *Relay) Busy(locator string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.inflight[locator]
	return ok
}

func (r *Relay) acquire(locator string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.inflight[locator]; ok {
		return false
	}
	r.inflight[locator] = struct{}{}
	return true
}

func (r *Relay) release(locator string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.inflight, locator)
}

// Relay queues locator. label names the row for presentation and logs only.
func (r *Relay) Relay(ctx context.Context, locator, label string) (Result, error) {
	locator = strings.TrimSpace(locator)
	if locator == "" {
		return Result{}, ErrEmptyLocator
	}
	if !r.acquire(locator) {
		return Result{}, ErrInFlight
	}
	defer r.release(locator)

	r.sink.Publish(event.Event{Component: event.Relay, Kind: event.Share, Status: event.Pending, Locator: locator, Label: label})

	reply, err := r.queue.RelayShare(ctx, locator)
	result := Classify(reply, err)
	result.Locator, result.Label = locator, label

	e := event.Event{Component: event.Relay, Kind: event.Share, Locator: locator, Label: label}
	if result.OK {
		e.Status, e.Reason = event.Success, result.Message
		log.For("relay").Infof("queued %s", label)
	} else {
		e.Status, e.Reason = event.Error, result.Reason
		log.For("relay").WithError(err).Warnf("relay of %s failed: %s", label, result.Reason)
	}
	r.sink.Publish(e)

	return result, nil
}

// All relays every locator concurrently and returns results in input order.
// Duplicate locators in the batch are reported as in-flight failures.
func (r *Relay) All(ctx context.Context, locators []string, label string) []Result {
	results := make([]Result, len(locators))

	var wg sync.WaitGroup
	for i, locator := range locators {
		wg.Add(1)
		go func(i int, locator string) {
			defer wg.Done()
			res, err := r.Relay(ctx, locator, label)
			if err != nil {
				res = Result{Locator: locator, Label: label, Reason: err.Error()}
			}
			results[i] = res
		}(i, locator)
	}
	wg.Wait()

	return results
}

// Classify maps a queue answer to a Result.
// Only code 200 succeeds; HTTP-level failures are "transport".
func Classify(reply *backend.Reply, err error) Result {
	var decode *backend.DecodeError

	switch {
	case errors.Is(err, backend.ErrAuthMissing):
		return Result{Reason: "auth"}
	case errors.As(err, &decode):
		return Result{Reason: "decode"}
	case err != nil:
		return Result{Reason: "transport"}
	case reply == nil:
		return Result{Reason: "decode"}
	}

	if reply.OK() {
		return Result{OK: true, Message: reply.Msg}
	}
	if reply.Msg != "" {
		return Result{Reason: reply.Msg}
	}
	if reply.Code == "" {
		return Result{Reason: "no status code"}
	}
	return Result{Reason: "code " + reply.Code}
}

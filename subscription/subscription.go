// Package subscription sends a user-confirmed subscription and classifies the answer.
package subscription

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/subgate-cli/subgate/backend"
	"github.com/subgate-cli/subgate/constant"
	"github.com/subgate-cli/subgate/event"
	"github.com/subgate-cli/subgate/log"
	"github.com/subgate-cli/subgate/media"
)

// ErrInFlight is returned when a submission is already outstanding.
var ErrInFlight = errors.New("a subscription is already being submitted")

// Outcome classifies a submission.
type Outcome int

const (
	Success Outcome = iota
	AlreadyExists
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case AlreadyExists:
		return "already_exists"
	default:
		return "failed"
	}
}

// Result is the outcome plus the message or failure reason.
// Reason is "transport", "http:<status>" or "auth" for failures.
type Result struct {
	Outcome Outcome
	Reason  string
	Message string
}

func (r Result) String() string {
	if r.Outcome == Failed {
		return fmt.Sprintf("%s(%s)", r.Outcome, r.Reason)
	}
	return r.Outcome.String()
}

// Poster is the write side of the CMS used for submissions.
type Poster interface {
	Submit(ctx context.Context, payload any) (*backend.Reply, error)
}

// Submitter allows one submission at a time.
type Submitter struct {
	poster    Poster
	sink      event.Sink
	busy      atomic.Bool
	onSuccess func(Result)
}

// New builds a Submitter. onSuccess runs only for Success, never for AlreadyExists.
func New(poster Poster, sink event.Sink, onSuccess func(Result)) *Submitter {
	if sink == nil {
		sink = event.Discard
	}
	return &Submitter{poster: poster, sink: sink, onSuccess: onSuccess}
}

// Busy reports whether a submission is outstanding. Presentation disables its trigger while true.
func (s *Submitter) Busy() bool {
	return s.busy.Load()
}

// Submit sends req exactly once. It blocks until the answer arrives.
func (s *Submitter) Submit(ctx context.Context, session string, req *media.Request) (Result, error) {
	return s.send(ctx, session, req, req.Body())
}

// SubmitRaw sends an undecoded capture body as-is, for requests without identity.
func (s *Submitter) SubmitRaw(ctx context.Context, payload any) (Result, error) {
	return s.send(ctx, "", nil, payload)
}

func (s *Submitter) send(ctx context.Context, session string, req *media.Request, payload any) (Result, error) {
	if !s.busy.CompareAndSwap(false, true) {
		return Result{}, ErrInFlight
	}
	defer s.busy.Store(false)

	s.sink.Publish(event.Event{Session: session, Component: event.Submitter, Kind: event.Submit, Status: event.Pending, Request: req})

	reply, err := s.poster.Submit(ctx, payload)
	result := Classify(reply, err)

	logger := log.For("subscription").WithField("outcome", result.String())
	if result.Outcome == Failed {
		logger.WithError(err).Warn("submission failed")
	} else {
		logger.Info("submission answered")
	}

	e := event.Event{
		Session:   session,
		Component: event.Submitter,
		Kind:      event.Submit,
		Request:   req,
		Outcome:   result.Outcome.String(),
		Reason:    result.Reason,
	}
	if result.Outcome == Failed {
		e.Status = event.Error
	} else {
		e.Status = event.Success
		if e.Reason == "" {
			e.Reason = result.Message
		}
	}
	s.sink.Publish(e)

	if result.Outcome == Success && s.onSuccess != nil {
		s.onSuccess(result)
	}
	return result, nil
}

// Classify maps a CMS answer to a Result.
// A 2xx answer that is not JSON counts as Success.
func Classify(reply *backend.Reply, err error) Result {
	var (
		status *backend.StatusError
		decode *backend.DecodeError
	)

	switch {
	case errors.Is(err, backend.ErrAuthMissing):
		return Result{Outcome: Failed, Reason: "auth"}
	case errors.As(err, &status):
		return Result{Outcome: Failed, Reason: fmt.Sprintf("http:%d", status.Status)}
	case errors.As(err, &decode):
		return Result{Outcome: Success}
	case err != nil:
		return Result{Outcome: Failed, Reason: "transport"}
	}

	if reply != nil && strings.Contains(reply.Msg, constant.AlreadyExists) {
		return Result{Outcome: AlreadyExists, Message: reply.Msg}
	}

	var msg string
	if reply != nil {
		msg = reply.Msg
	}
	return Result{Outcome: Success, Message: msg}
}

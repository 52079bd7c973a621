package orchestrator

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/subgate-cli/subgate/backend"
	"github.com/subgate-cli/subgate/event"
	"github.com/subgate-cli/subgate/log"
	"github.com/subgate-cli/subgate/media"
)

type slot struct {
	scope   media.Scope
	state   LoadState
	listing *media.Listing
	err     error
	gen     uint64
}

type countSlot struct {
	state LoadState
	count int
	err   error
}

// Session browses the resources of one media item.
//
// All state transitions happen under mu, and the guard for a fetch is taken
// before the fetch starts. Completions re-check closed and the slot
// generation so that results for a superseded scope or session are dropped.
type Session struct {
	ID      string
	Request *media.Request

	ctx     context.Context
	cancel  context.CancelFunc
	catalog Catalog
	sink    event.Sink
	logger  *logrus.Entry

	// discovered is closed once the discovery call has been issued.
	discovered chan struct{}
	wg         sync.WaitGroup

	mu           sync.Mutex
	closed       bool
	gen          uint64
	discovery    LoadState
	info         *media.Info
	infoErr      error
	availability media.Availability
	slots        map[media.Kind]*slot
	episodes     map[int]*countSlot
}

func newSession(parent context.Context, id string, req *media.Request, catalog Catalog, sink event.Sink) *Session {
	ctx, cancel := context.WithCancel(parent)
	return &Session{
		ID:           id,
		Request:      req,
		ctx:          ctx,
		cancel:       cancel,
		catalog:      catalog,
		sink:         sink,
		logger:       log.For("orchestrator").WithField("session", id),
		discovered:   make(chan struct{}),
		availability: media.None(),
		slots:        make(map[media.Kind]*slot),
		episodes:     make(map[int]*countSlot),
	}
}

func (s *Session) publish(e event.Event) {
	e.Session = s.ID
	e.Component = event.Orchestrator
	s.sink.Publish(e)
}

// discover runs exactly once, right after the session is created.
func (s *Session) discover() {
	s.mu.Lock()
	s.discovery = Loading
	s.mu.Unlock()

	s.publish(event.Event{Kind: event.Discovery, Status: event.Pending, Request: s.Request})

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		close(s.discovered)
		d, err := s.catalog.Discover(s.ctx, s.Request.Type, s.Request.TMDBID)

		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			s.logger.Debug("discarding discovery of a closed session")
			return
		}

		if d != nil && (d.Info != media.Info{}) {
			info := d.Info
			s.info = &info
		}

		if err != nil {
			s.discovery = Failed
			s.infoErr = err
			s.availability = media.None()
		} else {
			s.discovery = Loaded
			s.availability = d.Availability
		}
		availability := cloneAvailability(s.availability)
		info := s.info
		s.mu.Unlock()

		e := event.Event{Kind: event.Discovery, Request: s.Request, Info: info, Availability: availability}
		if err != nil {
			s.logger.WithError(err).Warn("discovery failed")
			e.Status, e.Reason = event.Error, reason(err)
		} else if _, found := availability.First(); !found {
			e.Status = event.Empty
		} else {
			e.Status = event.Success
		}
		s.publish(e)
	}()
}

// LoadKind starts resolving kind at scope unless that exact fetch is
// already loading or loaded. It never blocks on the network.
//
// A different scope for the same kind replaces the previous one; its
// in-flight result, if any, is discarded. A failed fetch can be retried by
// calling LoadKind again with the same scope.
func (s *Session) LoadKind(kind media.Kind, scope media.Scope) error {
	scope, err := normalize(s.Request.Type, kind, scope)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}

	current, ok := s.slots[kind]
	if ok && current.scope == scope && (current.state == Loading || current.state == Loaded) {
		s.mu.Unlock()
		return nil
	}

	s.gen++
	gen := s.gen
	s.slots[kind] = &slot{scope: scope, state: Loading, gen: gen}
	s.mu.Unlock()

	s.publish(event.Event{Kind: event.Listing, Status: event.Pending, Resource: kind, Scope: &scope})

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		<-s.discovered
		listing, err := fetch(s.ctx, s.catalog, s.Request, kind, scope)

		s.mu.Lock()
		current := s.slots[kind]
		if s.closed || current == nil || current.gen != gen {
			s.mu.Unlock()
			s.logger.Debugf("discarding stale %s %s result", kind, scope)
			return
		}
		if err != nil {
			current.state, current.err = Failed, err
		} else {
			current.state, current.listing = Loaded, listing
		}
		s.mu.Unlock()

		e := event.Event{Kind: event.Listing, Resource: kind, Scope: &scope, Listing: listing}
		switch {
		case err != nil:
			s.logger.WithError(err).Warnf("%s %s failed", kind, scope)
			e.Status, e.Reason = event.Error, reason(err)
		case listing.Empty():
			e.Status = event.Empty
		default:
			e.Status = event.Success
		}
		s.publish(e)
	}()

	return nil
}

// LoadEpisodes resolves the episode count of season. Counts are cached per
// season; only failed lookups are retried.
func (s *Session) LoadEpisodes(season int) error {
	if !s.Request.Type.Episodic() {
		return errors.New("episode counts only exist for tv")
	}
	if season < 1 {
		return ErrScopeRequired
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if c, ok := s.episodes[season]; ok && c.state != Failed {
		s.mu.Unlock()
		return nil
	}
	entry := &countSlot{state: Loading}
	s.episodes[season] = entry
	s.mu.Unlock()

	scope := media.SeasonScope(season)
	s.publish(event.Event{Kind: event.Episodes, Status: event.Pending, Scope: &scope})

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		<-s.discovered
		count, err := s.catalog.EpisodeCount(s.ctx, s.Request.TMDBID, season)

		s.mu.Lock()
		if s.closed || s.episodes[season] != entry {
			s.mu.Unlock()
			return
		}
		if err != nil {
			entry.state, entry.err = Failed, err
		} else {
			entry.state, entry.count = Loaded, count
		}
		s.mu.Unlock()

		e := event.Event{Kind: event.Episodes, Scope: &scope, EpisodeCount: count}
		switch {
		case err != nil:
			e.Status, e.Reason = event.Error, reason(err)
		case count == 0:
			e.Status = event.Empty
		default:
			e.Status = event.Success
		}
		s.publish(e)
	}()

	return nil
}

// Close tears the session down. In-flight results are discarded.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.publish(event.Event{Kind: event.Closed, Status: event.Success})
}

func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Wait blocks until every operation issued so far has completed.
func (s *Session) Wait() {
	s.wg.Wait()
}

// State returns the load state of kind. A kind loaded at another scope is reported as is.
func (s *Session) State(kind media.Kind) LoadState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sl, ok := s.slots[kind]; ok {
		return sl.state
	}
	return Unloaded
}

// FirstAvailable is the kind presentation should open first.
func (s *Session) FirstAvailable() (media.Kind, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.availability.First()
}

func reason(err error) string {
	switch {
	case errors.Is(err, backend.ErrAuthMissing):
		return "auth: " + err.Error()
	case errors.Is(err, context.Canceled):
		return "cancelled"
	}
	return err.Error()
}

func cloneAvailability(a media.Availability) media.Availability {
	out := make(media.Availability, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/subgate-cli/subgate/backend"
	"github.com/subgate-cli/subgate/event"
	"github.com/subgate-cli/subgate/media"
)

// fakeCatalog answers from fixtures and optionally holds calls until released.
type fakeCatalog struct {
	mu    sync.Mutex
	calls map[string]int
	gates map[string]chan struct{}

	discovery *backend.Discovery
	discErr   error
	items     map[string][]media.Item
	errs      map[string]error
	counts    map[int]int
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		calls: make(map[string]int),
		gates: make(map[string]chan struct{}),
		discovery: &backend.Discovery{
			Info:         media.Info{Overview: "overview", Seasons: 2},
			Availability: media.Availability{media.Pan115: true, media.Magnet: true, media.Ed2k: false, media.Video: true},
		},
		items:  make(map[string][]media.Item),
		errs:   make(map[string]error),
		counts: make(map[int]int),
	}
}

// hold makes calls to key block until the returned func is called.
func (f *fakeCatalog) hold(key string) func() {
	gate := make(chan struct{})
	f.mu.Lock()
	f.gates[key] = gate
	f.mu.Unlock()
	return func() { close(gate) }
}

// fail makes calls to key return err, or succeed again when err is nil.
func (f *fakeCatalog) fail(key string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.errs, key)
		return
	}
	f.errs[key] = err
}

func (f *fakeCatalog) stocked(key string) []media.Item {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items[key]
}

func (f *fakeCatalog) enter(ctx context.Context, key string) error {
	f.mu.Lock()
	f.calls[key]++
	gate := f.gates[key]
	err := f.errs[key]
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	return err
}

func (f *fakeCatalog) count(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[key]
}

func (f *fakeCatalog) Discover(ctx context.Context, typ media.Type, id string) (*backend.Discovery, error) {
	if err := f.enter(ctx, "discover"); err != nil {
		return nil, err
	}
	return f.discovery, f.discErr
}

func (f *fakeCatalog) Listing(ctx context.Context, typ media.Type, id string, kind media.Kind) ([]media.Item, error) {
	key := fmt.Sprintf("listing/%s", kind.Wire())
	if err := f.enter(ctx, key); err != nil {
		return nil, err
	}
	return f.stocked(key), nil
}

func (f *fakeCatalog) SeasonListing(ctx context.Context, id string, season int, kind media.Kind) ([]media.Item, error) {
	key := fmt.Sprintf("season/%d/%s", season, kind.Wire())
	if err := f.enter(ctx, key); err != nil {
		return nil, err
	}
	return f.stocked(key), nil
}

func (f *fakeCatalog) EpisodeListing(ctx context.Context, id string, season, episode int, kind media.Kind) ([]media.Item, error) {
	key := fmt.Sprintf("episode/%d/%d/%s", season, episode, kind.Wire())
	if err := f.enter(ctx, key); err != nil {
		return nil, err
	}
	return f.stocked(key), nil
}

func (f *fakeCatalog) EpisodeCount(ctx context.Context, id string, season int) (int, error) {
	key := fmt.Sprintf("episodes/%d", season)
	if err := f.enter(ctx, key); err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counts[season], nil
}

var (
	movie = &media.Request{TMDBID: "603", Type: media.Movie, Title: "The Matrix"}
	show  = &media.Request{TMDBID: "1399", Type: media.TV, Title: "Game of Thrones"}
)

func TestRegistry(t *testing.T) {
	Convey("Given a registry", t, func() {
		catalog := newFakeCatalog()
		rec := &event.Recorder{}
		reg := NewRegistry(context.Background(), catalog, rec)

		Convey("Requests without identity never start a session", func() {
			_, err := reg.Start(&media.Request{Type: media.Movie})
			So(errors.Is(err, ErrNoIdentity), ShouldBeTrue)
			So(catalog.count("discover"), ShouldEqual, 0)
			So(reg.Current(), ShouldBeNil)
		})

		Convey("Discovery runs once on start", func() {
			s, err := reg.Start(movie)
			So(err, ShouldBeNil)
			s.Wait()

			So(catalog.count("discover"), ShouldEqual, 1)
			v := s.Snapshot()
			So(v.Discovery, ShouldEqual, Loaded)
			So(v.Info.Overview, ShouldEqual, "overview")
			So(v.Availability[media.Video], ShouldBeTrue)
			So(v.Seasons(), ShouldResemble, []int{1, 2})

			k, ok := s.FirstAvailable()
			So(ok, ShouldBeTrue)
			So(k, ShouldEqual, media.Pan115)

			e, ok := rec.Last(event.Orchestrator, event.Discovery)
			So(ok, ShouldBeTrue)
			So(e.Status, ShouldEqual, event.Success)
			So(e.Session, ShouldEqual, s.ID)
		})

		Convey("Discovery failure leaves nothing available", func() {
			catalog.fail("discover", errors.New("boom"))
			s, _ := reg.Start(movie)
			s.Wait()

			v := s.Snapshot()
			So(v.Discovery, ShouldEqual, Failed)
			So(v.InfoErr, ShouldEqual, "boom")
			So(v.Availability, ShouldResemble, media.None())
			So(catalog.count("discover"), ShouldEqual, 1)

			e, _ := rec.Last(event.Orchestrator, event.Discovery)
			So(e.Status, ShouldEqual, event.Error)
		})

		Convey("Missing availability is a discovery failure that keeps the metadata", func() {
			catalog.discErr = backend.ErrNoAvailability
			s, _ := reg.Start(movie)
			s.Wait()

			v := s.Snapshot()
			So(v.Discovery, ShouldEqual, Failed)
			So(v.Info, ShouldNotBeNil)
			So(v.InfoErr, ShouldEqual, "resource info fetch failed")
		})

		Convey("Starting a new session closes the previous one", func() {
			first, _ := reg.Start(movie)
			second, _ := reg.Start(show)

			So(first.Closed(), ShouldBeTrue)
			So(second.Closed(), ShouldBeFalse)
			So(reg.Current(), ShouldEqual, second)
			So(first.LoadKind(media.Pan115, media.Whole()), ShouldEqual, ErrClosed)

			_, ok := reg.Lookup(first.ID)
			So(ok, ShouldBeFalse)
			_, ok = reg.Lookup(second.ID)
			So(ok, ShouldBeTrue)

			first.Wait()
			second.Wait()
		})

		Convey("Dismiss empties the slot", func() {
			s, _ := reg.Start(movie)
			reg.Dismiss()
			s.Wait()

			So(reg.Current(), ShouldBeNil)
			So(s.Closed(), ShouldBeTrue)
			_, ok := rec.Last(event.Orchestrator, event.Closed)
			So(ok, ShouldBeTrue)
		})
	})
}

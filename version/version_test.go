package version

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/subgate-cli/subgate/constant"
	"github.com/subgate-cli/subgate/event"
	"github.com/subgate-cli/subgate/filesystem"
	"github.com/subgate-cli/subgate/where"
)

func init() {
	filesystem.SetMemMapFs()
}

func resetCache() {
	_ = filesystem.API().Remove(where.VersionCache())
	versionCacher = nil
	versionCacherOnce = sync.Once{}
}

func TestCompare(t *testing.T) {
	Convey("Compare", t, func() {
		cmp, err := Compare("20270101", 20261014)
		So(err, ShouldBeNil)
		So(cmp, ShouldEqual, 1)

		cmp, _ = Compare(" 20261014 ", 20261014)
		So(cmp, ShouldEqual, 0)

		cmp, _ = Compare("20250820", 20261014)
		So(cmp, ShouldEqual, -1)

		_, err = Compare("v1.2.3", 1)
		So(err, ShouldNotBeNil)

		_, err = Compare("", 1)
		So(err, ShouldNotBeNil)
	})
}

func TestProbe(t *testing.T) {
	Convey("Given a version check", t, func() {
		resetCache()
		rec := &event.Recorder{}
		var calls int32
		answer := "99999999"
		fetch := func(context.Context) (string, error) {
			atomic.AddInt32(&calls, 1)
			return answer, nil
		}

		Convey("A newer build publishes an update", func() {
			NewCheck(fetch, rec)(context.Background())

			e, ok := rec.Last(event.Version, event.Update)
			So(ok, ShouldBeTrue)
			So(e.Build, ShouldEqual, 99999999)
		})

		Convey("The answer is cached", func() {
			check := NewCheck(fetch, rec)
			check(context.Background())
			check(context.Background())
			So(atomic.LoadInt32(&calls), ShouldEqual, 1)
		})

		Convey("The current build publishes nothing", func() {
			answer = "1"
			NewCheck(fetch, rec)(context.Background())
			So(rec.Events(), ShouldBeEmpty)
		})

		Convey("Malformed answers are ignored and not cached", func() {
			answer = "<html>"
			check := NewCheck(fetch, rec)
			check(context.Background())
			check(context.Background())
			So(rec.Events(), ShouldBeEmpty)
			So(atomic.LoadInt32(&calls), ShouldEqual, 2)
		})

		Convey("Failures are ignored", func() {
			NewCheck(func(context.Context) (string, error) { return "", errors.New("down") }, rec)(context.Background())
			So(rec.Events(), ShouldBeEmpty)
		})
	})

	Convey("Schedule runs immediately and on every tick", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var runs int32
		Schedule(ctx, 10*time.Millisecond, func(context.Context) { atomic.AddInt32(&runs, 1) })

		deadline := time.Now().Add(2 * time.Second)
		for atomic.LoadInt32(&runs) < 3 && time.Now().Before(deadline) {
			time.Sleep(5 * time.Millisecond)
		}
		So(atomic.LoadInt32(&runs), ShouldBeGreaterThanOrEqualTo, 3)
		So(constant.Build, ShouldBeGreaterThan, 0)
	})
}

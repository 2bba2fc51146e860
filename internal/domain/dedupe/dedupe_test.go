package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	dedupe "github.com/okian/aube/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper(t *testing.T) {
	ctx := context.Background()

	Convey("Given a new deduper", t, func() {
		d := dedupe.NewInMemoryDeduper()

		Convey("Then it should start empty", func() {
			So(d.Size(), ShouldEqual, 0)
		})

		Convey("When a message id is recorded twice", func() {
			first := d.SeenAndRecord(ctx, "msg-1")
			second := d.SeenAndRecord(ctx, "msg-1")

			Convey("Then only the second call should report a duplicate", func() {
				So(first, ShouldBeFalse)
				So(second, ShouldBeTrue)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When an id is unrecorded", func() {
			d.SeenAndRecord(ctx, "msg-1")
			d.Unrecord(ctx, "msg-1")
			d.Unrecord(ctx, "missing")

			Convey("Then it can be recorded again", func() {
				So(d.Size(), ShouldEqual, 0)
				So(d.SeenAndRecord(ctx, "msg-1"), ShouldBeFalse)
			})
		})
	})

	Convey("Given a deduper bounded to three ids", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))
		for i := 1; i <= 4; i++ {
			d.SeenAndRecord(ctx, fmt.Sprintf("msg-%d", i))
		}

		Convey("Then the oldest id should have been evicted", func() {
			So(d.Size(), ShouldEqual, 3)
			So(d.SeenAndRecord(ctx, "msg-4"), ShouldBeTrue)
			So(d.SeenAndRecord(ctx, "msg-3"), ShouldBeTrue)
			So(d.SeenAndRecord(ctx, "msg-1"), ShouldBeFalse)
		})

		Convey("When the middle id is unrecorded", func() {
			d.Unrecord(ctx, "msg-3")
			d.SeenAndRecord(ctx, "msg-5")

			Convey("Then eviction order should skip the removed id", func() {
				So(d.Size(), ShouldEqual, 3)
				So(d.SeenAndRecord(ctx, "msg-2"), ShouldBeTrue)
			})
		})
	})

	Convey("Given an unbounded deduper", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0))
		for i := 0; i < 100; i++ {
			d.SeenAndRecord(ctx, fmt.Sprintf("msg-%d", i))
		}

		Convey("Then nothing should be evicted", func() {
			So(d.Size(), ShouldEqual, 100)
			So(d.SeenAndRecord(ctx, "msg-0"), ShouldBeTrue)
		})
	})
}

func TestInMemoryDeduperConcurrent(t *testing.T) {
	Convey("Given many goroutines recording the same id", t, func() {
		d := dedupe.NewInMemoryDeduper()
		var fresh atomic.Int32
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if !d.SeenAndRecord(context.Background(), "shared") {
					fresh.Add(1)
				}
			}()
		}
		wg.Wait()

		Convey("Then exactly one should win", func() {
			So(fresh.Load(), ShouldEqual, 1)
			So(d.Size(), ShouldEqual, 1)
		})
	})
}

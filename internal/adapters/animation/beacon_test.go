package animation

import (
	"testing"

	"github.com/okian/aube/internal/domain/particles"
	. "github.com/smartystreets/goconvey/convey"
)

func TestBeacon(t *testing.T) {
	Convey("Given a beacon with one subscriber", t, func() {
		b := NewBeacon(particles.DefaultViewportOptions())
		var seen []bool
		detach := b.Subscribe(func(v bool) { seen = append(seen, v) })
		viewport := particles.Rect{Width: 1000, Height: 1000}

		Convey("When the first observation is below the margin line but above 80%", func() {
			// Visible ratio inside the shrunk root is below the threshold,
			// but the top edge is above 80% of the viewport.
			v := b.Observe(particles.Rect{Top: 790, Width: 400, Height: 400}, viewport)

			Convey("Then the initial rule should activate it", func() {
				So(v, ShouldBeTrue)
				So(seen, ShouldResemble, []bool{true})
			})
		})

		Convey("When the same geometry is observed later", func() {
			b.Observe(particles.Rect{Top: -900, Width: 400, Height: 400}, viewport)
			v := b.Observe(particles.Rect{Top: 790, Width: 400, Height: 400}, viewport)

			Convey("Then only the intersection rule applies", func() {
				So(v, ShouldBeFalse)
				So(seen, ShouldResemble, []bool{false})
			})
		})

		Convey("When visibility does not change", func() {
			b.Observe(particles.Rect{Top: 100, Width: 400, Height: 400}, viewport)
			b.Observe(particles.Rect{Top: 120, Width: 400, Height: 400}, viewport)

			Convey("Then subscribers should be notified once", func() {
				So(seen, ShouldResemble, []bool{true})
				So(b.Visible(), ShouldBeTrue)
			})
		})

		Convey("When the subscriber detaches", func() {
			detach()
			detach()
			b.Observe(particles.Rect{Top: 100, Width: 400, Height: 400}, viewport)

			Convey("Then it should receive nothing", func() {
				So(seen, ShouldBeEmpty)
				So(b.Subscribers(), ShouldEqual, 0)
			})
		})
	})
}

package particles

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestVisible(t *testing.T) {
	Convey("Given a 1000px tall viewport and default options", t, func() {
		vp := Rect{Width: 1200, Height: 1000}
		opts := DefaultViewportOptions()

		Convey("When the icon is fully in the upper part", func() {
			So(Visible(Rect{Left: 100, Top: 100, Width: 400, Height: 400}, vp, opts), ShouldBeTrue)
		})

		Convey("When the icon sits entirely in the bottom fifth", func() {
			So(Visible(Rect{Left: 100, Top: 820, Width: 400, Height: 150}, vp, opts), ShouldBeFalse)
		})

		Convey("When less than a tenth crosses the margin line", func() {
			So(Visible(Rect{Left: 100, Top: 770, Width: 400, Height: 400}, vp, opts), ShouldBeFalse)
		})

		Convey("When a tenth crosses the margin line", func() {
			So(Visible(Rect{Left: 100, Top: 760, Width: 400, Height: 400}, vp, opts), ShouldBeTrue)
		})

		Convey("When the icon scrolled above the viewport", func() {
			So(Visible(Rect{Left: 100, Top: -500, Width: 400, Height: 400}, vp, opts), ShouldBeFalse)
		})
	})
}

func TestInitiallyVisible(t *testing.T) {
	Convey("Given a 1000px tall viewport", t, func() {
		opts := DefaultViewportOptions()
		So(InitiallyVisible(Rect{Top: 100, Height: 400}, 1000, opts), ShouldBeTrue)
		So(InitiallyVisible(Rect{Top: 799, Height: 400}, 1000, opts), ShouldBeTrue)
		So(InitiallyVisible(Rect{Top: 800, Height: 400}, 1000, opts), ShouldBeFalse)
		So(InitiallyVisible(Rect{Top: -400, Height: 400}, 1000, opts), ShouldBeFalse)
		So(InitiallyVisible(Rect{Top: -399, Height: 400}, 1000, opts), ShouldBeTrue)
	})
}

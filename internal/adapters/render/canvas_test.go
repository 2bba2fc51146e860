package render

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/okian/aube/internal/domain/particles"
	. "github.com/smartystreets/goconvey/convey"
)

// compile-time check that Canvas can host a scene.
var _ particles.Surface = (*Canvas)(nil)

func TestCanvas(t *testing.T) {
	Convey("Given a 20x10 canvas", t, func() {
		c := NewCanvas(20, 10)
		red := color.NRGBA{R: 0xFF, A: 0xFF}

		Convey("Then it should start transparent", func() {
			w, h := c.Size()
			So(w, ShouldEqual, 20)
			So(h, ShouldEqual, 10)
			So(c.Image().RGBAAt(5, 5).A, ShouldEqual, 0)
		})

		Convey("When a disc is filled", func() {
			c.FillCircle(10, 5, 3, red)

			Convey("Then its centre should be painted and far pixels untouched", func() {
				So(c.Image().RGBAAt(10, 5), ShouldResemble, color.RGBA{R: 0xFF, A: 0xFF})
				So(c.Image().RGBAAt(1, 1).A, ShouldEqual, 0)
			})

			Convey("And cleared afterwards", func() {
				c.Clear()
				So(c.Image().RGBAAt(10, 5).A, ShouldEqual, 0)
			})
		})

		Convey("When a translucent disc is filled", func() {
			c.FillCircle(10, 5, 3, color.NRGBA{R: 0xFF, A: 0x80})

			Convey("Then the centre should carry the reduced alpha", func() {
				a := c.Image().RGBAAt(10, 5).A
				So(a, ShouldBeBetweenOrEqual, 0x7F, 0x81)
			})
		})

		Convey("When a disc straddles the border", func() {
			So(func() { c.FillCircle(0, 0, 4, red) }, ShouldNotPanic)
			So(func() { c.FillCircle(19.5, 9.5, 4, red) }, ShouldNotPanic)

			Convey("Then the visible quarter should be painted", func() {
				So(c.Image().RGBAAt(0, 0).A, ShouldEqual, 0xFF)
			})
		})

		Convey("When a disc is entirely off canvas", func() {
			c.FillCircle(-50, -50, 3, red)
			So(c.Image().RGBAAt(0, 0).A, ShouldEqual, 0)
		})

		Convey("When resized", func() {
			c.FillCircle(10, 5, 3, red)
			c.Resize(4, 4)

			Convey("Then the buffer should be reallocated and blank", func() {
				w, h := c.Size()
				So(w, ShouldEqual, 4)
				So(h, ShouldEqual, 4)
				So(c.Image().RGBAAt(2, 2).A, ShouldEqual, 0)
			})
		})

		Convey("When snapshotted", func() {
			c.FillCircle(10, 5, 3, red)
			snap := c.Snapshot()
			c.Clear()

			Convey("Then the copy should be independent", func() {
				So(snap.RGBAAt(10, 5).A, ShouldEqual, 0xFF)
			})
		})
	})

	Convey("Given a zero-sized canvas", t, func() {
		c := NewCanvas(0, 0)
		So(func() { c.FillCircle(0, 0, 2, color.NRGBA{A: 0xFF}) }, ShouldNotPanic)
	})
}

func TestEncodePNG(t *testing.T) {
	Convey("Given a painted canvas", t, func() {
		c := NewCanvas(8, 8)
		c.FillCircle(4, 4, 2, color.NRGBA{G: 0xFF, A: 0xFF})

		Convey("When encoded", func() {
			data, err := PNG(c.Image())

			Convey("Then it should decode back to the same size", func() {
				So(err, ShouldBeNil)
				img, err := png.Decode(bytes.NewReader(data))
				So(err, ShouldBeNil)
				So(img.Bounds().Dx(), ShouldEqual, 8)
			})
		})
	})
}

func TestEncodePNG_ZeroArea(t *testing.T) {
	Convey("Given a canvas resized to nothing", t, func() {
		c := NewCanvas(8, 8)
		c.Resize(0, 0)

		Convey("When encoded", func() {
			data, err := PNG(c.Image())

			Convey("Then it should still produce a single transparent pixel", func() {
				So(err, ShouldBeNil)
				img, err := png.Decode(bytes.NewReader(data))
				So(err, ShouldBeNil)
				So(img.Bounds().Dx(), ShouldEqual, 1)
				So(img.Bounds().Dy(), ShouldEqual, 1)
				_, _, _, a := img.At(0, 0).RGBA()
				So(a, ShouldEqual, 0)
			})
		})
	})
}

// Package render provides the raster surface scenes draw on.
package render

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/vector"
)

// kappa places cubic control points so four curves approximate a circle.
const kappa = 0.5522847498

// Canvas is an anti-aliased RGBA surface. It starts transparent and is not
// safe for concurrent use.
type Canvas struct {
	img  *image.RGBA
	z    *vector.Rasterizer
	mask *image.Alpha
}

// NewCanvas allocates a width x height transparent canvas.
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{z: vector.NewRasterizer(0, 0)}
	c.Resize(width, height)
	return c
}

// Size returns the canvas dimensions in pixels.
func (c *Canvas) Size() (int, int) {
	b := c.img.Bounds()
	return b.Dx(), b.Dy()
}

// Resize reallocates the pixel buffer. Previous content is discarded.
func (c *Canvas) Resize(width, height int) {
	c.img = image.NewRGBA(image.Rect(0, 0, max(width, 0), max(height, 0)))
}

// Clear resets every pixel to transparent.
func (c *Canvas) Clear() {
	clear(c.img.Pix)
}

// FillCircle composites a disc of radius r centred on (x, y) over the canvas.
// Parts outside the canvas are clipped.
func (c *Canvas) FillCircle(x, y, r float64, col color.NRGBA) {
	if r <= 0 || col.A == 0 || math.IsNaN(x) || math.IsNaN(y) {
		return
	}
	box := image.Rect(
		int(math.Floor(x-r)), int(math.Floor(y-r)),
		int(math.Ceil(x+r)), int(math.Ceil(y+r)),
	)
	if !box.Overlaps(c.img.Bounds()) {
		return
	}

	w, h := box.Dx(), box.Dy()
	if c.mask == nil || c.mask.Bounds().Dx() < w || c.mask.Bounds().Dy() < h {
		c.mask = image.NewAlpha(image.Rect(0, 0, w, h))
	}
	mask := c.mask.SubImage(image.Rect(0, 0, w, h)).(*image.Alpha)
	for row := 0; row < h; row++ {
		clear(mask.Pix[row*mask.Stride : row*mask.Stride+w])
	}

	cx := float32(x - float64(box.Min.X))
	cy := float32(y - float64(box.Min.Y))
	rr := float32(r)
	k := rr * kappa

	c.z.Reset(w, h)
	c.z.DrawOp = draw.Src
	c.z.MoveTo(cx+rr, cy)
	c.z.CubeTo(cx+rr, cy+k, cx+k, cy+rr, cx, cy+rr)
	c.z.CubeTo(cx-k, cy+rr, cx-rr, cy+k, cx-rr, cy)
	c.z.CubeTo(cx-rr, cy-k, cx-k, cy-rr, cx, cy-rr)
	c.z.CubeTo(cx+k, cy-rr, cx+rr, cy-k, cx+rr, cy)
	c.z.ClosePath()
	c.z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	draw.DrawMask(c.img, box, &image.Uniform{C: col}, image.Point{}, mask, image.Point{}, draw.Over)
}

// Image returns the live pixel buffer.
func (c *Canvas) Image() *image.RGBA { return c.img }

// Snapshot returns a copy of the current pixels.
func (c *Canvas) Snapshot() *image.RGBA {
	out := image.NewRGBA(c.img.Bounds())
	copy(out.Pix, c.img.Pix)
	return out
}

var encoder = png.Encoder{CompressionLevel: png.BestSpeed}

// EncodePNG writes img as a PNG. A zero-area image is written as a single
// transparent pixel, since PNG has no empty form.
func EncodePNG(w io.Writer, img image.Image) error {
	if img == nil || img.Bounds().Empty() {
		img = image.NewRGBA(image.Rect(0, 0, 1, 1))
	}
	return encoder.Encode(w, img)
}

// PNG encodes img into a byte slice.
func PNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodePNG(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

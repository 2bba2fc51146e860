package particles

import (
	"fmt"
	"image/color"
	"math"
	"strings"
)

// Shape names an icon silhouette.
type Shape string

// Known shapes.
const (
	Clock  Shape = "clock"
	Globe  Shape = "globe"
	Shield Shape = "shield"
)

// Shapes lists every known shape in display order.
var Shapes = []Shape{Clock, Globe, Shield}

// ShapeScale shrinks clock and globe about the centre so their footprint
// matches the shield.
const ShapeScale = 0.86

// Icon cloud tuning.
const (
	MinHalo       = 60
	HaloRatio     = 0.8
	arcStep       = 0.08
	handStep      = 0.015
	strokeStep    = 0.035
	meridianStep  = 0.25
	ringRadius    = 0.35
	minuteHandLen = 0.25
	hourHandLen   = 0.15
)

// ParseShape validates a shape name.
func ParseShape(s string) (Shape, error) {
	sh := Shape(strings.ToLower(strings.TrimSpace(s)))
	switch sh {
	case Clock, Globe, Shield:
		return sh, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownShape, s)
	}
}

// ShapePoints samples the silhouette of shape in the unit square.
// Unknown shapes yield no points.
func ShapePoints(shape Shape) []Point {
	const cx, cy = 0.5, 0.5
	scale := ShapeScale
	if shape == Shield {
		scale = 1
	}

	var pts []Point
	add := func(x, y float64) {
		pts = append(pts, Point{X: cx + (x-cx)*scale, Y: cy + (y-cy)*scale})
	}
	ring := func() {
		for a := 0.0; a < 2*math.Pi; a += arcStep {
			add(cx+ringRadius*math.Cos(a), cy+ringRadius*math.Sin(a))
		}
	}

	switch shape {
	case Clock:
		ring()
		for i := 0.0; i < minuteHandLen; i += handStep {
			add(cx, cy-i)
		}
		for i := 0.0; i < hourHandLen; i += handStep {
			add(cx+i, cy)
		}
	case Globe:
		ring()
		for i := 0.15; i < 0.85; i += strokeStep {
			add(i, cy)
		}
		for i := 0.15; i < 0.85; i += strokeStep {
			add(cx, i)
		}
		for a := 0.0; a < 2*math.Pi; a += meridianStep {
			add(cx+ringRadius*math.Cos(a)*0.5, cy+ringRadius*math.Sin(a))
		}
	case Shield:
		for i := 0.25; i <= 0.75; i += strokeStep {
			add(i, 0.25)
		}
		for i := 0.25; i <= 0.55; i += strokeStep {
			add(0.25, i)
			add(0.75, i)
		}
		// quadratic Bézier from (0.25,0.55) through (0.5,0.9) to (0.75,0.55)
		for t := 0.0; t <= 1; t += strokeStep {
			u := 1 - t
			add(u*u*0.25+2*u*t*0.5+t*t*0.75, u*u*0.55+2*u*t*0.9+t*t*0.55)
		}
		for i := 0.0; i < 0.1; i += handStep {
			add(0.4+i, 0.5+i)
		}
		for i := 0.0; i < 0.2; i += handStep {
			add(0.5+i, 0.6-i)
		}
	}
	return pts
}

// HaloCount is the number of background particles added around a shape of n points.
func HaloCount(n int) int {
	h := int(math.Floor(float64(n) * HaloRatio))
	if h < MinHalo {
		return MinHalo
	}
	return h
}

// NewShapeField builds an icon cloud: one particle per shape point, homed on
// that point and starting from a random scatter position, followed by
// HaloCount translucent halo particles that stay around their scatter position.
func NewShapeField(rng Rand, shape Shape, width, height int, c color.NRGBA) ([]Particle, error) {
	if _, err := ParseShape(string(shape)); err != nil {
		return nil, err
	}
	pts := ShapePoints(shape)
	w, h := float64(width), float64(height)
	halo := HaloCount(len(pts))
	out := make([]Particle, 0, len(pts)+halo)

	for _, pt := range pts {
		ox := rng.Float64() * w
		oy := rng.Float64() * h
		out = append(out, Particle{
			X: ox, Y: oy,
			BaseX: pt.X * w, BaseY: pt.Y * h,
			OriginX: ox, OriginY: oy,
			Size:    rng.Float64()*2.4 + 1.2,
			Color:   c,
			Density: rng.Float64()*0.5 + 0.1,
			VX:      spread(rng, 1.5),
			VY:      spread(rng, 1.5),
		})
	}

	hc := withAlpha(c, HaloAlpha)
	for i := 0; i < halo; i++ {
		ox := rng.Float64() * w
		oy := rng.Float64() * h
		out = append(out, Particle{
			X: ox, Y: oy,
			BaseX: ox, BaseY: oy,
			OriginX: ox, OriginY: oy,
			Size:    rng.Float64()*1.5 + 0.6,
			Color:   hc,
			Density: rng.Float64()*0.3 + 0.05,
			VX:      spread(rng, 0.8),
			VY:      spread(rng, 0.8),
			Halo:    true,
		})
	}
	return out, nil
}

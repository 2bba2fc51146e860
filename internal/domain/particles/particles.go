// Package particles implements the particle fields drawn behind the landing
// page: ambient drifting fields, a pointer-repelled hero field and icon clouds
// that converge into a silhouette while visible.
//
// Nothing in this package schedules frames or owns goroutines. A Scene is
// driven by exactly one caller at a time.
package particles

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Rand is the random source used for generation, perturbation and shimmer.
// *math/rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// Point is a position in canvas pixels or, for shape definitions, in the
// normalised unit square.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Particle is a single animated dot.
type Particle struct {
	X, Y    float64 // current position
	BaseX   float64 // home position (spring target)
	BaseY   float64
	OriginX float64 // initial scatter position
	OriginY float64
	VX, VY  float64
	Size    float64 // radius in pixels
	Density float64
	Color   color.NRGBA
	Halo    bool // background particle of an icon cloud
}

// Palette is the default colour set of ambient fields.
var Palette = []color.NRGBA{
	MustHex("#FF2D20"),
	MustHex("#F97316"),
	MustHex("#FB7185"),
	MustHex("#C084FC"),
	MustHex("#60A5FA"),
}

// Alpha values applied to translucent variants.
const (
	HaloAlpha    uint8 = 0x66
	ShimmerAlpha uint8 = 0x80
)

// ParseHex parses "#RRGGBB" or "#RRGGBBAA".
func ParseHex(s string) (color.NRGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 && len(h) != 8 {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	if len(h) == 6 {
		v = v<<8 | 0xff
	}
	return color.NRGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}

// MustHex is ParseHex for constants. It panics on malformed input.
func MustHex(s string) color.NRGBA {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// withAlpha returns c with its alpha channel replaced.
func withAlpha(c color.NRGBA, a uint8) color.NRGBA {
	c.A = a
	return c
}

// spread returns a value uniformly distributed in [-scale/2, scale/2).
func spread(rng Rand, scale float64) float64 {
	return (rng.Float64() - 0.5) * scale
}

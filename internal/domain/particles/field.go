package particles

import (
	"image/color"
	"math"
)

// Field sizing.
const (
	BaseCount        = 150
	NarrowBaseCount  = 60
	NarrowWidthLimit = 768
)

type fieldConfig struct {
	modifier float64
	color    *color.NRGBA
}

// FieldOption configures NewAmbientField.
type FieldOption func(*fieldConfig)

// WithCountModifier scales the base particle count.
func WithCountModifier(m float64) FieldOption {
	return func(c *fieldConfig) {
		c.modifier = m
	}
}

// WithColor paints every particle with c instead of picking from Palette.
func WithColor(c color.NRGBA) FieldOption {
	return func(cfg *fieldConfig) {
		cfg.color = &c
	}
}

// FieldCount returns the number of particles an ambient field of the given
// width holds.
func FieldCount(width int, modifier float64) int {
	base := BaseCount
	if width < NarrowWidthLimit {
		base = NarrowBaseCount
	}
	n := math.Ceil(float64(base) * modifier)
	if n <= 0 || math.IsNaN(n) {
		return 0
	}
	return int(n)
}

// NewAmbientField scatters particles uniformly over a width x height canvas.
// Each particle's base and origin are its starting position.
func NewAmbientField(rng Rand, width, height int, opts ...FieldOption) []Particle {
	cfg := fieldConfig{modifier: 1}
	for _, opt := range opts {
		opt(&cfg)
	}

	count := FieldCount(width, cfg.modifier)
	out := make([]Particle, 0, count)
	w, h := float64(width), float64(height)
	for i := 0; i < count; i++ {
		size := rng.Float64()*2 + 1
		x := rng.Float64() * w
		y := rng.Float64() * h

		var c color.NRGBA
		if cfg.color != nil {
			c = *cfg.color
		} else {
			c = Palette[int(rng.Float64()*float64(len(Palette)))%len(Palette)]
		}

		out = append(out, Particle{
			X: x, Y: y,
			BaseX: x, BaseY: y,
			OriginX: x, OriginY: y,
			Size:    size,
			Color:   c,
			Density: rng.Float64()*30 + 1,
			VX:      spread(rng, 0.5),
			VY:      spread(rng, 0.5),
		})
	}
	return out
}

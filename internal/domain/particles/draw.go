package particles

import "image/color"

// Surface is a 2-D drawing target with the three primitives the engine needs.
type Surface interface {
	Size() (width, height int)
	Resize(width, height int)
	Clear()
	FillCircle(x, y, r float64, c color.NRGBA)
}

// ShimmerChance is the probability of a particle being drawn translucent on a
// given frame.
const ShimmerChance = 0.05

// Draw clears s and paints every particle. With shimmer, about one particle
// in twenty is painted at ShimmerAlpha. A nil surface draws nothing.
func Draw(s Surface, rng Rand, ps []Particle, shimmer bool) {
	if s == nil {
		return
	}
	s.Clear()
	for i := range ps {
		p := &ps[i]
		c := p.Color
		if shimmer && rng.Float64() > 1-ShimmerChance {
			c = withAlpha(c, ShimmerAlpha)
		}
		s.FillCircle(p.X, p.Y, p.Size, c)
	}
}

package particles

import "math"

// Physics constants.
const (
	RepulsionRadius   = 300.0
	SpringBackDivisor = 40.0
	ConvergeSpring    = 0.05
	MaxSpeed          = 1.5
	Friction          = 0.92
	BrownianScale     = 0.02
	OriginPull        = 0.002
	Damping           = 0.985
)

// StepAmbient advances every particle by its velocity and wraps it back into
// [0,width) x [0,height).
func StepAmbient(ps []Particle, width, height int) {
	w, h := float64(width), float64(height)
	for i := range ps {
		p := &ps[i]
		p.X = wrap(p.X+p.VX, w)
		p.Y = wrap(p.Y+p.VY, h)
	}
}

// StepRepulsion pushes particles within RepulsionRadius away from pointer,
// proportionally to their density, then pulls every particle 1/40 of the way
// back to its base.
func StepRepulsion(ps []Particle, pointer Point) {
	for i := range ps {
		p := &ps[i]
		dx := pointer.X - p.X
		dy := pointer.Y - p.Y
		d := math.Hypot(dx, dy)
		if d < RepulsionRadius && d > 0 {
			force := (RepulsionRadius - d) / RepulsionRadius
			p.X -= dx / d * force * p.Density
			p.Y -= dy / d * force * p.Density
		}
		if p.X != p.BaseX {
			p.X -= (p.X - p.BaseX) / SpringBackDivisor
		}
		if p.Y != p.BaseY {
			p.Y -= (p.Y - p.BaseY) / SpringBackDivisor
		}
	}
}

// StepConvergence moves an icon cloud one frame. While active, particles are
// sprung toward their base with friction. Otherwise they drift with small
// random kicks, wrap at the edges and relax toward their scatter origin.
// Both branches only act on velocity, so flipping active between frames never
// makes a particle jump.
func StepConvergence(rng Rand, ps []Particle, width, height int, active bool) {
	w, h := float64(width), float64(height)
	for i := range ps {
		p := &ps[i]
		if active {
			p.VX += (p.BaseX - p.X) * ConvergeSpring
			p.VY += (p.BaseY - p.Y) * ConvergeSpring
			p.VX, p.VY = clamp(p.VX, MaxSpeed), clamp(p.VY, MaxSpeed)
			p.VX *= Friction
			p.VY *= Friction
			p.X += p.VX
			p.Y += p.VY
			continue
		}

		p.X += p.VX
		p.Y += p.VY
		p.VX += spread(rng, BrownianScale)
		p.VY += spread(rng, BrownianScale)
		p.VX, p.VY = clamp(p.VX, MaxSpeed), clamp(p.VY, MaxSpeed)
		p.X = wrap(p.X, w)
		p.Y = wrap(p.Y, h)
		p.X += (p.OriginX - p.X) * OriginPull
		p.Y += (p.OriginY - p.Y) * OriginPull
		p.VX *= Damping
		p.VY *= Damping
	}
}

// wrap maps v into [0,size). A non-positive size pins v at 0.
func wrap(v, size float64) float64 {
	if size <= 0 {
		return 0
	}
	if v >= 0 && v < size {
		return v
	}
	v = math.Mod(v, size)
	if v < 0 {
		v += size
	}
	if v >= size {
		v = 0
	}
	return v
}

func clamp(v, limit float64) float64 {
	return math.Max(-limit, math.Min(limit, v))
}

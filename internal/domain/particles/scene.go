package particles

import (
	"fmt"
	"image/color"
	"strings"
)

// Mode selects the per-frame update of a scene.
type Mode string

// Scene modes.
const (
	ModeAmbient     Mode = "ambient"
	ModeInteractive Mode = "interactive"
	ModeShape       Mode = "shape"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case ModeAmbient, ModeInteractive, ModeShape:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// SceneConfig describes one canvas.
type SceneConfig struct {
	Mode          Mode
	Width         int
	Height        int
	CountModifier float64      // ambient and interactive only; 0 means 1
	Color         *color.NRGBA // override for ambient fields, required for shapes
	Shape         Shape        // shape mode only
}

// FrameInput is the external state a frame observes.
type FrameInput struct {
	Active  bool  // icon cloud is on screen
	Pointer Point // hero pointer, canvas coordinates
}

// Scene is the animation state of a single canvas. It is not safe for
// concurrent use.
type Scene struct {
	cfg       SceneConfig
	rng       Rand
	particles []Particle
	frames    uint64
}

// NewScene validates cfg and generates the initial particles.
func NewScene(rng Rand, cfg SceneConfig) (*Scene, error) {
	if _, err := ParseMode(string(cfg.Mode)); err != nil {
		return nil, err
	}
	if cfg.Mode == ModeShape {
		if _, err := ParseShape(string(cfg.Shape)); err != nil {
			return nil, err
		}
		if cfg.Color == nil {
			c := Palette[0]
			cfg.Color = &c
		}
	}
	if cfg.CountModifier == 0 {
		cfg.CountModifier = 1
	}
	s := &Scene{cfg: cfg, rng: rng}
	if err := s.Resize(cfg.Width, cfg.Height); err != nil {
		return nil, err
	}
	return s, nil
}

// Resize records the new canvas size and regenerates the particle batch.
// Negative dimensions are treated as zero.
func (s *Scene) Resize(width, height int) error {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	s.cfg.Width, s.cfg.Height = width, height

	if s.cfg.Mode == ModeShape {
		ps, err := NewShapeField(s.rng, s.cfg.Shape, width, height, *s.cfg.Color)
		if err != nil {
			return err
		}
		s.particles = ps
		return nil
	}

	opts := []FieldOption{WithCountModifier(s.cfg.CountModifier)}
	if s.cfg.Color != nil {
		opts = append(opts, WithColor(*s.cfg.Color))
	}
	s.particles = NewAmbientField(s.rng, width, height, opts...)
	return nil
}

// Frame advances the simulation one step and redraws surf. It reports false
// and does nothing when surf is nil. The surface is resized to the scene if
// their dimensions disagree.
func (s *Scene) Frame(surf Surface, in FrameInput) bool {
	if surf == nil {
		return false
	}
	if w, h := surf.Size(); w != s.cfg.Width || h != s.cfg.Height {
		surf.Resize(s.cfg.Width, s.cfg.Height)
	}

	switch s.cfg.Mode {
	case ModeInteractive:
		StepRepulsion(s.particles, in.Pointer)
		Draw(surf, s.rng, s.particles, true)
	case ModeShape:
		StepConvergence(s.rng, s.particles, s.cfg.Width, s.cfg.Height, in.Active)
		Draw(surf, s.rng, s.particles, false)
	default:
		StepAmbient(s.particles, s.cfg.Width, s.cfg.Height)
		Draw(surf, s.rng, s.particles, true)
	}
	s.frames++
	return true
}

// Mode returns the scene mode.
func (s *Scene) Mode() Mode { return s.cfg.Mode }

// Shape returns the icon shape, empty for non-shape scenes.
func (s *Scene) Shape() Shape { return s.cfg.Shape }

// Size returns the canvas dimensions.
func (s *Scene) Size() (int, int) { return s.cfg.Width, s.cfg.Height }

// Frames returns the number of frames drawn since creation.
func (s *Scene) Frames() uint64 { return s.frames }

// Len returns the number of particles.
func (s *Scene) Len() int { return len(s.particles) }

// Particles returns a copy of the current particle batch.
func (s *Scene) Particles() []Particle {
	out := make([]Particle, len(s.particles))
	copy(out, s.particles)
	return out
}

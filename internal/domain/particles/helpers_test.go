package particles

import (
	"image/color"
	"math/rand"
)

type fixedRand float64

func (f fixedRand) Float64() float64 { return float64(f) }

func seeded() *rand.Rand { return rand.New(rand.NewSource(42)) }

type fill struct {
	x, y, r float64
	c       color.NRGBA
}

type recordingSurface struct {
	w, h    int
	clears  int
	resizes int
	fills   []fill
}

func (s *recordingSurface) Size() (int, int) { return s.w, s.h }

func (s *recordingSurface) Resize(w, h int) {
	s.w, s.h = w, h
	s.resizes++
}

func (s *recordingSurface) Clear() {
	s.clears++
	s.fills = s.fills[:0]
}

func (s *recordingSurface) FillCircle(x, y, r float64, c color.NRGBA) {
	s.fills = append(s.fills, fill{x, y, r, c})
}

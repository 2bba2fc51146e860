// Package model contains domain models passed between layers.
package model

import (
	"time"

	"github.com/okian/aube/internal/domain/particles"
)

// InputKind identifies what an input changes on a scene.
type InputKind string

// Input kinds.
const (
	InputPointer    InputKind = "pointer"
	InputResize     InputKind = "resize"
	InputVisibility InputKind = "visibility"
)

// InputEvent is a change to a scene's external state, queued by request
// handlers and applied by the scene's loop between two frames.
type InputEvent struct {
	Kind    InputKind       // which of the fields below is meaningful
	Scene   string          // target scene name
	Pointer particles.Point // pointer position in canvas pixels
	Width   int             // new canvas width
	Height  int             // new canvas height
	Active  bool            // visibility flag for icon clouds
	TS      time.Time       // time the input was received
}

// PointerMoved builds a pointer input.
func PointerMoved(scene string, x, y float64) InputEvent {
	return InputEvent{Kind: InputPointer, Scene: scene, Pointer: particles.Point{X: x, Y: y}, TS: time.Now()}
}

// Resized builds a resize input.
func Resized(scene string, width, height int) InputEvent {
	return InputEvent{Kind: InputResize, Scene: scene, Width: width, Height: height, TS: time.Now()}
}

// VisibilityChanged builds a visibility input.
func VisibilityChanged(scene string, active bool) InputEvent {
	return InputEvent{Kind: InputVisibility, Scene: scene, Active: active, TS: time.Now()}
}

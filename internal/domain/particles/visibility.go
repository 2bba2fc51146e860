package particles

// Rect is an axis-aligned rectangle in viewport coordinates.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width" validate:"gte=0"`
	Height float64 `json:"height" validate:"gte=0"`
}

// Right edge.
func (r Rect) Right() float64 { return r.Left + r.Width }

// Bottom edge.
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// ViewportOptions tunes the visibility rule.
type ViewportOptions struct {
	// Threshold is the fraction of the element that must be inside the root.
	Threshold float64
	// BottomMargin grows (positive) or shrinks (negative) the root's bottom
	// edge, as a fraction of the viewport height.
	BottomMargin float64
	// InitialFraction is the share of the viewport height an element's top
	// must be above to count as already on screen.
	InitialFraction float64
}

// DefaultViewportOptions activates icon clouds once a tenth of them is inside
// the upper 80% of the viewport.
func DefaultViewportOptions() ViewportOptions {
	return ViewportOptions{Threshold: 0.1, BottomMargin: -0.2, InitialFraction: 0.8}
}

// Visible reports whether element intersects the margin-adjusted viewport by
// at least opts.Threshold of its own area. Zero-area elements are visible when
// they touch the root.
func Visible(element, viewport Rect, opts ViewportOptions) bool {
	root := viewport
	root.Height += viewport.Height * opts.BottomMargin
	if root.Height < 0 {
		root.Height = 0
	}

	left := max(element.Left, root.Left)
	right := min(element.Right(), root.Right())
	top := max(element.Top, root.Top)
	bottom := min(element.Bottom(), root.Bottom())
	if right < left || bottom < top {
		return false
	}

	area := element.Width * element.Height
	if area <= 0 {
		return true
	}
	ratio := (right - left) * (bottom - top) / area
	return ratio > 0 && ratio >= opts.Threshold
}

// InitiallyVisible is the check made when a cloud is first mounted: the
// element's top is above InitialFraction of the viewport and its bottom is
// below the viewport top.
func InitiallyVisible(element Rect, viewportHeight float64, opts ViewportOptions) bool {
	return element.Top < viewportHeight*opts.InitialFraction && element.Bottom() > 0
}

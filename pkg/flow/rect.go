package flow

import "fmt"

// Rect is an axis-aligned rectangle. Right and Bottom are exclusive.
//
// Inside the gravity passes Left/Right run along the length axis and
// Top/Bottom along the thickness axis; frames returned to hosts are literal.
type Rect struct {
	Left, Top, Right, Bottom int
}

// XYWH builds a Rect from an origin and a size.
func XYWH(x, y, w, h int) Rect {
	return Rect{Left: x, Top: y, Right: x + w, Bottom: y + h}
}

// Width returns the horizontal extent.
func (r Rect) Width() int { return r.Right - r.Left }

// Height returns the vertical extent.
func (r Rect) Height() int { return r.Bottom - r.Top }

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.Right <= r.Left || r.Bottom <= r.Top }

// Offset returns the rectangle translated by (dx, dy).
func (r Rect) Offset(dx, dy int) Rect {
	return Rect{Left: r.Left + dx, Top: r.Top + dy, Right: r.Right + dx, Bottom: r.Bottom + dy}
}

// Intersects reports whether r and o share any area.
func (r Rect) Intersects(o Rect) bool {
	return r.Left < o.Right && o.Left < r.Right && r.Top < o.Bottom && o.Top < r.Bottom
}

func (r Rect) String() string {
	return fmt.Sprintf("[%d,%d %dx%d]", r.Left, r.Top, r.Width(), r.Height())
}

// Insets are per-side distances, used for margins and padding.
type Insets struct {
	Left, Top, Right, Bottom int
}

// Uniform returns insets with the same value on every side.
func Uniform(v int) Insets {
	return Insets{Left: v, Top: v, Right: v, Bottom: v}
}

// Horizontal returns Left + Right.
func (in Insets) Horizontal() int { return in.Left + in.Right }

// Vertical returns Top + Bottom.
func (in Insets) Vertical() int { return in.Top + in.Bottom }

func (in Insets) clamp() Insets {
	return Insets{
		Left:   max(in.Left, 0),
		Top:    max(in.Top, 0),
		Right:  max(in.Right, 0),
		Bottom: max(in.Bottom, 0),
	}
}

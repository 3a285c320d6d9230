package flow

// AxisGravity is the alignment of content along a single axis.
type AxisGravity uint8

const (
	// AxisUnset inherits the container's alignment, then falls back to start.
	AxisUnset AxisGravity = iota
	// AxisStart flushes content to the near edge.
	AxisStart
	// AxisEnd flushes content to the far edge.
	AxisEnd
	// AxisCenter centers content, truncating odd remainders.
	AxisCenter
	// AxisFill stretches content over the whole slot.
	AxisFill
)

// Gravity is a declarative alignment mask.
//
// Horizontal and Vertical are literal axes. When Relative is set the
// horizontal start/end follow the writing direction and, in [Vertical]
// orientation, the mask is read along the flow (start = top of a column)
// instead of being rotated with it.
//
// The zero value is unset: a box with a zero Gravity inherits the
// container's.
type Gravity struct {
	Horizontal AxisGravity
	Vertical   AxisGravity
	Relative   bool
}

// Common gravities.
var (
	GravityLeft             = Gravity{Horizontal: AxisStart}
	GravityRight            = Gravity{Horizontal: AxisEnd}
	GravityStart            = Gravity{Horizontal: AxisStart, Relative: true}
	GravityEnd              = Gravity{Horizontal: AxisEnd, Relative: true}
	GravityTop              = Gravity{Vertical: AxisStart}
	GravityBottom           = Gravity{Vertical: AxisEnd}
	GravityCenterHorizontal = Gravity{Horizontal: AxisCenter}
	GravityCenterVertical   = Gravity{Vertical: AxisCenter}
	GravityCenter           = Gravity{Horizontal: AxisCenter, Vertical: AxisCenter}
	GravityFillHorizontal   = Gravity{Horizontal: AxisFill}
	GravityFillVertical     = Gravity{Vertical: AxisFill}
	GravityFill             = Gravity{Horizontal: AxisFill, Vertical: AxisFill}
)

// IsSet reports whether any axis is specified.
func (g Gravity) IsSet() bool {
	return g.Horizontal != AxisUnset || g.Vertical != AxisUnset
}

// With merges o into g: axes set in o win, Relative is sticky.
// GravityStart.With(GravityBottom) is "start|bottom".
func (g Gravity) With(o Gravity) Gravity {
	if o.Horizontal != AxisUnset {
		g.Horizontal = o.Horizontal
	}
	if o.Vertical != AxisUnset {
		g.Vertical = o.Vertical
	}
	g.Relative = g.Relative || o.Relative
	return g
}

// remap rotates and mirrors g into length/thickness space. After remap,
// Horizontal is the length axis and Vertical the thickness axis.
func (g Gravity) remap(o Orientation, d Direction) Gravity {
	if o == Vertical && !g.Relative {
		g.Horizontal, g.Vertical = g.Vertical, g.Horizontal
	}
	if d == RTL && g.Relative {
		switch g.Horizontal {
		case AxisStart:
			g.Horizontal = AxisEnd
		case AxisEnd:
			g.Horizontal = AxisStart
		}
	}
	return g
}

// AxisMask is a fully resolved gravity on the abstract axes. Neither field
// is ever [AxisUnset].
type AxisMask struct {
	Length    AxisGravity
	Thickness AxisGravity
}

// ResolveGravity resolves the effective alignment of a box. The override is
// used when set, otherwise the container default; axes still unset inherit
// the container default and finally fall back to [AxisStart]. Both masks are
// remapped for the orientation and direction before merging.
func ResolveGravity(override, fallback Gravity, o Orientation, d Direction) AxisMask {
	parent := fallback.remap(o, d)
	child := parent
	if override.IsSet() {
		child = override.remap(o, d)
	}
	return AxisMask{
		Length:    pick(child.Horizontal, parent.Horizontal),
		Thickness: pick(child.Vertical, parent.Vertical),
	}
}

func pick(child, parent AxisGravity) AxisGravity {
	switch {
	case child != AxisUnset && child <= AxisFill:
		return child
	case parent != AxisUnset && parent <= AxisFill:
		return parent
	default:
		return AxisStart
	}
}

// ApplyGravity places content of the given extents inside container.
// Start and end flush against an edge, center splits the leftover with
// truncating division, and fill returns the whole container span.
func ApplyGravity(m AxisMask, length, thickness int, container Rect) Rect {
	left, right := applyAxis(m.Length, length, container.Left, container.Right)
	top, bottom := applyAxis(m.Thickness, thickness, container.Top, container.Bottom)
	return Rect{Left: left, Top: top, Right: right, Bottom: bottom}
}

func applyAxis(g AxisGravity, size, lo, hi int) (int, int) {
	switch g {
	case AxisFill:
		return lo, hi
	case AxisEnd:
		return hi - size, hi
	case AxisCenter:
		start := lo + (hi-lo-size)/2
		return start, start + size
	default:
		return lo, lo + size
	}
}

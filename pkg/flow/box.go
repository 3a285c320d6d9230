package flow

// Box is a host's description of one child, in literal axes.
type Box struct {
	ID string

	// Intrinsic size, excluding margins.
	Width  int
	Height int

	Margins Insets

	// NewLine forces the box to start a new line.
	NewLine bool
	// Gravity overrides the container gravity when set.
	Gravity Gravity
	// Weight is the box's share of leftover length; nil inherits
	// Config.DefaultWeight.
	Weight *float64
	// Hidden boxes take no space and are never placed.
	Hidden bool
}

// Weighted returns a pointer to w, for use as Box.Weight.
func Weighted(w float64) *float64 { return &w }

// Item is a box mapped onto the length/thickness axes. Length and
// Thickness start as the intrinsic size and hold the final size after the
// gravity passes.
type Item struct {
	Index int
	ID    string

	Length    int
	Thickness int

	MarginStart  int
	MarginEnd    int
	MarginBefore int
	MarginAfter  int

	NewLine bool
	Gravity Gravity
	Weight  *float64

	// Offsets within the owning line.
	InlineStartLength    int
	InlineStartThickness int
}

// NewItem maps b onto the abstract axes of cfg.
func NewItem(index int, b Box, cfg Config) *Item {
	m := b.Margins.clamp()
	it := &Item{
		Index:   index,
		ID:      b.ID,
		NewLine: b.NewLine,
		Gravity: b.Gravity,
		Weight:  b.Weight,
	}
	w, h := max(b.Width, 0), max(b.Height, 0)
	if cfg.Orientation == Vertical {
		it.Length, it.Thickness = h, w
		it.MarginStart, it.MarginEnd = m.Top, m.Bottom
		it.MarginBefore, it.MarginAfter = m.Left, m.Right
	} else {
		it.Length, it.Thickness = w, h
		it.MarginStart, it.MarginEnd = m.Left, m.Right
		it.MarginBefore, it.MarginAfter = m.Top, m.Bottom
	}
	return it
}

// SpacingLength returns the margins along the length axis.
func (it *Item) SpacingLength() int { return it.MarginStart + it.MarginEnd }

// SpacingThickness returns the margins along the thickness axis.
func (it *Item) SpacingThickness() int { return it.MarginBefore + it.MarginAfter }

// OuterLength returns Length plus margins.
func (it *Item) OuterLength() int { return it.Length + it.SpacingLength() }

// OuterThickness returns Thickness plus margins.
func (it *Item) OuterThickness() int { return it.Thickness + it.SpacingThickness() }

// WeightOr returns the item weight, or def when the item carries none.
// Negative, NaN and infinite weights count as zero.
func (it *Item) WeightOr(def float64) float64 {
	w := def
	if it.Weight != nil {
		w = *it.Weight
	}
	if !usableWeight(w) {
		return 0
	}
	return w
}

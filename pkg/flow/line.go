package flow

import "slices"

// Line is a run of items placed along the main axis before a wrap.
type Line struct {
	Items []*Item

	// Length is the sum of the items' outer lengths; Thickness the largest
	// outer thickness. Both are replaced by the line gravity pass.
	Length    int
	Thickness int

	// Offsets of the line inside the container.
	StartLength    int
	StartThickness int
}

// CanFit reports whether it can be added without exceeding maxLength.
func (l *Line) CanFit(it *Item, maxLength int) bool {
	return l.Length+it.OuterLength() <= maxLength
}

// Append adds it at the end of the line.
func (l *Line) Append(it *Item) {
	l.Items = append(l.Items, it)
	l.grow(it)
}

// Prepend adds it at the head of the line.
func (l *Line) Prepend(it *Item) {
	l.Items = slices.Insert(l.Items, 0, it)
	l.grow(it)
}

func (l *Line) grow(it *Item) {
	l.Length += it.OuterLength()
	l.Thickness = max(l.Thickness, it.OuterThickness())
}

// End returns the far cross-axis edge of the line.
func (l *Line) End() int { return l.StartThickness + l.Thickness }

package flow

// CalculatePositions sets every line's StartThickness to the summed
// thickness of the lines before it, and every item's InlineStartLength to
// the summed outer length of the items before it in its line.
func CalculatePositions(lines []*Line) {
	thickness := 0
	for _, l := range lines {
		l.StartThickness = thickness
		thickness += l.Thickness

		length := 0
		for _, it := range l.Items {
			it.InlineStartLength = length
			length += it.OuterLength()
		}
	}
}

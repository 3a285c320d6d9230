package flow

import "math"

// ApplyGravityToLines hands leftover thickness out to the lines and aligns
// each line inside its slot using the container gravity.
//
// Every line weighs the same. The slot of a line spans the full container
// length and the line's thickness plus its share; with fill gravity the
// lines end up covering the container thickness exactly.
func ApplyGravityToLines(lines []*Line, length, thickness int, cfg Config) {
	if len(lines) == 0 {
		return
	}

	excess := max(0, thickness-lines[len(lines)-1].End())
	extra := Shares(excess, uniform(len(lines)))
	mask := ResolveGravity(Gravity{}, cfg.Gravity, cfg.Orientation, cfg.Direction)

	offset := 0
	for i, l := range lines {
		slot := Rect{
			Left:   0,
			Top:    offset,
			Right:  length,
			Bottom: offset + l.Thickness + extra[i],
		}
		r := ApplyGravity(mask, l.Length, l.Thickness, slot)

		offset += extra[i]
		l.StartLength += r.Left
		l.StartThickness += r.Top
		l.Length = r.Width()
		l.Thickness = r.Height()
	}
}

// ApplyGravityToLine hands the line's leftover length out to its items by
// weight, or evenly when no item carries weight, and aligns each item
// inside its slot using its resolved gravity.
func ApplyGravityToLine(l *Line, cfg Config) {
	if len(l.Items) == 0 {
		return
	}

	weights := make([]float64, len(l.Items))
	total := 0.0
	for i, it := range l.Items {
		weights[i] = it.WeightOr(cfg.DefaultWeight)
		total += weights[i]
	}
	if total == 0 {
		weights = uniform(len(l.Items))
	}

	last := l.Items[len(l.Items)-1]
	excess := max(0, l.Length-(last.InlineStartLength+last.OuterLength()))
	extra := Shares(excess, weights)

	offset := 0
	for i, it := range l.Items {
		mask := ResolveGravity(it.Gravity, cfg.Gravity, cfg.Orientation, cfg.Direction)
		outerLength, outerThickness := it.OuterLength(), it.OuterThickness()
		slot := Rect{
			Left:   offset,
			Top:    0,
			Right:  offset + outerLength + extra[i],
			Bottom: l.Thickness,
		}
		r := ApplyGravity(mask, outerLength, outerThickness, slot)

		offset += extra[i]
		it.InlineStartLength += r.Left
		it.InlineStartThickness = r.Top
		it.Length = r.Width() - it.SpacingLength()
		it.Thickness = r.Height() - it.SpacingThickness()
	}
}

// Shares splits excess proportionally to weights. Shares are taken from the
// cumulative weight, so they always add up to excess and no share is more
// than one unit away from its exact proportion; rounding leftovers go to
// later entries. Non-positive and non-finite weights get nothing; if no
// weight is usable, or excess is not positive, every share is zero.
func Shares(excess int, weights []float64) []int {
	out := make([]int, len(weights))
	if excess <= 0 || len(weights) == 0 {
		return out
	}

	total, largest, lastPositive := 0.0, 0.0, -1
	for i, w := range weights {
		if usableWeight(w) {
			total += w
			largest = max(largest, w)
			lastPositive = i
		}
	}
	if lastPositive < 0 {
		return out
	}
	// Finite weights can still overflow the sum.
	scale := 1.0
	if math.IsInf(total, 1) {
		scale = largest
		total = 0
		for _, w := range weights {
			if usableWeight(w) {
				total += w / scale
			}
		}
	}

	cum, given := 0.0, 0
	for i, w := range weights {
		if !usableWeight(w) {
			continue
		}
		cum += w / scale
		next := int(math.Floor(float64(excess) * cum / total))
		if i == lastPositive {
			next = excess
		}
		next = min(max(next, given), excess)
		out[i] = next - given
		given = next
	}
	return out
}

func usableWeight(w float64) bool {
	return w > 0 && !math.IsInf(w, 1)
}

func uniform(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 1
	}
	return w
}

// Package flow computes flow layouts: an ordered sequence of rectangular
// boxes is broken into wrapped lines along a main axis, the lines are stacked
// along the cross axis, and leftover space is handed out first across lines
// and then across the boxes of each line according to gravity and weight.
//
// # Axes
//
// Every algorithm in this package works on two abstract axes:
//
//   - length: the main axis, along which boxes are placed before wrapping
//   - thickness: the cross axis, along which lines stack
//
// For [Horizontal] orientation length is the width and thickness the
// height; for [Vertical] the two are swapped. Literal width/height appear
// only at the two boundaries: when a [Box] is ingested as an [Item], and
// when [Result.Frame] maps a placed item back to a literal [Rect].
//
// # Pipeline
//
// A single [Layout] pass runs these stages in order:
//
//  1. [NewItem]: map each visible [Box] onto the abstract axes
//  2. [FillLines]: greedily break items into lines
//  3. [CalculatePositions]: prefix sums of line and item offsets
//  4. [ResolveSize]: resolve the container extent from its [MeasureMode]
//  5. [ApplyGravityToLines]: distribute leftover thickness across lines
//  6. [ApplyGravityToLine]: distribute leftover length across items
//
// The result holds the lines and items of the pass. Hosts either read
// frames with [Result.Frame] or push them into a [Consumer] with [Commit].
//
// # Gravity
//
// A [Gravity] is the declarative alignment of a box or container, written
// in literal terms ("left|bottom") or relative to the writing direction
// ("start|bottom"). [ResolveGravity] turns it into an [AxisMask] expressed
// on the abstract axes, and [ApplyGravity] places content inside a slot.
//
// # Failure Semantics
//
// Nothing in this package returns an error. Negative sizes, margins and
// weights are clamped to zero, unknown enum values fall back to their
// defaults, and an empty source yields no lines and a zero content size.
//
// # Usage
//
//	res := flow.Layout(flow.Boxes{
//	    {Width: 30, Height: 40},
//	    {Width: 10, Height: 40, NewLine: true},
//	}, flow.Config{MaxWidth: 70, WidthMode: flow.AtMost})
//
//	for i := range res.Items {
//	    r, _ := res.Frame(i)
//	    fmt.Println(r)
//	}
package flow

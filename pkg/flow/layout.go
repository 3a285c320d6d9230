package flow

// Source provides the boxes of a pass. BoxAt is called once per index, in
// order.
type Source interface {
	Count() int
	BoxAt(i int) Box
}

// Boxes is a Source backed by a slice.
type Boxes []Box

// Count implements Source.
func (b Boxes) Count() int { return len(b) }

// BoxAt implements Source.
func (b Boxes) BoxAt(i int) Box { return b[i] }

// Consumer receives the final literal frame of every visible box.
type Consumer interface {
	Place(index int, frame Rect)
}

// ConsumerFunc adapts a function to Consumer.
type ConsumerFunc func(index int, frame Rect)

// Place implements Consumer.
func (f ConsumerFunc) Place(index int, frame Rect) { f(index, frame) }

// Result is the outcome of a layout pass.
type Result struct {
	// Config is the sanitized configuration of the pass.
	Config Config
	// Lines in cross-axis order.
	Lines []*Line
	// Items by source index; hidden boxes are nil.
	Items []*Item

	// Resolved container extent, excluding padding.
	Length    int
	Thickness int

	// Extent required by the content.
	ContentLength    int
	ContentThickness int
}

// Layout runs a full pass over src.
func Layout(src Source, cfg Config) *Result {
	cfg = cfg.Sanitize()

	n := src.Count()
	res := &Result{Config: cfg, Items: make([]*Item, max(n, 0))}
	visible := make([]*Item, 0, len(res.Items))
	for i := range res.Items {
		b := src.BoxAt(i)
		if b.Hidden {
			continue
		}
		it := NewItem(i, b, cfg)
		res.Items[i] = it
		visible = append(visible, it)
	}

	res.Lines = FillLines(visible, cfg)
	CalculatePositions(res.Lines)

	for _, l := range res.Lines {
		res.ContentLength = max(res.ContentLength, l.Length)
	}
	if len(res.Lines) > 0 {
		res.ContentThickness = res.Lines[len(res.Lines)-1].End()
	}

	res.Length = ResolveSize(cfg.LengthMode(), cfg.MaxLength(), res.ContentLength)
	res.Thickness = cfg.ThicknessPolicy.resolve(cfg.ThicknessMode(), cfg.MaxThickness(), res.ContentThickness)

	ApplyGravityToLines(res.Lines, res.Length, res.Thickness, cfg)
	for _, l := range res.Lines {
		ApplyGravityToLine(l, cfg)
	}
	return res
}

// Width returns the literal container width, padding included.
func (r *Result) Width() int {
	if r.Config.Orientation == Vertical {
		return r.Thickness + r.Config.Padding.Horizontal()
	}
	return r.Length + r.Config.Padding.Horizontal()
}

// Height returns the literal container height, padding included.
func (r *Result) Height() int {
	if r.Config.Orientation == Vertical {
		return r.Length + r.Config.Padding.Vertical()
	}
	return r.Thickness + r.Config.Padding.Vertical()
}

// LineOf returns the line holding the item at index i, or -1.
func (r *Result) LineOf(i int) int {
	if i < 0 || i >= len(r.Items) || r.Items[i] == nil {
		return -1
	}
	for n, l := range r.Lines {
		for _, it := range l.Items {
			if it.Index == i {
				return n
			}
		}
	}
	return -1
}

// Frame returns the literal frame of the box at index i, relative to the
// container's outer edge. It reports false for hidden or unknown boxes.
func (r *Result) Frame(i int) (Rect, bool) {
	n := r.LineOf(i)
	if n < 0 {
		return Rect{}, false
	}
	return r.frame(r.Lines[n], r.Items[i]), true
}

func (r *Result) frame(l *Line, it *Item) Rect {
	pad := r.Config.Padding
	along := l.StartLength + it.InlineStartLength + it.MarginStart
	across := l.StartThickness + it.InlineStartThickness + it.MarginBefore
	if r.Config.Orientation == Vertical {
		return XYWH(pad.Left+across, pad.Top+along, it.Thickness, it.Length)
	}
	return XYWH(pad.Left+along, pad.Top+across, it.Length, it.Thickness)
}

// Frames returns the frame of every box by index; hidden boxes get a zero
// Rect.
func (r *Result) Frames() []Rect {
	out := make([]Rect, len(r.Items))
	for _, l := range r.Lines {
		for _, it := range l.Items {
			out[it.Index] = r.frame(l, it)
		}
	}
	return out
}

// Commit places every visible box into c in index order.
func Commit(r *Result, c Consumer) {
	frames := r.Frames()
	for i, it := range r.Items {
		if it == nil {
			continue
		}
		c.Place(i, frames[i])
	}
}

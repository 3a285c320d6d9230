package host

import (
	"sort"

	"github.com/matzehuels/flowbox/pkg/flow"
)

// View is a recyclable slot. Adapters fill Box (and optionally Data) in
// Bind; the recycler sets Index and Frame.
type View struct {
	Index int
	Box   flow.Box
	Data  any
	// Frame is relative to the viewport's top-left corner.
	Frame flow.Rect
}

// Adapter supplies items to a Recycler.
type Adapter interface {
	ItemCount() int
	Bind(v *View, index int)
}

// Recycler lays out an adapter's items in a flow and keeps only the views
// that intersect the viewport attached.
//
// The width is bounded by the viewport and the height is unbounded, so the
// flow grows downward and scroll offsets are vertical.
type Recycler struct {
	config  flow.Config
	adapter Adapter

	boxes    []flow.Box
	result   *flow.Result
	attached map[int]*View
	scrap    []*View
	created  int
}

// NewRecycler returns a recycler over adapter. The size fields of cfg are
// ignored.
func NewRecycler(cfg flow.Config, adapter Adapter) *Recycler {
	return &Recycler{config: cfg, adapter: adapter, attached: make(map[int]*View)}
}

// NotifyDataSetChanged drops the measured boxes and detaches every view;
// the next Layout remeasures every item and rebinds the visible ones.
func (r *Recycler) NotifyDataSetChanged() {
	r.boxes = nil
	for i, v := range r.attached {
		delete(r.attached, i)
		r.scrap = append(r.scrap, v)
	}
}

// Layout lays out all items for a viewport of width by height scrolled down
// by scroll, and returns the attached views in index order.
func (r *Recycler) Layout(width, height, scroll int) []*View {
	if r.boxes == nil {
		r.measureItems()
	}

	cfg := r.config
	cfg.Orientation = flow.Horizontal
	cfg.WidthMode, cfg.MaxWidth = flow.AtMost, max(width-cfg.Padding.Horizontal(), 0)
	cfg.HeightMode, cfg.MaxHeight = flow.Unspecified, 0
	r.result = flow.Layout(flow.Boxes(r.boxes), cfg)

	viewport := flow.XYWH(0, scroll, width, height)
	frames := r.result.Frames()

	visible := make(map[int]bool)
	for i, it := range r.result.Items {
		if it != nil && frames[i].Intersects(viewport) {
			visible[i] = true
		}
	}

	for i, v := range r.attached {
		if !visible[i] {
			delete(r.attached, i)
			r.scrap = append(r.scrap, v)
		}
	}
	for i := range visible {
		v, ok := r.attached[i]
		if !ok {
			v = r.obtain()
			r.adapter.Bind(v, i)
			r.attached[i] = v
		}
		v.Index = i
		v.Frame = frames[i].Offset(0, -scroll)
	}
	return r.Attached()
}

func (r *Recycler) measureItems() {
	n := r.adapter.ItemCount()
	r.boxes = make([]flow.Box, n)
	probe := r.obtain()
	for i := range n {
		*probe = View{}
		r.adapter.Bind(probe, i)
		r.boxes[i] = probe.Box
	}
	r.scrap = append(r.scrap, probe)
}

func (r *Recycler) obtain() *View {
	if n := len(r.scrap); n > 0 {
		v := r.scrap[n-1]
		r.scrap = r.scrap[:n-1]
		return v
	}
	r.created++
	return &View{}
}

// Attached returns the attached views in index order.
func (r *Recycler) Attached() []*View {
	out := make([]*View, 0, len(r.attached))
	for _, v := range r.attached {
		out = append(out, v)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Index < out[b].Index })
	return out
}

// ScrapSize returns the number of detached views waiting for reuse.
func (r *Recycler) ScrapSize() int { return len(r.scrap) }

// Created returns how many views were ever allocated.
func (r *Recycler) Created() int { return r.created }

// ContentHeight returns the full height of the flow, padding included.
func (r *Recycler) ContentHeight() int {
	if r.result == nil {
		return 0
	}
	return r.result.Height()
}

// Package host drives the layout core the way a UI toolkit would: a
// [Container] that owns its children and is measured by its parent, and a
// [Recycler] that binds a large item list into a small pool of views and
// only keeps the ones inside a scrolling viewport attached.
//
// Both are thin: they translate parent constraints into a [flow.Config],
// run [flow.Layout] and hand out frames.
package host

import (
	"slices"

	"github.com/matzehuels/flowbox/pkg/flow"
)

// MeasureSpec is a parent constraint on one axis, outer size included.
type MeasureSpec struct {
	Mode flow.MeasureMode
	Size int
}

// Exactly returns a spec forcing size n.
func Exactly(n int) MeasureSpec { return MeasureSpec{Mode: flow.Exactly, Size: n} }

// AtMost returns a spec bounding the size by n.
func AtMost(n int) MeasureSpec { return MeasureSpec{Mode: flow.AtMost, Size: n} }

// Unspecified returns a spec leaving the size to the content.
func Unspecified() MeasureSpec { return MeasureSpec{Mode: flow.Unspecified} }

// Container is a flow container with owned children.
//
// Measure may be called repeatedly; it only reruns the layout when the
// constraints or the children changed since the previous call.
type Container struct {
	config   flow.Config
	children []flow.Box

	result      *flow.Result
	lastW       MeasureSpec
	lastH       MeasureSpec
	dirty       bool
	measureRuns int
}

// NewContainer returns a container using cfg for everything but the size
// constraints, which come from Measure. The children are copied.
func NewContainer(cfg flow.Config, children ...flow.Box) *Container {
	return &Container{config: cfg, children: slices.Clone(children), dirty: true}
}

// Config returns the container configuration.
func (c *Container) Config() flow.Config { return c.config }

// SetConfig replaces the configuration and invalidates the layout.
func (c *Container) SetConfig(cfg flow.Config) {
	c.config = cfg
	c.RequestLayout()
}

// ChildCount returns the number of children, hidden ones included.
func (c *Container) ChildCount() int { return len(c.children) }

// Child returns the child at i.
func (c *Container) Child(i int) flow.Box { return c.children[i] }

// AddChild appends a child.
func (c *Container) AddChild(b flow.Box) {
	c.children = append(c.children, b)
	c.RequestLayout()
}

// SetChild replaces the child at i.
func (c *Container) SetChild(i int, b flow.Box) {
	c.children[i] = b
	c.RequestLayout()
}

// RemoveChild removes the child at i.
func (c *Container) RemoveChild(i int) {
	c.children = append(c.children[:i], c.children[i+1:]...)
	c.RequestLayout()
}

// RequestLayout forces the next Measure to rerun the layout.
func (c *Container) RequestLayout() { c.dirty = true }

// Measure lays the children out under the given constraints and returns the
// measured outer size.
func (c *Container) Measure(width, height MeasureSpec) (int, int) {
	if c.dirty || c.result == nil || width != c.lastW || height != c.lastH {
		cfg := c.config
		cfg.WidthMode, cfg.HeightMode = width.Mode, height.Mode
		cfg.MaxWidth = max(width.Size-cfg.Padding.Horizontal(), 0)
		cfg.MaxHeight = max(height.Size-cfg.Padding.Vertical(), 0)

		c.result = flow.Layout(flow.Boxes(c.children), cfg)
		c.lastW, c.lastH = width, height
		c.dirty = false
		c.measureRuns++
	}
	return c.result.Width(), c.result.Height()
}

// MeasuredWidth returns the width of the last Measure, or 0.
func (c *Container) MeasuredWidth() int {
	if c.result == nil {
		return 0
	}
	return c.result.Width()
}

// MeasuredHeight returns the height of the last Measure, or 0.
func (c *Container) MeasuredHeight() int {
	if c.result == nil {
		return 0
	}
	return c.result.Height()
}

// Result returns the last layout, or nil before the first Measure.
func (c *Container) Result() *flow.Result { return c.result }

// Frames returns child frames by index from the last Measure. Hidden
// children get a zero Rect.
func (c *Container) Frames() []flow.Rect {
	if c.result == nil {
		return nil
	}
	return c.result.Frames()
}

// Layout places every visible child into dst.
func (c *Container) Layout(dst flow.Consumer) {
	if c.result == nil {
		return
	}
	flow.Commit(c.result, dst)
}

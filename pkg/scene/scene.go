// Package scene reads and writes scene documents: a container configuration
// plus an ordered list of boxes, in TOML, YAML or JSON.
//
// A scene is the declarative input of every flowbox front end. The CLI loads
// it from a file, the API server receives it as a request body, and the
// pipeline hashes its canonical JSON form for cache keys.
//
// # Example (TOML)
//
//	name = "toolbar"
//
//	[container]
//	width = 320
//	gravity = "start|center_vertical"
//	padding = { left = 8, right = 8 }
//
//	[[boxes]]
//	id = "back"
//	width = 48
//	height = 48
//
//	[[boxes]]
//	label = "tag"
//	width = 60
//	height = 24
//	repeat = 5
//
// # Normalization
//
// [Parse] and [Load] return normalized scenes: repeated boxes are expanded,
// missing IDs are derived deterministically from the scene name and box
// position, and every value is validated. Unknown keys are rejected in all
// formats.
package scene

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/matzehuels/flowbox/pkg/errors"
	"github.com/matzehuels/flowbox/pkg/flow"
)

// Scene is a complete layout input.
type Scene struct {
	Name      string    `json:"name,omitempty" toml:"name,omitempty" yaml:"name,omitempty"`
	Container Container `json:"container" toml:"container" yaml:"container"`
	Boxes     []Box     `json:"boxes" toml:"boxes" yaml:"boxes"`
}

// Container is the container section of a scene.
//
// Width and Height are outer sizes, padding included. When a size is set
// and its mode is not, the mode defaults to at_most; a zero size with no
// mode leaves the axis to the content.
type Container struct {
	Width      int               `json:"width,omitempty" toml:"width,omitempty" yaml:"width,omitempty"`
	Height     int               `json:"height,omitempty" toml:"height,omitempty" yaml:"height,omitempty"`
	WidthMode  *flow.MeasureMode `json:"width_mode,omitempty" toml:"width_mode,omitempty" yaml:"width_mode,omitempty"`
	HeightMode *flow.MeasureMode `json:"height_mode,omitempty" toml:"height_mode,omitempty" yaml:"height_mode,omitempty"`

	Orientation     flow.Orientation     `json:"orientation,omitempty" toml:"orientation,omitempty" yaml:"orientation,omitempty"`
	Direction       flow.Direction       `json:"direction,omitempty" toml:"direction,omitempty" yaml:"direction,omitempty"`
	Gravity         flow.Gravity         `json:"gravity,omitempty" toml:"gravity,omitempty" yaml:"gravity,omitempty"`
	DefaultWeight   float64              `json:"default_weight,omitempty" toml:"default_weight,omitempty" yaml:"default_weight,omitempty"`
	MaxLines        int                  `json:"max_lines,omitempty" toml:"max_lines,omitempty" yaml:"max_lines,omitempty"`
	ThicknessPolicy flow.ThicknessPolicy `json:"thickness_policy,omitempty" toml:"thickness_policy,omitempty" yaml:"thickness_policy,omitempty"`

	Padding Insets `json:"padding,omitempty" toml:"padding,omitempty" yaml:"padding,omitempty"`
	// BoxMargins apply to boxes that declare no margins of their own.
	BoxMargins Insets `json:"box_margins,omitempty" toml:"box_margins,omitempty" yaml:"box_margins,omitempty"`
}

// Box is one entry of the boxes list.
type Box struct {
	ID      string       `json:"id,omitempty" toml:"id,omitempty" yaml:"id,omitempty"`
	Label   string       `json:"label,omitempty" toml:"label,omitempty" yaml:"label,omitempty"`
	Width   int          `json:"width" toml:"width" yaml:"width"`
	Height  int          `json:"height" toml:"height" yaml:"height"`
	Margins *Insets      `json:"margins,omitempty" toml:"margins,omitempty" yaml:"margins,omitempty"`
	NewLine bool         `json:"new_line,omitempty" toml:"new_line,omitempty" yaml:"new_line,omitempty"`
	Gravity flow.Gravity `json:"gravity,omitempty" toml:"gravity,omitempty" yaml:"gravity,omitempty"`
	Weight  *float64     `json:"weight,omitempty" toml:"weight,omitempty" yaml:"weight,omitempty"`
	Hidden  bool         `json:"hidden,omitempty" toml:"hidden,omitempty" yaml:"hidden,omitempty"`
	Color   string       `json:"color,omitempty" toml:"color,omitempty" yaml:"color,omitempty"`
	// Repeat expands the box into this many copies during normalization.
	Repeat int `json:"repeat,omitempty" toml:"repeat,omitempty" yaml:"repeat,omitempty"`
}

// Insets are per-side distances.
type Insets struct {
	Left   int `json:"left,omitempty" toml:"left,omitempty" yaml:"left,omitempty"`
	Top    int `json:"top,omitempty" toml:"top,omitempty" yaml:"top,omitempty"`
	Right  int `json:"right,omitempty" toml:"right,omitempty" yaml:"right,omitempty"`
	Bottom int `json:"bottom,omitempty" toml:"bottom,omitempty" yaml:"bottom,omitempty"`
}

// Flow converts to flow.Insets.
func (in Insets) Flow() flow.Insets {
	return flow.Insets{Left: in.Left, Top: in.Top, Right: in.Right, Bottom: in.Bottom}
}

func validWeight(w float64) bool {
	return w >= 0 && !math.IsInf(w, 1)
}

func (in Insets) negative() bool {
	return in.Left < 0 || in.Top < 0 || in.Right < 0 || in.Bottom < 0
}

// MaxRepeat bounds Box.Repeat.
const MaxRepeat = 10000

// idNamespace seeds the name-based UUIDs of boxes without an ID.
var idNamespace = uuid.MustParse("6f0b6c1e-3c1d-4b55-9d0f-7a1f2f6c9e42")

// Normalize expands repeats, assigns missing IDs and validates the scene.
// It is idempotent.
func (s *Scene) Normalize() error {
	if s.Container.Width < 0 || s.Container.Height < 0 {
		return errors.New(errors.ErrCodeInvalidScene, "container size cannot be negative")
	}
	if s.Container.MaxLines < 0 {
		return errors.New(errors.ErrCodeInvalidScene, "max_lines cannot be negative")
	}
	if !validWeight(s.Container.DefaultWeight) {
		return errors.New(errors.ErrCodeInvalidScene, "default_weight must be a finite non-negative number")
	}
	if s.Container.Padding.negative() {
		return errors.New(errors.ErrCodeInvalidScene, "padding cannot be negative")
	}

	var expanded []Box
	for i, b := range s.Boxes {
		if b.Repeat < 0 || b.Repeat > MaxRepeat {
			return errors.New(errors.ErrCodeInvalidScene, "box %d: repeat must be between 0 and %d", i, MaxRepeat)
		}
		n := max(b.Repeat, 1)
		for r := range n {
			c := b
			c.Repeat = 0
			if b.ID != "" && n > 1 {
				c.ID = fmt.Sprintf("%s-%d", b.ID, r+1)
			}
			// Only the first copy keeps a forced break.
			if r > 0 {
				c.NewLine = false
			}
			expanded = append(expanded, c)
		}
	}
	s.Boxes = expanded

	seen := make(map[string]int, len(s.Boxes))
	for i := range s.Boxes {
		b := &s.Boxes[i]
		if b.ID == "" {
			b.ID = uuid.NewSHA1(idNamespace, fmt.Appendf(nil, "%s/%d", s.Name, i)).String()
		}
		if err := errors.ValidateBoxID(b.ID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidScene, err, "box %d", i)
		}
		if j, dup := seen[b.ID]; dup {
			return errors.New(errors.ErrCodeInvalidScene, "boxes %d and %d share id %q", j, i, b.ID)
		}
		seen[b.ID] = i

		if b.Width < 0 || b.Height < 0 {
			return errors.New(errors.ErrCodeInvalidScene, "box %q: size cannot be negative", b.ID)
		}
		if b.Weight != nil && !validWeight(*b.Weight) {
			return errors.New(errors.ErrCodeInvalidScene, "box %q: weight must be a finite non-negative number", b.ID)
		}
		if b.Margins != nil && b.Margins.negative() {
			return errors.New(errors.ErrCodeInvalidScene, "box %q: margins cannot be negative", b.ID)
		}
		if b.Color != "" {
			if _, err := ParseColor(b.Color); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidScene, err, "box %q", b.ID)
			}
		}
	}
	return nil
}

// Config returns the layout configuration of the container. Sizes are
// reduced by the padding.
func (s *Scene) Config() flow.Config {
	c := s.Container
	pad := c.Padding.Flow()
	return flow.Config{
		Orientation:     c.Orientation,
		Direction:       c.Direction,
		Gravity:         c.Gravity,
		DefaultWeight:   c.DefaultWeight,
		MaxLines:        c.MaxLines,
		MaxWidth:        max(c.Width-pad.Horizontal(), 0),
		MaxHeight:       max(c.Height-pad.Vertical(), 0),
		WidthMode:       modeOf(c.WidthMode, c.Width),
		HeightMode:      modeOf(c.HeightMode, c.Height),
		ThicknessPolicy: c.ThicknessPolicy,
		Padding:         pad,
	}
}

func modeOf(mode *flow.MeasureMode, size int) flow.MeasureMode {
	switch {
	case mode != nil:
		return *mode
	case size > 0:
		return flow.AtMost
	default:
		return flow.Unspecified
	}
}

// FlowBoxes returns the boxes as a flow.Source.
func (s *Scene) FlowBoxes() flow.Boxes {
	out := make(flow.Boxes, len(s.Boxes))
	for i, b := range s.Boxes {
		m := s.Container.BoxMargins
		if b.Margins != nil {
			m = *b.Margins
		}
		out[i] = flow.Box{
			ID:      b.ID,
			Width:   b.Width,
			Height:  b.Height,
			Margins: m.Flow(),
			NewLine: b.NewLine,
			Gravity: b.Gravity,
			Weight:  b.Weight,
			Hidden:  b.Hidden,
		}
	}
	return out
}

// Title returns the scene name, or "untitled".
func (s *Scene) Title() string {
	if strings.TrimSpace(s.Name) == "" {
		return "untitled"
	}
	return s.Name
}

// Mode is a helper for building scenes in code: Mode(flow.Exactly).
func Mode(m flow.MeasureMode) *flow.MeasureMode { return &m }

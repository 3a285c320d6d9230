// Package layoutfile defines the serialized form of a computed flow layout.
//
// A [Layout] is what the pipeline caches, what the API server stores and
// returns, and what every renderer consumes. It carries literal pixel
// frames only, so it can be rendered without re-running the layout pass.
//
//	layout := layoutfile.Export(sc, result)
//	data, _ := layoutfile.Marshal(layout)
//	back, _ := layoutfile.Unmarshal(data)
package layoutfile

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/matzehuels/flowbox/pkg/flow"
	"github.com/matzehuels/flowbox/pkg/scene"
)

// Layout is a computed layout.
type Layout struct {
	ID    string `json:"id,omitempty" bson:"_id,omitempty"`
	Scene string `json:"scene" bson:"scene"`

	// Container size, padding included.
	Width  int `json:"width" bson:"width"`
	Height int `json:"height" bson:"height"`
	// Size required by the content, padding excluded.
	ContentWidth  int `json:"content_width" bson:"content_width"`
	ContentHeight int `json:"content_height" bson:"content_height"`

	Orientation string       `json:"orientation" bson:"orientation"`
	Direction   string       `json:"direction" bson:"direction"`
	Gravity     string       `json:"gravity,omitempty" bson:"gravity,omitempty"`
	Padding     scene.Insets `json:"padding" bson:"padding"`

	Lines  []Line  `json:"lines" bson:"lines"`
	Blocks []Block `json:"blocks" bson:"blocks"`
	// Hidden lists the IDs of boxes that took no space.
	Hidden []string `json:"hidden,omitempty" bson:"hidden,omitempty"`
}

// Line is the slot a line occupies after the line gravity pass.
type Line struct {
	X      int      `json:"x" bson:"x"`
	Y      int      `json:"y" bson:"y"`
	Width  int      `json:"width" bson:"width"`
	Height int      `json:"height" bson:"height"`
	Boxes  []string `json:"boxes" bson:"boxes"`
}

// Block is a placed box.
type Block struct {
	ID     string `json:"id" bson:"id"`
	Label  string `json:"label,omitempty" bson:"label,omitempty"`
	Index  int    `json:"index" bson:"index"`
	Line   int    `json:"line" bson:"line"`
	X      int    `json:"x" bson:"x"`
	Y      int    `json:"y" bson:"y"`
	Width  int    `json:"width" bson:"width"`
	Height int    `json:"height" bson:"height"`
	Color  string `json:"color,omitempty" bson:"color,omitempty"`
}

// Rect returns the block frame.
func (b Block) Rect() flow.Rect { return flow.XYWH(b.X, b.Y, b.Width, b.Height) }

// Rect returns the line slot.
func (l Line) Rect() flow.Rect { return flow.XYWH(l.X, l.Y, l.Width, l.Height) }

// Export converts a layout pass over sc into its serialized form. Blocks
// are in source order.
func Export(sc *scene.Scene, res *flow.Result) Layout {
	cfg := res.Config
	out := Layout{
		Scene:         sc.Title(),
		Width:         res.Width(),
		Height:        res.Height(),
		ContentWidth:  res.ContentLength,
		ContentHeight: res.ContentThickness,
		Orientation:   cfg.Orientation.String(),
		Direction:     cfg.Direction.String(),
		Padding:       scene.Insets(cfg.Padding),
		Lines:         make([]Line, len(res.Lines)),
		Blocks:        []Block{},
	}
	if cfg.Gravity.IsSet() {
		out.Gravity = cfg.Gravity.String()
	}
	if cfg.Orientation == flow.Vertical {
		out.ContentWidth, out.ContentHeight = res.ContentThickness, res.ContentLength
	}

	lineOf := make(map[int]int)
	for n, l := range res.Lines {
		along := flow.XYWH(l.StartLength, l.StartThickness, l.Length, l.Thickness)
		if cfg.Orientation == flow.Vertical {
			along = flow.XYWH(l.StartThickness, l.StartLength, l.Thickness, l.Length)
		}
		along = along.Offset(cfg.Padding.Left, cfg.Padding.Top)

		ids := make([]string, len(l.Items))
		for k, it := range l.Items {
			ids[k] = it.ID
			lineOf[it.Index] = n
		}
		out.Lines[n] = Line{X: along.Left, Y: along.Top, Width: along.Width(), Height: along.Height(), Boxes: ids}
	}

	frames := res.Frames()
	for i, it := range res.Items {
		b := sc.Boxes[i]
		if it == nil {
			out.Hidden = append(out.Hidden, b.ID)
			continue
		}
		f := frames[i]
		out.Blocks = append(out.Blocks, Block{
			ID:     b.ID,
			Label:  b.Label,
			Index:  i,
			Line:   lineOf[i],
			X:      f.Left,
			Y:      f.Top,
			Width:  f.Width(),
			Height: f.Height(),
			Color:  b.Color,
		})
	}
	return out
}

// Block returns the block with the given ID.
func (l *Layout) Block(id string) (Block, bool) {
	for _, b := range l.Blocks {
		if b.ID == id {
			return b, true
		}
	}
	return Block{}, false
}

// Validate checks the internal consistency of a decoded layout.
func (l *Layout) Validate() error {
	if l.Width < 0 || l.Height < 0 {
		return fmt.Errorf("layout size cannot be negative")
	}
	for _, b := range l.Blocks {
		if b.ID == "" {
			return fmt.Errorf("block %d has no id", b.Index)
		}
		if b.Width < 0 || b.Height < 0 {
			return fmt.Errorf("block %q has negative size", b.ID)
		}
		if b.Line < 0 || b.Line >= len(l.Lines) {
			return fmt.Errorf("block %q references line %d of %d", b.ID, b.Line, len(l.Lines))
		}
	}
	return nil
}

// Marshal serializes a Layout to pretty-printed JSON bytes.
func Marshal(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// Unmarshal deserializes and validates a Layout.
func Unmarshal(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// WriteFile writes a Layout to a JSON file.
func WriteFile(l Layout, path string) error {
	data, err := Marshal(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadFile reads a Layout from a JSON file.
func ReadFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Unmarshal(data)
}

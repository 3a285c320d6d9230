// Package styles defines how flow layouts look when drawn as SVG.
//
// Two styles ship with flowbox: [Simple] draws outlined boxes on a white
// page, [Blueprint] draws a technical-drawing look with a grid, dashed line
// slots and monospace labels. Use [Lookup] to resolve a style by name.
package styles

import (
	"bytes"

	"github.com/matzehuels/flowbox/pkg/errors"
)

// Style defines the visual appearance of a rendered layout.
type Style interface {
	// Name returns the identifier accepted by Lookup.
	Name() string
	// RenderDefs writes SVG <defs> content and the page background.
	RenderDefs(buf *bytes.Buffer, width, height float64)
	// RenderLine writes the slot of one line.
	RenderLine(buf *bytes.Buffer, l Line)
	// RenderBlock writes the SVG for a single box.
	RenderBlock(buf *bytes.Buffer, b Block)
	// RenderText writes the SVG for a box label.
	RenderText(buf *bytes.Buffer, b Block)
	// Palette returns the colors for raster output.
	Palette() Palette
}

// Palette holds the flat colors of a style, as "#rrggbb".
type Palette struct {
	Paper string // page background
	Line  string // line slots
	Ink   string // outlines and text
	Fill  string // default box fill; empty leaves boxes unfilled
}

// Block contains all data needed to render a single box.
type Block struct {
	ID         string  // Box identifier
	Label      string  // Display text
	X, Y, W, H float64 // Position and dimensions
	CX, CY     float64 // Center coordinates (for text)
	Color      string  // Fill color, "#rrggbb"; empty uses the style default
}

// Line contains the slot of one line.
type Line struct {
	Index      int
	X, Y, W, H float64
}

// Names lists the available styles.
var Names = []string{"simple", "blueprint"}

// Lookup returns the style registered under name. An empty name selects
// Simple.
func Lookup(name string) (Style, error) {
	switch name {
	case "", "simple":
		return Simple{}, nil
	case "blueprint":
		return Blueprint{}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidStyle, "unknown style %q (want simple or blueprint)", name)
}

package sink

import (
	"bytes"
	"fmt"
	"math"

	"github.com/fogleman/gg"

	"github.com/matzehuels/flowbox/pkg/layoutfile"
	"github.com/matzehuels/flowbox/pkg/render/styles"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	style  styles.Style
	scale  float64
	labels bool
	lines  bool
}

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// WithPNGStyle selects the palette (default styles.Simple).
func WithPNGStyle(s styles.Style) PNGOption { return func(r *pngRenderer) { r.style = s } }

// WithPNGLabels draws box labels, falling back to box IDs.
func WithPNGLabels() PNGOption { return func(r *pngRenderer) { r.labels = true } }

// WithPNGLines draws the slot of every line behind the boxes.
func WithPNGLines() PNGOption { return func(r *pngRenderer) { r.lines = true } }

// RenderPNG rasterizes the layout. Unlike PDF it needs no external tools.
func RenderPNG(l layoutfile.Layout, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{style: styles.Simple{}, scale: 2.0}
	for _, opt := range opts {
		opt(&r)
	}
	if !(r.scale > 0) || r.scale > 16 {
		return nil, fmt.Errorf("png scale must be in (0, 16], got %v", r.scale)
	}

	pal := r.style.Palette()
	w := max(1, int(math.Ceil(float64(l.Width)*r.scale)))
	h := max(1, int(math.Ceil(float64(l.Height)*r.scale)))

	dc := gg.NewContext(w, h)
	dc.SetHexColor(pal.Paper)
	dc.Clear()
	dc.Scale(r.scale, r.scale)

	if r.lines {
		for _, line := range l.Lines {
			dc.DrawRectangle(float64(line.X), float64(line.Y), float64(line.Width), float64(line.Height))
			dc.SetHexColor(pal.Line)
			dc.SetLineWidth(1)
			dc.Stroke()
		}
	}

	blocks := buildBlocks(l, r.labels)
	for _, b := range blocks {
		dc.DrawRectangle(b.X, b.Y, b.W, b.H)
		if fill := fillColor(b, pal); fill != "" {
			dc.SetHexColor(fill)
			dc.FillPreserve()
		}
		dc.SetHexColor(pal.Ink)
		dc.SetLineWidth(1)
		dc.Stroke()
	}
	if r.labels {
		dc.SetHexColor(pal.Ink)
		for _, b := range blocks {
			dc.DrawStringAnchored(styles.TruncateLabel(b), b.CX, b.CY, 0.5, 0.5)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func fillColor(b styles.Block, pal styles.Palette) string {
	if b.Color != "" {
		return b.Color
	}
	return pal.Fill
}

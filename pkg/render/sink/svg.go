package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/flowbox/pkg/layoutfile"
	"github.com/matzehuels/flowbox/pkg/render/styles"
)

const blockInteractionCSS = `
    .block { transition: stroke-width 0.2s ease; }
    .block.highlight { stroke-width: 3; }
    .line.highlight { stroke: #e4572e; stroke-width: 2; }`

const blockInteractionJS = `
    document.querySelectorAll('.block').forEach(el => {
      const line = el.parentNode.dataset.line;
      el.addEventListener('mouseenter', () => {
        el.classList.add('highlight');
        document.querySelectorAll('.line[data-line="' + line + '"]').forEach(l => l.classList.add('highlight'));
      });
      el.addEventListener('mouseleave', () => {
        document.querySelectorAll('.highlight').forEach(h => h.classList.remove('highlight'));
      });
    });`

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style       styles.Style
	labels      bool
	lines       bool
	interactive bool
}

// WithStyle selects the visual style (default styles.Simple).
func WithStyle(s styles.Style) SVGOption { return func(r *svgRenderer) { r.style = s } }

// WithLabels draws box labels, falling back to box IDs.
func WithLabels() SVGOption { return func(r *svgRenderer) { r.labels = true } }

// WithLines draws the slot of every line behind the boxes.
func WithLines() SVGOption { return func(r *svgRenderer) { r.lines = true } }

// WithInteraction adds hover highlighting of a box and its line.
func WithInteraction() SVGOption { return func(r *svgRenderer) { r.interactive = true } }

// RenderSVG renders the layout as a standalone SVG document.
func RenderSVG(l layoutfile.Layout, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	w, h := float64(l.Width), float64(l.Height)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		w, h, w, h)
	fmt.Fprintf(&buf, "  <title>%s</title>\n", styles.EscapeXML(l.Scene))

	r.style.RenderDefs(&buf, w, h)
	if r.lines {
		for i, line := range l.Lines {
			r.style.RenderLine(&buf, styles.Line{
				Index: i,
				X:     float64(line.X), Y: float64(line.Y),
				W: float64(line.Width), H: float64(line.Height),
			})
		}
	}

	blocks := buildBlocks(l, r.labels)
	for i, b := range blocks {
		fmt.Fprintf(&buf, `  <g data-line="%d">`+"\n", l.Blocks[i].Line)
		r.style.RenderBlock(&buf, b)
		buf.WriteString("  </g>\n")
	}
	for _, b := range blocks {
		r.style.RenderText(&buf, b)
	}

	if r.interactive {
		renderBlockInteraction(&buf)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{style: styles.Simple{}}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func renderBlockInteraction(buf *bytes.Buffer) {
	fmt.Fprintf(buf, "  <style>%s\n  </style>\n", blockInteractionCSS)
	fmt.Fprintf(buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", blockInteractionJS)
}

func buildBlocks(l layoutfile.Layout, labels bool) []styles.Block {
	blocks := make([]styles.Block, 0, len(l.Blocks))
	for _, b := range l.Blocks {
		blk := styles.Block{
			ID: b.ID,
			X:  float64(b.X), Y: float64(b.Y),
			W: float64(b.Width), H: float64(b.Height),
			CX: float64(b.X) + float64(b.Width)/2,
			CY: float64(b.Y) + float64(b.Height)/2,
			Color: b.Color,
		}
		if labels {
			blk.Label = b.Label
			if blk.Label == "" {
				blk.Label = b.ID
			}
		}
		blocks = append(blocks, blk)
	}
	return blocks
}

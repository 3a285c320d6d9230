package styles

import (
	"bytes"
	"fmt"
)

// Simple draws outlined boxes on a white page.
type Simple struct{}

func (Simple) Name() string { return "simple" }

func (Simple) Palette() Palette {
	return Palette{Paper: "#ffffff", Line: "#f4f4f4", Ink: "#333333", Fill: "#ffffff"}
}

func (Simple) RenderDefs(buf *bytes.Buffer, width, height float64) {
	fmt.Fprintf(buf, `  <rect x="0" y="0" width="%.2f" height="%.2f" fill="white"/>`+"\n", width, height)
}

func (Simple) RenderLine(buf *bytes.Buffer, l Line) {
	fmt.Fprintf(buf, `  <rect class="line" data-line="%d" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="#f4f4f4" stroke="none"/>`+"\n",
		l.Index, l.X, l.Y, l.W, l.H)
}

func (Simple) RenderBlock(buf *bytes.Buffer, b Block) {
	fill := b.Color
	if fill == "" {
		fill = "white"
	}
	fmt.Fprintf(buf, `  <rect id="block-%s" class="block" x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="2" ry="2" fill="%s" stroke="#333" stroke-width="1"/>`+"\n",
		EscapeXML(b.ID), b.X, b.Y, b.W, b.H, EscapeXML(fill))
}

func (Simple) RenderText(buf *bytes.Buffer, b Block) {
	if b.Label == "" {
		return
	}
	fmt.Fprintf(buf, `  <text class="block-text" data-block="%s" x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="middle" font-family="Helvetica, Arial, sans-serif" font-size="%.1f" fill="#333">%s</text>`+"\n",
		EscapeXML(b.ID), b.CX, b.CY, FontSize(b), EscapeXML(TruncateLabel(b)))
}

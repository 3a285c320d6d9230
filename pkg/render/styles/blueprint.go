package styles

import (
	"bytes"
	"fmt"
)

const (
	blueprintPaper = "#1d4e89"
	blueprintInk   = "#e8f1fb"
	blueprintGrid  = 10.0
)

// Blueprint draws a technical drawing: white ink on blue paper with a grid
// and dashed line slots.
type Blueprint struct{}

func (Blueprint) Name() string { return "blueprint" }

func (Blueprint) Palette() Palette {
	return Palette{Paper: blueprintPaper, Line: blueprintInk, Ink: blueprintInk}
}

func (Blueprint) RenderDefs(buf *bytes.Buffer, width, height float64) {
	buf.WriteString("  <defs>\n")
	fmt.Fprintf(buf, `    <pattern id="grid" width="%.0f" height="%.0f" patternUnits="userSpaceOnUse">`+"\n", blueprintGrid, blueprintGrid)
	fmt.Fprintf(buf, `      <path d="M %.0f 0 L 0 0 0 %.0f" fill="none" stroke="%s" stroke-opacity="0.15" stroke-width="0.5"/>`+"\n",
		blueprintGrid, blueprintGrid, blueprintInk)
	buf.WriteString("    </pattern>\n")
	buf.WriteString("  </defs>\n")
	fmt.Fprintf(buf, `  <rect x="0" y="0" width="%.2f" height="%.2f" fill="%s"/>`+"\n", width, height, blueprintPaper)
	fmt.Fprintf(buf, `  <rect x="0" y="0" width="%.2f" height="%.2f" fill="url(#grid)"/>`+"\n", width, height)
}

func (Blueprint) RenderLine(buf *bytes.Buffer, l Line) {
	fmt.Fprintf(buf, `  <rect class="line" data-line="%d" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="none" stroke="%s" stroke-opacity="0.6" stroke-dasharray="4 3"/>`+"\n",
		l.Index, l.X, l.Y, l.W, l.H, blueprintInk)
}

func (Blueprint) RenderBlock(buf *bytes.Buffer, b Block) {
	fill := "none"
	if b.Color != "" {
		fill = b.Color
	}
	fmt.Fprintf(buf, `  <rect id="block-%s" class="block" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" fill-opacity="0.35" stroke="%s" stroke-width="1.5"/>`+"\n",
		EscapeXML(b.ID), b.X, b.Y, b.W, b.H, EscapeXML(fill), blueprintInk)
}

func (Blueprint) RenderText(buf *bytes.Buffer, b Block) {
	if b.Label == "" {
		return
	}
	fmt.Fprintf(buf, `  <text class="block-text" data-block="%s" x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="middle" font-family="Menlo, Consolas, monospace" font-size="%.1f" fill="%s">%s</text>`+"\n",
		EscapeXML(b.ID), b.CX, b.CY, FontSize(b), blueprintInk, EscapeXML(TruncateLabel(b)))
}

// Package structure draws how a layout was broken into lines: a tree from
// the container through its lines to the boxes on each line, rendered by
// Graphviz.
//
// It is a debugging view. Where the box renderers show the geometry, this
// shows the grouping, and also lists hidden boxes that take no space.
package structure

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/flowbox/pkg/layoutfile"
	"github.com/matzehuels/flowbox/pkg/render"
)

// Options configures structure diagram rendering.
type Options struct {
	// Detailed adds positions and sizes to every label.
	// When false, only names are shown.
	Detailed bool
}

// ToDOT converts a layout to a Graphviz DOT digraph.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
//
// Hidden boxes hang off the container with dashed outlines.
func ToDOT(l layoutfile.Layout, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.2;\n")
	buf.WriteString("\n")

	root := l.Scene
	if opts.Detailed {
		root += fmt.Sprintf("\n%dx%d %s %s", l.Width, l.Height, l.Orientation, l.Direction)
	}
	fmt.Fprintf(&buf, "  %q [label=%q, shape=box3d, fillcolor=\"#dde7f3\"];\n", "container", root)

	blocks := make(map[string]layoutfile.Block, len(l.Blocks))
	for _, b := range l.Blocks {
		blocks[b.ID] = b
	}

	for i, line := range l.Lines {
		lineID := fmt.Sprintf("line:%d", i)
		label := fmt.Sprintf("line %d", i)
		if opts.Detailed {
			label += "\n" + fmtRect(line.X, line.Y, line.Width, line.Height)
		}
		fmt.Fprintf(&buf, "  %q [label=%q, shape=folder, fillcolor=\"#f4f4f4\"];\n", lineID, label)
		fmt.Fprintf(&buf, "  %q -> %q;\n", "container", lineID)

		for _, id := range line.Boxes {
			b := blocks[id]
			fmt.Fprintf(&buf, "  %q [%s];\n", "box:"+id, strings.Join(fmtAttrs(b, id, opts.Detailed), ", "))
			fmt.Fprintf(&buf, "  %q -> %q;\n", lineID, "box:"+id)
		}
	}

	for _, id := range l.Hidden {
		fmt.Fprintf(&buf, "  %q [label=%q, style=\"rounded,filled,dashed\", fillcolor=lightgrey, fontcolor=black];\n",
			"box:"+id, id+"\nhidden")
		fmt.Fprintf(&buf, "  %q -> %q [style=dotted];\n", "container", "box:"+id)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtAttrs(b layoutfile.Block, id string, detailed bool) []string {
	label := id
	if b.Label != "" && b.Label != id {
		label += " (" + b.Label + ")"
	}
	if detailed {
		label += "\n" + fmtRect(b.X, b.Y, b.Width, b.Height)
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if b.Color != "" {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", b.Color))
	}
	return attrs
}

func fmtRect(x, y, w, h int) string {
	return fmt.Sprintf("%d,%d %dx%d", x, y, w, h)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's <svg> header with a plain one whose
// width and height match the viewBox.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(dot string) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}

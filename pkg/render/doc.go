// Package render turns computed flow layouts into images.
//
// # Overview
//
// Renderers consume a [layoutfile.Layout], never a live layout pass, so
// anything that was cached or stored can be drawn again. The package
// provides:
//
//   - Generic format conversion (SVG to PDF/PNG) via rsvg-convert
//   - Box renderers for SVG, PNG and PDF (in [sink])
//   - Visual styles (in [styles])
//   - A line-structure diagram drawn by Graphviz (in [structure])
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). The PNG sink rasterizes
// natively and does not need it.
//
//	svg := sink.RenderSVG(layout, sink.WithLabels())
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// # Structure Diagrams
//
// The [structure] subpackage shows how boxes were broken into lines as a
// container → line → box tree:
//
//	dot := structure.ToDOT(layout, structure.Options{})
//	svg, err := structure.RenderSVG(dot)
//
// [layoutfile.Layout]: github.com/matzehuels/flowbox/pkg/layoutfile#Layout
// [sink]: github.com/matzehuels/flowbox/pkg/render/sink
// [styles]: github.com/matzehuels/flowbox/pkg/render/styles
// [structure]: github.com/matzehuels/flowbox/pkg/render/structure
package render

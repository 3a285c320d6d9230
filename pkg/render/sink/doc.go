// Package sink writes computed layouts to output formats.
//
// # Formats
//
//   - SVG: vector output with optional labels, line slots and hover
//     highlighting ([RenderSVG])
//   - PNG: native raster output drawn with gg ([RenderPNG])
//   - PDF: print-ready output (requires rsvg-convert) ([RenderPDF])
//   - JSON: the serialized layout itself ([RenderJSON])
//
// Every sink takes a [layoutfile.Layout] and functional options:
//
//	svg := sink.RenderSVG(l, sink.WithStyle(styles.Blueprint{}), sink.WithLabels())
//	png, err := sink.RenderPNG(l, sink.WithScale(2), sink.WithPNGLabels())
//
// [layoutfile.Layout]: github.com/matzehuels/flowbox/pkg/layoutfile#Layout
package sink

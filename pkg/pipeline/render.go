package pipeline

import (
	"fmt"

	"github.com/matzehuels/flowbox/pkg/layoutfile"
	"github.com/matzehuels/flowbox/pkg/render/sink"
	"github.com/matzehuels/flowbox/pkg/render/structure"
	"github.com/matzehuels/flowbox/pkg/render/styles"
)

// Render generates output artifacts in the requested formats.
func Render(l layoutfile.Layout, opts Options) (map[string][]byte, error) {
	style, err := styles.Lookup(opts.Style)
	if err != nil {
		return nil, err
	}

	svgOpts := buildSVGOptions(style, opts)
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = sink.RenderSVG(l, svgOpts...)
		case FormatPNG:
			data, err = sink.RenderPNG(l, buildPNGOptions(style, opts)...)
		case FormatPDF:
			data, err = sink.RenderPDF(l, sink.WithPDFSVGOptions(svgOpts...))
		case FormatJSON:
			data, err = sink.RenderJSON(l)
		case FormatDOT:
			data = []byte(structure.ToDOT(l, structure.Options{Detailed: opts.Detailed}))
		case FormatStructure:
			data, err = structure.RenderSVG(structure.ToDOT(l, structure.Options{Detailed: opts.Detailed}))
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// buildSVGOptions builds SVG rendering options.
func buildSVGOptions(style styles.Style, opts Options) []sink.SVGOption {
	svgOpts := []sink.SVGOption{sink.WithStyle(style)}
	if opts.Labels {
		svgOpts = append(svgOpts, sink.WithLabels())
	}
	if opts.Lines {
		svgOpts = append(svgOpts, sink.WithLines())
	}
	if opts.Interactive {
		svgOpts = append(svgOpts, sink.WithInteraction())
	}
	return svgOpts
}

// buildPNGOptions builds native raster options.
func buildPNGOptions(style styles.Style, opts Options) []sink.PNGOption {
	pngOpts := []sink.PNGOption{sink.WithPNGStyle(style)}
	if opts.Scale > 0 {
		pngOpts = append(pngOpts, sink.WithScale(opts.Scale))
	}
	if opts.Labels {
		pngOpts = append(pngOpts, sink.WithPNGLabels())
	}
	if opts.Lines {
		pngOpts = append(pngOpts, sink.WithPNGLines())
	}
	return pngOpts
}

// RenderFromLayoutData renders output from serialized layout data.
// This is useful when the layout was computed elsewhere (e.g., stored).
func RenderFromLayoutData(layoutData []byte, opts Options) (map[string][]byte, error) {
	parsed, err := layoutfile.Unmarshal(layoutData)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	return Render(parsed, opts)
}

package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowbox/pkg/errors"
	"github.com/matzehuels/flowbox/pkg/layoutfile"
	"github.com/matzehuels/flowbox/pkg/pipeline"
)

// extensions maps output formats to file suffixes.
var extensions = map[string]string{
	pipeline.FormatSVG:       ".svg",
	pipeline.FormatPNG:       ".png",
	pipeline.FormatPDF:       ".pdf",
	pipeline.FormatJSON:      ".json",
	pipeline.FormatDOT:       ".dot",
	pipeline.FormatStructure: ".structure.svg",
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [scene|layout.json]",
		Short: "Render a scene or a computed layout",
		Long: `Render a scene or a computed layout.

Given a scene, render runs the layout and renders the result in one step.
Given a *.layout.json file (produced by 'layout'), it renders the stored
frames directly and layout flags are ignored.

Formats:
  svg        vector image (default)
  png        raster image, scaled by --scale
  pdf        vector document (requires rsvg-convert)
  json       the layout file
  dot        Graphviz source of the line structure
  structure  the line structure drawn by Graphviz as SVG`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if err := pipeline.ValidateStyle(opts.Style); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even when cached")
	renderFlags(cmd, &opts, &formatsStr)
	layoutFlags(cmd, &opts)

	return cmd
}

// runRender renders input to every requested format and writes the files.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	spinner := newSpinner(ctx, fmt.Sprintf("Rendering %s...", strings.Join(opts.Formats, ", "))).Start()

	var (
		artifacts map[string][]byte
		boxes     int
		lines     int
		cacheHit  bool
	)
	if isLayoutFile(input) {
		layout, err := layoutfile.ReadFile(input)
		if err != nil {
			spinner.StopWithError("Render failed")
			return fmt.Errorf("load layout %s: %w", input, err)
		}
		artifacts, cacheHit, err = runner.RenderWithCacheInfo(ctx, layout, opts)
		if err != nil {
			spinner.StopWithError("Render failed")
			return fmt.Errorf("render: %w", err)
		}
		boxes, lines = len(layout.Blocks), len(layout.Lines)
	} else {
		opts.Scene = input
		result, err := runner.Execute(ctx, opts)
		if err != nil {
			spinner.StopWithError("Render failed")
			return err
		}
		artifacts = result.Artifacts
		boxes, lines = result.Stats.BoxCount, result.Stats.LineCount
		cacheHit = result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths, err := writeArtifacts(artifacts, opts.Formats, input, output)
	if err != nil {
		return err
	}

	printSuccess("Rendered %s", plural(len(paths), "file", "files"))
	for _, p := range paths {
		printFile(p)
	}
	printStats(boxes, lines, cacheHit)
	return nil
}

// writeArtifacts writes one file per format and returns the paths written,
// sorted. A single format with an explicit output is written to output as
// given; otherwise files are named base + extension.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) ([]string, error) {
	base := basePath(output, input)
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			return nil, errors.New(errors.ErrCodeInternal, "renderer produced no %s output", format)
		}
		path := base + extensions[format]
		if len(formats) == 1 && output != "" {
			path = output
		}
		if filepath.Clean(path) == filepath.Clean(input) {
			return nil, errors.New(errors.ErrCodeInvalidPath, "refusing to overwrite input %s", input)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths, nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input (the whole
// .layout.json suffix for layout files). If output has a format extension,
// it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		if isLayoutFile(input) {
			return input[:len(input)-len(layoutSuffix)]
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	for _, ext := range []string{extensions[pipeline.FormatStructure], ".svg", ".png", ".pdf", ".json", ".dot"} {
		if strings.HasSuffix(output, ext) {
			return strings.TrimSuffix(output, ext)
		}
	}
	return output
}

package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowbox/pkg/layoutfile"
	"github.com/matzehuels/flowbox/pkg/pipeline"
)

// layoutCommand creates the layout command for computing layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout [scene]",
		Short: "Compute the layout of a scene",
		Long: `Compute the layout of a scene.

The layout command reads a scene (TOML, YAML or JSON), runs the flow layout
and writes the placed frames to a layout.json file. The file can be rendered
with 'render' without running the layout again.

Flags override the container settings of the scene. Results are cached
locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even when cached")
	layoutFlags(cmd, &opts)

	return cmd
}

// runLayout loads the scene, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Scene = input
	opts.Logger = c.Logger
	prog := newProgress(c.Logger)

	sc, err := runner.Load(ctx, opts)
	if err != nil {
		return fmt.Errorf("load scene %s: %w", input, err)
	}
	prog.done("loaded scene", "scene", sc.Title(), "boxes", len(sc.Boxes))

	spinner := newSpinner(ctx, "Computing layout...").Start()
	layout, cacheHit, err := runner.ComputeLayoutWithCacheInfo(ctx, sc, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()
	prog.done("computed layout", "lines", len(layout.Lines), "cached", cacheHit)

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = layoutPath(input)
	}
	if err := layoutfile.WriteFile(layout, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete %s", StyleDim.Render(fmt.Sprintf("(%dx%d)", layout.Width, layout.Height)))
	printFile(outputPath)
	printStats(len(layout.Blocks), len(layout.Lines), cacheHit)
	printNewline()
	printNextStep("Render", appName+" render "+outputPath)

	return nil
}

// layoutPath derives the layout file name of a scene file.
func layoutPath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + layoutSuffix
}

const layoutSuffix = ".layout.json"

// isLayoutFile reports whether path names a layout file rather than a scene.
func isLayoutFile(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), layoutSuffix)
}

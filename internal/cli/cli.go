// Package cli implements the flowbox command-line interface.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowbox/pkg/buildinfo"
	"github.com/matzehuels/flowbox/pkg/cache"
	"github.com/matzehuels/flowbox/pkg/observability"
	"github.com/matzehuels/flowbox/pkg/pipeline"
	"github.com/matzehuels/flowbox/pkg/render/styles"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "flowbox"

	// httpCacheDir is the subdirectory of the cache directory that holds
	// responses of the remote commands.
	httpCacheDir = "http"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	verbose bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Flowbox lays out boxes in wrapping lines",
		Long: `Flowbox is a flow layout engine. It places boxes one after another along a
main axis, wraps them into lines when the container runs out of room, and
aligns lines and boxes with gravity and weights.

Scenes are TOML, YAML or JSON documents describing a container and its boxes.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if c.verbose {
				c.SetLogLevel(LogDebug)
				hooks := observability.NewLogHooks(c.Logger)
				observability.SetPipelineHooks(hooks)
				observability.SetCacheHooks(hooks)
			}
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.remoteCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cache, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, versionKeyer(), c.Logger), nil
}

// versionKeyer scopes cache keys to the running build. Layouts cached by
// another version are never read.
func versionKeyer() cache.Keyer {
	return cache.NewScopedKeyer(nil, buildinfo.Version+":")
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/flowbox/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// layoutFlags registers the layout override flags on cmd.
func layoutFlags(cmd *cobra.Command, opts *pipeline.Options) {
	f := cmd.Flags()
	f.IntVar(&opts.Width, "width", 0, "container width, padding included (default: from scene)")
	f.IntVar(&opts.Height, "height", 0, "container height, padding included (default: from scene)")
	f.StringVar(&opts.Orientation, "orientation", "", "horizontal or vertical (default: from scene)")
	f.StringVar(&opts.Direction, "direction", "", "ltr or rtl (default: from scene)")
	f.StringVar(&opts.Gravity, "gravity", "", "container gravity, e.g. center or top|right (default: from scene)")
	f.IntVar(&opts.MaxLines, "max-lines", 0, "maximum number of lines (default: from scene)")
}

// renderFlags registers the render flags on cmd. Formats are read from
// formats and must be parsed with parseFormats.
func renderFlags(cmd *cobra.Command, opts *pipeline.Options, formats *string) {
	f := cmd.Flags()
	f.StringVarP(formats, "format", "f", "", "output format(s): svg (default), png, pdf, json, dot, structure (comma-separated)")
	f.StringVar(&opts.Style, "style", pipeline.DefaultStyle, "visual style: "+strings.Join(styles.Names, ", "))
	f.BoolVar(&opts.Labels, "labels", false, "draw box labels")
	f.BoolVar(&opts.Lines, "lines", false, "outline line slots")
	f.BoolVar(&opts.Interactive, "interactive", false, "add hover titles to SVG blocks")
	f.BoolVar(&opts.Detailed, "detailed", false, "show box sizes in dot and structure output")
	f.Float64Var(&opts.Scale, "scale", pipeline.DefaultScale, "PNG scale factor")
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Package pipeline provides the load → layout → render pipeline for flowbox.
//
// The CLI and the API server both go through this package so a scene
// produces the same layout and the same artifacts regardless of the entry
// point.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read and normalize a scene document (TOML, YAML or JSON)
//  2. Layout: Measure the container and flow its boxes into lines
//  3. Render: Generate output in various formats (SVG, PNG, PDF, JSON, DOT)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Scene:   "toolbar.toml",
//	    Width:   320,
//	    Formats: []string{"svg", "png"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	sc, err := runner.Load(ctx, opts)
//	layout, err := runner.ComputeLayout(ctx, sc, opts)
//	artifacts, err := runner.Render(ctx, layout, opts)
package pipeline

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowbox/pkg/cache"
	"github.com/matzehuels/flowbox/pkg/errors"
	"github.com/matzehuels/flowbox/pkg/flow"
	"github.com/matzehuels/flowbox/pkg/layoutfile"
	"github.com/matzehuels/flowbox/pkg/render/styles"
	"github.com/matzehuels/flowbox/pkg/scene"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultStyle is the default visual style.
	DefaultStyle = "simple"

	// DefaultScale is the default PNG pixel density.
	DefaultScale = 2.0

	// MaxScale bounds the PNG pixel density.
	MaxScale = 16.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	// FormatDOT is the Graphviz source of the line structure diagram.
	FormatDOT = "dot"
	// FormatStructure is the line structure diagram rendered to SVG.
	FormatStructure = "structure"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:       true,
	FormatPNG:       true,
	FormatPDF:       true,
	FormatJSON:      true,
	FormatDOT:       true,
	FormatStructure: true,
}

// ValidStyles is the set of supported visual styles.
var ValidStyles = func() map[string]bool {
	m := make(map[string]bool, len(styles.Names))
	for _, n := range styles.Names {
		m[n] = true
	}
	return m
}()

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options
	Scene          string `json:"-"`                         // Path to a scene file
	Document       string `json:"document,omitempty"`        // Inline scene document
	DocumentFormat string `json:"document_format,omitempty"` // json, toml or yaml
	Refresh        bool   `json:"refresh,omitempty"`

	// Layout overrides; zero values keep what the scene declares.
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
	Orientation string `json:"orientation,omitempty"`
	Direction   string `json:"direction,omitempty"`
	Gravity     string `json:"gravity,omitempty"`
	MaxLines    int    `json:"max_lines,omitempty"`

	// Render options
	Formats     []string `json:"formats,omitempty"`
	Style       string   `json:"style,omitempty"`
	Labels      bool     `json:"labels,omitempty"`
	Lines       bool     `json:"lines,omitempty"`
	Interactive bool     `json:"interactive,omitempty"`
	Detailed    bool     `json:"detailed,omitempty"` // Sizes in the structure diagram
	Scale       float64  `json:"scale,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Scene is the normalized input scene, overrides not applied.
	Scene *scene.Scene

	// SceneHash is the content hash of the normalized scene.
	SceneHash string

	// Layout is the computed layout.
	Layout layoutfile.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	BoxCount    int
	HiddenCount int
	LineCount   int
	LoadTime    time.Duration
	LayoutTime  time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, png, pdf, json, dot, structure)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle checks that a style is valid.
func ValidateStyle(style string) error {
	if !ValidStyles[style] {
		return errors.New(errors.ErrCodeInvalidStyle,
			"invalid style: %q (must be one of: %s)", style, strings.Join(styles.Names, ", "))
	}
	return nil
}

// ValidateScale checks that a PNG scale is within range.
func ValidateScale(scale float64) error {
	if scale <= 0 || scale > MaxScale {
		return errors.New(errors.ErrCodeInvalidInput, "invalid scale: %g (must be in (0, %g])", scale, MaxScale)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks that exactly one scene source is set.
func (o *Options) ValidateForLoad() error {
	switch {
	case o.Scene == "" && o.Document == "":
		return errors.New(errors.ErrCodeInvalidInput, "scene path or document is required")
	case o.Scene != "" && o.Document != "":
		return errors.New(errors.ErrCodeInvalidInput, "scene path and document are mutually exclusive")
	}
	if o.Document != "" && o.DocumentFormat != "" {
		if _, err := scene.ParseFormat(o.DocumentFormat); err != nil {
			return err
		}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates the layout overrides.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if o.Width < 0 || o.Height < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "width and height cannot be negative")
	}
	if o.MaxLines < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max_lines cannot be negative")
	}
	_, err := o.overrides()
	return err
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := ValidateStyle(o.Style); err != nil {
		return err
	}
	return ValidateScale(o.Scale)
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Width:       o.Width,
		Height:      o.Height,
		Orientation: o.Orientation,
		Direction:   o.Direction,
		Gravity:     o.Gravity,
		MaxLines:    o.MaxLines,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
// Options that do not affect a format are left out of its key.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatSVG, FormatPDF:
		k.Style, k.Labels, k.Lines, k.Interactive = o.Style, o.Labels, o.Lines, o.Interactive
	case FormatPNG:
		k.Style, k.Labels, k.Lines, k.Scale = o.Style, o.Labels, o.Lines, o.Scale
	case FormatDOT, FormatStructure:
		k.Detailed = o.Detailed
	}
	return k
}

// override is a parsed set of layout overrides.
type override struct {
	orientation *flow.Orientation
	direction   *flow.Direction
	gravity     *flow.Gravity
}

func (o *Options) overrides() (override, error) {
	var ov override
	if o.Orientation != "" {
		v, err := flow.ParseOrientation(o.Orientation)
		if err != nil {
			return ov, errors.Wrap(errors.ErrCodeInvalidInput, err, "orientation")
		}
		ov.orientation = &v
	}
	if o.Direction != "" {
		v, err := flow.ParseDirection(o.Direction)
		if err != nil {
			return ov, errors.Wrap(errors.ErrCodeInvalidInput, err, "direction")
		}
		ov.direction = &v
	}
	if o.Gravity != "" {
		v, err := flow.ParseGravity(o.Gravity)
		if err != nil {
			return ov, errors.Wrap(errors.ErrCodeInvalidInput, err, "gravity")
		}
		ov.gravity = &v
	}
	return ov, nil
}

// ApplyOverrides returns a copy of sc with the layout overrides applied.
// The boxes are shared with sc.
func (o *Options) ApplyOverrides(sc *scene.Scene) (*scene.Scene, error) {
	ov, err := o.overrides()
	if err != nil {
		return nil, err
	}
	out := *sc
	c := &out.Container
	if o.Width > 0 {
		c.Width = o.Width
	}
	if o.Height > 0 {
		c.Height = o.Height
	}
	if o.MaxLines > 0 {
		c.MaxLines = o.MaxLines
	}
	if ov.orientation != nil {
		c.Orientation = *ov.orientation
	}
	if ov.direction != nil {
		c.Direction = *ov.direction
	}
	if ov.gravity != nil {
		c.Gravity = *ov.gravity
	}
	return &out, nil
}

// source names the scene for logs and hooks.
func (o *Options) source() string {
	src := o.Scene
	if src == "" {
		src = fmt.Sprintf("<%d byte document>", len(o.Document))
	}
	return src
}

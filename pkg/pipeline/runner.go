package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowbox/pkg/cache"
	"github.com/matzehuels/flowbox/pkg/layoutfile"
	"github.com/matzehuels/flowbox/pkg/observability"
	"github.com/matzehuels/flowbox/pkg/scene"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	loadStart := time.Now()
	sc, err := Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Scene = sc
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.BoxCount = len(sc.Boxes)

	r.Logger.Info("loaded scene",
		"scene", sc.Title(),
		"boxes", len(sc.Boxes),
		"duration", result.Stats.LoadTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	layout, hash, layoutHit, err := r.computeLayout(ctx, sc, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.SceneHash = hash
	result.Layout = layout
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.LineCount = len(layout.Lines)
	result.Stats.HiddenCount = len(layout.Hidden)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"lines", len(layout.Lines),
		"blocks", len(layout.Blocks),
		"size", fmt.Sprintf("%dx%d", layout.Width, layout.Height),
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, layout, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load reads the scene named by opts.
func (r *Runner) Load(ctx context.Context, opts Options) (*scene.Scene, error) {
	r.applyLogger(&opts)
	return Load(ctx, opts)
}

// ComputeLayoutWithCacheInfo computes a layout with caching and returns cache hit info.
//
// The cache key combines the hash of the normalized scene with the layout
// overrides in opts. Refresh skips the lookup but still stores the result.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, sc *scene.Scene, opts Options) (layoutfile.Layout, bool, error) {
	l, _, hit, err := r.computeLayout(ctx, sc, opts)
	return l, hit, err
}

func (r *Runner) computeLayout(ctx context.Context, sc *scene.Scene, opts Options) (layoutfile.Layout, string, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return layoutfile.Layout{}, "", false, err
	}
	r.applyLogger(&opts)

	sceneHash, err := SceneHash(sc)
	if err != nil {
		return layoutfile.Layout{}, "", false, err
	}
	cacheKey := r.Keyer.LayoutKey(sceneHash, opts.LayoutKeyOpts())
	cacheHooks := observability.Cache()

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			cached, err := layoutfile.Unmarshal(data)
			if err == nil {
				cacheHooks.OnCacheHit(ctx, "layout")
				return cached, sceneHash, true, nil
			}
			// If deserialization fails, fall through to recompute
			r.Logger.Debug("discarding unreadable cached layout", "key", cacheKey, "error", err)
		}
		cacheHooks.OnCacheMiss(ctx, "layout")
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, sc.Title(), len(sc.Boxes))
	start := time.Now()
	layout, err := ComputeLayout(sc, opts)
	hooks.OnLayoutComplete(ctx, sc.Title(), len(layout.Lines), time.Since(start), err)
	if err != nil {
		return layoutfile.Layout{}, "", false, err
	}

	if data, err := layoutfile.Marshal(layout); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err != nil {
			r.Logger.Warn("cache layout", "error", err)
		} else {
			cacheHooks.OnCacheSet(ctx, "layout", len(data))
		}
	}

	return layout, sceneHash, false, nil
}

// ComputeLayout is a convenience wrapper that calls ComputeLayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, sc *scene.Scene, opts Options) (layoutfile.Layout, error) {
	l, _, err := r.ComputeLayoutWithCacheInfo(ctx, sc, opts)
	return l, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
// The hit is true only when every requested format came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, layout layoutfile.Layout, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// The stored ID does not change the picture.
	keyed := layout
	keyed.ID = ""
	layoutData, err := layoutfile.Marshal(keyed)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)
	cacheHooks := observability.Cache()

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		if opts.Refresh {
			missing = append(missing, format)
			continue
		}
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			cacheHooks.OnCacheHit(ctx, "artifact:"+format)
			artifacts[format] = data
			continue
		}
		cacheHooks.OnCacheMiss(ctx, "artifact:"+format)
		missing = append(missing, format)
	}

	if len(missing) == 0 {
		return artifacts, true, nil
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, missing)
	start := time.Now()
	renderOpts := opts
	renderOpts.Formats = missing
	rendered, err := Render(layout, renderOpts)
	hooks.OnRenderComplete(ctx, missing, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err != nil {
			r.Logger.Warn("cache artifact", "format", format, "error", err)
		} else {
			cacheHooks.OnCacheSet(ctx, "artifact:"+format, len(data))
		}
		artifacts[format] = data
	}

	return artifacts, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, layout layoutfile.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, layout, opts)
	return artifacts, err
}

// SceneHash returns the content hash of a normalized scene. Equivalent
// documents in different formats hash the same.
func SceneHash(sc *scene.Scene) (string, error) {
	data, err := scene.Canonical(sc)
	if err != nil {
		return "", fmt.Errorf("serialize scene for hashing: %w", err)
	}
	return cache.Hash(data), nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/flowbox/pkg/cache"
	"github.com/matzehuels/flowbox/pkg/errors"
	"github.com/matzehuels/flowbox/pkg/observability"
	"github.com/matzehuels/flowbox/pkg/scene"
)

const barDoc = `{
  "name": "bar",
  "container": {"width": 50},
  "boxes": [
    {"id": "a", "label": "Alpha", "width": 20, "height": 10},
    {"id": "b", "width": 20, "height": 10},
    {"id": "c", "width": 20, "height": 10}
  ]
}`

// memCache is an in-memory cache.Cache that counts hits.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	hits int
}

func newMemCache() *memCache { return &memCache{data: make(map[string][]byte)} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	if ok {
		c.hits++
	}
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

var _ cache.Cache = (*memCache)(nil)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"dot", false},
		{"structure", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s, want INVALID_FORMAT", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateStyle(t *testing.T) {
	tests := []struct {
		style   string
		wantErr bool
	}{
		{"simple", false},
		{"blueprint", false},
		{"handdrawn", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateStyle(tt.style)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateStyle(%q) error = %v, wantErr %v", tt.style, err, tt.wantErr)
		}
	}
}

func TestValidateScale(t *testing.T) {
	for _, s := range []float64{0.5, 1, 16} {
		if err := ValidateScale(s); err != nil {
			t.Errorf("ValidateScale(%g) error = %v", s, err)
		}
	}
	for _, s := range []float64{0, -1, 16.5} {
		if err := ValidateScale(s); err == nil {
			t.Errorf("ValidateScale(%g) should fail", s)
		}
	}
}

func TestOptionsValidateForLoad(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateForLoad(); err == nil {
		t.Error("Missing scene should fail")
	}

	opts = Options{Scene: "a.toml", Document: "{}"}
	if err := opts.ValidateForLoad(); err == nil {
		t.Error("Path and document together should fail")
	}

	opts = Options{Document: "{}", DocumentFormat: "xml"}
	if err := opts.ValidateForLoad(); err == nil {
		t.Error("Unknown document format should fail")
	}

	opts = Options{Document: "{}", DocumentFormat: "yml"}
	if err := opts.ValidateForLoad(); err != nil {
		t.Errorf("Valid document options should pass: %v", err)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discarding logger")
	}
}

func TestOptionsValidateForLayout(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"empty", Options{}, false},
		{"all overrides", Options{Width: 10, Height: 5, Orientation: "vertical", Direction: "rtl", Gravity: "center", MaxLines: 2}, false},
		{"negative width", Options{Width: -1}, true},
		{"negative max lines", Options{MaxLines: -2}, true},
		{"bad orientation", Options{Orientation: "diagonal"}, true},
		{"bad direction", Options{Direction: "up"}, true},
		{"bad gravity", Options{Gravity: "sideways"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateForLayout()
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateForLayout() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Document: barDoc}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("First validation failed: %v", err)
	}

	originalStyle := opts.Style
	originalScale := opts.Scale

	// Second call should be idempotent
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Second validation failed: %v", err)
	}
	if opts.Style != originalStyle {
		t.Error("Style changed on second call")
	}
	if opts.Scale != originalScale {
		t.Error("Scale changed on second call")
	}
}

func TestSetRenderDefaults(t *testing.T) {
	opts := Options{}
	opts.SetRenderDefaults()

	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats should be [svg], got %v", opts.Formats)
	}
	if opts.Style != DefaultStyle {
		t.Errorf("Style should be %s, got %s", DefaultStyle, opts.Style)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("Scale should be %g, got %g", DefaultScale, opts.Scale)
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{Style: "blueprint", Labels: true, Scale: 3, Detailed: true}

	svg := opts.ArtifactKeyOpts(FormatSVG)
	if svg.Style != "blueprint" || !svg.Labels || svg.Scale != 0 || svg.Detailed {
		t.Errorf("svg key opts = %+v", svg)
	}
	png := opts.ArtifactKeyOpts(FormatPNG)
	if png.Scale != 3 {
		t.Errorf("png key opts = %+v, want scale 3", png)
	}
	dot := opts.ArtifactKeyOpts(FormatDOT)
	if dot.Style != "" || !dot.Detailed {
		t.Errorf("dot key opts = %+v", dot)
	}
	if json := opts.ArtifactKeyOpts(FormatJSON); json != (cache.ArtifactKeyOpts{Format: FormatJSON}) {
		t.Errorf("json key opts = %+v", json)
	}
}

func TestApplyOverrides(t *testing.T) {
	sc, err := scene.Parse([]byte(barDoc), scene.FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	opts := Options{Width: 70, Orientation: "vertical", Gravity: "center"}
	out, err := opts.ApplyOverrides(sc)
	if err != nil {
		t.Fatalf("ApplyOverrides() error = %v", err)
	}
	if out.Container.Width != 70 || out.Container.Orientation.String() != "vertical" || out.Container.Gravity.String() != "center" {
		t.Errorf("overridden container = %+v", out.Container)
	}
	if sc.Container.Width != 50 || sc.Container.Gravity.IsSet() {
		t.Errorf("original scene was modified: %+v", sc.Container)
	}
}

func TestComputeLayout(t *testing.T) {
	sc, err := scene.Parse([]byte(barDoc), scene.FormatJSON)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name          string
		opts          Options
		width, height int
		lines         int
	}{
		{"scene values", Options{}, 40, 20, 2},
		{"wider", Options{Width: 70}, 60, 10, 1},
		{"max lines", Options{Width: 30, MaxLines: 1}, 30, 10, 1},
		{"vertical", Options{Orientation: "vertical"}, 20, 30, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := ComputeLayout(sc, tt.opts)
			if err != nil {
				t.Fatalf("ComputeLayout() error = %v", err)
			}
			if l.Width != tt.width || l.Height != tt.height {
				t.Errorf("size = %dx%d, want %dx%d", l.Width, l.Height, tt.width, tt.height)
			}
			if len(l.Lines) != tt.lines {
				t.Errorf("lines = %d, want %d", len(l.Lines), tt.lines)
			}
			if l.Scene != "bar" || len(l.Blocks) != 3 {
				t.Errorf("layout = %+v", l)
			}
		})
	}
}

func TestRender(t *testing.T) {
	sc, err := scene.Parse([]byte(barDoc), scene.FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	l, err := ComputeLayout(sc, Options{})
	if err != nil {
		t.Fatal(err)
	}

	opts := Options{Formats: []string{FormatSVG, FormatPNG, FormatJSON, FormatDOT}, Labels: true}
	opts.SetRenderDefaults()
	artifacts, err := Render(l, opts)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if len(artifacts) != 4 {
		t.Fatalf("artifacts = %d, want 4", len(artifacts))
	}
	if !bytes.HasPrefix(artifacts[FormatSVG], []byte("<svg")) || !bytes.Contains(artifacts[FormatSVG], []byte("Alpha")) {
		t.Errorf("svg output unexpected:\n%s", artifacts[FormatSVG])
	}
	if !bytes.HasPrefix(artifacts[FormatPNG], []byte("\x89PNG")) {
		t.Error("png output has no PNG signature")
	}
	if !strings.Contains(string(artifacts[FormatDOT]), "digraph") {
		t.Errorf("dot output unexpected:\n%s", artifacts[FormatDOT])
	}

	back, err := RenderFromLayoutData(artifacts[FormatJSON], Options{Formats: []string{FormatSVG}})
	if err != nil {
		t.Fatalf("RenderFromLayoutData() error = %v", err)
	}
	if len(back[FormatSVG]) == 0 {
		t.Error("RenderFromLayoutData() produced no svg")
	}

	if _, err := Render(l, Options{Style: "chalk", Formats: []string{FormatSVG}}); !errors.Is(err, errors.ErrCodeInvalidStyle) {
		t.Errorf("Render(unknown style) error = %v, want INVALID_STYLE", err)
	}
}

func TestRunnerExecuteCaches(t *testing.T) {
	c := newMemCache()
	r := NewRunner(c, nil, nil)
	ctx := context.Background()
	opts := Options{Document: barDoc, Formats: []string{FormatSVG, FormatJSON}}

	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if first.CacheInfo.LayoutHit || first.CacheInfo.RenderHit {
		t.Errorf("first run cache info = %+v, want misses", first.CacheInfo)
	}
	if first.Stats.BoxCount != 3 || first.Stats.LineCount != 2 || first.Stats.HiddenCount != 0 {
		t.Errorf("Stats = %+v", first.Stats)
	}
	if first.SceneHash == "" {
		t.Error("SceneHash is empty")
	}

	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !second.CacheInfo.LayoutHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run cache info = %+v, want hits", second.CacheInfo)
	}
	if !bytes.Equal(first.Artifacts[FormatSVG], second.Artifacts[FormatSVG]) {
		t.Error("cached svg differs from rendered svg")
	}
	if second.SceneHash != first.SceneHash {
		t.Errorf("SceneHash changed: %s vs %s", second.SceneHash, first.SceneHash)
	}

	// An override changes the layout key.
	wide := opts
	wide.Width = 70
	third, err := r.Execute(ctx, wide)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if third.CacheInfo.LayoutHit || third.Layout.Width != 60 {
		t.Errorf("override run: hit=%v width=%d", third.CacheInfo.LayoutHit, third.Layout.Width)
	}

	refresh := opts
	refresh.Refresh = true
	fourth, err := r.Execute(ctx, refresh)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if fourth.CacheInfo.LayoutHit || fourth.CacheInfo.RenderHit {
		t.Errorf("refresh run cache info = %+v, want misses", fourth.CacheInfo)
	}
}

func TestRunnerRenderPartialHit(t *testing.T) {
	r := NewRunner(newMemCache(), nil, nil)
	ctx := context.Background()
	sc, err := scene.Parse([]byte(barDoc), scene.FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	l, err := r.ComputeLayout(ctx, sc, Options{})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := r.Render(ctx, l, Options{Formats: []string{FormatSVG}}); err != nil {
		t.Fatal(err)
	}
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, l, Options{Formats: []string{FormatSVG, FormatJSON}})
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("json was never rendered, want partial miss")
	}
	if len(artifacts) != 2 {
		t.Errorf("artifacts = %d, want 2", len(artifacts))
	}

	// A stored ID does not change the artifact key.
	l.ID = "0f8fad5b-d9cb-469f-a165-70867728950e"
	if _, hit, _ := r.RenderWithCacheInfo(ctx, l, Options{Formats: []string{FormatSVG, FormatJSON}}); !hit {
		t.Error("layout ID should not affect the artifact cache")
	}
}

func TestRunnerLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "toolbar.toml")
	doc := "[container]\nwidth = 100\n\n[[boxes]]\nwidth = 30\nheight = 10\nrepeat = 4\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := NewRunner(nil, nil, nil).Execute(context.Background(), Options{Scene: path, Formats: []string{FormatJSON}})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.Scene.Name != "toolbar" || res.Stats.BoxCount != 4 {
		t.Errorf("scene = %q with %d boxes", res.Scene.Name, res.Stats.BoxCount)
	}
	if res.Layout.Width != 90 || res.Layout.Height != 20 {
		t.Errorf("layout = %dx%d, want 90x20", res.Layout.Width, res.Layout.Height)
	}

	_, err = NewRunner(nil, nil, nil).Execute(context.Background(), Options{Scene: filepath.Join(t.TempDir(), "none.toml")})
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing scene error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestRunnerExecuteInvalid(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	ctx := context.Background()

	if _, err := r.Execute(ctx, Options{Document: barDoc, Formats: []string{"gif"}}); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("bad format error = %v, want INVALID_FORMAT", err)
	}
	if _, err := r.Execute(ctx, Options{Document: `{"boxes": [{"width": -1, "height": 1}]}`}); !errors.Is(err, errors.ErrCodeInvalidScene) {
		t.Errorf("bad scene error = %v, want INVALID_SCENE", err)
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	mu     sync.Mutex
	events []string
}

func (h *recordingHooks) record(e string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

func (h *recordingHooks) OnLoadStart(context.Context, string) { h.record("load") }
func (h *recordingHooks) OnLayoutStart(context.Context, string, int) {
	h.record("layout")
}
func (h *recordingHooks) OnRenderStart(_ context.Context, formats []string) {
	h.record("render:" + strings.Join(formats, ","))
}

func TestRunnerEmitsPipelineHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	t.Cleanup(observability.Reset)

	r := NewRunner(newMemCache(), nil, nil)
	opts := Options{Document: barDoc, Formats: []string{FormatSVG, FormatDOT}}
	for range 2 {
		if _, err := r.Execute(context.Background(), opts); err != nil {
			t.Fatal(err)
		}
	}

	want := []string{"load", "layout", "render:svg,dot", "load"}
	if strings.Join(hooks.events, " ") != strings.Join(want, " ") {
		t.Errorf("events = %v, want %v", hooks.events, want)
	}
}

package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug-level events
// to a logger. Failures are logged at error level.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks creates hooks writing to logger, or to log.Default() when nil.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{Logger: logger}
}

func (h *LogHooks) OnLoadStart(_ context.Context, source string) {
	h.Logger.Debug("loading scene", "source", source)
}

func (h *LogHooks) OnLoadComplete(_ context.Context, source string, boxCount int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Error("load failed", "source", source, "err", err)
		return
	}
	h.Logger.Debug("loaded scene", "source", source, "boxes", boxCount, "duration", d)
}

func (h *LogHooks) OnLayoutStart(_ context.Context, scene string, boxCount int) {
	h.Logger.Debug("layout start", "scene", scene, "boxes", boxCount)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, scene string, lineCount int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Error("layout failed", "scene", scene, "err", err)
		return
	}
	h.Logger.Debug("layout done", "scene", scene, "lines", lineCount, "duration", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.Logger.Debug("render start", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	if err != nil {
		h.Logger.Error("render failed", "formats", formats, "err", err)
		return
	}
	h.Logger.Debug("render done", "formats", formats, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path string) {
	h.Logger.Debug("request", "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.Logger.Info("response", "method", method, "path", path, "status", status, "duration", d)
}

func (h *LogHooks) OnError(_ context.Context, method, path string, err error) {
	h.Logger.Error("request failed", "method", method, "path", path, "err", err)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)

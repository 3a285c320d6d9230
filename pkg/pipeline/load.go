package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/flowbox/pkg/observability"
	"github.com/matzehuels/flowbox/pkg/scene"
)

// Load reads and normalizes the scene named by opts: the file at
// opts.Scene, or the inline opts.Document (JSON unless DocumentFormat says
// otherwise).
func Load(ctx context.Context, opts Options) (*scene.Scene, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	src := opts.source()
	hooks.OnLoadStart(ctx, src)
	start := time.Now()

	sc, err := load(opts)

	boxes := 0
	if sc != nil {
		boxes = len(sc.Boxes)
	}
	hooks.OnLoadComplete(ctx, src, boxes, time.Since(start), err)
	return sc, err
}

func load(opts Options) (*scene.Scene, error) {
	if opts.Scene != "" {
		return scene.Load(opts.Scene)
	}
	format := scene.FormatJSON
	if opts.DocumentFormat != "" {
		f, err := scene.ParseFormat(opts.DocumentFormat)
		if err != nil {
			return nil, err
		}
		format = f
	}
	return scene.Parse([]byte(opts.Document), format)
}

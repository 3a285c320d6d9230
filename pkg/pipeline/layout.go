package pipeline

import (
	"github.com/matzehuels/flowbox/pkg/host"
	"github.com/matzehuels/flowbox/pkg/layoutfile"
	"github.com/matzehuels/flowbox/pkg/scene"
)

// =============================================================================
// Layout Generation
// =============================================================================

// ComputeLayout applies the overrides in opts to sc, measures the container
// the way a parent view would and exports the result.
//
// The container's outer width and height become the parent constraints, so
// a scene without sizes is measured unspecified on both axes and wraps its
// content.
func ComputeLayout(sc *scene.Scene, opts Options) (layoutfile.Layout, error) {
	work, err := opts.ApplyOverrides(sc)
	if err != nil {
		return layoutfile.Layout{}, err
	}

	cfg := work.Config()
	c := host.NewContainer(cfg, work.FlowBoxes()...)
	c.Measure(
		host.MeasureSpec{Mode: cfg.WidthMode, Size: work.Container.Width},
		host.MeasureSpec{Mode: cfg.HeightMode, Size: work.Container.Height},
	)
	return layoutfile.Export(work, c.Result()), nil
}

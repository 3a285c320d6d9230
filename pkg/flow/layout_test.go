package flow_test

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/matzehuels/flowbox/pkg/flow"
)

// margins used by most scenarios: left 1, top 2, right 3, bottom 4.
var margins = flow.Insets{Left: 1, Top: 2, Right: 3, Bottom: 4}

type LayoutSuite struct {
	suite.Suite
}

func TestLayoutSuite(t *testing.T) {
	suite.Run(t, new(LayoutSuite))
}

func exact(w, h int) flow.Config {
	return flow.Config{MaxWidth: w, MaxHeight: h, WidthMode: flow.Exactly, HeightMode: flow.Exactly}
}

func (s *LayoutSuite) frame(res *flow.Result, i int) flow.Rect {
	r, ok := res.Frame(i)
	s.Require().True(ok, "box %d has no frame", i)
	return r
}

// Two boxes on one line, start aligned.
func (s *LayoutSuite) TestTwoBoxesNoWrap() {
	cfg := exact(70, 80)
	res := flow.Layout(flow.Boxes{
		{Width: 30, Height: 40, Margins: margins},
		{Width: 10, Height: 40, Margins: margins},
	}, cfg)

	s.Require().Len(res.Lines, 1)
	s.Equal(0, res.Items[0].InlineStartLength)
	s.Equal(34, res.Items[1].InlineStartLength)
	s.Equal(flow.XYWH(1, 2, 30, 40), s.frame(res, 0))
	s.Equal(flow.XYWH(35, 2, 10, 40), s.frame(res, 1))
}

// Mirrored version of the two box layout.
func (s *LayoutSuite) TestRightToLeftMirrors() {
	cfg := exact(70, 80)
	cfg.Direction = flow.RTL
	cfg.Gravity = flow.GravityStart
	res := flow.Layout(flow.Boxes{
		{Width: 30, Height: 40, Margins: margins},
		{Width: 10, Height: 40, Margins: margins},
	}, cfg)

	s.Equal(flow.XYWH(37, 2, 30, 40), s.frame(res, 0))
	s.Equal(flow.XYWH(23, 2, 10, 40), s.frame(res, 1))

	cfg.Direction = flow.LTR
	ltr := flow.Layout(flow.Boxes{
		{Width: 30, Height: 40, Margins: margins},
		{Width: 10, Height: 40, Margins: margins},
	}, cfg)
	s.Equal(flow.XYWH(1, 2, 30, 40), s.frame(ltr, 0))
	s.Equal(flow.XYWH(35, 2, 10, 40), s.frame(ltr, 1))
}

func (s *LayoutSuite) TestSingleBoxGravity() {
	tests := []struct {
		name    string
		gravity flow.Gravity
		want    flow.Rect
	}{
		{"left top", flow.GravityLeft.With(flow.GravityTop), flow.XYWH(1, 2, 30, 40)},
		{"right bottom", flow.GravityRight.With(flow.GravityBottom), flow.XYWH(17, 16, 30, 40)},
		{"center", flow.GravityCenter, flow.XYWH(9, 9, 30, 40)},
		{"fill", flow.GravityFill, flow.XYWH(1, 2, 46, 54)},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			cfg := exact(50, 60)
			cfg.Gravity = tt.gravity
			res := flow.Layout(flow.Boxes{{Width: 30, Height: 40, Margins: margins}}, cfg)
			s.Equal(tt.want, s.frame(res, 0))
		})
	}
}

func (s *LayoutSuite) TestBoxGravityOverridesContainer() {
	cfg := exact(50, 60)
	cfg.Gravity = flow.GravityFill
	res := flow.Layout(flow.Boxes{
		{Width: 10, Height: 10, Gravity: flow.GravityBottom},
	}, cfg)

	// Horizontal axis still inherits fill; vertical is bottom aligned.
	s.Equal(flow.XYWH(0, 50, 50, 10), s.frame(res, 0))
}

func (s *LayoutSuite) TestLinesAlignToBottom() {
	cfg := exact(70, 80)
	cfg.Gravity = flow.GravityLeft.With(flow.GravityBottom)
	res := flow.Layout(flow.Boxes{
		{Width: 30, Height: 40, Margins: margins},
		{Width: 10, Height: 20, Margins: margins},
	}, cfg)

	s.Equal(34, res.Lines[0].StartThickness)
	s.Equal(20, res.Items[1].InlineStartThickness)
	s.Equal(36, s.frame(res, 0).Top)
	s.Equal(56, s.frame(res, 1).Top)
}

func (s *LayoutSuite) TestVerticalRelativeGravity() {
	cfg := exact(70, 80)
	cfg.Orientation = flow.Vertical
	cfg.Gravity = flow.GravityStart.With(flow.GravityBottom)
	res := flow.Layout(flow.Boxes{{Width: 30, Height: 40, Margins: margins}}, cfg)

	s.Equal(36, res.Lines[0].StartThickness)
	s.Equal(flow.XYWH(37, 2, 30, 40), s.frame(res, 0))
}

func (s *LayoutSuite) TestVerticalLiteralGravityRotates() {
	cfg := exact(70, 80)
	cfg.Orientation = flow.Vertical
	cfg.Gravity = flow.GravityLeft.With(flow.GravityBottom)
	res := flow.Layout(flow.Boxes{{Width: 30, Height: 40, Margins: margins}}, cfg)

	s.Equal(flow.XYWH(1, 36, 30, 40), s.frame(res, 0))
}

// Nine boxes, two fit per line, at most two lines.
func (s *LayoutSuite) TestMaxLinesOverflowsLastLine() {
	res := flow.Layout(flow.Boxes(squares(9, 10)), flow.Config{
		MaxWidth:  20,
		WidthMode: flow.AtMost,
		MaxLines:  2,
	})

	s.Require().Len(res.Lines, 2)
	s.Len(res.Lines[0].Items, 2)
	s.Len(res.Lines[1].Items, 7)
	s.Equal(20, res.Length, "at most caps the resolved length")
	s.Equal(70, res.ContentLength)
}

// Four 10x10 boxes in a 30x20 filled container: three fit on the first
// line, the lone box of the second line stretches to the full length.
func (s *LayoutSuite) TestFillStretchesLines() {
	cfg := exact(30, 20)
	cfg.Gravity = flow.GravityFill
	res := flow.Layout(flow.Boxes(squares(4, 10)), cfg)

	s.Require().Len(res.Lines, 2)
	s.Equal(10, res.Lines[0].Thickness)
	s.Equal(10, res.Lines[1].Thickness)
	s.Equal(flow.XYWH(20, 0, 10, 10), s.frame(res, 2))
	s.Equal(flow.XYWH(0, 10, 30, 10), s.frame(res, 3))

	cfg = exact(20, 20)
	cfg.Gravity = flow.GravityFill
	res = flow.Layout(flow.Boxes(squares(4, 10)), cfg)
	s.Equal([]flow.Rect{
		flow.XYWH(0, 0, 10, 10),
		flow.XYWH(10, 0, 10, 10),
		flow.XYWH(0, 10, 10, 10),
		flow.XYWH(10, 10, 10, 10),
	}, res.Frames())
}

func (s *LayoutSuite) TestFillCoversThickness() {
	cfg := exact(20, 41)
	cfg.Gravity = flow.GravityFill
	res := flow.Layout(flow.Boxes(squares(4, 10)), cfg)

	s.Require().Len(res.Lines, 2)
	s.Equal(20, res.Lines[0].Thickness)
	s.Equal(21, res.Lines[1].Thickness)
	s.Equal(41, res.Lines[1].End())

	again := flow.Layout(flow.Boxes(squares(4, 10)), cfg)
	s.Equal(res.Frames(), again.Frames(), "passes are independent")
}

func (s *LayoutSuite) TestWeightsSplitExcess() {
	cfg := exact(60, 10)
	cfg.Gravity = flow.GravityFillHorizontal
	res := flow.Layout(flow.Boxes{
		{Width: 10, Height: 10, Weight: flow.Weighted(1)},
		{Width: 10, Height: 10, Weight: flow.Weighted(3)},
	}, cfg)

	s.Equal(flow.XYWH(0, 0, 20, 10), s.frame(res, 0))
	s.Equal(flow.XYWH(20, 0, 40, 10), s.frame(res, 1))
}

func (s *LayoutSuite) TestDefaultWeightApplies() {
	cfg := exact(40, 10)
	cfg.Gravity = flow.GravityFillHorizontal
	cfg.DefaultWeight = 1
	res := flow.Layout(flow.Boxes{
		{Width: 10, Height: 10},
		{Width: 10, Height: 10, Weight: flow.Weighted(0)},
	}, cfg)

	s.Equal(30, s.frame(res, 0).Width())
	s.Equal(10, s.frame(res, 1).Width())
}

func (s *LayoutSuite) TestVerticalRightToLeftStacksLeftwards() {
	res := flow.Layout(flow.Boxes(squares(4, 10)), flow.Config{
		Orientation: flow.Vertical,
		Direction:   flow.RTL,
		MaxHeight:   20,
		HeightMode:  flow.AtMost,
	})

	s.Equal(20, res.Width())
	s.Equal(20, res.Height())
	s.Equal(flow.XYWH(10, 0, 10, 10), s.frame(res, 0))
	s.Equal(flow.XYWH(10, 10, 10, 10), s.frame(res, 1))
	s.Equal(flow.XYWH(0, 0, 10, 10), s.frame(res, 2))
}

func (s *LayoutSuite) TestPaddingOffsetsFrames() {
	cfg := flow.Config{Padding: flow.Insets{Left: 5, Top: 6, Right: 7, Bottom: 8}}
	res := flow.Layout(flow.Boxes{{Width: 10, Height: 4}}, cfg)

	s.Equal(flow.XYWH(5, 6, 10, 4), s.frame(res, 0))
	s.Equal(22, res.Width())
	s.Equal(18, res.Height())
}

func (s *LayoutSuite) TestHiddenBoxesAreSkipped() {
	res := flow.Layout(flow.Boxes{
		{ID: "a", Width: 10, Height: 10},
		{ID: "b", Width: 10, Height: 10, Hidden: true},
		{ID: "c", Width: 10, Height: 10},
	}, flow.Config{})

	_, ok := res.Frame(1)
	s.False(ok)
	s.Equal(flow.XYWH(10, 0, 10, 10), s.frame(res, 2))

	var placed []int
	flow.Commit(res, flow.ConsumerFunc(func(i int, _ flow.Rect) {
		placed = append(placed, i)
	}))
	s.Equal([]int{0, 2}, placed)
}

func (s *LayoutSuite) TestEmptySource() {
	cfg := flow.Config{Padding: flow.Uniform(2), MaxWidth: 50, WidthMode: flow.AtMost}
	res := flow.Layout(flow.Boxes{}, cfg)

	s.Empty(res.Lines)
	s.Zero(res.ContentLength)
	s.Zero(res.ContentThickness)
	s.Equal(4, res.Width())
	s.Equal(4, res.Height())
}

func (s *LayoutSuite) TestExactlyThicknessGrows() {
	cfg := exact(10, 5)
	res := flow.Layout(flow.Boxes(squares(2, 10)), cfg)
	s.Equal(20, res.Thickness)

	cfg.ThicknessPolicy = flow.ThicknessClamp
	res = flow.Layout(flow.Boxes(squares(2, 10)), cfg)
	s.Equal(5, res.Thickness)
}

func TestNegativeInputsClamp(t *testing.T) {
	res := flow.Layout(flow.Boxes{
		{Width: -5, Height: 10, Margins: flow.Insets{Left: -3}, Weight: flow.Weighted(-1)},
	}, flow.Config{MaxWidth: -10, WidthMode: flow.Exactly, MaxLines: -2})

	r, ok := res.Frame(0)
	require.True(t, ok)
	require.Equal(t, flow.XYWH(0, 0, 0, 10), r)
}

// recordingSource logs every BoxAt call.
type recordingSource struct {
	boxes flow.Boxes
	calls []int
}

func (r *recordingSource) Count() int { return len(r.boxes) }

func (r *recordingSource) BoxAt(i int) flow.Box {
	r.calls = append(r.calls, i)
	return r.boxes[i]
}

func TestLayoutReadsSourceOnce(t *testing.T) {
	src := &recordingSource{boxes: flow.Boxes(squares(5, 10))}
	src.boxes[2].Hidden = true
	flow.Layout(src, flow.Config{MaxWidth: 25, WidthMode: flow.AtMost})

	require.Equal(t, []int{0, 1, 2, 3, 4}, src.calls)
}

func TestConcurrentPasses(t *testing.T) {
	cfg := exact(35, 40)
	cfg.Gravity = flow.GravityFill
	want := flow.Layout(flow.Boxes(squares(7, 10)), cfg).Frames()

	var wg sync.WaitGroup
	got := make([][]flow.Rect, 8)
	for i := range got {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got[i] = flow.Layout(flow.Boxes(squares(7, 10)), cfg).Frames()
		}()
	}
	wg.Wait()

	for i := range got {
		require.Equal(t, want, got[i], "pass %d", i)
	}
}

func TestMalformedWeightsKeepFramesValid(t *testing.T) {
	tests := []struct {
		name          string
		weights       []*float64
		defaultWeight float64
		want          []int
	}{
		{"infinite weight", []*float64{flow.Weighted(math.Inf(1))}, 0, []int{70}},
		{"infinite next to finite", []*float64{flow.Weighted(math.Inf(1)), flow.Weighted(1)}, 0, []int{10, 60}},
		{"overflowing sum", []*float64{flow.Weighted(math.MaxFloat64), flow.Weighted(math.MaxFloat64)}, 0, []int{35, 35}},
		{"nan weight", []*float64{flow.Weighted(math.NaN()), flow.Weighted(2)}, 0, []int{10, 60}},
		{"infinite default", []*float64{nil, nil}, math.Inf(1), []int{35, 35}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			boxes := make(flow.Boxes, len(tt.weights))
			for i, w := range tt.weights {
				boxes[i] = flow.Box{Width: 10, Height: 10, Weight: w}
			}
			cfg := exact(70, 10)
			cfg.Gravity = flow.GravityFillHorizontal
			cfg.DefaultWeight = tt.defaultWeight
			res := flow.Layout(boxes, cfg)

			total := 0
			for i, r := range res.Frames() {
				require.Equal(t, tt.want[i], r.Width(), "width of box %d", i)
				require.GreaterOrEqual(t, r.Left, 0)
				total += r.Width()
			}
			require.LessOrEqual(t, total, 70)
		})
	}
}

func squares(n, size int) []flow.Box {
	out := make([]flow.Box, n)
	for i := range out {
		out[i] = flow.Box{Width: size, Height: size}
	}
	return out
}

package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowbox/pkg/errors"
	"github.com/matzehuels/flowbox/pkg/flow"
	"github.com/matzehuels/flowbox/pkg/layoutfile"
	"github.com/matzehuels/flowbox/pkg/pipeline"
	"github.com/matzehuels/flowbox/pkg/scene"
)

// gravityCycle is the order in which the g key steps through container
// gravities. The empty entry keeps the scene's own gravity.
var gravityCycle = []string{"", "start", "center", "end", "fill", "top", "center_vertical", "bottom", "start|bottom", "end|top"}

// blockPalette colors blocks that carry no color of their own.
var blockPalette = []lipgloss.Color{"36", "75", "35", "220", "167", "141", "208", "117"}

var (
	previewHeaderStyle = lipgloss.NewStyle().Foreground(colorGray)
	previewFrameStyle  = lipgloss.NewStyle().Foreground(colorDim)
	previewErrorStyle  = lipgloss.NewStyle().Foreground(colorRed)
)

// previewCommand creates the interactive preview command.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		pxPerCol int
		step     int
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "preview [scene]",
		Short: "Explore a scene layout interactively in the terminal",
		Long: `Explore a scene layout interactively in the terminal.

Boxes are drawn as a character grid, one column per --px pixels and one row
per twice as many. The layout is recomputed on every change.

Keys:
  ←/→ h/l   shrink/grow the container width
  ↑/↓ k/j   shrink/grow the container height
  o         toggle orientation
  d         toggle direction
  g         cycle container gravity
  r         reset to the scene
  q         quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPreview(cmd.Context(), args[0], opts, pxPerCol, step)
		},
	}

	cmd.Flags().IntVar(&pxPerCol, "px", 4, "scene pixels per terminal column")
	cmd.Flags().IntVar(&step, "step", 0, "resize step in pixels (default: 2 columns)")
	layoutFlags(cmd, &opts)

	return cmd
}

func (c *CLI) runPreview(ctx context.Context, input string, opts pipeline.Options, pxPerCol, step int) error {
	if pxPerCol <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "--px must be positive")
	}
	opts.Scene = input
	opts.Logger = c.Logger
	sc, err := pipeline.Load(ctx, opts)
	if err != nil {
		return fmt.Errorf("load scene %s: %w", input, err)
	}

	m, err := newPreviewModel(sc, opts, pxPerCol, step)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// =============================================================================
// previewModel
// =============================================================================

// previewModel is the bubbletea model of the preview command.
type previewModel struct {
	scene *scene.Scene
	base  pipeline.Options
	opts  pipeline.Options

	pxPerCol int
	step     int
	gravity  int

	layout layoutfile.Layout
	err    error

	termWidth  int
	termHeight int
}

func newPreviewModel(sc *scene.Scene, opts pipeline.Options, pxPerCol, step int) (previewModel, error) {
	if step <= 0 {
		step = 2 * pxPerCol
	}
	if err := opts.ValidateForLayout(); err != nil {
		return previewModel{}, err
	}
	m := previewModel{
		scene:      sc,
		base:       opts,
		opts:       opts,
		pxPerCol:   pxPerCol,
		step:       step,
		termWidth:  80,
		termHeight: 24,
	}
	m.relayout()
	if m.err != nil {
		return previewModel{}, m.err
	}
	return m, nil
}

func (m previewModel) Init() tea.Cmd {
	return nil
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			m.opts.Width = max(m.currentWidth()-m.step, 1)
		case "right", "l":
			m.opts.Width = m.currentWidth() + m.step
		case "up", "k":
			m.opts.Height = max(m.currentHeight()-m.step, 1)
		case "down", "j":
			m.opts.Height = m.currentHeight() + m.step
		case "o":
			m.opts.Orientation = toggle(m.layout.Orientation, "horizontal", "vertical")
		case "d":
			m.opts.Direction = toggle(m.layout.Direction, "ltr", "rtl")
		case "g":
			m.gravity = (m.gravity + 1) % len(gravityCycle)
			m.opts.Gravity = gravityCycle[m.gravity]
		case "r":
			m.opts = m.base
			m.gravity = 0
		default:
			return m, nil
		}
		m.relayout()
	case tea.WindowSizeMsg:
		m.termWidth, m.termHeight = msg.Width, msg.Height
	}
	return m, nil
}

func (m previewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.scene.Title()))
	b.WriteString(" ")
	b.WriteString(previewHeaderStyle.Render(m.status()))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("←→ width  ↑↓ height  o orientation  d direction  g gravity  r reset  q quit"))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(previewErrorStyle.Render(errors.UserMessage(m.err)))
		b.WriteString("\n")
		return b.String()
	}

	maxCols := max(m.termWidth-2, 1)
	maxRows := max(m.termHeight-6, 1)
	grid := drawGrid(m.layout, m.pxPerCol, 2*m.pxPerCol)
	b.WriteString(renderGrid(grid, m.layout, maxCols, maxRows))
	return b.String()
}

// status summarizes the current container settings.
func (m previewModel) status() string {
	l := m.layout
	gravity := l.Gravity
	if gravity == "" {
		gravity = flow.Gravity{}.String()
	}
	return fmt.Sprintf("%dx%d · %s · %s · gravity %s · %s",
		l.Width, l.Height, l.Orientation, l.Direction, gravity, plural(len(l.Lines), "line", "lines"))
}

// relayout recomputes the layout for the current options. A failed pass
// keeps the previous layout and records the error for display.
func (m *previewModel) relayout() {
	l, err := pipeline.ComputeLayout(m.scene, m.opts)
	if err != nil {
		m.err = err
		return
	}
	m.layout, m.err = l, nil
}

func (m previewModel) currentWidth() int {
	if m.opts.Width > 0 {
		return m.opts.Width
	}
	return m.layout.Width
}

func (m previewModel) currentHeight() int {
	if m.opts.Height > 0 {
		return m.opts.Height
	}
	return m.layout.Height
}

func toggle(cur, a, b string) string {
	if cur == a {
		return b
	}
	return a
}

// =============================================================================
// Character grid
// =============================================================================

// gridCell is one terminal cell. block is the index into Layout.Blocks, or
// -1 for empty space.
type gridCell struct {
	r     rune
	block int
}

// drawGrid rasterizes the blocks of l into cells of sx by sy pixels. Every
// block covers at least one cell. Blocks are outlined and carry the first
// characters of their label, or their ID when unlabeled.
func drawGrid(l layoutfile.Layout, sx, sy int) [][]gridCell {
	cols := ceilDiv(l.Width, sx)
	rows := ceilDiv(l.Height, sy)
	grid := make([][]gridCell, rows)
	for y := range grid {
		grid[y] = make([]gridCell, cols)
		for x := range grid[y] {
			grid[y][x] = gridCell{r: ' ', block: -1}
		}
	}

	for i, blk := range l.Blocks {
		x0, y0 := blk.X/sx, blk.Y/sy
		x1 := max(ceilDiv(blk.X+blk.Width, sx), x0+1)
		y1 := max(ceilDiv(blk.Y+blk.Height, sy), y0+1)
		x1, y1 = min(x1, cols), min(y1, rows)
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				grid[y][x] = gridCell{r: boxRune(x, y, x0, y0, x1-1, y1-1), block: i}
			}
		}

		name := blk.Label
		if name == "" {
			name = blk.ID
		}
		// The label goes inside the outline when there is room, else over it.
		tx, ty := x0, y0
		if x1-x0 > 2 && y1-y0 > 2 {
			tx, ty = x0+1, y0+1
		}
		for j, r := range []rune(name) {
			if x := tx + j; x < x1-(tx-x0) && ty < rows {
				grid[ty][x].r = r
			}
		}
	}
	return grid
}

func boxRune(x, y, left, top, right, bottom int) rune {
	switch {
	case left == right && top == bottom:
		return '■'
	case (x == left || x == right) && (y == top || y == bottom):
		switch {
		case left == right:
			return '│'
		case top == bottom:
			return '─'
		case x == left && y == top:
			return '┌'
		case x == right && y == top:
			return '┐'
		case x == left:
			return '└'
		default:
			return '┘'
		}
	case y == top || y == bottom:
		return '─'
	case x == left || x == right:
		return '│'
	default:
		return ' '
	}
}

// renderGrid styles grid and clips it to maxCols by maxRows, framing the
// container.
func renderGrid(grid [][]gridCell, l layoutfile.Layout, maxCols, maxRows int) string {
	var b strings.Builder
	rows := min(len(grid), maxRows)
	for y := 0; y < rows; y++ {
		row := grid[y]
		cols := min(len(row), maxCols)
		b.WriteString(previewFrameStyle.Render("┊"))
		start := 0
		for x := 1; x <= cols; x++ {
			if x < cols && row[x].block == row[start].block {
				continue
			}
			seg := make([]rune, 0, x-start)
			for _, c := range row[start:x] {
				seg = append(seg, c.r)
			}
			b.WriteString(blockStyle(l, row[start].block).Render(string(seg)))
			start = x
		}
		b.WriteString(previewFrameStyle.Render("┊"))
		b.WriteString("\n")
	}
	if rows < len(grid) {
		b.WriteString(StyleDim.Render(fmt.Sprintf("… %d more rows", len(grid)-rows)))
		b.WriteString("\n")
	}
	return b.String()
}

func blockStyle(l layoutfile.Layout, i int) lipgloss.Style {
	if i < 0 {
		return lipgloss.NewStyle()
	}
	if c := l.Blocks[i].Color; c != "" {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
	}
	return lipgloss.NewStyle().Foreground(blockPalette[i%len(blockPalette)])
}

func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

package flow

// Orientation is the direction in which boxes are placed before wrapping.
type Orientation uint8

const (
	// Horizontal places boxes in rows that stack downwards.
	Horizontal Orientation = iota
	// Vertical places boxes in columns that stack sideways.
	Vertical
)

// Direction is the writing direction of the container.
type Direction uint8

const (
	LTR Direction = iota
	RTL
)

// Config is the container-wide layout policy. The zero value is a valid
// left-to-right horizontal layout that never wraps.
type Config struct {
	Orientation Orientation
	Direction   Direction

	// Gravity is the default alignment of lines and boxes.
	Gravity Gravity
	// DefaultWeight is the weight of boxes that carry none.
	DefaultWeight float64
	// MaxLines caps the number of lines; zero means unbounded. Once the cap
	// is reached further boxes join the last line.
	MaxLines int

	// Available space, already reduced by Padding.
	MaxWidth   int
	MaxHeight  int
	WidthMode  MeasureMode
	HeightMode MeasureMode

	ThicknessPolicy ThicknessPolicy

	// Padding is added around the content when frames are emitted.
	Padding Insets
}

// Sanitize returns a copy with negative values clamped to zero, a
// non-finite default weight dropped, and unknown enum values replaced by
// their defaults.
func (c Config) Sanitize() Config {
	if c.Orientation > Vertical {
		c.Orientation = Horizontal
	}
	if c.Direction > RTL {
		c.Direction = LTR
	}
	if c.WidthMode > Exactly {
		c.WidthMode = Unspecified
	}
	if c.HeightMode > Exactly {
		c.HeightMode = Unspecified
	}
	if c.ThicknessPolicy > ThicknessClamp {
		c.ThicknessPolicy = ThicknessGrow
	}
	if !usableWeight(c.DefaultWeight) {
		c.DefaultWeight = 0
	}
	c.MaxLines = max(c.MaxLines, 0)
	c.MaxWidth = max(c.MaxWidth, 0)
	c.MaxHeight = max(c.MaxHeight, 0)
	c.Padding = c.Padding.clamp()
	return c
}

// MaxLength returns the available main-axis extent.
func (c Config) MaxLength() int {
	if c.Orientation == Vertical {
		return c.MaxHeight
	}
	return c.MaxWidth
}

// MaxThickness returns the available cross-axis extent.
func (c Config) MaxThickness() int {
	if c.Orientation == Vertical {
		return c.MaxWidth
	}
	return c.MaxHeight
}

// LengthMode returns the measure mode of the main axis.
func (c Config) LengthMode() MeasureMode {
	if c.Orientation == Vertical {
		return c.HeightMode
	}
	return c.WidthMode
}

// ThicknessMode returns the measure mode of the cross axis.
func (c Config) ThicknessMode() MeasureMode {
	if c.Orientation == Vertical {
		return c.WidthMode
	}
	return c.HeightMode
}

// CheckFit reports whether lines wrap at MaxLength.
func (c Config) CheckFit() bool {
	return c.LengthMode() != Unspecified
}

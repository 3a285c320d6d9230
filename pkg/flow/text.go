package flow

import (
	"fmt"
	"strings"
)

// Textual forms are used by scene documents in every format (JSON, TOML,
// YAML) through encoding.TextMarshaler and encoding.TextUnmarshaler.

var (
	measureModeNames = [...]string{Unspecified: "unspecified", AtMost: "at_most", Exactly: "exactly"}
	orientationNames = [...]string{Horizontal: "horizontal", Vertical: "vertical"}
	directionNames   = [...]string{LTR: "ltr", RTL: "rtl"}
	policyNames      = [...]string{ThicknessGrow: "grow", ThicknessClamp: "clamp"}
)

func enumString(names []string, v uint8) string {
	if int(v) < len(names) {
		return names[v]
	}
	return fmt.Sprintf("unknown(%d)", v)
}

func enumParse(kind string, names []string, s string) (uint8, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range names {
		if n == s {
			return uint8(i), nil
		}
	}
	return 0, fmt.Errorf("invalid %s %q (want one of %s)", kind, s, strings.Join(names, ", "))
}

func (m MeasureMode) String() string { return enumString(measureModeNames[:], uint8(m)) }

// ParseMeasureMode parses "unspecified", "at_most" or "exactly". The aliases
// "wrap" (at_most) and "fixed" (exactly) are accepted too.
func ParseMeasureMode(s string) (MeasureMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "content":
		return Unspecified, nil
	case "wrap", "atmost":
		return AtMost, nil
	case "fixed", "exact":
		return Exactly, nil
	}
	v, err := enumParse("measure mode", measureModeNames[:], s)
	return MeasureMode(v), err
}

func (m MeasureMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *MeasureMode) UnmarshalText(b []byte) error {
	v, err := ParseMeasureMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

func (o Orientation) String() string { return enumString(orientationNames[:], uint8(o)) }

// ParseOrientation parses "horizontal" or "vertical".
func ParseOrientation(s string) (Orientation, error) {
	if strings.TrimSpace(s) == "" {
		return Horizontal, nil
	}
	v, err := enumParse("orientation", orientationNames[:], s)
	return Orientation(v), err
}

func (o Orientation) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

func (o *Orientation) UnmarshalText(b []byte) error {
	v, err := ParseOrientation(string(b))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

func (d Direction) String() string { return enumString(directionNames[:], uint8(d)) }

// ParseDirection parses "ltr" or "rtl".
func ParseDirection(s string) (Direction, error) {
	if strings.TrimSpace(s) == "" {
		return LTR, nil
	}
	v, err := enumParse("direction", directionNames[:], s)
	return Direction(v), err
}

func (d Direction) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Direction) UnmarshalText(b []byte) error {
	v, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

func (p ThicknessPolicy) String() string { return enumString(policyNames[:], uint8(p)) }

// ParseThicknessPolicy parses "grow" or "clamp".
func ParseThicknessPolicy(s string) (ThicknessPolicy, error) {
	if strings.TrimSpace(s) == "" {
		return ThicknessGrow, nil
	}
	v, err := enumParse("thickness policy", policyNames[:], s)
	return ThicknessPolicy(v), err
}

func (p ThicknessPolicy) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *ThicknessPolicy) UnmarshalText(b []byte) error {
	v, err := ParseThicknessPolicy(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

var gravityTokens = map[string]Gravity{
	"left":              GravityLeft,
	"right":             GravityRight,
	"start":             GravityStart,
	"end":               GravityEnd,
	"top":               GravityTop,
	"bottom":            GravityBottom,
	"center":            GravityCenter,
	"center_horizontal": GravityCenterHorizontal,
	"center_vertical":   GravityCenterVertical,
	"fill":              GravityFill,
	"fill_horizontal":   GravityFillHorizontal,
	"fill_vertical":     GravityFillVertical,
	"relative":          {Relative: true},
}

// ParseGravity parses a "|"-separated list of gravity tokens such as
// "left|bottom", "start|center_vertical" or "fill". Later tokens override
// earlier ones on the axes they set. "start", "end" and "relative" make the
// gravity relative. "" and "none" yield the unset gravity.
func ParseGravity(s string) (Gravity, error) {
	var g Gravity
	for _, tok := range strings.Split(s, "|") {
		tok = strings.ToLower(strings.TrimSpace(tok))
		if tok == "" || tok == "none" {
			continue
		}
		t, ok := gravityTokens[tok]
		if !ok {
			return Gravity{}, fmt.Errorf("invalid gravity token %q", tok)
		}
		g = g.With(t)
	}
	return g, nil
}

// String returns the canonical text form, which ParseGravity reads back to
// the same value. An unset gravity is "none" whether or not it is relative.
func (g Gravity) String() string {
	if !g.IsSet() {
		return "none"
	}

	var parts []string
	// Only start and end carry the relative flag on their own.
	if g.Relative && g.Horizontal != AxisStart && g.Horizontal != AxisEnd {
		parts = append(parts, "relative")
	}
	if g.Horizontal == g.Vertical {
		switch g.Horizontal {
		case AxisCenter:
			return strings.Join(append(parts, "center"), "|")
		case AxisFill:
			return strings.Join(append(parts, "fill"), "|")
		}
	}

	switch g.Horizontal {
	case AxisStart:
		parts = append(parts, pickName(g.Relative, "start", "left"))
	case AxisEnd:
		parts = append(parts, pickName(g.Relative, "end", "right"))
	case AxisCenter:
		parts = append(parts, "center_horizontal")
	case AxisFill:
		parts = append(parts, "fill_horizontal")
	}
	switch g.Vertical {
	case AxisStart:
		parts = append(parts, "top")
	case AxisEnd:
		parts = append(parts, "bottom")
	case AxisCenter:
		parts = append(parts, "center_vertical")
	case AxisFill:
		parts = append(parts, "fill_vertical")
	}
	return strings.Join(parts, "|")
}

func pickName(relative bool, rel, abs string) string {
	if relative {
		return rel
	}
	return abs
}

func (g Gravity) MarshalText() ([]byte, error) {
	if !g.IsSet() {
		return []byte{}, nil
	}
	return []byte(g.String()), nil
}

func (g *Gravity) UnmarshalText(b []byte) error {
	v, err := ParseGravity(string(b))
	if err != nil {
		return err
	}
	*g = v
	return nil
}

var axisNames = [...]string{AxisUnset: "unset", AxisStart: "start", AxisEnd: "end", AxisCenter: "center", AxisFill: "fill"}

func (g AxisGravity) String() string { return enumString(axisNames[:], uint8(g)) }

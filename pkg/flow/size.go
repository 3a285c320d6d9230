package flow

// MeasureMode is the policy used to resolve one container extent from an
// available maximum and the extent of the content.
type MeasureMode uint8

const (
	// Unspecified lets the content decide the extent.
	Unspecified MeasureMode = iota
	// AtMost uses the content extent, capped at the maximum.
	AtMost
	// Exactly uses the maximum regardless of the content.
	Exactly
)

// ResolveSize resolves a container extent. Unknown modes behave like
// [Unspecified].
func ResolveSize(mode MeasureMode, maximum, content int) int {
	switch mode {
	case AtMost:
		return min(content, maximum)
	case Exactly:
		return maximum
	default:
		return content
	}
}

// ThicknessPolicy selects how an [Exactly] cross-axis extent is resolved.
// The main axis always follows [ResolveSize].
type ThicknessPolicy uint8

const (
	// ThicknessGrow resolves an Exactly thickness to max(content, maximum),
	// so overflowing lines are never cut off.
	ThicknessGrow ThicknessPolicy = iota
	// ThicknessClamp resolves the thickness with [ResolveSize].
	ThicknessClamp
)

func (p ThicknessPolicy) resolve(mode MeasureMode, maximum, content int) int {
	if mode == Exactly && p == ThicknessGrow {
		return max(content, maximum)
	}
	return ResolveSize(mode, maximum, content)
}

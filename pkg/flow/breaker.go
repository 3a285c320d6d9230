package flow

import "slices"

// FillLines greedily breaks items into lines.
//
// A new line is started when an item asks for one, or when cfg.CheckFit()
// holds and the item does not fit the current line. No break is taken on an
// empty line, so an oversize item still gets a line of its own and no line
// is ever empty. Once cfg.MaxLines lines exist, remaining items are added
// to the last one regardless of fit.
//
// In horizontal right-to-left layouts items are prepended to their line;
// in vertical right-to-left layouts new lines are prepended to the list.
// The returned slice is therefore always in cross-axis order.
func FillLines(items []*Item, cfg Config) []*Line {
	if len(items) == 0 {
		return nil
	}

	var (
		checkFit   = cfg.CheckFit()
		maxLength  = cfg.MaxLength()
		prependIt  = cfg.Orientation == Horizontal && cfg.Direction == RTL
		prependRow = cfg.Orientation == Vertical && cfg.Direction == RTL
	)

	current := &Line{}
	lines := []*Line{current}
	for _, it := range items {
		wrap := it.NewLine || (checkFit && !current.CanFit(it, maxLength))
		capped := cfg.MaxLines > 0 && len(lines) >= cfg.MaxLines
		if wrap && !capped && len(current.Items) > 0 {
			current = &Line{}
			if prependRow {
				lines = slices.Insert(lines, 0, current)
			} else {
				lines = append(lines, current)
			}
		}
		if prependIt {
			current.Prepend(it)
		} else {
			current.Append(it)
		}
	}
	return lines
}

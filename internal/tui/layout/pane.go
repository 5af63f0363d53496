package layout

// SplitLayout holds the widths of the list and preview panes.
type SplitLayout struct {
	ListWidth    int
	PreviewWidth int
}

// CalculatePaneHeight computes the content height for panes.
// Returns at least MinHeight.
func CalculatePaneHeight(terminalHeight int, cfg PaneConfig) int {
	height := terminalHeight - cfg.HeightReduction
	if height < cfg.MinHeight {
		return cfg.MinHeight
	}
	return height
}

// CalculateSplit divides the terminal width between the list and preview panes.
func CalculateSplit(terminalWidth int, cfg PaneConfig) SplitLayout {
	usable := terminalWidth - cfg.SplitWidthOffset

	list := usable * cfg.ListWidthPercent / 100
	if list < cfg.MinListWidth {
		list = cfg.MinListWidth
	}
	preview := usable - list
	if preview < cfg.MinPreviewWidth {
		preview = cfg.MinPreviewWidth
	}

	return SplitLayout{ListWidth: list, PreviewWidth: preview}
}

// CalculateItemWidth computes the width available for item content.
func CalculateItemWidth(paneWidth int, cfg PaneConfig) int {
	w := paneWidth - cfg.ContentPadding
	if w < 1 {
		return 1
	}
	return w
}

// CalculateVisibleHeight computes the visible item count in a pane.
func CalculateVisibleHeight(paneHeight, headerLines int) int {
	height := paneHeight - headerLines
	if height < 1 {
		return 1
	}
	return height
}

// CalculateViewportOffset calculates the scroll offset needed to keep the
// selected item visible within the viewport.
func CalculateViewportOffset(selected, total, viewportHeight int) int {
	if total <= viewportHeight {
		return 0
	}

	// Keep selection roughly centered, but clamp to valid range
	offset := selected - viewportHeight/2
	if offset < 0 {
		offset = 0
	}

	maxOffset := total - viewportHeight
	if offset > maxOffset {
		offset = maxOffset
	}

	return offset
}

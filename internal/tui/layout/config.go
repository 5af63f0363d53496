package layout

// LayoutConfig holds all layout-related configuration values.
type LayoutConfig struct {
	Pane  PaneConfig
	Modal ModalConfig
	Input InputConfig
	Text  TextConfig
}

// PaneConfig holds pane dimension configuration.
type PaneConfig struct {
	// HeightReduction is subtracted from terminal height for pane content.
	// Accounts for: app padding (1) + header (1) + filter bar (2) + pane borders (2) + help bar (3) = 9
	HeightReduction int

	// MinHeight is the minimum pane height.
	MinHeight int

	// ListWidthPercent is the share of the width given to the entry list.
	// The preview pane takes the rest.
	ListWidthPercent int

	// SplitWidthOffset is subtracted before splitting.
	// Accounts for borders and app padding of both panes.
	SplitWidthOffset int

	// MinListWidth and MinPreviewWidth clamp the split.
	MinListWidth    int
	MinPreviewWidth int

	// ContentPadding is subtracted from pane width for item rendering.
	// Accounts for pane border/padding on each side.
	ContentPadding int
}

// ModalConfig holds modal dialog configuration.
type ModalConfig struct {
	// WidthPercent is the modal width as percentage of terminal width.
	WidthPercent int

	// MinWidth is the minimum modal width in characters.
	MinWidth int

	// MaxWidth is the maximum modal width in characters.
	MaxWidth int
}

// InputConfig holds text input configuration.
type InputConfig struct {
	KeywordCharLimit int
	KeywordWidth     int
}

// TextConfig holds text truncation configuration.
type TextConfig struct {
	// Ellipsis is the string used to indicate truncation.
	Ellipsis string
}

// DefaultConfig returns the default layout configuration.
func DefaultConfig() LayoutConfig {
	return LayoutConfig{
		Pane: PaneConfig{
			HeightReduction:  9,
			MinHeight:        5,
			ListWidthPercent: 45,
			SplitWidthOffset: 8,
			MinListWidth:     24,
			MinPreviewWidth:  20,
			ContentPadding:   4,
		},
		Modal: ModalConfig{
			WidthPercent: 40,
			MinWidth:     40,
			MaxWidth:     70,
		},
		Input: InputConfig{
			KeywordCharLimit: 100,
			KeywordWidth:     30,
		},
		Text: TextConfig{
			Ellipsis: "...",
		},
	}
}

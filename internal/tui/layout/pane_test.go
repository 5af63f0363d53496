package layout

import "testing"

func TestCalculatePaneHeight(t *testing.T) {
	cfg := DefaultConfig().Pane

	tests := []struct {
		name   string
		height int
		want   int
	}{
		{"normal terminal", 24, 15},
		{"tall terminal", 50, 41},
		{"tiny terminal clamps to min", 8, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculatePaneHeight(tt.height, cfg); got != tt.want {
				t.Errorf("CalculatePaneHeight(%d) = %d, want %d", tt.height, got, tt.want)
			}
		})
	}
}

func TestCalculateSplit(t *testing.T) {
	cfg := DefaultConfig().Pane

	tests := []struct {
		name        string
		width       int
		wantList    int
		wantPreview int
	}{
		{"80 columns", 80, 32, 40},
		{"120 columns", 120, 50, 62},
		{"narrow clamps both", 40, 24, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateSplit(tt.width, cfg)
			if got.ListWidth != tt.wantList || got.PreviewWidth != tt.wantPreview {
				t.Errorf("CalculateSplit(%d) = %+v, want list %d preview %d",
					tt.width, got, tt.wantList, tt.wantPreview)
			}
		})
	}
}

func TestCalculateItemWidth(t *testing.T) {
	cfg := DefaultConfig().Pane
	if got := CalculateItemWidth(30, cfg); got != 26 {
		t.Errorf("CalculateItemWidth(30) = %d, want 26", got)
	}
	if got := CalculateItemWidth(2, cfg); got != 1 {
		t.Errorf("CalculateItemWidth(2) = %d, want 1", got)
	}
}

func TestCalculateVisibleHeight(t *testing.T) {
	if got := CalculateVisibleHeight(10, 2); got != 8 {
		t.Errorf("CalculateVisibleHeight(10, 2) = %d, want 8", got)
	}
	if got := CalculateVisibleHeight(1, 3); got != 1 {
		t.Errorf("CalculateVisibleHeight(1, 3) = %d, want 1", got)
	}
}

func TestCalculateViewportOffset(t *testing.T) {
	tests := []struct {
		name     string
		selected int
		total    int
		viewport int
		want     int
	}{
		{"everything fits", 3, 5, 10, 0},
		{"near top", 2, 30, 10, 0},
		{"centered", 15, 30, 10, 10},
		{"clamped at bottom", 29, 30, 10, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateViewportOffset(tt.selected, tt.total, tt.viewport)
			if got != tt.want {
				t.Errorf("CalculateViewportOffset(%d, %d, %d) = %d, want %d",
					tt.selected, tt.total, tt.viewport, got, tt.want)
			}
		})
	}
}

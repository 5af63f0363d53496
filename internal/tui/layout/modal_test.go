package layout

import "testing"

func TestCalculateModalWidth(t *testing.T) {
	cfg := DefaultConfig().Modal

	tests := []struct {
		name  string
		width int
		want  int
	}{
		{"standard terminal uses min", 80, 40},
		{"wide terminal uses percent", 150, 60},
		{"very wide clamps to max", 300, 70},
		{"narrow terminal leaves margin", 30, 26},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculateModalWidth(tt.width, cfg); got != tt.want {
				t.Errorf("CalculateModalWidth(%d) = %d, want %d", tt.width, got, tt.want)
			}
		})
	}
}

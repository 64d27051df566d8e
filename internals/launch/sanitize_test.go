package launch

import "testing"

func TestSanitizeValue(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain name untouched", "Steve", "Steve"},
		{"newline stripped", "Ste\nve", "Steve"},
		{"carriage return and tab stripped", "Ste\r\tve", "Steve"},
		{"delete char stripped", "Steve\x7f", "Steve"},
		{"expansion chars stripped", "${injected}", "injected"},
		{"quotes stripped", `"Ste've"` + "`", "Steve"},
		{"unicode survives", "Стив⛏", "Стив⛏"},
		{"dashes and dots survive", "a-b.c_d", "a-b.c_d"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeValue(tt.in); got != tt.want {
				t.Errorf("sanitizeValue(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

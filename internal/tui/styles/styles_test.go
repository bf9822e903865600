package styles

import "testing"

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"Alien", 10, "Alien"},
		{"The Dark Knight", 8, "The D..."},
		{"Amélie Poulain", 9, "Amélie..."},
		{"Heat", 2, "He"},
		{"Heat", 0, ""},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestRenderStars(t *testing.T) {
	tests := map[float64]string{
		0:    "☆☆☆☆☆",
		4.1:  "★★★★☆",
		3.75: "★★★★☆",
		3.6:  "★★★⯪☆",
		5:    "★★★★★",
		7:    "★★★★★",
	}
	for in, want := range tests {
		if got := RenderStars(in); got != want {
			t.Errorf("RenderStars(%v) = %q, want %q", in, got, want)
		}
	}
}

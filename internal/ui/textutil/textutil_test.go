package textutil

import "testing"

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"Capitals", 20, "Capitals"},
		{"World Rivers", 6, "World…"},
		{"日本の首都", 5, "日本…"},
		{"anything", 0, ""},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
		if w := Width(Truncate(tt.in, tt.max)); w > tt.max {
			t.Errorf("Truncate(%q, %d) is %d columns wide", tt.in, tt.max, w)
		}
	}
}

func TestPadRight(t *testing.T) {
	if got := PadRight("ab", 4); got != "ab  " {
		t.Errorf("PadRight = %q", got)
	}
	if got := Width(PadRight("日本の首都です", 6)); got != 6 {
		t.Errorf("PadRight width = %d, want 6", got)
	}
}

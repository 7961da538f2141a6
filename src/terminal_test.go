package qabalah

import "testing"

func TestDetectANSISupport(t *testing.T) {
	t.Setenv("COLORTERM", "")
	t.Setenv("WT_SESSION", "")

	tests := []struct {
		term string
		want bool
	}{
		{"dumb", false},
		{"xterm-256color", true},
		{"foot", true},
		{"", false},
	}
	for _, tt := range tests {
		if got := detectANSISupport(tt.term); got != tt.want {
			t.Errorf("detectANSISupport(%q): expected %v, got %v", tt.term, tt.want, got)
		}
	}

	t.Setenv("COLORTERM", "truecolor")
	if !detectANSISupport("") {
		t.Error("Expected COLORTERM to enable color without TERM")
	}
}

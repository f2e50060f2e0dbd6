package common

import "testing"

func TestHasAny(t *testing.T) {
	tests := []struct {
		s    string
		subs []string
		want bool
	}{
		{"light rain", []string{"snow", "rain"}, true},
		{"clear sky", []string{"rain"}, false},
		{"clear sky", []string{""}, false},
		{"", nil, false},
	}

	for _, tt := range tests {
		if got := HasAny(tt.s, tt.subs...); got != tt.want {
			t.Errorf("HasAny(%q, %q) = %v, want %v", tt.s, tt.subs, got, tt.want)
		}
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := FirstNonEmpty("", "  ", "clouds", "rain"); got != "clouds" {
		t.Errorf("FirstNonEmpty = %q, want clouds", got)
	}
	if got := FirstNonEmpty(" ", ""); got != "" {
		t.Errorf("FirstNonEmpty = %q, want empty", got)
	}
}

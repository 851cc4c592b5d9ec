package main

import "testing"

func TestIsExit(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"exit", true},
		{"EXIT", true},
		{"Exit", true},
		{"eXiT", true},
		{"exit now", false},
		{"quit", false},
		{"", false},
		{"what is exit velocity?", false},
	}

	for _, tt := range tests {
		if got := isExit(tt.line); got != tt.want {
			t.Errorf("isExit(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

package main

import (
	"reflect"
	"testing"
)

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantGlobals []string
		wantSub     string
		wantSubArgs []string
	}{
		{
			name:        "plain subcommand",
			args:        []string{"ingest"},
			wantGlobals: []string{},
			wantSub:     "ingest",
			wantSubArgs: []string{},
		},
		{
			name:        "global flags before subcommand",
			args:        []string{"-config", "c.yaml", "-library", "/docs", "ingest", "-force"},
			wantGlobals: []string{"-config", "c.yaml", "-library", "/docs"},
			wantSub:     "ingest",
			wantSubArgs: []string{"-force"},
		},
		{
			name:        "flags after subcommand stay with it",
			args:        []string{"search", "q", "-k", "10", "-v"},
			wantGlobals: []string{},
			wantSub:     "search",
			wantSubArgs: []string{"q", "-k", "10", "-v"},
		},
		{
			name:        "help after subcommand stays with it",
			args:        []string{"ask", "-h"},
			wantGlobals: []string{},
			wantSub:     "ask",
			wantSubArgs: []string{"-h"},
		},
		{
			name:        "no subcommand",
			args:        []string{"-version"},
			wantGlobals: []string{"-version"},
			wantSub:     "",
			wantSubArgs: nil,
		},
		{
			name:        "flag value matching a subcommand name is skipped",
			args:        []string{"unknown-thing"},
			wantGlobals: []string{"unknown-thing"},
			wantSub:     "",
			wantSubArgs: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			globals, sub, subArgs := splitArgs(tt.args)
			if !equalArgs(globals, tt.wantGlobals) {
				t.Errorf("globals = %v, want %v", globals, tt.wantGlobals)
			}
			if sub != tt.wantSub {
				t.Errorf("subcommand = %q, want %q", sub, tt.wantSub)
			}
			if !equalArgs(subArgs, tt.wantSubArgs) {
				t.Errorf("subArgs = %v, want %v", subArgs, tt.wantSubArgs)
			}
		})
	}
}

func equalArgs(got, want []string) bool {
	if len(got) == 0 && len(want) == 0 {
		return true
	}
	return reflect.DeepEqual(got, want)
}

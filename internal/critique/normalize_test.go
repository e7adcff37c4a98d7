package critique_test

import (
	"testing"

	"github.com/kodevadam/crucible/internal/critique"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  Hello   World  ", "hello world"},
		{"SQL Injection Vulnerability.", "sql injection vulnerability"},
		{"trailing punctuation!?", "trailing punctuation"},
		{"keep; internal, punctuation: here", "keep; internal, punctuation: here"},
		{"\tTabs\nand\nnewlines\t", "tabs and newlines"},
		{"", ""},
		{"a .", "a"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := critique.Normalize(tt.input)
			if got != tt.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"  Multiple   Spaces and CAPS!!  ",
		"already normal",
		"Trailing.,;:!?",
		"a .",
	}
	for _, in := range inputs {
		once := critique.Normalize(in)
		twice := critique.Normalize(once)
		if once != twice {
			t.Fatalf("Normalize not idempotent for %q: once=%q twice=%q", in, once, twice)
		}
	}
}

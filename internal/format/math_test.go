// Copyright Neuromechanist Labs, 2025. All rights reserved.

package format

import (
	"strings"
	"testing"
)

func TestNormalizeMathDelimiters(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "escaped inline to dollars",
			content: `This is \(E = mc^2\) inline math.`,
			want:    "$E = mc^2$",
		},
		{
			name:    "doubled backslash inline",
			content: `This is \\(E = mc^2\\) inline math.`,
			want:    "$E = mc^2$",
		},
		{
			name:    "escaped display to double dollars",
			content: `Display math: \[F = ma\]`,
			want:    "$$\nF = ma\n$$",
		},
		{
			name:    "split double dollars collapse",
			content: `$ $x = y$ $`,
			want:    "$$\nx = y\n$$",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeMathDelimiters(tt.content)
			if !strings.Contains(got, tt.want) {
				t.Errorf("normalizeMathDelimiters(%q) = %q, want substring %q", tt.content, got, tt.want)
			}
		})
	}
}

func TestNormalizeMathDelimiters_DisplayOwnLine(t *testing.T) {
	got := normalizeMathDelimiters("before $$x = y$$ after")
	if !strings.Contains(got, "\n$$") {
		t.Errorf("display math should start on its own line, got %q", got)
	}
	if !strings.Contains(got, "$$\n") {
		t.Errorf("display math should end on its own line, got %q", got)
	}
}

func TestSpaceOperators_BraceDepth(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"negative subscript untouched", "$E_{-1}$", "$E_{-1}$"},
		{"operator inside superscript untouched", "$x^{2+3}$", "$x^{2+3}$"},
		{"top level operators spaced", "$a+b=c$", "$a + b = c$"},
		{"mixed depth", "$a+b_{c-d}+e$", "$a + b_{c-d}+e$"},
		{"unary minus untouched", "$-x$", "$-x$"},
		{"already spaced stable", "$a + b$", "$a + b$"},
		{"display math untouched", "$$a+b$$", "$$a+b$$"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := enhanceInlineMath(tt.in); got != tt.want {
				t.Errorf("enhanceInlineMath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFixMathArtifacts(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"superscript", "the formula x ^ 2 here", "the formula x^{2} here"},
		{"subscript", "the variable x _ 1 here", "the variable x_{1} here"},
		{"fraction whitespace", `\frac{ a }{ b }`, `\frac{a}{b}`},
		{"sqrt whitespace", `\sqrt{ x + y }`, `\sqrt{x + y}`},
		{"sum bounds whitespace", `\sum _ { i=1 } ^ { n }`, `\sum_{i=1}^{n}`},
		{"well formed untouched", `x^{2} + \frac{a}{b}`, `x^{2} + \frac{a}{b}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fixMathArtifacts(tt.in); got != tt.want {
				t.Errorf("fixMathArtifacts(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeMath_Idempotent(t *testing.T) {
	inputs := []string{
		`Inline \(a+b\) and display \[x = y\] together.`,
		"$E_{-1}$ stays, $a+b=c$ gets spaced.",
		"broken x ^ 2 and x _ 1 and \\frac{ p }{ q }",
		"$ $collapsed$ $ display",
		"plain prose with no math at all",
		"price is $5 and $10 in a sentence",
	}

	for _, in := range inputs {
		once := NormalizeMath(in)
		twice := NormalizeMath(once)
		if once != twice {
			t.Errorf("NormalizeMath not idempotent:\n input: %q\n  once: %q\n twice: %q", in, once, twice)
		}
	}
}

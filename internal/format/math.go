// Copyright Neuromechanist Labs, 2025. All rights reserved.

package format

import (
	"regexp"
	"strings"
)

var (
	// OCR emits inline math as \(...\), sometimes with doubled backslashes.
	inlineEscapeRe  = regexp.MustCompile(`\\?\\\(([^)]+)\\?\\\)`)
	displayEscapeRe = regexp.MustCompile(`\\?\\\[([^\]]+)\\?\\\]`)

	// A stray "$ $...$ $" is a mangled display block.
	splitDisplayRe = regexp.MustCompile(`\$\s*\$([^$]+)\$\s*\$`)

	// Display math gets its own line.
	displayLeadRe  = regexp.MustCompile(`([^\n])\$\$`)
	displayTrailRe = regexp.MustCompile(`\$\$([^\n])`)

	// mathSpanRe matches display spans first so operator spacing is only
	// ever applied to genuine inline spans.
	mathSpanRe = regexp.MustCompile(`\$\$[^$]*\$\$|\$[^$\n]+\$`)
)

// mathCorrection is one declarative repair rule for OCR artifacts in
// math expressions. The rules do not overlap, so application order does
// not matter; they are kept in a fixed list so each is testable on its
// own.
type mathCorrection struct {
	pattern *regexp.Regexp
	replace string
}

var mathCorrections = []mathCorrection{
	// x ^ 2 -> x^{2}
	{regexp.MustCompile(`([a-zA-Z])\s*\^\s*([0-9]+)`), `$1^{$2}`},
	// x _ 1 -> x_{1}
	{regexp.MustCompile(`([a-zA-Z])\s*_\s*([0-9]+)`), `$1_{$2}`},
	// whitespace inside \frac arguments
	{regexp.MustCompile(`\\frac\s*\{\s*([^}]+?)\s*\}\s*\{\s*([^}]+?)\s*\}`), `\frac{$1}{$2}`},
	// whitespace inside \sqrt
	{regexp.MustCompile(`\\sqrt\s*\{\s*([^}]+?)\s*\}`), `\sqrt{$1}`},
	// whitespace inside \sum bounds
	{regexp.MustCompile(`\\sum\s*_\s*\{\s*([^}]+?)\s*\}\s*\^\s*\{\s*([^}]+?)\s*\}`), `\sum_{$1}^{$2}`},
}

// NormalizeMath canonicalizes math delimiters, spaces inline operators,
// and repairs common OCR artifacts. It never alters the semantic content
// of an equation, and running it on its own output is a no-op.
func NormalizeMath(content string) string {
	content = normalizeMathDelimiters(content)
	content = enhanceInlineMath(content)
	content = fixMathArtifacts(content)
	return content
}

// normalizeMathDelimiters converts every recognized delimiter style to
// $...$ (inline) or $$...$$ (display) and forces display math onto its
// own line.
func normalizeMathDelimiters(content string) string {
	content = inlineEscapeRe.ReplaceAllString(content, `$$$1$$`)
	content = displayEscapeRe.ReplaceAllString(content, `$$$$$1$$$$`)
	content = splitDisplayRe.ReplaceAllString(content, `$$$$$1$$$$`)
	content = displayLeadRe.ReplaceAllString(content, "$1\n$$$$")
	content = displayTrailRe.ReplaceAllString(content, "$$$$\n$1")
	return content
}

// enhanceInlineMath inserts spacing around binary +, -, = operators
// inside inline math spans. Display spans pass through untouched.
func enhanceInlineMath(content string) string {
	return mathSpanRe.ReplaceAllStringFunc(content, func(span string) string {
		if strings.HasPrefix(span, "$$") {
			return span
		}
		inner := span[1 : len(span)-1]
		return "$" + spaceOperators(inner) + "$"
	})
}

// spaceOperators pads binary operators flanked by alphanumerics, but
// only at brace depth zero: operators inside {...} groups belong to
// subscripts or superscripts and must stay untouched (E_{-1} is not
// E_{ - 1}).
func spaceOperators(expr string) string {
	var b strings.Builder
	b.Grow(len(expr) + 8)

	depth := 0
	for i := 0; i < len(expr); i++ {
		c := expr[i]
		switch c {
		case '{':
			depth++
		case '}':
			if depth > 0 {
				depth--
			}
		case '+', '-', '=':
			if depth == 0 && i > 0 && i < len(expr)-1 &&
				isAlnum(expr[i-1]) && isAlnum(expr[i+1]) {
				b.WriteByte(' ')
				b.WriteByte(c)
				b.WriteByte(' ')
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}

func isAlnum(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

// fixMathArtifacts applies the declarative OCR correction rules.
func fixMathArtifacts(content string) string {
	for _, rule := range mathCorrections {
		content = rule.pattern.ReplaceAllString(content, rule.replace)
	}
	return content
}

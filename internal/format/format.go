// Copyright Neuromechanist Labs, 2025. All rights reserved.

// Package format implements the markdown reassembly and normalization
// pipeline: math delimiter canonicalization, table repair, image
// reference resolution, page assembly, and metadata extraction.
package format

import (
	"regexp"
	"strings"

	"github.com/neuromechanist/markit-mistral/pkg/types"
)

var (
	excessBlankRe  = regexp.MustCompile(`\n\s*\n\s*\n+`)
	headingSpaceRe = regexp.MustCompile(`(?m)^(#{1,6})\s*(.+)`)
	bulletSpaceRe  = regexp.MustCompile(`(?m)^(\s*[-*+])\s+`)
	orderedSpaceRe = regexp.MustCompile(`(?m)^(\s*\d+\.)\s+`)
	trailingWSRe   = regexp.MustCompile(`(?m)[ \t]+$`)

	headingGapRe = regexp.MustCompile(`(^|\n)(#{1,6} [^\n]+)\n([^\n])`)
	fenceGapRe   = regexp.MustCompile("(^|\n)(```[^`]*```)\n([^\n])")
	quoteGapRe   = regexp.MustCompile(`(^|\n)(>[^\n]+)\n([^\n])`)
	blankRunRe   = regexp.MustCompile(`\n{3,}`)
)

// Formatter turns per-page OCR markdown into one normalized document.
// A Formatter holds no per-document state; construct one per conversion
// and discard it.
type Formatter struct {
	// PreserveMath enables math normalization and artifact repair.
	PreserveMath bool

	// Base64Images is advisory for callers building the ImageMap; the
	// formatter itself only rewrites references it is given.
	Base64Images bool
}

// NewFormatter returns a Formatter with math preservation enabled.
func NewFormatter(preserveMath, base64Images bool) *Formatter {
	return &Formatter{PreserveMath: preserveMath, Base64Images: base64Images}
}

// FormatDocument assembles per-page markdown into a single document.
// Each non-empty page is math-normalized, image-rewritten, and cleaned;
// empty pages contribute nothing, not even a separator. A horizontal
// rule separates consecutive content pages, and the optional title is
// emitted as a level-1 heading ahead of everything.
func (f *Formatter) FormatDocument(pages []types.Page, imageMap ImageMap, title string) string {
	var parts []string
	if title != "" {
		parts = append(parts, "# "+title+"\n")
	}

	contentPages := 0
	for _, page := range pages {
		if page.Markdown == "" {
			continue
		}

		content := page.Markdown
		if f.PreserveMath {
			content = NormalizeMath(content)
		}
		content = RewriteImageRefs(content, imageMap)

		if contentPages > 0 {
			parts = append(parts, "\n---\n")
		}
		parts = append(parts, cleanContent(content))
		contentPages++
	}

	return finalizeDocument(strings.Join(parts, "\n\n"))
}

// cleanContent normalizes one page of markdown: collapses excess blank
// lines, fixes heading and list-marker spacing, repairs tables, and
// strips trailing whitespace.
func cleanContent(content string) string {
	content = excessBlankRe.ReplaceAllString(content, "\n\n")
	content = headingSpaceRe.ReplaceAllString(content, "$1 $2")
	content = bulletSpaceRe.ReplaceAllString(content, "$1 ")
	content = orderedSpaceRe.ReplaceAllString(content, "$1 ")
	content = RepairTables(content)
	content = trailingWSRe.ReplaceAllString(content, "")
	return strings.TrimSpace(content)
}

// finalizeDocument applies the whole-document formatting pass: exactly
// one blank line after headings, fenced code blocks, and block quotes;
// blank-line runs collapsed; surrounding whitespace trimmed; exactly one
// trailing newline. Applying it to its own output is a no-op.
func finalizeDocument(content string) string {
	// The gap rules capture the character after the block and re-emit
	// it, which consumes the first byte of a directly following heading
	// or quote line. Iterate until no rule fires so consecutive blocks
	// all get their blank line.
	for {
		next := headingGapRe.ReplaceAllString(content, "$1$2\n\n$3")
		next = fenceGapRe.ReplaceAllString(next, "$1$2\n\n$3")
		next = quoteGapRe.ReplaceAllString(next, "$1$2\n\n$3")
		if next == content {
			break
		}
		content = next
	}
	content = blankRunRe.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content) + "\n"
}

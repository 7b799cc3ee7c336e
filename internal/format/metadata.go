// Copyright Neuromechanist Labs, 2025. All rights reserved.

package format

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/neuromechanist/markit-mistral/pkg/types"
)

var (
	metaHeadingRe = regexp.MustCompile(`(?m)^(#{1,6})\s+(.+)$`)
	displayMathRe = regexp.MustCompile(`\$\$[^$]+\$\$`)
	inlineMathRe  = regexp.MustCompile(`\$[^$\n]+\$`)
	linkRe        = regexp.MustCompile(`(!?)\[([^\]]+)\]\(([^)]+)\)`)
)

// ExtractMetadata derives summary statistics from final markdown. It is
// a pure function over the text, computed once per conversion for output
// metadata and logging; nothing downstream branches on it.
func ExtractMetadata(content string) types.Metadata {
	md := types.Metadata{
		WordCount: len(strings.Fields(content)),
		CharCount: utf8.RuneCountInString(content),
		LineCount: len(strings.Split(content, "\n")),
	}

	for _, m := range metaHeadingRe.FindAllStringSubmatch(content, -1) {
		md.Headings = append(md.Headings, types.Heading{
			Level: len(m[1]),
			Text:  strings.TrimSpace(m[2]),
		})
	}

	// Count display spans first, then inline spans on the remainder, so
	// a $$...$$ block is not double-counted as an inline span.
	stripped := displayMathRe.ReplaceAllString(content, "")
	md.MathCount = len(displayMathRe.FindAllString(content, -1)) +
		len(inlineMathRe.FindAllString(stripped, -1))

	for _, m := range imageRefRe.FindAllStringSubmatch(content, -1) {
		md.Images = append(md.Images, m[2])
	}
	for _, m := range linkRe.FindAllStringSubmatch(content, -1) {
		if m[1] == "!" {
			continue
		}
		md.Links = append(md.Links, types.Link{Text: m[2], Target: m[3]})
	}

	// Approximate table count: distinct pipe-delimited lines divided by
	// two, roughly one header+separator pair per table. Imprecise for
	// multi-row tables, but consumers depend on the existing scale.
	seen := make(map[string]bool)
	for _, line := range strings.Split(content, "\n") {
		if strings.Count(line, "|") >= 2 {
			seen[line] = true
		}
	}
	md.TableCount = len(seen) / 2

	return md
}

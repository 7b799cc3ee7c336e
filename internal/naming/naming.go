// Copyright Neuromechanist Labs, 2025. All rights reserved.

// Package naming derives titles, slugs, and collision-resistant filename
// prefixes from OCR output and file paths.
package naming

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/neuromechanist/markit-mistral/pkg/types"
)

// SlugFallback is returned by Slugify when nothing survives sanitization.
const SlugFallback = "document"

// maxSlugLen caps slug length for filesystem-friendly names.
const maxSlugLen = 50

// hashLen is the hex length of the content-hash suffix in image prefixes.
const hashLen = 6

// trivialHeadings lists generic section names that never serve as a
// document title. Matching is case-insensitive after numbering prefixes
// are stripped.
var trivialHeadings = map[string]bool{
	"introduction":      true,
	"abstract":          true,
	"references":        true,
	"bibliography":      true,
	"appendix":          true,
	"contents":          true,
	"table of contents": true,
	"acknowledgments":   true,
	"acknowledgements":  true,
	"conclusion":        true,
	"conclusions":       true,
	"summary":           true,
	"index":             true,
	"overview":          true,
	"preface":           true,
	"foreword":          true,
}

// genericStems lists input filename stems too generic to name a document.
var genericStems = map[string]bool{
	"input":    true,
	"document": true,
	"file":     true,
	"temp":     true,
	"tmp":      true,
	"output":   true,
	"scan":     true,
	"untitled": true,
}

var (
	headingRe = regexp.MustCompile(`(?m)^(#{1,2})\s+(.+)$`)

	// numberPrefixRe strips leading numbering like "1.", "IV)", "2 -" from
	// heading text before the stoplist check.
	numberPrefixRe = regexp.MustCompile(`(?i)^\s*(?:[0-9]+|[ivxlcdm]+)\s*[.)\-:]?\s+`)

	nonSlugRe      = regexp.MustCompile(`[^a-z0-9-]+`)
	hyphenRunRe    = regexp.MustCompile(`-{2,}`)
	spaceUnderRe   = regexp.MustCompile(`[\s_]+`)
	asciiFoldChain = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// ExtractTitle returns the first non-trivial level-1 heading found across
// pages in document order, falling back to the first non-trivial level-2
// heading. It returns "" when no usable heading exists; absence is not an
// error.
func ExtractTitle(pages []types.Page) string {
	var h2 string
	for _, page := range pages {
		if page.Markdown == "" {
			continue
		}
		for _, m := range headingRe.FindAllStringSubmatch(page.Markdown, -1) {
			level, text := len(m[1]), strings.TrimSpace(m[2])
			if isTrivialHeading(text) {
				continue
			}
			if level == 1 {
				return text
			}
			if h2 == "" {
				h2 = text
			}
		}
	}
	return h2
}

// isTrivialHeading reports whether a heading matches the generic-section
// stoplist after numbering prefixes are removed.
func isTrivialHeading(text string) bool {
	stripped := numberPrefixRe.ReplaceAllString(text, "")
	stripped = strings.TrimSpace(strings.ToLower(stripped))
	if stripped == "" {
		return true
	}
	return trivialHeadings[stripped]
}

// Slugify converts free text into a filesystem-safe identifier: ASCII
// folded, lowercased, hyphen-separated, at most 50 characters. Text that
// sanitizes to nothing (e.g. punctuation only) yields SlugFallback.
// Slugify is idempotent: Slugify(Slugify(x)) == Slugify(x).
func Slugify(title string) string {
	folded, _, err := transform.String(asciiFoldChain, title)
	if err != nil {
		folded = title
	}

	// Drop whatever non-ASCII survived decomposition (CJK, symbols).
	var b strings.Builder
	for _, r := range folded {
		if r < 128 {
			b.WriteRune(r)
		}
	}

	s := strings.ToLower(b.String())
	s = spaceUnderRe.ReplaceAllString(s, "-")
	s = nonSlugRe.ReplaceAllString(s, "")
	s = hyphenRunRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	if len(s) > maxSlugLen {
		s = strings.TrimRight(s[:maxSlugLen], "-")
	}
	if s == "" {
		return SlugFallback
	}
	return s
}

// ContentHash returns the first n hex characters of the SHA-256 digest of
// the file at path. Only determinism and collision resistance matter; the
// algorithm itself is not part of the contract.
func ContentHash(path string, n int) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return hashBytes(data, n), nil
}

// HashString digests an arbitrary string the same way ContentHash
// digests file contents. Used where no file exists to hash, such as
// ledger entries for remote URLs.
func HashString(s string, n int) string {
	return hashBytes([]byte(s), n)
}

func hashBytes(data []byte, n int) string {
	sum := sha256.Sum256(data)
	h := hex.EncodeToString(sum[:])
	if n > 0 && n < len(h) {
		h = h[:n]
	}
	return h
}

// ImagePrefix derives a filename prefix for extracted images, unique
// across documents even when titles and filenames collide. The slug comes
// from the first source that resolves: OCR content title, input filename
// stem (unless generic), output filename stem. A 6-hex content hash of
// the input file is always appended; when the input cannot be read the
// hash falls back to digesting the path string so the prefix stays
// deterministic.
func ImagePrefix(pages []types.Page, inputPath, outputPath string) string {
	slug := ""
	if title := ExtractTitle(pages); title != "" {
		if s := Slugify(title); s != SlugFallback {
			slug = s
		}
	}

	if slug == "" {
		stem := fileStem(inputPath)
		if !genericStems[strings.ToLower(stem)] {
			if s := Slugify(stem); s != SlugFallback {
				slug = s
			}
		}
	}

	if slug == "" {
		slug = Slugify(fileStem(outputPath))
	}

	hash, err := ContentHash(inputPath, hashLen)
	if err != nil {
		hash = HashString(inputPath, hashLen)
	}

	return slug + "-" + hash
}

// fileStem returns the base name of path without its extension.
func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

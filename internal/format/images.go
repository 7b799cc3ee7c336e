// Copyright Neuromechanist Labs, 2025. All rights reserved.

package format

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// imageRefRe matches markdown image syntax: ![alt](ref).
var imageRefRe = regexp.MustCompile(`!\[([^\]]*)\]\(([^)]+)\)`)

// mimeByExt maps image extensions to MIME types for data URIs. Unknown
// extensions default to image/jpeg, matching what OCR providers emit
// most often.
var mimeByExt = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".webp": "image/webp",
	".tiff": "image/tiff",
	".tif":  "image/tiff",
}

// ImageMap maps every known image identifier (OCR-assigned id or
// extracted filename) to its final markdown reference, either a path
// relative to the document's output directory or a base64 data URI.
type ImageMap map[string]string

// NewImageMap builds the identifier lookup for a set of extracted image
// files. In base64 mode each file is embedded as a data URI; a file that
// cannot be read falls back to a relative-path reference with a warning
// on w, never aborting the rest of the map.
func NewImageMap(imagePaths []string, outputDir string, base64Mode bool, w io.Writer) ImageMap {
	m := make(ImageMap, len(imagePaths))
	for _, path := range imagePaths {
		name := filepath.Base(path)
		if base64Mode {
			if uri, err := encodeDataURI(path); err == nil {
				m[name] = uri
				continue
			} else if w != nil {
				fmt.Fprintf(w, "warning: could not embed image %s as base64: %v\n", name, err)
			}
		}
		m[name] = relativeRef(path, outputDir)
	}
	return m
}

// Alias registers an additional identifier for an existing reference.
// When an extracted image is renamed from its OCR id to a human-readable
// filename, the markdown body still carries the old id; both must
// resolve to the same final reference.
func (m ImageMap) Alias(id, name string) {
	if ref, ok := m[name]; ok && id != "" {
		m[id] = ref
	}
}

// sortedIDs returns the map keys longest-first (ties broken
// lexicographically) so fuzzy matching is deterministic regardless of
// map iteration order.
func (m ImageMap) sortedIDs() []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if len(ids[i]) != len(ids[j]) {
			return len(ids[i]) > len(ids[j])
		}
		return ids[i] < ids[j]
	})
	return ids
}

// RewriteImageRefs replaces ![alt](ref) targets with their final
// references. Match tiers, in order: exact or substring containment in
// either direction, then underscore-token overlap. An unmatched
// reference is left byte-identical; references are never deleted.
func RewriteImageRefs(content string, m ImageMap) string {
	if len(m) == 0 {
		return content
	}
	ids := m.sortedIDs()

	return imageRefRe.ReplaceAllStringFunc(content, func(match string) string {
		groups := imageRefRe.FindStringSubmatch(match)
		alt, ref := groups[1], groups[2]

		for _, id := range ids {
			if strings.Contains(id, ref) || strings.Contains(ref, id) {
				return fmt.Sprintf("![%s](%s)", alt, m[id])
			}
		}

		lowerTokens := strings.Split(strings.ToLower(ref), "_")
		for _, id := range ids {
			lowerID := strings.ToLower(id)
			for _, tok := range lowerTokens {
				if tok != "" && strings.Contains(lowerID, tok) {
					return fmt.Sprintf("![%s](%s)", alt, m[id])
				}
			}
		}

		return match
	})
}

func encodeDataURI(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	mimeType, ok := mimeByExt[strings.ToLower(filepath.Ext(path))]
	if !ok {
		mimeType = "image/jpeg"
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func relativeRef(path, outputDir string) string {
	rel, err := filepath.Rel(outputDir, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

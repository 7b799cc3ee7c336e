// Copyright Neuromechanist Labs, 2025. All rights reserved.

package ocr

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/neuromechanist/markit-mistral/pkg/types"
)

// ExtractedImage records one image written to disk during extraction,
// pairing the OCR-assigned identifier with its final path so callers
// can cross-reference renamed files back to the ids still present in
// the markdown body.
type ExtractedImage struct {
	// ID is the provider-assigned identifier from the response.
	ID string

	// Page is the owning page index.
	Page int

	// Path is the file written under the images directory.
	Path string
}

// ExtractImages decodes and writes every embedded image in the response
// to dir, naming files "{prefix}-p{page}-{id}". A single image that
// fails to decode or write is reported as a warning on w and skipped;
// extraction of the remaining images continues.
func ExtractImages(resp *types.OCRResponse, dir, prefix string, w io.Writer) ([]ExtractedImage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating images directory %s: %w", dir, err)
	}

	var extracted []ExtractedImage
	for _, page := range resp.Pages {
		for _, img := range page.Images {
			if img.Base64 == "" {
				continue
			}

			data, err := decodeImageBase64(img.Base64)
			if err != nil {
				if w != nil {
					fmt.Fprintf(w, "warning: could not decode image %s on page %d: %v\n", img.ID, page.Index, err)
				}
				continue
			}

			name := imageFileName(prefix, page.Index, img.ID)
			path := filepath.Join(dir, name)
			if err := os.WriteFile(path, data, 0o644); err != nil {
				if w != nil {
					fmt.Fprintf(w, "warning: could not save image %s: %v\n", name, err)
				}
				continue
			}

			extracted = append(extracted, ExtractedImage{ID: img.ID, Page: page.Index, Path: path})
		}
	}
	return extracted, nil
}

// decodeImageBase64 decodes a base64 payload, tolerating an optional
// data URI prefix some provider versions emit.
func decodeImageBase64(payload string) ([]byte, error) {
	if strings.HasPrefix(payload, "data:") {
		_, rest, ok := strings.Cut(payload, ",")
		if !ok {
			return nil, fmt.Errorf("malformed data URI")
		}
		payload = rest
	}
	return base64.StdEncoding.DecodeString(payload)
}

// imageFileName builds the on-disk name for an extracted image. The id
// keeps its extension when it has one; otherwise .png is assumed.
func imageFileName(prefix string, page int, id string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		default:
			return '-'
		}
	}, id)

	if filepath.Ext(safe) == "" {
		safe += ".png"
	}
	return fmt.Sprintf("%s-p%d-%s", prefix, page, safe)
}

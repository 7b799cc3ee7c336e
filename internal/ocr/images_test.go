// Copyright Neuromechanist Labs, 2025. All rights reserved.

package ocr

import (
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neuromechanist/markit-mistral/pkg/types"
)

func b64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

func TestExtractImages(t *testing.T) {
	dir := t.TempDir()
	resp := &types.OCRResponse{
		Pages: []types.Page{
			{Index: 0, Images: []types.PageImage{
				{ID: "img-0.jpeg", Base64: b64([]byte("first"))},
			}},
			{Index: 1, Images: []types.PageImage{
				{ID: "img-1", Base64: "data:image/png;base64," + b64([]byte("second"))},
			}},
		},
	}

	var warnings bytes.Buffer
	extracted, err := ExtractImages(resp, dir, "paper-abc123", &warnings)
	require.NoError(t, err)
	require.Len(t, extracted, 2)

	assert.Equal(t, "img-0.jpeg", extracted[0].ID)
	assert.Equal(t, filepath.Join(dir, "paper-abc123-p0-img-0.jpeg"), extracted[0].Path)
	data, err := os.ReadFile(extracted[0].Path)
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), data)

	// Extension-less id gets .png, data URI prefix is stripped.
	assert.Equal(t, filepath.Join(dir, "paper-abc123-p1-img-1.png"), extracted[1].Path)
	data, err = os.ReadFile(extracted[1].Path)
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), data)

	assert.Empty(t, warnings.String())
}

func TestExtractImages_BadPayloadContained(t *testing.T) {
	dir := t.TempDir()
	resp := &types.OCRResponse{
		Pages: []types.Page{
			{Index: 0, Images: []types.PageImage{
				{ID: "broken.png", Base64: "!!!not base64!!!"},
				{ID: "fine.png", Base64: b64([]byte("ok"))},
			}},
		},
	}

	var warnings bytes.Buffer
	extracted, err := ExtractImages(resp, dir, "doc-ffffff", &warnings)
	require.NoError(t, err)

	// The broken image is skipped with a warning; the good one survives.
	require.Len(t, extracted, 1)
	assert.Equal(t, "fine.png", extracted[0].ID)
	assert.Contains(t, warnings.String(), "broken.png")
}

func TestExtractImages_NilWriter(t *testing.T) {
	dir := t.TempDir()
	resp := &types.OCRResponse{
		Pages: []types.Page{
			{Index: 0, Images: []types.PageImage{
				{ID: "broken.png", Base64: "!!!not base64!!!"},
				{ID: "fine.png", Base64: b64([]byte("ok"))},
			}},
		},
	}

	extracted, err := ExtractImages(resp, dir, "doc-ffffff", nil)
	require.NoError(t, err)
	require.Len(t, extracted, 1)
	assert.Equal(t, "fine.png", extracted[0].ID)
}

func TestExtractImages_EmptyResponse(t *testing.T) {
	var warnings bytes.Buffer
	extracted, err := ExtractImages(&types.OCRResponse{}, t.TempDir(), "x-000000", &warnings)
	require.NoError(t, err)
	assert.Empty(t, extracted)
}

func TestExtractImages_SkipsEmptyPayloads(t *testing.T) {
	resp := &types.OCRResponse{
		Pages: []types.Page{{Index: 0, Images: []types.PageImage{{ID: "no-bytes.png"}}}},
	}
	var warnings bytes.Buffer
	extracted, err := ExtractImages(resp, t.TempDir(), "x-000000", &warnings)
	require.NoError(t, err)
	assert.Empty(t, extracted)
	assert.Empty(t, warnings.String())
}

func TestImageFileName_Sanitizes(t *testing.T) {
	got := imageFileName("pre-abc123", 2, "weird id!.png")
	assert.Equal(t, "pre-abc123-p2-weird-id-.png", got)
}

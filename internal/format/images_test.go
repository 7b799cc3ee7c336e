// Copyright Neuromechanist Labs, 2025. All rights reserved.

package format

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRewriteImageRefs(t *testing.T) {
	m := ImageMap{
		"image1.png": "images/image1.png",
		"chart.jpg":  "images/chart.jpg",
	}

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "exact match",
			in:   "Here is ![Image 1](image1.png) inline.",
			want: "Here is ![Image 1](images/image1.png) inline.",
		},
		{
			name: "multiple refs",
			in:   "![Image 1](image1.png) and ![Chart](chart.jpg)",
			want: "![Image 1](images/image1.png) and ![Chart](images/chart.jpg)",
		},
		{
			name: "substring match ref inside id",
			in:   "![x](image1)",
			want: "![x](images/image1.png)",
		},
		{
			name: "token overlap via underscores",
			in:   "![x](figure_chart_full.jpg)",
			want: "![x](images/chart.jpg)",
		},
		{
			name: "unmatched left byte identical",
			in:   "![missing](unknown-figure.png)",
			want: "![missing](unknown-figure.png)",
		},
		{
			name: "empty alt preserved",
			in:   "![](image1.png)",
			want: "![](images/image1.png)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RewriteImageRefs(tt.in, m); got != tt.want {
				t.Errorf("RewriteImageRefs(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRewriteImageRefs_DeterministicTieBreak(t *testing.T) {
	// Both identifiers contain the candidate; the longer one must win
	// every time, independent of map iteration order.
	m := ImageMap{
		"fig.png":      "images/fig.png",
		"fig-full.png": "images/fig-full.png",
	}
	for i := 0; i < 20; i++ {
		got := RewriteImageRefs("![x](fig)", m)
		if got != "![x](images/fig-full.png)" {
			t.Fatalf("iteration %d: got %q, want longest-identifier match", i, got)
		}
	}
}

func TestRewriteImageRefs_EmptyMap(t *testing.T) {
	in := "![Image](whatever.png)"
	if got := RewriteImageRefs(in, nil); got != in {
		t.Errorf("empty map should leave content untouched, got %q", got)
	}
}

func TestNewImageMap_RelativePaths(t *testing.T) {
	outDir := t.TempDir()
	imgDir := filepath.Join(outDir, "doc_images")
	if err := os.MkdirAll(imgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	imgPath := filepath.Join(imgDir, "fig1.png")
	if err := os.WriteFile(imgPath, []byte("png bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	m := NewImageMap([]string{imgPath}, outDir, false, nil)
	if got := m["fig1.png"]; got != "doc_images/fig1.png" {
		t.Errorf("relative reference = %q, want %q", got, "doc_images/fig1.png")
	}
}

func TestNewImageMap_Base64(t *testing.T) {
	outDir := t.TempDir()
	imgPath := filepath.Join(outDir, "fig1.png")
	if err := os.WriteFile(imgPath, []byte{0x89, 0x50, 0x4e, 0x47}, 0o644); err != nil {
		t.Fatal(err)
	}

	m := NewImageMap([]string{imgPath}, outDir, true, nil)
	ref := m["fig1.png"]
	if !strings.HasPrefix(ref, "data:image/png;base64,") {
		t.Errorf("base64 reference = %q, want data URI with png MIME", ref)
	}
}

func TestNewImageMap_Base64FailureFallsBackToPath(t *testing.T) {
	outDir := t.TempDir()
	missing := filepath.Join(outDir, "gone.jpg")

	var warnings bytes.Buffer
	m := NewImageMap([]string{missing}, outDir, true, &warnings)

	if got := m["gone.jpg"]; got != "gone.jpg" {
		t.Errorf("fallback reference = %q, want relative path %q", got, "gone.jpg")
	}
	if !strings.Contains(warnings.String(), "warning") {
		t.Errorf("expected a warning, got %q", warnings.String())
	}
}

func TestNewImageMap_UnknownExtDefaultsToJpeg(t *testing.T) {
	outDir := t.TempDir()
	imgPath := filepath.Join(outDir, "blob.img")
	if err := os.WriteFile(imgPath, []byte("bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	m := NewImageMap([]string{imgPath}, outDir, true, nil)
	if !strings.HasPrefix(m["blob.img"], "data:image/jpeg;base64,") {
		t.Errorf("unknown extension should default to image/jpeg, got %q", m["blob.img"])
	}
}

func TestImageMapAlias(t *testing.T) {
	m := ImageMap{"paper-abc123-p0-img-0.png": "images/paper-abc123-p0-img-0.png"}
	m.Alias("img-0.png", "paper-abc123-p0-img-0.png")

	got := RewriteImageRefs("![f](img-0.png)", m)
	if got != "![f](images/paper-abc123-p0-img-0.png)" {
		t.Errorf("aliased id should resolve to renamed file reference, got %q", got)
	}
}

// Copyright Neuromechanist Labs, 2025. All rights reserved.

package fileproc

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDetectType(t *testing.T) {
	tests := []struct {
		path string
		want FileType
	}{
		{"paper.pdf", TypePDF},
		{"PAPER.PDF", TypePDF},
		{"scan.png", TypeImage},
		{"photo.JPEG", TypeImage},
		{"pic.webp", TypeImage},
		{"pic.tif", TypeImage},
		{"notes.txt", TypeUnsupported},
		{"archive.zip", TypeUnsupported},
		{"noext", TypeUnsupported},
	}
	for _, tt := range tests {
		if got := DetectType(tt.path); got != tt.want {
			t.Errorf("DetectType(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestMIMEType(t *testing.T) {
	if got := MIMEType("doc.pdf"); got != "application/pdf" {
		t.Errorf("MIMEType(pdf) = %q", got)
	}
	if got := MIMEType("img.JPG"); got != "image/jpeg" {
		t.Errorf("MIMEType(jpg) = %q", got)
	}
	if got := MIMEType("data.bin"); got != "application/octet-stream" {
		t.Errorf("MIMEType(unknown) = %q", got)
	}
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()

	goodPDF := filepath.Join(dir, "good.pdf")
	if err := os.WriteFile(goodPDF, []byte("%PDF-1.7\ncontent"), 0o644); err != nil {
		t.Fatal(err)
	}
	badPDF := filepath.Join(dir, "bad.pdf")
	if err := os.WriteFile(badPDF, []byte("not a pdf at all"), 0o644); err != nil {
		t.Fatal(err)
	}
	image := filepath.Join(dir, "scan.png")
	if err := os.WriteFile(image, []byte("png data"), 0o644); err != nil {
		t.Fatal(err)
	}
	big := filepath.Join(dir, "big.pdf")
	if err := os.WriteFile(big, append([]byte("%PDF-"), make([]byte, 2*1024*1024)...), 0o644); err != nil {
		t.Fatal(err)
	}
	text := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(text, []byte("plain"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		path      string
		maxSizeMB int
		wantErr   string
	}{
		{"valid pdf", goodPDF, 50, ""},
		{"valid image", image, 50, ""},
		{"missing file", filepath.Join(dir, "nope.pdf"), 50, "not found"},
		{"corrupted pdf", badPDF, 50, "corrupted"},
		{"oversized", big, 1, "too large"},
		{"unsupported type", text, 50, "unsupported"},
		{"directory", dir, 50, "directory"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.path, tt.maxSizeMB)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate(%q) = %v, want nil", tt.path, err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate(%q) = nil, want error containing %q", tt.path, tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
			if !strings.Contains(err.Error(), filepath.Base(tt.path)) {
				t.Errorf("error %q does not name the offending path", err)
			}
		})
	}
}

func TestInfo(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4 tiny"), 0o644); err != nil {
		t.Fatal(err)
	}

	info, err := Info(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Name != "doc.pdf" || info.Extension != ".pdf" {
		t.Errorf("unexpected descriptor: %+v", info)
	}
	if info.MIMEType != "application/pdf" || info.Type != "pdf" {
		t.Errorf("unexpected MIME/type: %+v", info)
	}
	if info.SizeBytes == 0 {
		t.Errorf("size should be non-zero: %+v", info)
	}
	if !info.Supported {
		t.Errorf("pdf should be supported: %+v", info)
	}

	if _, err := Info(filepath.Join(dir, "missing.pdf")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSupportedExtensions(t *testing.T) {
	exts := SupportedExtensions()
	if len(exts) < 8 {
		t.Fatalf("expected at least 8 extensions, got %v", exts)
	}
	for i := 1; i < len(exts); i++ {
		if exts[i-1] >= exts[i] {
			t.Errorf("extensions not sorted: %v", exts)
		}
	}
}

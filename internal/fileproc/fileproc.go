// Copyright Neuromechanist Labs, 2025. All rights reserved.

// Package fileproc validates and describes input files before they are
// sent to the OCR service.
package fileproc

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileType classifies an input file by extension.
type FileType string

const (
	TypePDF         FileType = "pdf"
	TypeImage       FileType = "image"
	TypeUnsupported FileType = "unsupported"
)

// imageExts lists the raster image extensions accepted for OCR.
var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".tiff": true,
	".tif":  true,
	".bmp":  true,
	".gif":  true,
	".webp": true,
}

// mimeByExt maps supported extensions to MIME types for data URIs and
// file descriptors.
var mimeByExt = map[string]string{
	".pdf":  "application/pdf",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".tiff": "image/tiff",
	".tif":  "image/tiff",
	".bmp":  "image/bmp",
	".gif":  "image/gif",
	".webp": "image/webp",
}

var pdfMagic = []byte("%PDF-")

// FileInfo describes an input file for logging and output metadata.
type FileInfo struct {
	Name      string  `json:"name" yaml:"name"`
	Path      string  `json:"path" yaml:"path"`
	SizeBytes int64   `json:"size_bytes" yaml:"size_bytes"`
	SizeMB    float64 `json:"size_mb" yaml:"size_mb"`
	Extension string  `json:"extension" yaml:"extension"`
	MIMEType  string  `json:"mime_type" yaml:"mime_type"`
	Type      string  `json:"type" yaml:"type"`
	Supported bool    `json:"supported" yaml:"supported"`
}

// DetectType classifies a path by its extension alone; the file need
// not exist.
func DetectType(path string) FileType {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case ext == ".pdf":
		return TypePDF
	case imageExts[ext]:
		return TypeImage
	default:
		return TypeUnsupported
	}
}

// MIMEType returns the MIME type for a supported path, or
// "application/octet-stream" for anything else.
func MIMEType(path string) string {
	if m, ok := mimeByExt[strings.ToLower(filepath.Ext(path))]; ok {
		return m
	}
	return "application/octet-stream"
}

// SupportedExtensions returns the accepted input extensions, sorted.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(mimeByExt))
	for ext := range mimeByExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Validate checks that path exists, is a supported type, is within the
// size limit, and (for PDFs) starts with the PDF magic header. Every
// failure names the offending path; validation failures abort the
// conversion for that file only.
func Validate(path string, maxSizeMB int) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file not found: %s", path)
		}
		return fmt.Errorf("cannot access %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	fileType := DetectType(path)
	if fileType == TypeUnsupported {
		return fmt.Errorf("unsupported file type %q for %s (supported: %s)",
			filepath.Ext(path), path, strings.Join(SupportedExtensions(), " "))
	}

	if maxSizeMB > 0 {
		limit := int64(maxSizeMB) * 1024 * 1024
		if info.Size() > limit {
			return fmt.Errorf("file too large: %s (%.1f MB, limit %d MB)",
				path, float64(info.Size())/(1024*1024), maxSizeMB)
		}
	}

	if fileType == TypePDF {
		if err := checkPDFHeader(path); err != nil {
			return err
		}
	}
	return nil
}

// checkPDFHeader verifies the %PDF- magic at the start of the file.
func checkPDFHeader(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", path, err)
	}
	defer f.Close()

	header := make([]byte, len(pdfMagic))
	n, err := f.Read(header)
	if err != nil || n < len(pdfMagic) || !bytes.Equal(header, pdfMagic) {
		return fmt.Errorf("corrupted PDF file: %s (missing %%PDF- header)", path)
	}
	return nil
}

// Info returns a descriptor for path. The file must exist.
func Info(path string) (FileInfo, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return FileInfo{}, fmt.Errorf("file not found: %s", path)
	}
	size := stat.Size()
	return FileInfo{
		Name:      filepath.Base(path),
		Path:      path,
		SizeBytes: size,
		SizeMB:    float64(size) / (1024 * 1024),
		Extension: strings.ToLower(filepath.Ext(path)),
		MIMEType:  MIMEType(path),
		Type:      string(DetectType(path)),
		Supported: DetectType(path) != TypeUnsupported,
	}, nil
}

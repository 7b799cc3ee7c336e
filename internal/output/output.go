// Copyright Neuromechanist Labs, 2025. All rights reserved.

// Package output lays out conversion results on disk: the markdown
// document, an optional metadata sidecar, an images directory, and an
// optional zip archive bundling all of them.
package output

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	yaml "go.yaml.in/yaml/v3"

	"github.com/neuromechanist/markit-mistral/internal/fileproc"
	"github.com/neuromechanist/markit-mistral/pkg/types"
)

const (
	toolName    = "markit-mistral"
	toolVersion = "0.1.0"

	probeFile = ".markit_mistral_test"
)

var placeholderRe = regexp.MustCompile(`\{([a-z]+)\}`)

// Structure holds the paths a conversion writes to.
type Structure struct {
	OutputDir    string
	MarkdownPath string
	MetadataPath string
	ImagesDir    string
}

// Manager prepares output locations and writes conversion artifacts.
type Manager struct {
	cfg types.OutputConfig
	now func() time.Time
}

// NewManager returns a Manager for the given output settings.
func NewManager(cfg types.OutputConfig) *Manager {
	return &Manager{cfg: cfg, now: time.Now}
}

// PrepareStructure creates the output directory and computes the paths
// for the markdown file, its metadata sidecar, and the images
// directory. The markdown filename follows the custom naming pattern
// when one is set, otherwise the input file's stem. The images
// directory is created only when includeImages is true.
func (m *Manager) PrepareStructure(inputPath, outputDir string, includeImages bool, w io.Writer) (*Structure, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", outputDir, err)
	}
	if err := m.checkWritable(outputDir); err != nil {
		return nil, err
	}

	markdownPath := filepath.Join(outputDir, m.outputFileName(inputPath, w))
	stem := strings.TrimSuffix(filepath.Base(markdownPath), ".md")

	s := &Structure{
		OutputDir:    outputDir,
		MarkdownPath: markdownPath,
		MetadataPath: filepath.Join(outputDir, stem+"_metadata."+m.metadataExt()),
	}

	if includeImages {
		s.ImagesDir = filepath.Join(outputDir, stem+"_images")
		if err := os.MkdirAll(s.ImagesDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating images directory %s: %w", s.ImagesDir, err)
		}
	}
	return s, nil
}

// outputFileName applies the custom naming pattern. Unknown
// placeholders leave the pattern unusable, so the default name is used
// and a warning is written instead.
func (m *Manager) outputFileName(inputPath string, w io.Writer) string {
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	name := base

	if m.cfg.CustomNaming != "" {
		now := m.now()
		vars := map[string]string{
			"original":  base,
			"timestamp": now.Format("20060102_150405"),
			"date":      now.Format("20060102"),
			"time":      now.Format("150405"),
		}

		valid := true
		expanded := placeholderRe.ReplaceAllStringFunc(m.cfg.CustomNaming, func(match string) string {
			key := placeholderRe.FindStringSubmatch(match)[1]
			val, ok := vars[key]
			if !ok {
				valid = false
				return match
			}
			return val
		})
		if valid {
			name = expanded
		} else if w != nil {
			fmt.Fprintf(w, "warning: invalid naming pattern %q, using default\n", m.cfg.CustomNaming)
		}
	}

	if !strings.HasSuffix(name, ".md") {
		name += ".md"
	}
	return name
}

func (m *Manager) metadataExt() string {
	if m.cfg.MetadataFormat == "yaml" {
		return "yaml"
	}
	return "json"
}

// checkWritable probes the directory with a throwaway file so
// permission problems surface before the OCR call is made.
func (m *Manager) checkWritable(dir string) error {
	probe := filepath.Join(dir, probeFile)
	if err := os.WriteFile(probe, nil, 0o644); err != nil {
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	os.Remove(probe)
	return nil
}

// WriteMarkdown writes the assembled document.
func (m *Manager) WriteMarkdown(s *Structure, markdown string) error {
	if err := os.WriteFile(s.MarkdownPath, []byte(markdown), 0o644); err != nil {
		return fmt.Errorf("writing markdown to %s: %w", s.MarkdownPath, err)
	}
	return nil
}

// metadataDocument is the sidecar layout.
type metadataDocument struct {
	ConversionInfo  conversionInfo    `json:"conversion_info" yaml:"conversion_info"`
	InputFile       fileproc.FileInfo `json:"input_file" yaml:"input_file"`
	ContentMetadata types.Metadata    `json:"content_metadata" yaml:"content_metadata"`
}

type conversionInfo struct {
	Timestamp string `json:"timestamp" yaml:"timestamp"`
	Tool      string `json:"tool" yaml:"tool"`
	Version   string `json:"version" yaml:"version"`
}

// SaveMetadata writes the metadata sidecar in the configured format.
// It is a no-op when metadata preservation is disabled.
func (m *Manager) SaveMetadata(s *Structure, content types.Metadata, input fileproc.FileInfo) error {
	if !m.cfg.PreserveMetadata {
		return nil
	}

	doc := metadataDocument{
		ConversionInfo: conversionInfo{
			Timestamp: m.now().UTC().Format(time.RFC3339),
			Tool:      toolName,
			Version:   toolVersion,
		},
		InputFile:       input,
		ContentMetadata: content,
	}

	var data []byte
	var err error
	if m.cfg.MetadataFormat == "yaml" {
		data, err = yaml.Marshal(doc)
	} else {
		data, err = json.MarshalIndent(doc, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encoding metadata: %w", err)
	}

	if err := os.WriteFile(s.MetadataPath, data, 0o644); err != nil {
		return fmt.Errorf("writing metadata to %s: %w", s.MetadataPath, err)
	}
	return nil
}

// CreateArchive bundles the markdown file, metadata sidecar, and image
// files into a zip next to the markdown file. It returns the archive
// path, or "" when archiving is disabled.
func (m *Manager) CreateArchive(s *Structure) (string, error) {
	if !m.cfg.CreateZipArchive {
		return "", nil
	}

	stem := strings.TrimSuffix(filepath.Base(s.MarkdownPath), ".md")
	archivePath := filepath.Join(filepath.Dir(s.MarkdownPath), stem+"_complete.zip")

	f, err := os.Create(archivePath)
	if err != nil {
		return "", fmt.Errorf("creating archive %s: %w", archivePath, err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)

	addFile := func(path, arcName string) error {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		entry, err := zw.Create(arcName)
		if err != nil {
			return err
		}
		_, err = entry.Write(data)
		return err
	}

	if fileExists(s.MarkdownPath) {
		if err := addFile(s.MarkdownPath, filepath.Base(s.MarkdownPath)); err != nil {
			zw.Close()
			return "", fmt.Errorf("archiving markdown: %w", err)
		}
	}
	if fileExists(s.MetadataPath) {
		if err := addFile(s.MetadataPath, filepath.Base(s.MetadataPath)); err != nil {
			zw.Close()
			return "", fmt.Errorf("archiving metadata: %w", err)
		}
	}
	if s.ImagesDir != "" {
		entries, err := os.ReadDir(s.ImagesDir)
		if err == nil {
			dirName := filepath.Base(s.ImagesDir)
			for _, e := range entries {
				if e.IsDir() {
					continue
				}
				src := filepath.Join(s.ImagesDir, e.Name())
				if err := addFile(src, dirName+"/"+e.Name()); err != nil {
					zw.Close()
					return "", fmt.Errorf("archiving image %s: %w", e.Name(), err)
				}
			}
		}
	}

	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("finalizing archive: %w", err)
	}
	return archivePath, nil
}

// Summary describes the files a conversion produced.
type Summary struct {
	Files      []SummaryFile `json:"files_created"`
	TotalBytes int64         `json:"total_size_bytes"`
	ImageCount int           `json:"images_count"`
}

// SummaryFile is one produced file.
type SummaryFile struct {
	Type string `json:"type"`
	Path string `json:"path"`
	Size int64  `json:"size_bytes"`
}

// Summarize reports what exists on disk for a prepared structure.
func (m *Manager) Summarize(s *Structure) Summary {
	var sum Summary

	add := func(kind, path string) {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			return
		}
		sum.Files = append(sum.Files, SummaryFile{Type: kind, Path: path, Size: info.Size()})
		sum.TotalBytes += info.Size()
	}

	add("markdown", s.MarkdownPath)
	add("metadata", s.MetadataPath)

	if s.ImagesDir != "" {
		if entries, err := os.ReadDir(s.ImagesDir); err == nil {
			for _, e := range entries {
				if !e.IsDir() {
					sum.ImageCount++
				}
			}
		}
	}
	return sum
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

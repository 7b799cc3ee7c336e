// Copyright Neuromechanist Labs, 2025. All rights reserved.

// Package convert orchestrates the conversion pipeline: input
// validation, the OCR call, image extraction, markdown assembly, and
// output writing, with an optional conversion-history ledger.
package convert

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/neuromechanist/markit-mistral/internal/fileproc"
	"github.com/neuromechanist/markit-mistral/internal/format"
	"github.com/neuromechanist/markit-mistral/internal/history"
	"github.com/neuromechanist/markit-mistral/internal/naming"
	"github.com/neuromechanist/markit-mistral/internal/ocr"
	"github.com/neuromechanist/markit-mistral/internal/output"
	"github.com/neuromechanist/markit-mistral/pkg/types"
)

// OCRClient performs remote OCR. *ocr.Client is the production
// implementation; tests substitute fakes.
type OCRClient interface {
	ProcessFile(ctx context.Context, path string, includeImages bool) (*types.OCRResponse, error)
	ProcessURL(ctx context.Context, url string, includeImages bool) (*types.OCRResponse, error)
}

// Result holds everything a conversion produced.
type Result struct {
	MarkdownPath string
	MetadataPath string
	ImagePaths   []string
	ArchivePath  string
	Document     types.Document
	Skipped      bool
}

// Converter runs conversions against a configured OCR client. The
// history store is optional; without one, skip-existing is disabled and
// nothing is recorded.
type Converter struct {
	cfg     types.Config
	client  OCRClient
	ledger  *history.Store
	manager *output.Manager
}

// New returns a Converter. ledger may be nil.
func New(cfg types.Config, client OCRClient, ledger *history.Store) *Converter {
	return &Converter{
		cfg:     cfg,
		client:  client,
		ledger:  ledger,
		manager: output.NewManager(cfg.Output),
	}
}

// ConvertFile converts a local PDF or image to markdown under
// outputDir. Progress and warnings go to w. When skip-existing is
// enabled and the ledger holds a prior conversion of byte-identical
// content whose output still exists, the OCR call is skipped entirely.
func (c *Converter) ConvertFile(ctx context.Context, inputPath, outputDir string, w io.Writer) (*Result, error) {
	if err := fileproc.Validate(inputPath, c.cfg.Output.MaxFileSizeMB); err != nil {
		return nil, err
	}
	contentHash, err := naming.ContentHash(inputPath, 0)
	if err != nil {
		return nil, fmt.Errorf("hashing %s: %w", inputPath, err)
	}

	if c.cfg.History.SkipExisting && c.ledger != nil {
		prior, err := c.ledger.Lookup(contentHash)
		if err != nil {
			return nil, err
		}
		if prior != nil {
			if _, statErr := os.Stat(prior.OutputPath); statErr == nil {
				fmt.Fprintf(w, "skipped: %s (already converted to %s)\n",
					filepath.Base(inputPath), prior.OutputPath)
				return &Result{MarkdownPath: prior.OutputPath, Skipped: true}, nil
			}
		}
	}

	resp, err := c.client.ProcessFile(ctx, inputPath, c.cfg.Output.IncludeImages)
	if err != nil {
		return nil, fmt.Errorf("converting %s: %w", filepath.Base(inputPath), err)
	}

	result, err := c.assemble(resp, inputPath, inputPath, outputDir, w)
	if err != nil {
		return nil, err
	}

	c.record(inputPath, contentHash, resp, result)
	fmt.Fprintf(w, "converted: %s -> %s\n", filepath.Base(inputPath), result.MarkdownPath)
	return result, nil
}

// ConvertURL converts a document fetched by the OCR service from a
// remote URL. No local validation or size check applies; the ledger
// entry hashes the URL string instead of file contents.
func (c *Converter) ConvertURL(ctx context.Context, rawURL, outputDir string, w io.Writer) (*Result, error) {
	resp, err := c.client.ProcessURL(ctx, rawURL, c.cfg.Output.IncludeImages)
	if err != nil {
		return nil, fmt.Errorf("converting %s: %w", rawURL, err)
	}

	result, err := c.assemble(resp, urlStem(rawURL), rawURL, outputDir, w)
	if err != nil {
		return nil, err
	}

	c.record(rawURL, naming.HashString(rawURL, 0), resp, result)
	fmt.Fprintf(w, "converted: %s -> %s\n", rawURL, result.MarkdownPath)
	return result, nil
}

// assemble turns an OCR response into output files. inputPath is used
// only for naming and need not exist on disk for URL conversions;
// hashSource feeds the image-prefix digest and must be the full URL
// there, so two remote documents sharing a filename still get distinct
// prefixes.
func (c *Converter) assemble(resp *types.OCRResponse, inputPath, hashSource, outputDir string, w io.Writer) (*Result, error) {
	s, err := c.manager.PrepareStructure(inputPath, outputDir, c.cfg.Output.IncludeImages, w)
	if err != nil {
		return nil, err
	}

	title := naming.ExtractTitle(resp.Pages)

	var imagePaths []string
	imageMap := format.ImageMap{}
	if c.cfg.Output.IncludeImages {
		prefix := naming.ImagePrefix(resp.Pages, hashSource, s.MarkdownPath)
		extracted, err := ocr.ExtractImages(resp, s.ImagesDir, prefix, w)
		if err != nil {
			return nil, err
		}
		for _, img := range extracted {
			imagePaths = append(imagePaths, img.Path)
		}
		imageMap = format.NewImageMap(imagePaths, s.OutputDir, c.cfg.Format.Base64Images, w)
		for _, img := range extracted {
			imageMap.Alias(img.ID, filepath.Base(img.Path))
		}
	}

	formatter := format.NewFormatter(c.cfg.Format.PreserveMath, c.cfg.Format.Base64Images)
	markdown := formatter.FormatDocument(resp.Pages, imageMap, title)
	meta := format.ExtractMetadata(markdown)

	if err := c.manager.WriteMarkdown(s, markdown); err != nil {
		return nil, err
	}

	if c.cfg.Output.PreserveMetadata {
		inputInfo, infoErr := fileproc.Info(inputPath)
		if infoErr != nil {
			inputInfo = fileproc.FileInfo{Name: filepath.Base(inputPath), Path: inputPath}
		}
		if err := c.manager.SaveMetadata(s, meta, inputInfo); err != nil {
			return nil, err
		}
	}

	archivePath, err := c.manager.CreateArchive(s)
	if err != nil {
		fmt.Fprintf(w, "warning: could not create archive: %v\n", err)
		archivePath = ""
	}

	result := &Result{
		MarkdownPath: s.MarkdownPath,
		ImagePaths:   imagePaths,
		ArchivePath:  archivePath,
		Document:     types.Document{Markdown: markdown, Metadata: meta},
	}
	if c.cfg.Output.PreserveMetadata {
		result.MetadataPath = s.MetadataPath
	}
	return result, nil
}

// record writes a ledger entry, tolerating ledger failures with no
// more than a lost entry.
func (c *Converter) record(input, contentHash string, resp *types.OCRResponse, r *Result) {
	if c.ledger == nil || r == nil {
		return
	}
	title := naming.ExtractTitle(resp.Pages)
	_, _ = c.ledger.Record(history.Entry{
		InputPath:   input,
		ContentHash: contentHash,
		OutputPath:  r.MarkdownPath,
		Title:       title,
		Pages:       len(resp.Pages),
		Words:       r.Document.Metadata.WordCount,
		Images:      len(r.ImagePaths),
	})
}

// urlStem extracts a filename-like stem from a URL for output naming.
func urlStem(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || path.Base(u.Path) == "/" || path.Base(u.Path) == "." {
		return "document"
	}
	return path.Base(u.Path)
}

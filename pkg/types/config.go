// Copyright Neuromechanist Labs, 2025. All rights reserved.

package types

import (
	"fmt"
	"time"
)

// OCRConfig holds settings for the remote OCR client.
type OCRConfig struct {
	// APIKey authenticates against the Mistral API. Required.
	APIKey string `json:"-" yaml:"-"`

	// Model is the OCR model identifier (default "mistral-ocr-latest").
	Model string `json:"model" yaml:"model"`

	// MaxRetries is the number of retries for transient failures (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// RetryDelay is the base delay for exponential backoff (default 1s).
	RetryDelay time.Duration `json:"retry_delay" yaml:"retry_delay"`

	// Timeout is the HTTP request timeout (default 120s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// FormatConfig holds settings for the markdown formatting pipeline.
type FormatConfig struct {
	// PreserveMath enables math delimiter normalization and artifact repair.
	PreserveMath bool `json:"preserve_math" yaml:"preserve_math"`

	// Base64Images embeds images as data URIs instead of file links.
	Base64Images bool `json:"base64_images" yaml:"base64_images"`
}

// OutputConfig holds settings for output file management.
type OutputConfig struct {
	// IncludeImages extracts embedded images alongside the markdown.
	IncludeImages bool `json:"include_images" yaml:"include_images"`

	// PreserveMetadata writes a sibling metadata file per conversion.
	PreserveMetadata bool `json:"preserve_metadata" yaml:"preserve_metadata"`

	// MetadataFormat is "json" or "yaml" (default "json").
	MetadataFormat string `json:"metadata_format" yaml:"metadata_format"`

	// CreateZipArchive bundles markdown, metadata, and images into a zip.
	CreateZipArchive bool `json:"create_zip_archive" yaml:"create_zip_archive"`

	// CustomNaming is an optional output naming pattern with {original},
	// {timestamp}, {date}, and {time} placeholders.
	CustomNaming string `json:"custom_naming" yaml:"custom_naming"`

	// MaxFileSizeMB limits accepted input files (default 50).
	MaxFileSizeMB int `json:"max_file_size_mb" yaml:"max_file_size_mb"`
}

// HistoryConfig holds settings for the conversion history ledger.
type HistoryConfig struct {
	// DataDir is the directory for the history database (default
	// ~/.local/share/markit-mistral).
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// SkipExisting skips conversions whose input content hash already has
	// a recorded output on disk.
	SkipExisting bool `json:"skip_existing" yaml:"skip_existing"`
}

// Config is the full tool configuration.
type Config struct {
	OCR     OCRConfig     `json:"ocr" yaml:"ocr"`
	Format  FormatConfig  `json:"format" yaml:"format"`
	Output  OutputConfig  `json:"output" yaml:"output"`
	History HistoryConfig `json:"history" yaml:"history"`
}

// Validate checks configuration invariants. Violations are fatal at
// startup and never retried.
func (c Config) Validate() error {
	if c.OCR.APIKey == "" {
		return fmt.Errorf("Mistral API key is required: set MISTRAL_API_KEY or pass --api-key")
	}
	if c.OCR.MaxRetries < 1 {
		return fmt.Errorf("max_retries must be at least 1, got %d", c.OCR.MaxRetries)
	}
	if c.OCR.RetryDelay < 0 {
		return fmt.Errorf("retry_delay must be non-negative, got %v", c.OCR.RetryDelay)
	}
	if c.Output.MaxFileSizeMB < 1 {
		return fmt.Errorf("max_file_size_mb must be at least 1, got %d", c.Output.MaxFileSizeMB)
	}
	switch c.Output.MetadataFormat {
	case "", "json", "yaml":
	default:
		return fmt.Errorf("metadata_format must be json or yaml, got %q", c.Output.MetadataFormat)
	}
	return nil
}

// Copyright Neuromechanist Labs, 2025. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/neuromechanist/markit-mistral/internal/convert"
	"github.com/neuromechanist/markit-mistral/internal/history"
	"github.com/neuromechanist/markit-mistral/internal/ocr"
)

var convertCmd = &cobra.Command{
	Use:   "convert <file-or-url>",
	Short: "Convert a PDF or image to Markdown",
	Long: `Convert runs a PDF or image file through Mistral OCR and writes clean
Markdown. The input may be a local file or an http(s) URL fetched by the
OCR service directly.

Embedded images are extracted into a sibling directory and referenced by
relative path, or inlined as base64 data URIs with --base64-images.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringP("output", "o", "", "output markdown file path (default: <input>.md in the output directory)")
	convertCmd.Flags().String("output-dir", ".", "directory for conversion outputs")
	convertCmd.Flags().Bool("extract-images", true, "extract embedded images alongside the markdown")
	convertCmd.Flags().Bool("base64-images", false, "inline images as base64 data URIs instead of files")
	convertCmd.Flags().Bool("preserve-math", true, "normalize math notation to LaTeX delimiters")
	convertCmd.Flags().Bool("no-math", false, "disable math notation normalization")
	convertCmd.Flags().Bool("metadata", false, "write a metadata sidecar next to the markdown")
	convertCmd.Flags().String("metadata-format", "", "metadata sidecar format: json or yaml")
	convertCmd.Flags().Bool("zip", false, "bundle all outputs into a zip archive")
	convertCmd.Flags().Bool("skip-existing", false, "skip inputs already converted with identical content")
	convertCmd.Flags().String("naming", "", "output naming pattern with {original}, {timestamp}, {date}, {time}")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	input := args[0]
	cfg := loadConfig(cmd)

	outputDir, _ := cmd.Flags().GetString("output-dir")
	if outPath, _ := cmd.Flags().GetString("output"); outPath != "" {
		outputDir = filepath.Dir(outPath)
		base := filepath.Base(outPath)
		cfg.Output.CustomNaming = strings.TrimSuffix(base, ".md")
	}
	if naming, _ := cmd.Flags().GetString("naming"); naming != "" {
		cfg.Output.CustomNaming = naming
	}

	cfg.Output.IncludeImages, _ = cmd.Flags().GetBool("extract-images")
	cfg.Format.Base64Images, _ = cmd.Flags().GetBool("base64-images")
	cfg.Format.PreserveMath, _ = cmd.Flags().GetBool("preserve-math")
	if noMath, _ := cmd.Flags().GetBool("no-math"); noMath {
		cfg.Format.PreserveMath = false
	}
	cfg.Output.PreserveMetadata, _ = cmd.Flags().GetBool("metadata")
	if mf, _ := cmd.Flags().GetString("metadata-format"); mf != "" {
		cfg.Output.MetadataFormat = mf
	}
	cfg.Output.CreateZipArchive, _ = cmd.Flags().GetBool("zip")
	cfg.History.SkipExisting, _ = cmd.Flags().GetBool("skip-existing")

	if err := cfg.Validate(); err != nil {
		return err
	}

	ledger, err := history.Open(cfg.History.DataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: conversion history unavailable: %v\n", err)
		ledger = nil
	} else {
		defer ledger.Close()
	}

	c := convert.New(cfg, ocr.NewClient(cfg.OCR), ledger)

	var result *convert.Result
	if isURL(input) {
		result, err = c.ConvertURL(context.Background(), input, outputDir, os.Stdout)
	} else {
		result, err = c.ConvertFile(context.Background(), input, outputDir, os.Stdout)
	}
	if err != nil {
		return err
	}

	if result.MetadataPath != "" {
		fmt.Printf("metadata: %s\n", result.MetadataPath)
	}
	if result.ArchivePath != "" {
		fmt.Printf("archive: %s\n", result.ArchivePath)
	}
	return nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Copyright Neuromechanist Labs, 2025. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/neuromechanist/markit-mistral/internal/fileproc"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List supported input formats",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Supported input formats:")
		for _, ext := range fileproc.SupportedExtensions() {
			fmt.Printf("  %-6s %s\n", ext, fileproc.MIMEType("x"+ext))
		}
	},
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}

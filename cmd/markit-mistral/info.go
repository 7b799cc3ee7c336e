// Copyright Neuromechanist Labs, 2025. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/neuromechanist/markit-mistral/internal/fileproc"
)

var infoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Show details about an input file",
	Long: `Info inspects a file and reports its type, size, and MIME type as
markit-mistral sees it, without calling the OCR service. Useful for
checking whether a file will be accepted before converting it.`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	infoCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	info, err := fileproc.Info(args[0])
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	fmt.Printf("name:      %s\n", info.Name)
	fmt.Printf("path:      %s\n", info.Path)
	fmt.Printf("type:      %s\n", info.Type)
	fmt.Printf("mime type: %s\n", info.MIMEType)
	fmt.Printf("size:      %d bytes (%.2f MB)\n", info.SizeBytes, info.SizeMB)

	if err := fileproc.Validate(args[0], viper.GetInt("max_file_size_mb")); err != nil {
		fmt.Printf("status:    rejected (%v)\n", err)
	} else {
		fmt.Printf("status:    ok\n")
	}
	return nil
}

// Copyright Neuromechanist Labs, 2025. All rights reserved.

// Package main is the entry point for the markit-mistral CLI, a
// PDF and image to Markdown converter built on the Mistral OCR API.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/neuromechanist/markit-mistral/internal/secrets"
	"github.com/neuromechanist/markit-mistral/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the markit-mistral CLI.
var rootCmd = &cobra.Command{
	Use:   "markit-mistral",
	Short: "Convert PDFs and images to Markdown with Mistral OCR",
	Long: `markit-mistral converts PDF and image files to clean Markdown using the
Mistral OCR API. Math notation is preserved as LaTeX, tables are repaired,
and embedded images are extracted alongside the document or inlined as
base64 data URIs.

Requires a Mistral API key via MISTRAL_API_KEY, --api-key, or the config
file.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./markit-mistral.yaml or ~/.config/markit-mistral/config.yaml)")
	rootCmd.PersistentFlags().String("api-key", "", "Mistral API key (overrides MISTRAL_API_KEY)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("markit-mistral")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "markit-mistral"))
		}
	}

	viper.SetEnvPrefix("MARKIT_MISTRAL")
	viper.AutomaticEnv()

	viper.SetDefault("model", "mistral-ocr-latest")
	viper.SetDefault("max_retries", 3)
	viper.SetDefault("retry_delay", "1s")
	viper.SetDefault("timeout", "120s")
	viper.SetDefault("max_file_size_mb", 50)
	viper.SetDefault("metadata_format", "json")
	viper.SetDefault("data_dir", defaultDataDir())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".markit-mistral"
	}
	return filepath.Join(home, ".local", "share", "markit-mistral")
}

// apiKey resolves the key from the flag, the dedicated environment
// variable, the config file, or a .secrets/ directory, in that order.
func apiKey(cmd *cobra.Command) string {
	if key, _ := cmd.Flags().GetString("api-key"); key != "" {
		return key
	}
	if key := os.Getenv("MISTRAL_API_KEY"); key != "" {
		return key
	}
	if key := viper.GetString("api_key"); key != "" {
		return key
	}
	return secrets.APIKey(".secrets/")
}

// loadConfig assembles the effective configuration from viper. The API
// key is resolved separately and validation is left to the caller, so
// commands that never reach the OCR service can run without a key.
func loadConfig(cmd *cobra.Command) types.Config {
	return types.Config{
		OCR: types.OCRConfig{
			APIKey:     apiKey(cmd),
			Model:      viper.GetString("model"),
			MaxRetries: viper.GetInt("max_retries"),
			RetryDelay: viper.GetDuration("retry_delay"),
			Timeout:    viper.GetDuration("timeout"),
		},
		Format: types.FormatConfig{
			PreserveMath: true,
		},
		Output: types.OutputConfig{
			IncludeImages:    true,
			PreserveMetadata: false,
			MetadataFormat:   viper.GetString("metadata_format"),
			MaxFileSizeMB:    viper.GetInt("max_file_size_mb"),
		},
		History: types.HistoryConfig{
			DataDir: viper.GetString("data_dir"),
		},
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

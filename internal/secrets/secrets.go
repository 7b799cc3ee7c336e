// Copyright Neuromechanist Labs, 2025. All rights reserved.

// Package secrets loads API credentials from a directory of plain-text
// files. Each file in the directory represents one secret: the filename
// is the key name and the file contents (trimmed) are the value. This
// keeps keys out of shell history and config files that get committed.
//
// markit-mistral reads one key file: mistral-api-key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MistralKeyFile is the filename holding the Mistral API key.
const MistralKeyFile = "mistral-api-key"

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files produce a warning on stderr but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// APIKey loads the Mistral API key from dir, or "" when the directory
// or key file is absent.
func APIKey(dir string) string {
	s, err := Load(dir)
	if err != nil {
		return ""
	}
	return s[MistralKeyFile]
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys and credentials from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key name and the
// file contents (trimmed) are the value.
//
// Supported key files: github-token, r2-access-key-id, r2-secret-access-key, r2-endpoint.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ConfigKeys maps secret file names to the configuration keys they fill.
var ConfigKeys = map[string]string{
	"github-token":         "roster.token",
	"r2-access-key-id":     "storage.access_key_id",
	"r2-secret-access-key": "storage.secret_access_key",
	"r2-endpoint":          "storage.endpoint",
}

// ConfigValues returns the loaded secrets keyed by the configuration key
// each one fills. Unknown secret files are ignored.
func ConfigValues(secrets map[string]string) map[string]string {
	out := make(map[string]string)
	for name, value := range secrets {
		if key, ok := ConfigKeys[name]; ok {
			out[key] = value
		}
	}
	return out
}

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

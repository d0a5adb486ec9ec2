// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials from a directory of plain-text files
// and an optional .env file. Each file in the directory is one secret: the
// filename is the key name and the trimmed contents are the value.
//
// Supported key files: sentiment-api-key, archive-user-agent.
package secrets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
)

// Key files read from the secrets directory.
const (
	SentimentAPIKey  = "sentiment-api-key"
	ArchiveUserAgent = "archive-user-agent"
)

// EnvPrefix namespaces the environment fallback for each key, e.g.
// NEWS_SENTIMENT_SENTIMENT_API_KEY.
const EnvPrefix = "NEWS_SENTIMENT_"

// Store maps secret names to values.
type Store map[string]string

// LoadDotenv loads path into the process environment without overriding
// variables that are already set. A missing file is not an error; the
// returned bool reports whether the file was read.
func LoadDotenv(path string) (bool, error) {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("loading %s: %w", path, err)
	}
	return true, nil
}

// Load reads all files in dir and returns them as a Store.
// A missing directory is not an error; Load returns an empty Store.
// Unreadable files produce a warning on stderr but do not abort.
func Load(dir string) (Store, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Store{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	s := make(Store)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			s[name] = value
		}
	}
	return s, nil
}

// Get returns the value for key. A file in the secrets directory wins over
// the environment variable EnvName(key).
func (s Store) Get(key string) string {
	if v, ok := s[key]; ok {
		return v
	}
	return strings.TrimSpace(os.Getenv(EnvName(key)))
}

// Keys returns the loaded secret names in sorted order.
func (s Store) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// EnvName returns the environment variable consulted for key.
func EnvName(key string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}

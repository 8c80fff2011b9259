// Package snapshot persists fetched dataset payloads as pretty-printed
// JSON files, giving loads an offline source and a debugging artifact.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/MichalMlada/ETL-spacex/pkg/record"
)

// indent matches the original snapshot format so existing files diff
// cleanly against new ones.
const indent = "    "

// Path returns the snapshot file for a dataset inside dir.
func Path(dir, name string) string {
	return filepath.Join(dir, name+".json")
}

// Write stores a dataset snapshot, creating dir as needed.
func Write(dir, name string, records []map[string]any) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	data, err := json.MarshalIndent(records, "", indent)
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot %s: %w", name, err)
	}

	path := Path(dir, name)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("failed to write snapshot %s: %w", name, err)
	}
	return path, nil
}

// Read loads a dataset snapshot. Decoding goes through record.Decode so
// offline loads see the same numeric fidelity as online ones.
func Read(dir, name string) ([]map[string]any, error) {
	path := Path(dir, name)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	records, err := record.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", path, err)
	}
	return records, nil
}

// List returns the dataset names with a snapshot in dir, sorted. A
// missing directory is an empty listing, not an error.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read snapshot directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
	}
	sort.Strings(names)
	return names, nil
}

package snapshot

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAndRead(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")

	records := []map[string]any{
		{"id": "5eb87cd9ffd86e000604b32a", "flight_number": 1, "name": "FalconSat"},
	}

	path, err := Write(dir, "launches", records)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "launches.json"), path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "[\n    {"), "snapshot should be four-space indented")

	got, err := Read(dir, "launches")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "FalconSat", got[0]["name"])
	assert.Equal(t, json.Number("1"), got[0]["flight_number"])
}

func TestRead_MissingSnapshot(t *testing.T) {
	_, err := Read(t.TempDir(), "launches")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open snapshot")
}

func TestList(t *testing.T) {
	dir := t.TempDir()

	_, err := Write(dir, "payloads", nil)
	require.NoError(t, err)
	_, err = Write(dir, "launches", nil)
	require.NoError(t, err)

	// Files that are not snapshots are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive.json"), 0o755))

	names, err := List(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"launches", "payloads"}, names)
}

func TestList_MissingDirectory(t *testing.T) {
	names, err := List(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, names)
}

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_ScoreFillsCacheAndClearEmptiesIt(t *testing.T) {
	dir := inTempProject(t, `
cache:
  enabled: true
  dir: vectors
`)

	// Missing must-have keywords trigger the semantic fallback, which embeds.
	_, _, err := runCLI(t, nil, "score", "--text", "Hello everyone. I love music.", "-f", "json")
	require.NoError(t, err)

	out, _, err := runCLI(t, nil, "cache", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "cached vector(s)")
	assert.NotContains(t, out, ": 0 cached")

	out, _, err = runCLI(t, nil, "cache", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Cache cleared: ")

	_, err = os.Stat(filepath.Join(dir, "vectors"))
	assert.True(t, os.IsNotExist(err))
}

func TestCache_ClearExplicitDir(t *testing.T) {
	dir := inTempProject(t, "")
	target := filepath.Join(dir, "elsewhere")

	out, _, err := runCLI(t, nil, "cache", "clear", "--cache-dir", target)
	require.NoError(t, err)
	assert.Contains(t, out, target)
}

func TestCache_ClearRefusesForeignFiles(t *testing.T) {
	dir := inTempProject(t, "")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("keep"), 0o644))

	_, _, err := runCLI(t, nil, "cache", "clear", "--cache-dir", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refusing to delete")
	assert.FileExists(t, filepath.Join(dir, "notes.txt"))
}

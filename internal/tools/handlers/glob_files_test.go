package handlers

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlobFiles_MostRecentFirst(t *testing.T) {
	env, ws := testEnv(t)
	now := time.Now()

	oldest := writeTestFile(t, ws, "oldest.txt", "")
	middle := writeTestFile(t, ws, "middle.txt", "")
	newest := writeTestFile(t, ws, "newest.txt", "")
	require.NoError(t, os.Chtimes(oldest, now, now.Add(-3*time.Hour)))
	require.NoError(t, os.Chtimes(middle, now, now.Add(-2*time.Hour)))
	require.NoError(t, os.Chtimes(newest, now, now.Add(-1*time.Hour)))

	out := invoke(t, NewGlobFilesTool(env), map[string]interface{}{
		"pattern":   "*.txt",
		"directory": ws,
	})

	require.True(t, *out.Success)
	iNew := strings.Index(out.Content, "newest.txt")
	iMid := strings.Index(out.Content, "middle.txt")
	iOld := strings.Index(out.Content, "oldest.txt")
	require.True(t, iNew >= 0 && iMid >= 0 && iOld >= 0, "all files listed: %s", out.Content)
	assert.Less(t, iNew, iMid)
	assert.Less(t, iMid, iOld)
}

func TestGlobFiles_NoFilesFound(t *testing.T) {
	env, ws := testEnv(t)
	writeTestFile(t, ws, "a.go", "")

	out := invoke(t, NewGlobFilesTool(env), map[string]interface{}{
		"pattern":   "*.zig",
		"directory": ws,
	})

	require.True(t, *out.Success)
	assert.Equal(t, "No files found.", out.Content)
}

func TestGlobFiles_InvalidPatternRejected(t *testing.T) {
	env, ws := testEnv(t)

	tool := NewGlobFilesTool(env)
	_, err := tool.Handle(context.Background(), invocationFor(tool, map[string]interface{}{
		"pattern":   "[",
		"directory": ws,
	}))
	require.Error(t, err)
}

func TestWalkFileList_BareNamePatternMatchesAnywhere(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "pkg", "deep"), 0o755))
	writeTestFile(t, filepath.Join(dir, "pkg", "deep"), "handler.go", "")
	writeTestFile(t, dir, "main.go", "")
	writeTestFile(t, dir, "notes.md", "")

	hits, err := walkFileList(context.Background(), dir, "*.go", 100)
	require.NoError(t, err)

	paths := make([]string, len(hits))
	for i, h := range hits {
		paths[i] = h.path
	}
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "main.go"),
		filepath.Join(dir, "pkg", "deep", "handler.go"),
	}, paths)
}

func TestWalkFileList_SkipsDependencyDirs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "vendor"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o755))
	writeTestFile(t, filepath.Join(dir, "vendor"), "dep.go", "")
	writeTestFile(t, filepath.Join(dir, ".git"), "config.go", "")
	writeTestFile(t, dir, "app.go", "")

	hits, err := walkFileList(context.Background(), dir, "**/*.go", 100)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, filepath.Join(dir, "app.go"), hits[0].path)
}

func TestWalkFileList_HonorsLimit(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.go", "b.go", "c.go", "d.go"} {
		writeTestFile(t, dir, name, "")
	}

	hits, err := walkFileList(context.Background(), dir, "*.go", 2)
	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

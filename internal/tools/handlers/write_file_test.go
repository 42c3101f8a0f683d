package handlers

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFile_CreatesParentDirs(t *testing.T) {
	env, ws := testEnv(t)
	path := filepath.Join(ws, "deep", "nested", "out.txt")

	out := invoke(t, NewWriteFileTool(env), map[string]interface{}{
		"path":    path,
		"content": "hello",
	})

	require.True(t, *out.Success)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestWriteFile_Overwrites(t *testing.T) {
	env, ws := testEnv(t)
	path := writeTestFile(t, ws, "file.txt", "old")

	out := invoke(t, NewWriteFileTool(env), map[string]interface{}{
		"path":    path,
		"content": "new",
	})

	require.True(t, *out.Success)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestWriteFile_PreviewIsBounded(t *testing.T) {
	env, ws := testEnv(t)
	content := strings.Repeat("x", 5000)

	out := invoke(t, NewWriteFileTool(env), map[string]interface{}{
		"path":    filepath.Join(ws, "big.txt"),
		"content": content,
	})

	require.True(t, *out.Success)
	assert.Less(t, len(out.Content), 1500)
	assert.Contains(t, out.Content, "preview truncated")
	assert.Contains(t, out.Content, "Wrote 5000 bytes")
}

func TestWriteFile_TraversalRejected(t *testing.T) {
	env, _ := testEnv(t)

	out := invoke(t, NewWriteFileTool(env), map[string]interface{}{
		"path":    "/etc/evil.conf",
		"content": "x",
	})

	require.NotNil(t, out.Success)
	assert.False(t, *out.Success)
	assert.Contains(t, out.Content, "outside the allowed boundary")
}

func TestWriteFile_EmptyContentAllowed(t *testing.T) {
	env, ws := testEnv(t)
	path := filepath.Join(ws, "empty.txt")

	out := invoke(t, NewWriteFileTool(env), map[string]interface{}{
		"path":    path,
		"content": "",
	})

	require.True(t, *out.Success)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}

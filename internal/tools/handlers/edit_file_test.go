package handlers

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditFile_SingleReplacement(t *testing.T) {
	env, ws := testEnv(t)
	path := writeTestFile(t, ws, "main.go", "func old() {}\n")

	out := invoke(t, NewEditFileTool(env), map[string]interface{}{
		"path":       path,
		"old_string": "func old()",
		"new_string": "func renamed()",
	})

	require.True(t, *out.Success)
	assert.Contains(t, out.Content, "Replaced 1 occurrence")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "func renamed() {}\n", string(data))
}

func TestEditFile_NotFound(t *testing.T) {
	env, ws := testEnv(t)
	path := writeTestFile(t, ws, "main.go", "content\n")

	out := invoke(t, NewEditFileTool(env), map[string]interface{}{
		"path":       path,
		"old_string": "absent",
		"new_string": "anything",
	})

	require.NotNil(t, out.Success)
	assert.False(t, *out.Success)
	assert.Contains(t, out.Content, "not found")
}

func TestEditFile_AmbiguousReportsCount(t *testing.T) {
	env, ws := testEnv(t)
	path := writeTestFile(t, ws, "main.go", "x = 1\nx = 1\nx = 1\n")

	out := invoke(t, NewEditFileTool(env), map[string]interface{}{
		"path":       path,
		"old_string": "x = 1",
		"new_string": "x = 2",
	})

	require.NotNil(t, out.Success)
	assert.False(t, *out.Success)
	assert.Contains(t, out.Content, "occurs 3 times")

	// File untouched by the failed edit.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "x = 1\nx = 1\nx = 1\n", string(data))
}

func TestEditFile_ReplaceAll(t *testing.T) {
	env, ws := testEnv(t)
	path := writeTestFile(t, ws, "main.go", "x = 1\nx = 1\nx = 1\n")

	out := invoke(t, NewEditFileTool(env), map[string]interface{}{
		"path":        path,
		"old_string":  "x = 1",
		"new_string":  "x = 2",
		"replace_all": true,
	})

	require.True(t, *out.Success)
	assert.Contains(t, out.Content, "Replaced 3 occurrence")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "x = 2\nx = 2\nx = 2\n", string(data))
}

func TestEditFile_IdenticalStringsRejected(t *testing.T) {
	env, ws := testEnv(t)
	path := writeTestFile(t, ws, "main.go", "content\n")

	tool := NewEditFileTool(env)
	_, err := tool.Handle(t.Context(), invocationFor(tool, map[string]interface{}{
		"path":       path,
		"old_string": "same",
		"new_string": "same",
	}))
	require.Error(t, err)
}

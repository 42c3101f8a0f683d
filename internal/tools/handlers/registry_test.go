package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moldable-ai/agent-sandbox/internal/tools"
)

func TestNewRegistry_FullSurface(t *testing.T) {
	env, _ := testEnv(t)
	r := NewRegistry(env)

	assert.Equal(t, 10, r.ToolCount())
	for _, name := range []string{
		"read_file", "write_file", "edit_file", "delete_file",
		"list_dir", "file_exists", "grep", "glob_files",
		"shell", "read_output",
	} {
		assert.True(t, r.HasTool(name), name)
	}
}

func TestRouter_SpecsMatchRegisteredTools(t *testing.T) {
	env, _ := testEnv(t)
	router := NewRouter(env)

	specs := router.GetToolSpecs()
	require.Len(t, specs, router.Registry().ToolCount())
	for _, spec := range specs {
		assert.True(t, router.Registry().HasTool(spec.Name), spec.Name)
	}
}

func TestRouter_UnknownToolRejected(t *testing.T) {
	env, _ := testEnv(t)
	router := NewRouter(env)

	_, err := router.DispatchToolCall(context.Background(), &tools.ToolInvocation{
		CallID:   "test-call",
		ToolName: "launch_missiles",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tool not found")
}

func TestRouter_NeedsApprovalRouting(t *testing.T) {
	env, _ := testEnv(t)
	router := NewRouter(env)

	assert.True(t, router.NeedsApproval(&tools.ToolInvocation{
		ToolName:  "shell",
		Arguments: map[string]interface{}{"command": "sudo apt install curl"},
	}))
	assert.False(t, router.NeedsApproval(&tools.ToolInvocation{
		ToolName:  "shell",
		Arguments: map[string]interface{}{"command": "cat README.md"},
	}))
	assert.False(t, router.NeedsApproval(&tools.ToolInvocation{
		ToolName:  "read_file",
		Arguments: map[string]interface{}{"path": "/tmp/x"},
	}))
	// Unknown tools never need approval; dispatch rejects them instead.
	assert.False(t, router.NeedsApproval(&tools.ToolInvocation{
		ToolName: "launch_missiles",
	}))
}

func TestRouter_DispatchExecutesHandler(t *testing.T) {
	env, ws := testEnv(t)
	router := NewRouter(env)
	path := writeTestFile(t, ws, "routed.txt", "via router\n")

	out, err := router.DispatchToolCall(context.Background(), &tools.ToolInvocation{
		CallID:    "test-call",
		ToolName:  "read_file",
		Arguments: map[string]interface{}{"path": path},
	})
	require.NoError(t, err)
	require.True(t, *out.Success)
	assert.Contains(t, out.Content, "via router")
}

//go:build linux || darwin

package handlers

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moldable-ai/agent-sandbox/internal/exec"
	"github.com/moldable-ai/agent-sandbox/internal/tools"
)

func TestShell_Success(t *testing.T) {
	env, _ := testEnv(t)

	out := invoke(t, NewShellTool(env), map[string]interface{}{
		"command": "echo hello world",
	})

	require.True(t, *out.Success)
	assert.Contains(t, out.Content, "hello world")
	assert.Contains(t, out.Content, "(ran unsandboxed)")
}

func TestShell_NonZeroExitIsFailureData(t *testing.T) {
	env, _ := testEnv(t)

	out := invoke(t, NewShellTool(env), map[string]interface{}{
		"command": "echo oops >&2; exit 3",
	})

	require.NotNil(t, out.Success)
	assert.False(t, *out.Success)
	assert.Contains(t, out.Content, "oops")
	assert.Contains(t, out.Content, "(exit code 3)")
}

func TestShell_TimeoutKills(t *testing.T) {
	env, _ := testEnv(t)

	start := time.Now()
	out := invoke(t, NewShellTool(env), map[string]interface{}{
		"command":    "sleep 30",
		"timeout_ms": float64(200),
	})
	elapsed := time.Since(start)

	require.NotNil(t, out.Success)
	assert.False(t, *out.Success)
	assert.Contains(t, out.Content, "(command killed")
	assert.Less(t, elapsed, 10*time.Second)
}

func TestShell_OutputTruncatedByOverflow(t *testing.T) {
	env, _ := testEnv(t)

	out := invoke(t, NewShellTool(env), map[string]interface{}{
		"command": "seq 1 2000",
	})

	require.True(t, *out.Success)
	assert.Contains(t, out.Content, "Output truncated")
	assert.Contains(t, out.Content, env.OutputDir)
}

func TestShell_SpawnFailureSurfaced(t *testing.T) {
	env, _ := testEnv(t)
	tool := NewShellTool(env)

	out, err := tool.Handle(t.Context(), &tools.ToolInvocation{
		CallID:    "test-call",
		ToolName:  tool.Name(),
		Arguments: map[string]interface{}{"command": "true"},
		Cwd:       "/nonexistent-dir-xyz",
	})
	require.NoError(t, err)

	require.NotNil(t, out.Success)
	assert.False(t, *out.Success)
	assert.Contains(t, out.Content, "(failed to run command:")
}

func TestShell_SignalTerminationSurfaced(t *testing.T) {
	env, _ := testEnv(t)

	out := invoke(t, NewShellTool(env), map[string]interface{}{
		"command": "kill -TERM $$",
	})

	require.NotNil(t, out.Success)
	assert.False(t, *out.Success)
	assert.Contains(t, out.Content, "(terminated by signal SIGTERM)")
}

func TestShell_StderrSurvivesOutputContention(t *testing.T) {
	env, _ := testEnv(t)
	tool := NewShellTool(env)

	res := &exec.Result{
		Success: true,
		Stdout:  strings.Repeat("a", exec.ExecOutputMaxBytes),
		Stderr:  strings.Repeat("b", exec.ExecOutputMaxBytes),
	}
	_, err := tool.renderResult("noisy", res)
	require.NoError(t, err)

	// The saved overflow file holds the aggregated output: stderr keeps the
	// larger share when both streams exceed the cap together.
	entries, err := os.ReadDir(env.OutputDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	saved, err := os.ReadFile(filepath.Join(env.OutputDir, entries[0].Name()))
	require.NoError(t, err)

	stdoutShare := exec.ExecOutputMaxBytes / 3
	assert.Equal(t, stdoutShare, strings.Count(string(saved), "a"))
	assert.Equal(t, exec.ExecOutputMaxBytes-stdoutShare, strings.Count(string(saved), "b"))
}

func TestShell_NeedsApproval(t *testing.T) {
	env, _ := testEnv(t)
	tool := NewShellTool(env)

	assert.False(t, tool.NeedsApproval(invocationFor(tool, map[string]interface{}{
		"command": "ls -la",
	})))
	assert.True(t, tool.NeedsApproval(invocationFor(tool, map[string]interface{}{
		"command": "rm -rf /var/data",
	})))
	assert.True(t, tool.NeedsApproval(invocationFor(tool, map[string]interface{}{
		"command":         "ls -la",
		"disable_sandbox": true,
	})))

	// A malformed invocation is not flagged; dispatch rejects it instead.
	assert.False(t, tool.NeedsApproval(invocationFor(tool, map[string]interface{}{})))
}

func TestShell_NeedsApprovalWhenSandboxGloballyDisabled(t *testing.T) {
	env, _ := testEnv(t)
	env.SandboxDisabled = true
	tool := NewShellTool(env)

	assert.True(t, tool.NeedsApproval(invocationFor(tool, map[string]interface{}{
		"command": "ls -la",
	})))
}

func TestShell_InvalidTimeoutRejected(t *testing.T) {
	env, _ := testEnv(t)
	tool := NewShellTool(env)

	_, err := tool.Handle(t.Context(), invocationFor(tool, map[string]interface{}{
		"command":    "echo hi",
		"timeout_ms": float64(0),
	}))
	require.Error(t, err)
}

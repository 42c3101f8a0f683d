package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/moldable-ai/agent-sandbox/internal/tools"
)

// DeleteFileTool deletes a single file.
type DeleteFileTool struct {
	env *Env
}

// NewDeleteFileTool creates a new delete_file tool handler.
func NewDeleteFileTool(env *Env) *DeleteFileTool {
	return &DeleteFileTool{env: env}
}

func (t *DeleteFileTool) Name() string { return "delete_file" }

func (t *DeleteFileTool) Kind() tools.ToolKind { return tools.ToolKindFunction }

func (t *DeleteFileTool) IsMutating(*tools.ToolInvocation) bool { return true }

func (t *DeleteFileTool) NeedsApproval(*tools.ToolInvocation) bool { return false }

func (t *DeleteFileTool) Handle(_ context.Context, invocation *tools.ToolInvocation) (*tools.ToolOutput, error) {
	path, err := stringArg(invocation.Arguments, "path")
	if err != nil {
		return nil, err
	}

	resolved, failed := t.env.resolvePath(path)
	if failed != nil {
		return failed, nil
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return tools.Fail(fmt.Sprintf("Failed to delete file: %v", err)), nil
	}
	if info.IsDir() {
		return tools.Fail(fmt.Sprintf("%s is a directory, not a file", resolved)), nil
	}
	if err := os.Remove(resolved); err != nil {
		return tools.Fail(fmt.Sprintf("Failed to delete file: %v", err)), nil
	}

	return tools.Ok(fmt.Sprintf("Deleted %s", resolved)), nil
}

package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/moldable-ai/agent-sandbox/internal/tools"
)

// FileExistsTool checks whether a path exists.
type FileExistsTool struct {
	env *Env
}

// NewFileExistsTool creates a new file_exists tool handler.
func NewFileExistsTool(env *Env) *FileExistsTool {
	return &FileExistsTool{env: env}
}

func (t *FileExistsTool) Name() string { return "file_exists" }

func (t *FileExistsTool) Kind() tools.ToolKind { return tools.ToolKindFunction }

func (t *FileExistsTool) IsMutating(*tools.ToolInvocation) bool { return false }

func (t *FileExistsTool) NeedsApproval(*tools.ToolInvocation) bool { return false }

func (t *FileExistsTool) Handle(_ context.Context, invocation *tools.ToolInvocation) (*tools.ToolOutput, error) {
	path, err := stringArg(invocation.Arguments, "path")
	if err != nil {
		return nil, err
	}

	resolved, failed := t.env.resolvePath(path)
	if failed != nil {
		return failed, nil
	}

	info, err := os.Stat(resolved)
	switch {
	case err == nil && info.IsDir():
		return tools.Ok(fmt.Sprintf("%s exists (directory)", resolved)), nil
	case err == nil:
		return tools.Ok(fmt.Sprintf("%s exists (file)", resolved)), nil
	case os.IsNotExist(err):
		return tools.Ok(fmt.Sprintf("%s does not exist", resolved)), nil
	default:
		return tools.Fail(fmt.Sprintf("Failed to stat %s: %v", resolved, err)), nil
	}
}

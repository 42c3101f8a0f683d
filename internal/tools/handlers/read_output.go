package handlers

import (
	"context"
	"fmt"

	"github.com/moldable-ai/agent-sandbox/internal/overflow"
	"github.com/moldable-ai/agent-sandbox/internal/tools"
)

// ReadOutputTool pages through saved overflow files.
type ReadOutputTool struct {
	env *Env
}

// NewReadOutputTool creates a new read_output tool handler.
func NewReadOutputTool(env *Env) *ReadOutputTool {
	return &ReadOutputTool{env: env}
}

func (t *ReadOutputTool) Name() string { return "read_output" }

func (t *ReadOutputTool) Kind() tools.ToolKind { return tools.ToolKindFunction }

func (t *ReadOutputTool) IsMutating(*tools.ToolInvocation) bool { return false }

func (t *ReadOutputTool) NeedsApproval(*tools.ToolInvocation) bool { return false }

func (t *ReadOutputTool) Handle(_ context.Context, invocation *tools.ToolInvocation) (*tools.ToolOutput, error) {
	path, err := stringArg(invocation.Arguments, "path")
	if err != nil {
		return nil, err
	}
	offset, err := intArgOrDefault(invocation.Arguments, "offset", 0)
	if err != nil {
		return nil, err
	}
	if offset < 0 {
		return nil, tools.NewValidationError("offset must not be negative")
	}
	limit, err := intArgOrDefault(invocation.Arguments, "limit", t.env.Limits.MaxLines)
	if err != nil {
		return nil, err
	}
	if limit < 1 {
		return nil, tools.NewValidationError("limit must be greater than zero")
	}

	resolved, failed := t.env.resolvePath(path)
	if failed != nil {
		return failed, nil
	}

	page, err := overflow.ReadSaved(resolved, overflow.PageOptions{Offset: offset, Limit: limit})
	if err != nil {
		return tools.Fail(fmt.Sprintf("Failed to read saved output: %v", err)), nil
	}

	content := page.Content
	if page.HasMore {
		content += fmt.Sprintf(
			"\n\n(showing lines %d-%d of %d; continue with offset=%d)",
			offset+1, offset+page.ReturnedLines, page.TotalLines, offset+page.ReturnedLines)
	}
	return tools.Ok(content), nil
}

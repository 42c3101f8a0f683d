package handlers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/moldable-ai/agent-sandbox/internal/tools"
)

// Preview ceilings for write confirmations.
const (
	writePreviewLines = 20
	writePreviewChars = 1000
)

// WriteFileTool writes a file, creating parent directories as needed.
type WriteFileTool struct {
	env *Env
}

// NewWriteFileTool creates a new write_file tool handler.
func NewWriteFileTool(env *Env) *WriteFileTool {
	return &WriteFileTool{env: env}
}

func (t *WriteFileTool) Name() string { return "write_file" }

func (t *WriteFileTool) Kind() tools.ToolKind { return tools.ToolKindFunction }

func (t *WriteFileTool) IsMutating(*tools.ToolInvocation) bool { return true }

func (t *WriteFileTool) NeedsApproval(*tools.ToolInvocation) bool { return false }

// Handle writes the content and returns a bounded preview rather than
// echoing the full content back into the conversation.
func (t *WriteFileTool) Handle(_ context.Context, invocation *tools.ToolInvocation) (*tools.ToolOutput, error) {
	path, err := stringArg(invocation.Arguments, "path")
	if err != nil {
		return nil, err
	}
	contentArg, ok := invocation.Arguments["content"]
	if !ok {
		return nil, tools.NewValidationError("missing required argument: content")
	}
	content, ok := contentArg.(string)
	if !ok {
		return nil, tools.NewValidationError("content must be a string")
	}

	resolved, failed := t.env.resolvePath(path)
	if failed != nil {
		return failed, nil
	}

	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return tools.Fail(fmt.Sprintf("Failed to create parent directories: %v", err)), nil
	}
	if err := atomicWrite(resolved, []byte(content)); err != nil {
		return tools.Fail(fmt.Sprintf("Failed to write file: %v", err)), nil
	}

	preview, truncated := previewContent(content)
	out := fmt.Sprintf("Wrote %d bytes to %s\n%s", len(content), resolved, preview)
	if truncated {
		out += "\n... (preview truncated)"
	}
	return tools.Ok(out), nil
}

// atomicWrite writes via a temp file in the same directory plus rename, so
// readers never observe a partially written file.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp := filepath.Join(dir, "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// previewContent bounds content to the preview ceilings.
func previewContent(content string) (string, bool) {
	truncated := false
	lines := strings.Split(content, "\n")
	if len(lines) > writePreviewLines {
		content = strings.Join(lines[:writePreviewLines], "\n")
		truncated = true
	}
	if len(content) > writePreviewChars {
		content = content[:writePreviewChars]
		truncated = true
	}
	return content, truncated
}

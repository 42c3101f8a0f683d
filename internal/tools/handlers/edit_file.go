package handlers

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/moldable-ai/agent-sandbox/internal/tools"
)

// EditFileTool performs an exact-string replacement in a file.
type EditFileTool struct {
	env *Env
}

// NewEditFileTool creates a new edit_file tool handler.
func NewEditFileTool(env *Env) *EditFileTool {
	return &EditFileTool{env: env}
}

func (t *EditFileTool) Name() string { return "edit_file" }

func (t *EditFileTool) Kind() tools.ToolKind { return tools.ToolKindFunction }

func (t *EditFileTool) IsMutating(*tools.ToolInvocation) bool { return true }

func (t *EditFileTool) NeedsApproval(*tools.ToolInvocation) bool { return false }

// Handle replaces old_string with new_string. The edit fails when
// old_string is absent, or occurs more than once without replace_all; the
// ambiguity failure reports the occurrence count so the model can add
// context to the next attempt.
func (t *EditFileTool) Handle(_ context.Context, invocation *tools.ToolInvocation) (*tools.ToolOutput, error) {
	path, err := stringArg(invocation.Arguments, "path")
	if err != nil {
		return nil, err
	}
	oldString, err := stringArg(invocation.Arguments, "old_string")
	if err != nil {
		return nil, err
	}
	newArg, ok := invocation.Arguments["new_string"]
	if !ok {
		return nil, tools.NewValidationError("missing required argument: new_string")
	}
	newString, ok := newArg.(string)
	if !ok {
		return nil, tools.NewValidationError("new_string must be a string")
	}
	replaceAll, err := boolArg(invocation.Arguments, "replace_all")
	if err != nil {
		return nil, err
	}
	if oldString == newString {
		return nil, tools.NewValidationError("new_string must differ from old_string")
	}

	resolved, failed := t.env.resolvePath(path)
	if failed != nil {
		return failed, nil
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return tools.Fail(fmt.Sprintf("Failed to read file: %v", err)), nil
	}
	content := string(data)

	count := strings.Count(content, oldString)
	switch {
	case count == 0:
		return tools.Fail(fmt.Sprintf("old_string not found in %s", resolved)), nil
	case count > 1 && !replaceAll:
		return tools.Fail(fmt.Sprintf(
			"old_string occurs %d times in %s; provide more context or set replace_all", count, resolved)), nil
	}

	replacements := 1
	if replaceAll {
		content = strings.ReplaceAll(content, oldString, newString)
		replacements = count
	} else {
		content = strings.Replace(content, oldString, newString, 1)
	}

	if err := atomicWrite(resolved, []byte(content)); err != nil {
		return tools.Fail(fmt.Sprintf("Failed to write file: %v", err)), nil
	}

	return tools.Ok(fmt.Sprintf("Replaced %d occurrence(s) in %s", replacements, resolved)), nil
}

package handlers

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/moldable-ai/agent-sandbox/internal/overflow"
	"github.com/moldable-ai/agent-sandbox/internal/tools"
)

// ListDirTool lists a directory's visible entries.
type ListDirTool struct {
	env *Env
}

// NewListDirTool creates a new list_dir tool handler.
func NewListDirTool(env *Env) *ListDirTool {
	return &ListDirTool{env: env}
}

func (t *ListDirTool) Name() string { return "list_dir" }

func (t *ListDirTool) Kind() tools.ToolKind { return tools.ToolKindFunction }

func (t *ListDirTool) IsMutating(*tools.ToolInvocation) bool { return false }

func (t *ListDirTool) NeedsApproval(*tools.ToolInvocation) bool { return false }

// Handle lists the directory. Hidden entries are filtered; directories sort
// before files, each group lexicographically.
func (t *ListDirTool) Handle(_ context.Context, invocation *tools.ToolInvocation) (*tools.ToolOutput, error) {
	path, err := stringArg(invocation.Arguments, "path")
	if err != nil {
		return nil, err
	}

	resolved, failed := t.env.resolvePath(path)
	if failed != nil {
		return failed, nil
	}

	entries, err := os.ReadDir(resolved)
	if err != nil {
		return tools.Fail(fmt.Sprintf("Failed to read directory: %v", err)), nil
	}

	var names []string
	for _, de := range entries {
		if strings.HasPrefix(de.Name(), ".") {
			continue
		}
		if de.IsDir() {
			names = append(names, de.Name()+"/")
		} else {
			names = append(names, de.Name())
		}
	}

	sort.Slice(names, func(i, j int) bool {
		iDir := strings.HasSuffix(names[i], "/")
		jDir := strings.HasSuffix(names[j], "/")
		if iDir != jDir {
			return iDir
		}
		return names[i] < names[j]
	})

	if len(names) == 0 {
		return tools.Ok(fmt.Sprintf("Directory: %s\n(empty)", resolved)), nil
	}

	res, err := overflow.TruncateArray(names, overflow.ArrayOptions[string]{
		MaxItems:  t.env.Limits.MaxItems,
		OutputDir: t.env.OutputDir,
		Metadata:  map[string]string{"tool": "list_dir", "directory": resolved},
	})
	if err != nil {
		return nil, err
	}

	out := fmt.Sprintf("Directory: %s\n%s", resolved, strings.Join(res.Items, "\n"))
	if res.Truncated {
		out += "\n\n" + res.Message
	}
	return tools.Ok(out), nil
}

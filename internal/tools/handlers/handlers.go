// Package handlers contains the built-in tool handler implementations.
package handlers

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/moldable-ai/agent-sandbox/internal/boundary"
	"github.com/moldable-ai/agent-sandbox/internal/exec"
	"github.com/moldable-ai/agent-sandbox/internal/overflow"
	"github.com/moldable-ai/agent-sandbox/internal/tools"
)

// Env carries the per-session collaborators shared by every handler:
// the path boundary, the overflow store location, output ceilings, and the
// command executor. Immutable after construction.
type Env struct {
	Boundary *boundary.SecurityBoundary

	// OutputDir is the overflow store directory. Empty disables persistence;
	// truncated results then advise narrowing the query instead.
	OutputDir string

	Limits   overflow.Limits
	Executor *exec.Executor

	// SandboxDisabled marks the whole session as running without a sandbox,
	// which forces shell commands through approval.
	SandboxDisabled bool

	// DangerousPatterns are caller-supplied additions to the built-in
	// dangerous-command regexes.
	DangerousPatterns []*regexp.Regexp

	Logger *zap.Logger
}

// NewRegistry builds a tool registry with the full handler surface wired to
// env.
func NewRegistry(env *Env) *tools.ToolRegistry {
	r := tools.NewToolRegistry()
	r.Register(NewReadFileTool(env))
	r.Register(NewWriteFileTool(env))
	r.Register(NewEditFileTool(env))
	r.Register(NewDeleteFileTool(env))
	r.Register(NewListDirTool(env))
	r.Register(NewFileExistsTool(env))
	r.Register(NewGrepTool(env))
	r.Register(NewGlobFilesTool(env))
	r.Register(NewShellTool(env))
	r.Register(NewReadOutputTool(env))
	return r
}

// NewRouter builds a router over NewRegistry with the full spec surface.
func NewRouter(env *Env) *tools.ToolRouter {
	return tools.NewToolRouter(NewRegistry(env), tools.AllToolSpecs())
}

// stringArg extracts a required string argument.
func stringArg(args map[string]interface{}, name string) (string, error) {
	v, ok := args[name]
	if !ok {
		return "", tools.NewValidationErrorf("missing required argument: %s", name)
	}
	s, ok := v.(string)
	if !ok {
		return "", tools.NewValidationErrorf("%s must be a string", name)
	}
	if s == "" {
		return "", tools.NewValidationErrorf("%s cannot be empty", name)
	}
	return s, nil
}

// optionalStringArg extracts an optional string argument, trimmed.
func optionalStringArg(args map[string]interface{}, name string) (string, error) {
	v, ok := args[name]
	if !ok {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", tools.NewValidationErrorf("%s must be a string", name)
	}
	return strings.TrimSpace(s), nil
}

// intArgOrDefault extracts an integer argument with a default value.
func intArgOrDefault(args map[string]interface{}, name string, defaultVal int) (int, error) {
	v, ok := args[name]
	if !ok {
		return defaultVal, nil
	}
	switch n := v.(type) {
	case float64:
		return int(n), nil
	case int:
		return n, nil
	default:
		return 0, tools.NewValidationErrorf("%s must be a number", name)
	}
}

// boolArg extracts an optional boolean argument.
func boolArg(args map[string]interface{}, name string) (bool, error) {
	v, ok := args[name]
	if !ok {
		return false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, tools.NewValidationErrorf("%s must be a boolean", name)
	}
	return b, nil
}

// resolvePath runs path through the session boundary, converting a
// traversal rejection into a failed tool output.
func (e *Env) resolvePath(path string) (string, *tools.ToolOutput) {
	resolved, err := e.Boundary.Resolve(path)
	if err != nil {
		return "", tools.Fail(err.Error())
	}
	return resolved, nil
}

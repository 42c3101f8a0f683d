package handlers

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/moldable-ai/agent-sandbox/internal/boundary"
	"github.com/moldable-ai/agent-sandbox/internal/exec"
	"github.com/moldable-ai/agent-sandbox/internal/overflow"
	"github.com/moldable-ai/agent-sandbox/internal/sandbox"
	"github.com/moldable-ai/agent-sandbox/internal/tools"
)

// testEnv builds a handler environment rooted at a temp workspace with the
// overflow store in a sibling directory.
func testEnv(t *testing.T) (*Env, string) {
	t.Helper()
	workspace := t.TempDir()
	outputDir := t.TempDir()

	// The overflow dir sits outside the workspace; allow it explicitly.
	b, err := boundary.New(workspace, workspace, outputDir)
	if err != nil {
		t.Fatalf("boundary: %v", err)
	}

	return &Env{
		Boundary:  b,
		OutputDir: outputDir,
		Limits:    overflow.DefaultLimits(),
		Executor:  exec.NewExecutor(sandbox.NewNoopManager(), nil, nil, workspace, zap.NewNop()),
		Logger:    zap.NewNop(),
	}, workspace
}

func invocationFor(h tools.ToolHandler, args map[string]interface{}) *tools.ToolInvocation {
	return &tools.ToolInvocation{
		CallID:    "test-call",
		ToolName:  h.Name(),
		Arguments: args,
	}
}

func invoke(t *testing.T, h tools.ToolHandler, args map[string]interface{}) *tools.ToolOutput {
	t.Helper()
	out, err := h.Handle(context.Background(), invocationFor(h, args))
	if err != nil {
		t.Fatalf("%s: %v", h.Name(), err)
	}
	return out
}

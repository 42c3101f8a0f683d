package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/moldable-ai/agent-sandbox/internal/command_safety"
	"github.com/moldable-ai/agent-sandbox/internal/exec"
	"github.com/moldable-ai/agent-sandbox/internal/overflow"
	"github.com/moldable-ai/agent-sandbox/internal/tools"
)

// ShellTool executes shell commands through the sandboxed executor.
type ShellTool struct {
	env *Env
}

// NewShellTool creates a new shell tool handler.
func NewShellTool(env *Env) *ShellTool {
	return &ShellTool{env: env}
}

func (t *ShellTool) Name() string { return "shell" }

func (t *ShellTool) Kind() tools.ToolKind { return tools.ToolKindFunction }

func (t *ShellTool) IsMutating(*tools.ToolInvocation) bool { return true }

// NeedsApproval flags dangerous commands and any request to run without
// sandboxing. The classification is advisory; the host loop owns the gate.
func (t *ShellTool) NeedsApproval(invocation *tools.ToolInvocation) bool {
	command, ok := invocation.Arguments["command"].(string)
	if !ok || command == "" {
		return false // dispatch will reject it
	}
	disableSandbox, _ := invocation.Arguments["disable_sandbox"].(bool)
	return command_safety.RequiresApproval(
		command, disableSandbox || t.env.SandboxDisabled, t.env.DangerousPatterns)
}

// Handle runs the command. The deadline from timeout_ms cancels via context,
// which the executor turns into SIGTERM-then-SIGKILL; a killed command is
// always a failure.
func (t *ShellTool) Handle(ctx context.Context, invocation *tools.ToolInvocation) (*tools.ToolOutput, error) {
	command, err := stringArg(invocation.Arguments, "command")
	if err != nil {
		return nil, err
	}
	disableSandbox, err := boolArg(invocation.Arguments, "disable_sandbox")
	if err != nil {
		return nil, err
	}
	timeoutMs, err := intArgOrDefault(invocation.Arguments, "timeout_ms", int(tools.DefaultShellTimeoutMs))
	if err != nil {
		return nil, err
	}
	if timeoutMs < 1 {
		return nil, tools.NewValidationError("timeout_ms must be greater than zero")
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(timeoutMs)*time.Millisecond)
	defer cancel()

	res := t.env.Executor.Run(ctx, exec.Request{
		Command:        command,
		Cwd:            invocation.Cwd,
		DisableSandbox: disableSandbox || t.env.SandboxDisabled,
	})

	content, err := t.renderResult(command, res)
	if err != nil {
		return nil, err
	}
	if res.Success {
		return tools.Ok(content), nil
	}
	return tools.Fail(content), nil
}

// renderResult formats the execution outcome, bounding the combined output
// through the overflow store. Stdout and stderr are aggregated under the
// executor's byte cap; stderr gets the larger share on contention since it
// carries the diagnostics the model needs.
func (t *ShellTool) renderResult(command string, res *exec.Result) (string, error) {
	combined := exec.AggregateOutput([]byte(res.Stdout), []byte(res.Stderr))

	bounded, err := overflow.TruncateString(string(combined), overflow.StringOptions{
		MaxChars:  t.env.Limits.MaxChars,
		MaxLines:  t.env.Limits.MaxLines,
		OutputDir: t.env.OutputDir,
		Metadata:  map[string]string{"tool": "shell", "command": command},
	})
	if err != nil {
		return "", err
	}

	out := bounded.Content
	if bounded.Truncated {
		out += "\n\n" + bounded.Message
	}

	switch {
	case res.Error != "":
		out += fmt.Sprintf("\n\n(failed to run command: %s)", res.Error)
	case res.Killed:
		out += "\n\n(command killed: cancelled or timed out)"
	case !res.Success && res.Signal != "":
		out += fmt.Sprintf("\n\n(terminated by signal %s)", res.Signal)
	case !res.Success:
		out += fmt.Sprintf("\n\n(exit code %d)", res.ExitCode)
	}
	if !res.Sandboxed {
		out += "\n(ran unsandboxed)"
	}
	return out, nil
}

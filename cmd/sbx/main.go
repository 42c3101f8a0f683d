// Command sbx exercises the sandbox tool surface from the terminal, driving
// the same factories an embedding agent loop would use.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/moldable-ai/agent-sandbox/internal/boundary"
	"github.com/moldable-ai/agent-sandbox/internal/command_safety"
	"github.com/moldable-ai/agent-sandbox/internal/config"
	"github.com/moldable-ai/agent-sandbox/internal/exec"
	"github.com/moldable-ai/agent-sandbox/internal/logging"
	"github.com/moldable-ai/agent-sandbox/internal/sandbox"
	"github.com/moldable-ai/agent-sandbox/internal/tools"
	"github.com/moldable-ai/agent-sandbox/internal/tools/handlers"
	"github.com/moldable-ai/agent-sandbox/internal/version"
)

// app carries the per-invocation session built from config and flags.
type app struct {
	cfg       *config.Config
	env       *handlers.Env
	router    *tools.ToolRouter
	workspace string
	logger    *zap.Logger
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("sbx"),
		kong.Description("Sandboxed tool execution for agent loops."),
		kong.UsageOnError(),
	)

	a, err := newApp(cli.Globals)
	ctx.FatalIfErrorf(err)
	defer func() { _ = a.logger.Sync() }()

	ctx.FatalIfErrorf(ctx.Run(a))
}

func newApp(g Globals) (*app, error) {
	cfgPath := g.Config
	if cfgPath == "" {
		cfgPath = config.DefaultPath()
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	workspace := g.Workspace
	if workspace == "" {
		workspace = cfg.Workspace
	}
	if workspace == "" {
		if workspace, err = os.Getwd(); err != nil {
			return nil, fmt.Errorf("determining workspace: %w", err)
		}
	}

	home, _ := os.UserHomeDir()

	outputDir := cfg.OutputDir
	if outputDir == "" {
		outputDir = filepath.Join(os.TempDir(), "agent-sandbox", uuid.NewString())
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}

	logger, err := logging.New(g.Verbose)
	if err != nil {
		return nil, err
	}

	patterns, err := cfg.CompileDangerousPatterns()
	if err != nil {
		return nil, err
	}

	roots := append(boundary.DefaultAllowedRoots(home), outputDir)
	b, err := boundary.New(workspace, home, roots...)
	if err != nil {
		return nil, err
	}

	manager := sandbox.NewManager()
	if cfg.Sandbox.Disabled {
		manager = sandbox.NewNoopManager()
	}
	policy := sandbox.NewPolicy(workspace, cfg.PolicyOverrides())

	env := &handlers.Env{
		Boundary:          b,
		OutputDir:         outputDir,
		Limits:            cfg.OverflowLimits(),
		Executor:          exec.NewExecutor(manager, policy, &cfg.Env, home, logger),
		SandboxDisabled:   cfg.Sandbox.Disabled,
		DangerousPatterns: patterns,
		Logger:            logger,
	}

	return &app{
		cfg:       cfg,
		env:       env,
		router:    handlers.NewRouter(env),
		workspace: workspace,
		logger:    logger,
	}, nil
}

// invoke runs one tool call with the given working directory.
func (a *app) invoke(name string, args map[string]interface{}, cwd string) (*tools.ToolOutput, error) {
	return a.router.DispatchToolCall(context.Background(), &tools.ToolInvocation{
		CallID:    uuid.NewString(),
		ToolName:  name,
		Arguments: args,
		Cwd:       cwd,
	})
}

// dispatch runs one tool call and prints its content. A tool-level failure
// becomes a non-zero exit without a stack of wrapping.
func (a *app) dispatch(name string, args map[string]interface{}) error {
	return a.dispatchIn(name, args, a.workspace)
}

func (a *app) dispatchIn(name string, args map[string]interface{}, cwd string) error {
	out, err := a.invoke(name, args, cwd)
	if err != nil {
		return err
	}
	fmt.Println(out.Content)
	if out.Success != nil && !*out.Success {
		os.Exit(1)
	}
	return nil
}

func (c *ExecCmd) Run(a *app) error {
	args := map[string]interface{}{
		"command": strings.Join(c.Command, " "),
	}
	if c.TimeoutMs > 0 {
		args["timeout_ms"] = c.TimeoutMs
	}
	if c.DisableSandbox {
		args["disable_sandbox"] = true
	}
	// The cwd override changes where the command runs, not the session's
	// boundary or write policy; writes outside the workspace still need the
	// policy to allow them.
	cwd := c.Cwd
	if cwd == "" {
		cwd = a.workspace
	}
	return a.dispatchIn("shell", args, cwd)
}

func (c *GrepCmd) Run(a *app) error {
	args := map[string]interface{}{
		"pattern": c.Pattern,
	}
	if c.Path != "" {
		args["path"] = c.Path
	}
	if c.FileType != "" {
		args["file_type"] = c.FileType
	}
	if c.Glob != "" {
		args["glob"] = c.Glob
	}
	if c.CaseInsensitive {
		args["case_insensitive"] = true
	}
	if c.Context > 0 {
		args["context"] = c.Context
	}
	if c.MaxResults > 0 {
		args["max_results"] = c.MaxResults
	}
	return a.dispatch("grep", args)
}

func (c *GlobCmd) Run(a *app) error {
	args := map[string]interface{}{
		"pattern": c.Pattern,
	}
	if c.Directory != "" {
		args["directory"] = c.Directory
	}
	return a.dispatch("glob_files", args)
}

func (c *ReadCmd) Run(a *app) error {
	args := map[string]interface{}{
		"path": c.Path,
	}
	if c.Offset > 0 {
		args["offset"] = c.Offset
	}
	if c.Limit > 0 {
		args["limit"] = c.Limit
	}
	if c.Saved {
		return a.dispatch("read_output", args)
	}
	return a.dispatch("read_file", args)
}

func (c *ClassifyCmd) Run(a *app) error {
	command := strings.Join(c.Command, " ")
	classification := command_safety.Classify(
		command, a.cfg.Sandbox.Disabled, a.env.DangerousPatterns)

	switch classification.Verdict {
	case command_safety.AutoApprove:
		fmt.Println("auto-approve: known read-only command")
	case command_safety.RunSandboxed:
		fmt.Println("run-sandboxed: no dangerous signal")
	case command_safety.NeedsApproval:
		fmt.Printf("needs-approval: %s\n", classification.Reason)
	}
	return nil
}

func (c *VersionCmd) Run(a *app) error {
	fmt.Printf("sbx %s\n", version.GitCommit)
	return nil
}

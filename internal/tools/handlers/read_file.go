package handlers

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/moldable-ai/agent-sandbox/internal/overflow"
	"github.com/moldable-ai/agent-sandbox/internal/tools"
)

// readFileMaxLineLength caps a single returned line.
const readFileMaxLineLength = 2000

// ReadFileTool reads file contents with optional offset/limit.
type ReadFileTool struct {
	env *Env
}

// NewReadFileTool creates a new read_file tool handler.
func NewReadFileTool(env *Env) *ReadFileTool {
	return &ReadFileTool{env: env}
}

func (t *ReadFileTool) Name() string { return "read_file" }

func (t *ReadFileTool) Kind() tools.ToolKind { return tools.ToolKindFunction }

func (t *ReadFileTool) IsMutating(*tools.ToolInvocation) bool { return false }

func (t *ReadFileTool) NeedsApproval(*tools.ToolInvocation) bool { return false }

// Handle reads a file. An explicit offset/limit window is returned as
// line-numbered text and is never re-truncated; a full read is bounded by
// the overflow store.
func (t *ReadFileTool) Handle(_ context.Context, invocation *tools.ToolInvocation) (*tools.ToolOutput, error) {
	path, err := stringArg(invocation.Arguments, "path")
	if err != nil {
		return nil, err
	}

	resolved, failed := t.env.resolvePath(path)
	if failed != nil {
		return failed, nil
	}

	_, hasOffset := invocation.Arguments["offset"]
	_, hasLimit := invocation.Arguments["limit"]

	offset, err := intArgOrDefault(invocation.Arguments, "offset", 0)
	if err != nil {
		return nil, err
	}
	if offset < 0 {
		return nil, tools.NewValidationError("offset must not be negative")
	}
	limit, err := intArgOrDefault(invocation.Arguments, "limit", -1)
	if err != nil {
		return nil, err
	}

	if hasOffset || hasLimit {
		return t.readWindow(resolved, offset, limit)
	}
	return t.readFull(resolved)
}

// readWindow returns the requested line range with line numbers. The caller
// asked for a bounded window, so the result bypasses overflow truncation.
func (t *ReadFileTool) readWindow(path string, offset, limit int) (*tools.ToolOutput, error) {
	file, err := os.Open(path)
	if err != nil {
		return tools.Fail(fmt.Sprintf("Failed to open file: %v", err)), nil
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)

	var result strings.Builder
	lineNum := 0
	linesRead := 0

	for lineNum < offset && scanner.Scan() {
		lineNum++
	}

	for scanner.Scan() {
		if limit > 0 && linesRead >= limit {
			break
		}
		line := scanner.Text()
		if len(line) > readFileMaxLineLength {
			line = line[:readFileMaxLineLength] + "... (truncated)"
		}
		fmt.Fprintf(&result, "%6d\t%s\n", lineNum+1, line)
		lineNum++
		linesRead++
	}
	if err := scanner.Err(); err != nil {
		return tools.Fail(fmt.Sprintf("error reading file: %v", err)), nil
	}

	content := result.String()
	if content == "" {
		if offset > 0 {
			content = fmt.Sprintf("(file has fewer than %d lines)", offset)
		} else {
			content = "(empty file)"
		}
	}

	return tools.Ok(fmt.Sprintf("File: %s\n%s", path, content)), nil
}

// readFull returns the whole file, bounded by the overflow store.
func (t *ReadFileTool) readFull(path string) (*tools.ToolOutput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return tools.Fail(fmt.Sprintf("Failed to read file: %v", err)), nil
	}

	res, err := overflow.TruncateString(string(data), overflow.StringOptions{
		MaxChars:  t.env.Limits.MaxChars,
		MaxLines:  t.env.Limits.MaxLines,
		OutputDir: t.env.OutputDir,
		Metadata:  map[string]string{"tool": "read_file", "file": path},
	})
	if err != nil {
		return nil, err
	}

	content := fmt.Sprintf("File: %s\n%s", path, res.Content)
	if res.Truncated {
		content += "\n\n" + res.Message
	}
	return tools.Ok(content), nil
}

package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	osexec "os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/moldable-ai/agent-sandbox/internal/overflow"
	"github.com/moldable-ai/agent-sandbox/internal/tools"
)

// GlobFilesTool finds files matching a glob pattern, most recently modified
// first. Recently touched files are more relevant to in-progress work, so
// the ordering is part of the tool's contract.
type GlobFilesTool struct {
	env *Env
}

// NewGlobFilesTool creates a new glob_files tool handler.
func NewGlobFilesTool(env *Env) *GlobFilesTool {
	return &GlobFilesTool{env: env}
}

func (t *GlobFilesTool) Name() string { return "glob_files" }

func (t *GlobFilesTool) Kind() tools.ToolKind { return tools.ToolKindFunction }

func (t *GlobFilesTool) IsMutating(*tools.ToolInvocation) bool { return false }

func (t *GlobFilesTool) NeedsApproval(*tools.ToolInvocation) bool { return false }

type globHit struct {
	path    string
	modTime time.Time
}

func (t *GlobFilesTool) Handle(ctx context.Context, invocation *tools.ToolInvocation) (*tools.ToolOutput, error) {
	pattern, err := stringArg(invocation.Arguments, "pattern")
	if err != nil {
		return nil, err
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, tools.NewValidationErrorf("invalid glob pattern: %s", pattern)
	}

	dir, err := optionalStringArg(invocation.Arguments, "directory")
	if err != nil {
		return nil, err
	}
	if dir == "" {
		dir = invocation.Cwd
	}
	if dir == "" {
		dir = "."
	}
	resolved, failed := t.env.resolvePath(dir)
	if failed != nil {
		return failed, nil
	}

	internalLimit := t.env.Limits.MaxItems * internalLimitMultiplier
	if internalLimit <= 0 {
		internalLimit = overflow.DefaultMaxItems * internalLimitMultiplier
	}

	var hits []globHit
	if rgPath() != "" {
		hits, err = rgFileList(ctx, resolved, pattern, internalLimit)
	} else {
		hits, err = walkFileList(ctx, resolved, pattern, internalLimit)
	}
	if err != nil {
		return tools.Fail(err.Error()), nil
	}

	if len(hits) == 0 {
		return tools.Ok("No files found."), nil
	}

	// Both backends resolve to the same contract: strictly
	// most-recent-modification first.
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].modTime.After(hits[j].modTime)
	})

	paths := make([]string, len(hits))
	for i, h := range hits {
		paths[i] = h.path
	}

	res, err := overflow.TruncateArray(paths, overflow.ArrayOptions[string]{
		MaxItems:  t.env.Limits.MaxItems,
		OutputDir: t.env.OutputDir,
		Metadata:  map[string]string{"tool": "glob_files", "pattern": pattern},
	})
	if err != nil {
		return nil, err
	}

	content := strings.Join(res.Items, "\n")
	if res.Truncated {
		content += "\n\n" + res.Message
	}
	return tools.Ok(content), nil
}

// rgFileList uses ripgrep's file lister, filtered by the glob.
func rgFileList(ctx context.Context, dir, pattern string, limit int) ([]globHit, error) {
	cmd := osexec.CommandContext(ctx, rgPath(),
		"--files", "--sortr=modified", "--no-messages", "--glob", pattern, "--", dir)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*osexec.ExitError); ok {
			if exitErr.ExitCode() == 1 {
				return nil, nil
			}
			return nil, fmt.Errorf("file search failed: %s", strings.TrimSpace(stderr.String()))
		}
		return nil, fmt.Errorf("failed to launch rg: %v", err)
	}

	var hits []globHit
	for _, raw := range bytes.Split(stdout.Bytes(), []byte("\n")) {
		if len(raw) == 0 {
			continue
		}
		path := string(raw)
		info, statErr := os.Stat(path)
		if statErr != nil {
			continue
		}
		hits = append(hits, globHit{path: path, modTime: info.ModTime()})
		if len(hits) == limit {
			break
		}
	}
	return hits, nil
}

// walkFileList is the portable fallback: a recursive walk skipping
// version-control and dependency directories.
func walkFileList(ctx context.Context, dir, pattern string, limit int) ([]globHit, error) {
	var hits []globHit
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if skippedDirs[d.Name()] {
				return fs.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			return nil
		}
		ok, matchErr := doublestar.Match(pattern, filepath.ToSlash(rel))
		if matchErr != nil || !ok {
			// Also accept a bare-name pattern like *.go anywhere in the tree.
			if ok2, _ := doublestar.Match(pattern, d.Name()); !ok2 {
				return nil
			}
		}

		info, infoErr := d.Info()
		if infoErr != nil {
			return nil
		}
		hits = append(hits, globHit{path: path, modTime: info.ModTime()})
		if len(hits) >= limit {
			return fs.SkipAll
		}
		return nil
	})
	if err != nil && err != fs.SkipAll {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	return hits, nil
}

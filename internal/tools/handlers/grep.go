package handlers

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	osexec "os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/moldable-ai/agent-sandbox/internal/overflow"
	"github.com/moldable-ai/agent-sandbox/internal/tools"
)

// Search limits. The internal limit oversamples so the truncation decision
// reflects true result size rather than an artifact of early cutoff; the
// multiplier is a tunable, not a contract.
const (
	grepDefaultLimit        = 100
	grepMaxLimit            = 2000
	internalLimitMultiplier = 2
)

// skippedDirs are never descended into by the portable backends.
var skippedDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	"node_modules": true,
	"vendor":       true,
}

// fileTypeExtensions maps a file_type argument to extensions, mirroring the
// common ripgrep type names.
var fileTypeExtensions = map[string][]string{
	"go":   {".go"},
	"py":   {".py"},
	"js":   {".js", ".jsx", ".mjs"},
	"ts":   {".ts", ".tsx"},
	"rust": {".rs"},
	"java": {".java"},
	"rb":   {".rb"},
	"c":    {".c", ".h"},
	"cpp":  {".cpp", ".cc", ".hpp", ".hh"},
	"md":   {".md", ".markdown"},
	"sh":   {".sh", ".bash"},
	"json": {".json"},
	"yaml": {".yaml", ".yml"},
	"toml": {".toml"},
}

// rgPath caches the ripgrep probe for the life of the process.
var rgPath = sync.OnceValue(func() string {
	path, err := osexec.LookPath("rg")
	if err != nil {
		return ""
	}
	return path
})

// Match is the uniform record produced by both grep backends.
type Match struct {
	File    string
	Line    int
	Content string
}

func (m Match) String() string {
	return fmt.Sprintf("%s:%d: %s", m.File, m.Line, m.Content)
}

// grepQuery is the normalized argument set for one search.
type grepQuery struct {
	pattern         string
	path            string
	fileType        string
	glob            string
	caseInsensitive bool
	context         int
	maxResults      int
}

// GrepTool searches file contents, preferring ripgrep with a portable
// line-scan fallback.
type GrepTool struct {
	env *Env
}

// NewGrepTool creates a new grep tool handler.
func NewGrepTool(env *Env) *GrepTool {
	return &GrepTool{env: env}
}

func (t *GrepTool) Name() string { return "grep" }

func (t *GrepTool) Kind() tools.ToolKind { return tools.ToolKindFunction }

func (t *GrepTool) IsMutating(*tools.ToolInvocation) bool { return false }

func (t *GrepTool) NeedsApproval(*tools.ToolInvocation) bool { return false }

// Handle runs the search. No matches is success with an empty list, so the
// model can distinguish "nothing there" from a broken invocation.
func (t *GrepTool) Handle(ctx context.Context, invocation *tools.ToolInvocation) (*tools.ToolOutput, error) {
	q, out, err := t.parseQuery(invocation)
	if err != nil || out != nil {
		return out, err
	}

	internalLimit := q.maxResults * internalLimitMultiplier

	var matches []Match
	var searchErr error
	if rgPath() != "" {
		matches, searchErr = runRgGrep(ctx, q, internalLimit)
	} else {
		matches, searchErr = runScanGrep(ctx, q, internalLimit)
	}
	if searchErr != nil {
		return tools.Fail(searchErr.Error()), nil
	}

	if len(matches) == 0 {
		return tools.Ok("No matches found."), nil
	}

	res, err := overflow.TruncateArray(matches, overflow.ArrayOptions[Match]{
		MaxItems:     q.maxResults,
		OutputDir:    t.env.OutputDir,
		ItemToString: Match.String,
		Metadata:     map[string]string{"tool": "grep", "pattern": q.pattern},
	})
	if err != nil {
		return nil, err
	}

	lines := make([]string, 0, len(res.Items))
	for _, m := range res.Items {
		lines = append(lines, m.String())
	}
	content := strings.Join(lines, "\n")
	if res.Truncated {
		content += "\n\n" + res.Message
	}
	return tools.Ok(content), nil
}

func (t *GrepTool) parseQuery(invocation *tools.ToolInvocation) (grepQuery, *tools.ToolOutput, error) {
	var q grepQuery

	pattern, err := stringArg(invocation.Arguments, "pattern")
	if err != nil {
		return q, nil, err
	}
	q.pattern = strings.TrimSpace(pattern)
	if q.pattern == "" {
		return q, nil, tools.NewValidationError("pattern must not be empty")
	}

	if q.fileType, err = optionalStringArg(invocation.Arguments, "file_type"); err != nil {
		return q, nil, err
	}
	if q.fileType != "" {
		if _, ok := fileTypeExtensions[q.fileType]; !ok {
			return q, nil, tools.NewValidationErrorf("unknown file_type: %s", q.fileType)
		}
	}
	if q.glob, err = optionalStringArg(invocation.Arguments, "glob"); err != nil {
		return q, nil, err
	}
	if q.caseInsensitive, err = boolArg(invocation.Arguments, "case_insensitive"); err != nil {
		return q, nil, err
	}
	if q.context, err = intArgOrDefault(invocation.Arguments, "context", 0); err != nil {
		return q, nil, err
	}
	if q.context < 0 {
		return q, nil, tools.NewValidationError("context must not be negative")
	}
	if q.maxResults, err = intArgOrDefault(invocation.Arguments, "max_results", grepDefaultLimit); err != nil {
		return q, nil, err
	}
	if q.maxResults < 1 {
		return q, nil, tools.NewValidationError("max_results must be greater than zero")
	}
	if q.maxResults > grepMaxLimit {
		q.maxResults = grepMaxLimit
	}

	searchPath, err := optionalStringArg(invocation.Arguments, "path")
	if err != nil {
		return q, nil, err
	}
	if searchPath == "" {
		searchPath = invocation.Cwd
	}
	if searchPath == "" {
		searchPath = "."
	}
	resolved, failed := t.env.resolvePath(searchPath)
	if failed != nil {
		return q, failed, nil
	}
	if _, statErr := os.Stat(resolved); statErr != nil {
		return q, tools.Fail(fmt.Sprintf("unable to access `%s`: %v", resolved, statErr)), nil
	}
	q.path = resolved

	return q, nil, nil
}

// runRgGrep shells out to ripgrep and normalizes its output.
func runRgGrep(ctx context.Context, q grepQuery, limit int) ([]Match, error) {
	args := []string{
		"--line-number", "--no-heading", "--color", "never", "--no-messages",
		"--regexp", q.pattern,
	}
	if q.caseInsensitive {
		args = append(args, "--ignore-case")
	}
	if q.context > 0 {
		args = append(args, "--context", strconv.Itoa(q.context))
	}
	if q.fileType != "" {
		args = append(args, "--type", q.fileType)
	}
	if q.glob != "" {
		args = append(args, "--glob", q.glob)
	}
	args = append(args, "--", q.path)

	cmd := osexec.CommandContext(ctx, rgPath(), args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		// rg exit codes: 0 matches, 1 no matches, 2+ error.
		if exitErr, ok := err.(*osexec.ExitError); ok {
			if exitErr.ExitCode() == 1 {
				return nil, nil
			}
			return nil, fmt.Errorf("search failed: %s", strings.TrimSpace(stderr.String()))
		}
		return nil, fmt.Errorf("failed to launch rg: %v", err)
	}

	return parseRgMatches(stdout.Bytes(), limit), nil
}

// parseRgMatches parses "file:line:content" match lines and
// "file-line-content" context lines into uniform Match records.
func parseRgMatches(output []byte, limit int) []Match {
	var matches []Match
	for _, raw := range bytes.Split(output, []byte("\n")) {
		line := string(raw)
		if line == "" || line == "--" {
			continue
		}
		m, ok := parseRgLine(line, ':')
		if !ok {
			m, ok = parseRgLine(line, '-')
		}
		if !ok {
			continue
		}
		matches = append(matches, m)
		if len(matches) == limit {
			break
		}
	}
	return matches
}

// parseRgLine splits file<sep>line<sep>content, requiring an all-digit line
// field. Scans separator positions left to right so file paths containing
// the separator still parse.
func parseRgLine(line string, sep byte) (Match, bool) {
	for i := 0; i < len(line); i++ {
		if line[i] != sep {
			continue
		}
		rest := line[i+1:]
		j := strings.IndexByte(rest, sep)
		if j <= 0 {
			continue
		}
		num, err := strconv.Atoi(rest[:j])
		if err != nil {
			continue
		}
		return Match{File: line[:i], Line: num, Content: rest[j+1:]}, true
	}
	return Match{}, false
}

// runScanGrep is the portable line-by-line fallback used when ripgrep is
// not installed.
func runScanGrep(ctx context.Context, q grepQuery, limit int) ([]Match, error) {
	pattern := q.pattern
	if q.caseInsensitive {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern: %v", err)
	}

	var matches []Match
	walkErr := filepath.WalkDir(q.path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped, not fatal
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
		if !fileMatchesFilters(path, q) {
			return nil
		}

		fileMatches, scanErr := scanFile(path, re, q.context, limit-len(matches))
		if scanErr != nil {
			return nil
		}
		matches = append(matches, fileMatches...)
		if len(matches) >= limit {
			return fs.SkipAll
		}
		return nil
	})
	if walkErr != nil && walkErr != fs.SkipAll {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, walkErr
	}
	return matches, nil
}

func fileMatchesFilters(path string, q grepQuery) bool {
	if q.fileType != "" {
		ext := strings.ToLower(filepath.Ext(path))
		found := false
		for _, want := range fileTypeExtensions[q.fileType] {
			if ext == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if q.glob != "" {
		if ok, err := doublestar.Match(q.glob, filepath.Base(path)); err != nil || !ok {
			return false
		}
	}
	return true
}

// scanFile matches re against each line, emitting up to limit records with
// the requested context lines. Binary files are skipped.
func scanFile(path string, re *regexp.Regexp, contextLines, limit int) ([]Match, error) {
	if limit <= 0 {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	probe := make([]byte, 8*1024)
	n, _ := f.Read(probe)
	if bytes.IndexByte(probe[:n], 0) >= 0 {
		return nil, nil // binary
	}
	if _, err := f.Seek(0, 0); err != nil {
		return nil, err
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)

	var matches []Match
	var window []string // trailing context buffer
	emittedThrough := 0 // highest line number already emitted
	pendingAfter := 0   // context lines still owed after a match
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		text := scanner.Text()

		switch {
		case re.MatchString(text):
			for i, prev := range window {
				prevNum := lineNum - len(window) + i
				if prevNum > emittedThrough {
					matches = append(matches, Match{File: path, Line: prevNum, Content: prev})
				}
			}
			matches = append(matches, Match{File: path, Line: lineNum, Content: text})
			emittedThrough = lineNum
			pendingAfter = contextLines
		case pendingAfter > 0:
			matches = append(matches, Match{File: path, Line: lineNum, Content: text})
			emittedThrough = lineNum
			pendingAfter--
		}

		if len(matches) >= limit {
			return matches[:limit], nil
		}

		if contextLines > 0 {
			window = append(window, text)
			if len(window) > contextLines {
				window = window[1:]
			}
		}
	}
	return matches, scanner.Err()
}

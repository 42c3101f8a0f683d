// Package overflow bounds tool results to configured size limits, persisting
// the full result to disk when bounded and supporting pagination back out of
// the saved file. Every tool that can produce unbounded output routes through
// this single mechanism.
package overflow

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Default ceilings applied when an option is left at zero.
const (
	DefaultMaxChars = 40_000
	DefaultMaxLines = 500
	DefaultMaxItems = 100
)

// Limits carries the per-session output ceilings.
type Limits struct {
	MaxChars int
	MaxLines int
	MaxItems int
}

// DefaultLimits returns the default output ceilings.
func DefaultLimits() Limits {
	return Limits{
		MaxChars: DefaultMaxChars,
		MaxLines: DefaultMaxLines,
		MaxItems: DefaultMaxItems,
	}
}

// StringOptions configures TruncateString.
type StringOptions struct {
	MaxChars int // 0 means DefaultMaxChars
	MaxLines int // 0 means DefaultMaxLines

	// OutputDir, when non-empty, is where the untruncated content is
	// persisted if truncation occurs.
	OutputDir string

	// OutputID names the overflow file. A random id is generated when empty.
	OutputID string

	// Metadata is written as "key: value" header lines before the content.
	Metadata map[string]string
}

// StringResult is the outcome of bounding a string.
type StringResult struct {
	Content       string
	Truncated     bool
	TotalLines    int
	ReturnedLines int
	TotalChars    int
	SavedPath     string // set iff truncated and an output dir was configured
	Message       string // human-readable hint appended by the caller
}

// TruncateString bounds content to both a character ceiling and a line
// ceiling, triggering truncation if either is exceeded. The untruncated
// content is persisted when an output directory is configured; an unwritable
// directory is an internal error and propagates.
func TruncateString(content string, opts StringOptions) (*StringResult, error) {
	maxChars := opts.MaxChars
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	maxLines := opts.MaxLines
	if maxLines <= 0 {
		maxLines = DefaultMaxLines
	}

	lines := strings.Split(content, "\n")
	totalLines := len(lines)
	totalChars := len(content)

	if totalChars <= maxChars && totalLines <= maxLines {
		return &StringResult{
			Content:       content,
			TotalLines:    totalLines,
			ReturnedLines: totalLines,
			TotalChars:    totalChars,
		}, nil
	}

	bounded := content
	returnedLines := totalLines
	if totalLines > maxLines {
		bounded = strings.Join(lines[:maxLines], "\n")
		returnedLines = maxLines
	}
	if len(bounded) > maxChars {
		// Back off to a rune boundary so the cut never yields invalid UTF-8.
		cut := maxChars
		for cut > 0 && !utf8.RuneStart(bounded[cut]) {
			cut--
		}
		bounded = bounded[:cut]
		returnedLines = strings.Count(bounded, "\n") + 1
	}

	result := &StringResult{
		Content:       bounded,
		Truncated:     true,
		TotalLines:    totalLines,
		ReturnedLines: returnedLines,
		TotalChars:    totalChars,
	}

	if opts.OutputDir != "" {
		saved, err := save(opts.OutputDir, opts.OutputID, opts.Metadata, content)
		if err != nil {
			return nil, err
		}
		result.SavedPath = saved
		result.Message = fmt.Sprintf(
			"Output truncated: showing %d of %d lines. Full output saved to %s (use read_output to page through it).",
			returnedLines, totalLines, saved)
	} else {
		result.Message = fmt.Sprintf(
			"Output truncated: showing %d of %d lines. Narrow the request to see more.",
			returnedLines, totalLines)
	}

	return result, nil
}

// ArrayOptions configures TruncateArray.
type ArrayOptions[T any] struct {
	MaxItems  int // 0 means DefaultMaxItems
	OutputDir string
	OutputID  string

	// ItemToString renders an item for the overflow file. fmt.Sprintf("%v")
	// is used when nil.
	ItemToString func(T) string

	Metadata map[string]string
}

// ArrayResult is the outcome of bounding a list.
type ArrayResult[T any] struct {
	Items         []T
	Truncated     bool
	TotalCount    int
	ReturnedCount int
	SavedPath     string
	Message       string
}

// TruncateArray bounds items to the item ceiling, persisting the full list
// (one item per line) when an output directory is configured.
func TruncateArray[T any](items []T, opts ArrayOptions[T]) (*ArrayResult[T], error) {
	maxItems := opts.MaxItems
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}

	total := len(items)
	if total <= maxItems {
		return &ArrayResult[T]{
			Items:         items,
			TotalCount:    total,
			ReturnedCount: total,
		}, nil
	}

	render := opts.ItemToString
	if render == nil {
		render = func(item T) string { return fmt.Sprintf("%v", item) }
	}

	result := &ArrayResult[T]{
		Items:         items[:maxItems],
		Truncated:     true,
		TotalCount:    total,
		ReturnedCount: maxItems,
	}

	if opts.OutputDir != "" {
		var sb strings.Builder
		for i, item := range items {
			if i > 0 {
				sb.WriteByte('\n')
			}
			sb.WriteString(render(item))
		}
		saved, err := save(opts.OutputDir, opts.OutputID, opts.Metadata, sb.String())
		if err != nil {
			return nil, err
		}
		result.SavedPath = saved
		result.Message = fmt.Sprintf(
			"Results truncated: showing %d of %d. Full list saved to %s (use read_output to page through it).",
			maxItems, total, saved)
	} else {
		result.Message = fmt.Sprintf(
			"Results truncated: showing %d of %d. Narrow the request to see more.",
			maxItems, total)
	}

	return result, nil
}

// save persists content to dir under a generated or caller-supplied id,
// prefixed with sorted "key: value" metadata lines and a blank separator.
func save(dir, id string, metadata map[string]string, content string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating overflow directory: %w", err)
	}
	if id == "" {
		id = uuid.NewString()
	}
	path := filepath.Join(dir, id+".txt")

	var sb strings.Builder
	if len(metadata) > 0 {
		keys := make([]string, 0, len(metadata))
		for k := range metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&sb, "%s: %s\n", k, metadata[k])
		}
		sb.WriteByte('\n')
	}
	sb.WriteString(content)

	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return "", fmt.Errorf("writing overflow file: %w", err)
	}
	return path, nil
}

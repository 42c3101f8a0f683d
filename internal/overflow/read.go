package overflow

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// PageOptions selects a line range from a saved overflow file.
type PageOptions struct {
	Offset int // 0-indexed first line
	Limit  int // 0 means DefaultMaxLines
}

// Page is one window of a saved overflow file.
type Page struct {
	Content       string
	TotalLines    int
	ReturnedLines int
	HasMore       bool // true when lines remain past the returned window
}

// ReadSaved pages back out of a saved overflow file by line range.
func ReadSaved(path string, opts PageOptions) (*Page, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening saved output: %w", err)
	}
	defer f.Close()

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultMaxLines
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	var sb strings.Builder
	returned := 0
	total := 0

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		if total >= offset && returned < limit {
			if returned > 0 {
				sb.WriteByte('\n')
			}
			sb.WriteString(scanner.Text())
			returned++
		}
		total++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading saved output: %w", err)
	}

	return &Page{
		Content:       sb.String(),
		TotalLines:    total,
		ReturnedLines: returned,
		HasMore:       offset+returned < total,
	}, nil
}

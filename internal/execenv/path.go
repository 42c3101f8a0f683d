package execenv

import (
	"os"
	"path/filepath"
	"strings"
)

// extraPathDirs are developer tool directories commonly missing from the
// PATH of a non-login process. Entries starting with "~" are resolved
// against the given home directory.
var extraPathDirs = []string{
	"~/.local/bin",
	"~/.cargo/bin",
	"~/go/bin",
	"~/.bun/bin",
	"/opt/homebrew/bin",
	"/usr/local/bin",
	"/usr/local/go/bin",
}

// AugmentedPath returns the current PATH with the extra tool directories
// appended. Only directories that exist are added, each at most once.
func AugmentedPath(home string) string {
	return augmentPath(os.Getenv("PATH"), home, func(dir string) bool {
		info, err := os.Stat(dir)
		return err == nil && info.IsDir()
	})
}

func augmentPath(path, home string, exists func(string) bool) string {
	seen := make(map[string]bool)
	var parts []string
	for _, p := range filepath.SplitList(path) {
		if p != "" && !seen[p] {
			seen[p] = true
			parts = append(parts, p)
		}
	}

	for _, dir := range extraPathDirs {
		if strings.HasPrefix(dir, "~") {
			if home == "" {
				continue
			}
			dir = filepath.Join(home, dir[1:])
		}
		if seen[dir] || !exists(dir) {
			continue
		}
		seen[dir] = true
		parts = append(parts, dir)
	}

	return strings.Join(parts, string(os.PathListSeparator))
}

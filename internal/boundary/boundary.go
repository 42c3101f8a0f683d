// Package boundary enforces the filesystem security boundary shared by every
// file-system tool. A path is permitted iff it resolves inside the configured
// base directory or inside one of the always-allowed roots.
package boundary

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathTraversalError indicates a path resolved outside the boundary.
// It is fatal to the specific tool call, never to the session.
type PathTraversalError struct {
	Path     string // the path as requested
	Resolved string // the absolute path it resolved to
}

func (e *PathTraversalError) Error() string {
	return fmt.Sprintf("path %q resolves outside the allowed boundary (resolved to %s)", e.Path, e.Resolved)
}

// IsPathTraversal reports whether err is a PathTraversalError.
func IsPathTraversal(err error) bool {
	var pte *PathTraversalError
	return errors.As(err, &pte)
}

// SecurityBoundary resolves and validates path arguments against a base
// directory plus an allowlist of always-accessible roots. Created once per
// agent session and immutable afterward. An empty base path disables
// sandboxing entirely (single-user trusted mode).
type SecurityBoundary struct {
	basePath     string
	home         string
	allowedRoots []string
}

// New creates a SecurityBoundary. basePath may be empty to disable path
// restriction. home is used for tilde expansion and, together with
// allowedRoots, is always reachable even when basePath is set.
func New(basePath, home string, allowedRoots ...string) (*SecurityBoundary, error) {
	if basePath != "" {
		abs, err := filepath.Abs(basePath)
		if err != nil {
			return nil, fmt.Errorf("resolving base path: %w", err)
		}
		basePath = filepath.Clean(abs)
	}

	roots := make([]string, 0, len(allowedRoots)+1)
	if home != "" {
		roots = append(roots, filepath.Clean(home))
	}
	for _, r := range allowedRoots {
		if r == "" {
			continue
		}
		abs, err := filepath.Abs(r)
		if err != nil {
			return nil, fmt.Errorf("resolving allowed root %q: %w", r, err)
		}
		roots = append(roots, filepath.Clean(abs))
	}

	return &SecurityBoundary{
		basePath:     basePath,
		home:         home,
		allowedRoots: roots,
	}, nil
}

// DefaultAllowedRoots returns the roots that remain reachable regardless of
// the session base path: the home directory and common cache/package-manager
// directories that tools routinely need to read.
func DefaultAllowedRoots(home string) []string {
	if home == "" {
		return nil
	}
	return []string{
		home,
		filepath.Join(home, ".cache"),
		filepath.Join(home, ".npm"),
		filepath.Join(home, ".cargo"),
		filepath.Join(home, "go", "pkg"),
	}
}

// BasePath returns the configured base directory, or "" when unrestricted.
func (b *SecurityBoundary) BasePath() string {
	return b.basePath
}

// Restricted reports whether the boundary enforces path restriction.
func (b *SecurityBoundary) Restricted() bool {
	return b.basePath != ""
}

// Resolve expands and normalizes path, then validates it against the
// boundary. It returns the normalized absolute path, or a
// *PathTraversalError when the path lands outside every permitted root.
func (b *SecurityBoundary) Resolve(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}

	expanded := b.expandTilde(path)

	var resolved string
	if filepath.IsAbs(expanded) {
		resolved = filepath.Clean(expanded)
	} else if b.basePath != "" {
		resolved = filepath.Join(b.basePath, expanded)
	} else {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("determining working directory: %w", err)
		}
		resolved = filepath.Join(cwd, expanded)
	}

	// No base path configured: resolution is unrestricted.
	if b.basePath == "" {
		return resolved, nil
	}

	for _, root := range append([]string{b.basePath}, b.allowedRoots...) {
		if pathWithin(root, resolved) {
			return resolved, nil
		}
	}

	return "", &PathTraversalError{Path: path, Resolved: resolved}
}

// expandTilde expands a leading ~ against the home directory.
func (b *SecurityBoundary) expandTilde(path string) string {
	if b.home == "" {
		return path
	}
	if path == "~" {
		return b.home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(b.home, path[2:])
	}
	return path
}

// pathWithin reports whether target equals root or is a descendant of it.
func pathWithin(root, target string) bool {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

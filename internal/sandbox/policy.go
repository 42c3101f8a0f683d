// Package sandbox provides OS-level sandboxing for command execution.
// A process-wide Policy is built once at startup by merging a hard-coded
// baseline with caller-supplied overrides; platform managers translate it
// into the host's privilege-restriction mechanism.
package sandbox

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Policy configures network and filesystem access for sandboxed processes.
// Immutable after construction; the active workspace directory is folded
// into AllowWrite at construction, never mutated later.
type Policy struct {
	// AllowedDomains lists hostnames reachable from sandboxed processes.
	// Empty means all network access is denied.
	AllowedDomains []string

	// DenyRead lists glob patterns for paths whose contents a sandboxed
	// process may never read (private key material and similar).
	DenyRead []string

	// AllowWrite and DenyWrite are layered glob patterns: explicit deny
	// wins over allow, which wins over default-deny.
	AllowWrite []string
	DenyWrite  []string
}

// PolicyOverrides are caller-supplied additions merged over the baseline.
type PolicyOverrides struct {
	AllowedDomains []string
	DenyRead       []string
	AllowWrite     []string
	DenyWrite      []string
}

// baselineDenyRead protects credential material regardless of overrides.
var baselineDenyRead = []string{
	"**/.ssh/**",
	"**/.gnupg/**",
	"**/.aws/credentials",
	"**/*.pem",
	"**/*_rsa",
	"**/*_ed25519",
	"**/.netrc",
}

// baselineDenyWrite blocks writes that could hijack the user's shell or
// system configuration even inside an allowed root.
var baselineDenyWrite = []string{
	"**/.ssh/**",
	"**/.bashrc",
	"**/.zshrc",
	"**/.profile",
	"**/.gitconfig",
	"/etc/**",
	"/usr/**",
	"/boot/**",
}

// NewPolicy builds the session policy. workspace, when non-empty, becomes a
// writable root for the session. overrides may be nil.
func NewPolicy(workspace string, overrides *PolicyOverrides) *Policy {
	p := &Policy{
		DenyRead:  append([]string(nil), baselineDenyRead...),
		DenyWrite: append([]string(nil), baselineDenyWrite...),
	}

	if workspace != "" {
		p.AllowWrite = append(p.AllowWrite, workspace, workspace+"/**")
	}
	p.AllowWrite = append(p.AllowWrite, "/tmp/**")

	if overrides != nil {
		p.AllowedDomains = append(p.AllowedDomains, overrides.AllowedDomains...)
		p.DenyRead = append(p.DenyRead, overrides.DenyRead...)
		p.AllowWrite = append(p.AllowWrite, overrides.AllowWrite...)
		p.DenyWrite = append(p.DenyWrite, overrides.DenyWrite...)
	}

	return p
}

// NetworkAllowed reports whether the policy grants any network access.
func (p *Policy) NetworkAllowed() bool {
	return p != nil && len(p.AllowedDomains) > 0
}

// CanRead reports whether the policy permits reading path. Everything not
// matched by a deny-read pattern is readable.
func (p *Policy) CanRead(path string) bool {
	if p == nil {
		return true
	}
	return !matchesAny(p.DenyRead, path)
}

// CanWrite reports whether the policy permits writing path. Deny wins over
// allow; a path matching neither is denied.
func (p *Policy) CanWrite(path string) bool {
	if p == nil {
		return true
	}
	if matchesAny(p.DenyWrite, path) {
		return false
	}
	return matchesAny(p.AllowWrite, path)
}

// WritableRoots returns the literal (non-glob) allow-write entries. Platform
// sandboxes that can only bind whole directories use these as the writable
// mount set.
func (p *Policy) WritableRoots() []string {
	if p == nil {
		return nil
	}
	var roots []string
	for _, pattern := range p.AllowWrite {
		if !strings.ContainsAny(pattern, "*?[{") {
			roots = append(roots, pattern)
		}
	}
	return roots
}

// literalPrefix returns the leading glob-free directory of pattern, if any.
// "/etc/**" yields "/etc"; "**/.ssh/**" has no literal prefix. Platform
// sandboxes whose deny rules take literal directories use this to narrow
// glob patterns.
func literalPrefix(pattern string) (string, bool) {
	if strings.ContainsAny(pattern, "?[{") {
		return "", false
	}
	i := strings.IndexByte(pattern, '*')
	if i <= 0 {
		return "", false
	}
	prefix := strings.TrimRight(pattern[:i], "/")
	if prefix == "" {
		return "", false
	}
	return prefix, true
}

func matchesAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, path); err == nil && ok {
			return true
		}
	}
	return false
}

// Package config provides TOML configuration loading for the sandbox.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/BurntSushi/toml"

	"github.com/moldable-ai/agent-sandbox/internal/execenv"
	"github.com/moldable-ai/agent-sandbox/internal/overflow"
	"github.com/moldable-ai/agent-sandbox/internal/sandbox"
)

// Config is the full sandbox configuration, merged over defaults.
type Config struct {
	// Workspace is the session's working directory and boundary root.
	// Empty means the current directory at startup.
	Workspace string `toml:"workspace"`

	// OutputDir is where overflowed tool output is persisted. Empty means
	// a per-session directory under the user cache dir.
	OutputDir string `toml:"output_dir"`

	Sandbox SandboxConfig  `toml:"sandbox"`
	Safety  SafetyConfig   `toml:"safety"`
	Limits  LimitsConfig   `toml:"limits"`
	Env     execenv.Policy `toml:"env"`
}

// SandboxConfig holds the sandbox policy overrides.
type SandboxConfig struct {
	// Disabled turns off OS-level sandboxing for the whole session. Every
	// shell command then requires approval.
	Disabled bool `toml:"disabled"`

	AllowedDomains []string `toml:"allowed_domains"`
	DenyRead       []string `toml:"deny_read"`
	AllowWrite     []string `toml:"allow_write"`
	DenyWrite      []string `toml:"deny_write"`
}

// SafetyConfig extends the built-in dangerous-command classification.
type SafetyConfig struct {
	// DangerousPatterns are extra regexes that force shell commands through
	// approval when they match.
	DangerousPatterns []string `toml:"dangerous_patterns"`
}

// LimitsConfig overrides the output ceilings. Zero fields keep defaults.
type LimitsConfig struct {
	MaxChars int `toml:"max_chars"`
	MaxLines int `toml:"max_lines"`
	MaxItems int `toml:"max_items"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Env: execenv.DefaultPolicy(),
	}
}

// Load reads a TOML config file, merged over Default. A missing file is not
// an error; it yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// DefaultPath returns sandbox.toml in the current directory.
func DefaultPath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "sandbox.toml"
	}
	return filepath.Join(cwd, "sandbox.toml")
}

// PolicyOverrides converts the sandbox section into policy overrides.
func (c *Config) PolicyOverrides() *sandbox.PolicyOverrides {
	return &sandbox.PolicyOverrides{
		AllowedDomains: c.Sandbox.AllowedDomains,
		DenyRead:       c.Sandbox.DenyRead,
		AllowWrite:     c.Sandbox.AllowWrite,
		DenyWrite:      c.Sandbox.DenyWrite,
	}
}

// OverflowLimits returns the output ceilings with zero fields defaulted.
func (c *Config) OverflowLimits() overflow.Limits {
	limits := overflow.DefaultLimits()
	if c.Limits.MaxChars > 0 {
		limits.MaxChars = c.Limits.MaxChars
	}
	if c.Limits.MaxLines > 0 {
		limits.MaxLines = c.Limits.MaxLines
	}
	if c.Limits.MaxItems > 0 {
		limits.MaxItems = c.Limits.MaxItems
	}
	return limits
}

// CompileDangerousPatterns compiles the configured extra patterns. An
// invalid pattern is a configuration error, reported at load time rather
// than silently skipped at classification time.
func (c *Config) CompileDangerousPatterns() ([]*regexp.Regexp, error) {
	var compiled []*regexp.Regexp
	for _, pattern := range c.Safety.DangerousPatterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid dangerous_patterns entry %q: %w", pattern, err)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}

// Package execenv builds the environment for spawned shell commands:
// variable filtering according to a configurable policy, plus PATH
// augmentation with common developer tool directories.
package execenv

import (
	"os"
	"strings"
)

// Inherit controls which variables form the starting set.
type Inherit string

const (
	// InheritAll starts from the full parent environment (default).
	InheritAll Inherit = "all"
	// InheritNone starts with an empty environment.
	InheritNone Inherit = "none"
	// InheritCore keeps only platform-essential variables (HOME, PATH, ...).
	InheritCore Inherit = "core"
)

// coreVars are the variables kept by InheritCore.
var coreVars = map[string]bool{
	"HOME":     true,
	"LOGNAME":  true,
	"PATH":     true,
	"SHELL":    true,
	"USER":     true,
	"USERNAME": true,
	"TMPDIR":   true,
	"TEMP":     true,
	"TMP":      true,
}

// Policy configures how environment variables are filtered before being
// passed to a spawned process. Derivation is a 5-step pipeline:
//
//  1. Pick the starting set per Inherit.
//  2. Unless IgnoreDefaultExcludes, drop names matching *KEY*, *SECRET*, *TOKEN*.
//  3. Drop names matching Exclude patterns.
//  4. Insert Set overrides.
//  5. If IncludeOnly is non-empty, keep only matching names.
//
// Patterns support * and ? and match case-insensitively.
type Policy struct {
	Inherit Inherit `json:"inherit,omitempty" toml:"inherit"`

	// IgnoreDefaultExcludes, when true, keeps *KEY*/*SECRET*/*TOKEN*
	// variables unless explicitly excluded.
	IgnoreDefaultExcludes bool `json:"ignore_default_excludes" toml:"ignore_default_excludes"`

	Exclude []string          `json:"exclude,omitempty" toml:"exclude"`
	Set     map[string]string `json:"set,omitempty" toml:"set"`

	// IncludeOnly is applied last, after all other steps.
	IncludeOnly []string `json:"include_only,omitempty" toml:"include_only"`
}

// DefaultPolicy inherits everything and filters nothing.
func DefaultPolicy() Policy {
	return Policy{
		Inherit:               InheritAll,
		IgnoreDefaultExcludes: true,
	}
}

// CreateEnv builds a filtered environment map from the current process
// environment.
func CreateEnv(policy *Policy) map[string]string {
	vars := make([]envVar, 0, 64)
	for _, entry := range os.Environ() {
		if k, v, ok := strings.Cut(entry, "="); ok {
			vars = append(vars, envVar{k, v})
		}
	}
	return populate(vars, policy)
}

// CreateEnvFrom builds a filtered environment map from the given variables
// instead of the process environment.
func CreateEnvFrom(vars map[string]string, policy *Policy) map[string]string {
	entries := make([]envVar, 0, len(vars))
	for k, v := range vars {
		entries = append(entries, envVar{k, v})
	}
	return populate(entries, policy)
}

type envVar struct {
	key, value string
}

func populate(vars []envVar, policy *Policy) map[string]string {
	if policy == nil {
		p := DefaultPolicy()
		policy = &p
	}

	envMap := make(map[string]string)

	inherit := policy.Inherit
	if inherit == "" {
		inherit = InheritAll
	}
	switch inherit {
	case InheritAll:
		for _, v := range vars {
			envMap[v.key] = v.value
		}
	case InheritNone:
	case InheritCore:
		for _, v := range vars {
			if coreVars[v.key] {
				envMap[v.key] = v.value
			}
		}
	}

	if !policy.IgnoreDefaultExcludes {
		defaultExcludes := []string{"*KEY*", "*SECRET*", "*TOKEN*"}
		for k := range envMap {
			if matchesAny(k, defaultExcludes) {
				delete(envMap, k)
			}
		}
	}

	if len(policy.Exclude) > 0 {
		for k := range envMap {
			if matchesAny(k, policy.Exclude) {
				delete(envMap, k)
			}
		}
	}

	for k, v := range policy.Set {
		envMap[k] = v
	}

	if len(policy.IncludeOnly) > 0 {
		for k := range envMap {
			if !matchesAny(k, policy.IncludeOnly) {
				delete(envMap, k)
			}
		}
	}

	return envMap
}

func matchesAny(name string, patterns []string) bool {
	nameLower := strings.ToLower(name)
	for _, pattern := range patterns {
		if wildcardMatch(nameLower, strings.ToLower(pattern)) {
			return true
		}
	}
	return false
}

// wildcardMatch matches s against pattern with * (any run) and ? (one char).
// Both inputs must be pre-lowercased.
func wildcardMatch(s, pattern string) bool {
	return wildcardMatchAt(s, pattern, 0, 0)
}

func wildcardMatchAt(s, pattern string, si, pi int) bool {
	for pi < len(pattern) {
		if si >= len(s) {
			for pi < len(pattern) {
				if pattern[pi] != '*' {
					return false
				}
				pi++
			}
			return true
		}

		switch pattern[pi] {
		case '*':
			for pi < len(pattern) && pattern[pi] == '*' {
				pi++
			}
			if pi == len(pattern) {
				return true
			}
			for si <= len(s) {
				if wildcardMatchAt(s, pattern, si, pi) {
					return true
				}
				si++
			}
			return false

		case '?':
			si++
			pi++

		default:
			if s[si] != pattern[pi] {
				return false
			}
			si++
			pi++
		}
	}

	return si == len(s)
}

// ToSlice converts an environment map to "KEY=VALUE" entries for exec.Cmd.Env.
func ToSlice(env map[string]string) []string {
	result := make([]string, 0, len(env))
	for k, v := range env {
		result = append(result, k+"="+v)
	}
	return result
}

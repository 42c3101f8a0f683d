package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moldable-ai/agent-sandbox/internal/execenv"
	"github.com/moldable-ai/agent-sandbox/internal/overflow"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sandbox.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)

	assert.Empty(t, cfg.Workspace)
	assert.False(t, cfg.Sandbox.Disabled)
	assert.Equal(t, execenv.InheritAll, cfg.Env.Inherit)
	assert.Equal(t, overflow.DefaultLimits(), cfg.OverflowLimits())
}

func TestLoad_FullFile(t *testing.T) {
	path := writeConfig(t, `
workspace = "/srv/project"
output_dir = "/srv/project/.tool-output"

[sandbox]
disabled = false
allowed_domains = ["proxy.internal"]
deny_read = ["/srv/secrets/**"]
allow_write = ["/srv/scratch"]

[safety]
dangerous_patterns = ['\bterraform\s+destroy\b']

[limits]
max_lines = 200

[env]
inherit = "core"
exclude = ["DOCKER_*"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/project", cfg.Workspace)
	assert.Equal(t, "/srv/project/.tool-output", cfg.OutputDir)
	assert.Equal(t, []string{"proxy.internal"}, cfg.Sandbox.AllowedDomains)
	assert.Equal(t, []string{"/srv/secrets/**"}, cfg.Sandbox.DenyRead)
	assert.Equal(t, execenv.InheritCore, cfg.Env.Inherit)

	limits := cfg.OverflowLimits()
	assert.Equal(t, 200, limits.MaxLines)
	assert.Equal(t, overflow.DefaultMaxChars, limits.MaxChars)

	overrides := cfg.PolicyOverrides()
	assert.Equal(t, []string{"/srv/scratch"}, overrides.AllowWrite)

	patterns, err := cfg.CompileDangerousPatterns()
	require.NoError(t, err)
	require.Len(t, patterns, 1)
	assert.True(t, patterns[0].MatchString("terraform destroy -auto-approve"))
}

func TestLoad_MalformedFile(t *testing.T) {
	path := writeConfig(t, "workspace = [broken")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestCompileDangerousPatterns_InvalidRegex(t *testing.T) {
	cfg := Default()
	cfg.Safety.DangerousPatterns = []string{"[unclosed"}

	_, err := cfg.CompileDangerousPatterns()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid dangerous_patterns entry")
}

//go:build darwin

package sandbox

import (
	"fmt"
	"os/exec"
	"strings"
)

// SeatbeltSandbox uses macOS Seatbelt (sandbox-exec) with a generated SBPL
// profile.
type SeatbeltSandbox struct{}

// Available reports whether sandbox-exec is present.
func (s *SeatbeltSandbox) Available() bool {
	_, err := exec.LookPath("/usr/bin/sandbox-exec")
	return err == nil
}

// Transform wraps the command with sandbox-exec and an inline SBPL profile.
func (s *SeatbeltSandbox) Transform(spec CommandSpec, policy *Policy) (*ExecEnv, error) {
	if policy == nil {
		return passthrough(spec), nil
	}

	cmd := []string{"/usr/bin/sandbox-exec", "-p", generateSBPL(policy), "--", spec.Program}
	cmd = append(cmd, spec.Args...)

	return &ExecEnv{
		Command: cmd,
		Cwd:     spec.Cwd,
		Env:     networkEnv(policy),
	}, nil
}

// generateSBPL renders the policy as a Seatbelt Profile Language string.
// Seatbelt subpath rules take literal directories, so glob deny patterns
// are narrowed to their literal prefix when one exists.
func generateSBPL(policy *Policy) string {
	var sb strings.Builder
	sb.WriteString("(version 1)\n")
	sb.WriteString("(deny default)\n")
	sb.WriteString("(allow process-exec)\n")
	sb.WriteString("(allow process-fork)\n")
	sb.WriteString("(allow sysctl-read)\n")
	sb.WriteString("(allow mach-lookup)\n")

	sb.WriteString("(allow file-read*)\n")
	for _, pattern := range policy.DenyRead {
		if prefix, ok := literalPrefix(pattern); ok {
			fmt.Fprintf(&sb, "(deny file-read* (subpath %q))\n", prefix)
		}
	}

	sb.WriteString("(allow file-write* (subpath \"/private/tmp\"))\n")
	sb.WriteString("(allow file-write* (subpath \"/tmp\"))\n")
	sb.WriteString("(allow file-write* (subpath \"/dev\"))\n")
	for _, root := range policy.WritableRoots() {
		fmt.Fprintf(&sb, "(allow file-write* (subpath %q))\n", root)
	}

	if policy.NetworkAllowed() {
		sb.WriteString("(allow network*)\n")
	} else {
		sb.WriteString("(deny network*)\n")
	}

	return sb.String()
}

// GenerateSBPL is exported for testing.
func GenerateSBPL(policy *Policy) string {
	return generateSBPL(policy)
}

func (s *SeatbeltSandbox) Name() string { return "seatbelt" }

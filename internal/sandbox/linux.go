//go:build linux

package sandbox

import "os/exec"

// BwrapSandbox uses bubblewrap (bwrap) for filesystem and network isolation
// on Linux.
type BwrapSandbox struct{}

// Available reports whether bwrap is installed on the host.
func (b *BwrapSandbox) Available() bool {
	_, err := exec.LookPath("bwrap")
	return err == nil
}

// Transform wraps the command with bwrap. The whole filesystem is bound
// read-only; the policy's writable roots are re-bound read-write on top.
func (b *BwrapSandbox) Transform(spec CommandSpec, policy *Policy) (*ExecEnv, error) {
	if policy == nil {
		return passthrough(spec), nil
	}

	return &ExecEnv{
		Command: buildBwrapCommand(spec, policy),
		Cwd:     spec.Cwd,
		Env:     networkEnv(policy),
	}, nil
}

func buildBwrapCommand(spec CommandSpec, policy *Policy) []string {
	cmd := []string{"bwrap"}

	cmd = append(cmd, "--ro-bind", "/", "/")
	cmd = append(cmd, "--tmpfs", "/tmp")
	cmd = append(cmd, "--dev", "/dev")
	cmd = append(cmd, "--proc", "/proc")

	for _, root := range policy.WritableRoots() {
		if root == "/tmp" {
			continue // already a fresh tmpfs
		}
		cmd = append(cmd, "--bind", root, root)
	}

	cmd = append(cmd, "--unshare-pid")
	if !policy.NetworkAllowed() {
		cmd = append(cmd, "--unshare-net")
	}

	if spec.Cwd != "" {
		cmd = append(cmd, "--chdir", spec.Cwd)
	}

	cmd = append(cmd, "--", spec.Program)
	cmd = append(cmd, spec.Args...)
	return cmd
}

// BuildBwrapCommand is exported for testing.
func BuildBwrapCommand(spec CommandSpec, policy *Policy) []string {
	return buildBwrapCommand(spec, policy)
}

func (b *BwrapSandbox) Name() string { return "bwrap" }

package sandbox

import "strings"

// CommandSpec describes a command to be executed.
type CommandSpec struct {
	Program string   // e.g. "bash"
	Args    []string // e.g. ["-c", "ls -la"]
	Cwd     string   // working directory
}

// ExecEnv is the transformed execution environment after sandbox wrapping.
type ExecEnv struct {
	Command []string          // full command, possibly including the sandbox wrapper
	Cwd     string            // working directory
	Env     map[string]string // additional environment variables
}

// Manager is the interface for platform-specific sandbox implementations.
type Manager interface {
	// Transform wraps the command with the policy's restrictions. A nil
	// policy returns the original command unchanged.
	Transform(spec CommandSpec, policy *Policy) (*ExecEnv, error)

	// Available reports whether this sandbox works on the current host.
	Available() bool

	// Name identifies the mechanism for logging ("bwrap", "seatbelt", "none").
	Name() string
}

// passthrough returns spec unchanged as an ExecEnv.
func passthrough(spec CommandSpec) *ExecEnv {
	return &ExecEnv{
		Command: append([]string{spec.Program}, spec.Args...),
		Cwd:     spec.Cwd,
	}
}

// networkEnv returns the environment variables that communicate the network
// policy to the wrapped process and any local egress proxy.
func networkEnv(policy *Policy) map[string]string {
	env := make(map[string]string)
	if !policy.NetworkAllowed() {
		env["SANDBOX_NETWORK_DISABLED"] = "1"
	} else {
		env["SANDBOX_ALLOWED_DOMAINS"] = strings.Join(policy.AllowedDomains, ",")
	}
	return env
}

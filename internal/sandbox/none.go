package sandbox

// NoopSandbox passes commands through unchanged. Used when sandboxing is
// disabled or no platform mechanism is available; callers are expected to
// route such commands through approval instead.
type NoopSandbox struct{}

func (n *NoopSandbox) Transform(spec CommandSpec, policy *Policy) (*ExecEnv, error) {
	return passthrough(spec), nil
}

func (n *NoopSandbox) Available() bool { return true }

func (n *NoopSandbox) Name() string { return "none" }

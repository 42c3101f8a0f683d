//go:build !linux

package sandbox

// BwrapSandbox is a stub on non-Linux platforms.
type BwrapSandbox struct{}

func (b *BwrapSandbox) Available() bool { return false }

func (b *BwrapSandbox) Transform(spec CommandSpec, policy *Policy) (*ExecEnv, error) {
	return passthrough(spec), nil
}

func (b *BwrapSandbox) Name() string { return "bwrap" }

//go:build !darwin

package sandbox

// SeatbeltSandbox is a stub on non-macOS platforms.
type SeatbeltSandbox struct{}

func (s *SeatbeltSandbox) Available() bool { return false }

func (s *SeatbeltSandbox) Transform(spec CommandSpec, policy *Policy) (*ExecEnv, error) {
	return passthrough(spec), nil
}

func (s *SeatbeltSandbox) Name() string { return "seatbelt" }

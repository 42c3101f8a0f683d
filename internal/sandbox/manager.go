package sandbox

import "runtime"

// NewManager picks the sandbox implementation for the current platform,
// falling back to the no-op manager when the platform mechanism is missing.
func NewManager() Manager {
	switch runtime.GOOS {
	case "darwin":
		s := &SeatbeltSandbox{}
		if s.Available() {
			return s
		}
	case "linux":
		s := &BwrapSandbox{}
		if s.Available() {
			return s
		}
	}
	return &NoopSandbox{}
}

// NewNoopManager always returns a no-op sandbox, for tests and for sessions
// where sandboxing is explicitly disabled.
func NewNoopManager() Manager {
	return &NoopSandbox{}
}

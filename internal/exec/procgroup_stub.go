//go:build !darwin && !linux

package exec

import (
	"os"
	osexec "os/exec"
)

func setupProcessGroup(cmd *osexec.Cmd) {}

func terminationSignal(cmd *osexec.Cmd) string { return "" }

func interruptProcess(cmd *osexec.Cmd) error {
	if cmd.Process == nil {
		return os.ErrProcessDone
	}
	return cmd.Process.Signal(os.Interrupt)
}

func killProcess(cmd *osexec.Cmd) error {
	if cmd.Process == nil {
		return os.ErrProcessDone
	}
	return cmd.Process.Kill()
}

//go:build darwin || linux

package exec

import (
	"errors"
	"os"
	osexec "os/exec"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// processGroupWaitDelay bounds how long pipe reads may block after the
// process group has been killed.
const processGroupWaitDelay = 3 * time.Second

// setupProcessGroup runs cmd in its own session so that the whole group can
// be signalled at once. Setsid (rather than Setpgid) also prevents orphaned
// grandchildren from holding the stdout/stderr pipes open after a kill.
func setupProcessGroup(cmd *osexec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &unix.SysProcAttr{}
	}
	cmd.SysProcAttr.Setsid = true
	cmd.SysProcAttr.Setpgid = false
	cmd.SysProcAttr.Pgid = 0
	cmd.WaitDelay = processGroupWaitDelay
}

// interruptProcess asks cmd's process group to exit.
func interruptProcess(cmd *osexec.Cmd) error {
	return signalGroup(cmd, unix.SIGTERM)
}

// killProcess forcefully terminates cmd's process group.
func killProcess(cmd *osexec.Cmd) error {
	return signalGroup(cmd, unix.SIGKILL)
}

// terminationSignal returns the name of the signal that ended cmd
// ("SIGTERM"), or "" when the process exited normally or never ran.
func terminationSignal(cmd *osexec.Cmd) string {
	if cmd.ProcessState == nil {
		return ""
	}
	ws, ok := cmd.ProcessState.Sys().(syscall.WaitStatus)
	if !ok || !ws.Signaled() {
		return ""
	}
	return unix.SignalName(unix.Signal(ws.Signal()))
}

// signalGroup sends sig to cmd's process group. A pid of 1 or below is
// treated as already-done: kill(-1) would signal every process the user
// owns.
func signalGroup(cmd *osexec.Cmd, sig unix.Signal) error {
	if cmd.Process == nil {
		return os.ErrProcessDone
	}
	pid := cmd.Process.Pid
	if pid <= 1 {
		return os.ErrProcessDone
	}
	if err := unix.Kill(-pid, sig); err != nil {
		if errors.Is(err, unix.ESRCH) {
			return os.ErrProcessDone
		}
		return err
	}
	return nil
}

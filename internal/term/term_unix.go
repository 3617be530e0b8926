//go:build unix

package term

import (
	"os/exec"
	"syscall"
)

// setupPTYCommand makes the child a session leader with the PTY slave as its
// controlling terminal, so job control and Ctrl-C semantics work.
func setupPTYCommand(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid:  true,
		Setctty: true,
		Ctty:    0, // stdin, which xpty points at the PTY slave
	}
}

// interruptGroup sends SIGINT to the process group led by pid. The child is
// a session leader (Setsid above), so its pid doubles as the group id.
func interruptGroup(pid int) error {
	return syscall.Kill(-pid, syscall.SIGINT)
}

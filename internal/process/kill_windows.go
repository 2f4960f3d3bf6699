//go:build windows

package process

import (
	"os/exec"
	"strconv"
)

// killGroup kills the process tree using taskkill.
// /F = force kill, /T = terminate child processes (tree kill).
func killGroup(pid int) error {
	// #nosec G204 -- pid is an integer from the launcher
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run()
	return nil
}

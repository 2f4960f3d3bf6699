// Package process terminates the browser process tree left behind by a render.
package process

import (
	"errors"
	"fmt"
)

// ErrInvalidPID is returned for PIDs that would target this process or init.
var ErrInvalidPID = errors.New("invalid pid")

// KillGroup kills pid and every process in its group. It is best-effort:
// a process that already exited is not an error.
func KillGroup(pid int) error {
	if pid <= 1 {
		return fmt.Errorf("%w: %d", ErrInvalidPID, pid)
	}
	return killGroup(pid)
}

package process

// Notes:
// - KillGroup: real termination is exercised by the browser integration
//   tests. Here we cover the PID guard and a PID that cannot exist.
// - PID 0 and 1 must never reach the syscall: -0 is our own process group.

import (
	"errors"
	"testing"
)

func TestKillGroup_RejectsUnsafePIDs(t *testing.T) {
	t.Parallel()

	for _, pid := range []int{-5, 0, 1} {
		if err := KillGroup(pid); !errors.Is(err, ErrInvalidPID) {
			t.Errorf("KillGroup(%d) error = %v, want ErrInvalidPID", pid, err)
		}
	}
}

func TestKillGroup_MissingProcess(t *testing.T) {
	t.Parallel()

	// Above any default pid_max, so no such group exists.
	if err := KillGroup(999999999); err != nil {
		t.Errorf("KillGroup(missing) error = %v, want nil", err)
	}
}

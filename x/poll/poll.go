// Package poll bounds busy-wait loops on hardware status flags.
//
// Every wait on a status bit or DMA completion goes through Until so that a
// peripheral that never signals surfaces as errcode.Timeout instead of a hang.
package poll

import (
	"time"

	"wizpio-go/errcode"
)

// Until spins on done until it reports true or timeout elapses. done is
// always sampled once more after the deadline so a condition that became
// true while the caller was pre-empted is not reported as a timeout.
// A non-positive timeout samples done exactly once.
func Until(timeout time.Duration, done func() bool) error {
	if done() {
		return nil
	}
	if timeout <= 0 {
		return errcode.Timeout
	}
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if done() {
			return nil
		}
	}
	if done() {
		return nil
	}
	return errcode.Timeout
}

// All waits for every condition in order, sharing one deadline.
func All(timeout time.Duration, conds ...func() bool) error {
	deadline := time.Now().Add(timeout)
	for _, c := range conds {
		if err := Until(time.Until(deadline), c); err != nil {
			return err
		}
	}
	return nil
}

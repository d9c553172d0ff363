package device

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/lightplay-midi/lightplay/midi"
)

// Poll blocks until one of fds becomes readable or timeoutMillis elapses.
// A negative timeoutMillis means block indefinitely. It reports whether
// any descriptor became ready;
// a false result with a nil error means the timeout expired or the poll
// was interrupted (EINTR).
//
// This mirrors original_source/src/main.c's wait_for_event, which calls
// poll(pfd, nfds, timeout) directly; here it's built on
// golang.org/x/sys/unix.Poll instead.
func Poll(fds []PollDescriptor, timeoutMillis int) (ready bool, err error) {
	if len(fds) == 0 {
		return false, fmt.Errorf("%w: no descriptors to poll", midi.ErrPollError)
	}
	pfds := make([]unix.PollFd, len(fds))
	for i, d := range fds {
		pfds[i] = unix.PollFd{Fd: int32(d.FD), Events: d.Events}
	}
	n, e := unix.Poll(pfds, timeoutMillis)
	if e != nil {
		if e == unix.EINTR {
			// An interrupted poll is a soft failure, so we report "not
			// ready" rather than an error; the scheduler's wait routine
			// treats that like a timeout and playback continues.
			return false, nil
		}
		return false, fmt.Errorf("%w: %s", midi.ErrPollError, e)
	}
	return n > 0, nil
}

//go:build openbsd

// Package sandbox applies the platform's privilege-reduction mechanism once
// all MIDI ports and the score file are open and nothing further needs to be
// opened (original_source/src/main.c calls pledge("stdio", NULL) at the
// equivalent point, right after setup and before the sequencing loop).
package sandbox

import "golang.org/x/sys/unix"

// Enter restricts the process to the "stdio" pledge promise: no further
// file, network or device opens are allowed, matching main.c's pledge call.
func Enter() error {
	return unix.PledgePromises("stdio")
}

// Package device defines the MIDI device collaborator lightplay's engine
// depends on: an opaque, opened handle exposing pollable input descriptors
// alongside non-blocking writes and reads of raw 3-byte MIDI messages. The
// engine package never talks to a MIDI port directly — it only ever sees
// this interface, so tests can exercise the scheduler against an
// in-memory fake without a real MIDI port.
package device

import "context"

// PollDescriptor is one descriptor a Device wants polled for input
// readiness, in the shape golang.org/x/sys/unix.Poll expects.
type PollDescriptor struct {
	FD     int
	Events int16
}

// Device is the bidirectional MIDI device collaborator the scheduler
// plays against. Implementations are not required to be safe for
// concurrent use from multiple goroutines — the engine is strictly
// single-threaded and never calls a Device method concurrently with
// another.
type Device interface {
	// Open acquires the underlying MIDI port. It must be called before any
	// other method.
	Open(ctx context.Context) error
	// Close releases the underlying MIDI port. It is safe to call Close
	// without a prior successful Open.
	Close() error
	// PollDescriptors returns the descriptors that should be polled for
	// input readiness. The returned slice is stable for the lifetime of an
	// Open device — callers may obtain it once and reuse it across many
	// poll calls.
	PollDescriptors() ([]PollDescriptor, error)
	// Write sends a MIDI message. It returns the number of bytes written;
	// a short write (n < len(p)) is a fatal condition, not something
	// callers retry.
	Write(p []byte) (n int, err error)
	// Read reads up to len(p) bytes of MIDI input into p. A read that
	// returns zero bytes with a nil error indicates the input stream
	// closed and is a fatal condition (ErrInputClosed).
	Read(p []byte) (n int, err error)
}

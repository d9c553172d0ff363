package engine

import (
	"context"
	"errors"

	"github.com/lightplay-midi/lightplay/device"
)

// fakeDevice is an in-memory stand-in for a real MIDI port: reads are
// served from a queue of byte slices (one slice per simulated poll
// readiness), and writes are recorded for assertions.
type fakeDevice struct {
	reads   [][]byte
	readIdx int

	writes [][]byte

	writeErr  error
	readErr   error
	shortenBy int
}

func (f *fakeDevice) Open(ctx context.Context) error { return nil }

func (f *fakeDevice) Close() error { return nil }

func (f *fakeDevice) PollDescriptors() ([]device.PollDescriptor, error) {
	return []device.PollDescriptor{{FD: 0}}, nil
}

func (f *fakeDevice) Write(p []byte) (int, error) {
	if f.writeErr != nil {
		return 0, f.writeErr
	}
	cp := append([]byte(nil), p...)
	f.writes = append(f.writes, cp)
	return len(p) - f.shortenBy, nil
}

func (f *fakeDevice) Read(p []byte) (int, error) {
	if f.readErr != nil {
		return 0, f.readErr
	}
	if f.readIdx >= len(f.reads) {
		return 0, errors.New("fakeDevice: no more queued reads")
	}
	chunk := f.reads[f.readIdx]
	f.readIdx++
	n := copy(p, chunk)
	return n, nil
}

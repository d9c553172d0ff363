// Package midi implements a Standard MIDI File (SMF Format 1) parser
// producing a flat, time-ordered buffer of channel-voice and tempo-change
// events. It intentionally understands only as much of the SMF format as is
// needed to extract those two kinds of events; everything else is parsed
// just far enough to skip correctly.
package midi

import "errors"

// These are the fatal error kinds a parse or playback run can fail with.
// Call sites wrap one of these with additional context using fmt.Errorf and
// %w, so callers can still recover the underlying kind with errors.Is.
var (
	// ErrShortRead is returned when a read hits EOF before the requested
	// number of bytes were available.
	ErrShortRead = errors.New("short read")
	// ErrSeekError is returned when a skip or rewind fails.
	ErrSeekError = errors.New("seek error")
	// ErrBadMagic is returned when a chunk's 4-byte magic doesn't match what
	// was expected (e.g. "MThd" or "MTrk").
	ErrBadMagic = errors.New("bad chunk magic")
	// ErrBadFormat is returned when the header's format field isn't 1.
	ErrBadFormat = errors.New("unsupported SMF format")
	// ErrUnsupportedDivision is returned when the header's division field
	// specifies SMPTE-style time code instead of ticks per quarter note.
	ErrUnsupportedDivision = errors.New("SMPTE-style division not supported")
	// ErrZeroDivision is returned when ticks-per-quarter-note is zero.
	ErrZeroDivision = errors.New("ticks per quarter note is zero")
	// ErrBadTempoLength is returned when a set-tempo meta event's length
	// isn't exactly 3 bytes.
	ErrBadTempoLength = errors.New("set-tempo meta event has wrong length")
	// ErrBufferOverflow is returned when the event buffer can't grow any
	// further because it hit its size cap. A failed allocation while
	// growing is not reported through this error; it panics in the runtime.
	ErrBufferOverflow = errors.New("event buffer cannot grow")
	// ErrOutputShort is returned when a MIDI output write wrote fewer bytes
	// than requested.
	ErrOutputShort = errors.New("short MIDI output write")
	// ErrInputClosed is returned when a MIDI input read returns zero bytes.
	ErrInputClosed = errors.New("MIDI input closed")
	// ErrPollError is returned when polling the MIDI input descriptor fails.
	ErrPollError = errors.New("poll error")
	// ErrClockError is returned when reading the monotonic clock fails.
	ErrClockError = errors.New("clock error")
)

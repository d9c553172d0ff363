package engine

import (
	"fmt"

	"github.com/lightplay-midi/lightplay/device"
	"github.com/lightplay-midi/lightplay/midi"
)

// InputMatcher consumes MIDI input bytes arriving from the keyboard,
// re-assembling them into 3-byte messages, clearing matched note-ons from
// a PendingSet, and mirroring each matched note-on as a Note-Off written
// back to the device. The mirrored Note-Off is what makes the
// keyboard's own key-release behavior irrelevant: the engine considers a
// lit note "played" the instant its Note-On arrives, and immediately turns
// the light back off itself.
type InputMatcher struct {
	dev     device.Device
	pending *PendingSet

	buf         [3]byte
	bytesToRead int
}

// NewInputMatcher creates an InputMatcher reading from dev and clearing
// notes from pending as they are matched.
func NewInputMatcher(dev device.Device, pending *PendingSet) *InputMatcher {
	return &InputMatcher{dev: dev, pending: pending, bytesToRead: 3}
}

// Feed is called once per poll-readiness notification. It reports done=true
// once the pending set has become empty (nothing left to wait for), and
// done=false if more input is still needed before that happens.
//
// This is the direct translation of original_source/src/main.c's
// wait_for_notes, including its simplistic resync strategy for
// unrecognized status bytes: the byte-shifting resync below does not work
// correctly for statuses whose data-byte count differs from a note
// message's, a known limitation carried over rather than fixed.
func (m *InputMatcher) Feed() (done bool, err error) {
	if m.pending.Empty() {
		return true, nil
	}

	n, e := m.dev.Read(m.buf[3-m.bytesToRead : 3])
	if e != nil {
		return false, fmt.Errorf("reading MIDI input: %w", e)
	}
	if n == 0 {
		return false, fmt.Errorf("%w", midi.ErrInputClosed)
	}
	m.bytesToRead -= n

	if m.bytesToRead > 0 {
		return false, nil
	}

	highNibble := m.buf[0] & 0xf0
	if highNibble != 0x80 && highNibble != 0x90 {
		// Not a note message we understand: discard only its status
		// byte, as if it carried no data bytes, and resync by treating
		// the two trailing bytes already read as the start of the next
		// message.
		m.buf[0] = m.buf[1]
		m.buf[1] = m.buf[2]
		m.bytesToRead = 1
		return false, nil
	}

	if m.buf[0] == 0x90 {
		noteOff := [3]byte{0x80, m.buf[1], m.buf[2]}
		if _, e := m.dev.Write(noteOff[:]); e != nil {
			return false, fmt.Errorf("writing mirrored note-off: %w", e)
		}
		m.pending.Clear(m.buf[1] & 0x7f)
	}

	m.bytesToRead = 3
	return m.pending.Empty(), nil
}

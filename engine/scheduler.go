package engine

import (
	"fmt"
	"time"

	"github.com/lightplay-midi/lightplay/device"
	"github.com/lightplay-midi/lightplay/midi"
)

// defaultTempoMicrosPQN is the initial tempo (120 BPM) assumed before any
// tempo-change event is encountered.
const defaultTempoMicrosPQN = 500000

// Scheduler runs the interactive playback loop: for each event in tick
// order, it lights up the keys for the next batch of due notes, waits for
// either a computed timeout or the user clearing every lit note, then
// applies the event.
type Scheduler struct {
	dev     device.Device
	pending PendingSet
	input   *InputMatcher

	// dryRun disables lighting, waiting and device I/O entirely, playing
	// back on natural tick timing instead.
	dryRun bool

	// pollFDs is obtained once from the device and reused across every
	// wait call, unlike original_source/src/main.c's wait_for_event which
	// allocates and frees a pollfd array per call.
	pollFDs []device.PollDescriptor

	// now returns the current monotonic time; overridable in tests so wait
	// timing doesn't depend on a real clock.
	now func() time.Time
	// sleep is called in dry-run mode in place of a real wait, so dry-run
	// playback still advances on natural tick timing without touching the
	// device at all. Overridable in tests.
	sleep func(time.Duration)
	// poll blocks until a descriptor is ready or the timeout expires;
	// overridable in tests so the interactive gate doesn't depend on a
	// real file descriptor.
	poll func(fds []device.PollDescriptor, timeoutMillis int) (bool, error)
}

// New creates a Scheduler that plays back against dev. When dryRun is
// true, dev is never touched: lighting and input gating are skipped
// entirely and the loop free-runs through the event buffer on natural
// tick timing.
func New(dev device.Device, dryRun bool) *Scheduler {
	s := &Scheduler{
		dev:    dev,
		dryRun: dryRun,
		now:    time.Now,
		sleep:  time.Sleep,
		poll:   device.Poll,
	}
	if !dryRun {
		s.input = NewInputMatcher(dev, &s.pending)
	}
	return s
}

// Run plays buf back against ticksPerQuarterNote. It returns the first
// fatal error encountered, if any; callers should treat any non-nil error
// as terminal (no per-event recovery, no retry).
func (s *Scheduler) Run(buf *midi.EventBuffer, ticksPerQuarterNote uint16) error {
	if !s.dryRun {
		fds, e := s.dev.PollDescriptors()
		if e != nil {
			return fmt.Errorf("obtaining poll descriptors: %w", e)
		}
		s.pollFDs = fds
	}

	var curTicks int64
	tempo := int64(defaultTempoMicrosPQN)
	lightedIdx := 0

	for i := 0; i < buf.Len(); i++ {
		ev := buf.At(i)

		if !s.dryRun && s.pending.Empty() {
			var e error
			lightedIdx, e = s.lightOn(buf, lightedIdx)
			if e != nil {
				return e
			}
		}

		var waitMicros int64
		infinite := false
		if !s.dryRun && lightedIdx <= i {
			infinite = true
		} else {
			waitMicros = (ev.AtTicks - curTicks) * (tempo / int64(ticksPerQuarterNote))
		}

		if s.dryRun {
			if waitMicros > 0 {
				s.sleep(time.Duration(waitMicros) * time.Microsecond)
			}
		} else if e := s.wait(infinite, waitMicros); e != nil {
			return e
		}

		if ev.Type == midi.TempoChange {
			tempo = int64(ev.TempoMicrosPQN)
		} else if !s.dryRun && !ev.IsChannel1NoteOn() {
			// Suppress the playback-time write for channel-1 Note-On:
			// it was already echoed with velocity 1 during the light-on
			// step, and its mirrored Note-Off is emitted by the input
			// matcher once the user's key press clears it.
			if e := s.write(ev.Message[:]); e != nil {
				return e
			}
		}

		curTicks = ev.AtTicks
	}

	return nil
}

// lightOn is the light-on routine: starting at idx, it turns on
// lights for every contiguous event sharing the first such event's tick,
// writing channel-1 Note-Ons to the device with velocity forced to 1 and
// marking their notes pending. It returns the index just past the batch.
func (s *Scheduler) lightOn(buf *midi.EventBuffer, idx int) (int, error) {
	if idx >= buf.Len() {
		return idx, nil
	}
	firstTick := buf.At(idx).AtTicks

	for idx < buf.Len() && buf.At(idx).AtTicks <= firstTick {
		ev := buf.At(idx)
		if ev.IsChannel1NoteOn() {
			lit := ev.Message
			lit[2] = 1
			if e := s.write(lit[:]); e != nil {
				return idx, e
			}
			s.pending.Set(ev.Note())
		}
		idx++
	}
	return idx, nil
}

func (s *Scheduler) write(p []byte) error {
	n, e := s.dev.Write(p)
	if e != nil {
		return fmt.Errorf("writing MIDI output: %w", e)
	}
	if n < len(p) {
		return fmt.Errorf("%w: wrote %d of %d bytes", midi.ErrOutputShort, n, len(p))
	}
	return nil
}

// wait polls the device's input descriptors with a deadline computed from
// waitMicros (or blocks indefinitely if infinite is true, or waitMicros is
// not positive), routing readiness to the input matcher until either the
// deadline passes or the pending set empties. An infinite wait returns at
// once when nothing is pending; a finite one still polls until its
// deadline.
//
// A non-positive waitMicros means the tick budget is already spent before
// any waiting starts (the common case: every note whose tick matches the
// previous event's). That is not the same as the deadline already having
// passed: there is still a key lit and pending, so the gate must block
// until the player presses it, exactly as original_source/src/main.c's
// wait_for_event treats a non-positive wait budget as an infinite poll
// timeout rather than a zero one.
func (s *Scheduler) wait(infinite bool, waitMicros int64) error {
	if waitMicros <= 0 {
		infinite = true
	}

	var deadline time.Time
	if !infinite {
		deadline = s.now().Add(time.Duration(waitMicros) * time.Microsecond)
	}

	for {
		if infinite && s.pending.Empty() {
			return nil
		}

		timeoutMillis := -1
		if !infinite {
			remaining := deadline.Sub(s.now())
			if remaining <= 0 {
				return nil
			}
			timeoutMillis = int(remaining / time.Millisecond)
			if timeoutMillis == 0 {
				timeoutMillis = 1
			}
		}

		ready, e := s.poll(s.pollFDs, timeoutMillis)
		if e != nil {
			return fmt.Errorf("polling MIDI input: %w", e)
		}
		if !ready {
			// Timeout expired: playback continues regardless of whether
			// every lit note was actually played.
			return nil
		}

		done, e := s.input.Feed()
		if e != nil {
			return e
		}
		if done {
			return nil
		}
	}
}

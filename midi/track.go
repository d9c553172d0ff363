package midi

import "fmt"

// Status byte high nibbles and other constants used by the track parser's
// event dispatch.
const (
	statusNoteOff       = 0x80
	statusNoteOn        = 0x90
	statusProgramChange = 0xc0
	statusChannelPress  = 0xd0
	statusSysExF0       = 0xf0
	statusSysExF7       = 0xf7
	statusMeta          = 0xff
	metaSetTempo        = 0x51
)

// trackParseState is the per-track state the event-extraction state
// machine threads through each call: the running-status register
// and the cumulative tick accumulator. Both reset at the start of every
// track — running status does not cross track boundaries.
type trackParseState struct {
	runningStatus byte
	atTicks       int64
}

// findNextTrackChunk skips non-MTrk chunks until it finds one with magic
// "MTrk", returning that chunk's declared byte length. Foreign chunks are
// skipped by their declared length, not interpreted.
func findNextTrackChunk(r *ByteReader) (uint32, error) {
	for {
		magic, e := r.ReadExact(4)
		if e != nil {
			return 0, fmt.Errorf("reading chunk magic: %w", e)
		}
		length, e := r.ReadUint32BE()
		if e != nil {
			return 0, fmt.Errorf("reading chunk length: %w", e)
		}
		if string(magic) == "MTrk" {
			return length, nil
		}
		if e := r.Skip(length); e != nil {
			return 0, fmt.Errorf("%w: skipping foreign chunk %q: %s",
				ErrSeekError, magic, e)
		}
	}
}

// ParseTrack locates the next MTrk chunk in r (skipping any foreign chunks
// first) and decodes its events into buf, in the order they occur.
func ParseTrack(r *ByteReader, buf *EventBuffer) error {
	trackBytes, e := findNextTrackChunk(r)
	if e != nil {
		return e
	}

	start := r.Cursor()
	state := &trackParseState{}

	for r.Cursor()-start < int64(trackBytes) {
		ev, emitted, e := readNextEvent(r, state)
		if e != nil {
			return e
		}
		if !emitted {
			continue
		}
		if e := buf.Append(ev); e != nil {
			return e
		}
	}

	return nil
}

// readNextEvent decodes one SMF event starting at the current read
// position, advancing state's running status and tick accumulator along
// the way. It returns emitted=false for events
// that are parsed but produce no Event (everything except Note-On/Off and
// set-tempo).
func readNextEvent(r *ByteReader, state *trackParseState) (Event, bool, error) {
	delta, e := ReadVariableInt(r)
	if e != nil {
		return Event{}, false, fmt.Errorf("reading delta-time: %w", e)
	}

	status, e := r.ReadByte()
	if e != nil {
		return Event{}, false, fmt.Errorf("reading status byte: %w", e)
	}

	// Running status: if the high bit is clear, this byte is
	// actually the first data byte of an event sharing the previous status.
	// Restore the previous status and rewind so the data byte is re-read as
	// part of the event body. Meta-event and SysEx statuses are stored into
	// the running-status register like any other status, even though the
	// SMF spec says they should clear it — preserving source behavior.
	if status&0x80 == 0 {
		r.Rewind(status)
		status = state.runningStatus
	} else {
		state.runningStatus = status
	}

	switch {
	case status == statusMeta:
		return readMetaEvent(r, state, delta)
	case status == statusSysExF0 || status == statusSysExF7:
		length, e := ReadVariableInt(r)
		if e != nil {
			return Event{}, false, fmt.Errorf("reading SysEx length: %w", e)
		}
		if e := r.Skip(length); e != nil {
			return Event{}, false, fmt.Errorf("skipping SysEx body: %w", e)
		}
		return Event{}, false, nil
	case status&0xf0 == statusProgramChange || status&0xf0 == statusChannelPress:
		if e := r.Skip(1); e != nil {
			return Event{}, false, fmt.Errorf("skipping program/pressure data: %w", e)
		}
		return Event{}, false, nil
	case status&0xf0 == statusNoteOff || status&0xf0 == statusNoteOn:
		data, e := r.ReadExact(2)
		if e != nil {
			return Event{}, false, fmt.Errorf("reading note event data: %w", e)
		}
		state.atTicks += int64(delta)
		return Event{
			Type:    ChannelVoice,
			AtTicks: state.atTicks,
			Message: [3]byte{status, data[0], data[1]},
		}, true, nil
	default:
		if e := r.Skip(2); e != nil {
			return Event{}, false, fmt.Errorf("skipping uninteresting event: %w", e)
		}
		return Event{}, false, nil
	}
}

// readMetaEvent decodes a 0xFF meta event. Only set-tempo (type 0x51)
// produces an Event; everything else is skipped by its declared length.
func readMetaEvent(r *ByteReader, state *trackParseState, delta uint32) (
	Event, bool, error) {
	metaType, e := r.ReadByte()
	if e != nil {
		return Event{}, false, fmt.Errorf("reading meta-event type: %w", e)
	}
	length, e := ReadVariableInt(r)
	if e != nil {
		return Event{}, false, fmt.Errorf("reading meta-event length: %w", e)
	}

	if metaType != metaSetTempo {
		if e := r.Skip(length); e != nil {
			return Event{}, false, fmt.Errorf("skipping meta-event body: %w", e)
		}
		return Event{}, false, nil
	}

	if length != 3 {
		return Event{}, false, fmt.Errorf("%w: expected length 3, got %d",
			ErrBadTempoLength, length)
	}
	data, e := r.ReadExact(3)
	if e != nil {
		return Event{}, false, fmt.Errorf("reading set-tempo value: %w", e)
	}

	state.atTicks += int64(delta)
	tempo := uint32(data[0])<<16 | uint32(data[1])<<8 | uint32(data[2])
	return Event{
		Type:           TempoChange,
		AtTicks:        state.atTicks,
		TempoMicrosPQN: tempo,
	}, true, nil
}

// ParseFile parses a complete SMF Format 1 stream: the MThd header
// followed by Header.TrackCount MTrk chunks, merging every track's events
// into a single, tick-stably-sorted EventBuffer.
func ParseFile(r *ByteReader) (Header, *EventBuffer, error) {
	header, e := ParseHeader(r)
	if e != nil {
		return Header{}, nil, e
	}

	buf := NewEventBuffer()
	for i := uint16(0); i < header.TrackCount; i++ {
		if e := ParseTrack(r, buf); e != nil {
			return Header{}, nil, fmt.Errorf("parsing track %d: %w", i, e)
		}
	}

	buf.StableSortByTicks()
	return header, buf, nil
}

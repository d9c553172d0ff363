package midi

import (
	"errors"
	"testing"
)

func TestEventBufferAppendAndStableSort(t *testing.T) {
	buf := NewEventBuffer()
	events := []Event{
		{Type: ChannelVoice, AtTicks: 10, Message: [3]byte{0x90, 1, 1}},
		{Type: ChannelVoice, AtTicks: 0, Message: [3]byte{0x90, 2, 1}},
		{Type: TempoChange, AtTicks: 0, TempoMicrosPQN: 500000},
		{Type: ChannelVoice, AtTicks: 0, Message: [3]byte{0x90, 3, 1}},
	}
	for _, ev := range events {
		if e := buf.Append(ev); e != nil {
			t.Fatalf("Append failed: %s", e)
		}
	}
	buf.StableSortByTicks()

	if buf.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", buf.Len())
	}
	// Events sharing tick 0 must keep their original relative order.
	wantOrder := []byte{2, 0, 3}
	gotIdx := 0
	for i := 0; i < buf.Len(); i++ {
		ev := buf.At(i)
		if ev.AtTicks != 0 {
			continue
		}
		if ev.Type == TempoChange {
			if wantOrder[gotIdx] != 0 {
				t.Fatalf("unexpected tempo event at position %d", gotIdx)
			}
		} else if ev.Note() != wantOrder[gotIdx] {
			t.Fatalf("position %d: note = %d, want %d", gotIdx, ev.Note(), wantOrder[gotIdx])
		}
		gotIdx++
	}
	if buf.At(buf.Len() - 1).AtTicks != 10 {
		t.Fatalf("last event AtTicks = %d, want 10", buf.At(buf.Len()-1).AtTicks)
	}
}

func TestEventBufferAppendGrowsByDoubling(t *testing.T) {
	buf := NewEventBuffer()
	initialCap := cap(buf.events)
	for i := 0; i < initialCap+1; i++ {
		if e := buf.Append(Event{AtTicks: int64(i)}); e != nil {
			t.Fatalf("Append failed at %d: %s", i, e)
		}
	}
	if cap(buf.events) != initialCap*2 {
		t.Fatalf("cap = %d, want %d after growth", cap(buf.events), initialCap*2)
	}
}

func TestEventBufferAppendOverflow(t *testing.T) {
	// A buffer at the real cap cannot be allocated, so the cap is lowered
	// for the duration of the test.
	saved := maxEventBufferSize
	maxEventBufferSize = 2 * defaultEventBufferCapacity
	defer func() { maxEventBufferSize = saved }()
	buf := &EventBuffer{events: make([]Event, maxEventBufferSize/2, maxEventBufferSize/2)}
	if e := buf.Append(Event{}); !errors.Is(e, ErrBufferOverflow) {
		t.Fatalf("expected ErrBufferOverflow, got %v", e)
	}
}

func TestIsChannel1NoteOn(t *testing.T) {
	on := Event{Type: ChannelVoice, Message: [3]byte{0x90, 0x40, 0x50}}
	if !on.IsChannel1NoteOn() {
		t.Fatalf("expected channel-1 note-on event to report true")
	}
	off := Event{Type: ChannelVoice, Message: [3]byte{0x80, 0x40, 0x00}}
	if off.IsChannel1NoteOn() {
		t.Fatalf("note-off must not report as channel-1 note-on")
	}
	otherChannel := Event{Type: ChannelVoice, Message: [3]byte{0x91, 0x40, 0x50}}
	if otherChannel.IsChannel1NoteOn() {
		t.Fatalf("channel-2 note-on must not report as channel-1 note-on")
	}
}

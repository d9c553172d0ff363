// Package engine implements lightplay's interactive playback loop: the
// scheduler that interleaves wall-clock waiting, MIDI output, and
// light-following input gating against a parsed midi.EventBuffer.
package engine

// PendingSet is the fixed 128-entry pending-note bitset: the set of MIDI
// note numbers whose lights have been turned on but whose matching key
// press has not yet arrived. A plain array is used instead of a map, since
// it's cache-friendly and sufficient for the fixed 0..127 note-number
// domain.
type PendingSet struct {
	waiting [128]bool
	count   int
}

// Set marks note as waiting for a key press.
func (p *PendingSet) Set(note byte) {
	if !p.waiting[note&0x7f] {
		p.waiting[note&0x7f] = true
		p.count++
	}
}

// Clear marks note as no longer waiting.
func (p *PendingSet) Clear(note byte) {
	if p.waiting[note&0x7f] {
		p.waiting[note&0x7f] = false
		p.count--
	}
}

// Empty reports whether no notes are currently waiting.
func (p *PendingSet) Empty() bool {
	return p.count == 0
}

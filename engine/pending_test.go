package engine

import "testing"

func TestPendingSetSetClearEmpty(t *testing.T) {
	var p PendingSet
	if !p.Empty() {
		t.Fatalf("new PendingSet should be empty")
	}
	p.Set(0x40)
	if p.Empty() {
		t.Fatalf("PendingSet should not be empty after Set")
	}
	p.Set(0x40)
	p.Clear(0x40)
	if !p.Empty() {
		t.Fatalf("PendingSet should be empty after Clear, even after a duplicate Set")
	}
}

func TestPendingSetMultipleNotes(t *testing.T) {
	var p PendingSet
	p.Set(10)
	p.Set(20)
	p.Set(30)
	p.Clear(20)
	if p.Empty() {
		t.Fatalf("PendingSet should still have two notes pending")
	}
	p.Clear(10)
	p.Clear(30)
	if !p.Empty() {
		t.Fatalf("PendingSet should be empty after clearing every set note")
	}
}

func TestPendingSetClearUnsetNoteIsNoOp(t *testing.T) {
	var p PendingSet
	p.Clear(5)
	if !p.Empty() {
		t.Fatalf("clearing a note that was never set should not affect Empty")
	}
}

func TestPendingSetMasksHighBit(t *testing.T) {
	var p PendingSet
	p.Set(0x81) // note 1 with a stray high bit set
	if p.Empty() {
		t.Fatalf("expected Set to mask the high bit and register note 1")
	}
	p.Clear(0x01)
	if !p.Empty() {
		t.Fatalf("Clear with the equivalent masked note should clear it")
	}
}

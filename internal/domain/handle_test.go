package domain

import "testing"

func TestHandleEdgesTable(t *testing.T) {
	type tc struct {
		horizontal Edge
		vertical   Edge
	}
	tests := map[Handle]tc{
		HandleN:  {EdgeNone, EdgeStart},
		HandleS:  {EdgeNone, EdgeEnd},
		HandleE:  {EdgeEnd, EdgeNone},
		HandleW:  {EdgeStart, EdgeNone},
		HandleNE: {EdgeEnd, EdgeStart},
		HandleNW: {EdgeStart, EdgeStart},
		HandleSE: {EdgeEnd, EdgeEnd},
		HandleSW: {EdgeStart, EdgeEnd},
	}
	if len(Handles()) != len(tests) {
		t.Fatalf("expected %d handles, got %d", len(tests), len(Handles()))
	}
	for _, h := range Handles() {
		want := tests[h]
		horizontal, vertical := h.Edges()
		if horizontal != want.horizontal || vertical != want.vertical {
			t.Fatalf("%s edges = (%d,%d), want (%d,%d)", h, horizontal, vertical, want.horizontal, want.vertical)
		}
	}
}

func TestParseHandle(t *testing.T) {
	h, err := ParseHandle(" NW ")
	if err != nil || h != HandleNW {
		t.Fatalf("ParseHandle() = %q, %v", h, err)
	}
	if _, err := ParseHandle("north"); err != ErrInvalidHandle {
		t.Fatalf("expected ErrInvalidHandle, got %v", err)
	}
}

func TestSamePosition(t *testing.T) {
	if !SamePosition(nil, &DroppingPosition{}) {
		t.Fatal("expected nil to equal origin")
	}
	if SamePosition(&DroppingPosition{Left: 1}, &DroppingPosition{Left: 2}) {
		t.Fatal("expected different positions")
	}
	if !SamePosition(&DroppingPosition{Left: 1, Event: "a"}, &DroppingPosition{Left: 1, Event: "b"}) {
		t.Fatal("expected events to be ignored")
	}
}

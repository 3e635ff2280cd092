package store

import (
	"testing"
	"time"
)

func TestNewIDIsOrderedAndValid(t *testing.T) {
	before := time.Now().Add(-time.Second)
	a := NewID()
	b := NewID()
	if !ValidID(a) || !ValidID(b) {
		t.Fatalf("generated ids should parse: %q %q", a, b)
	}
	if a >= b {
		t.Fatalf("ids should sort by creation: %q >= %q", a, b)
	}
	ts, ok := IDTime(a)
	if !ok || ts.Before(before) {
		t.Fatalf("IDTime(%q) = %v %v", a, ts, ok)
	}
}

func TestValidIDRejectsGarbage(t *testing.T) {
	for _, id := range []string{"", "r1", "not-a-ulid-at-all-00000000", "ZZZZZZZZZZZZZZZZZZZZZZZZZZ"} {
		if ValidID(id) {
			t.Fatalf("ValidID(%q) = true", id)
		}
	}
}

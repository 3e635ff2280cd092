package game

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestPlayerSetKeepsInsertionOrder(t *testing.T) {
	s := NewPlayerSet("c", "a", "b", "a")
	if got := s.List(); !reflect.DeepEqual(got, []string{"c", "a", "b"}) {
		t.Fatalf("unexpected order %v", got)
	}
	if !s.Remove("a") || s.Remove("a") {
		t.Fatal("remove should succeed exactly once")
	}
	if !s.Replace("c", "z") {
		t.Fatal("replace failed")
	}
	if s.Replace("b", "z") {
		t.Fatal("replace onto an existing member must fail")
	}
	if got := s.List(); !reflect.DeepEqual(got, []string{"z", "b"}) {
		t.Fatalf("unexpected order after replace %v", got)
	}
}

func TestPlayerSetJSONIsOrderedList(t *testing.T) {
	s := NewPlayerSet("p2", "p1")
	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `["p2","p1"]` {
		t.Fatalf("unexpected json %s", b)
	}

	var back PlayerSet
	if err := json.Unmarshal([]byte(`["x","y","x"]`), &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Len() != 2 || !back.Has("x") || !back.Has("y") {
		t.Fatalf("unexpected set %v", back.List())
	}

	empty, _ := json.Marshal(NewPlayerSet())
	if string(empty) != `[]` {
		t.Fatalf("empty set should encode as [], got %s", empty)
	}
}

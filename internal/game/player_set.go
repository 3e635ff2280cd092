package game

import "encoding/json"

// PlayerSet is an insertion-ordered set of player ids. On the wire it is a
// JSON array in insertion order.
type PlayerSet struct {
	order []string
	index map[string]struct{}
}

func NewPlayerSet(ids ...string) *PlayerSet {
	s := &PlayerSet{index: map[string]struct{}{}}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

func (s *PlayerSet) Add(id string) bool {
	if s.index == nil {
		s.index = map[string]struct{}{}
	}
	if _, ok := s.index[id]; ok {
		return false
	}
	s.index[id] = struct{}{}
	s.order = append(s.order, id)
	return true
}

func (s *PlayerSet) Remove(id string) bool {
	if _, ok := s.index[id]; !ok {
		return false
	}
	delete(s.index, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

func (s *PlayerSet) Has(id string) bool {
	_, ok := s.index[id]
	return ok
}

func (s *PlayerSet) Len() int { return len(s.order) }

func (s *PlayerSet) Clear() {
	s.order = nil
	s.index = map[string]struct{}{}
}

// Replace swaps oldID for newID keeping its position.
func (s *PlayerSet) Replace(oldID, newID string) bool {
	if !s.Has(oldID) || s.Has(newID) {
		return false
	}
	delete(s.index, oldID)
	s.index[newID] = struct{}{}
	for i, v := range s.order {
		if v == oldID {
			s.order[i] = newID
			break
		}
	}
	return true
}

func (s *PlayerSet) List() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

func (s *PlayerSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.List())
}

func (s *PlayerSet) UnmarshalJSON(b []byte) error {
	var ids []string
	if err := json.Unmarshal(b, &ids); err != nil {
		return err
	}
	s.Clear()
	for _, id := range ids {
		s.Add(id)
	}
	return nil
}

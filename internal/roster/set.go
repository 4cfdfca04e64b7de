package roster

import (
	"gridiron-chat/internal/loader"
)

// Set is the immutable collection of merged players in first-seen order.
// Nothing mutates a Set after Merge returns, so it is safe for concurrent reads.
type Set struct {
	players []*Player
	byKey   map[string]*Player
}

// Merge folds records in the order given. A record without a Name is skipped.
// Every field of a later record overwrites the same field from an earlier one,
// empty values included; fields are replaced, never combined.
func Merge(records []loader.Record) *Set {
	s := &Set{byKey: make(map[string]*Player)}
	for _, rec := range records {
		name, _ := rec.Get(FieldName)
		key := joinKey(name)
		if key == "" {
			continue
		}
		p, ok := s.lookup(name)
		if !ok {
			p = newPlayer(len(s.players), key, name)
			s.byKey[key] = p
			s.players = append(s.players, p)
		}
		for _, f := range rec.Fields {
			p.set(f.Name, f.Value)
		}
	}
	return s
}

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.players)
}

// Players returns the players in first-seen order. The slice is a copy; the
// players are shared and must be treated as read-only.
func (s *Set) Players() []*Player {
	if s == nil {
		return nil
	}
	out := make([]*Player, len(s.players))
	copy(out, s.players)
	return out
}

func (s *Set) lookup(name string) (*Player, bool) {
	if s == nil {
		return nil, false
	}
	p, ok := s.byKey[joinKey(name)]
	return p, ok
}

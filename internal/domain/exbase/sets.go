package exbase

// KeySet is an insertion-ordered set of Keys. The zero value is empty and
// ready to use. Not safe for concurrent mutation.
type KeySet struct {
	items []Key
	pos   map[Key]int
}

// NewKeySet returns a set holding keys in first-seen order.
func NewKeySet(keys ...Key) *KeySet {
	s := &KeySet{}
	for _, k := range keys {
		s.Add(k)
	}
	return s
}

// Add inserts k and reports whether it was new.
func (s *KeySet) Add(k Key) bool {
	if s.pos == nil {
		s.pos = make(map[Key]int)
	}
	if _, ok := s.pos[k]; ok {
		return false
	}
	s.pos[k] = len(s.items)
	s.items = append(s.items, k)
	return true
}

// Remove deletes k and reports whether it was present.
func (s *KeySet) Remove(k Key) bool {
	i, ok := s.pos[k]
	if !ok {
		return false
	}
	delete(s.pos, k)
	s.items = append(s.items[:i], s.items[i+1:]...)
	for j := i; j < len(s.items); j++ {
		s.pos[s.items[j]] = j
	}
	return true
}

func (s *KeySet) Contains(k Key) bool {
	_, ok := s.pos[k]
	return ok
}

func (s *KeySet) Len() int      { return len(s.items) }
func (s *KeySet) IsEmpty() bool { return len(s.items) == 0 }

// Keys returns the members in insertion order.
func (s *KeySet) Keys() []Key {
	out := make([]Key, len(s.items))
	copy(out, s.items)
	return out
}

func (s *KeySet) Clone() *KeySet { return NewKeySet(s.items...) }

// Equal compares membership, ignoring order.
func (s *KeySet) Equal(o *KeySet) bool {
	if s.Len() != o.Len() {
		return false
	}
	for _, k := range s.items {
		if !o.Contains(k) {
			return false
		}
	}
	return true
}

// PatternSet is an insertion-ordered set of Patterns with membership by
// structural equality. The zero value is empty and ready to use. Not safe
// for concurrent mutation.
type PatternSet struct {
	items []Pattern
	pos   map[string]int
}

// NewPatternSet returns a set holding ps in first-seen order.
func NewPatternSet(ps ...Pattern) *PatternSet {
	s := &PatternSet{}
	for _, p := range ps {
		s.Add(p)
	}
	return s
}

// Add inserts p and reports whether it was new.
func (s *PatternSet) Add(p Pattern) bool {
	if s.pos == nil {
		s.pos = make(map[string]int)
	}
	if _, ok := s.pos[p.text]; ok {
		return false
	}
	s.pos[p.text] = len(s.items)
	s.items = append(s.items, p)
	return true
}

// Remove deletes p and reports whether it was present.
func (s *PatternSet) Remove(p Pattern) bool {
	i, ok := s.pos[p.text]
	if !ok {
		return false
	}
	delete(s.pos, p.text)
	s.items = append(s.items[:i], s.items[i+1:]...)
	for j := i; j < len(s.items); j++ {
		s.pos[s.items[j].text] = j
	}
	return true
}

func (s *PatternSet) Contains(p Pattern) bool {
	_, ok := s.pos[p.text]
	return ok
}

func (s *PatternSet) Len() int      { return len(s.items) }
func (s *PatternSet) IsEmpty() bool { return len(s.items) == 0 }

// Clear removes every member.
func (s *PatternSet) Clear() {
	s.items = nil
	s.pos = nil
}

// Patterns returns the members in insertion order.
func (s *PatternSet) Patterns() []Pattern {
	out := make([]Pattern, len(s.items))
	copy(out, s.items)
	return out
}

func (s *PatternSet) Clone() *PatternSet { return NewPatternSet(s.items...) }

// Equal compares membership, ignoring order.
func (s *PatternSet) Equal(o *PatternSet) bool {
	if s.Len() != o.Len() {
		return false
	}
	for _, p := range s.items {
		if !o.Contains(p) {
			return false
		}
	}
	return true
}

// Match returns the first member, in insertion order, that matches k.
func (s *PatternSet) Match(k Key) (Pattern, bool) {
	for _, p := range s.items {
		if p.Matches(k) {
			return p, true
		}
	}
	return Pattern{}, false
}

// MatchesAny reports whether any member matches k.
func (s *PatternSet) MatchesAny(k Key) bool {
	_, ok := s.Match(k)
	return ok
}

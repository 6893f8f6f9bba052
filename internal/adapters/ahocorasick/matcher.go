// Package ahocorasick provides multi-pattern segment scanning using an Aho-Corasick automaton.
// It wraps the petar-dambovaliev/aho-corasick library for O(n + m + z) matching.
package ahocorasick

import (
	aho "github.com/petar-dambovaliev/aho-corasick"

	"github.com/corey/exalge/internal/ports"
)

var _ ports.SegmentScanner = (*Scanner)(nil)

// Scanner reports which literal glob segments occur in a field value.
// Rebuild() compiles an automaton; Scan() returns segment indices.
type Scanner struct {
	automaton aho.AhoCorasick
	segments  []string
	built     bool
}

// NewScanner returns an empty scanner. Its signature fits
// index.PatternIndex.SetScanner.
func NewScanner() ports.SegmentScanner {
	return &Scanner{}
}

// Rebuild compiles the automaton from the given segments.
func (s *Scanner) Rebuild(segments []string) {
	s.segments = make([]string, len(segments))
	copy(s.segments, segments)

	builder := aho.NewAhoCorasickBuilder(aho.Opts{
		DFA: true,
	})
	s.automaton = builder.Build(s.segments)
	s.built = true
}

// Scan returns the index of every segment found in value.
// The overlapping iterator is required: with "che" and "ache" in the set,
// a leftmost non-overlapping search over "Apache" would report only one.
func (s *Scanner) Scan(value string) []int {
	if !s.built || len(s.segments) == 0 || value == "" {
		return nil
	}
	iter := s.automaton.IterOverlappingByte([]byte(value))
	var found []int
	for next := iter.Next(); next != nil; next = iter.Next() {
		found = append(found, next.Pattern())
	}
	return found
}

// SegmentCount returns the number of segments in the automaton.
func (s *Scanner) SegmentCount() int {
	return len(s.segments)
}

// Segment returns the segment at the given index.
func (s *Scanner) Segment(idx int) string {
	if idx < 0 || idx >= len(s.segments) {
		return ""
	}
	return s.segments[idx]
}

package ports

// SegmentScanner finds which of a fixed set of literal segments occur in a
// value using multi-pattern matching (Aho-Corasick). A single pass over the
// value reports every segment present, regardless of how many segments are
// in the set, including segments that overlap each other.
//
// The scanner must be rebuilt when the segment set changes. The pattern
// index rebuilds lazily, on the first lookup after a mutation.
type SegmentScanner interface {
	// Scan returns the indices (into the slice given to Rebuild) of every
	// segment found in value. Indices may repeat. Returns nil if none match.
	// Matching is byte-exact and case-sensitive.
	Scan(value string) []int

	// Rebuild replaces the segment set and reconstructs the automaton.
	// Empty segments are never passed in.
	Rebuild(segments []string)
}

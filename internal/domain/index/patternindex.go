// Package index implements the pattern index: an inverted map from literal
// field values to the patterns that pin that value, plus a catch-all bucket
// for patterns with no literal field.
//
// Lookup is a two-phase filter. Buckets only nominate candidates; every
// candidate is re-tested with the full five-field predicate, because a
// pattern filed under its name may still fail on its unit or subject. When
// no bucketed pattern matches, the catch-all bucket is scanned in insertion
// order.
package index

import (
	"fmt"

	"github.com/corey/exalge/internal/domain/exbase"
	"github.com/corey/exalge/internal/ports"
)

// PatternIndex accelerates matching Keys against a pattern set.
// Thread safety: NOT safe for concurrent use. The owner serializes access
// and hands other owners a Clone.
type PatternIndex struct {
	patterns *exbase.PatternSet

	// keyIndex[f] maps a literal value of field f to every pattern whose
	// field f is Fixed to that value. A pattern with several Fixed fields
	// is filed in every matching bucket.
	keyIndex [exbase.NumFields]map[string]*exbase.PatternSet

	// wildcards holds the patterns with no Fixed field.
	wildcards *exbase.PatternSet

	// newScanner builds scanners for the catch-all prefilter; nil disables it.
	newScanner func() ports.SegmentScanner
	prefilter  *globPrefilter // nil when stale
}

// New creates an index holding ps.
func New(ps ...exbase.Pattern) (*PatternIndex, error) {
	x := &PatternIndex{
		patterns:  exbase.NewPatternSet(),
		wildcards: exbase.NewPatternSet(),
	}
	for f := range x.keyIndex {
		x.keyIndex[f] = make(map[string]*exbase.PatternSet)
	}
	if err := x.AddAll(ps...); err != nil {
		return nil, err
	}
	return x, nil
}

// FromSet creates an index over every member of s, in s's order.
func FromSet(s *exbase.PatternSet) (*PatternIndex, error) {
	return New(s.Patterns()...)
}

// SetScanner enables the catch-all prefilter. newScanner is called once per
// indexed field each time the prefilter is rebuilt. Pass nil to disable.
func (x *PatternIndex) SetScanner(newScanner func() ports.SegmentScanner) {
	x.newScanner = newScanner
	x.prefilter = nil
}

// Add files p in every bucket for its Fixed fields, or in the catch-all
// bucket when it has none. Adding a member again is a no-op.
func (x *PatternIndex) Add(p exbase.Pattern) error {
	if p.IsZero() {
		return fmt.Errorf("index add: %w: zero pattern", exbase.ErrInvalidArgument)
	}
	if !x.patterns.Add(p) {
		return nil
	}
	fixed := p.FixedFields()
	if len(fixed) == 0 {
		x.wildcards.Add(p)
		x.prefilter = nil
		return nil
	}
	for _, f := range fixed {
		lit := p.Item(f).Text()
		bucket, ok := x.keyIndex[f][lit]
		if !ok {
			bucket = exbase.NewPatternSet()
			x.keyIndex[f][lit] = bucket
		}
		bucket.Add(p)
	}
	return nil
}

// AddAll adds every pattern, stopping at the first invalid one.
func (x *PatternIndex) AddAll(ps ...exbase.Pattern) error {
	for _, p := range ps {
		if err := x.Add(p); err != nil {
			return err
		}
	}
	return nil
}

// Remove takes p out of every bucket it occupies and drops buckets left
// empty. Reports whether p was present.
func (x *PatternIndex) Remove(p exbase.Pattern) bool {
	if !x.patterns.Remove(p) {
		return false
	}
	fixed := p.FixedFields()
	if len(fixed) == 0 {
		x.wildcards.Remove(p)
		x.prefilter = nil
		return true
	}
	for _, f := range fixed {
		lit := p.Item(f).Text()
		if bucket, ok := x.keyIndex[f][lit]; ok {
			bucket.Remove(p)
			if bucket.IsEmpty() {
				delete(x.keyIndex[f], lit)
			}
		}
	}
	return true
}

// RemoveAll removes every pattern and reports whether any was present.
func (x *PatternIndex) RemoveAll(ps ...exbase.Pattern) bool {
	changed := false
	for _, p := range ps {
		if x.Remove(p) {
			changed = true
		}
	}
	return changed
}

// Clear empties the index. The scanner setting is kept.
func (x *PatternIndex) Clear() {
	x.patterns.Clear()
	x.wildcards.Clear()
	for f := range x.keyIndex {
		x.keyIndex[f] = make(map[string]*exbase.PatternSet)
	}
	x.prefilter = nil
}

func (x *PatternIndex) Size() int                      { return x.patterns.Len() }
func (x *PatternIndex) IsEmpty() bool                  { return x.patterns.IsEmpty() }
func (x *PatternIndex) Contains(p exbase.Pattern) bool { return x.patterns.Contains(p) }
func (x *PatternIndex) Patterns() []exbase.Pattern     { return x.patterns.Patterns() }
func (x *PatternIndex) PatternSet() *exbase.PatternSet { return x.patterns.Clone() }

// IsEmptyFixedPattern reports whether every key index is empty, i.e. every
// member (if any) lives in the catch-all bucket.
func (x *PatternIndex) IsEmptyFixedPattern() bool {
	for f := range x.keyIndex {
		if len(x.keyIndex[f]) > 0 {
			return false
		}
	}
	return true
}

// KeyIndex returns a snapshot of the buckets for field f.
func (x *PatternIndex) KeyIndex(f exbase.Field) map[string][]exbase.Pattern {
	out := make(map[string][]exbase.Pattern, len(x.keyIndex[f]))
	for lit, bucket := range x.keyIndex[f] {
		out[lit] = bucket.Patterns()
	}
	return out
}

func (x *PatternIndex) NameKeyIndex() map[string][]exbase.Pattern {
	return x.KeyIndex(exbase.FieldName)
}

func (x *PatternIndex) UnitKeyIndex() map[string][]exbase.Pattern {
	return x.KeyIndex(exbase.FieldUnit)
}

func (x *PatternIndex) PeriodKeyIndex() map[string][]exbase.Pattern {
	return x.KeyIndex(exbase.FieldPeriod)
}

func (x *PatternIndex) SubjectKeyIndex() map[string][]exbase.Pattern {
	return x.KeyIndex(exbase.FieldSubject)
}

// AllWildcardPatterns returns the catch-all bucket in insertion order.
func (x *PatternIndex) AllWildcardPatterns() []exbase.Pattern {
	return x.wildcards.Patterns()
}

// Matches returns a member matching k: bucketed candidates first, then the
// catch-all bucket. No match is not an error.
func (x *PatternIndex) Matches(k exbase.Key) (exbase.Pattern, bool) {
	if p, ok := x.MatchesFixedPatternIndex(k); ok {
		return p, true
	}
	return x.MatchesAllWildcardPattern(k)
}

// MatchesAny reports whether any member matches k.
func (x *PatternIndex) MatchesAny(k exbase.Key) bool {
	_, ok := x.Matches(k)
	return ok
}

// MatchesFixedPatternIndex looks up k's value in each field's buckets, in
// canonical field order, and returns the first candidate whose full
// predicate holds.
func (x *PatternIndex) MatchesFixedPatternIndex(k exbase.Key) (exbase.Pattern, bool) {
	for _, f := range exbase.Fields {
		bucket, ok := x.keyIndex[f][k.Field(f)]
		if !ok {
			continue
		}
		if p, ok := bucket.Match(k); ok {
			return p, true
		}
	}
	return exbase.Pattern{}, false
}

// MatchesAllWildcardPattern scans the catch-all bucket in insertion order.
// With a scanner configured, patterns whose glob segments are absent from
// k are skipped without running the full predicate.
func (x *PatternIndex) MatchesAllWildcardPattern(k exbase.Key) (exbase.Pattern, bool) {
	if x.wildcards.IsEmpty() {
		return exbase.Pattern{}, false
	}
	if x.newScanner == nil {
		return x.wildcards.Match(k)
	}
	if x.prefilter == nil {
		x.prefilter = buildPrefilter(x.wildcards.Patterns(), x.newScanner)
	}
	return x.prefilter.match(k)
}

// Filter returns the members of keys matched by any pattern, in keys' order.
func (x *PatternIndex) Filter(keys *exbase.KeySet) *exbase.KeySet {
	out := exbase.NewKeySet()
	for _, k := range keys.Keys() {
		if x.MatchesAny(k) {
			out.Add(k)
		}
	}
	return out
}

// Clone returns an independent copy with the same scanner setting.
func (x *PatternIndex) Clone() *PatternIndex {
	c, _ := New(x.patterns.Patterns()...) // members were validated on Add
	c.newScanner = x.newScanner
	return c
}

// Package trans implements the two key-rewriting structures of exchange
// algebra: the rewrite table (TransTable), which reclassifies keys, and the
// ratio map (DivideRatios), which splits one value across derived keys.
//
// Both rewrite a key through a target pattern the same way: Fixed fields of
// the target overwrite, wildcard fields pass the original value through
// (see exbase.Pattern.Rewrite).
package trans

import (
	"errors"
	"fmt"

	"github.com/corey/exalge/internal/domain/exalge"
	"github.com/corey/exalge/internal/domain/exbase"
	"github.com/shopspring/decimal"
)

// Errors returned by this package. Invalid arguments share the exbase
// sentinel so callers test one kind with errors.Is.
var (
	ErrInvalidArgument = exbase.ErrInvalidArgument
	ErrEmptyRatios     = errors.New("ratio map is empty")
	ErrZeroTotalRatio  = errors.New("total ratio is zero")
)

// Entry is one from/to row of a TransTable.
type Entry struct {
	From exbase.Pattern
	To   exbase.Pattern
}

// TransTable maps "from" patterns to "to" patterns. Lookup is a linear scan
// in insertion order; tables are expected to be small.
// Thread safety: NOT safe for concurrent mutation.
type TransTable struct {
	from []exbase.Pattern
	to   map[string]exbase.Pattern // from.String() -> to
}

// NewTransTable returns an empty table.
func NewTransTable() *TransTable {
	return &TransTable{to: make(map[string]exbase.Pattern)}
}

// Put maps from to to. An existing mapping for an equal from pattern is
// replaced in place, keeping its position.
func (t *TransTable) Put(from, to exbase.Pattern) error {
	if from.IsZero() || to.IsZero() {
		return fmt.Errorf("trans table put: %w: from and to patterns are required", ErrInvalidArgument)
	}
	if _, ok := t.to[from.String()]; !ok {
		t.from = append(t.from, from)
	}
	t.to[from.String()] = to
	return nil
}

// Get returns the to pattern for from.
func (t *TransTable) Get(from exbase.Pattern) (exbase.Pattern, bool) {
	to, ok := t.to[from.String()]
	return to, ok
}

// Remove deletes the mapping for from and reports whether it existed.
func (t *TransTable) Remove(from exbase.Pattern) bool {
	if _, ok := t.to[from.String()]; !ok {
		return false
	}
	delete(t.to, from.String())
	for i, p := range t.from {
		if p.Equal(from) {
			t.from = append(t.from[:i], t.from[i+1:]...)
			break
		}
	}
	return true
}

func (t *TransTable) Len() int      { return len(t.from) }
func (t *TransTable) IsEmpty() bool { return len(t.from) == 0 }

// Entries returns the rows in insertion order.
func (t *TransTable) Entries() []Entry {
	out := make([]Entry, len(t.from))
	for i, f := range t.from {
		out[i] = Entry{From: f, To: t.to[f.String()]}
	}
	return out
}

// Clone returns an independent copy.
func (t *TransTable) Clone() *TransTable {
	c := NewTransTable()
	for _, e := range t.Entries() {
		_ = c.Put(e.From, e.To) // entries were validated on Put
	}
	return c
}

// Equal compares mappings, ignoring row order.
func (t *TransTable) Equal(o *TransTable) bool {
	if t.Len() != o.Len() {
		return false
	}
	for k, to := range t.to {
		oto, ok := o.to[k]
		if !ok || !to.Equal(oto) {
			return false
		}
	}
	return true
}

// MatchesTransFrom returns the first from pattern, in insertion order, that
// matches k.
func (t *TransTable) MatchesTransFrom(k exbase.Key) (exbase.Pattern, bool) {
	for _, f := range t.from {
		if f.Matches(k) {
			return f, true
		}
	}
	return exbase.Pattern{}, false
}

// Transform rewrites k through the first matching row. With no match k is
// returned unchanged.
func (t *TransTable) Transform(k exbase.Key) (exbase.Key, error) {
	out, _, err := t.rewrite("transform", k)
	if err != nil {
		return exbase.Key{}, err
	}
	return out, nil
}

// Transfer is Transform that reports no match instead of passing k through.
func (t *TransTable) Transfer(k exbase.Key) (exbase.Key, bool, error) {
	out, ok, err := t.rewrite("transfer", k)
	if err != nil || !ok {
		return exbase.Key{}, false, err
	}
	return out, true, nil
}

func (t *TransTable) rewrite(op string, k exbase.Key) (exbase.Key, bool, error) {
	if k.IsZero() {
		return exbase.Key{}, false, fmt.Errorf("%s: %w: zero key", op, ErrInvalidArgument)
	}
	from, ok := t.MatchesTransFrom(k)
	if !ok {
		return k, false, nil
	}
	return t.to[from.String()].Rewrite(k), true, nil
}

// TransformSet transforms every key. Keys that collide after rewriting
// collapse, so the result may be smaller than keys.
func (t *TransTable) TransformSet(keys *exbase.KeySet) *exbase.KeySet {
	out := exbase.NewKeySet()
	for _, k := range keys.Keys() {
		nk, _, _ := t.rewrite("transform", k) // set members are never zero
		out.Add(nk)
	}
	return out
}

// TransformExalge rewrites every key of e; values of colliding keys sum.
func (t *TransTable) TransformExalge(e *exalge.Exalge) *exalge.Exalge {
	out := exalge.New()
	e.Each(func(k exbase.Key, v decimal.NullDecimal) {
		nk, _, _ := t.rewrite("transform", k)
		if v.Valid {
			_ = out.Add(nk, v.Decimal)
		} else if !out.Contains(nk) {
			_ = out.Set(nk, v)
		}
	})
	return out
}

// TransferExalge books a double-entry transfer for every matched entry: the
// value leaves k (recorded on ^k) and arrives on the rewritten key.
// Unmatched and null entries produce nothing.
func (t *TransTable) TransferExalge(e *exalge.Exalge) *exalge.Exalge {
	out := exalge.New()
	e.Each(func(k exbase.Key, v decimal.NullDecimal) {
		if !v.Valid {
			return
		}
		nk, ok, _ := t.rewrite("transfer", k)
		if !ok {
			return
		}
		_ = out.Add(k.Flip(), v.Decimal)
		_ = out.Add(nk, v.Decimal)
	})
	return out
}

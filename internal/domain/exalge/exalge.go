// Package exalge implements the exchange-algebra element: a sparse, ordered
// mapping from exbase.Key to an arbitrary-precision decimal quantity.
//
// An entry may be null, meaning "not recorded", which is distinct from zero.
// Arithmetic treats null as zero; Equal does not.
package exalge

import (
	"fmt"
	"strings"

	"github.com/corey/exalge/internal/domain/exbase"
	"github.com/shopspring/decimal"
)

// Matcher selects keys. Both *exbase.PatternSet and *index.PatternIndex
// satisfy it.
type Matcher interface {
	MatchesAny(k exbase.Key) bool
}

// Exalge is an exchange-algebra element. Entries keep first-insertion order.
// Thread safety: NOT safe for concurrent mutation.
type Exalge struct {
	keys   []exbase.Key
	values map[exbase.Key]decimal.NullDecimal
}

// New returns an empty element.
func New() *Exalge {
	return &Exalge{values: make(map[exbase.Key]decimal.NullDecimal)}
}

// Of returns a one-entry element.
func Of(k exbase.Key, v decimal.Decimal) (*Exalge, error) {
	e := New()
	if err := e.Add(k, v); err != nil {
		return nil, err
	}
	return e, nil
}

func checkKey(op string, k exbase.Key) error {
	if k.IsZero() {
		return fmt.Errorf("%s: %w: zero key", op, exbase.ErrInvalidArgument)
	}
	return nil
}

// Add sums v into k's entry. A null entry becomes v.
func (e *Exalge) Add(k exbase.Key, v decimal.Decimal) error {
	if err := checkKey("exalge add", k); err != nil {
		return err
	}
	cur, ok := e.values[k]
	if !ok {
		e.keys = append(e.keys, k)
	}
	if cur.Valid {
		v = cur.Decimal.Add(v)
	}
	e.values[k] = decimal.NewNullDecimal(v)
	return nil
}

// Set overwrites k's entry. An invalid NullDecimal records a null.
func (e *Exalge) Set(k exbase.Key, v decimal.NullDecimal) error {
	if err := checkKey("exalge set", k); err != nil {
		return err
	}
	if _, ok := e.values[k]; !ok {
		e.keys = append(e.keys, k)
	}
	e.values[k] = v
	return nil
}

// Get returns k's entry and whether k is present at all.
func (e *Exalge) Get(k exbase.Key) (decimal.NullDecimal, bool) {
	v, ok := e.values[k]
	return v, ok
}

// Value returns k's quantity, zero when absent or null.
func (e *Exalge) Value(k exbase.Key) decimal.Decimal {
	if v := e.values[k]; v.Valid {
		return v.Decimal
	}
	return decimal.Zero
}

func (e *Exalge) Contains(k exbase.Key) bool {
	_, ok := e.values[k]
	return ok
}

// Remove deletes k's entry and reports whether it was present.
func (e *Exalge) Remove(k exbase.Key) bool {
	if _, ok := e.values[k]; !ok {
		return false
	}
	delete(e.values, k)
	for i, kk := range e.keys {
		if kk == k {
			e.keys = append(e.keys[:i], e.keys[i+1:]...)
			break
		}
	}
	return true
}

func (e *Exalge) Len() int      { return len(e.keys) }
func (e *Exalge) IsEmpty() bool { return len(e.keys) == 0 }

// Keys returns the keys in insertion order.
func (e *Exalge) Keys() []exbase.Key {
	out := make([]exbase.Key, len(e.keys))
	copy(out, e.keys)
	return out
}

// KeySet returns the keys as an ordered set.
func (e *Exalge) KeySet() *exbase.KeySet { return exbase.NewKeySet(e.keys...) }

// Each calls fn for every entry in insertion order.
func (e *Exalge) Each(fn func(k exbase.Key, v decimal.NullDecimal)) {
	for _, k := range e.keys {
		fn(k, e.values[k])
	}
}

// Clone returns an independent copy.
func (e *Exalge) Clone() *Exalge {
	c := New()
	c.keys = append(c.keys, e.keys...)
	for k, v := range e.values {
		c.values[k] = v
	}
	return c
}

// Equal reports same keys and identical values: decimals must agree in
// value and in scale, and null only equals null.
func (e *Exalge) Equal(o *Exalge) bool {
	if e.Len() != o.Len() {
		return false
	}
	for k, v := range e.values {
		w, ok := o.values[k]
		if !ok || v.Valid != w.Valid {
			return false
		}
		if v.Valid && (v.Decimal.Exponent() != w.Decimal.Exponent() || !v.Decimal.Equal(w.Decimal)) {
			return false
		}
	}
	return true
}

// SameValues reports same keys with numerically equal values, treating
// null as zero and ignoring scale.
func (e *Exalge) SameValues(o *Exalge) bool {
	if e.Len() != o.Len() {
		return false
	}
	for k := range e.values {
		if !o.Contains(k) {
			return false
		}
		if !e.Value(k).Equal(o.Value(k)) {
			return false
		}
	}
	return true
}

// String renders entries as "value key" terms joined by " + ".
func (e *Exalge) String() string {
	if e.IsEmpty() {
		return "0"
	}
	terms := make([]string, 0, len(e.keys))
	for _, k := range e.keys {
		v := e.values[k]
		s := "null"
		if v.Valid {
			s = v.Decimal.String()
		}
		terms = append(terms, s+" "+k.String())
	}
	return strings.Join(terms, " + ")
}

// FormatValue renders v keeping its scale, so "1.50" stays "1.50" and
// reads back Equal.
func FormatValue(v decimal.Decimal) string {
	if v.Exponent() < 0 {
		return v.StringFixed(-v.Exponent())
	}
	return v.String()
}

// ParseValue parses a decimal literal. The empty string is null.
func ParseValue(s string) (decimal.NullDecimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("%w: not a decimal", exbase.ErrInvalidArgument)
	}
	return decimal.NewNullDecimal(v), nil
}

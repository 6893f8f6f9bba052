package trans

import (
	"fmt"

	"github.com/corey/exalge/internal/domain/exalge"
	"github.com/corey/exalge/internal/domain/exbase"
	"github.com/shopspring/decimal"
)

// RatioEntry is one pattern/weight row of a DivideRatios.
type RatioEntry struct {
	Pattern exbase.Pattern
	Ratio   decimal.Decimal
}

// DivideRatios maps target patterns to non-negative weights and splits a
// value across them.
//
// The total ratio is a cached scalar, NOT maintained by Put: call
// UpdateTotalRatio or SetTotalRatio. It takes part in Equal, and a stale or
// zero total is what a normalized DivideTransfer divides by.
//
// Thread safety: NOT safe for concurrent mutation. Hand other owners a Clone.
type DivideRatios struct {
	patterns []exbase.Pattern
	ratios   map[string]decimal.Decimal // pattern.String() -> weight
	total    decimal.Decimal
}

// NewDivideRatios returns an empty map with a zero total.
func NewDivideRatios() *DivideRatios {
	return &DivideRatios{ratios: make(map[string]decimal.Decimal)}
}

// Put sets p's weight, replacing any prior weight in place. The total is
// left as it was.
func (r *DivideRatios) Put(p exbase.Pattern, w decimal.Decimal) error {
	if p.IsZero() {
		return fmt.Errorf("divide ratios put: %w: pattern is required", ErrInvalidArgument)
	}
	if w.IsNegative() {
		return fmt.Errorf("divide ratios put: %w: negative ratio %s for %s", ErrInvalidArgument, w, p)
	}
	if _, ok := r.ratios[p.String()]; !ok {
		r.patterns = append(r.patterns, p)
	}
	r.ratios[p.String()] = w
	return nil
}

// Get returns p's weight.
func (r *DivideRatios) Get(p exbase.Pattern) (decimal.Decimal, bool) {
	w, ok := r.ratios[p.String()]
	return w, ok
}

// Remove deletes p's weight and reports whether it existed. The total is
// left as it was.
func (r *DivideRatios) Remove(p exbase.Pattern) bool {
	if _, ok := r.ratios[p.String()]; !ok {
		return false
	}
	delete(r.ratios, p.String())
	for i, q := range r.patterns {
		if q.Equal(p) {
			r.patterns = append(r.patterns[:i], r.patterns[i+1:]...)
			break
		}
	}
	return true
}

func (r *DivideRatios) Len() int      { return len(r.patterns) }
func (r *DivideRatios) IsEmpty() bool { return len(r.patterns) == 0 }

// Entries returns the rows in insertion order.
func (r *DivideRatios) Entries() []RatioEntry {
	out := make([]RatioEntry, len(r.patterns))
	for i, p := range r.patterns {
		out[i] = RatioEntry{Pattern: p, Ratio: r.ratios[p.String()]}
	}
	return out
}

// TotalRatio returns the cached total.
func (r *DivideRatios) TotalRatio() decimal.Decimal { return r.total }

// SetTotalRatio overwrites the cached total.
func (r *DivideRatios) SetTotalRatio(total decimal.Decimal) error {
	if total.IsNegative() {
		return fmt.Errorf("set total ratio: %w: negative total %s", ErrInvalidArgument, total)
	}
	r.total = total
	return nil
}

// UpdateTotalRatio recomputes the cached total as the sum of the current
// weights and returns it.
func (r *DivideRatios) UpdateTotalRatio() decimal.Decimal {
	sum := decimal.Zero
	for _, p := range r.patterns {
		sum = sum.Add(r.ratios[p.String()])
	}
	r.total = sum
	return sum
}

// Clone returns an independent copy, total included.
func (r *DivideRatios) Clone() *DivideRatios {
	c := NewDivideRatios()
	c.patterns = append(c.patterns, r.patterns...)
	for k, w := range r.ratios {
		c.ratios[k] = w
	}
	c.total = r.total
	return c
}

// Equal compares weights (numerically, ignoring row order) and the cached
// total. Equal weights with different totals are unequal.
func (r *DivideRatios) Equal(o *DivideRatios) bool {
	if r.Len() != o.Len() || !r.total.Equal(o.total) {
		return false
	}
	for k, w := range r.ratios {
		ow, ok := o.ratios[k]
		if !ok || !w.Equal(ow) {
			return false
		}
	}
	return true
}

// DivideTransfer splits value across the map: every row rewrites base
// through its pattern and receives value*weight/total when useTotalRatio is
// set, or value*weight otherwise. Rewritten keys that collide sum.
func (r *DivideRatios) DivideTransfer(base exbase.Key, value decimal.Decimal, useTotalRatio bool) (*exalge.Exalge, error) {
	if base.IsZero() {
		return nil, fmt.Errorf("divide transfer: %w: base key is required", ErrInvalidArgument)
	}
	if err := r.checkDivisible(useTotalRatio); err != nil {
		return nil, err
	}
	out := exalge.New()
	r.divideInto(out, base, value, useTotalRatio)
	return out, nil
}

// DivideTransferExalge divides every non-null entry of e and sums the results.
func (r *DivideRatios) DivideTransferExalge(e *exalge.Exalge, useTotalRatio bool) (*exalge.Exalge, error) {
	if err := r.checkDivisible(useTotalRatio); err != nil {
		return nil, err
	}
	out := exalge.New()
	e.Each(func(k exbase.Key, v decimal.NullDecimal) {
		if v.Valid {
			r.divideInto(out, k, v.Decimal, useTotalRatio)
		}
	})
	return out, nil
}

func (r *DivideRatios) checkDivisible(useTotalRatio bool) error {
	if r.IsEmpty() {
		return fmt.Errorf("divide transfer: %w", ErrEmptyRatios)
	}
	if useTotalRatio && r.total.IsZero() {
		return fmt.Errorf("divide transfer: %w", ErrZeroTotalRatio)
	}
	return nil
}

func (r *DivideRatios) divideInto(out *exalge.Exalge, base exbase.Key, value decimal.Decimal, useTotalRatio bool) {
	for _, p := range r.patterns {
		v := value.Mul(r.ratios[p.String()])
		if useTotalRatio {
			v = trimZeros(v.Div(r.total))
		}
		_ = out.Add(p.Rewrite(base), v) // base is non-zero, so rewritten keys are too
	}
}

// trimZeros drops the trailing zeros Div pads its quotient with, so 1200/100
// is 12 rather than 12.0000000000000000.
func trimZeros(v decimal.Decimal) decimal.Decimal {
	for v.Exponent() < 0 {
		t := v.Truncate(-v.Exponent() - 1)
		if !t.Equal(v) {
			break
		}
		v = t
	}
	return v
}

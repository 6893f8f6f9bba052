package exalge

import (
	"github.com/corey/exalge/internal/domain/exbase"
	"github.com/shopspring/decimal"
)

// Plus returns e + o. Colliding keys sum; a null stays null only when both
// sides are null.
func (e *Exalge) Plus(o *Exalge) *Exalge {
	out := e.Clone()
	o.Each(func(k exbase.Key, v decimal.NullDecimal) {
		if v.Valid {
			_ = out.Add(k, v.Decimal) // keys come from a valid element
		} else if !out.Contains(k) {
			_ = out.Set(k, v)
		}
	})
	return out
}

// Multiply scales every non-null value by s.
func (e *Exalge) Multiply(s decimal.Decimal) *Exalge {
	out := New()
	e.Each(func(k exbase.Key, v decimal.NullDecimal) {
		if v.Valid {
			v = decimal.NewNullDecimal(v.Decimal.Mul(s))
		}
		_ = out.Set(k, v)
	})
	return out
}

// Hat flips the polarity of every key. Keys that collide after flipping sum.
func (e *Exalge) Hat() *Exalge {
	out := New()
	e.Each(func(k exbase.Key, v decimal.NullDecimal) {
		if v.Valid {
			_ = out.Add(k.Flip(), v.Decimal)
		} else if !out.Contains(k.Flip()) {
			_ = out.Set(k.Flip(), v)
		}
	})
	return out
}

// Bar nets every key against its hat counterpart. The non-zero remainder is
// kept on the side that was larger; pairs that cancel are dropped. Pair
// order follows the first-inserted member of each pair.
func (e *Exalge) Bar() *Exalge {
	out := New()
	done := make(map[exbase.Key]bool, len(e.keys))
	for _, k := range e.keys {
		plus := k.WithHat(exbase.NoHat)
		if done[plus] {
			continue
		}
		done[plus] = true
		net := e.Value(plus).Sub(e.Value(plus.Flip()))
		switch net.Sign() {
		case 1:
			_ = out.Add(plus, net)
		case -1:
			_ = out.Add(plus.Flip(), net.Neg())
		}
	}
	return out
}

// Norm sums every non-null value.
func (e *Exalge) Norm() decimal.Decimal {
	sum := decimal.Zero
	for _, k := range e.keys {
		if v := e.values[k]; v.Valid {
			sum = sum.Add(v.Decimal)
		}
	}
	return sum
}

// Projection keeps the entries whose key m matches.
func (e *Exalge) Projection(m Matcher) *Exalge {
	out := New()
	e.Each(func(k exbase.Key, v decimal.NullDecimal) {
		if m.MatchesAny(k) {
			_ = out.Set(k, v)
		}
	})
	return out
}

// NonZero drops null and zero entries.
func (e *Exalge) NonZero() *Exalge {
	out := New()
	e.Each(func(k exbase.Key, v decimal.NullDecimal) {
		if v.Valid && !v.Decimal.IsZero() {
			_ = out.Set(k, v)
		}
	})
	return out
}

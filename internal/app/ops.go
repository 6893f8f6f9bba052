package app

import (
	"fmt"
	"strings"

	"github.com/corey/exalge/internal/adapters/ahocorasick"
	"github.com/corey/exalge/internal/domain/exalge"
	"github.com/corey/exalge/internal/domain/exbase"
	"github.com/corey/exalge/internal/domain/index"
	"github.com/corey/exalge/internal/domain/trans"
	"github.com/shopspring/decimal"
)

// Kind names one of the four persisted value objects.
type Kind string

const (
	KindPatterns Kind = "patterns"
	KindTable    Kind = "table"
	KindRatios   Kind = "ratios"
	KindExalge   Kind = "exalge"
)

// Kinds lists every Kind, for help text and validation.
var Kinds = []Kind{KindPatterns, KindTable, KindRatios, KindExalge}

// ParseKind accepts a Kind name, case-insensitively.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if strings.EqualFold(s, string(k)) {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: unknown kind %q", exbase.ErrInvalidArgument, s)
}

// NewIndex builds a pattern index over ps. Unless disabled, catch-all glob
// lookups go through the Aho-Corasick prefilter.
func (a *App) NewIndex(ps *exbase.PatternSet) (*index.PatternIndex, error) {
	x, err := index.FromSet(ps)
	if err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}
	if !a.cfg.DisablePrefilter {
		x.SetScanner(ahocorasick.NewScanner)
	}
	return x, nil
}

// Match keeps the entries of e whose key any pattern in ps matches.
func (a *App) Match(ps *exbase.PatternSet, e *exalge.Exalge) (*exalge.Exalge, error) {
	x, err := a.NewIndex(ps)
	if err != nil {
		return nil, err
	}
	return e.Projection(x), nil
}

// MatchKeys keeps the keys any pattern in ps matches.
func (a *App) MatchKeys(ps *exbase.PatternSet, keys *exbase.KeySet) (*exbase.KeySet, error) {
	x, err := a.NewIndex(ps)
	if err != nil {
		return nil, err
	}
	return x.Filter(keys), nil
}

// Transform reclassifies every key of e through t.
func (a *App) Transform(t *trans.TransTable, e *exalge.Exalge) *exalge.Exalge {
	return t.TransformExalge(e)
}

// Transfer books a double-entry transfer for every entry of e that t matches.
func (a *App) Transfer(t *trans.TransTable, e *exalge.Exalge) *exalge.Exalge {
	return t.TransferExalge(e)
}

// Divide splits every non-null entry of e across dr.
func (a *App) Divide(dr *trans.DivideRatios, e *exalge.Exalge, useTotalRatio bool) (*exalge.Exalge, error) {
	out, err := dr.DivideTransferExalge(e, useTotalRatio)
	if err != nil {
		return nil, fmt.Errorf("divide: %w", err)
	}
	return out, nil
}

// DivideBase splits one value, given as text, across dr from the base key
// given in its canonical text form.
func (a *App) DivideBase(dr *trans.DivideRatios, base, value string, useTotalRatio bool) (*exalge.Exalge, error) {
	k, err := exbase.ParseKey(base)
	if err != nil {
		return nil, fmt.Errorf("base key: %w", err)
	}
	v, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return nil, fmt.Errorf("value %q: %w: not a decimal", value, exbase.ErrInvalidArgument)
	}
	out, err := dr.DivideTransfer(k, v, useTotalRatio)
	if err != nil {
		return nil, fmt.Errorf("divide: %w", err)
	}
	return out, nil
}

// StaleTotal reports whether the cached total of dr differs from the sum of
// its weights, and returns that sum.
func StaleTotal(dr *trans.DivideRatios) (decimal.Decimal, bool) {
	sum := decimal.Zero
	for _, e := range dr.Entries() {
		sum = sum.Add(e.Ratio)
	}
	return sum, !sum.Equal(dr.TotalRatio())
}

// Convert reads a value of the given kind from src and writes it to dst,
// changing format and charset as configured.
func (a *App) Convert(kind Kind, src Source, dst Sink) error {
	switch kind {
	case KindPatterns:
		v, err := a.LoadPatterns(src)
		if err != nil {
			return err
		}
		return a.SavePatterns(dst, v)
	case KindTable:
		v, err := a.LoadTable(src)
		if err != nil {
			return err
		}
		return a.SaveTable(dst, v)
	case KindRatios:
		v, err := a.LoadRatios(src)
		if err != nil {
			return err
		}
		return a.SaveRatios(dst, v)
	case KindExalge:
		v, err := a.LoadExalge(src)
		if err != nil {
			return err
		}
		return a.SaveExalge(dst, v)
	}
	return fmt.Errorf("convert: %w: unknown kind %q", exbase.ErrInvalidArgument, kind)
}

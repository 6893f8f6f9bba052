// Package csvio is the tabular Codec: one headed CSV table per value object,
// one row per entry, key fields in separate columns.
//
//	patterns  name,hat,unit,period,subject
//	table     from_name,...,from_subject,to_name,...,to_subject
//	ratios    ratio,name,hat,unit,period,subject   (+ optional "total,<dec>" row)
//	exalge    value,name,hat,unit,period,subject   (empty value = null)
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/corey/exalge/internal/domain/exalge"
	"github.com/corey/exalge/internal/domain/exbase"
	"github.com/corey/exalge/internal/domain/trans"
	"github.com/corey/exalge/internal/ports"
	"github.com/shopspring/decimal"
)

var _ ports.Codec = (*Codec)(nil)

var keyColumns = []string{"name", "hat", "unit", "period", "subject"}

var (
	patternsHeader = keyColumns
	tableHeader    = append(prefixed("from_", keyColumns), prefixed("to_", keyColumns)...)
	ratiosHeader   = append([]string{"ratio"}, keyColumns...)
	exalgeHeader   = append([]string{"value"}, keyColumns...)
)

const totalLabel = "total"

// Codec reads and writes CSV.
type Codec struct{}

func New() *Codec { return &Codec{} }

func (*Codec) Name() string { return "csv" }

// ReadPatterns reads a pattern set. Duplicate rows collapse.
func (*Codec) ReadPatterns(r io.Reader) (*exbase.PatternSet, error) {
	s, err := openSheet(r, patternsHeader)
	if err != nil {
		return nil, err
	}
	ps := exbase.NewPatternSet()
	for {
		rec, err := s.next()
		if err == io.EOF {
			return ps, nil
		}
		if err != nil {
			return nil, err
		}
		if err := s.checkWidth(rec); err != nil {
			return nil, err
		}
		p, err := s.pattern(rec, 0)
		if err != nil {
			return nil, err
		}
		ps.Add(p)
	}
}

func (*Codec) WritePatterns(w io.Writer, ps *exbase.PatternSet) error {
	rows := [][]string{patternsHeader}
	for _, p := range ps.Patterns() {
		rows = append(rows, patternRow(p))
	}
	return writeAll(w, rows)
}

// ReadTable reads a rewrite table. A repeated from pattern replaces the
// earlier row's target.
func (*Codec) ReadTable(r io.Reader) (*trans.TransTable, error) {
	s, err := openSheet(r, tableHeader)
	if err != nil {
		return nil, err
	}
	t := trans.NewTransTable()
	for {
		rec, err := s.next()
		if err == io.EOF {
			return t, nil
		}
		if err != nil {
			return nil, err
		}
		if err := s.checkWidth(rec); err != nil {
			return nil, err
		}
		from, err := s.pattern(rec, 0)
		if err != nil {
			return nil, err
		}
		to, err := s.pattern(rec, len(keyColumns))
		if err != nil {
			return nil, err
		}
		if err := t.Put(from, to); err != nil {
			return nil, s.fail(rec, 0, err)
		}
	}
}

func (*Codec) WriteTable(w io.Writer, t *trans.TransTable) error {
	rows := [][]string{tableHeader}
	for _, e := range t.Entries() {
		rows = append(rows, append(patternRow(e.From), patternRow(e.To)...))
	}
	return writeAll(w, rows)
}

// ReadRatios reads a ratio map. A two-column "total,<decimal>" row sets the
// cached total; without one the total is recomputed from the weights.
func (*Codec) ReadRatios(r io.Reader) (*trans.DivideRatios, error) {
	s, err := openSheet(r, ratiosHeader)
	if err != nil {
		return nil, err
	}
	dr := trans.NewDivideRatios()
	haveTotal := false
	for {
		rec, err := s.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(rec) == 2 && strings.EqualFold(strings.TrimSpace(rec[0]), totalLabel) {
			total, err := parseDecimal(rec[1])
			if err != nil {
				return nil, s.totalFail(rec, err)
			}
			if err := dr.SetTotalRatio(total); err != nil {
				return nil, s.totalFail(rec, err)
			}
			haveTotal = true
			continue
		}
		if err := s.checkWidth(rec); err != nil {
			return nil, err
		}
		w, err := parseDecimal(rec[0])
		if err != nil {
			return nil, s.fail(rec, 0, err)
		}
		p, err := s.pattern(rec, 1)
		if err != nil {
			return nil, err
		}
		if err := dr.Put(p, w); err != nil {
			return nil, s.fail(rec, 0, err)
		}
	}
	if !haveTotal {
		dr.UpdateTotalRatio()
	}
	return dr, nil
}

// WriteRatios writes the weights followed by the cached total row.
func (*Codec) WriteRatios(w io.Writer, dr *trans.DivideRatios) error {
	rows := [][]string{ratiosHeader}
	for _, e := range dr.Entries() {
		rows = append(rows, append([]string{exalge.FormatValue(e.Ratio)}, patternRow(e.Pattern)...))
	}
	rows = append(rows, []string{totalLabel, exalge.FormatValue(dr.TotalRatio())})
	return writeAll(w, rows)
}

// ReadExalge reads an element. Rows with the same key sum; an empty value
// cell is null.
func (*Codec) ReadExalge(r io.Reader) (*exalge.Exalge, error) {
	s, err := openSheet(r, exalgeHeader)
	if err != nil {
		return nil, err
	}
	e := exalge.New()
	for {
		rec, err := s.next()
		if err == io.EOF {
			return e, nil
		}
		if err != nil {
			return nil, err
		}
		if err := s.checkWidth(rec); err != nil {
			return nil, err
		}
		v, err := exalge.ParseValue(rec[0])
		if err != nil {
			return nil, s.fail(rec, 0, err)
		}
		k, err := s.key(rec, 1)
		if err != nil {
			return nil, err
		}
		if v.Valid {
			err = e.Add(k, v.Decimal)
		} else if !e.Contains(k) {
			err = e.Set(k, v)
		}
		if err != nil {
			return nil, s.fail(rec, 1, err)
		}
	}
}

func (*Codec) WriteExalge(w io.Writer, e *exalge.Exalge) error {
	rows := [][]string{exalgeHeader}
	e.Each(func(k exbase.Key, v decimal.NullDecimal) {
		cell := ""
		if v.Valid {
			cell = exalge.FormatValue(v.Decimal)
		}
		rows = append(rows, append([]string{cell}, keyRow(k)...))
	})
	return writeAll(w, rows)
}

func (s *sheet) totalFail(rec []string, err error) error {
	line, col := s.r.FieldPos(1)
	return &FormatError{Line: line, Column: col, Field: totalLabel, Value: rec[1], Err: err}
}

func parseDecimal(text string) (decimal.Decimal, error) {
	v, err := exalge.ParseValue(text)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if !v.Valid {
		return decimal.Decimal{}, fmt.Errorf("%w: value is required", exbase.ErrInvalidArgument)
	}
	return v.Decimal, nil
}

func writeAll(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

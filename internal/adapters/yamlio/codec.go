// Package yamlio is the hierarchical Codec. Keys and patterns travel in
// their canonical text form; decimals are plain YAML numbers written with
// their scale intact.
//
//	patterns: ["Apa*-*-*-*-*", ...]
//	table:    [{from: ..., to: ...}, ...]
//	ratios:   {total: 100, entries: [{pattern: ..., ratio: 10}, ...]}
//	exalge:   [{key: ..., value: 1.50}, ...]   # value: null keeps a null entry
package yamlio

import (
	"errors"
	"fmt"
	"io"

	"github.com/corey/exalge/internal/domain/exalge"
	"github.com/corey/exalge/internal/domain/exbase"
	"github.com/corey/exalge/internal/domain/trans"
	"github.com/corey/exalge/internal/ports"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

var _ ports.Codec = (*Codec)(nil)

// FormatError is the codec-wide positioned error.
type FormatError = ports.FormatError

type patternsDoc struct {
	Patterns []yaml.Node `yaml:"patterns"`
}

type tableRow struct {
	From yaml.Node `yaml:"from"`
	To   yaml.Node `yaml:"to"`
}

type tableDoc struct {
	Table []tableRow `yaml:"table"`
}

type ratioRow struct {
	Pattern yaml.Node `yaml:"pattern"`
	Ratio   yaml.Node `yaml:"ratio"`
}

type ratiosDoc struct {
	Ratios struct {
		Total   yaml.Node  `yaml:"total"`
		Entries []ratioRow `yaml:"entries"`
	} `yaml:"ratios"`
}

type exalgeRow struct {
	Key   yaml.Node `yaml:"key"`
	Value yaml.Node `yaml:"value"`
}

type exalgeDoc struct {
	Exalge []exalgeRow `yaml:"exalge"`
}

// Codec reads and writes YAML.
type Codec struct{}

func New() *Codec { return &Codec{} }

func (*Codec) Name() string { return "yaml" }

func (*Codec) ReadPatterns(r io.Reader) (*exbase.PatternSet, error) {
	var doc patternsDoc
	if err := decode(r, &doc); err != nil {
		return nil, err
	}
	ps := exbase.NewPatternSet()
	for i := range doc.Patterns {
		p, err := pattern(&doc.Patterns[i], "pattern")
		if err != nil {
			return nil, err
		}
		ps.Add(p)
	}
	return ps, nil
}

func (*Codec) WritePatterns(w io.Writer, ps *exbase.PatternSet) error {
	seq := sequence()
	for _, p := range ps.Patterns() {
		seq.Content = append(seq.Content, str(p.String()))
	}
	return encode(w, mapping("patterns", seq))
}

func (*Codec) ReadTable(r io.Reader) (*trans.TransTable, error) {
	var doc tableDoc
	if err := decode(r, &doc); err != nil {
		return nil, err
	}
	t := trans.NewTransTable()
	for i := range doc.Table {
		row := &doc.Table[i]
		from, err := pattern(&row.From, "from")
		if err != nil {
			return nil, err
		}
		to, err := pattern(&row.To, "to")
		if err != nil {
			return nil, err
		}
		if err := t.Put(from, to); err != nil {
			return nil, fail(&row.From, "from", err)
		}
	}
	return t, nil
}

func (*Codec) WriteTable(w io.Writer, t *trans.TransTable) error {
	seq := sequence()
	for _, e := range t.Entries() {
		seq.Content = append(seq.Content, mapping("from", str(e.From.String()), "to", str(e.To.String())))
	}
	return encode(w, mapping("table", seq))
}

// ReadRatios restores total when present and recomputes it otherwise.
func (*Codec) ReadRatios(r io.Reader) (*trans.DivideRatios, error) {
	var doc ratiosDoc
	if err := decode(r, &doc); err != nil {
		return nil, err
	}
	dr := trans.NewDivideRatios()
	for i := range doc.Ratios.Entries {
		row := &doc.Ratios.Entries[i]
		p, err := pattern(&row.Pattern, "pattern")
		if err != nil {
			return nil, err
		}
		w, err := number(&row.Ratio, "ratio")
		if err != nil {
			return nil, err
		}
		if err := dr.Put(p, w); err != nil {
			return nil, fail(&row.Ratio, "ratio", err)
		}
	}
	if isAbsent(&doc.Ratios.Total) {
		dr.UpdateTotalRatio()
		return dr, nil
	}
	total, err := number(&doc.Ratios.Total, "total")
	if err != nil {
		return nil, err
	}
	if err := dr.SetTotalRatio(total); err != nil {
		return nil, fail(&doc.Ratios.Total, "total", err)
	}
	return dr, nil
}

func (*Codec) WriteRatios(w io.Writer, dr *trans.DivideRatios) error {
	seq := sequence()
	for _, e := range dr.Entries() {
		seq.Content = append(seq.Content, mapping("pattern", str(e.Pattern.String()), "ratio", num(e.Ratio)))
	}
	return encode(w, mapping("ratios", mapping("total", num(dr.TotalRatio()), "entries", seq)))
}

// ReadExalge sums repeated keys. A missing or null value is a null entry.
func (*Codec) ReadExalge(r io.Reader) (*exalge.Exalge, error) {
	var doc exalgeDoc
	if err := decode(r, &doc); err != nil {
		return nil, err
	}
	e := exalge.New()
	for i := range doc.Exalge {
		row := &doc.Exalge[i]
		text, err := scalar(&row.Key, "key")
		if err != nil {
			return nil, err
		}
		k, err := exbase.ParseKey(text)
		if err != nil {
			return nil, fail(&row.Key, "key", err)
		}
		var v decimal.NullDecimal
		if !isAbsent(&row.Value) {
			text, err := scalar(&row.Value, "value")
			if err != nil {
				return nil, err
			}
			if v, err = exalge.ParseValue(text); err != nil {
				return nil, fail(&row.Value, "value", err)
			}
		}
		if v.Valid {
			err = e.Add(k, v.Decimal)
		} else if !e.Contains(k) {
			err = e.Set(k, v)
		}
		if err != nil {
			return nil, fail(&row.Key, "key", err)
		}
	}
	return e, nil
}

func (*Codec) WriteExalge(w io.Writer, e *exalge.Exalge) error {
	seq := sequence()
	e.Each(func(k exbase.Key, v decimal.NullDecimal) {
		value := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
		if v.Valid {
			value = num(v.Decimal)
		}
		seq.Content = append(seq.Content, mapping("key", str(k.String()), "value", value))
	})
	return encode(w, mapping("exalge", seq))
}

// ----- decoding -----

func decode(r io.Reader, doc any) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	err := dec.Decode(doc)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return &FormatError{Line: lineOf(err), Err: err}
}

// lineOf recovers the line number yaml.v3 embeds in its error text.
func lineOf(err error) int {
	msg := err.Error()
	var te *yaml.TypeError
	if errors.As(err, &te) && len(te.Errors) > 0 {
		msg = te.Errors[0]
	}
	var line int
	if _, scanErr := fmt.Sscanf(msg, "yaml: line %d:", &line); scanErr == nil {
		return line
	}
	if _, scanErr := fmt.Sscanf(msg, "line %d:", &line); scanErr == nil {
		return line
	}
	return 0
}

// isAbsent reports a missing mapping key or an explicit null.
func isAbsent(n *yaml.Node) bool {
	return n.Kind == 0 || (n.Kind == yaml.ScalarNode && n.Tag == "!!null")
}

func scalar(n *yaml.Node, field string) (string, error) {
	if n.Kind == 0 {
		return "", &FormatError{Field: field, Err: fmt.Errorf("%w: %s is required", exbase.ErrInvalidArgument, field)}
	}
	if n.Kind != yaml.ScalarNode {
		return "", fail(n, field, errors.New("expected a scalar"))
	}
	return n.Value, nil
}

func pattern(n *yaml.Node, field string) (exbase.Pattern, error) {
	text, err := scalar(n, field)
	if err != nil {
		return exbase.Pattern{}, err
	}
	p, err := exbase.ParsePattern(text)
	if err != nil {
		return exbase.Pattern{}, fail(n, field, err)
	}
	return p, nil
}

func number(n *yaml.Node, field string) (decimal.Decimal, error) {
	text, err := scalar(n, field)
	if err != nil {
		return decimal.Decimal{}, err
	}
	v, err := exalge.ParseValue(text)
	if err != nil {
		return decimal.Decimal{}, fail(n, field, err)
	}
	if !v.Valid {
		return decimal.Decimal{}, fail(n, field, fmt.Errorf("%w: value is required", exbase.ErrInvalidArgument))
	}
	return v.Decimal, nil
}

func fail(n *yaml.Node, field string, err error) error {
	return &FormatError{Line: n.Line, Column: n.Column, Field: field, Value: n.Value, Err: err}
}

// ----- encoding -----

func encode(w io.Writer, root *yaml.Node) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return fmt.Errorf("write yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("write yaml: %w", err)
	}
	return nil
}

// mapping builds a block mapping from alternating key names and values.
func mapping(kv ...any) *yaml.Node {
	m := &yaml.Node{Kind: yaml.MappingNode}
	for i := 0; i < len(kv); i += 2 {
		m.Content = append(m.Content, str(kv[i].(string)), kv[i+1].(*yaml.Node))
	}
	return m
}

func sequence() *yaml.Node { return &yaml.Node{Kind: yaml.SequenceNode} }

func str(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

// num emits a plain scalar so 1.50 is written as a number, not "1.50".
func num(v decimal.Decimal) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: exalge.FormatValue(v)}
}

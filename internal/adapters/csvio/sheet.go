package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/corey/exalge/internal/domain/exbase"
	"github.com/corey/exalge/internal/ports"
)

// FormatError is the codec-wide positioned error.
type FormatError = ports.FormatError

// sheet reads one headed CSV table and turns field failures into
// positioned FormatErrors.
type sheet struct {
	r      *csv.Reader
	header []string
}

func openSheet(r io.Reader, header []string) (*sheet, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rec, err := cr.Read()
	if err == io.EOF {
		return nil, &FormatError{Line: 1, Err: errors.New("missing header row")}
	}
	if err != nil {
		return nil, fromCSV(err)
	}
	if !headerMatches(rec, header) {
		line, _ := cr.FieldPos(0)
		return nil, &FormatError{
			Line:   line,
			Column: 1,
			Field:  "header",
			Value:  strings.Join(rec, ","),
			Err:    fmt.Errorf("expected %s", strings.Join(header, ",")),
		}
	}
	return &sheet{r: cr, header: header}, nil
}

// next returns the next data record, or io.EOF.
func (s *sheet) next() ([]string, error) {
	rec, err := s.r.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, fromCSV(err)
	}
	return rec, nil
}

// checkWidth rejects a record that does not have one value per header column.
func (s *sheet) checkWidth(rec []string) error {
	if len(rec) == len(s.header) {
		return nil
	}
	line, _ := s.r.FieldPos(0)
	return &FormatError{Line: line, Err: fmt.Errorf("expected %d fields, got %d", len(s.header), len(rec))}
}

// fail attributes err to field i of the current record.
func (s *sheet) fail(rec []string, i int, err error) error {
	line, col := s.r.FieldPos(i)
	return &FormatError{Line: line, Column: col, Field: s.header[i], Value: rec[i], Err: err}
}

// key builds a Key from the five columns starting at off.
func (s *sheet) key(rec []string, off int) (exbase.Key, error) {
	hat, err := exbase.ParseHat(strings.TrimSpace(rec[off+1]), false)
	if err != nil {
		return exbase.Key{}, s.fail(rec, off+1, err)
	}
	k, err := exbase.NewKey(rec[off], hat, rec[off+2], rec[off+3], rec[off+4])
	if err != nil {
		return exbase.Key{}, s.fail(rec, off+fieldOffset(err), err)
	}
	return k, nil
}

// pattern builds a Pattern from the five columns starting at off.
func (s *sheet) pattern(rec []string, off int) (exbase.Pattern, error) {
	hat, err := exbase.ParseHat(strings.TrimSpace(rec[off+1]), true)
	if err != nil {
		return exbase.Pattern{}, s.fail(rec, off+1, err)
	}
	p, err := exbase.NewPattern(rec[off], hat, rec[off+2], rec[off+3], rec[off+4])
	if err != nil {
		return exbase.Pattern{}, s.fail(rec, off+fieldOffset(err), err)
	}
	return p, nil
}

// fieldOffset maps a FieldError to its column within a five-column key block.
func fieldOffset(err error) int {
	var fe *exbase.FieldError
	if !errors.As(err, &fe) {
		return 0
	}
	switch fe.Field {
	case "hat":
		return 1
	case "unit":
		return 2
	case "period":
		return 3
	case "subject":
		return 4
	}
	return 0
}

func headerMatches(rec, header []string) bool {
	if len(rec) != len(header) {
		return false
	}
	for i := range rec {
		if !strings.EqualFold(strings.TrimSpace(rec[i]), header[i]) {
			return false
		}
	}
	return true
}

func fromCSV(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &FormatError{Line: pe.Line, Column: pe.Column, Err: pe.Err}
	}
	return fmt.Errorf("read csv: %w", err)
}

func keyRow(k exbase.Key) []string {
	return []string{k.Name(), k.Hat().String(), k.Unit(), k.Period(), k.Subject()}
}

func patternRow(p exbase.Pattern) []string {
	return []string{
		p.Item(exbase.FieldName).Text(),
		p.Hat().String(),
		p.Item(exbase.FieldUnit).Text(),
		p.Item(exbase.FieldPeriod).Text(),
		p.Item(exbase.FieldSubject).Text(),
	}
}

func prefixed(prefix string, names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = prefix + n
	}
	return out
}

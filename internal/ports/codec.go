// Package ports defines the interfaces (contracts) that adapters must implement.
// These are the boundaries of the hexagonal architecture. Domain logic depends
// only on these interfaces, never on concrete implementations.
package ports

import (
	"fmt"
	"io"

	"github.com/corey/exalge/internal/domain/exalge"
	"github.com/corey/exalge/internal/domain/exbase"
	"github.com/corey/exalge/internal/domain/trans"
)

// Codec reads and writes the four persisted value objects in one text
// format (tabular CSV, hierarchical YAML). Readers and writers carry UTF-8;
// charset transcoding happens outside the codec.
//
// Round-trip: Write followed by Read yields a value Equal to the original.
// Every Read failure that can be attributed to a position in the input is
// returned as a *FormatError.
type Codec interface {
	// Name is the format name shown to users ("csv", "yaml").
	Name() string

	ReadPatterns(r io.Reader) (*exbase.PatternSet, error)
	WritePatterns(w io.Writer, ps *exbase.PatternSet) error

	ReadTable(r io.Reader) (*trans.TransTable, error)
	WriteTable(w io.Writer, t *trans.TransTable) error

	// ReadRatios restores the cached total when the input carries one and
	// recomputes it from the weights otherwise.
	ReadRatios(r io.Reader) (*trans.DivideRatios, error)
	WriteRatios(w io.Writer, dr *trans.DivideRatios) error

	// ReadExalge keeps null entries as null.
	ReadExalge(r io.Reader) (*exalge.Exalge, error)
	WriteExalge(w io.Writer, e *exalge.Exalge) error
}

// FormatError pinpoints a malformed value in codec input.
type FormatError struct {
	Line   int    // 1-based; 0 when unknown
	Column int    // 1-based; 0 when unknown
	Field  string // column or key name, e.g. "from_hat", "ratio"
	Value  string // raw text as read
	Err    error
}

func (e *FormatError) Error() string {
	loc := fmt.Sprintf("line %d", e.Line)
	if e.Column > 0 {
		loc += fmt.Sprintf(", column %d", e.Column)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: %s %q: %v", loc, e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("%s: %v", loc, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

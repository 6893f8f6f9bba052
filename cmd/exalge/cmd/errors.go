package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/corey/exalge/internal/adapters/charset"
	"github.com/corey/exalge/internal/app"
	"github.com/corey/exalge/internal/domain/trans"
	"github.com/corey/exalge/internal/ports"
)

// PrintError writes err and, when one applies, actionable guidance.
func PrintError(w io.Writer, err error) {
	fmt.Fprintf(w, "error: %v\n", err)
	if h := hint(err); h != "" {
		fmt.Fprintln(w, h)
	}
}

// hint returns follow-up guidance for the errors users can fix themselves.
func hint(err error) string {
	var fe *ports.FormatError
	switch {
	case errors.As(err, &fe) && fe.Field != "":
		return fmt.Sprintf("  → fix %s at line %d, column %d\n"+
			"  → keys need name, hat (NO_HAT or HAT), unit, period, subject; patterns may use *", fe.Field, fe.Line, fe.Column)
	case errors.As(err, &fe):
		return fmt.Sprintf("  → the file is malformed near line %d\n"+
			"  → check the header row and quoting", fe.Line)
	case errors.Is(err, trans.ErrZeroTotalRatio):
		return "  → the total ratio is 0: its weights sum to 0 or the file sets total 0\n" +
			"  → or divide by raw weights:  exalge divide --no-total ..."
	case errors.Is(err, trans.ErrEmptyRatios):
		return "  → the ratio map has no entries"
	case errors.Is(err, charset.ErrUnknownCharset):
		return "  → use an IANA charset name, e.g.  --encoding UTF-8  or  --encoding Shift_JIS"
	case errors.Is(err, app.ErrUnknownFormat):
		return "  → name files .csv, .yaml or .yml, or pass --format csv|yaml"
	}
	return ""
}

package exbase

import (
	"fmt"
	"strings"
)

// joinFields renders five raw field values as one text form, escaping the
// delimiter and backslash inside each value.
func joinFields(fields ...string) string {
	var sb strings.Builder
	for i, f := range fields {
		if i > 0 {
			sb.WriteByte(Delimiter)
		}
		for _, r := range f {
			if r == Delimiter || r == '\\' {
				sb.WriteByte('\\')
			}
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// splitFields splits a text form into exactly five unescaped field values.
// Only "\-" and "\\" are valid escapes.
func splitFields(s string) ([]string, error) {
	parts := make([]string, 0, 5)
	var cur strings.Builder
	escaped := false
	for _, r := range s {
		switch {
		case escaped:
			if r != Delimiter && r != '\\' {
				return nil, fmt.Errorf("%w: bad escape %q in %q", ErrInvalidArgument, "\\"+string(r), s)
			}
			cur.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == Delimiter:
			parts = append(parts, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	if escaped {
		return nil, fmt.Errorf("%w: trailing escape in %q", ErrInvalidArgument, s)
	}
	parts = append(parts, cur.String())
	if len(parts) != 5 {
		return nil, fmt.Errorf("%w: %q has %d fields, want 5", ErrInvalidArgument, s, len(parts))
	}
	return parts, nil
}

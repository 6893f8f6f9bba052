// Package charset resolves character-set names to golang.org/x/text
// encodings and wraps readers and writers with the matching transcoder.
//
// UTF-8 is the default. Reading UTF-8 strips a leading byte-order mark;
// writing UTF-8 passes bytes through untouched.
package charset

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Default is the charset used when none is named.
const Default = "UTF-8"

// ErrUnknownCharset is returned for names neither index recognizes.
var ErrUnknownCharset = errors.New("unknown charset")

// Lookup resolves name (case-insensitive, IANA or WHATWG label) to an
// encoding. The empty name means Default. UTF-8 resolves to nil: callers
// treat a nil encoding as identity.
func Lookup(name string) (encoding.Encoding, error) {
	n := strings.TrimSpace(name)
	if n == "" || isUTF8(n) {
		return nil, nil
	}
	if enc, err := ianaindex.IANA.Encoding(n); err == nil && enc != nil {
		return enc, nil
	}
	if enc, err := htmlindex.Get(n); err == nil && enc != nil {
		return enc, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCharset, name)
}

// Validate reports whether name resolves.
func Validate(name string) error {
	_, err := Lookup(name)
	return err
}

// Canonical returns the IANA name for a charset, or name itself when the
// index has none.
func Canonical(name string) string {
	enc, err := Lookup(name)
	if err != nil {
		return name
	}
	if enc == nil {
		return Default
	}
	if n, err := ianaindex.IANA.Name(enc); err == nil {
		return n
	}
	return name
}

// NewReader decodes r from the named charset to UTF-8.
func NewReader(r io.Reader, name string) (io.Reader, error) {
	enc, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return transform.NewReader(r, unicode.UTF8BOM.NewDecoder()), nil
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}

// NewWriter encodes UTF-8 written to the result into the named charset on w.
// A rune the charset cannot represent fails the write.
// Close flushes any buffered tail; it does not close w.
func NewWriter(w io.Writer, name string) (io.WriteCloser, error) {
	enc, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return nopCloser{w}, nil
	}
	return transform.NewWriter(w, enc.NewEncoder()), nil
}

func isUTF8(n string) bool {
	switch strings.ToLower(n) {
	case "utf-8", "utf8":
		return true
	}
	return false
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

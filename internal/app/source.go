package app

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/corey/exalge/internal/adapters/charset"
	"github.com/corey/exalge/internal/domain/exalge"
	"github.com/corey/exalge/internal/domain/exbase"
	"github.com/corey/exalge/internal/domain/trans"
	"github.com/corey/exalge/internal/ports"
)

type sourceKind int

const (
	fromFile sourceKind = iota
	fromBytes
	fromText
)

// Source is where a value object is read from. File and byte sources are
// decoded from the configured charset; text sources are already decoded.
// Given the same content all three read identically.
type Source struct {
	kind     sourceKind
	path     string
	data     []byte
	text     string
	Format   string // overrides Config.Format and the file extension
	Encoding string // overrides Config.Encoding
}

func FileSource(path string) Source { return Source{kind: fromFile, path: path} }

func BytesSource(data []byte, format string) Source {
	return Source{kind: fromBytes, data: data, Format: format}
}

func TextSource(text, format string) Source {
	return Source{kind: fromText, text: text, Format: format}
}

// Name identifies the source in error messages.
func (s Source) Name() string {
	switch s.kind {
	case fromBytes:
		return "<bytes>"
	case fromText:
		return "<text>"
	}
	return s.path
}

func (a *App) open(s Source) (io.Reader, func() error, error) {
	switch s.kind {
	case fromText:
		return strings.NewReader(s.text), noClose, nil
	case fromBytes:
		r, err := charset.NewReader(bytes.NewReader(s.data), a.encoding(s.Encoding))
		return r, noClose, err
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, nil, err
	}
	r, err := charset.NewReader(f, a.encoding(s.Encoding))
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return r, f.Close, nil
}

// Sink is where a value object is written: a file (created or truncated)
// or an open writer. Both are encoded to the configured charset.
type Sink struct {
	path     string
	w        io.Writer
	Format   string // overrides Config.Format and the file extension
	Encoding string // overrides Config.Encoding
}

func FileSink(path string) Sink { return Sink{path: path} }

func WriterSink(w io.Writer, format string) Sink { return Sink{w: w, Format: format} }

// Name identifies the sink in error messages.
func (s Sink) Name() string {
	if s.w != nil {
		return "<writer>"
	}
	return s.path
}

func noClose() error { return nil }

func (a *App) encoding(override string) string {
	if override != "" {
		return override
	}
	return a.cfg.Encoding
}

func load[T any](a *App, src Source, read func(ports.Codec, io.Reader) (T, error)) (T, error) {
	var zero T
	format, err := resolveFormat(src.Format, a.cfg.Format, src.path)
	if err != nil {
		return zero, fmt.Errorf("read %s: %w", src.Name(), err)
	}
	c, err := a.codec(format)
	if err != nil {
		return zero, fmt.Errorf("read %s: %w", src.Name(), err)
	}
	r, closeFn, err := a.open(src)
	if err != nil {
		return zero, fmt.Errorf("open %s: %w", src.Name(), err)
	}
	defer closeFn()

	v, err := read(c, r)
	if err != nil {
		return zero, fmt.Errorf("read %s: %w", src.Name(), err)
	}
	return v, nil
}

func save(a *App, dst Sink, write func(ports.Codec, io.Writer) error) (err error) {
	format, err := resolveFormat(dst.Format, a.cfg.Format, dst.path)
	if err != nil {
		return fmt.Errorf("write %s: %w", dst.Name(), err)
	}
	c, err := a.codec(format)
	if err != nil {
		return fmt.Errorf("write %s: %w", dst.Name(), err)
	}

	w := dst.w
	if w == nil {
		var f *os.File
		if f, err = os.Create(dst.path); err != nil {
			return fmt.Errorf("create %s: %w", dst.Name(), err)
		}
		defer func() {
			if cerr := f.Close(); err == nil && cerr != nil {
				err = fmt.Errorf("close %s: %w", dst.Name(), cerr)
			}
		}()
		w = f
	}

	enc, err := charset.NewWriter(w, a.encoding(dst.Encoding))
	if err != nil {
		return fmt.Errorf("write %s: %w", dst.Name(), err)
	}
	if err := write(c, enc); err != nil {
		return fmt.Errorf("write %s: %w", dst.Name(), err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("write %s: %w", dst.Name(), err)
	}
	return nil
}

// ----- per-kind entry points -----

func (a *App) LoadPatterns(src Source) (*exbase.PatternSet, error) {
	return load(a, src, ports.Codec.ReadPatterns)
}

func (a *App) LoadTable(src Source) (*trans.TransTable, error) {
	return load(a, src, ports.Codec.ReadTable)
}

func (a *App) LoadRatios(src Source) (*trans.DivideRatios, error) {
	return load(a, src, ports.Codec.ReadRatios)
}

func (a *App) LoadExalge(src Source) (*exalge.Exalge, error) {
	return load(a, src, ports.Codec.ReadExalge)
}

func (a *App) SavePatterns(dst Sink, ps *exbase.PatternSet) error {
	return save(a, dst, func(c ports.Codec, w io.Writer) error { return c.WritePatterns(w, ps) })
}

func (a *App) SaveTable(dst Sink, t *trans.TransTable) error {
	return save(a, dst, func(c ports.Codec, w io.Writer) error { return c.WriteTable(w, t) })
}

func (a *App) SaveRatios(dst Sink, dr *trans.DivideRatios) error {
	return save(a, dst, func(c ports.Codec, w io.Writer) error { return c.WriteRatios(w, dr) })
}

func (a *App) SaveExalge(dst Sink, e *exalge.Exalge) error {
	return save(a, dst, func(c ports.Codec, w io.Writer) error { return c.WriteExalge(w, e) })
}

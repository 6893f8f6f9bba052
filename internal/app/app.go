// Package app wires together all adapters and domain logic.
// It loads and saves the exchange-algebra value objects through the format
// codecs and charset layer, and runs the batch operations the CLI drives.
package app

import (
	"fmt"

	"github.com/corey/exalge/internal/adapters/charset"
	"github.com/corey/exalge/internal/adapters/csvio"
	"github.com/corey/exalge/internal/adapters/yamlio"
	"github.com/corey/exalge/internal/ports"
)

// Config holds the settings shared by every load, save and operation.
type Config struct {
	Encoding         string // charset for file and byte I/O (default UTF-8)
	Format           string // force "csv" or "yaml"; empty = by file extension
	DisablePrefilter bool   // skip the Aho-Corasick catch-all prefilter
}

// App is the top-level container wiring codecs and settings together.
type App struct {
	cfg    Config
	codecs map[string]ports.Codec
}

// New creates an App. The encoding and any forced format are validated here
// so a bad flag fails before any file is touched.
func New(cfg Config) (*App, error) {
	if cfg.Encoding == "" {
		cfg.Encoding = charset.Default
	}
	if err := charset.Validate(cfg.Encoding); err != nil {
		return nil, fmt.Errorf("encoding: %w", err)
	}
	if cfg.Format != "" {
		f, err := NormalizeFormat(cfg.Format)
		if err != nil {
			return nil, err
		}
		cfg.Format = f
	}
	return &App{
		cfg: cfg,
		codecs: map[string]ports.Codec{
			FormatCSV:  csvio.New(),
			FormatYAML: yamlio.New(),
		},
	}, nil
}

// Config returns the resolved configuration.
func (a *App) Config() Config { return a.cfg }

// EncodingName returns the canonical name of the configured charset.
func (a *App) EncodingName() string { return charset.Canonical(a.cfg.Encoding) }

func (a *App) codec(format string) (ports.Codec, error) {
	c, ok := a.codecs[format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return c, nil
}

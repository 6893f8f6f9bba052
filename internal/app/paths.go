package app

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Format names accepted by Config.Format, Source.Format and Sink.Format.
const (
	FormatCSV  = "csv"
	FormatYAML = "yaml"
)

// ErrUnknownFormat is returned when no codec can be chosen for a path.
var ErrUnknownFormat = errors.New("unknown format")

// formatExtensions maps file extensions to formats.
var formatExtensions = map[string]string{
	".csv":  FormatCSV,
	".yaml": FormatYAML,
	".yml":  FormatYAML,
}

// FormatOf picks a format from a file extension.
func FormatOf(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := formatExtensions[ext]; ok {
		return f, nil
	}
	return "", fmt.Errorf("%w: cannot infer format from %q (use .csv, .yaml or .yml)", ErrUnknownFormat, path)
}

// NormalizeFormat lower-cases a format name and folds "yml" into "yaml".
// Unknown names are returned as an error.
func NormalizeFormat(name string) (string, error) {
	f := strings.ToLower(strings.TrimSpace(name))
	switch f {
	case FormatCSV:
		return FormatCSV, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// resolveFormat applies the precedence explicit > config > extension.
func resolveFormat(explicit, configured, path string) (string, error) {
	if explicit != "" {
		return NormalizeFormat(explicit)
	}
	if configured != "" {
		return NormalizeFormat(configured)
	}
	if path == "" {
		return "", fmt.Errorf("%w: in-memory data needs an explicit format", ErrUnknownFormat)
	}
	return FormatOf(path)
}

// Package output provides output formatters for catalog listings.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jmylchreest/nowplaying/internal/catalog"
)

// Track is one row of a catalog listing.
type Track struct {
	Index   int    `json:"index" yaml:"index"`
	Name    string `json:"name" yaml:"name"`
	Path    string `json:"path" yaml:"path"`
	Size    int64  `json:"size" yaml:"size"`
	Missing bool   `json:"missing,omitempty" yaml:"missing,omitempty"`
}

// FromCatalog builds listing rows, reading each track's size from disk.
// Tracks whose file cannot be read are marked missing.
func FromCatalog(cat *catalog.Catalog) []Track {
	tracks := make([]Track, 0, cat.Len())
	for i, t := range cat.Music {
		row := Track{Index: i, Name: t.Name, Path: t.Path}
		if st, err := os.Stat(t.Path); err == nil {
			row.Size = st.Size()
		} else {
			row.Missing = true
		}
		tracks = append(tracks, row)
	}
	return tracks
}

// Formatter formats catalog listings for output.
type Formatter interface {
	// Format writes formatted tracks to the writer.
	Format(w io.Writer, tracks []Track) error
}

// FormatType represents an output format type.
type FormatType string

const (
	FormatPlain FormatType = "plain"
	FormatJSON  FormatType = "json"
	FormatYAML  FormatType = "yaml"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (FormatType, error) {
	switch f := FormatType(strings.ToLower(s)); f {
	case FormatPlain, FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown format %q (must be plain, json, or yaml)", s)
	}
}

// FormatterOptions configures formatter behavior.
type FormatterOptions struct {
	Template  string // Custom template for plain format
	ShowIndex bool   // Show index prefix
	ShowPath  bool   // Show resolved file path
}

// DefaultFormatterOptions returns sensible defaults for plain output.
func DefaultFormatterOptions() FormatterOptions {
	return FormatterOptions{
		ShowIndex: true,
		ShowPath:  true,
	}
}

// NewFormatter creates a formatter for the specified format type.
func NewFormatter(format FormatType, opts FormatterOptions) Formatter {
	switch format {
	case FormatJSON:
		return NewJSONFormatter(opts)
	case FormatYAML:
		return NewYAMLFormatter(opts)
	case FormatPlain:
		fallthrough
	default:
		return NewPlainFormatter(opts)
	}
}

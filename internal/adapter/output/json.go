package output

import (
	"encoding/json"
	"io"
)

// JSONFormatter formats tracks as JSON.
type JSONFormatter struct {
	opts FormatterOptions
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(opts FormatterOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Format writes tracks as a JSON array.
func (f *JSONFormatter) Format(w io.Writer, tracks []Track) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(tracks)
}

package output

import (
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLFormatter formats tracks as a YAML sequence.
type YAMLFormatter struct {
	opts FormatterOptions
}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter(opts FormatterOptions) *YAMLFormatter {
	return &YAMLFormatter{opts: opts}
}

// Format writes tracks as YAML.
func (f *YAMLFormatter) Format(w io.Writer, tracks []Track) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(tracks); err != nil {
		return err
	}
	return encoder.Close()
}

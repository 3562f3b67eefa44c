package output

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/dustin/go-humanize"
)

// PlainFormatter formats tracks as aligned plain text.
type PlainFormatter struct {
	opts     FormatterOptions
	template *template.Template
}

// NewPlainFormatter creates a new plain text formatter.
func NewPlainFormatter(opts FormatterOptions) *PlainFormatter {
	f := &PlainFormatter{opts: opts}

	// Parse custom template if provided
	if opts.Template != "" {
		tmpl, err := template.New("plain").Funcs(templateFuncs()).Parse(opts.Template)
		if err == nil {
			f.template = tmpl
		}
	}

	return f
}

// Format writes one line per track.
func (f *PlainFormatter) Format(w io.Writer, tracks []Track) error {
	for _, t := range tracks {
		if err := f.formatTrack(w, t); err != nil {
			return err
		}
	}
	return nil
}

func (f *PlainFormatter) formatTrack(w io.Writer, t Track) error {
	if f.template != nil {
		return f.template.Execute(w, t)
	}

	var sb strings.Builder

	if f.opts.ShowIndex {
		sb.WriteString(fmt.Sprintf("%3d  ", t.Index))
	}

	sb.WriteString(fmt.Sprintf("%-32s  %9s", t.Name, sizeLabel(t)))

	if f.opts.ShowPath {
		sb.WriteString("  " + t.Path)
	}

	sb.WriteString("\n")

	_, err := w.Write([]byte(sb.String()))
	return err
}

// sizeLabel returns the human readable file size, or "missing".
func sizeLabel(t Track) string {
	if t.Missing {
		return "missing"
	}
	return humanize.Bytes(uint64(t.Size))
}

// templateFuncs returns the functions available to custom templates.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"size":  sizeLabel,
		"upper": strings.ToUpper,
		"lower": strings.ToLower,
	}
}

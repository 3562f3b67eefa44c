package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/nowplaying/internal/catalog"
)

func testTracks(t *testing.T) []Track {
	t.Helper()
	dir := t.TempDir()
	present := filepath.Join(dir, "a.wav")
	require.NoError(t, os.WriteFile(present, make([]byte, 2048), 0644))

	return FromCatalog(&catalog.Catalog{Music: []catalog.Track{
		{File: "a.wav", Name: "Song A", Path: present},
		{File: "b.wav", Name: "Song B", Path: filepath.Join(dir, "b.wav")},
	}})
}

func TestFromCatalog(t *testing.T) {
	tracks := testTracks(t)
	require.Len(t, tracks, 2)

	assert.Equal(t, 0, tracks[0].Index)
	assert.Equal(t, int64(2048), tracks[0].Size)
	assert.False(t, tracks[0].Missing)

	assert.Equal(t, 1, tracks[1].Index)
	assert.True(t, tracks[1].Missing)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    FormatType
		wantErr bool
	}{
		{"plain", FormatPlain, false},
		{"JSON", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"yml", FormatYAML, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlainFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	err := NewPlainFormatter(DefaultFormatterOptions()).Format(&buf, testTracks(t))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	assert.Contains(t, lines[0], "Song A")
	assert.Contains(t, lines[0], "2.0 kB")
	assert.Contains(t, lines[0], "a.wav")

	assert.Contains(t, lines[1], "Song B")
	assert.Contains(t, lines[1], "missing")
}

func TestPlainFormatter_NoPath(t *testing.T) {
	opts := DefaultFormatterOptions()
	opts.ShowPath = false

	var buf bytes.Buffer
	require.NoError(t, NewPlainFormatter(opts).Format(&buf, testTracks(t)))
	assert.NotContains(t, buf.String(), "a.wav")
}

func TestPlainFormatter_Template(t *testing.T) {
	opts := DefaultFormatterOptions()
	opts.Template = "{{.Index}}:{{upper .Name}}:{{size .}}\n"

	var buf bytes.Buffer
	require.NoError(t, NewPlainFormatter(opts).Format(&buf, testTracks(t)))
	assert.Equal(t, "0:SONG A:2.0 kB\n1:SONG B:missing\n", buf.String())
}

func TestJSONFormatter_Format(t *testing.T) {
	tracks := testTracks(t)

	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter(DefaultFormatterOptions()).Format(&buf, tracks))

	var decoded []Track
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, tracks, decoded)
}

func TestYAMLFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewYAMLFormatter(DefaultFormatterOptions()).Format(&buf, testTracks(t)))

	assert.Contains(t, buf.String(), "name: Song A")
	assert.Contains(t, buf.String(), "missing: true")
}

func TestNewFormatter(t *testing.T) {
	opts := DefaultFormatterOptions()
	assert.IsType(t, &JSONFormatter{}, NewFormatter(FormatJSON, opts))
	assert.IsType(t, &YAMLFormatter{}, NewFormatter(FormatYAML, opts))
	assert.IsType(t, &PlainFormatter{}, NewFormatter(FormatPlain, opts))
}

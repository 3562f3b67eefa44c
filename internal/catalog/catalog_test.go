package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jsonCatalog = `{
  "music": [
    {"file": "a.mp3", "name": "Track A"},
    {"file": "b.ogg", "name": "Track B"}
  ],
  "font": "font.ttf",
  "background_info": {"image": "panel.png", "rect": [0, 0, 320, 80]}
}`

// writeCatalog lays out a catalog directory with its music and asset files.
func writeCatalog(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "music"), 0755))
	for _, f := range []string{"music/a.mp3", "music/b.ogg", "font.ttf", "panel.png"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, f), []byte("x"), 0644))
	}

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_JSON(t *testing.T) {
	path := writeCatalog(t, "list.json", jsonCatalog)

	cat, err := Load(path, Options{})
	require.NoError(t, err)

	require.Equal(t, 2, cat.Len())
	assert.Equal(t, []string{"Track A", "Track B"}, cat.Names())
	assert.Equal(t, filepath.Join(filepath.Dir(path), "music", "a.mp3"), cat.Track(0).Path)
	assert.Equal(t, "font.ttf", cat.Font)
	assert.Equal(t, 320, cat.Background.Width())
	assert.Equal(t, path, cat.Source)
}

func TestLoad_YAML(t *testing.T) {
	content := `
music:
  - file: a.mp3
    name: Track A
background_info:
  image: panel.png
  rect: [0, 0, 200, 60]
`
	path := writeCatalog(t, "list.yaml", content)

	cat, err := Load(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Track A"}, cat.Names())
	assert.Equal(t, 200, cat.Background.Width())
}

func TestLoad_TOML(t *testing.T) {
	content := `
[[music]]
file = "b.ogg"
name = "Track B"

[background_info]
rect = [0, 0, 150, 40]
`
	path := writeCatalog(t, "list.toml", content)

	cat, err := Load(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Track B"}, cat.Names())
	assert.Equal(t, 150, cat.Background.Width())
}

func TestLoad_MusicDirOverride(t *testing.T) {
	path := writeCatalog(t, "list.json", `{"music":[{"file":"c.wav","name":"C"}]}`)
	other := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(other, "c.wav"), []byte("x"), 0644))

	cat, err := Load(path, Options{MusicDir: other})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(other, "c.wav"), cat.Track(0).Path)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		opts    Options
	}{
		{"empty", "list.json", `{"music":[]}`, Options{}},
		{"missing name", "list.json", `{"music":[{"file":"a.mp3"}]}`, Options{}},
		{"missing file field", "list.json", `{"music":[{"name":"A"}]}`, Options{}},
		{"missing track file", "list.json", `{"music":[{"file":"nope.mp3","name":"A"}]}`, Options{}},
		{"missing font", "list.json", `{"music":[{"file":"a.mp3","name":"A"}],"font":"nope.ttf"}`, Options{}},
		{"bad rect", "list.json", `{"music":[{"file":"a.mp3","name":"A"}],"background_info":{"rect":[1,2]}}`, Options{}},
		{"malformed", "list.json", `{"music": [`, Options{}},
		{"unknown format", "list.xml", `<music/>`, Options{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeCatalog(t, tt.file, tt.content)
			_, err := Load(path, tt.opts)
			require.Error(t, err)

			var catErr *Error
			assert.ErrorAs(t, err, &catErr)
			assert.Equal(t, path, catErr.Path)
		})
	}
}

func TestLoad_EmptyIsErrEmpty(t *testing.T) {
	path := writeCatalog(t, "list.json", `{"music":[]}`)
	_, err := Load(path, Options{})
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "list.json"), Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_SkipFileCheck(t *testing.T) {
	path := writeCatalog(t, "list.json", `{"music":[{"file":"nope.mp3","name":"A"}]}`)
	cat, err := Load(path, Options{SkipFileCheck: true})
	require.NoError(t, err)
	assert.Equal(t, 1, cat.Len())
}

func TestCatalog_Marshal(t *testing.T) {
	cat, err := Parse([]byte(jsonCatalog), ".json")
	require.NoError(t, err)

	for _, format := range []string{"json", "yaml", "toml"} {
		data, err := cat.Marshal(format)
		require.NoError(t, err, format)
		assert.Contains(t, string(data), "Track A", format)
	}

	_, err = cat.Marshal("xml")
	assert.Error(t, err)
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	path := writeCatalog(t, "list.json", jsonCatalog)

	reloaded := make(chan *Catalog, 4)
	w, err := NewWatcher(path, Options{}, func(c *Catalog) {
		select {
		case reloaded <- c:
		default:
		}
	})
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer func() { _ = w.Stop() }()

	require.NoError(t, os.WriteFile(path, []byte(`{"music":[{"file":"b.ogg","name":"Only B"}]}`), 0644))

	select {
	case cat := <-reloaded:
		assert.Equal(t, []string{"Only B"}, cat.Names())
	case <-time.After(5 * time.Second):
		t.Fatal("catalog was not reloaded")
	}
}

func TestWatcher_KeepsPreviousOnBadWrite(t *testing.T) {
	path := writeCatalog(t, "list.json", jsonCatalog)

	reloaded := make(chan *Catalog, 4)
	w, err := NewWatcher(path, Options{}, func(c *Catalog) {
		select {
		case reloaded <- c:
		default:
		}
	})
	require.NoError(t, err)
	require.NoError(t, w.Start())

	require.NoError(t, os.WriteFile(path, []byte(`{"music": [`), 0644))

	select {
	case <-reloaded:
		t.Fatal("malformed catalog must not be handed out")
	case <-time.After(300 * time.Millisecond):
	}

	require.NoError(t, w.Stop())
}

func TestWatcher_StopAfterFailedStart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "list.json")

	w, err := NewWatcher(path, Options{}, nil)
	require.NoError(t, err)
	require.Error(t, w.Start())

	stopped := make(chan error, 1)
	go func() { stopped <- w.Stop() }()

	select {
	case err := <-stopped:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return after a failed Start")
	}
}

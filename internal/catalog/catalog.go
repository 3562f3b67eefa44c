// Package catalog loads the list of tracks the player picks from.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// DefaultMusicDir is the directory, relative to the catalog file, that
// track files are resolved against.
const DefaultMusicDir = "music"

// ErrEmpty is returned when a catalog lists no tracks.
var ErrEmpty = errors.New("catalog has no tracks")

// Error describes a malformed or missing catalog.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("catalog %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Track is one playable entry.
type Track struct {
	File string `json:"file" yaml:"file" toml:"file"` // File name relative to the music directory
	Name string `json:"name" yaml:"name" toml:"name"` // Display name shown in the popup

	// Path is File resolved against the music directory.
	Path string `json:"-" yaml:"-" toml:"-"`
}

// Background describes the popup panel image.
type Background struct {
	Image string `json:"image" yaml:"image" toml:"image"`
	Rect  []int  `json:"rect" yaml:"rect" toml:"rect"` // x, y, width, height
}

// Width returns the panel width from the rect, or 0 if none is set.
func (b Background) Width() int {
	if len(b.Rect) < 4 {
		return 0
	}
	return b.Rect[2]
}

// Catalog is the loaded track list plus its display assets.
type Catalog struct {
	Music      []Track    `json:"music" yaml:"music" toml:"music"`
	Font       string     `json:"font,omitempty" yaml:"font,omitempty" toml:"font,omitempty"`
	Background Background `json:"background_info" yaml:"background_info" toml:"background_info"`

	// Source is the file the catalog was loaded from.
	Source string `json:"-" yaml:"-" toml:"-"`
}

// Len returns the number of tracks.
func (c *Catalog) Len() int {
	return len(c.Music)
}

// Track returns the track at index i.
func (c *Catalog) Track(i int) Track {
	return c.Music[i]
}

// Names returns the display names in catalog order.
func (c *Catalog) Names() []string {
	return lo.Map(c.Music, func(t Track, _ int) string {
		return t.Name
	})
}

// Options controls how a catalog is resolved and validated.
type Options struct {
	// MusicDir overrides the track directory. Relative paths are resolved
	// against the catalog file's directory.
	MusicDir string

	// SkipFileCheck disables the existence check of track and asset files.
	SkipFileCheck bool

	Logger *slog.Logger
}

// Load reads a catalog from path. The format is chosen by extension:
// .json, .yaml/.yml or .toml.
func Load(path string, opts Options) (*Catalog, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}

	cat, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	cat.Source = path

	baseDir := filepath.Dir(path)
	musicDir := opts.MusicDir
	if musicDir == "" {
		musicDir = DefaultMusicDir
	}
	if !filepath.IsAbs(musicDir) {
		musicDir = filepath.Join(baseDir, musicDir)
	}

	for i := range cat.Music {
		cat.Music[i].Path = filepath.Join(musicDir, cat.Music[i].File)
	}

	if err := cat.Validate(); err != nil {
		return nil, &Error{Path: path, Err: err}
	}

	if !opts.SkipFileCheck {
		if err := cat.checkFiles(baseDir); err != nil {
			return nil, &Error{Path: path, Err: err}
		}
	}

	for _, dup := range lo.FindDuplicatesBy(cat.Music, func(t Track) string { return t.Path }) {
		logger.Warn("track listed more than once", "name", dup.Name, "path", dup.Path)
	}
	for _, t := range cat.Music {
		logger.Info("added track", "name", t.Name, "path", t.Path)
	}

	return cat, nil
}

// Parse decodes catalog data in the format named by ext.
func Parse(data []byte, ext string) (*Catalog, error) {
	var cat Catalog
	var err error

	switch strings.ToLower(ext) {
	case ".json":
		err = json.Unmarshal(data, &cat)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cat)
	case ".toml":
		err = toml.Unmarshal(data, &cat)
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	return &cat, nil
}

// Validate checks the catalog for entries that cannot be played.
func (c *Catalog) Validate() error {
	if len(c.Music) == 0 {
		return ErrEmpty
	}

	for i, t := range c.Music {
		if strings.TrimSpace(t.File) == "" {
			return fmt.Errorf("track %d: missing file", i)
		}
		if strings.TrimSpace(t.Name) == "" {
			return fmt.Errorf("track %d (%s): missing name", i, t.File)
		}
	}

	if len(c.Background.Rect) != 0 && len(c.Background.Rect) != 4 {
		return fmt.Errorf("background_info.rect must have 4 values, got %d", len(c.Background.Rect))
	}
	if c.Background.Width() < 0 {
		return fmt.Errorf("background_info.rect width must not be negative, got %d", c.Background.Width())
	}

	return nil
}

// checkFiles verifies that every referenced file exists.
func (c *Catalog) checkFiles(baseDir string) error {
	for _, t := range c.Music {
		if _, err := os.Stat(t.Path); err != nil {
			return fmt.Errorf("track %q: %w", t.Name, err)
		}
	}

	for _, asset := range []string{c.Font, c.Background.Image} {
		if asset == "" {
			continue
		}
		if _, err := os.Stat(filepath.Join(baseDir, asset)); err != nil {
			return fmt.Errorf("asset %q: %w", asset, err)
		}
	}

	return nil
}

// Marshal encodes the catalog in the given format ("json", "yaml" or "toml").
func (c *Catalog) Marshal(format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "json":
		return json.MarshalIndent(c, "", "  ")
	case "yaml", "yml":
		return yaml.Marshal(c)
	case "toml":
		return toml.Marshal(c)
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", format)
	}
}

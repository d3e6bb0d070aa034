package config

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultFile is the config file the demo embeds.
const DefaultFile = "director.toml"

// Loader loads director configuration using fs.FS interface
type Loader struct {
	fsys     fs.FS
	basePath string
}

// NewLoader creates a new config loader from filesystem path
func NewLoader(basePath string) *Loader {
	return &Loader{
		fsys:     os.DirFS(basePath),
		basePath: basePath,
	}
}

// NewFSLoader creates a new config loader from fs.FS
func NewFSLoader(fsys fs.FS, basePath string) *Loader {
	return &Loader{
		fsys:     fsys,
		basePath: basePath,
	}
}

// Load reads name (.toml or .json), overlays it on Default and validates
// the result.
func (l *Loader) Load(name string) (DirectorConfig, error) {
	data, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		return DirectorConfig{}, fmt.Errorf("failed to read %s: %w", name, err)
	}

	var cfg DirectorConfig
	switch strings.ToLower(path.Ext(name)) {
	case ".toml":
		cfg, err = decodeTOML(data)
	case ".json":
		cfg, err = decodeJSON(data)
	default:
		return DirectorConfig{}, fmt.Errorf("failed to parse %s: unsupported extension", name)
	}
	if err != nil {
		return DirectorConfig{}, fmt.Errorf("failed to parse %s: %w", name, err)
	}

	if err := cfg.Validate(); err != nil {
		return DirectorConfig{}, fmt.Errorf("invalid %s: %w", name, err)
	}
	return cfg, nil
}

// LoadDefault loads DefaultFile, falling back to Default when it is missing.
func (l *Loader) LoadDefault() (DirectorConfig, error) {
	if _, err := fs.Stat(l.fsys, DefaultFile); err != nil {
		return Default(), nil
	}
	return l.Load(DefaultFile)
}

// json only overwrites keys present in the document
func decodeJSON(data []byte) (DirectorConfig, error) {
	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return DirectorConfig{}, err
	}
	cfg.Projection = strings.ToLower(strings.TrimSpace(cfg.Projection))
	cfg.Window.Title = strings.TrimSpace(cfg.Window.Title)
	cfg.Log.Level = strings.TrimSpace(cfg.Log.Level)
	return cfg, nil
}

func decodeTOML(data []byte) (DirectorConfig, error) {
	cfg := Default()

	var raw DirectorConfig
	meta, err := toml.Decode(string(data), &raw)
	if err != nil {
		return DirectorConfig{}, err
	}

	if meta.IsDefined("fps") {
		cfg.FPS = raw.FPS
	}
	if meta.IsDefined("min_fps") {
		cfg.MinFPS = raw.MinFPS
	}
	if meta.IsDefined("pause_fps") {
		cfg.PauseFPS = raw.PauseFPS
	}
	if meta.IsDefined("display_stats") {
		cfg.DisplayStats = raw.DisplayStats
	}
	if meta.IsDefined("projection") {
		cfg.Projection = strings.ToLower(strings.TrimSpace(raw.Projection))
	}
	if meta.IsDefined("scene_stack_capacity") {
		cfg.SceneStackCapacity = raw.SceneStackCapacity
	}

	if meta.IsDefined("window", "width") {
		cfg.Window.Width = raw.Window.Width
	}
	if meta.IsDefined("window", "height") {
		cfg.Window.Height = raw.Window.Height
	}
	if meta.IsDefined("window", "scale") {
		cfg.Window.Scale = raw.Window.Scale
	}
	if meta.IsDefined("window", "title") {
		cfg.Window.Title = strings.TrimSpace(raw.Window.Title)
	}

	if meta.IsDefined("log", "level") {
		cfg.Log.Level = strings.TrimSpace(raw.Log.Level)
	}
	if meta.IsDefined("log", "timestamp") {
		cfg.Log.Timestamp = raw.Log.Timestamp
	}
	if meta.IsDefined("log", "no_color") {
		cfg.Log.NoColor = raw.Log.NoColor
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return DirectorConfig{}, fmt.Errorf("unknown key %q", undecoded[0].String())
	}
	return cfg, nil
}

package config

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_LoadTOML(t *testing.T) {
	fsys := fstest.MapFS{
		"director.toml": {Data: []byte(`
fps = 30
display_stats = true
projection = "3D"

[window]
width = 320
title = "demo"

[log]
level = "debug"
`)},
	}

	cfg, err := NewFSLoader(fsys, ".").Load("director.toml")
	require.NoError(t, err)

	assert.Equal(t, 30.0, cfg.FPS)
	assert.True(t, cfg.DisplayStats)
	assert.Equal(t, Projection3D, cfg.Projection, "projection is normalized")
	assert.Equal(t, 320, cfg.Window.Width)
	assert.Equal(t, "demo", cfg.Window.Title)
	assert.Equal(t, "debug", cfg.Log.Level)

	// keys absent from the file keep their defaults
	def := Default()
	assert.Equal(t, def.MinFPS, cfg.MinFPS)
	assert.Equal(t, def.PauseFPS, cfg.PauseFPS)
	assert.Equal(t, def.Window.Height, cfg.Window.Height)
	assert.Equal(t, def.SceneStackCapacity, cfg.SceneStackCapacity)
}

func TestLoader_LoadTOMLExplicitFalse(t *testing.T) {
	fsys := fstest.MapFS{
		"director.toml": {Data: []byte("[log]\ntimestamp = false\n")},
	}

	cfg, err := NewFSLoader(fsys, ".").Load("director.toml")
	require.NoError(t, err)
	assert.False(t, cfg.Log.Timestamp)
}

func TestLoader_LoadTOMLUnknownKey(t *testing.T) {
	fsys := fstest.MapFS{
		"director.toml": {Data: []byte("fsp = 30\n")},
	}

	_, err := NewFSLoader(fsys, ".").Load("director.toml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fsp")
}

func TestLoader_LoadJSON(t *testing.T) {
	fsys := fstest.MapFS{
		"director.json": {Data: []byte(`{"fps": 120, "window": {"height": 200}}`)},
	}

	cfg, err := NewFSLoader(fsys, ".").Load("director.json")
	require.NoError(t, err)

	assert.Equal(t, 120.0, cfg.FPS)
	assert.Equal(t, 200, cfg.Window.Height)
	assert.Equal(t, Default().Window.Width, cfg.Window.Width)
	assert.InDelta(t, 1.0/120, cfg.AnimationInterval(), 1e-12)
}

func TestLoader_LoadJSONNormalizesStrings(t *testing.T) {
	fsys := fstest.MapFS{
		"director.json": {Data: []byte(`{"projection": " 2D ", "window": {"title": " demo "}, "log": {"level": " warn "}}`)},
	}

	cfg, err := NewFSLoader(fsys, ".").Load("director.json")
	require.NoError(t, err)

	assert.Equal(t, Projection2D, cfg.Projection)
	assert.Equal(t, "demo", cfg.Window.Title)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoader_Errors(t *testing.T) {
	fsys := fstest.MapFS{
		"bad.toml":        {Data: []byte("fps = \n")},
		"bad.json":        {Data: []byte("{")},
		"director.yaml":   {Data: []byte("fps: 1")},
		"projection.toml": {Data: []byte(`projection = "iso"`)},
	}
	loader := NewFSLoader(fsys, ".")

	tests := []struct {
		name string
		file string
		is   error
	}{
		{name: "missing file", file: "missing.toml"},
		{name: "malformed toml", file: "bad.toml"},
		{name: "malformed json", file: "bad.json"},
		{name: "unsupported extension", file: "director.yaml"},
		{name: "unknown projection", file: "projection.toml", is: ErrInvalidProjection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loader.Load(tt.file)
			require.Error(t, err)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}

func TestLoader_LoadDefault(t *testing.T) {
	cfg, err := NewFSLoader(fstest.MapFS{}, ".").LoadDefault()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	fsys := fstest.MapFS{DefaultFile: {Data: []byte("min_fps = 20\n")}}
	cfg, err = NewFSLoader(fsys, ".").LoadDefault()
	require.NoError(t, err)
	assert.Equal(t, 20.0, cfg.MinFPS)
}

func TestLoader_LoadFromDisk(t *testing.T) {
	cfg, err := NewLoader("../../../cmd/stagedemo/configs").Load(DefaultFile)
	require.NoError(t, err)
	assert.NoError(t, cfg.Validate())
}

func TestDirectorConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *DirectorConfig)
		is     error
	}{
		{"zero fps", func(c *DirectorConfig) { c.FPS = 0 }, ErrInvalidRate},
		{"negative min fps", func(c *DirectorConfig) { c.MinFPS = -1 }, ErrInvalidRate},
		{"zero pause fps", func(c *DirectorConfig) { c.PauseFPS = 0 }, ErrInvalidRate},
		{"unknown projection", func(c *DirectorConfig) { c.Projection = "ortho" }, ErrInvalidProjection},
		{"empty projection", func(c *DirectorConfig) { c.Projection = "" }, ErrInvalidProjection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.is)
		})
	}

	t.Run("negative window", func(t *testing.T) {
		cfg := Default()
		cfg.Window.Width = -1
		assert.Error(t, cfg.Validate())
	})

	t.Run("defaults are valid", func(t *testing.T) {
		assert.NoError(t, Default().Validate())
	})
}

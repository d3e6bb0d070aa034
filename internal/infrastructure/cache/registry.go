package cache

import (
	"sort"

	"github.com/rs/zerolog"
)

// Stage orders caches during purge and teardown.
type Stage int

const (
	StageFonts Stage = iota
	StageTextures
	StageFiles
	StageAudio
)

// String names the stage in purge logs.
func (s Stage) String() string {
	switch s {
	case StageFonts:
		return "fonts"
	case StageTextures:
		return "textures"
	case StageFiles:
		return "files"
	case StageAudio:
		return "audio"
	default:
		return "unknown"
	}
}

// Cache is anything the registry can purge.
type Cache interface {
	PurgeUnused() int
	Destroy()
}

type entry struct {
	stage Stage
	name  string
	cache Cache
}

// Registry purges its caches stage by stage: fonts, textures, files, then
// audio and animation. Caches of one stage run in registration order.
type Registry struct {
	entries []entry
	log     zerolog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(log zerolog.Logger) *Registry {
	return &Registry{log: log}
}

// Register adds c under stage.
func (r *Registry) Register(stage Stage, name string, c Cache) {
	r.entries = append(r.entries, entry{stage: stage, name: name, cache: c})
	sort.SliceStable(r.entries, func(i, j int) bool {
		return r.entries[i].stage < r.entries[j].stage
	})
}

// PurgeUnused drops unretained entries from every cache.
func (r *Registry) PurgeUnused() {
	for _, e := range r.entries {
		n := e.cache.PurgeUnused()
		r.log.Debug().Str("cache", e.name).Stringer("stage", e.stage).Int("purged", n).Msg("cache purged")
	}
}

// DestroyAll empties every cache.
func (r *Registry) DestroyAll() {
	for _, e := range r.entries {
		e.cache.Destroy()
		r.log.Debug().Str("cache", e.name).Stringer("stage", e.stage).Msg("cache destroyed")
	}
}

// Names returns the registered caches in purge order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.name
	}
	return names
}

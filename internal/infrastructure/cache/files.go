package cache

import (
	"fmt"
	"io/fs"
)

// FileCache memoizes file contents read from an fs.FS.
type FileCache struct {
	fsys  fs.FS
	store *Store[*fileEntry]
}

type fileEntry struct {
	data []byte
}

// NewFileCache creates a cache over fsys holding at most maxSize files.
func NewFileCache(fsys fs.FS, maxSize int) *FileCache {
	return &FileCache{
		fsys:  fsys,
		store: NewStore[*fileEntry](maxSize, nil),
	}
}

// ReadFile returns the cached contents of name, reading it on a miss.
func (f *FileCache) ReadFile(name string) ([]byte, error) {
	if e, ok := f.store.Get(name); ok {
		return e.data, nil
	}
	data, err := fs.ReadFile(f.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	f.store.Set(name, &fileEntry{data: data})
	return data, nil
}

// PurgeUnused drops every cached file and returns how many were dropped.
func (f *FileCache) PurgeUnused() int { return f.store.PurgeUnused() }

// Destroy drops every cached file.
func (f *FileCache) Destroy() { f.store.Destroy() }

// Len returns the number of cached files.
func (f *FileCache) Len() int { return f.store.Len() }

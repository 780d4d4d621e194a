package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

const (
	filePerm = 0o600
	dirPerm  = 0o700
)

// FileAdapter persists items as a single JSON object in a file. It is the
// default adapter and survives process restarts. The file is read lazily on
// first use and rewritten atomically on every change.
type FileAdapter struct {
	path string

	mu     sync.Mutex
	items  map[string]string
	loaded bool
}

// NewFileAdapter returns an adapter backed by path. The file and its parent
// directory are created on first write.
func NewFileAdapter(path string) *FileAdapter {
	return &FileAdapter{path: path}
}

// Path returns the backing file path.
func (f *FileAdapter) Path() string { return f.path }

func (f *FileAdapter) GetItem(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.load(); err != nil {
		return "", false, err
	}
	v, ok := f.items[key]
	return v, ok, nil
}

func (f *FileAdapter) SetItem(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.load(); err != nil {
		return err
	}
	prev, had := f.items[key]
	f.items[key] = value
	if err := f.persist(); err != nil {
		if had {
			f.items[key] = prev
		} else {
			delete(f.items, key)
		}
		return err
	}
	return nil
}

func (f *FileAdapter) RemoveItem(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.load(); err != nil {
		return err
	}
	prev, had := f.items[key]
	if !had {
		return nil
	}
	delete(f.items, key)
	if err := f.persist(); err != nil {
		f.items[key] = prev
		return err
	}
	return nil
}

func (f *FileAdapter) load() error {
	if f.loaded {
		return nil
	}
	raw, err := os.ReadFile(f.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		f.items = make(map[string]string)
	case err != nil:
		return fmt.Errorf("read storage file: %w", err)
	default:
		items := make(map[string]string)
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &items); err != nil {
				return fmt.Errorf("parse storage file %s: %w", f.path, err)
			}
		}
		f.items = items
	}
	f.loaded = true
	return nil
}

func (f *FileAdapter) persist() error {
	if err := os.MkdirAll(filepath.Dir(f.path), dirPerm); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(f.path), err)
	}
	b, err := json.MarshalIndent(f.items, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal storage file: %w", err)
	}
	return atomicWriteFile(f.path, b, filePerm)
}

func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	tmp := path + ".tmp"
	_ = os.Remove(tmp)

	if err := os.WriteFile(tmp, data, perm); err != nil {
		return fmt.Errorf("write tmp: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

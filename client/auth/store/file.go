package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/viant/afs"
)

// FileStore persists the session keys as a JSON object at an afs URL (file://, mem://, ...).
// It is a lightweight way to survive process restarts in CLI or single-host services.
type FileStore struct {
	mu     sync.RWMutex
	URL    string
	fs     afs.Service
	loaded bool
	values map[string]string
}

// NewFileStore creates a Store that persists tokens at the given URL
func NewFileStore(URL string) *FileStore {
	return &FileStore{URL: URL, fs: afs.New(), values: map[string]string{}}
}

func (f *FileStore) Get(ctx context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.load(ctx); err != nil {
		return "", false, err
	}
	value, ok := f.values[key]
	return value, ok, nil
}

func (f *FileStore) Put(ctx context.Context, values map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.load(ctx); err != nil {
		return err
	}
	for k, v := range values {
		f.values[k] = v
	}
	return f.save(ctx)
}

func (f *FileStore) Delete(ctx context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.load(ctx); err != nil {
		return err
	}
	for _, k := range keys {
		delete(f.values, k)
	}
	return f.save(ctx)
}

// ---- persistence ----

func (f *FileStore) save(ctx context.Context) error {
	data, err := json.MarshalIndent(f.values, "", "  ")
	if err != nil {
		return err
	}
	if err = f.fs.Upload(ctx, f.URL, 0o600, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to persist session at %v: %w", f.URL, err)
	}
	return nil
}

func (f *FileStore) load(ctx context.Context) error {
	if f.loaded {
		return nil
	}
	exists, err := f.fs.Exists(ctx, f.URL)
	if err != nil {
		return fmt.Errorf("failed to check session at %v: %w", f.URL, err)
	}
	if exists {
		data, err := f.fs.DownloadWithURL(ctx, f.URL)
		if err != nil {
			return fmt.Errorf("failed to load session from %v: %w", f.URL, err)
		}
		values := map[string]string{}
		if len(data) > 0 {
			if err = json.Unmarshal(data, &values); err != nil {
				return fmt.Errorf("invalid session file %v: %w", f.URL, err)
			}
		}
		f.values = values
	}
	f.loaded = true
	return nil
}

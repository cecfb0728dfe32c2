package snapshot

import (
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Cache stores payloads on disk keyed by content hash. Writes go through a
// temp file and an atomic rename so a crash never leaves a torn entry.
// Safe for concurrent use.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// OpenCache initializes a cache under the user cache directory, honoring
// XDG_CACHE_HOME.
func OpenCache(app string) (*Cache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

// OpenCacheAt initializes a cache rooted at an explicit directory.
func OpenCacheAt(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

func (c *Cache) pathFor(key Digest) string {
	return filepath.Join(c.dir, "forms", hex.EncodeToString(key[:])+".mp")
}

// Put writes a payload under its content hash.
func (c *Cache) Put(p *Payload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := Encode(p)
	if err != nil {
		return err
	}
	path := c.pathFor(p.ContentHash)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(path), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// Get loads the payload stored for the given content hash. A missing entry
// is (nil, false, nil); a corrupt or stale-schema entry is an error.
func (c *Cache) Get(key Digest) (*Payload, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	p, err := Decode(data)
	if err != nil {
		return nil, false, err
	}
	return p, true, nil
}

// DropAll discards every cached entry, used after format changes.
func (c *Cache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		return err
	}
	return os.RemoveAll(old)
}

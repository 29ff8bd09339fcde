package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"quill/internal/format"
)

// Increment when DiskPayload changes shape.
const diskCacheSchemaVersion uint16 = 1

// Digest identifies cached content.
type Digest [32]byte

// DiskCache remembers which file contents are already formatted so repeated
// runs can skip the parse and print pipeline. Thread-safe for concurrent
// access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is the cached verdict for one (content, options) pair.
type DiskPayload struct {
	Schema uint16
	Clean  bool
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
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
	return &DiskCache{dir: dir}, nil
}

// OpenDiskCacheAt initializes a disk cache at an explicit directory.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// CacheKey digests file content together with the printer options so a
// settings change invalidates prior verdicts.
func CacheKey(content []byte, opt format.Options) Digest {
	h := sha256.New()
	h.Write(content)
	var flags [2]byte
	if opt.SortImports {
		flags[0] = 1
	}
	if opt.KeepComments {
		flags[1] = 1
	}
	h.Write(flags[:])
	var key Digest
	copy(key[:], h.Sum(nil))
	return key
}

// LookupClean reports whether content was previously verified clean under
// the same options. The second return is false on any miss or read error.
func (c *DiskCache) LookupClean(content []byte, opt format.Options) (clean, ok bool) {
	if c == nil {
		return false, false
	}
	var payload DiskPayload
	found, err := c.get(CacheKey(content, opt), &payload)
	if err != nil || !found {
		return false, false
	}
	if payload.Schema != diskCacheSchemaVersion {
		return false, false
	}
	return payload.Clean, true
}

// RecordClean stores a clean verdict for content. Write failures are
// ignored; the cache is best effort.
func (c *DiskCache) RecordClean(content []byte, opt format.Options) {
	if c == nil {
		return
	}
	_ = c.put(CacheKey(content, opt), &DiskPayload{
		Schema: diskCacheSchemaVersion,
		Clean:  true,
	})
}

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, "fmt", hexKey+".mp")
}

func (c *DiskCache) put(key Digest, payload *DiskPayload) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		_ = os.Remove(f.Name())
	}()

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// atomic replace
	return os.Rename(f.Name(), p)
}

func (c *DiskCache) get(key Digest, out *DiskPayload) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer func() {
		_ = f.Close()
	}()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	return true, nil
}

// DropAll invalidates every cached verdict, useful after upgrades.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.RemoveAll(old)
}

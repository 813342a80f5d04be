package completion

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

const cacheFileName = "completions.json"

// DiskCache is a write-through completion cache. The whole mapping lives in
// memory and is rewritten to a single flat JSON file on every Put. Writes go
// through a temp file and rename so readers never observe a partial file.
type DiskCache struct {
	mu      sync.Mutex
	path    string
	entries map[string]string
	logger  *zap.Logger
}

// OpenDiskCache loads any previously persisted entries from dir.
func OpenDiskCache(dir string, logger *zap.Logger) (*DiskCache, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir %s: %w", dir, err)
	}

	c := &DiskCache{
		path:    filepath.Join(dir, cacheFileName),
		entries: make(map[string]string),
		logger:  logger,
	}

	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return nil, fmt.Errorf("reading completion cache: %w", err)
	}

	if err := json.Unmarshal(data, &c.entries); err != nil {
		return nil, fmt.Errorf("parsing completion cache %s: %w", c.path, err)
	}

	logger.Debug("loaded completion cache", zap.Int("entries", len(c.entries)))

	return c, nil
}

func (c *DiskCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	content, ok := c.entries[key]
	return content, ok
}

// Put stores the entry and persists the full cache before returning.
func (c *DiskCache) Put(key, content string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = content

	data, err := json.Marshal(c.entries)
	if err != nil {
		return fmt.Errorf("encoding completion cache: %w", err)
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o640); err != nil {
		return fmt.Errorf("writing completion cache: %w", err)
	}

	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("replacing completion cache: %w", err)
	}

	return nil
}

func (c *DiskCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

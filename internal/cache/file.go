package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/vitrinewallet/vitrine/internal/atomicfile"
)

// cacheFilePermissions is the permission mode for cache files.
const cacheFilePermissions = 0o640

// ErrCorruptCache indicates the cache file is malformed JSON.
var ErrCorruptCache = errors.New("cache file is corrupted")

// FileStorage implements cache persistence using the filesystem.
type FileStorage struct {
	path string
}

// NewFileStorage creates a new file-based cache storage.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// Save writes the cache to the filesystem.
func (s *FileStorage) Save(cache *BalanceCache) error {
	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling cache: %w", err)
	}

	// Atomic write so a crash mid-save cannot corrupt the cache
	if err := atomicfile.Write(s.path, data, cacheFilePermissions); err != nil {
		return fmt.Errorf("writing cache file: %w", err)
	}

	return nil
}

// Load reads the cache from the filesystem.
// Returns an empty cache if the file doesn't exist.
func (s *FileStorage) Load() (*BalanceCache, error) {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return NewBalanceCache(), nil
	}

	// #nosec G304 -- cache path is derived from validated home directory
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("reading cache file: %w", err)
	}

	cache := NewBalanceCache()
	if err := json.Unmarshal(data, cache); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptCache, err)
	}

	if cache.Entries == nil {
		cache.Entries = make(map[string]Entry)
	}

	return cache, nil
}

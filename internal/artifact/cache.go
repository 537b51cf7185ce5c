// Copyright (c) 2026 Longbox. All rights reserved.
// Author: dev@longbox.app

package artifact

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// ComputeFunc produces artifact bytes when the cache has no copy.
type ComputeFunc func(ctx context.Context) ([]byte, error)

// entry is the in-memory index record for one cached file.
type entry struct {
	size       int64
	lastAccess time.Time
}

// Cache is the disk-backed artifact store.
//
// # Guarantees
//
//   - Single-flight: concurrent requests for the same key share one
//     computation; everyone gets the same bytes.
//   - Failure transparency: compute failures are returned to every waiter
//     and never cached.
//   - Degradation: when cache I/O itself fails, the artifact is computed
//     directly and served uncached. A broken cache disk slows Longbox down;
//     it does not take it down.
type Cache struct {
	dir      string
	maxBytes int64
	logger   *slog.Logger

	group singleflight.Group

	mu         sync.Mutex
	index      map[string]*entry
	totalBytes int64
	inflight   map[string]bool
}

// NewCache opens (or creates) a cache directory and indexes its contents.
func NewCache(dir string, maxBytes int64, logger *slog.Logger) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	cache := &Cache{
		dir:      dir,
		maxBytes: maxBytes,
		logger:   logger,
		index:    make(map[string]*entry),
		inflight: make(map[string]bool),
	}

	if err := cache.loadIndex(); err != nil {
		return nil, err
	}

	logger.Info("artifact_cache_opened",
		slog.String("dir", dir),
		slog.Int("entries", len(cache.index)),
		slog.Int64("bytes", cache.totalBytes),
	)

	return cache, nil
}

// # Retrieval

/*
GetOrCompute returns the artifact for a key, computing and storing it on a
miss.

Description: The fast path is a plain file read. On a miss, all concurrent
callers for the same key collapse into one computation; the winner writes
the file (temp + rename, so readers never see partial bytes) and everyone
shares the result. A failed computation is returned to all waiters and
leaves no trace in the cache.

Parameters:
  - ctx: context.Context (Cancels the computation, not the cache write)
  - key: Key
  - compute: ComputeFunc (Invoked at most once per flight)

Returns:
  - []byte: The artifact bytes
  - error: The compute error, verbatim, on failure
*/
func (cache *Cache) GetOrCompute(ctx context.Context, key Key, compute ComputeFunc) ([]byte, error) {
	// 1. Fast path: cache hit
	if data, ok := cache.read(key); ok {
		return data, nil
	}

	// 2. Collapse concurrent misses into one computation
	flightKey := key.String()
	result, err, _ := cache.group.Do(flightKey, func() (interface{}, error) {
		// Another flight may have landed between the miss and here.
		if data, ok := cache.read(key); ok {
			return data, nil
		}

		cache.markInflight(flightKey, true)
		defer cache.markInflight(flightKey, false)

		data, err := compute(ctx)
		if err != nil {
			return nil, err
		}

		// 3. Store; degrade to uncached on cache I/O failure
		if storeErr := cache.store(key, data); storeErr != nil {
			cache.logger.Warn("artifact_cache_store_failed",
				slog.String("key", flightKey),
				slog.String("error", storeErr.Error()),
			)
		}

		return data, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]byte), nil
}

// read returns a cached artifact and refreshes its access time.
func (cache *Cache) read(key Key) ([]byte, bool) {
	path := filepath.Join(cache.dir, key.relPath())

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	cache.mu.Lock()
	if existing, ok := cache.index[key.String()]; ok {
		existing.lastAccess = time.Now()
	}
	cache.mu.Unlock()

	return data, true
}

// store writes an artifact atomically and updates the index.
func (cache *Cache) store(key Key, data []byte) error {
	path := filepath.Join(cache.dir, key.relPath())
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	// Temp + rename keeps concurrent readers away from partial writes.
	temp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := temp.Write(data); err != nil {
		_ = temp.Close()
		_ = os.Remove(temp.Name())
		return err
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(temp.Name())
		return err
	}
	if err := os.Rename(temp.Name(), path); err != nil {
		_ = os.Remove(temp.Name())
		return err
	}

	cache.mu.Lock()
	cache.index[key.String()] = &entry{size: int64(len(data)), lastAccess: time.Now()}
	cache.totalBytes += int64(len(data))
	cache.mu.Unlock()

	cache.evictIfNeeded()
	return nil
}

// # Eviction

// evictIfNeeded removes least-recently-accessed artifacts until the store
// fits its byte budget. In-flight keys are never evicted.
func (cache *Cache) evictIfNeeded() {
	cache.mu.Lock()
	defer cache.mu.Unlock()

	if cache.totalBytes <= cache.maxBytes {
		return
	}

	type candidate struct {
		key        string
		size       int64
		lastAccess time.Time
	}

	candidates := make([]candidate, 0, len(cache.index))
	for key, record := range cache.index {
		if cache.inflight[key] {
			continue
		}
		candidates = append(candidates, candidate{key: key, size: record.size, lastAccess: record.lastAccess})
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].lastAccess.Before(candidates[j].lastAccess)
	})

	for _, victim := range candidates {
		if cache.totalBytes <= cache.maxBytes {
			break
		}

		if err := os.Remove(filepath.Join(cache.dir, relPathFor(victim.key))); err != nil && !os.IsNotExist(err) {
			cache.logger.Warn("artifact_cache_evict_failed",
				slog.String("key", victim.key),
				slog.String("error", err.Error()),
			)
			continue
		}

		delete(cache.index, victim.key)
		cache.totalBytes -= victim.size
	}
}

// relPathFor rebuilds the on-disk path from a canonical key string. The
// first two characters are always the hash fan-out prefix.
func relPathFor(flightKey string) string {
	return filepath.Join(flightKey[:2], flightKey+".webp")
}

// markInflight toggles eviction protection for a key.
func (cache *Cache) markInflight(flightKey string, active bool) {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	if active {
		cache.inflight[flightKey] = true
	} else {
		delete(cache.inflight, flightKey)
	}
}

// loadIndex seeds the in-memory index from the files already on disk.
//
// Access times start equal; the ordering sharpens as reads come in.
func (cache *Cache) loadIndex() error {
	now := time.Now()

	return filepath.WalkDir(cache.dir, func(path string, dirEntry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if dirEntry.IsDir() || filepath.Ext(path) != ".webp" {
			return nil
		}

		info, err := dirEntry.Info()
		if err != nil {
			return err
		}

		name := dirEntry.Name()
		flightKey := name[:len(name)-len(".webp")]
		cache.index[flightKey] = &entry{size: info.Size(), lastAccess: now}
		cache.totalBytes += info.Size()
		return nil
	})
}

// Copyright (c) 2026 Longbox. All rights reserved.
// Author: dev@longbox.app

package artifact

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCache(t *testing.T, maxBytes int64) *Cache {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cache, err := NewCache(t.TempDir(), maxBytes, logger)
	require.NoError(t, err)
	return cache
}

func testKey(suffix string) Key {
	// 64 hex chars, like a real content hash.
	hash := strings.Repeat(suffix, 64/len(suffix))
	return Key{Hash: hash, Page: 0, Transform: "cover-thumb-webp-q85-w400"}
}

/*
TestGetOrCompute_HitSkipsCompute verifies the second retrieval is served
from disk without invoking the computation again.
*/
func TestGetOrCompute_HitSkipsCompute(t *testing.T) {
	cache := testCache(t, 1<<20)
	key := testKey("a")

	var calls atomic.Int32
	compute := func(ctx context.Context) ([]byte, error) {
		calls.Add(1)
		return []byte("artifact bytes"), nil
	}

	first, err := cache.GetOrCompute(context.Background(), key, compute)
	require.NoError(t, err)
	second, err := cache.GetOrCompute(context.Background(), key, compute)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), calls.Load())
}

/*
TestGetOrCompute_SingleFlight verifies concurrent requests for one key share
a single computation.
*/
func TestGetOrCompute_SingleFlight(t *testing.T) {
	cache := testCache(t, 1<<20)
	key := testKey("b")

	var calls atomic.Int32
	gate := make(chan struct{})
	compute := func(ctx context.Context) ([]byte, error) {
		calls.Add(1)
		<-gate
		return []byte("shared result"), nil
	}

	const waiters = 8
	results := make([][]byte, waiters)
	errs := make([]error, waiters)

	var wg sync.WaitGroup
	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			results[slot], errs[slot] = cache.GetOrCompute(context.Background(), key, compute)
		}(i)
	}

	close(gate)
	wg.Wait()

	for i := 0; i < waiters; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, []byte("shared result"), results[i])
	}
	assert.Equal(t, int32(1), calls.Load())
}

/*
TestGetOrCompute_FailureNotCached verifies a failed computation reaches the
caller and the next attempt recomputes.
*/
func TestGetOrCompute_FailureNotCached(t *testing.T) {
	cache := testCache(t, 1<<20)
	key := testKey("c")

	boom := errors.New("decode exploded")
	_, err := cache.GetOrCompute(context.Background(), key, func(ctx context.Context) ([]byte, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)

	// The failure left nothing behind; a healthy retry succeeds.
	data, err := cache.GetOrCompute(context.Background(), key, func(ctx context.Context) ([]byte, error) {
		return []byte("recovered"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("recovered"), data)
}

/*
TestEviction verifies the byte budget holds by discarding the least recently
used artifacts first.
*/
func TestEviction(t *testing.T) {
	// Budget fits two 100-byte artifacts, not three.
	cache := testCache(t, 250)

	payload := func(fill string) []byte { return []byte(strings.Repeat(fill, 100)) }

	keyA, keyB, keyC := testKey("d1"), testKey("e1"), testKey("f1")

	_, err := cache.GetOrCompute(context.Background(), keyA, func(ctx context.Context) ([]byte, error) {
		return payload("a"), nil
	})
	require.NoError(t, err)
	_, err = cache.GetOrCompute(context.Background(), keyB, func(ctx context.Context) ([]byte, error) {
		return payload("b"), nil
	})
	require.NoError(t, err)

	// Touch A so B is the eviction victim.
	_, ok := cache.read(keyA)
	require.True(t, ok)

	_, err = cache.GetOrCompute(context.Background(), keyC, func(ctx context.Context) ([]byte, error) {
		return payload("c"), nil
	})
	require.NoError(t, err)

	_, hitA := cache.read(keyA)
	_, hitB := cache.read(keyB)
	_, hitC := cache.read(keyC)

	assert.True(t, hitA)
	assert.False(t, hitB)
	assert.True(t, hitC)
}

/*
TestReopen verifies a restarted cache re-indexes what the previous process
left on disk.
*/
func TestReopen(t *testing.T) {
	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	first, err := NewCache(dir, 1<<20, logger)
	require.NoError(t, err)

	key := testKey("ab")
	_, err = first.GetOrCompute(context.Background(), key, func(ctx context.Context) ([]byte, error) {
		return []byte("persisted"), nil
	})
	require.NoError(t, err)

	second, err := NewCache(dir, 1<<20, logger)
	require.NoError(t, err)

	var calls atomic.Int32
	data, err := second.GetOrCompute(context.Background(), key, func(ctx context.Context) ([]byte, error) {
		calls.Add(1)
		return nil, errors.New("should not run")
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("persisted"), data)
	assert.Equal(t, int32(0), calls.Load())
}

// Copyright (c) 2026 Longbox. All rights reserved.
// Author: dev@longbox.app

package scanner

import (
	stdzip "archive/zip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeArchive creates a zip fixture with the given entries.
func writeArchive(t *testing.T, path string, entries map[string]string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	file, err := os.Create(path)
	require.NoError(t, err)

	writer := stdzip.NewWriter(file)
	for name, content := range entries {
		entry, err := writer.Create(name)
		require.NoError(t, err)
		_, err = entry.Write([]byte(content))
		require.NoError(t, err)
	}

	require.NoError(t, writer.Close())
	require.NoError(t, file.Close())
}

func testService(workers int) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(nil, nil, workers, logger)
}

/*
TestCollectArchives verifies the walk picks up candidate extensions at any
depth and skips everything else.
*/
func TestCollectArchives(t *testing.T) {
	root := t.TempDir()

	writeArchive(t, filepath.Join(root, "Bone", "Bone #1.cbz"), map[string]string{"1.jpg": "a"})
	writeArchive(t, filepath.Join(root, "Bone", "Bone #2.cbz"), map[string]string{"1.jpg": "a"})
	writeArchive(t, filepath.Join(root, "deep", "nested", "run.zip"), map[string]string{"1.jpg": "a"})
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "cover.jpg"), []byte("x"), 0o644))

	paths, err := collectArchives(root)
	require.NoError(t, err)

	require.Len(t, paths, 3)
	// Sorted, so repeated walks agree on order.
	assert.True(t, paths[0] < paths[1] && paths[1] < paths[2])
}

/*
TestResolveArchive verifies the full per-file pipeline on a sidecar-bearing
archive.
*/
func TestResolveArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Saga v3 018.cbz")
	writeArchive(t, path, map[string]string{
		"001.jpg":       "a",
		"002.jpg":       "b",
		"ComicInfo.xml": `<ComicInfo><Series>Saga</Series><Number>18</Number><Volume>3</Volume></ComicInfo>`,
	})

	scanned, err := resolveArchive(path)
	require.NoError(t, err)

	assert.Equal(t, "Saga", scanned.Record.Series)
	assert.Equal(t, 3, scanned.Record.VolumeKey)
	assert.Equal(t, 2, scanned.PageCount)
	assert.Equal(t, "zip", scanned.Container)
	assert.Len(t, scanned.ContentHash, 64)
}

/*
TestResolveAll_IsolatesCorruptArchives verifies one bad archive in a batch
never sinks the rest: nine of ten resolve, the tenth is reported.
*/
func TestResolveAll_IsolatesCorruptArchives(t *testing.T) {
	root := t.TempDir()

	var paths []string
	for i := 1; i <= 9; i++ {
		path := filepath.Join(root, fmt.Sprintf("Issue %02d.cbz", i))
		writeArchive(t, path, map[string]string{"1.jpg": "page"})
		paths = append(paths, path)
	}

	corrupt := filepath.Join(root, "broken.cbz")
	require.NoError(t, os.WriteFile(corrupt, []byte("not an archive"), 0o644))
	paths = append(paths, corrupt)

	service := testService(4)
	records, scanErrors := service.resolveAll(context.Background(), paths)

	assert.Len(t, records, 9)
	require.Len(t, scanErrors, 1)
	assert.Equal(t, corrupt, scanErrors[0].Path)

	// Output order is deterministic regardless of worker interleaving.
	for i := 1; i < len(records); i++ {
		assert.True(t, records[i-1].Record.Path < records[i].Record.Path)
	}
}

/*
TestScanGuard verifies the per-root single-flight guard.
*/
func TestScanGuard(t *testing.T) {
	service := testService(1)

	assert.True(t, service.tryAcquire("root-1"))
	assert.False(t, service.tryAcquire("root-1"))
	assert.True(t, service.tryAcquire("root-2"))

	service.release("root-1")
	assert.True(t, service.tryAcquire("root-1"))
}

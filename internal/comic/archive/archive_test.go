// Copyright (c) 2026 Longbox. All rights reserved.
// Author: dev@longbox.app

package archive_test

import (
	stdzip "archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/longboxhq/longbox/internal/comic/archive"
	"github.com/longboxhq/longbox/internal/platform/apperr"
)

// writeZip creates a zip archive fixture with the given name→content entries.
func writeZip(t *testing.T, path string, entries map[string]string) {
	t.Helper()

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

/*
TestOpen_NaturalPageOrder verifies numeric-aware ordering: page2 sorts before
page10, and explicit covers jump to the front.
*/
func TestOpen_NaturalPageOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ordered.cbz")
	writeZip(t, path, map[string]string{
		"page10.jpg": "j",
		"page1.jpg":  "a",
		"page2.jpg":  "b",
		"cover.jpg":  "c",
	})

	handle, err := archive.Open(path)
	require.NoError(t, err)
	defer handle.Close()

	names := make([]string, 0, 4)
	for _, page := range handle.Pages() {
		names = append(names, page.Name)
	}

	assert.Equal(t, []string{"cover.jpg", "page1.jpg", "page2.jpg", "page10.jpg"}, names)
}

/*
TestOpen_FiltersNonImageEntries verifies junk files, metadata documents, and
macOS resource forks never appear as pages.
*/
func TestOpen_FiltersNonImageEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.cbz")
	writeZip(t, path, map[string]string{
		"001.png":              "a",
		"002.png":              "b",
		"ComicInfo.xml":        "<ComicInfo/>",
		"Thumbs.db":            "x",
		"release.nfo":          "x",
		"__MACOSX/._001.png":   "x",
		"subdir/notes.txt":     "x",
		"subdir/003.jpeg":      "c",
		"checksums.sfv":        "x",
		"cover art/000.cover1.webp": "d",
	})

	handle, err := archive.Open(path)
	require.NoError(t, err)
	defer handle.Close()

	require.Len(t, handle.Pages(), 4)
	for i, page := range handle.Pages() {
		assert.Equal(t, i, page.Index)
	}

	sidecar, ok := handle.Sidecar()
	require.True(t, ok)
	assert.Equal(t, "<ComicInfo/>", string(sidecar))
}

/*
TestOpen_SniffsSignatureNotExtension verifies a zip renamed to .cbr still
opens as a zip container.
*/
func TestOpen_SniffsSignatureNotExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mislabeled.cbr")
	writeZip(t, path, map[string]string{"p1.jpg": "a"})

	handle, err := archive.Open(path)
	require.NoError(t, err)
	defer handle.Close()

	assert.Equal(t, archive.ContainerZip, handle.Kind())
}

/*
TestOpen_CorruptContainer verifies that garbage bytes fail the whole open with
a CORRUPT_ARCHIVE error.
*/
func TestOpen_CorruptContainer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.cbz")
	require.NoError(t, os.WriteFile(path, []byte("this is not an archive at all"), 0o644))

	_, err := archive.Open(path)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, "CORRUPT_ARCHIVE"))
}

/*
TestReadPage verifies lazy page reads return the entry bytes and that an
out-of-range index fails only that read.
*/
func TestReadPage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pages.cbz")
	writeZip(t, path, map[string]string{
		"1.jpg": "first",
		"2.jpg": "second",
	})

	handle, err := archive.Open(path)
	require.NoError(t, err)
	defer handle.Close()

	data, err := handle.ReadPage(1)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	_, err = handle.ReadPage(99)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, "PAGE_UNREADABLE"))

	// The sibling page is still readable after the failure.
	data, err = handle.ReadPage(0)
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))
}

/*
TestContentHash_PathIndependent verifies byte-identical archives hash the same
regardless of where they live on disk.
*/
func TestContentHash_PathIndependent(t *testing.T) {
	dir := t.TempDir()
	entries := map[string]string{"1.jpg": "same bytes"}

	pathA := filepath.Join(dir, "a", "issue.cbz")
	pathB := filepath.Join(dir, "b", "renamed.cbz")
	require.NoError(t, os.MkdirAll(filepath.Dir(pathA), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Dir(pathB), 0o755))

	writeZip(t, pathA, entries)
	data, err := os.ReadFile(pathA)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(pathB, data, 0o644))

	hashA, err := archive.ContentHash(pathA)
	require.NoError(t, err)
	hashB, err := archive.ContentHash(pathB)
	require.NoError(t, err)

	assert.Equal(t, hashA, hashB)
	assert.Len(t, hashA, 64)
}

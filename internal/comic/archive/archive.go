// Copyright (c) 2026 Longbox. All rights reserved.
// Author: dev@longbox.app

/*
Package archive opens comic book containers (CBZ, CBR) behind one interface.

Architecture:

  - Capability Interface: [Handle] exposes list/read operations only; callers
    never branch on the container kind.
  - Signature Sniffing: [Open] selects the zip or rar implementation from the
    file's magic bytes, never from its extension. A renamed ".cbz" that is
    really a RAR still opens correctly.
  - Streaming: entries are decompressed one at a time on demand. A whole
    archive is never buffered in memory.

Failure policy: a broken central directory fails the whole [Open]; a single
unreadable entry fails only that page read and leaves the rest of the archive
usable.
*/
package archive

import (
	"bytes"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/longboxhq/longbox/internal/platform/apperr"
	"github.com/longboxhq/longbox/pkg/naturalsort"
)

// Container identifies the physical archive format.
type Container string

const (
	// ContainerZip is a zip-based archive (CBZ).
	ContainerZip Container = "zip"

	// ContainerRar is a rar-based archive (CBR).
	ContainerRar Container = "rar"
)

// Page is one readable image entry inside an archive.
//
// A Page is owned by its archive and has no identity outside of it; the
// Index is assigned after filtering and natural sorting and is the index
// all reading sessions and artifact keys refer to.
type Page struct {
	// Index is the 0-based position in reading order.
	Index int `json:"index"`

	// Name is the entry name inside the container.
	Name string `json:"name"`

	// Size is the uncompressed byte length.
	Size int64 `json:"size"`
}

// Handle is the capability interface over an opened archive.
type Handle interface {
	// Path returns the filesystem path the handle was opened from.
	Path() string

	// Kind returns the detected container format.
	Kind() Container

	// Pages returns image entries in reading order. The slice is computed
	// once at open time and never reordered afterwards.
	Pages() []Page

	// ReadPage decompresses and returns the bytes of one page.
	ReadPage(index int) ([]byte, error)

	// Sidecar returns the embedded ComicInfo.xml document, if any.
	Sidecar() ([]byte, bool)

	// Close releases the underlying file.
	Close() error
}

// # Signature Detection

var (
	zipMagic = []byte{'P', 'K', 0x03, 0x04}
	rarMagic = []byte{'R', 'a', 'r', '!', 0x1a, 0x07}
)

// Open sniffs the container signature and returns the matching [Handle].
//
// It fails with a CORRUPT_ARCHIVE error when the file is missing, carries an
// unknown signature, or its central directory cannot be parsed.
func Open(filePath string) (Handle, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, apperr.CorruptArchive(filePath, err)
	}

	magic := make([]byte, 8)
	n, err := file.Read(magic)
	closeErr := file.Close()
	if err != nil || closeErr != nil || n < len(rarMagic) {
		return nil, apperr.CorruptArchive(filePath, fmt.Errorf("unreadable header: %w", err))
	}

	switch {
	case bytes.HasPrefix(magic, zipMagic):
		return openZip(filePath)
	case bytes.HasPrefix(magic, rarMagic):
		return openRar(filePath)
	default:
		return nil, apperr.CorruptArchive(filePath, fmt.Errorf("unknown container signature %x", magic[:4]))
	}
}

// # Entry Filtering

// imageExtensions are the entry suffixes treated as pages.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

// ignoredNames are junk files commonly shipped inside comic archives.
var ignoredNames = map[string]bool{
	"thumbs.db":     true,
	".ds_store":     true,
	"comicinfo.xml": true,
}

// sidecarName is the embedded metadata document, matched case-insensitively.
const sidecarName = "comicinfo.xml"

// isPageEntry reports whether an entry name should be listed as a page.
func isPageEntry(name string) bool {
	lowered := strings.ToLower(name)

	if strings.HasSuffix(lowered, "/") {
		return false
	}
	if strings.Contains(lowered, "__macosx") {
		return false
	}

	base := path.Base(lowered)
	if ignoredNames[base] {
		return false
	}

	return imageExtensions[path.Ext(base)]
}

// isSidecarEntry reports whether an entry is the ComicInfo.xml document.
func isSidecarEntry(name string) bool {
	return strings.ToLower(path.Base(name)) == sidecarName
}

// orderEntries filters names down to pages and sorts them into reading order.
//
// Ordering is natural-sort on the base name ("page2" before "page10", covers
// first), with the full entry name as a deterministic tie-break for archives
// that repeat base names across folders.
func orderEntries(names []string) []string {
	pages := make([]string, 0, len(names))
	for _, name := range names {
		if isPageEntry(name) {
			pages = append(pages, name)
		}
	}

	type entryKey struct {
		name string
		base naturalsort.Key
	}

	keys := make([]entryKey, len(pages))
	for i, name := range pages {
		keys[i] = entryKey{name: name, base: naturalsort.NewKey(path.Base(name))}
	}

	sort.Slice(keys, func(i, j int) bool {
		if c := naturalsort.Compare(keys[i].base, keys[j].base); c != 0 {
			return c < 0
		}
		return keys[i].name < keys[j].name
	})

	for i, key := range keys {
		pages[i] = key.name
	}
	return pages
}

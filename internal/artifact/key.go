// Copyright (c) 2026 Longbox. All rights reserved.
// Author: dev@longbox.app

/*
Package artifact is the content-addressed store for derived page images.

Architecture:
  - key.go: the (content hash, page, transform) addressing scheme.
  - transcode.go: deterministic image derivation (resize + WebP encode).
  - cache.go: disk-backed store with single-flight computation and LRU
    eviction.
  - pool.go: the bounded transcode worker pool.

Artifacts are immutable: a key addresses exactly one byte sequence forever.
Changing any transform parameter changes the transform spec string, which
mints new keys instead of mutating cached bytes.
*/
package artifact

import (
	"fmt"
	"path/filepath"
)

// Key addresses one derived artifact.
//
// Hash is the source archive's content hash, so renaming or moving an
// archive never invalidates its artifacts.
type Key struct {
	Hash      string
	Page      int
	Transform string
}

// String renders the canonical key form used for single-flight grouping.
func (key Key) String() string {
	return fmt.Sprintf("%s-p%04d-%s", key.Hash, key.Page, key.Transform)
}

// relPath is the artifact's location inside the cache directory. The leading
// hash bytes fan files out so no single directory grows unbounded.
func (key Key) relPath() string {
	return filepath.Join(key.Hash[:2], key.String()+".webp")
}

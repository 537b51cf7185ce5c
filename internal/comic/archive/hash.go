// Copyright (c) 2026 Longbox. All rights reserved.
// Author: dev@longbox.app

package archive

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/blake2b"
)

// ContentHash fingerprints an archive's bytes with BLAKE2b-256.
//
// # Identity Semantics
//
// The hash keys every derived artifact, so renaming or moving an archive
// never invalidates its cache entries — only re-encoding the bytes does.
// The file is streamed; hashing a multi-hundred-megabyte CBR stays at a
// constant memory footprint.
func ContentHash(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("archive: cannot open %s for hashing: %w", filePath, err)
	}
	defer file.Close()

	hasher, err := blake2b.New256(nil)
	if err != nil {
		return "", fmt.Errorf("archive: hasher init: %w", err)
	}

	if _, err := io.Copy(hasher, file); err != nil {
		return "", fmt.Errorf("archive: hashing %s: %w", filePath, err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// Copyright (c) 2026 Longbox. All rights reserved.
// Author: dev@longbox.app

// Package naturalsort orders archive entry names the way a human reads them.
//
// # Ordering Rules
//
// 1. Explicit covers first: names containing a "fc", "cover", or "front"
// token sort before every regular page, so scene-style archives that ship
// "Cover.jpg" next to "001.jpg" still open on the cover.
//
// 2. Numeric awareness: digit runs compare by numeric value, so
// "page2" < "page10" (plain lexicographic order would yield 1, 10, 2).
//
// 3. Separator de-prioritization: '-' and '_' are remapped above the letters
// so "c01a" sorts before "c01-extra".
package naturalsort

import (
	"regexp"
	"sort"
	"strings"
)

// coverToken matches explicit front-cover naming conventions on word boundaries
// ("fc.jpg", "my-cover.png", "front 01.webp").
var coverToken = regexp.MustCompile(`\b(fc|cover|front)\b`)

// chunk is one run of either digits or non-digits inside a name.
type chunk struct {
	// digits holds the run with leading zeros stripped when isNumber is true;
	// otherwise text holds the literal run.
	digits   string
	text     string
	isNumber bool
}

// Key is the precomputed comparison key for a single name.
//
// Precompute once per entry when sorting large archives; [Compare] never
// re-parses the underlying string.
type Key struct {
	coverRank int // 0 = explicit cover, 1 = regular page
	chunks    []chunk
}

// NewKey builds the natural-sort key for name.
func NewKey(name string) Key {
	lowered := strings.ToLower(name)

	key := Key{coverRank: 1}
	if coverToken.MatchString(lowered) {
		key.coverRank = 0
	}

	// Remap separators above the letter range so they lose ties against
	// alphanumeric suffixes.
	lowered = strings.ReplaceAll(lowered, "-", "~")
	lowered = strings.ReplaceAll(lowered, "_", "~")

	key.chunks = split(lowered)
	return key
}

// split cuts a lowered name into alternating digit and non-digit runs.
func split(s string) []chunk {
	chunks := make([]chunk, 0, 8)

	start := 0
	inDigits := false
	flush := func(end int) {
		if end == start {
			return
		}
		run := s[start:end]
		if inDigits {
			chunks = append(chunks, chunk{digits: strings.TrimLeft(run, "0"), isNumber: true})
		} else {
			chunks = append(chunks, chunk{text: run})
		}
		start = end
	}

	for i := 0; i < len(s); i++ {
		isDigit := s[i] >= '0' && s[i] <= '9'
		if i == 0 {
			inDigits = isDigit
			continue
		}
		if isDigit != inDigits {
			flush(i)
			inDigits = isDigit
		}
	}
	flush(len(s))

	return chunks
}

// Compare returns -1, 0, or +1 ordering a before, equal to, or after b.
func Compare(a, b Key) int {
	if a.coverRank != b.coverRank {
		if a.coverRank < b.coverRank {
			return -1
		}
		return 1
	}

	limit := len(a.chunks)
	if len(b.chunks) < limit {
		limit = len(b.chunks)
	}

	for i := 0; i < limit; i++ {
		if c := compareChunk(a.chunks[i], b.chunks[i]); c != 0 {
			return c
		}
	}

	switch {
	case len(a.chunks) < len(b.chunks):
		return -1
	case len(a.chunks) > len(b.chunks):
		return 1
	}
	return 0
}

// compareChunk orders two runs. Numbers sort before text when the types
// differ, matching Python's (int, str) tuple ordering in the original scanner.
func compareChunk(a, b chunk) int {
	if a.isNumber != b.isNumber {
		if a.isNumber {
			return -1
		}
		return 1
	}

	if a.isNumber {
		// Zero-stripped digit strings compare numerically by length first.
		// This avoids integer overflow on absurdly long digit runs.
		if len(a.digits) != len(b.digits) {
			if len(a.digits) < len(b.digits) {
				return -1
			}
			return 1
		}
		return strings.Compare(a.digits, b.digits)
	}

	return strings.Compare(a.text, b.text)
}

// Less reports whether name a naturally sorts before name b.
func Less(a, b string) bool {
	return Compare(NewKey(a), NewKey(b)) < 0
}

// Strings sorts names in place in natural order.
//
// Keys are computed once up front, so sorting a 500-entry archive listing does
// not re-run the regex per comparison.
func Strings(names []string) {
	keys := make([]Key, len(names))
	for i, name := range names {
		keys[i] = NewKey(name)
	}

	sort.Sort(&byKey{names: names, keys: keys})
}

type byKey struct {
	names []string
	keys  []Key
}

func (s *byKey) Len() int           { return len(s.names) }
func (s *byKey) Less(i, j int) bool { return Compare(s.keys[i], s.keys[j]) < 0 }
func (s *byKey) Swap(i, j int) {
	s.names[i], s.names[j] = s.names[j], s.names[i]
	s.keys[i], s.keys[j] = s.keys[j], s.keys[i]
}

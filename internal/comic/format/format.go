// Copyright (c) 2026 Longbox. All rights reserved.
// Author: dev@longbox.app

/*
Package format classifies issues into plain, annual, or special buckets.

This is the single place that decision is made. The API layer, the library
builder, and the OPDS adapter all consume [Classify] output; none of them
re-derive it, so the rule set cannot drift between surfaces.

Classification is always recomputed from the declared format string — it is
never stored as an independent mutable flag.
*/
package format

import "strings"

// Class is the derived publication bucket of an issue.
type Class string

const (
	// Plain is a regular numbered issue.
	Plain Class = "plain"

	// Annual is a yearly extra issue.
	Annual Class = "annual"

	// Special is any other non-plain publication (one-shots, trades, ...).
	Special Class = "special"
)

// annualToken is the one format that classifies as [Annual].
const annualToken = "annual"

// defaultSpecialTokens is the canonical set of non-plain format labels.
//
// Matching is case-insensitive on the trimmed declared format. "annual" is a
// member so the set alone answers "is this plain?"; [Classify] splits annuals
// out before the membership test.
var defaultSpecialTokens = []string{
	"annual",
	"giant size",
	"giant-size",
	"graphic novel",
	"one shot",
	"one-shot",
	"hardcover",
	"limited series",
	"trade paperback",
	"trade paper back",
	"tpb",
	"preview",
	"special",
}

// ExclusionSet is the immutable set of non-plain format tokens.
//
// It is built once at startup from the defaults plus operator extensions and
// passed explicitly to [Classify]; classification never reads ambient state.
type ExclusionSet struct {
	tokens map[string]bool
}

// NewExclusionSet builds the canonical set extended with operator tokens.
//
// Extension tokens are normalized exactly like declared formats, so the set
// behaves identically however the operator cases or pads the config value.
func NewExclusionSet(extra ...string) ExclusionSet {
	tokens := make(map[string]bool, len(defaultSpecialTokens)+len(extra))
	for _, token := range defaultSpecialTokens {
		tokens[token] = true
	}
	for _, token := range extra {
		if normalized := Normalize(token); normalized != "" {
			tokens[normalized] = true
		}
	}
	return ExclusionSet{tokens: tokens}
}

// Contains reports whether a normalized format token is in the set.
func (set ExclusionSet) Contains(normalized string) bool {
	return set.tokens[normalized]
}

// Normalize lowercases and trims a declared format string.
func Normalize(declared string) string {
	return strings.ToLower(strings.TrimSpace(declared))
}

// Classify maps a declared format string to its [Class].
//
// # Rules
//
//  1. Absent or empty → [Plain].
//  2. Exactly "annual" (normalized) → [Annual].
//  3. Member of the exclusion set → [Special].
//  4. Anything else → [Plain]. An unrecognized declared format is treated as
//     a plain issue rather than silently dropped; this matches long-standing
//     behavior that users rely on, even for typo'd formats.
//
// The function is total, deterministic, and idempotent: classifying the
// string form of a [Class] value again never changes the answer for the
// issue it came from.
func Classify(declared *string, set ExclusionSet) Class {
	if declared == nil {
		return Plain
	}

	normalized := Normalize(*declared)
	if normalized == "" {
		return Plain
	}

	if normalized == annualToken {
		return Annual
	}

	if set.Contains(normalized) {
		return Special
	}

	return Plain
}

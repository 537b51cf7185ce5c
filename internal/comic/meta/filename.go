// Copyright (c) 2026 Longbox. All rights reserved.
// Author: dev@longbox.app

package meta

import (
	"regexp"
	"strconv"
	"strings"
)

// filenameMatch is the tagged result of one filename strategy.
//
// Strategies return (match, ok); the chain takes the first ok result. This
// keeps pattern fallthrough as data flow instead of exception-driven control.
type filenameMatch struct {
	series string
	number *string
	volume *int
	year   *int
	format *string
}

// # Ordered Pattern Chain
//
// Patterns run against the base filename with its extension removed. Order
// matters: more specific shapes (annual, explicit volume) must win before the
// generic "series number" shape swallows them.

var (
	// "Batman Annual 003 (1963)"
	annualPattern = regexp.MustCompile(`(?i)^(.+?)\s+annual\s*#?(\d+(?:\.\d+)?[a-z]*)?\b`)

	// "Amazing Spider-Man v2 015", "Saga Vol. 3 #18"
	volumeIssuePattern = regexp.MustCompile(`(?i)^(.+?)\s+(?:v|vol\.?\s*)(\d+)\s+#?(\d+(?:\.\d+)?[a-z]*)\b`)

	// "Hellboy 051.5", "Bone #12"
	seriesIssuePattern = regexp.MustCompile(`(?i)^(.+?)\s+#?(\d+(?:\.\d+)?[a-z]*)\s*(?:\(|$)`)

	// "Blankets (2003)" — no issue number at all
	seriesYearPattern = regexp.MustCompile(`^(.+?)\s*\(\d{4}\)`)

	// "(1999)" anywhere in the name; run independently of the shape patterns.
	yearPattern = regexp.MustCompile(`\((\d{4})\)`)
)

// formatTokens maps filename hint tokens to declared format strings.
//
// Checked in order on word boundaries; the first hit wins so "TPB" in
// "Giant-Size TPB" does not fight with the giant-size token.
var formatTokens = []struct {
	pattern *regexp.Regexp
	format  string
}{
	{regexp.MustCompile(`(?i)\bannual\b`), "Annual"},
	{regexp.MustCompile(`(?i)\btpb\b`), "TPB"},
	{regexp.MustCompile(`(?i)\btrade\s*paperback\b`), "Trade Paperback"},
	{regexp.MustCompile(`(?i)\bgraphic\s*novel\b`), "Graphic Novel"},
	{regexp.MustCompile(`(?i)\bone[\s-]?shot\b`), "One-Shot"},
	{regexp.MustCompile(`(?i)\bgiant[\s-]?size\b`), "Giant-Size"},
	{regexp.MustCompile(`(?i)\bhardcover\b|\bHC\b`), "Hardcover"},
}

// parseFilename runs the ordered strategy chain over an archive base name.
//
// The same name always produces the same result: every strategy is a pure
// regex and the chain order is fixed.
func parseFilename(baseName string) (filenameMatch, bool) {
	name := strings.TrimSpace(baseName)

	match := filenameMatch{}
	if year := extractYear(name); year != nil {
		match.year = year
	}
	if formatHint := extractFormatHint(name); formatHint != nil {
		match.format = formatHint
	}

	// 1. Annual
	if m := annualPattern.FindStringSubmatch(name); m != nil {
		match.series = cleanSeries(m[1])
		if m[2] != "" {
			match.number = &m[2]
		}
		annual := "Annual"
		match.format = &annual
		return match, true
	}

	// 2. Explicit volume + issue
	if m := volumeIssuePattern.FindStringSubmatch(name); m != nil {
		match.series = cleanSeries(m[1])
		if volume, err := strconv.Atoi(m[2]); err == nil {
			match.volume = &volume
		}
		match.number = &m[3]
		return match, true
	}

	// 3. Series + issue number
	if m := seriesIssuePattern.FindStringSubmatch(name); m != nil {
		match.series = cleanSeries(m[1])
		match.number = &m[2]
		return match, true
	}

	// 4. Series + year only
	if m := seriesYearPattern.FindStringSubmatch(name); m != nil {
		match.series = cleanSeries(m[1])
		return match, true
	}

	// No shape matched; loose hints still travel with the failed match so
	// the folder fallback can use them.
	return match, false
}

// extractYear pulls the first "(NNNN)" group out of a name.
func extractYear(name string) *int {
	m := yearPattern.FindStringSubmatch(name)
	if m == nil {
		return nil
	}

	year, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return &year
}

// extractFormatHint scans for publication-format tokens.
func extractFormatHint(name string) *string {
	for _, token := range formatTokens {
		if token.pattern.MatchString(name) {
			hint := token.format
			return &hint
		}
	}
	return nil
}

// cleanSeries strips separator noise from a captured series name while
// preserving its original casing for display.
func cleanSeries(raw string) string {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.Trim(cleaned, "-_.")
	return strings.TrimSpace(cleaned)
}

// ParseIssueNumber derives the numeric sort key for a raw issue number.
//
// Decimal and alphabetic suffixes parse from their leading numeric portion
// ("1.5" → 1.5, "1AU" → 1). A number with no leading digits gets no sort key
// and the builder places it after all parseable ones.
func ParseIssueNumber(raw string) *float64 {
	trimmed := strings.TrimSpace(raw)

	end := 0
	sawDot := false
	for end < len(trimmed) {
		ch := trimmed[end]
		if ch >= '0' && ch <= '9' {
			end++
			continue
		}
		if ch == '.' && !sawDot && end > 0 {
			sawDot = true
			end++
			continue
		}
		break
	}

	// A trailing dot ("12.") is not part of the number.
	numeric := strings.TrimSuffix(trimmed[:end], ".")
	if numeric == "" {
		return nil
	}

	value, err := strconv.ParseFloat(numeric, 64)
	if err != nil {
		return nil
	}
	return &value
}

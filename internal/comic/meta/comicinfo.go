// Copyright (c) 2026 Longbox. All rights reserved.
// Author: dev@longbox.app

package meta

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

// ComicInfo is the embedded sidecar metadata document (ComicInfo.xml).
//
// Only the identity-bearing fields are mapped; the schema has dozens more
// (credits, characters, story arcs) that this pipeline does not consume.
type ComicInfo struct {
	XMLName xml.Name `xml:"ComicInfo"`

	Series string `xml:"Series"`
	Number string `xml:"Number"`
	Volume string `xml:"Volume"`
	Title  string `xml:"Title"`
	Year   string `xml:"Year"`
	Format string `xml:"Format"`
}

// ParseComicInfo decodes a sidecar document.
//
// A document that is not well-formed XML returns an error so the resolver can
// fall through to filename heuristics instead of half-trusting it.
func ParseComicInfo(data []byte) (*ComicInfo, error) {
	info := &ComicInfo{}
	if err := xml.Unmarshal(data, info); err != nil {
		return nil, fmt.Errorf("meta: malformed ComicInfo.xml: %w", err)
	}
	return info, nil
}

// intField parses a numeric sidecar field, returning nil for absent or
// non-numeric values rather than failing the whole document.
func intField(raw string) *int {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}

	value, err := strconv.Atoi(trimmed)
	if err != nil {
		return nil
	}
	return &value
}

// strField trims a sidecar field, returning nil when empty.
func strField(raw string) *string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

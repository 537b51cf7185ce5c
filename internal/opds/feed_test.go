// Copyright (c) 2026 Longbox. All rights reserved.
// Author: dev@longbox.app

package opds

import (
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/longboxhq/longbox/internal/library"
	"github.com/longboxhq/longbox/pkg/pointer"
)

func fixtureView() *library.SeriesView {
	issues := []*library.Issue{
		{ID: "issue-1", Number: pointer.To("1"), NumberSort: pointer.To[float64](1), Container: "zip", PageCount: 22},
		{ID: "issue-2", Number: pointer.To("2"), NumberSort: pointer.To[float64](2), Container: "rar", PageCount: 24},
	}
	annuals := []*library.Issue{
		{ID: "annual-1", Number: pointer.To("1"), Format: pointer.To("Annual"), Container: "zip", PageCount: 48},
	}

	return &library.SeriesView{
		Series: library.Series{ID: "series-1", Name: "Saga"},
		Volumes: []*library.VolumeView{
			{
				Volume:  library.Volume{ID: "volume-1", Number: 1},
				Issues:  issues,
				Annuals: annuals,
			},
		},
		TotalIssues:  2,
		TotalAnnuals: 1,
	}
}

/*
TestRootFeed verifies the catalog root carries one navigation entry per
library with urn identifiers.
*/
func TestRootFeed(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	roots := []*library.Root{
		{ID: "root-1", Name: "Main Shelf", UpdatedAt: now},
		{ID: "root-2", Name: "Incoming", UpdatedAt: now},
	}

	feed := rootFeed(roots, now)

	assert.Equal(t, "urn:longbox:catalog", feed.ID)
	assert.Equal(t, "2026-08-01T12:00:00Z", feed.Updated)
	require.Len(t, feed.Entries, 2)
	assert.Equal(t, "urn:longbox:library:root-1", feed.Entries[0].ID)
	assert.Equal(t, "/opds/libraries/root-1", feed.Entries[0].Links[0].Href)
}

/*
TestSeriesFeed_OrderAndLinks verifies acquisition entries preserve view
order and carry download plus cover links.
*/
func TestSeriesFeed_OrderAndLinks(t *testing.T) {
	feed := seriesFeed(fixtureView(), time.Now())

	require.Len(t, feed.Entries, 3)

	// View order: plain issues first, annuals after.
	assert.Equal(t, "urn:longbox:issue:issue-1", feed.Entries[0].ID)
	assert.Equal(t, "urn:longbox:issue:issue-2", feed.Entries[1].ID)
	assert.Equal(t, "urn:longbox:issue:annual-1", feed.Entries[2].ID)

	assert.Equal(t, "Saga #1", feed.Entries[0].Title)

	first := feed.Entries[0]
	require.Len(t, first.Links, 3)
	assert.Equal(t, "http://opds-spec.org/acquisition", first.Links[0].Rel)
	assert.Equal(t, "/api/v1/issues/issue-1/download", first.Links[0].Href)
	assert.Equal(t, "application/vnd.comicbook+zip", first.Links[0].Type)

	// RAR-backed issue advertises its own media type.
	assert.Equal(t, "application/vnd.comicbook-rar", feed.Entries[1].Links[0].Type)
}

/*
TestFeed_MarshalsAsAtom verifies the document serializes with the Atom
namespace and well-formed entries.
*/
func TestFeed_MarshalsAsAtom(t *testing.T) {
	feed := seriesFeed(fixtureView(), time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC))

	payload, err := xml.MarshalIndent(feed, "", "  ")
	require.NoError(t, err)

	document := string(payload)
	assert.True(t, strings.HasPrefix(document, "<feed"))
	assert.Contains(t, document, `xmlns="http://www.w3.org/2005/Atom"`)
	assert.Contains(t, document, "<id>urn:longbox:series:series-1</id>")

	// Round-trips back into the same structure.
	var decoded Feed
	require.NoError(t, xml.Unmarshal(payload, &decoded))
	assert.Equal(t, feed.ID, decoded.ID)
	assert.Len(t, decoded.Entries, len(feed.Entries))
}

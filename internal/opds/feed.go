// Copyright (c) 2026 Longbox. All rights reserved.
// Author: dev@longbox.app

/*
Package opds frames the library as an OPDS 1.2 catalog.

Architecture:
  - feed.go: Atom document structs and the navigation/acquisition builders.
  - http.go: the catalog route tree (root → libraries → series → issues).

The catalog is a read-only projection: every sequence it serves comes from
the library view assembler, already partitioned and ordered. OPDS adds Atom
framing and urn identifiers, nothing else.
*/
package opds

import (
	"encoding/xml"
	"fmt"
	"time"

	"github.com/longboxhq/longbox/internal/library"
)

// Atom/OPDS media types and link relations.
const (
	atomNamespace = "http://www.w3.org/2005/Atom"

	typeNavigation  = "application/atom+xml;profile=opds-catalog;kind=navigation"
	typeAcquisition = "application/atom+xml;profile=opds-catalog;kind=acquisition"
	typeImage       = "image/webp"

	relSelf        = "self"
	relStart       = "start"
	relSubsection  = "subsection"
	relAcquisition = "http://opds-spec.org/acquisition"
	relImage       = "http://opds-spec.org/image"
	relThumbnail   = "http://opds-spec.org/image/thumbnail"
)

// urn prefixes for catalog identifiers.
const (
	urnRoot    = "urn:longbox:catalog"
	urnLibrary = "urn:longbox:library:"
	urnSeries  = "urn:longbox:series:"
	urnIssue   = "urn:longbox:issue:"
)

// # Atom Document Model

// Feed is an Atom feed document.
type Feed struct {
	XMLName xml.Name `xml:"feed"`
	Xmlns   string   `xml:"xmlns,attr"`
	ID      string   `xml:"id"`
	Title   string   `xml:"title"`
	Updated string   `xml:"updated"`
	Author  *Author  `xml:"author,omitempty"`
	Links   []Link   `xml:"link"`
	Entries []Entry  `xml:"entry"`
}

// Author is the feed-level author element.
type Author struct {
	Name string `xml:"name"`
}

// Link is an Atom link element.
type Link struct {
	Rel  string `xml:"rel,attr"`
	Href string `xml:"href,attr"`
	Type string `xml:"type,attr"`
}

// Entry is one Atom entry: a navigation target or an acquirable issue.
type Entry struct {
	ID      string   `xml:"id"`
	Title   string   `xml:"title"`
	Updated string   `xml:"updated"`
	Content *Content `xml:"content,omitempty"`
	Links   []Link   `xml:"link"`
}

// Content is an entry's text body.
type Content struct {
	Type string `xml:"type,attr"`
	Text string `xml:",chardata"`
}

// atomTime renders a timestamp in the RFC 3339 form Atom requires.
func atomTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// # Feed Builders

// rootFeed frames the configured library roots as a navigation feed.
func rootFeed(roots []*library.Root, now time.Time) *Feed {
	feed := &Feed{
		Xmlns:   atomNamespace,
		ID:      urnRoot,
		Title:   "Longbox Catalog",
		Updated: atomTime(now),
		Author:  &Author{Name: "Longbox"},
		Links: []Link{
			{Rel: relSelf, Href: "/opds", Type: typeNavigation},
			{Rel: relStart, Href: "/opds", Type: typeNavigation},
		},
		Entries: []Entry{},
	}

	for _, root := range roots {
		feed.Entries = append(feed.Entries, Entry{
			ID:      urnLibrary + root.ID,
			Title:   root.Name,
			Updated: atomTime(root.UpdatedAt),
			Links: []Link{
				{Rel: relSubsection, Href: "/opds/libraries/" + root.ID, Type: typeNavigation},
			},
		})
	}

	return feed
}

// libraryFeed frames one root's series list as a navigation feed.
func libraryFeed(root *library.Root, series []*library.SeriesSummary, now time.Time) *Feed {
	feed := &Feed{
		Xmlns:   atomNamespace,
		ID:      urnLibrary + root.ID,
		Title:   root.Name,
		Updated: atomTime(now),
		Links: []Link{
			{Rel: relSelf, Href: "/opds/libraries/" + root.ID, Type: typeNavigation},
			{Rel: relStart, Href: "/opds", Type: typeNavigation},
		},
		Entries: []Entry{},
	}

	for _, summary := range series {
		entry := Entry{
			ID:      urnSeries + summary.ID,
			Title:   summary.Name,
			Updated: atomTime(summary.UpdatedAt),
			Links: []Link{
				{Rel: relSubsection, Href: "/opds/series/" + summary.ID, Type: typeAcquisition},
			},
		}
		if summary.TotalIssues > 0 {
			entry.Content = &Content{Type: "text", Text: fmt.Sprintf("%d issues", summary.TotalIssues)}
		}
		feed.Entries = append(feed.Entries, entry)
	}

	return feed
}

// seriesFeed frames a series' ordered issues as an acquisition feed.
//
// Entry order is the view's order: plain issues first, then annuals, then
// specials, volume by volume. The catalog never re-sorts.
func seriesFeed(view *library.SeriesView, now time.Time) *Feed {
	feed := &Feed{
		Xmlns:   atomNamespace,
		ID:      urnSeries + view.ID,
		Title:   view.Name,
		Updated: atomTime(now),
		Links: []Link{
			{Rel: relSelf, Href: "/opds/series/" + view.ID, Type: typeAcquisition},
			{Rel: relStart, Href: "/opds", Type: typeNavigation},
		},
		Entries: []Entry{},
	}

	for _, volume := range view.Volumes {
		for _, partition := range [][]*library.Issue{volume.Issues, volume.Annuals, volume.Specials} {
			for _, issue := range partition {
				feed.Entries = append(feed.Entries, issueEntry(view.Name, issue))
			}
		}
	}

	return feed
}

// issueEntry builds one acquirable entry.
func issueEntry(seriesName string, issue *library.Issue) Entry {
	title := seriesName
	if issue.Number != nil {
		title = fmt.Sprintf("%s #%s", seriesName, *issue.Number)
	}
	if issue.Title != nil {
		title = fmt.Sprintf("%s: %s", title, *issue.Title)
	}

	entry := Entry{
		ID:      urnIssue + issue.ID,
		Title:   title,
		Updated: atomTime(issue.UpdatedAt),
		Content: &Content{Type: "text", Text: fmt.Sprintf("%d pages", issue.PageCount)},
		Links: []Link{
			{
				Rel:  relAcquisition,
				Href: "/api/v1/issues/" + issue.ID + "/download",
				Type: library.ContainerMediaType(issue.Container),
			},
			{Rel: relImage, Href: "/api/v1/issues/" + issue.ID + "/cover", Type: typeImage},
			{Rel: relThumbnail, Href: "/api/v1/issues/" + issue.ID + "/cover", Type: typeImage},
		},
	}

	return entry
}

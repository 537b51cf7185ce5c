// Copyright (c) 2026 Longbox. All rights reserved.
// Author: dev@longbox.app

/*
Package library holds the canonical model of the comic collection: roots,
series, volumes, and issues, plus the derived read-side views the API serves.

Architecture:
  - model.go: domain entities and API view payloads.
  - builder.go: pure in-memory assembly of the model from resolved archives.
  - store.go: the [Repository] contract.
  - store_postgres.go: pgx-backed persistence with soft deletes.
  - service.go: orchestration and validation.
  - http.go: chi handlers for the browsing endpoints.

The split between entities and views is deliberate: entities mirror storage,
views mirror what clients render (partitioned issue lists, counts), and the
builder is the only code that derives one from the other.
*/
package library

import (
	"time"

	"github.com/longboxhq/longbox/internal/comic/format"
)

// # Domain Entities

// Root is one configured library directory tree.
type Root struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Series groups issues that share a grouping key within a root.
//
// Key is the slugged series name; two archives whose declared series names
// slug identically belong to the same series regardless of casing or accents.
type Series struct {
	ID        string     `json:"id"`
	RootID    string     `json:"root_id"`
	Key       string     `json:"key"`
	Name      string     `json:"name"`
	StartYear *int       `json:"start_year,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"-"`
}

// Volume is one numbered run within a series.
type Volume struct {
	ID        string    `json:"id"`
	SeriesID  string    `json:"series_id"`
	Number    int       `json:"number"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Issue is one archive-backed issue.
//
// Number keeps the raw declared string for display; NumberSort is its derived
// numeric ordering key and is nil when the number has no numeric prefix.
type Issue struct {
	ID          string     `json:"id"`
	VolumeID    string     `json:"volume_id"`
	Number      *string    `json:"number,omitempty"`
	NumberSort  *float64   `json:"-"`
	Title       *string    `json:"title,omitempty"`
	Year        *int       `json:"year,omitempty"`
	Format      *string    `json:"format,omitempty"`
	Path        string     `json:"-"`
	ContentHash string     `json:"content_hash"`
	Container   string     `json:"container"`
	PageCount   int        `json:"page_count"`
	Unresolved  bool       `json:"unresolved,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"-"`
}

// Class derives the issue's publication bucket from its declared format.
func (issue *Issue) Class(set format.ExclusionSet) format.Class {
	return format.Classify(issue.Format, set)
}

// ContainerMediaType maps a container kind to its download media type.
func ContainerMediaType(container string) string {
	if container == "rar" {
		return "application/vnd.comicbook-rar"
	}
	return "application/vnd.comicbook+zip"
}

// # API Views

// SeriesSummary is the list-endpoint projection of a series.
type SeriesSummary struct {
	Series
	TotalIssues int `json:"total_issues"`
}

// VolumeView is a volume with its partitioned, ordered issue lists.
type VolumeView struct {
	Volume
	Issues   []*Issue `json:"issues"`
	Annuals  []*Issue `json:"annuals,omitempty"`
	Specials []*Issue `json:"specials,omitempty"`
}

// SeriesView is the detail-endpoint projection of a series.
//
// TotalIssues counts plain issues only; annuals and specials never inflate
// the series position count. NoPlainIssues marks collections that consist
// entirely of specials (trades, one-shots) so clients can render them as a
// flat list instead of a numbered run.
type SeriesView struct {
	Series
	Volumes       []*VolumeView `json:"volumes"`
	TotalIssues   int           `json:"total_issues"`
	TotalAnnuals  int           `json:"total_annuals"`
	TotalSpecials int           `json:"total_specials"`
	NoPlainIssues bool          `json:"no_plain_issues,omitempty"`
}

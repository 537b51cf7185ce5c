// Copyright (c) 2026 Longbox. All rights reserved.
// Author: dev@longbox.app

/*
Package meta resolves the identity of a comic archive: which series it belongs
to, which volume, which issue number, and what publication format it declares.

Architecture:
  - comicinfo.go: embedded ComicInfo.xml sidecar decoding.
  - filename.go: ordered regex strategies over the archive filename.
  - resolver.go: the sidecar → filename → folder resolution chain.

Resolution is layered by trust. A well-formed sidecar wins outright; a
malformed or absent one falls through to filename heuristics; when even the
filename yields nothing the folder name stands in as the series and the record
is flagged unresolved so operators can find and fix it.
*/
package meta

import (
	"path/filepath"
	"strings"
)

// Source names which resolution layer produced an issue record.
type Source string

const (
	// SourceSidecar means a well-formed ComicInfo.xml supplied the identity.
	SourceSidecar Source = "sidecar"

	// SourceFilename means filename heuristics supplied the identity.
	SourceFilename Source = "filename"

	// SourceFolder means only the containing folder name was usable.
	SourceFolder Source = "folder"
)

// IssueRecord is the resolved identity of one archive on disk.
//
// Number keeps the raw declared string ("1.5", "1AU") for display; NumberSort
// is its derived numeric key, nil when the number has no numeric prefix.
type IssueRecord struct {
	Series     string
	VolumeKey  int
	Number     *string
	NumberSort *float64
	Title      *string
	Year       *int
	Format     *string
	Path       string
	Source     Source
	Unresolved bool
}

// SidecarReader is the slice of an archive handle the resolver needs.
type SidecarReader interface {
	Sidecar() ([]byte, bool)
}

// Resolve derives the issue record for an archive at path.
//
// # Resolution Chain
//
//  1. Sidecar: a well-formed ComicInfo.xml with a non-empty Series is
//     authoritative for every field it carries.
//  2. Filename: the ordered pattern chain over the base filename.
//  3. Folder: the parent directory name becomes the series, the record is
//     flagged unresolved, and the issue still enters the library. Skipping
//     the file entirely would hide it from the operator.
//
// Fields absent at a winning layer are backfilled from the next one down, so
// a sidecar without a Year still picks up "(1999)" from the filename.
func Resolve(handle SidecarReader, path string) IssueRecord {
	record := IssueRecord{Path: path}

	baseName := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	fromName, nameOK := parseFilename(baseName)

	if data, ok := handle.Sidecar(); ok {
		if info, err := ParseComicInfo(data); err == nil && strings.TrimSpace(info.Series) != "" {
			applySidecar(&record, info)
			record.Source = SourceSidecar
			backfill(&record, fromName, nameOK)
			finish(&record)
			return record
		}
	}

	if nameOK && fromName.series != "" {
		applyFilename(&record, fromName)
		record.Source = SourceFilename
		finish(&record)
		return record
	}

	record.Series = folderSeries(path, baseName)
	// The shape did not parse but loose hints (year, format token) may still
	// be present in the name.
	record.Year = fromName.year
	record.Format = fromName.format
	record.Source = SourceFolder
	record.Unresolved = true
	finish(&record)
	return record
}

func applySidecar(record *IssueRecord, info *ComicInfo) {
	record.Series = strings.TrimSpace(info.Series)
	record.Number = strField(info.Number)
	record.Title = strField(info.Title)
	record.Year = intField(info.Year)
	record.Format = strField(info.Format)
	if volume := intField(info.Volume); volume != nil {
		record.VolumeKey = *volume
	}
}

func applyFilename(record *IssueRecord, match filenameMatch) {
	record.Series = match.series
	record.Number = match.number
	record.Year = match.year
	record.Format = match.format
	if match.volume != nil {
		record.VolumeKey = *match.volume
	}
}

// backfill fills sidecar gaps from the filename match.
func backfill(record *IssueRecord, match filenameMatch, ok bool) {
	if !ok {
		return
	}
	if record.Number == nil {
		record.Number = match.number
	}
	if record.Year == nil {
		record.Year = match.year
	}
	if record.Format == nil {
		record.Format = match.format
	}
	if record.VolumeKey == 0 && match.volume != nil {
		record.VolumeKey = *match.volume
	}
}

// finish derives the remaining computed fields once a layer has won.
//
// The volume key falls back to the publication year, then to 1, so every
// issue lands in a concrete volume even with no declared volume anywhere.
func finish(record *IssueRecord) {
	if record.Number != nil {
		record.NumberSort = ParseIssueNumber(*record.Number)
	}
	if record.VolumeKey == 0 {
		if record.Year != nil {
			record.VolumeKey = *record.Year
		} else {
			record.VolumeKey = 1
		}
	}
}

// folderSeries derives a series name from the archive's parent directory,
// falling back to the bare filename at a library root.
func folderSeries(path, baseName string) string {
	parent := filepath.Base(filepath.Dir(path))
	if parent == "." || parent == string(filepath.Separator) || parent == "" {
		return baseName
	}
	return parent
}

// Copyright (c) 2026 Longbox. All rights reserved.
// Author: dev@longbox.app

package library

import (
	"sort"
	"strings"

	"github.com/longboxhq/longbox/internal/comic/format"
	"github.com/longboxhq/longbox/internal/comic/meta"
	"github.com/longboxhq/longbox/pkg/slug"
)

// Scanned is one archive after resolution: its identity plus the physical
// facts the scanner established (hash, container kind, page count).
type Scanned struct {
	Record      meta.IssueRecord
	ContentHash string
	Container   string
	PageCount   int
}

// SeriesDraft is the builder's output for one series: the grouped, unsorted
// raw material the sync layer reconciles against storage.
type SeriesDraft struct {
	Key       string
	Name      string
	StartYear *int
	Volumes   map[int][]Scanned
}

// # Model Assembly

/*
BuildDrafts groups resolved archives into series drafts.

Description: Grouping is by slug key, so "Amazing Spider-Man" and
"amazing spider-man" land in the same series; the first record's declared
name wins for display. Within a series, records bucket by volume key. The
series start year is the minimum year seen across its issues.

Parameters:
  - records: []Scanned (Resolved archives from one scan pass)

Returns:
  - []*SeriesDraft: Drafts ordered by series key for deterministic sync
*/
func BuildDrafts(records []Scanned) []*SeriesDraft {
	drafts := make(map[string]*SeriesDraft)

	for _, scanned := range records {
		key := slug.From(scanned.Record.Series)
		if key == "" {
			key = "untitled"
		}

		draft, ok := drafts[key]
		if !ok {
			draft = &SeriesDraft{
				Key:     key,
				Name:    scanned.Record.Series,
				Volumes: make(map[int][]Scanned),
			}
			drafts[key] = draft
		}

		if year := scanned.Record.Year; year != nil {
			if draft.StartYear == nil || *year < *draft.StartYear {
				value := *year
				draft.StartYear = &value
			}
		}

		volumeKey := scanned.Record.VolumeKey
		draft.Volumes[volumeKey] = append(draft.Volumes[volumeKey], scanned)
	}

	ordered := make([]*SeriesDraft, 0, len(drafts))
	for _, draft := range drafts {
		ordered = append(ordered, draft)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Key < ordered[j].Key })
	return ordered
}

// # View Assembly

/*
AssembleView partitions and orders a series' stored issues into its API view.

Description: Every issue is classified from its declared format and lands in
exactly one of the three lists. Plain issues drive TotalIssues; a series with
specials but no plain issues at all is flagged NoPlainIssues. Volumes order
by number, issues within a list by numeric key with unparseable numbers last.

Parameters:
  - series: Series (The stored entity)
  - volumes: []*Volume (Its volumes, any order)
  - issuesByVolume: map[string][]*Issue (Stored issues keyed by volume ID)
  - set: format.ExclusionSet (The classification token set)

Returns:
  - *SeriesView: The fully ordered detail payload
*/
func AssembleView(series Series, volumes []*Volume, issuesByVolume map[string][]*Issue, set format.ExclusionSet) *SeriesView {
	view := &SeriesView{Series: series}

	sort.Slice(volumes, func(i, j int) bool { return volumes[i].Number < volumes[j].Number })

	for _, volume := range volumes {
		volumeView := &VolumeView{Volume: *volume, Issues: []*Issue{}}

		for _, issue := range issuesByVolume[volume.ID] {
			switch issue.Class(set) {
			case format.Annual:
				volumeView.Annuals = append(volumeView.Annuals, issue)
			case format.Special:
				volumeView.Specials = append(volumeView.Specials, issue)
			default:
				volumeView.Issues = append(volumeView.Issues, issue)
			}
		}

		sortIssues(volumeView.Issues)
		sortIssues(volumeView.Annuals)
		sortIssues(volumeView.Specials)

		view.TotalIssues += len(volumeView.Issues)
		view.TotalAnnuals += len(volumeView.Annuals)
		view.TotalSpecials += len(volumeView.Specials)
		view.Volumes = append(view.Volumes, volumeView)
	}

	if view.Volumes == nil {
		view.Volumes = []*VolumeView{}
	}
	view.NoPlainIssues = view.TotalIssues == 0 && (view.TotalAnnuals > 0 || view.TotalSpecials > 0)
	return view
}

/*
Neighbors locates an issue's predecessor and successor in view order.

Description: Reading order for sibling navigation is the view's flattened
sequence: volume by volume, plain issues, then annuals, then specials. Either
neighbor is nil at the corresponding end of the series.

Parameters:
  - view: *SeriesView (Assembled series detail)
  - issueID: string (UUID of the current issue)

Returns:
  - *Issue: Previous issue in reading order, nil at the start
  - *Issue: Next issue in reading order, nil at the end
*/
func Neighbors(view *SeriesView, issueID string) (*Issue, *Issue) {
	var ordered []*Issue
	for _, volume := range view.Volumes {
		ordered = append(ordered, volume.Issues...)
		ordered = append(ordered, volume.Annuals...)
		ordered = append(ordered, volume.Specials...)
	}

	for position, issue := range ordered {
		if issue.ID != issueID {
			continue
		}

		var previous, next *Issue
		if position > 0 {
			previous = ordered[position-1]
		}
		if position < len(ordered)-1 {
			next = ordered[position+1]
		}
		return previous, next
	}

	return nil, nil
}

// sortIssues orders a single partition in place.
//
// Numeric keys ascend; issues without a numeric key sort after all numbered
// ones. Ties and keyless runs fall back to the archive path so the order is
// total and stable across scans.
func sortIssues(issues []*Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		left, right := issues[i].NumberSort, issues[j].NumberSort

		switch {
		case left != nil && right != nil:
			if *left != *right {
				return *left < *right
			}
		case left != nil:
			return true
		case right != nil:
			return false
		}

		return strings.Compare(issues[i].Path, issues[j].Path) < 0
	})
}

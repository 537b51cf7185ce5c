// Copyright (c) 2026 Longbox. All rights reserved.
// Author: dev@longbox.app

package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/longboxhq/longbox/internal/comic/format"
	"github.com/longboxhq/longbox/internal/comic/meta"
	"github.com/longboxhq/longbox/pkg/pointer"
)

func scanned(series string, volumeKey int, number string, year *int, declaredFormat *string) Scanned {
	return Scanned{
		Record: meta.IssueRecord{
			Series:     series,
			VolumeKey:  volumeKey,
			Number:     pointer.To(number),
			NumberSort: meta.ParseIssueNumber(number),
			Year:       year,
			Format:     declaredFormat,
			Path:       "/library/" + series + "/" + number + ".cbz",
		},
		ContentHash: "hash-" + series + number,
		Container:   "zip",
		PageCount:   22,
	}
}

/*
TestBuildDrafts_GroupsBySlugKey verifies casing and accent variants of a
series name land in one draft.
*/
func TestBuildDrafts_GroupsBySlugKey(t *testing.T) {
	records := []Scanned{
		scanned("Amazing Spider-Man", 1, "1", pointer.To(1963), nil),
		scanned("amazing spider-man", 1, "2", pointer.To(1963), nil),
		scanned("AMAZING SPIDER-MAN", 2, "1", pointer.To(1999), nil),
		scanned("Bone", 1, "1", nil, nil),
	}

	drafts := BuildDrafts(records)
	require.Len(t, drafts, 2)

	// Drafts come back in key order.
	assert.Equal(t, "amazing-spider-man", drafts[0].Key)
	assert.Equal(t, "bone", drafts[1].Key)

	// First record's declared name wins for display.
	assert.Equal(t, "Amazing Spider-Man", drafts[0].Name)

	// Volume buckets split the run.
	assert.Len(t, drafts[0].Volumes[1], 2)
	assert.Len(t, drafts[0].Volumes[2], 1)
}

/*
TestBuildDrafts_StartYearIsMinimum verifies the series start year tracks the
earliest issue year seen, in any input order.
*/
func TestBuildDrafts_StartYearIsMinimum(t *testing.T) {
	records := []Scanned{
		scanned("Hellboy", 1994, "3", pointer.To(1996), nil),
		scanned("Hellboy", 1994, "1", pointer.To(1994), nil),
		scanned("Hellboy", 1994, "2", nil, nil),
	}

	drafts := BuildDrafts(records)
	require.Len(t, drafts, 1)
	require.NotNil(t, drafts[0].StartYear)
	assert.Equal(t, 1994, *drafts[0].StartYear)
}

// viewFixture assembles a single-volume series view from issue fixtures.
func viewFixture(t *testing.T, issues []*Issue) *SeriesView {
	t.Helper()

	series := Series{ID: "series-1", Name: "Fixture"}
	volume := &Volume{ID: "volume-1", SeriesID: series.ID, Number: 1}
	byVolume := map[string][]*Issue{"volume-1": issues}

	return AssembleView(series, []*Volume{volume}, byVolume, format.NewExclusionSet())
}

func issue(id, number string, sort *float64, declaredFormat *string) *Issue {
	var numberPtr *string
	if number != "" {
		numberPtr = &number
	}
	return &Issue{ID: id, VolumeID: "volume-1", Number: numberPtr, NumberSort: sort, Format: declaredFormat, Path: "/library/" + id + ".cbz"}
}

/*
TestAssembleView_PartitionIsTotal verifies every issue lands in exactly one
of the three lists and the counts add up.
*/
func TestAssembleView_PartitionIsTotal(t *testing.T) {
	issues := []*Issue{
		issue("a", "1", pointer.To[float64](1), nil),
		issue("b", "2", pointer.To[float64](2), pointer.To("Annual")),
		issue("c", "3", pointer.To[float64](3), pointer.To("TPB")),
		issue("d", "4", pointer.To[float64](4), pointer.To("Newsstand Edition")),
		issue("e", "5", pointer.To[float64](5), pointer.To("One-Shot")),
	}

	view := viewFixture(t, issues)
	require.Len(t, view.Volumes, 1)

	volume := view.Volumes[0]
	total := len(volume.Issues) + len(volume.Annuals) + len(volume.Specials)
	assert.Equal(t, len(issues), total)

	// Unrecognized declared format counts as a plain issue.
	assert.Equal(t, 2, view.TotalIssues)
	assert.Equal(t, 1, view.TotalAnnuals)
	assert.Equal(t, 2, view.TotalSpecials)
	assert.False(t, view.NoPlainIssues)
}

/*
TestAssembleView_IssueOrdering verifies numeric ordering with decimal
interleaving and unparseable numbers last.
*/
func TestAssembleView_IssueOrdering(t *testing.T) {
	issues := []*Issue{
		issue("ten", "10", pointer.To[float64](10), nil),
		issue("x", "X", nil, nil),
		issue("one-half", "1.5", pointer.To[float64](1.5), nil),
		issue("one", "1", pointer.To[float64](1), nil),
		issue("two", "2", pointer.To[float64](2), nil),
	}

	view := viewFixture(t, issues)
	ordered := view.Volumes[0].Issues

	ids := make([]string, 0, len(ordered))
	for _, current := range ordered {
		ids = append(ids, current.ID)
	}
	assert.Equal(t, []string{"one", "one-half", "two", "ten", "x"}, ids)
}

/*
TestAssembleView_NoPlainIssues verifies an all-specials collection is
flagged so clients render a flat list.
*/
func TestAssembleView_NoPlainIssues(t *testing.T) {
	issues := []*Issue{
		issue("trade-1", "1", pointer.To[float64](1), pointer.To("TPB")),
		issue("trade-2", "2", pointer.To[float64](2), pointer.To("TPB")),
	}

	view := viewFixture(t, issues)

	assert.Equal(t, 0, view.TotalIssues)
	assert.Equal(t, 2, view.TotalSpecials)
	assert.True(t, view.NoPlainIssues)
}

/*
TestAssembleView_EmptySeries verifies an issue-less series serves empty
lists rather than nulls.
*/
func TestAssembleView_EmptySeries(t *testing.T) {
	series := Series{ID: "series-1", Name: "Empty"}
	view := AssembleView(series, nil, map[string][]*Issue{}, format.NewExclusionSet())

	assert.NotNil(t, view.Volumes)
	assert.Empty(t, view.Volumes)
	assert.False(t, view.NoPlainIssues)
}

/*
TestNeighbors verifies sibling navigation follows view order across
partitions, with nil at the ends.
*/
func TestNeighbors(t *testing.T) {
	issues := []*Issue{
		issue("one", "1", pointer.To[float64](1), nil),
		issue("two", "2", pointer.To[float64](2), nil),
		issue("annual", "1", pointer.To[float64](1), pointer.To("Annual")),
	}

	view := viewFixture(t, issues)

	previous, next := Neighbors(view, "one")
	assert.Nil(t, previous)
	require.NotNil(t, next)
	assert.Equal(t, "two", next.ID)

	// Annuals follow plain issues in reading order.
	previous, next = Neighbors(view, "two")
	require.NotNil(t, previous)
	assert.Equal(t, "one", previous.ID)
	require.NotNil(t, next)
	assert.Equal(t, "annual", next.ID)

	previous, next = Neighbors(view, "annual")
	require.NotNil(t, previous)
	assert.Nil(t, next)

	previous, next = Neighbors(view, "unknown")
	assert.Nil(t, previous)
	assert.Nil(t, next)
}

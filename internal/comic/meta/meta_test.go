// Copyright (c) 2026 Longbox. All rights reserved.
// Author: dev@longbox.app

package meta_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/longboxhq/longbox/internal/comic/meta"
	"github.com/longboxhq/longbox/pkg/pointer"
)

// stubSidecar satisfies meta.SidecarReader with fixed bytes.
type stubSidecar struct {
	data []byte
	ok   bool
}

func (stub stubSidecar) Sidecar() ([]byte, bool) { return stub.data, stub.ok }

/*
TestResolve_SidecarWins verifies a well-formed ComicInfo.xml is authoritative
over anything the filename says.
*/
func TestResolve_SidecarWins(t *testing.T) {
	sidecar := stubSidecar{
		data: []byte(`<ComicInfo>
			<Series>Saga</Series>
			<Number>18</Number>
			<Volume>3</Volume>
			<Title>Chapter Eighteen</Title>
			<Year>2014</Year>
			<Format></Format>
		</ComicInfo>`),
		ok: true,
	}

	record := meta.Resolve(sidecar, "/library/Wrong Name v9 #99 (1900).cbz")

	assert.Equal(t, meta.SourceSidecar, record.Source)
	assert.Equal(t, "Saga", record.Series)
	assert.Equal(t, 3, record.VolumeKey)
	require.NotNil(t, record.Number)
	assert.Equal(t, "18", *record.Number)
	require.NotNil(t, record.NumberSort)
	assert.Equal(t, 18.0, *record.NumberSort)
	require.NotNil(t, record.Year)
	assert.Equal(t, 2014, *record.Year)
	assert.Nil(t, record.Format)
	assert.False(t, record.Unresolved)
}

/*
TestResolve_SidecarBackfill verifies gaps in the sidecar are filled from the
filename instead of being lost.
*/
func TestResolve_SidecarBackfill(t *testing.T) {
	sidecar := stubSidecar{
		data: []byte(`<ComicInfo><Series>Hellboy</Series></ComicInfo>`),
		ok:   true,
	}

	record := meta.Resolve(sidecar, "/library/Hellboy 051.5 (1999).cbz")

	assert.Equal(t, meta.SourceSidecar, record.Source)
	assert.Equal(t, "Hellboy", record.Series)
	require.NotNil(t, record.Number)
	assert.Equal(t, "051.5", *record.Number)
	require.NotNil(t, record.NumberSort)
	assert.Equal(t, 51.5, *record.NumberSort)
	require.NotNil(t, record.Year)
	assert.Equal(t, 1999, *record.Year)
	// No volume anywhere: the year stands in as the volume key.
	assert.Equal(t, 1999, record.VolumeKey)
}

/*
TestResolve_MalformedSidecarFallsThrough verifies broken XML is ignored rather
than half-trusted.
*/
func TestResolve_MalformedSidecarFallsThrough(t *testing.T) {
	sidecar := stubSidecar{data: []byte("<ComicInfo><Series>Oops"), ok: true}

	record := meta.Resolve(sidecar, "/library/Bone #12.cbz")

	assert.Equal(t, meta.SourceFilename, record.Source)
	assert.Equal(t, "Bone", record.Series)
	require.NotNil(t, record.Number)
	assert.Equal(t, "12", *record.Number)
	assert.False(t, record.Unresolved)
}

/*
TestResolve_FilenameStrategies walks the pattern chain across its shapes.
*/
func TestResolve_FilenameStrategies(t *testing.T) {
	none := stubSidecar{}

	cases := []struct {
		name       string
		path       string
		series     string
		number     string
		volumeKey  int
		year       *int
		format     *string
		numberSort *float64
	}{
		{
			name:       "volume and issue",
			path:       "/library/Amazing Spider-Man v2 015.cbz",
			series:     "Amazing Spider-Man",
			number:     "015",
			volumeKey:  2,
			numberSort: pointer.To[float64](15),
		},
		{
			name:       "annual",
			path:       "/library/Batman Annual 003 (1963).cbz",
			series:     "Batman",
			number:     "003",
			volumeKey:  1963,
			year:       pointer.To(1963),
			format:     pointer.To("Annual"),
			numberSort: pointer.To[float64](3),
		},
		{
			name:       "series issue year",
			path:       "/library/Bone #12 (1994).cbz",
			series:     "Bone",
			number:     "12",
			volumeKey:  1994,
			year:       pointer.To(1994),
			numberSort: pointer.To[float64](12),
		},
		{
			name:       "alphabetic suffix",
			path:       "/library/Age of Ultron 1AU.cbz",
			series:     "Age of Ultron",
			number:     "1AU",
			volumeKey:  1,
			numberSort: pointer.To[float64](1),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			record := meta.Resolve(none, tc.path)

			assert.Equal(t, meta.SourceFilename, record.Source)
			assert.Equal(t, tc.series, record.Series)
			require.NotNil(t, record.Number)
			assert.Equal(t, tc.number, *record.Number)
			assert.Equal(t, tc.volumeKey, record.VolumeKey)
			assert.Equal(t, tc.year, record.Year)
			assert.Equal(t, tc.format, record.Format)
			assert.Equal(t, tc.numberSort, record.NumberSort)
			assert.False(t, record.Unresolved)
		})
	}
}

/*
TestResolve_YearOnly verifies a graphic-novel style name with no issue number
still resolves from its filename.
*/
func TestResolve_YearOnly(t *testing.T) {
	record := meta.Resolve(stubSidecar{}, "/library/Blankets (2003).cbz")

	assert.Equal(t, meta.SourceFilename, record.Source)
	assert.Equal(t, "Blankets", record.Series)
	assert.Nil(t, record.Number)
	assert.Nil(t, record.NumberSort)
	require.NotNil(t, record.Year)
	assert.Equal(t, 2003, *record.Year)
	assert.Equal(t, 2003, record.VolumeKey)
}

/*
TestResolve_FolderFallback verifies an unparseable filename falls back to the
folder name and flags the record unresolved.
*/
func TestResolve_FolderFallback(t *testing.T) {
	record := meta.Resolve(stubSidecar{}, "/library/Transmetropolitan/scan_final_0042x.cbz")

	assert.Equal(t, meta.SourceFolder, record.Source)
	assert.Equal(t, "Transmetropolitan", record.Series)
	assert.True(t, record.Unresolved)
	assert.Equal(t, 1, record.VolumeKey)
}

/*
TestParseIssueNumber covers the numeric sort key derivation.
*/
func TestParseIssueNumber(t *testing.T) {
	cases := []struct {
		raw  string
		want *float64
	}{
		{"12", pointer.To[float64](12)},
		{"012", pointer.To[float64](12)},
		{"1.5", pointer.To[float64](1.5)},
		{"1AU", pointer.To[float64](1)},
		{"12.", pointer.To[float64](12)},
		{"X", nil},
		{"", nil},
		{"  7 ", pointer.To[float64](7)},
	}

	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			assert.Equal(t, tc.want, meta.ParseIssueNumber(tc.raw))
		})
	}
}

// Copyright (c) 2026 Longbox. All rights reserved.
// Author: dev@longbox.app

package reader

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

/*
TestSpreads_Layout walks the pairing rule across page counts.
*/
func TestSpreads_Layout(t *testing.T) {
	cases := []struct {
		name      string
		pageCount int
		want      [][]int
	}{
		{"empty", 0, [][]int{}},
		{"single page", 1, [][]int{{0}}},
		{"two pages both single", 2, [][]int{{0}, {1}}},
		{"three pages", 3, [][]int{{0}, {1}, {2}}},
		{"even run pairs cleanly", 6, [][]int{{0}, {1, 2}, {3, 4}, {5}}},
		{"odd run leaves middle single", 5, [][]int{{0}, {1, 2}, {3}, {4}}},
		{"longer run", 8, [][]int{{0}, {1, 2}, {3, 4}, {5, 6}, {7}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Spreads(tc.pageCount, ModeNative))
		})
	}
}

/*
TestSpreads_MangaFlipsPairsOnly verifies manga mode reverses order within a
pair without touching the indices themselves.
*/
func TestSpreads_MangaFlipsPairsOnly(t *testing.T) {
	native := Spreads(6, ModeNative)
	manga := Spreads(6, ModeManga)

	assert.Equal(t, [][]int{{0}, {2, 1}, {4, 3}, {5}}, manga)

	// Same positions, same index sets — only the in-pair order differs.
	assert.Len(t, manga, len(native))
	for i := range native {
		assert.ElementsMatch(t, native[i], manga[i])
	}
}

/*
TestSpreads_EveryPageAppearsOnce verifies the layout is a partition of the
page range for any count.
*/
func TestSpreads_EveryPageAppearsOnce(t *testing.T) {
	for pageCount := 1; pageCount <= 32; pageCount++ {
		seen := make(map[int]int)
		for _, spread := range Spreads(pageCount, ModeNative) {
			for _, page := range spread {
				seen[page]++
			}
		}

		assert.Len(t, seen, pageCount)
		for page, count := range seen {
			assert.Equal(t, 1, count, "page %d in count %d", page, pageCount)
			assert.GreaterOrEqual(t, page, 0)
			assert.Less(t, page, pageCount)
		}
	}
}

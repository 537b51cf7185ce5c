// Copyright (c) 2026 Longbox. All rights reserved.
// Author: dev@longbox.app

package library

import "context"

// # Library Data Access

// Repository defines the data access contract for roots, series, volumes,
// and issues.
type Repository interface {

	/*
		EnsureRoot persists a configured library root, updating its name if the
		path already exists.

		Parameters:
		  - context: context.Context
		  - root: *Root

		Returns:
		  - error: Storage failure
	*/
	EnsureRoot(context context.Context, root *Root) error

	/*
		ListRoots returns every configured library root.

		Parameters:
		  - context: context.Context

		Returns:
		  - []*Root: All roots, ordered by name
		  - error: Storage failures
	*/
	ListRoots(context context.Context) ([]*Root, error)

	/*
		FindRoot returns the root with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *Root: Hydrated root
		  - error: ErrNotFound if missing
	*/
	FindRoot(context context.Context, id string) (*Root, error)

	/*
		ListSeries returns active series under a root with their plain-issue
		counts, ordered by name.

		Parameters:
		  - context: context.Context
		  - rootID: string (UUID)
		  - limit: int
		  - offset: int

		Returns:
		  - []*SeriesSummary: Page of series summaries
		  - int: Total active series under the root
		  - error: Storage failures
	*/
	ListSeries(context context.Context, rootID string, limit, offset int) ([]*SeriesSummary, int, error)

	/*
		FindSeries returns the active series with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *Series: Hydrated series
		  - error: ErrNotFound if missing or soft-deleted
	*/
	FindSeries(context context.Context, id string) (*Series, error)

	/*
		UpsertSeries inserts or refreshes a series by its (root, key) identity.

		Parameters:
		  - context: context.Context
		  - series: *Series (ID is filled in on insert, read back on conflict)

		Returns:
		  - error: Storage failure
	*/
	UpsertSeries(context context.Context, series *Series) error

	/*
		EnsureVolume inserts a volume by its (series, number) identity.

		Parameters:
		  - context: context.Context
		  - volume: *Volume (ID is filled in on insert, read back on conflict)

		Returns:
		  - error: Storage failure
	*/
	EnsureVolume(context context.Context, volume *Volume) error

	/*
		ListVolumes returns all volumes of a series.

		Parameters:
		  - context: context.Context
		  - seriesID: string (UUID)

		Returns:
		  - []*Volume: Volumes in number order
		  - error: Storage failures
	*/
	ListVolumes(context context.Context, seriesID string) ([]*Volume, error)

	/*
		FindVolume returns the volume with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *Volume: Hydrated volume
		  - error: ErrNotFound if missing
	*/
	FindVolume(context context.Context, id string) (*Volume, error)

	/*
		ListIssuesBySeries returns all active issues of a series keyed by
		volume ID.

		Parameters:
		  - context: context.Context
		  - seriesID: string (UUID)

		Returns:
		  - map[string][]*Issue: Issues grouped by owning volume
		  - error: Storage failures
	*/
	ListIssuesBySeries(context context.Context, seriesID string) (map[string][]*Issue, error)

	/*
		FindIssue returns the active issue with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *Issue: Hydrated issue including its archive path
		  - error: ErrNotFound if missing or soft-deleted
	*/
	FindIssue(context context.Context, id string) (*Issue, error)

	/*
		UpsertIssue inserts or refreshes an issue by its archive path. A
		previously soft-deleted path that reappears is revived.

		Parameters:
		  - context: context.Context
		  - issue: *Issue (ID is filled in on insert, read back on conflict)

		Returns:
		  - error: Storage failure
	*/
	UpsertIssue(context context.Context, issue *Issue) error

	/*
		SoftDeleteVanished marks issues under a root as deleted when their
		paths were not seen in the latest scan pass.

		Parameters:
		  - context: context.Context
		  - rootID: string (UUID)
		  - seenPaths: []string (Every path the scan pass observed)

		Returns:
		  - int: Number of issues newly marked deleted
		  - error: Storage failure
	*/
	SoftDeleteVanished(context context.Context, rootID string, seenPaths []string) (int, error)

	/*
		SoftDeleteEmptySeries marks series as deleted when every issue under
		them is deleted.

		Parameters:
		  - context: context.Context
		  - rootID: string (UUID)

		Returns:
		  - error: Storage failure
	*/
	SoftDeleteEmptySeries(context context.Context, rootID string) error
}

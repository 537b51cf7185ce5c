// Copyright (c) 2026 Longbox. All rights reserved.
// Author: dev@longbox.app

/*
Package library provides the PostgreSQL implementation for the collection's
data access.

It leans on Postgres features to keep reconciliation cheap:
  - Upserts: 'ON CONFLICT ... DO UPDATE' gives scan passes idempotent writes.
  - RETURNING: identity resolution (insert-or-read-back) in one round-trip.
  - Window Functions: series list counts come without a second COUNT query.
  - Soft Deletes: vanished archives are hidden, never physically removed, so
    a re-appearing file revives its row with the same identity.
*/
package library

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/longboxhq/longbox/internal/platform/apperr"
	"github.com/longboxhq/longbox/internal/platform/database/schema"
	"github.com/longboxhq/longbox/internal/platform/dberr"
)

// # PostgreSQL Repository

// repository implements the [Repository] interface using pgx.
type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed library store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

// # Root Persistence

/*
EnsureRoot inserts a configured root, refreshing its display name when the
path is already registered.
*/
func (repository *repository) EnsureRoot(context context.Context, root *Root) error {

	// Path is the natural identity of a root
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		VALUES ($1, $2, $3)
		ON CONFLICT (%s) DO UPDATE SET %s = EXCLUDED.%s, %s = NOW()
		RETURNING %s, %s, %s
	`,
		schema.LibraryRoot.Table,
		schema.LibraryRoot.ID, schema.LibraryRoot.Name, schema.LibraryRoot.Path,
		schema.LibraryRoot.Path,
		schema.LibraryRoot.Name, schema.LibraryRoot.Name, schema.LibraryRoot.UpdatedAt,
		schema.LibraryRoot.ID, schema.LibraryRoot.CreatedAt, schema.LibraryRoot.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query, root.ID, root.Name, root.Path).
		Scan(&root.ID, &root.CreatedAt, &root.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "ensure library root")
	}

	return nil
}

/*
ListRoots returns every configured root ordered by name.
*/
func (repository *repository) ListRoots(context context.Context) ([]*Root, error) {

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s
		FROM %s
		ORDER BY %s ASC
	`,
		schema.LibraryRoot.ID, schema.LibraryRoot.Name, schema.LibraryRoot.Path,
		schema.LibraryRoot.CreatedAt, schema.LibraryRoot.UpdatedAt,
		schema.LibraryRoot.Table,
		schema.LibraryRoot.Name,
	)

	rows, err := repository.pool.Query(context, query)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list roots: %w", err)
	}
	defer rows.Close()

	var roots []*Root
	for rows.Next() {
		var root Root
		if err := rows.Scan(&root.ID, &root.Name, &root.Path, &root.CreatedAt, &root.UpdatedAt); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan root: %w", err)
		}
		roots = append(roots, &root)
	}

	return roots, nil
}

/*
FindRoot returns the root with the given ID.
*/
func (repository *repository) FindRoot(context context.Context, id string) (*Root, error) {

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
	`,
		schema.LibraryRoot.ID, schema.LibraryRoot.Name, schema.LibraryRoot.Path,
		schema.LibraryRoot.CreatedAt, schema.LibraryRoot.UpdatedAt,
		schema.LibraryRoot.Table,
		schema.LibraryRoot.ID,
	)

	var root Root
	err := repository.pool.QueryRow(context, query, id).
		Scan(&root.ID, &root.Name, &root.Path, &root.CreatedAt, &root.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Library root")
		}
		return nil, fmt.Errorf("postgres: failed to find root by id: %w", err)
	}

	return &root, nil
}

// # Series Persistence

/*
ListSeries retrieves a page of active series under a root.

Description: Plain-issue counts are computed inline with a filtered COUNT
over the issue join; the window function supplies the page-independent total
without a second query.
*/
func (repository *repository) ListSeries(context context.Context, rootID string, limit, offset int) ([]*SeriesSummary, int, error) {

	// 1. Query construction with inline plain-issue counting
	query := fmt.Sprintf(`
		SELECT
			s.%s, s.%s, s.%s, s.%s, s.%s, s.%s, s.%s,
			COUNT(i.%s) FILTER (WHERE i.%s IS NULL) AS issue_count,
			COUNT(*) OVER() AS total_count
		FROM %s s
		LEFT JOIN %s v ON v.%s = s.%s
		LEFT JOIN %s i ON i.%s = v.%s
		WHERE s.%s = $1 AND s.%s IS NULL
		GROUP BY s.%s
		ORDER BY s.%s ASC
		LIMIT $2 OFFSET $3
	`,
		schema.LibrarySeries.ID, schema.LibrarySeries.RootID, schema.LibrarySeries.Key,
		schema.LibrarySeries.Name, schema.LibrarySeries.StartYear,
		schema.LibrarySeries.CreatedAt, schema.LibrarySeries.UpdatedAt,
		schema.LibraryIssue.ID, schema.LibraryIssue.DeletedAt,
		schema.LibrarySeries.Table,
		schema.LibraryVolume.Table, schema.LibraryVolume.SeriesID, schema.LibrarySeries.ID,
		schema.LibraryIssue.Table, schema.LibraryIssue.VolumeID, schema.LibraryVolume.ID,
		schema.LibrarySeries.RootID, schema.LibrarySeries.DeletedAt,
		schema.LibrarySeries.ID,
		schema.LibrarySeries.Name,
	)

	// 2. Query execution
	rows, err := repository.pool.Query(context, query, rootID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to list series: %w", err)
	}
	defer rows.Close()

	// 3. Entity hydration
	var summaries []*SeriesSummary
	var totalCount int
	for rows.Next() {
		var summary SeriesSummary
		err := rows.Scan(
			&summary.ID,
			&summary.RootID,
			&summary.Key,
			&summary.Name,
			&summary.StartYear,
			&summary.CreatedAt,
			&summary.UpdatedAt,
			&summary.TotalIssues,
			&totalCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres: failed to scan series summary: %w", err)
		}
		summaries = append(summaries, &summary)
	}

	return summaries, totalCount, nil
}

/*
FindSeries returns the active series with the given ID.
*/
func (repository *repository) FindSeries(context context.Context, id string) (*Series, error) {

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s IS NULL
	`,
		schema.LibrarySeries.ID, schema.LibrarySeries.RootID, schema.LibrarySeries.Key,
		schema.LibrarySeries.Name, schema.LibrarySeries.StartYear,
		schema.LibrarySeries.CreatedAt, schema.LibrarySeries.UpdatedAt,
		schema.LibrarySeries.Table,
		schema.LibrarySeries.ID, schema.LibrarySeries.DeletedAt,
	)

	var series Series
	err := repository.pool.QueryRow(context, query, id).Scan(
		&series.ID,
		&series.RootID,
		&series.Key,
		&series.Name,
		&series.StartYear,
		&series.CreatedAt,
		&series.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Series")
		}
		return nil, fmt.Errorf("postgres: failed to find series by id: %w", err)
	}

	return &series, nil
}

/*
UpsertSeries inserts or refreshes a series by its (root, key) identity.

Description: A soft-deleted series whose key re-appears on disk is revived
in place, keeping its UUID stable for clients that bookmarked it.
*/
func (repository *repository) UpsertSeries(context context.Context, series *Series) error {

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (%s, %s) DO UPDATE SET
			%s = EXCLUDED.%s,
			%s = LEAST(%s.%s, EXCLUDED.%s),
			%s = NULL,
			%s = NOW()
		RETURNING %s
	`,
		schema.LibrarySeries.Table,
		schema.LibrarySeries.ID, schema.LibrarySeries.RootID, schema.LibrarySeries.Key,
		schema.LibrarySeries.Name, schema.LibrarySeries.StartYear,
		schema.LibrarySeries.RootID, schema.LibrarySeries.Key,
		schema.LibrarySeries.Name, schema.LibrarySeries.Name,
		schema.LibrarySeries.StartYear, schema.LibrarySeries.Table, schema.LibrarySeries.StartYear, schema.LibrarySeries.StartYear,
		schema.LibrarySeries.DeletedAt,
		schema.LibrarySeries.UpdatedAt,
		schema.LibrarySeries.ID,
	)

	err := repository.pool.QueryRow(context, query,
		series.ID,
		series.RootID,
		series.Key,
		series.Name,
		series.StartYear,
	).Scan(&series.ID)
	if err != nil {
		return dberr.Wrap(err, "upsert series")
	}

	return nil
}

// # Volume Persistence

/*
EnsureVolume inserts a volume by its (series, number) identity, reading the
existing ID back on conflict.
*/
func (repository *repository) EnsureVolume(context context.Context, volume *Volume) error {

	// DO UPDATE on a no-op column so RETURNING fires on the conflict path too
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		VALUES ($1, $2, $3)
		ON CONFLICT (%s, %s) DO UPDATE SET %s = NOW()
		RETURNING %s
	`,
		schema.LibraryVolume.Table,
		schema.LibraryVolume.ID, schema.LibraryVolume.SeriesID, schema.LibraryVolume.Number,
		schema.LibraryVolume.SeriesID, schema.LibraryVolume.Number,
		schema.LibraryVolume.UpdatedAt,
		schema.LibraryVolume.ID,
	)

	err := repository.pool.QueryRow(context, query, volume.ID, volume.SeriesID, volume.Number).
		Scan(&volume.ID)
	if err != nil {
		return dberr.Wrap(err, "ensure volume")
	}

	return nil
}

/*
ListVolumes returns all volumes of a series in number order.
*/
func (repository *repository) ListVolumes(context context.Context, seriesID string) ([]*Volume, error) {

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s ASC
	`,
		schema.LibraryVolume.ID, schema.LibraryVolume.SeriesID, schema.LibraryVolume.Number,
		schema.LibraryVolume.CreatedAt, schema.LibraryVolume.UpdatedAt,
		schema.LibraryVolume.Table,
		schema.LibraryVolume.SeriesID,
		schema.LibraryVolume.Number,
	)

	rows, err := repository.pool.Query(context, query, seriesID)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list volumes: %w", err)
	}
	defer rows.Close()

	var volumes []*Volume
	for rows.Next() {
		var volume Volume
		err := rows.Scan(&volume.ID, &volume.SeriesID, &volume.Number, &volume.CreatedAt, &volume.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan volume: %w", err)
		}
		volumes = append(volumes, &volume)
	}

	return volumes, nil
}

/*
FindVolume returns the volume with the given ID.
*/
func (repository *repository) FindVolume(context context.Context, id string) (*Volume, error) {

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
	`,
		schema.LibraryVolume.ID, schema.LibraryVolume.SeriesID, schema.LibraryVolume.Number,
		schema.LibraryVolume.CreatedAt, schema.LibraryVolume.UpdatedAt,
		schema.LibraryVolume.Table,
		schema.LibraryVolume.ID,
	)

	var volume Volume
	err := repository.pool.QueryRow(context, query, id).
		Scan(&volume.ID, &volume.SeriesID, &volume.Number, &volume.CreatedAt, &volume.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Volume")
		}
		return nil, fmt.Errorf("postgres: failed to find volume by id: %w", err)
	}

	return &volume, nil
}

// # Issue Persistence

/*
ListIssuesBySeries returns all active issues of a series grouped by volume.

Description: Ordering is left to the view assembler; the query only
guarantees grouping. One round-trip serves the whole series detail page.
*/
func (repository *repository) ListIssuesBySeries(context context.Context, seriesID string) (map[string][]*Issue, error) {

	query := fmt.Sprintf(`
		SELECT
			i.%s, i.%s, i.%s, i.%s, i.%s, i.%s, i.%s,
			i.%s, i.%s, i.%s, i.%s, i.%s, i.%s, i.%s
		FROM %s i
		JOIN %s v ON i.%s = v.%s
		WHERE v.%s = $1 AND i.%s IS NULL
	`,
		schema.LibraryIssue.ID, schema.LibraryIssue.VolumeID, schema.LibraryIssue.Number,
		schema.LibraryIssue.NumberSort, schema.LibraryIssue.Title, schema.LibraryIssue.Year,
		schema.LibraryIssue.Format,
		schema.LibraryIssue.Path, schema.LibraryIssue.ContentHash, schema.LibraryIssue.Container,
		schema.LibraryIssue.PageCount, schema.LibraryIssue.Unresolved,
		schema.LibraryIssue.CreatedAt, schema.LibraryIssue.UpdatedAt,
		schema.LibraryIssue.Table,
		schema.LibraryVolume.Table, schema.LibraryIssue.VolumeID, schema.LibraryVolume.ID,
		schema.LibraryVolume.SeriesID, schema.LibraryIssue.DeletedAt,
	)

	rows, err := repository.pool.Query(context, query, seriesID)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list issues: %w", err)
	}
	defer rows.Close()

	grouped := make(map[string][]*Issue)
	for rows.Next() {
		var issue Issue
		err := rows.Scan(
			&issue.ID,
			&issue.VolumeID,
			&issue.Number,
			&issue.NumberSort,
			&issue.Title,
			&issue.Year,
			&issue.Format,
			&issue.Path,
			&issue.ContentHash,
			&issue.Container,
			&issue.PageCount,
			&issue.Unresolved,
			&issue.CreatedAt,
			&issue.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan issue: %w", err)
		}
		grouped[issue.VolumeID] = append(grouped[issue.VolumeID], &issue)
	}

	return grouped, nil
}

/*
FindIssue returns the active issue with the given ID.
*/
func (repository *repository) FindIssue(context context.Context, id string) (*Issue, error) {

	query := fmt.Sprintf(`
		SELECT
			%s, %s, %s, %s, %s, %s, %s,
			%s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s IS NULL
	`,
		schema.LibraryIssue.ID, schema.LibraryIssue.VolumeID, schema.LibraryIssue.Number,
		schema.LibraryIssue.NumberSort, schema.LibraryIssue.Title, schema.LibraryIssue.Year,
		schema.LibraryIssue.Format,
		schema.LibraryIssue.Path, schema.LibraryIssue.ContentHash, schema.LibraryIssue.Container,
		schema.LibraryIssue.PageCount, schema.LibraryIssue.Unresolved,
		schema.LibraryIssue.CreatedAt, schema.LibraryIssue.UpdatedAt,
		schema.LibraryIssue.Table,
		schema.LibraryIssue.ID, schema.LibraryIssue.DeletedAt,
	)

	var issue Issue
	err := repository.pool.QueryRow(context, query, id).Scan(
		&issue.ID,
		&issue.VolumeID,
		&issue.Number,
		&issue.NumberSort,
		&issue.Title,
		&issue.Year,
		&issue.Format,
		&issue.Path,
		&issue.ContentHash,
		&issue.Container,
		&issue.PageCount,
		&issue.Unresolved,
		&issue.CreatedAt,
		&issue.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Issue")
		}
		return nil, fmt.Errorf("postgres: failed to find issue by id: %w", err)
	}

	return &issue, nil
}

/*
UpsertIssue inserts or refreshes an issue by its archive path.

Description: Path is the on-disk identity. A rescanned path refreshes every
derived field (hash, page count, metadata) and clears any soft delete, so a
file that vanished and returned picks up its original UUID.
*/
func (repository *repository) UpsertIssue(context context.Context, issue *Issue) error {

	query := fmt.Sprintf(`
		INSERT INTO %s (
			%s, %s, %s, %s, %s, %s, %s,
			%s, %s, %s, %s, %s
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		)
		ON CONFLICT (%s) DO UPDATE SET
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s,
			%s = NULL,
			%s = NOW()
		RETURNING %s
	`,
		schema.LibraryIssue.Table,
		schema.LibraryIssue.ID, schema.LibraryIssue.VolumeID, schema.LibraryIssue.Number,
		schema.LibraryIssue.NumberSort, schema.LibraryIssue.Title, schema.LibraryIssue.Year,
		schema.LibraryIssue.Format,
		schema.LibraryIssue.Path, schema.LibraryIssue.ContentHash, schema.LibraryIssue.Container,
		schema.LibraryIssue.PageCount, schema.LibraryIssue.Unresolved,
		schema.LibraryIssue.Path,
		schema.LibraryIssue.VolumeID, schema.LibraryIssue.VolumeID,
		schema.LibraryIssue.Number, schema.LibraryIssue.Number,
		schema.LibraryIssue.NumberSort, schema.LibraryIssue.NumberSort,
		schema.LibraryIssue.Title, schema.LibraryIssue.Title,
		schema.LibraryIssue.Year, schema.LibraryIssue.Year,
		schema.LibraryIssue.Format, schema.LibraryIssue.Format,
		schema.LibraryIssue.ContentHash, schema.LibraryIssue.ContentHash,
		schema.LibraryIssue.Container, schema.LibraryIssue.Container,
		schema.LibraryIssue.PageCount, schema.LibraryIssue.PageCount,
		schema.LibraryIssue.Unresolved, schema.LibraryIssue.Unresolved,
		schema.LibraryIssue.DeletedAt,
		schema.LibraryIssue.UpdatedAt,
		schema.LibraryIssue.ID,
	)

	err := repository.pool.QueryRow(context, query,
		issue.ID,
		issue.VolumeID,
		issue.Number,
		issue.NumberSort,
		issue.Title,
		issue.Year,
		issue.Format,
		issue.Path,
		issue.ContentHash,
		issue.Container,
		issue.PageCount,
		issue.Unresolved,
	).Scan(&issue.ID)
	if err != nil {
		return dberr.Wrap(err, "upsert issue")
	}

	return nil
}

/*
SoftDeleteVanished marks issues under a root as deleted when the latest scan
pass did not observe their paths.
*/
func (repository *repository) SoftDeleteVanished(context context.Context, rootID string, seenPaths []string) (int, error) {

	// Issues reach their root through volume and series joins
	query := fmt.Sprintf(`
		UPDATE %s i
		SET %s = NOW()
		FROM %s v, %s s
		WHERE i.%s = v.%s
		  AND v.%s = s.%s
		  AND s.%s = $1
		  AND i.%s IS NULL
		  AND NOT (i.%s = ANY($2))
	`,
		schema.LibraryIssue.Table,
		schema.LibraryIssue.DeletedAt,
		schema.LibraryVolume.Table, schema.LibrarySeries.Table,
		schema.LibraryIssue.VolumeID, schema.LibraryVolume.ID,
		schema.LibraryVolume.SeriesID, schema.LibrarySeries.ID,
		schema.LibrarySeries.RootID,
		schema.LibraryIssue.DeletedAt,
		schema.LibraryIssue.Path,
	)

	result, err := repository.pool.Exec(context, query, rootID, seenPaths)
	if err != nil {
		return 0, fmt.Errorf("postgres: failed to soft-delete vanished issues: %w", err)
	}

	return int(result.RowsAffected()), nil
}

/*
SoftDeleteEmptySeries hides series whose every issue is soft-deleted.
*/
func (repository *repository) SoftDeleteEmptySeries(context context.Context, rootID string) error {

	query := fmt.Sprintf(`
		UPDATE %s s
		SET %s = NOW()
		WHERE s.%s = $1
		  AND s.%s IS NULL
		  AND NOT EXISTS (
			SELECT 1
			FROM %s v
			JOIN %s i ON i.%s = v.%s
			WHERE v.%s = s.%s AND i.%s IS NULL
		  )
	`,
		schema.LibrarySeries.Table,
		schema.LibrarySeries.DeletedAt,
		schema.LibrarySeries.RootID,
		schema.LibrarySeries.DeletedAt,
		schema.LibraryVolume.Table,
		schema.LibraryIssue.Table, schema.LibraryIssue.VolumeID, schema.LibraryVolume.ID,
		schema.LibraryVolume.SeriesID, schema.LibrarySeries.ID, schema.LibraryIssue.DeletedAt,
	)

	if _, err := repository.pool.Exec(context, query, rootID); err != nil {
		return fmt.Errorf("postgres: failed to soft-delete empty series: %w", err)
	}

	return nil
}

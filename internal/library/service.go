// Copyright (c) 2026 Longbox. All rights reserved.
// Author: dev@longbox.app

package library

import (
	"context"
	"log/slog"

	"github.com/longboxhq/longbox/internal/comic/format"
	"github.com/longboxhq/longbox/internal/platform/constants"
	"github.com/longboxhq/longbox/internal/platform/validate"
	"github.com/longboxhq/longbox/pkg/slice"
	"github.com/longboxhq/longbox/pkg/uuidv7"
)

// # Service Layer

// Service orchestrates the business logic for the library model.
type Service struct {
	repository Repository
	formats    format.ExclusionSet
	logger     *slog.Logger
}

// NewService constructs a new [Service] with its repository and the
// classification token set built from configuration.
func NewService(repository Repository, formats format.ExclusionSet, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		formats:    formats,
		logger:     logger,
	}
}

// Formats exposes the classification token set to sibling services.
func (service *Service) Formats() format.ExclusionSet {
	return service.formats
}

// # Root Operations

/*
RegisterRoot persists a configured library root.

Parameters:
  - context: context.Context
  - name: string (Display label)
  - path: string (Absolute directory path)

Returns:
  - *Root: The stored root, ID stable across restarts
  - error: Validation or persistence errors
*/
func (service *Service) RegisterRoot(context context.Context, name, path string) (*Root, error) {

	// Business attribute validation
	validator := &validate.Validator{}
	validator.Required(constants.FieldName, name)
	validator.Required(constants.FieldPath, path)
	validator.AbsolutePath(constants.FieldPath, path)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	root := &Root{ID: uuidv7.New(), Name: name, Path: path}
	if err := service.repository.EnsureRoot(context, root); err != nil {
		return nil, err
	}

	service.logger.Info("library_root_registered",
		slog.String("root_id", root.ID),
		slog.String("path", root.Path),
	)

	return root, nil
}

/*
ListRoots returns every configured library root.
*/
func (service *Service) ListRoots(context context.Context) ([]*Root, error) {
	return service.repository.ListRoots(context)
}

/*
GetRoot returns a single root by ID.
*/
func (service *Service) GetRoot(context context.Context, id string) (*Root, error) {
	validator := &validate.Validator{}
	validator.UUID(constants.FieldRootID, id)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	return service.repository.FindRoot(context, id)
}

// # Browsing Operations

/*
ListSeries returns a page of series summaries under a root.

Parameters:
  - context: context.Context
  - rootID: string (UUID)
  - limit: int
  - offset: int

Returns:
  - []*SeriesSummary: Series with their plain-issue counts
  - int: Total active series under the root
  - error: Validation or storage errors
*/
func (service *Service) ListSeries(context context.Context, rootID string, limit, offset int) ([]*SeriesSummary, int, error) {
	validator := &validate.Validator{}
	validator.UUID(constants.FieldRootID, rootID)
	if err := validator.Err(); err != nil {
		return nil, 0, err
	}

	return service.repository.ListSeries(context, rootID, limit, offset)
}

/*
GetSeries returns the full detail view of a series.

Description: Loads the series, its volumes, and all active issues, then
partitions and orders them through the view assembler. Classification is
recomputed on every read so operator token changes apply without a rescan.

Parameters:
  - context: context.Context
  - id: string (UUID)

Returns:
  - *SeriesView: Partitioned, ordered detail payload
  - error: ErrNotFound or storage errors
*/
func (service *Service) GetSeries(context context.Context, id string) (*SeriesView, error) {

	// 1. Load the aggregate
	series, err := service.repository.FindSeries(context, id)
	if err != nil {
		return nil, err
	}

	volumes, err := service.repository.ListVolumes(context, series.ID)
	if err != nil {
		return nil, err
	}

	issuesByVolume, err := service.repository.ListIssuesBySeries(context, series.ID)
	if err != nil {
		return nil, err
	}

	// 2. Derive the view
	return AssembleView(*series, volumes, issuesByVolume, service.formats), nil
}

/*
IssueNeighbors returns the issues before and after one issue in its series'
reading order. Either may be nil at the ends of the run.
*/
func (service *Service) IssueNeighbors(context context.Context, issue *Issue) (*Issue, *Issue, error) {
	volume, err := service.repository.FindVolume(context, issue.VolumeID)
	if err != nil {
		return nil, nil, err
	}

	view, err := service.GetSeries(context, volume.SeriesID)
	if err != nil {
		return nil, nil, err
	}

	previous, next := Neighbors(view, issue.ID)
	return previous, next, nil
}

/*
GetIssue returns a single issue by ID, archive path included.
*/
func (service *Service) GetIssue(context context.Context, id string) (*Issue, error) {
	validator := &validate.Validator{}
	validator.UUID(constants.FieldIssueID, id)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	return service.repository.FindIssue(context, id)
}

// # Scan Reconciliation

/*
SyncRoot reconciles one scan pass against storage.

Description: Groups the scanned archives into series drafts, upserts series,
volumes, and issues in draft order, then soft-deletes whatever the pass did
not see. Identity keys (series key, volume number, archive path) make the
whole pass idempotent: re-running it with the same input changes nothing.

Parameters:
  - context: context.Context
  - rootID: string (UUID of the scanned root)
  - records: []Scanned (Every archive the pass resolved)

Returns:
  - int: Issues newly marked deleted
  - error: First persistence failure; the pass stops there
*/
func (service *Service) SyncRoot(context context.Context, rootID string, records []Scanned) (int, error) {

	// 1. Group into drafts
	drafts := BuildDrafts(records)
	seenPaths := slice.Map(records, func(scanned Scanned) string { return scanned.Record.Path })

	// 2. Upsert the tree
	for _, draft := range drafts {
		series := &Series{
			ID:        uuidv7.New(),
			RootID:    rootID,
			Key:       draft.Key,
			Name:      draft.Name,
			StartYear: draft.StartYear,
		}
		if err := service.repository.UpsertSeries(context, series); err != nil {
			return 0, err
		}

		for volumeNumber, scannedIssues := range draft.Volumes {
			volume := &Volume{ID: uuidv7.New(), SeriesID: series.ID, Number: volumeNumber}
			if err := service.repository.EnsureVolume(context, volume); err != nil {
				return 0, err
			}

			for _, scanned := range scannedIssues {
				issue := &Issue{
					ID:          uuidv7.New(),
					VolumeID:    volume.ID,
					Number:      scanned.Record.Number,
					NumberSort:  scanned.Record.NumberSort,
					Title:       scanned.Record.Title,
					Year:        scanned.Record.Year,
					Format:      scanned.Record.Format,
					Path:        scanned.Record.Path,
					ContentHash: scanned.ContentHash,
					Container:   scanned.Container,
					PageCount:   scanned.PageCount,
					Unresolved:  scanned.Record.Unresolved,
				}
				if err := service.repository.UpsertIssue(context, issue); err != nil {
					return 0, err
				}
			}
		}
	}

	// 3. Retire what vanished
	removed, err := service.repository.SoftDeleteVanished(context, rootID, seenPaths)
	if err != nil {
		return 0, err
	}
	if err := service.repository.SoftDeleteEmptySeries(context, rootID); err != nil {
		return removed, err
	}

	service.logger.Info("library_root_synced",
		slog.String("root_id", rootID),
		slog.Int("archives_seen", len(seenPaths)),
		slog.Int("issues_removed", removed),
	)

	return removed, nil
}

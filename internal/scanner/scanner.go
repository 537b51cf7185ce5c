// Copyright (c) 2026 Longbox. All rights reserved.
// Author: dev@longbox.app

/*
Package scanner walks library roots, resolves every comic archive it finds,
and reconciles the results into the library model.

Architecture:
  - scanner.go: the walk and the bounded parallel archive pass.
  - status.go: Redis-backed scan status with TTL.
  - http.go: trigger and status endpoints.

# Failure Isolation

A scan pass never fails because one archive is bad. Corrupt containers are
logged, counted, and skipped; the other archives of the batch still land in
the library. Only storage failures abort a pass.
*/
package scanner

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/longboxhq/longbox/internal/comic/archive"
	"github.com/longboxhq/longbox/internal/comic/meta"
	"github.com/longboxhq/longbox/internal/library"
)

// candidateExtensions are the filename extensions worth opening. The
// container kind is still sniffed from content; the extension only keeps the
// walk from hashing every stray file in the tree.
var candidateExtensions = map[string]bool{
	".cbz": true,
	".cbr": true,
	".zip": true,
	".rar": true,
}

// ScanError records one archive the pass could not process.
type ScanError struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Service runs scan passes and reports their status.
type Service struct {
	library *library.Service
	status  *StatusStore
	workers int
	logger  *slog.Logger

	// running guards one pass per root at a time.
	mu      sync.Mutex
	running map[string]bool
}

// NewService constructs a scanner [Service].
func NewService(libraryService *library.Service, status *StatusStore, workers int, logger *slog.Logger) *Service {
	if workers < 1 {
		workers = 1
	}
	return &Service{
		library: libraryService,
		status:  status,
		workers: workers,
		logger:  logger,
		running: make(map[string]bool),
	}
}

// # Scan Orchestration

/*
StartScan launches an asynchronous scan pass for one root.

Description: The pass runs in a background goroutine detached from the
request context; status updates flow through the [StatusStore]. A second
trigger while a pass is running is rejected so two passes never race on the
same root's soft-delete reconciliation.

Parameters:
  - context: context.Context (Request-scoped; used only for the root lookup)
  - rootID: string (UUID)

Returns:
  - *Status: The initial "running" status
  - error: ErrNotFound, or ErrScanInProgress when a pass is already active
*/
func (service *Service) StartScan(context context.Context, rootID string) (*Status, error) {
	root, err := service.library.GetRoot(context, rootID)
	if err != nil {
		return nil, err
	}

	if !service.tryAcquire(root.ID) {
		return nil, ErrScanInProgress
	}

	status := newRunningStatus()
	if err := service.status.Put(context, root.ID, status); err != nil {
		service.release(root.ID)
		return nil, err
	}

	go service.runScan(root.ID, root.Path, status.StartedAt)

	return status, nil
}

/*
GetStatus returns the most recent scan status for a root.

Parameters:
  - context: context.Context
  - rootID: string (UUID)

Returns:
  - *Status: Last known status
  - error: ErrNotFound when the root was never scanned (or the TTL lapsed)
*/
func (service *Service) GetStatus(context context.Context, rootID string) (*Status, error) {
	if _, err := service.library.GetRoot(context, rootID); err != nil {
		return nil, err
	}
	return service.status.Get(context, rootID)
}

// runScan executes one full pass: walk, resolve, reconcile, report.
func (service *Service) runScan(rootID, rootPath string, started time.Time) {
	defer service.release(rootID)

	// Detached from the HTTP request; a pass outlives its trigger.
	background := context.Background()

	service.logger.Info("scan_started",
		slog.String("root_id", rootID),
		slog.String("path", rootPath),
	)

	// 1. Walk the tree
	paths, err := collectArchives(rootPath)
	if err != nil {
		service.finishFailed(background, rootID, started, err)
		return
	}

	// 2. Resolve archives in parallel
	records, scanErrors := service.resolveAll(background, paths)

	// 3. Reconcile into storage
	removed, err := service.library.SyncRoot(background, rootID, records)
	if err != nil {
		service.finishFailed(background, rootID, started, err)
		return
	}

	// 4. Publish the final status
	status := newCompletedStatus(started, len(paths), len(records), removed, scanErrors)
	if err := service.status.Put(background, rootID, status); err != nil {
		service.logger.Error("scan_status_write_failed",
			slog.String("root_id", rootID),
			slog.String("error", err.Error()),
		)
	}

	service.logger.Info("scan_completed",
		slog.String("root_id", rootID),
		slog.Int("archives_found", len(paths)),
		slog.Int("archives_resolved", len(records)),
		slog.Int("archives_failed", len(scanErrors)),
		slog.Int("issues_removed", removed),
	)
}

// resolveAll runs the per-archive pipeline across a bounded worker group.
func (service *Service) resolveAll(context context.Context, paths []string) ([]library.Scanned, []ScanError) {
	var mu sync.Mutex
	records := make([]library.Scanned, 0, len(paths))
	var scanErrors []ScanError

	group, groupContext := errgroup.WithContext(context)
	group.SetLimit(service.workers)

	for _, path := range paths {
		path := path
		group.Go(func() error {
			if err := groupContext.Err(); err != nil {
				return err
			}

			scanned, err := resolveArchive(path)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				service.logger.Warn("scan_archive_skipped",
					slog.String("path", path),
					slog.String("error", err.Error()),
				)
				scanErrors = append(scanErrors, ScanError{Path: path, Reason: err.Error()})
				return nil
			}
			records = append(records, scanned)
			return nil
		})
	}

	// Workers only return context errors; archive failures are collected.
	_ = group.Wait()

	// Deterministic output order regardless of worker interleaving.
	sort.Slice(records, func(i, j int) bool { return records[i].Record.Path < records[j].Record.Path })
	sort.Slice(scanErrors, func(i, j int) bool { return scanErrors[i].Path < scanErrors[j].Path })

	return records, scanErrors
}

// resolveArchive runs the full per-file pipeline: sniff, page census,
// content hash, identity resolution.
func resolveArchive(path string) (library.Scanned, error) {
	handle, err := archive.Open(path)
	if err != nil {
		return library.Scanned{}, err
	}
	defer handle.Close()

	hash, err := archive.ContentHash(path)
	if err != nil {
		return library.Scanned{}, err
	}

	record := meta.Resolve(handle, path)

	return library.Scanned{
		Record:      record,
		ContentHash: hash,
		Container:   string(handle.Kind()),
		PageCount:   len(handle.Pages()),
	}, nil
}

// collectArchives walks a root and returns candidate archive paths sorted.
//
// Unreadable subdirectories abort the walk: a permissions hole would
// otherwise soft-delete everything beneath it on reconciliation.
func collectArchives(rootPath string) ([]string, error) {
	var paths []string

	err := filepath.WalkDir(rootPath, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		if candidateExtensions[strings.ToLower(filepath.Ext(path))] {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(paths)
	return paths, nil
}

// finishFailed publishes a failed status.
func (service *Service) finishFailed(context context.Context, rootID string, started time.Time, cause error) {
	service.logger.Error("scan_failed",
		slog.String("root_id", rootID),
		slog.String("error", cause.Error()),
	)

	if err := service.status.Put(context, rootID, newFailedStatus(started, cause)); err != nil {
		service.logger.Error("scan_status_write_failed",
			slog.String("root_id", rootID),
			slog.String("error", err.Error()),
		)
	}
}

// tryAcquire marks a root as scanning; false when already held.
func (service *Service) tryAcquire(rootID string) bool {
	service.mu.Lock()
	defer service.mu.Unlock()
	if service.running[rootID] {
		return false
	}
	service.running[rootID] = true
	return true
}

// release clears a root's scanning mark.
func (service *Service) release(rootID string) {
	service.mu.Lock()
	defer service.mu.Unlock()
	delete(service.running, rootID)
}

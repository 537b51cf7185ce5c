// Copyright (c) 2026 Longbox. All rights reserved.
// Author: dev@longbox.app

package scanner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/longboxhq/longbox/internal/platform/apperr"
	"github.com/longboxhq/longbox/internal/platform/constants"
)

// ErrScanInProgress rejects a trigger while a pass is already running.
var ErrScanInProgress = apperr.Conflict("A scan is already running for this library")

// State is the lifecycle phase of a scan pass.
type State string

const (
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

// Status is the externally visible record of a scan pass.
type Status struct {
	State          State       `json:"state"`
	StartedAt      time.Time   `json:"started_at"`
	FinishedAt     *time.Time  `json:"finished_at,omitempty"`
	ArchivesFound  int         `json:"archives_found"`
	ArchivesSynced int         `json:"archives_synced"`
	IssuesRemoved  int         `json:"issues_removed"`
	Errors         []ScanError `json:"errors,omitempty"`
	FailureReason  string      `json:"failure_reason,omitempty"`
}

func newRunningStatus() *Status {
	return &Status{State: StateRunning, StartedAt: time.Now().UTC()}
}

func newCompletedStatus(started time.Time, found, synced, removed int, scanErrors []ScanError) *Status {
	now := time.Now().UTC()
	return &Status{
		State:          StateCompleted,
		StartedAt:      started,
		FinishedAt:     &now,
		ArchivesFound:  found,
		ArchivesSynced: synced,
		IssuesRemoved:  removed,
		Errors:         scanErrors,
	}
}

func newFailedStatus(started time.Time, cause error) *Status {
	now := time.Now().UTC()
	return &Status{
		State:         StateFailed,
		StartedAt:     started,
		FinishedAt:    &now,
		FailureReason: cause.Error(),
	}
}

// # Redis Status Store

// StatusStore persists scan statuses in Redis with a retention TTL.
//
// Statuses are transient operational data: they expire on their own and are
// rebuilt by the next scan, so Redis is the right home for them.
type StatusStore struct {
	client *redis.Client
}

// NewStatusStore constructs a Redis-backed [StatusStore].
func NewStatusStore(client *redis.Client) *StatusStore {
	return &StatusStore{client: client}
}

// Put stores the status for a root, refreshing the retention TTL.
func (store *StatusStore) Put(context context.Context, rootID string, status *Status) error {
	payload, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("scanner: failed to encode status: %w", err)
	}

	key := constants.RedisPrefixScanStatus + rootID
	if err := store.client.Set(context, key, payload, constants.ScanStatusTTL).Err(); err != nil {
		return fmt.Errorf("scanner: failed to store status: %w", err)
	}

	return nil
}

// Get returns the stored status for a root.
func (store *StatusStore) Get(context context.Context, rootID string) (*Status, error) {
	key := constants.RedisPrefixScanStatus + rootID

	payload, err := store.client.Get(context, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.NotFound("Scan status")
		}
		return nil, fmt.Errorf("scanner: failed to load status: %w", err)
	}

	var status Status
	if err := json.Unmarshal(payload, &status); err != nil {
		return nil, fmt.Errorf("scanner: failed to decode status: %w", err)
	}

	return &status, nil
}

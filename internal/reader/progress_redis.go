// Copyright (c) 2026 Longbox. All rights reserved.
// Author: dev@longbox.app

package reader

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

// Progress is the last-read position of one session.
type Progress struct {
	Page      int       `json:"page"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProgressStore persists reading progress in Redis.
//
// Progress is per-session, not per-user — Longbox has no user accounts.
// Entries refresh their TTL on every save and quietly expire when a reader
// abandons an issue.
type ProgressStore struct {
	client *redis.Client
}

// NewProgressStore constructs a Redis-backed [ProgressStore].
func NewProgressStore(client *redis.Client) *ProgressStore {
	return &ProgressStore{client: client}
}

// Save records the last-read page, refreshing the retention TTL.
func (store *ProgressStore) Save(context context.Context, sessionID string, page int) error {
	progress := Progress{Page: page, UpdatedAt: time.Now().UTC()}

	payload, err := json.Marshal(progress)
	if err != nil {
		return fmt.Errorf("reader: failed to encode progress: %w", err)
	}

	key := constants.RedisPrefixProgress + sessionID
	if err := store.client.Set(context, key, payload, constants.ProgressTTL).Err(); err != nil {
		return fmt.Errorf("reader: failed to store progress: %w", err)
	}

	return nil
}

// Load returns the stored progress for a session.
func (store *ProgressStore) Load(context context.Context, sessionID string) (*Progress, error) {
	key := constants.RedisPrefixProgress + sessionID

	payload, err := store.client.Get(context, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.NotFound("Reading progress")
		}
		return nil, fmt.Errorf("reader: failed to load progress: %w", err)
	}

	var progress Progress
	if err := json.Unmarshal(payload, &progress); err != nil {
		return nil, fmt.Errorf("reader: failed to decode progress: %w", err)
	}

	return &progress, nil
}

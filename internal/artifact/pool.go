// Copyright (c) 2026 Longbox. All rights reserved.
// Author: dev@longbox.app

package artifact

import (
	"context"

	"github.com/longboxhq/longbox/internal/platform/apperr"
)

// Pool bounds how many transcodes run at once.
//
// Image decoding and WebP encoding are CPU-heavy; without a bound, a reader
// preloading twenty pages would fork twenty parallel encodes and starve the
// request path. The pool is a counting semaphore: requests queue when all
// slots are busy and are released in arrival order.
type Pool struct {
	slots chan struct{}
}

// NewPool constructs a [Pool] with the given number of concurrent slots.
func NewPool(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{slots: make(chan struct{}, workers)}
}

/*
Run executes a computation on a pool slot.

Description: Blocks until a slot frees or the caller's context ends. A
caller that gives up while queued consumes no slot; its computation never
starts.

Parameters:
  - ctx: context.Context (Bounds both queue wait and the computation)
  - task: ComputeFunc

Returns:
  - []byte: The computation result
  - error: TranscodeFailed when the context ends while queued
*/
func (pool *Pool) Run(ctx context.Context, task ComputeFunc) ([]byte, error) {
	select {
	case pool.slots <- struct{}{}:
		defer func() { <-pool.slots }()
		return task(ctx)
	case <-ctx.Done():
		return nil, apperr.TranscodeFailed(ctx.Err())
	}
}

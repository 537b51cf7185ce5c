// Copyright (c) 2026 Longbox. All rights reserved.
// Author: dev@longbox.app

package artifact

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/longboxhq/longbox/internal/platform/apperr"
)

/*
TestPool_BoundsConcurrency verifies no more tasks run at once than the pool
has slots.
*/
func TestPool_BoundsConcurrency(t *testing.T) {
	const slots = 2
	pool := NewPool(slots)

	var active, peak atomic.Int32
	task := func(ctx context.Context) ([]byte, error) {
		current := active.Add(1)
		for {
			observed := peak.Load()
			if current <= observed || peak.CompareAndSwap(observed, current) {
				break
			}
		}
		defer active.Add(-1)
		return []byte("done"), nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := pool.Run(context.Background(), task)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, peak.Load(), int32(slots))
}

/*
TestPool_CancelledWhileQueued verifies a caller that gives up in the queue
gets a retryable error and never runs its task.
*/
func TestPool_CancelledWhileQueued(t *testing.T) {
	pool := NewPool(1)

	// Occupy the only slot.
	hold := make(chan struct{})
	taken := make(chan struct{})
	go func() {
		_, _ = pool.Run(context.Background(), func(ctx context.Context) ([]byte, error) {
			close(taken)
			<-hold
			return nil, nil
		})
	}()
	<-taken

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	var ran atomic.Bool
	_, err := pool.Run(cancelled, func(ctx context.Context) ([]byte, error) {
		ran.Store(true)
		return nil, nil
	})

	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, "TRANSCODE_FAILED"))
	assert.False(t, ran.Load())
	close(hold)
}

package locker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLockerExcludesSecondHolder(t *testing.T) {
	l := NewLocalLocker()

	unlock, err := l.Acquire(context.Background(), "order-1")
	require.NoError(t, err)

	_, err = l.Acquire(context.Background(), "order-1")
	assert.ErrorIs(t, err, domain.ErrReleaseInProgress)

	other, err := l.Acquire(context.Background(), "order-2")
	require.NoError(t, err)
	other()

	unlock()
	unlock()

	again, err := l.Acquire(context.Background(), "order-1")
	require.NoError(t, err)
	again()
}

func TestLocalLockerConcurrentAcquire(t *testing.T) {
	l := NewLocalLocker()
	var winners atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})

	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if _, err := l.Acquire(context.Background(), "order-1"); err == nil {
				winners.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), winners.Load())
}

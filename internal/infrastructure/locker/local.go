package locker

import (
	"context"
	"fmt"
	"sync"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
)

// LocalLocker guards orders within one process. It is the fallback when no
// redis url is configured and the service runs as a single replica.
type LocalLocker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{held: make(map[string]struct{})}
}

func (l *LocalLocker) Acquire(_ context.Context, orderID string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, busy := l.held[orderID]; busy {
		return nil, fmt.Errorf("order %s: %w", orderID, domain.ErrReleaseInProgress)
	}
	l.held[orderID] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, orderID)
			l.mu.Unlock()
		})
	}, nil
}

package replay

import (
	"context"
	"sync"
	"time"

	"github.com/LavaJover/shvark-payment-service/internal/clock"
)

// MemoryStore is an in-process replay cache for local runs and tests.
// Markers are not shared between instances.
type MemoryStore struct {
	mu      sync.Mutex
	clock   clock.Clock
	markers map[string]time.Time // transactionID -> expiresAt
}

func NewMemoryStore(clk clock.Clock) *MemoryStore {
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &MemoryStore{
		clock:   clk,
		markers: make(map[string]time.Time),
	}
}

func (s *MemoryStore) MarkIfAbsent(ctx context.Context, transactionID string, ttl time.Duration) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	s.cleanupExpiredLocked(now)

	if _, ok := s.markers[transactionID]; ok {
		return false, nil
	}
	s.markers[transactionID] = now.Add(ttl)
	return true, nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

func (s *MemoryStore) cleanupExpiredLocked(now time.Time) {
	for id, expiresAt := range s.markers {
		if !now.Before(expiresAt) {
			delete(s.markers, id)
		}
	}
}

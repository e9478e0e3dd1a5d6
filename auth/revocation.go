package auth

import (
	"context"
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"
)

// RevocationStore remembers revoked token ids until the tokens would have expired anyway
type RevocationStore interface {
	Revoke(ctx context.Context, id string, ttl time.Duration) error
	IsRevoked(ctx context.Context, id string) (bool, error)
}

// MemoryRevocationStore keeps revocations in the process, keyed by token id
type MemoryRevocationStore struct {
	expires cmap.ConcurrentMap[string, time.Time]
	now     func() time.Time
}

func NewMemoryRevocationStore() *MemoryRevocationStore {
	return &MemoryRevocationStore{
		expires: cmap.New[time.Time](),
		now:     time.Now,
	}
}

func (s *MemoryRevocationStore) Revoke(_ context.Context, id string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	expiry := s.now().Add(ttl)
	s.expires.Upsert(id, expiry, func(exist bool, valueInMap, newValue time.Time) time.Time {
		if exist && valueInMap.After(newValue) {
			return valueInMap
		}
		return newValue
	})
	return nil
}

func (s *MemoryRevocationStore) IsRevoked(_ context.Context, id string) (bool, error) {
	expiry, ok := s.expires.Get(id)
	if !ok {
		return false, nil
	}
	if !expiry.After(s.now()) {
		s.expires.RemoveCb(id, func(_ string, v time.Time, exists bool) bool {
			return exists && !v.After(s.now())
		})
		return false, nil
	}
	return true, nil
}

// Sweep drops expired entries and returns how many were dropped
func (s *MemoryRevocationStore) Sweep() (removed int) {
	now := s.now()
	for id, expiry := range s.expires.Items() {
		if expiry.After(now) {
			continue
		}
		if s.expires.RemoveCb(id, func(_ string, v time.Time, exists bool) bool {
			return exists && !v.After(now)
		}) {
			removed++
		}
	}
	return removed
}

func (s *MemoryRevocationStore) Count() int {
	return s.expires.Count()
}

// StartSweeper runs Sweep every interval until ctx is done
func (s *MemoryRevocationStore) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Sweep()
			}
		}
	}()
}

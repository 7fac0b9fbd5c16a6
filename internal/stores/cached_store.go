package stores

import (
	"context"
	"fmt"
	"time"

	"player-analytics/internal/records"

	"github.com/jellydator/ttlcache/v3"
)

type cachedRead struct {
	snap records.Snapshot
	keys []string
}

type cachedStore struct {
	next  SnapshotReader
	ttl   time.Duration
	cache *ttlcache.Cache[string, cachedRead]
}

// NewCachedStore serves repeated reads of next from memory for ttl. Failed
// reads are not cached. A non-positive ttl returns next unchanged.
func NewCachedStore(next SnapshotReader, ttl time.Duration) SnapshotReader {
	if ttl <= 0 {
		return next
	}
	cache := ttlcache.New(
		ttlcache.WithTTL[string, cachedRead](ttl),
		ttlcache.WithDisableTouchOnHit[string, cachedRead](),
	)
	return &cachedStore{next: next, ttl: ttl, cache: cache}
}

func (s *cachedStore) GetSnapshot(ctx context.Context, path string) (records.Snapshot, error) {
	key := "snapshot:" + path
	if item, ok := s.lookup(opSnapshot, key); ok {
		return item.snap, nil
	}
	snap, err := s.next.GetSnapshot(ctx, path)
	if err != nil {
		return records.Snapshot{}, err
	}
	s.cache.Set(key, cachedRead{snap: snap}, ttlcache.DefaultTTL)
	return snap, nil
}

func (s *cachedStore) GetOrderedTail(ctx context.Context, path, field string, limit int) (records.Snapshot, error) {
	key := fmt.Sprintf("tail:%s:%s:%d", path, field, limit)
	if item, ok := s.lookup(opOrderedTail, key); ok {
		return item.snap, nil
	}
	snap, err := s.next.GetOrderedTail(ctx, path, field, limit)
	if err != nil {
		return records.Snapshot{}, err
	}
	s.cache.Set(key, cachedRead{snap: snap}, ttlcache.DefaultTTL)
	return snap, nil
}

func (s *cachedStore) GetShallowKeys(ctx context.Context, path string) ([]string, error) {
	key := "keys:" + path
	if item, ok := s.lookup(opShallowKeys, key); ok {
		return item.keys, nil
	}
	keys, err := s.next.GetShallowKeys(ctx, path)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, cachedRead{keys: keys}, ttlcache.DefaultTTL)
	return keys, nil
}

func (s *cachedStore) lookup(op, key string) (cachedRead, bool) {
	item := s.cache.Get(key)
	if item == nil {
		metricCacheLookupsTotal.WithLabelValues(op, resultMiss).Inc()
		return cachedRead{}, false
	}
	metricCacheLookupsTotal.WithLabelValues(op, resultHit).Inc()
	return item.Value(), true
}

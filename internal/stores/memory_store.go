package stores

import (
	"context"
	"sync"
	"time"

	"player-analytics/internal/records"
)

const storeMemory = "memory"

// MemoryStore is a SnapshotReader over collections held in memory.
type MemoryStore interface {
	SnapshotReader
	// Put replaces the collection stored under a top-level name.
	Put(collection string, snap records.Snapshot)
}

type memoryStore struct {
	mu          sync.RWMutex
	collections map[string]records.Snapshot
}

func NewMemoryStore() MemoryStore {
	return &memoryStore{collections: make(map[string]records.Snapshot)}
}

func (s *memoryStore) Put(collection string, snap records.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections[collection] = snap
}

func (s *memoryStore) GetSnapshot(ctx context.Context, path string) (records.Snapshot, error) {
	start := time.Now()
	snap, err := s.read(ctx, opSnapshot, path)
	observeRead(storeMemory, opSnapshot, start, err)
	return snap, err
}

func (s *memoryStore) GetOrderedTail(ctx context.Context, path, field string, limit int) (records.Snapshot, error) {
	start := time.Now()
	snap, err := s.read(ctx, opOrderedTail, path)
	observeRead(storeMemory, opOrderedTail, start, err)
	if err != nil {
		return records.Snapshot{}, err
	}
	return orderedTail(snap, field, limit), nil
}

func (s *memoryStore) GetShallowKeys(ctx context.Context, path string) ([]string, error) {
	start := time.Now()
	snap, err := s.read(ctx, opShallowKeys, path)
	observeRead(storeMemory, opShallowKeys, start, err)
	if err != nil {
		return nil, err
	}
	return snap.Keys(), nil
}

func (s *memoryStore) read(ctx context.Context, op, path string) (records.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return records.Snapshot{}, errUnavailable(storeMemory, op, path, err)
	}
	segments, err := splitPath(path)
	if err != nil {
		return records.Snapshot{}, errUnavailable(storeMemory, op, path, err)
	}

	s.mu.RLock()
	root, ok := s.collections[segments[0]]
	s.mu.RUnlock()
	if !ok {
		return records.Snapshot{}, nil
	}
	if len(segments) == 1 {
		return root, nil
	}
	return descend(root, segments[1:]), nil
}

package stores

import (
	"context"

	"player-analytics/internal/records"
)

// SnapshotReader is a handle to a keyed hierarchical store. Paths are
// slash-separated ("PLAYERS", "CONVERSIONS/u1"). Every failure to read is
// wrapped in records.ErrSourceUnavailable.
//
//go:generate mockgen -source=reader.go -destination=./mocks/snapshot_reader_mock.go -package=mocks
type SnapshotReader interface {
	// GetSnapshot reads every child of path. A missing path is an empty snapshot.
	GetSnapshot(ctx context.Context, path string) (records.Snapshot, error)
	// GetOrderedTail reads the limit children of path with the greatest values
	// of field. The returned snapshot is not guaranteed to be sorted.
	GetOrderedTail(ctx context.Context, path, field string, limit int) (records.Snapshot, error)
	// GetShallowKeys lists the child keys of path without their values.
	GetShallowKeys(ctx context.Context, path string) ([]string, error)
}

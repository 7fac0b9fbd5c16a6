package selectors

import (
	"context"
	"time"

	"player-analytics/internal/records"
	"player-analytics/internal/stores"
)

const selectorScan = "scan"

type scanSelector struct {
	reader stores.SnapshotReader
}

// NewScanSelector selects by loading the whole collection.
func NewScanSelector(reader stores.SnapshotReader) LatestSelector {
	return &scanSelector{reader: reader}
}

func (s *scanSelector) Latest(ctx context.Context, q Query) (records.RecordSet, error) {
	if q.Limit <= 0 {
		return records.RecordSet{}, nil
	}
	start := time.Now()
	snap, err := s.reader.GetSnapshot(ctx, q.Path)
	observeSelect(selectorScan, start, err)
	if err != nil {
		return nil, err
	}
	return SortLatest(records.Flatten(snap, q.IdentityField), q.SortField, q.Limit), nil
}

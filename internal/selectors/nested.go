package selectors

import (
	"context"
	"time"

	"player-analytics/internal/records"
	"player-analytics/internal/stores"
)

const selectorNested = "nested_scan"

type nestedScanSelector struct {
	reader     stores.SnapshotReader
	outerField string
	poolSize   int
}

// NewNestedScanSelector selects from a two-level collection such as
// conversions grouped by user. Records carry the outer key under outerField
// and the inner key under Query.IdentityField. Children are fetched on a pool
// of poolSize workers.
func NewNestedScanSelector(reader stores.SnapshotReader, outerField string, poolSize int) LatestSelector {
	return &nestedScanSelector{reader: reader, outerField: outerField, poolSize: poolSize}
}

func (s *nestedScanSelector) Latest(ctx context.Context, q Query) (records.RecordSet, error) {
	if q.Limit <= 0 {
		return records.RecordSet{}, nil
	}
	start := time.Now()
	snap, err := stores.GetNestedSnapshot(ctx, s.reader, q.Path, s.poolSize)
	observeSelect(selectorNested, start, err)
	if err != nil {
		return nil, err
	}
	return SortLatest(records.FlattenNested(snap, s.outerField, q.IdentityField), q.SortField, q.Limit), nil
}

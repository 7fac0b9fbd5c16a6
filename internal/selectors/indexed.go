package selectors

import (
	"context"
	"time"

	"player-analytics/internal/records"
	"player-analytics/internal/shared/loggers"
	"player-analytics/internal/stores"
)

const selectorIndexed = "indexed"

type indexedSelector struct {
	reader   stores.SnapshotReader
	fallback LatestSelector
}

// NewIndexedSelector asks the store for the ordered tail of the collection so
// only Limit children cross the wire. When that read fails or comes back
// empty it answers through fallback instead.
func NewIndexedSelector(reader stores.SnapshotReader, fallback LatestSelector) LatestSelector {
	return &indexedSelector{reader: reader, fallback: fallback}
}

func (s *indexedSelector) Latest(ctx context.Context, q Query) (records.RecordSet, error) {
	if q.Limit <= 0 {
		return records.RecordSet{}, nil
	}
	logger := loggers.Ctx(ctx).With().
		Str(loggers.FieldSelector, selectorIndexed).
		Str(loggers.FieldPath, q.Path).
		Logger()

	start := time.Now()
	snap, err := s.reader.GetOrderedTail(ctx, q.Path, q.SortField, q.Limit)
	observeSelect(selectorIndexed, start, err)

	switch {
	case err != nil:
		logger.Warn().Err(err).Msg("ordered read failed, falling back to scan")
		metricFallbackTotal.WithLabelValues(reasonError).Inc()
	case snap.IsEmpty():
		logger.Debug().Msg("ordered read returned nothing, falling back to scan")
		metricFallbackTotal.WithLabelValues(reasonEmpty).Inc()
	default:
		return SortLatest(records.Flatten(snap, q.IdentityField), q.SortField, q.Limit), nil
	}

	if s.fallback == nil {
		if err != nil {
			return nil, err
		}
		return records.RecordSet{}, nil
	}
	return s.fallback.Latest(ctx, q)
}

package stores

import (
	"time"

	"player-analytics/internal/shared/metrics"
)

const (
	opSnapshot    = "snapshot"
	opOrderedTail = "ordered_tail"
	opShallowKeys = "shallow_keys"

	resultHit  = "hit"
	resultMiss = "miss"
)

var (
	metricReadsTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubStore,
			Name:      "reads_total",
		},
		[]string{metrics.FieldStore, metrics.FieldOp, metrics.FieldErrorCode},
	)

	metricReadDuration = metrics.NewHistogramVec(
		metrics.HistogramOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubStore,
			Name:      "read_duration_seconds",
			Buckets:   metrics.DefBuckets,
		},
		[]string{metrics.FieldStore, metrics.FieldOp},
	)

	metricCacheLookupsTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubStore,
			Name:      "cache_lookups_total",
		},
		[]string{metrics.FieldOp, "result"},
	)
)

func observeRead(store, op string, start time.Time, err error) {
	code := metrics.ValueNoError
	if err != nil {
		code = "unavailable"
	}
	metricReadsTotal.WithLabelValues(store, op, code).Inc()
	metricReadDuration.WithLabelValues(store, op).Observe(time.Since(start).Seconds())
}

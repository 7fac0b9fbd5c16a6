package selectors

import (
	"time"

	"player-analytics/internal/shared/metrics"
)

const (
	reasonError = "error"
	reasonEmpty = "empty"
)

var (
	metricSelectDuration = metrics.NewHistogramVec(
		metrics.HistogramOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubSelector,
			Name:      "select_duration_seconds",
			Buckets:   metrics.DefBuckets,
		},
		[]string{"selector", metrics.FieldErrorCode},
	)

	metricFallbackTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubSelector,
			Name:      "fallback_total",
		},
		[]string{"reason"},
	)
)

func observeSelect(selector string, start time.Time, err error) {
	code := metrics.ValueNoError
	if err != nil {
		code = "unavailable"
	}
	metricSelectDuration.WithLabelValues(selector, code).Observe(time.Since(start).Seconds())
}

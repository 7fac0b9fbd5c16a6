package refresher

import (
	"player-analytics/internal/shared/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	triggerSchedule = "schedule"
	triggerManual   = "manual"
)

var (
	metricRefreshTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubRefresher,
			Name:      "refresh_total",
		},
		[]string{"trigger", metrics.FieldErrorCode},
	)

	metricRefreshSharedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: metrics.Namespace,
		Subsystem: metrics.SubRefresher,
		Name:      "refresh_shared_total",
		Help:      "Refresh calls answered by a build already in flight.",
	})

	metricLastSuccess = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: metrics.Namespace,
		Subsystem: metrics.SubRefresher,
		Name:      "last_success_timestamp_seconds",
	})
)

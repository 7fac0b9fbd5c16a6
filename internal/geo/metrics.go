package geo

import "player-analytics/internal/shared/metrics"

const (
	resultCached   = "cached"
	resultResolved = "resolved"
	resultUnknown  = "unknown"
)

var metricLookupsTotal = metrics.NewCounterVec(
	metrics.CounterOpts{
		Namespace: metrics.Namespace,
		Subsystem: metrics.SubGeo,
		Name:      "lookups_total",
	},
	[]string{"result"},
)

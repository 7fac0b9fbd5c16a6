package dashboards

import (
	"time"

	"player-analytics/internal/shared/metrics"
)

var (
	metricBuildsTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubDashboard,
			Name:      "builds_total",
		},
		[]string{metrics.FieldStrategy, metrics.FieldErrorCode},
	)

	metricBuildDuration = metrics.NewHistogramVec(
		metrics.HistogramOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubDashboard,
			Name:      "build_duration_seconds",
			Buckets:   metrics.DefBuckets,
		},
		[]string{metrics.FieldStrategy},
	)

	metricSectionWarningsTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubDashboard,
			Name:      "section_warnings_total",
		},
		[]string{metrics.FieldSection},
	)

	metricPlayers = metrics.NewGaugeVec(
		metrics.GaugeOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubDashboard,
			Name:      "players",
			Help:      "Players in the collection at the last build.",
		},
		[]string{metrics.FieldStrategy},
	)

	metricTracking = metrics.NewGaugeVec(
		metrics.GaugeOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubDashboard,
			Name:      "tracking_records",
		},
		[]string{metrics.FieldStrategy},
	)

	metricRevenue = metrics.NewGaugeVec(
		metrics.GaugeOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubDashboard,
			Name:      "ad_revenue",
			Help:      "Ad revenue over the report scope; extrapolated when approximate=true.",
		},
		[]string{metrics.FieldStrategy, "approximate"},
	)

	metricImpressions = metrics.NewGaugeVec(
		metrics.GaugeOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubDashboard,
			Name:      "impressions",
		},
		[]string{metrics.FieldStrategy, "approximate"},
	)
)

func observeReport(r *Report, start time.Time) {
	strategy := string(r.Strategy)
	metricBuildsTotal.WithLabelValues(strategy, metrics.ValueNoError).Inc()
	metricBuildDuration.WithLabelValues(strategy).Observe(time.Since(start).Seconds())
	metricPlayers.WithLabelValues(strategy).Set(float64(r.Totals.Players))
	metricTracking.WithLabelValues(strategy).Set(float64(r.Totals.Tracking))
	metricRevenue.WithLabelValues(strategy, boolLabel(r.Revenue.Approximate)).Set(r.Revenue.Value)
	metricImpressions.WithLabelValues(strategy, boolLabel(r.Impressions.Approximate)).Set(r.Impressions.Value)
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

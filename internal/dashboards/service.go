package dashboards

import (
	"context"
	"errors"
	"fmt"
	"time"

	"player-analytics/internal/aggregators"
	"player-analytics/internal/fields"
	"player-analytics/internal/geo"
	"player-analytics/internal/records"
	"player-analytics/internal/selectors"
	"player-analytics/internal/shared/loggers"
	"player-analytics/internal/shared/metrics"
	"player-analytics/internal/shared/ulid"
	"player-analytics/internal/stores"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// MaxLatestLimit caps the latest-players API.
const MaxLatestLimit = 500

const (
	sectionPlayers       = "players"
	sectionPlayersTotal  = "players_total"
	sectionTracking      = "tracking"
	sectionTrackingTotal = "tracking_total"
	sectionConversions   = "conversions"
)

// Collections names the store paths read by a render cycle.
type Collections struct {
	Players     string
	Tracking    string
	Conversions string
}

type Options struct {
	Strategy        Strategy
	LatestLimit     int
	SampleSize      int
	TargetGeo       string
	ExpectedSources []string
	Location        *time.Location
	Collections     Collections
	FetchPoolSize   int
}

//go:generate mockgen -source=service.go -destination=./mocks/service_mock.go -package=mocks
type Service interface {
	// Build runs one render cycle. Failed reads degrade their sections to
	// "no data" and are listed in Report.Warnings; only cancellation of ctx
	// fails the build.
	Build(ctx context.Context) (*Report, error)
	// LatestPlayers returns the limit most recently installed players.
	LatestPlayers(ctx context.Context, limit int) (records.RecordSet, error)
}

type service struct {
	reader      stores.SnapshotReader
	scan        selectors.LatestSelector
	indexed     selectors.LatestSelector
	conversions selectors.LatestSelector
	resolver    geo.Resolver
	clock       clockwork.Clock
	opts        Options
}

func NewService(reader stores.SnapshotReader, resolver geo.Resolver, clock clockwork.Clock, opts Options) Service {
	if resolver == nil {
		resolver = geo.NewNopResolver()
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	scan := selectors.NewScanSelector(reader)
	return &service{
		reader:      reader,
		scan:        scan,
		indexed:     selectors.NewIndexedSelector(reader, scan),
		conversions: selectors.NewNestedScanSelector(reader, FieldUserID, opts.FetchPoolSize),
		resolver:    resolver,
		clock:       clock,
		opts:        opts,
	}
}

// cycle collects the warnings of one build.
type cycle struct {
	logger   zerolog.Logger
	warnings []string
}

func (c *cycle) warn(section string, err error) {
	c.logger.Warn().Err(err).Str(metrics.FieldSection, section).Msg("section read failed, showing no data")
	metricSectionWarningsTotal.WithLabelValues(section).Inc()
	c.warnings = append(c.warnings, fmt.Sprintf("%s: no data (%s)", section, describeFailure(err)))
}

func describeFailure(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timed out"
	case errors.Is(err, stores.ErrMissingIndex):
		return "ordering index missing"
	case errors.Is(err, records.ErrSourceUnavailable):
		return "source unavailable"
	default:
		return "read failed"
	}
}

func (s *service) Build(ctx context.Context) (*Report, error) {
	start := time.Now()
	now := s.clock.Now()
	reportID := ulid.NewULIDAt(now)
	c := &cycle{
		logger: loggers.Ctx(ctx).With().
			Str(loggers.FieldComponent, "dashboards").
			Str(loggers.FieldStrategy, string(s.opts.Strategy)).
			Str(loggers.FieldReportID, reportID).
			Logger(),
	}
	c.logger.Debug().Msg("building report")

	players := s.readPlayers(ctx, c)
	tracking := s.readTracking(ctx, c)
	conversions := s.readConversions(ctx, c)

	if err := ctx.Err(); err != nil {
		metricBuildsTotal.WithLabelValues(string(s.opts.Strategy), "cancelled").Inc()
		return nil, fmt.Errorf("report build cancelled: %w", err)
	}

	pop := players.population
	report := &Report{
		ID:          reportID,
		GeneratedAt: now.UTC(),
		Strategy:    s.opts.Strategy,
		Scope:       s.opts.Strategy.scope(),

		LatestPlayers:     newTable(playerColumns, withFormattedTime(players.latest, FieldInstallTime, FieldFormattedInstallTime, s.opts.Location)),
		LatestConversions: newTable(conversionColumns, withFormattedTime(conversions, FieldTime, FieldFormattedTime, s.opts.Location)),

		Totals:     Totals{Players: players.total, Tracking: tracking.total},
		IPVersions: fields.CountIPVersions(pop, FieldIP),
		Geo:        geoSplit(pop, s.opts.TargetGeo),
		Sources:    sourceCounts(pop, s.opts.ExpectedSources),
		Wins:       winsPanel(pop),

		SharedIPPlayers:  newTable(sharedIPColumns, aggregators.GroupDuplicates(pop, FieldIP)),
		PlayersByIP:      newTable(joinColumns, aggregators.InnerJoin(pop, tracking.records, FieldIP, FieldTrackingIP)),
		TrackingBrowsers: browserCounts(tracking.records),

		Warnings: c.warnings,
	}
	if report.Warnings == nil {
		report.Warnings = []string{}
	}

	if s.opts.Strategy == StrategySampled {
		report.Impressions = aggregators.Estimated(pop, players.total, FieldImpressions)
		report.Revenue = aggregators.Estimated(pop, players.total, FieldAdRevenue)
	} else {
		report.Impressions = aggregators.Exact(pop, FieldImpressions)
		report.Revenue = aggregators.Exact(pop, FieldAdRevenue)
	}

	observeReport(report, start)
	c.logger.Info().
		Int(loggers.FieldRecords, len(pop)).
		Int("warnings", len(report.Warnings)).
		Dur(loggers.FieldDuration, time.Since(start)).
		Msg("report built")
	return report, nil
}

type playersRead struct {
	latest     records.RecordSet
	population records.RecordSet
	total      int
}

func (s *service) readPlayers(ctx context.Context, c *cycle) playersRead {
	path := s.opts.Collections.Players
	q := selectors.Query{Path: path, SortField: FieldInstallTime, IdentityField: FieldUID, Limit: s.opts.LatestLimit}

	switch s.opts.Strategy {
	case StrategyFullScan:
		snap, err := s.reader.GetSnapshot(ctx, path)
		if err != nil {
			c.warn(sectionPlayers, err)
			return playersRead{}
		}
		all := s.fillGeo(records.Flatten(snap, FieldUID))
		return playersRead{
			latest:     selectors.SortLatest(all, FieldInstallTime, s.opts.LatestLimit),
			population: all,
			total:      len(all),
		}

	case StrategySampled:
		q.Limit = max(s.opts.SampleSize, s.opts.LatestLimit)
		sample, err := s.indexed.Latest(ctx, q)
		if err != nil {
			c.warn(sectionPlayers, err)
		}
		sample = s.fillGeo(sample)
		return playersRead{
			latest:     selectors.SortLatest(sample, FieldInstallTime, s.opts.LatestLimit),
			population: sample,
			total:      s.count(ctx, c, path, sectionPlayersTotal, len(sample)),
		}

	default:
		latest, err := s.indexed.Latest(ctx, q)
		if err != nil {
			c.warn(sectionPlayers, err)
		}
		latest = s.fillGeo(latest)
		return playersRead{
			latest:     latest,
			population: latest,
			total:      s.count(ctx, c, path, sectionPlayersTotal, len(latest)),
		}
	}
}

type trackingRead struct {
	records records.RecordSet
	total   int
}

func (s *service) readTracking(ctx context.Context, c *cycle) trackingRead {
	path := s.opts.Collections.Tracking
	if s.opts.Strategy == StrategyFullScan {
		snap, err := s.reader.GetSnapshot(ctx, path)
		if err != nil {
			c.warn(sectionTracking, err)
			return trackingRead{}
		}
		rs := records.Flatten(snap, FieldTrackingKey)
		return trackingRead{records: rs, total: len(rs)}
	}

	q := selectors.Query{Path: path, SortField: FieldTime, IdentityField: FieldTrackingKey, Limit: s.opts.SampleSize}
	rs, err := s.indexed.Latest(ctx, q)
	if err != nil {
		c.warn(sectionTracking, err)
	}
	return trackingRead{records: rs, total: s.count(ctx, c, path, sectionTrackingTotal, len(rs))}
}

func (s *service) readConversions(ctx context.Context, c *cycle) records.RecordSet {
	q := selectors.Query{
		Path:          s.opts.Collections.Conversions,
		SortField:     FieldTime,
		IdentityField: FieldConversionID,
		Limit:         s.opts.LatestLimit,
	}
	rs, err := s.conversions.Latest(ctx, q)
	if err != nil {
		c.warn(sectionConversions, err)
		return records.RecordSet{}
	}
	return rs
}

// count returns the number of children of path through a shallow read, or
// fallback when that read fails.
func (s *service) count(ctx context.Context, c *cycle, path, section string, fallback int) int {
	keys, err := s.reader.GetShallowKeys(ctx, path)
	if err != nil {
		c.warn(section, err)
		return fallback
	}
	return len(keys)
}

func (s *service) fillGeo(rs records.RecordSet) records.RecordSet {
	return geo.FillMissingGeo(rs, FieldIP, FieldGeo, s.resolver)
}

func (s *service) LatestPlayers(ctx context.Context, limit int) (records.RecordSet, error) {
	if limit < 1 || limit > MaxLatestLimit {
		return nil, errInvalidLimit(limit, MaxLatestLimit)
	}
	selector := s.indexed
	if s.opts.Strategy == StrategyFullScan {
		selector = s.scan
	}
	q := selectors.Query{Path: s.opts.Collections.Players, SortField: FieldInstallTime, IdentityField: FieldUID, Limit: limit}
	rs, err := selector.Latest(ctx, q)
	if err != nil {
		return nil, errSourceUnavailable(err)
	}
	return withFormattedTime(s.fillGeo(rs), FieldInstallTime, FieldFormattedInstallTime, s.opts.Location), nil
}

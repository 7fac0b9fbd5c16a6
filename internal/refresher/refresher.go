package refresher

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"player-analytics/internal/dashboards"
	"player-analytics/internal/shared/loggers"
	"player-analytics/internal/shared/metrics"
	"player-analytics/internal/shared/svcerrors"
	"player-analytics/internal/shared/ulid"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"
)

//go:generate mockgen -source=refresher.go -destination=./mocks/refresher_mock.go -package=mocks
type Refresher interface {
	// Start builds a first report, then rebuilds one every interval until
	// ctx is done or Stop is called.
	Start(ctx context.Context)
	Stop()
	// Latest returns the last successfully built report.
	Latest() (*dashboards.Report, error)
	// Refresh builds a report now. Concurrent callers share one build.
	Refresh(ctx context.Context) (*dashboards.Report, error)
}

type refresher struct {
	service  dashboards.Service
	clock    clockwork.Clock
	interval time.Duration

	mu     sync.RWMutex
	latest *dashboards.Report
	group  singleflight.Group

	wg sync.WaitGroup

	stopOnce sync.Once
	stopCh   chan struct{}

	logger loggers.Logger
}

// New returns a Refresher rebuilding reports from service. An interval of zero
// disables periodic rebuilds; only the first build and Refresh run.
func New(service dashboards.Service, clock clockwork.Clock, interval time.Duration, logger loggers.Logger) Refresher {
	return &refresher{
		service:  service,
		clock:    clock,
		interval: interval,
		stopCh:   make(chan struct{}),
		logger:   logger,
	}
}

func (r *refresher) Start(ctx context.Context) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.run(ctx)
	}()
}

// Stop waits for the refresh loop to exit.
func (r *refresher) Stop() {
	r.stopOnce.Do(func() { close(r.stopCh) })
	r.wg.Wait()
}

func (r *refresher) run(ctx context.Context) {
	r.refreshSafely(ctx)

	var tick <-chan time.Time
	if r.interval > 0 {
		ticker := r.clock.NewTicker(r.interval)
		defer ticker.Stop()
		tick = ticker.Chan()
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stopCh:
			return
		case <-tick:
			r.refreshSafely(ctx)
		}
	}
}

// refreshSafely runs one scheduled refresh, recovering from panics so the
// loop survives a bad cycle.
func (r *refresher) refreshSafely(ctx context.Context) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error().
				Bytes(loggers.FieldErrorStack, debug.Stack()).
				Msg("refresh panic recovered")

			var panicErr error
			if err, ok := rec.(error); ok {
				panicErr = err
			} else {
				panicErr = fmt.Errorf("%v", rec)
			}
			svcErr := svcerrors.NewInternalErrorPanic(panicErr)
			metricRefreshTotal.WithLabelValues(triggerSchedule, svcErr.Code).Inc()
		}
	}()

	ctx = r.logger.With().
		Str(loggers.FieldRequestID, ulid.NewULID()).
		Logger().WithContext(ctx)
	if _, err := r.refresh(ctx, triggerSchedule); err != nil {
		loggers.Ctx(ctx).Warn().Err(err).Msg("scheduled refresh failed, keeping previous report")
	}
}

func (r *refresher) Refresh(ctx context.Context) (*dashboards.Report, error) {
	return r.refresh(ctx, triggerManual)
}

func (r *refresher) refresh(ctx context.Context, trigger string) (*dashboards.Report, error) {
	v, err, shared := r.group.Do("report", func() (any, error) {
		// The build is shared with callers that joined it, so it must not
		// end with the leader's ctx. Stop still aborts it.
		buildCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		defer cancel()
		go func() {
			select {
			case <-r.stopCh:
				cancel()
			case <-buildCtx.Done():
			}
		}()

		report, err := r.service.Build(buildCtx)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.latest = report
		r.mu.Unlock()
		metricLastSuccess.Set(float64(r.clock.Now().Unix()))
		return report, nil
	})
	if shared {
		metricRefreshSharedTotal.Inc()
	}
	if err != nil {
		code := "UNKNOWN"
		if svcErr, ok := svcerrors.AsServiceError(err); ok {
			code = svcErr.Code
		}
		metricRefreshTotal.WithLabelValues(trigger, code).Inc()
		return nil, err
	}
	metricRefreshTotal.WithLabelValues(trigger, metrics.ValueNoError).Inc()
	return v.(*dashboards.Report), nil
}

func (r *refresher) Latest() (*dashboards.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.latest == nil {
		return nil, errReportNotReady()
	}
	return r.latest, nil
}

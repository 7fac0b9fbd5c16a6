package refresher

import (
	"context"
	"errors"
	"testing"
	"time"

	"player-analytics/internal/dashboards"
	"player-analytics/internal/dashboards/mocks"
	"player-analytics/internal/shared/svcerrors"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const interval = 30 * time.Second

func latestID(r Refresher) string {
	report, err := r.Latest()
	if err != nil {
		return ""
	}
	return report.ID
}

func TestRefresher_LatestBeforeFirstBuild(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	r := New(mocks.NewMockService(ctrl), clockwork.NewFakeClock(), interval, zerolog.Nop())

	_, err := r.Latest()

	svcErr, ok := svcerrors.AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, codeReportNotReady, svcErr.Code)
	assert.Equal(t, 503, svcErr.HttpStatusCode)
}

func TestRefresher_RebuildsOnEveryTick(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	service := mocks.NewMockService(ctrl)
	gomock.InOrder(
		service.EXPECT().Build(gomock.Any()).Return(&dashboards.Report{ID: "r1"}, nil),
		service.EXPECT().Build(gomock.Any()).Return(&dashboards.Report{ID: "r2"}, nil),
	)
	clock := clockwork.NewFakeClock()
	r := New(service, clock, interval, zerolog.Nop())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	r.Start(ctx)
	defer r.Stop()

	require.Eventually(t, func() bool { return latestID(r) == "r1" }, time.Second, 5*time.Millisecond)
	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(interval)
	require.Eventually(t, func() bool { return latestID(r) == "r2" }, time.Second, 5*time.Millisecond)
}

func TestRefresher_FailedBuildKeepsPreviousReport(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	service := mocks.NewMockService(ctrl)
	built := make(chan struct{}, 2)
	gomock.InOrder(
		service.EXPECT().Build(gomock.Any()).Return(&dashboards.Report{ID: "r1"}, nil),
		service.EXPECT().Build(gomock.Any()).DoAndReturn(func(context.Context) (*dashboards.Report, error) {
			built <- struct{}{}
			return nil, errors.New("cancelled")
		}),
	)
	clock := clockwork.NewFakeClock()
	r := New(service, clock, interval, zerolog.Nop())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	r.Start(ctx)
	require.Eventually(t, func() bool { return latestID(r) == "r1" }, time.Second, 5*time.Millisecond)
	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(interval)
	<-built
	r.Stop()

	assert.Equal(t, "r1", latestID(r))
}

func TestRefresher_RecoversFromPanic(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	service := mocks.NewMockService(ctrl)
	gomock.InOrder(
		service.EXPECT().Build(gomock.Any()).DoAndReturn(func(context.Context) (*dashboards.Report, error) {
			panic("boom")
		}),
		service.EXPECT().Build(gomock.Any()).Return(&dashboards.Report{ID: "r2"}, nil),
	)
	clock := clockwork.NewFakeClock()
	r := New(service, clock, interval, zerolog.Nop())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	r.Start(ctx)
	defer r.Stop()

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(interval)
	require.Eventually(t, func() bool { return latestID(r) == "r2" }, time.Second, 5*time.Millisecond)
}

func TestRefresher_Refresh(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	service := mocks.NewMockService(ctrl)
	service.EXPECT().Build(gomock.Any()).Return(&dashboards.Report{ID: "manual"}, nil)
	r := New(service, clockwork.NewFakeClock(), 0, zerolog.Nop())

	got, err := r.Refresh(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "manual", got.ID)
	assert.Equal(t, "manual", latestID(r))
}

func TestRefresher_RefreshError(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	service := mocks.NewMockService(ctrl)
	service.EXPECT().Build(gomock.Any()).Return(nil, context.Canceled)
	r := New(service, clockwork.NewFakeClock(), 0, zerolog.Nop())

	_, err := r.Refresh(context.Background())

	assert.ErrorIs(t, err, context.Canceled)
	_, err = r.Latest()
	assert.Error(t, err)
}

func TestRefresher_StopWithoutInterval(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	service := mocks.NewMockService(ctrl)
	service.EXPECT().Build(gomock.Any()).Return(&dashboards.Report{ID: "r1"}, nil)
	r := New(service, clockwork.NewFakeClock(), 0, zerolog.Nop())

	r.Start(context.Background())
	require.Eventually(t, func() bool { return latestID(r) == "r1" }, time.Second, 5*time.Millisecond)

	r.Stop()
	r.Stop()
}

func TestRefresher_SharedBuildIgnoresCallerCancellation(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	service := mocks.NewMockService(ctrl)
	started := make(chan struct{})
	release := make(chan struct{})
	service.EXPECT().Build(gomock.Any()).DoAndReturn(func(ctx context.Context) (*dashboards.Report, error) {
		close(started)
		<-release
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return &dashboards.Report{ID: "shared"}, nil
	})
	r := New(service, clockwork.NewFakeClock(), 0, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())

	type result struct {
		report *dashboards.Report
		err    error
	}
	done := make(chan result, 1)
	go func() {
		report, err := r.Refresh(ctx)
		done <- result{report: report, err: err}
	}()

	<-started
	cancel()
	close(release)

	got := <-done
	require.NoError(t, got.err)
	assert.Equal(t, "shared", got.report.ID)
	assert.Equal(t, "shared", latestID(r))
}

func TestRefresher_StopCancelsInFlightBuild(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	service := mocks.NewMockService(ctrl)
	started := make(chan struct{})
	service.EXPECT().Build(gomock.Any()).DoAndReturn(func(ctx context.Context) (*dashboards.Report, error) {
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	})
	r := New(service, clockwork.NewFakeClock(), 0, zerolog.Nop())

	errCh := make(chan error, 1)
	go func() {
		_, err := r.Refresh(context.Background())
		errCh <- err
	}()

	<-started
	r.Stop()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("refresh did not return after Stop")
	}
	_, err := r.Latest()
	assert.Error(t, err)
}

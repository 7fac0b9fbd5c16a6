package stores

import (
	"context"
	"errors"
	"testing"
	"time"

	"player-analytics/internal/records"
	"player-analytics/internal/stores/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestCachedStore_ServesRepeatedReadsFromCache(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reader := mocks.NewMockSnapshotReader(ctrl)
	store := NewCachedStore(reader, time.Minute)
	ctx := context.Background()
	snap := records.SnapshotFromMap(map[string]any{"p1": map[string]any{"Geo": "US"}})

	reader.EXPECT().GetSnapshot(ctx, "PLAYERS").Return(snap, nil).Times(1)
	reader.EXPECT().GetOrderedTail(ctx, "PLAYERS", "Install_time", 10).Return(snap, nil).Times(1)
	reader.EXPECT().GetOrderedTail(ctx, "PLAYERS", "Install_time", 5).Return(records.Snapshot{}, nil).Times(1)
	reader.EXPECT().GetShallowKeys(ctx, "PLAYERS").Return([]string{"p1"}, nil).Times(1)

	for i := 0; i < 3; i++ {
		got, err := store.GetSnapshot(ctx, "PLAYERS")
		require.NoError(t, err)
		assert.Equal(t, snap, got)

		got, err = store.GetOrderedTail(ctx, "PLAYERS", "Install_time", 10)
		require.NoError(t, err)
		assert.Equal(t, snap, got)

		got, err = store.GetOrderedTail(ctx, "PLAYERS", "Install_time", 5)
		require.NoError(t, err)
		assert.True(t, got.IsEmpty())

		keys, err := store.GetShallowKeys(ctx, "PLAYERS")
		require.NoError(t, err)
		assert.Equal(t, []string{"p1"}, keys)
	}
}

func TestCachedStore_DoesNotCacheFailures(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reader := mocks.NewMockSnapshotReader(ctrl)
	store := NewCachedStore(reader, time.Minute)
	ctx := context.Background()
	failure := errors.Join(records.ErrSourceUnavailable, errors.New("timeout"))

	gomock.InOrder(
		reader.EXPECT().GetSnapshot(ctx, "PLAYERS").Return(records.Snapshot{}, failure),
		reader.EXPECT().GetSnapshot(ctx, "PLAYERS").Return(records.Snapshot{}, nil),
	)

	_, err := store.GetSnapshot(ctx, "PLAYERS")
	assert.ErrorIs(t, err, records.ErrSourceUnavailable)

	_, err = store.GetSnapshot(ctx, "PLAYERS")
	assert.NoError(t, err)
}

func TestCachedStore_ExpiresAfterTTL(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reader := mocks.NewMockSnapshotReader(ctrl)
	store := NewCachedStore(reader, 20*time.Millisecond)
	ctx := context.Background()

	reader.EXPECT().GetShallowKeys(ctx, "PLAYERS").Return([]string{"p1"}, nil).Times(2)

	_, err := store.GetShallowKeys(ctx, "PLAYERS")
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)
	_, err = store.GetShallowKeys(ctx, "PLAYERS")
	require.NoError(t, err)
}

func TestNewCachedStore_ZeroTTLDisablesCache(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reader := mocks.NewMockSnapshotReader(ctrl)

	assert.Same(t, reader, NewCachedStore(reader, 0))
}

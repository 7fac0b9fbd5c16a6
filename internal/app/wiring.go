package app

import (
	"context"
	"fmt"

	"player-analytics/internal/dashboards"
	"player-analytics/internal/geo"
	"player-analytics/internal/shared/configs"
	"player-analytics/internal/shared/filestorages"
	"player-analytics/internal/stores"

	"github.com/jonboulle/clockwork"
)

// NewSnapshotReader opens the configured store driver, wrapped in the read
// cache when store.cache_ttl is set.
func NewSnapshotReader(ctx context.Context, cfg *configs.Config) (stores.SnapshotReader, error) {
	var reader stores.SnapshotReader
	switch cfg.Store.Driver {
	case configs.DriverFirebase:
		client, err := stores.NewFirebaseHTTPClient(ctx, cfg.Store.CredentialsJSON, cfg.Store.CredentialsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize firebase credentials: %w", err)
		}
		reader, err = stores.NewFirebaseStore(stores.FirebaseOptions{
			URL:        cfg.Store.URL,
			HTTPClient: client,
			Timeout:    cfg.Store.RequestTimeoutDuration(),
			MaxRetries: cfg.Store.MaxRetries,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize firebase store: %w", err)
		}

	case configs.DriverFile:
		fileStore, err := NewFileStore(cfg.Store.RootDir)
		if err != nil {
			return nil, err
		}
		reader = fileStore

	case configs.DriverMemory:
		memoryStore, err := newMemoryStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
		reader = memoryStore

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	return stores.NewCachedStore(reader, cfg.Store.CacheTTLDuration()), nil
}

// NewFileStore opens the JSON export directory at rootDir.
func NewFileStore(rootDir string) (stores.FileStore, error) {
	fileStorage, err := filestorages.NewFileStorage(rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	return stores.NewFileStore(fileStorage), nil
}

// newMemoryStore starts empty, or preloaded from the exports under
// store.root_dir when one is set.
func newMemoryStore(ctx context.Context, cfg *configs.Config) (stores.MemoryStore, error) {
	memoryStore := stores.NewMemoryStore()
	if cfg.Store.RootDir == "" {
		return memoryStore, nil
	}
	fileStore, err := NewFileStore(cfg.Store.RootDir)
	if err != nil {
		return nil, err
	}
	collections := cfg.Dashboard.Collections
	for _, name := range []string{collections.Players, collections.Tracking, collections.Conversions} {
		snap, err := fileStore.GetSnapshot(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to preload %s: %w", name, err)
		}
		memoryStore.Put(name, snap)
	}
	return memoryStore, nil
}

// NewGeoResolver opens geo.mmdb_path, or returns a resolver that knows no
// address when it is not set.
func NewGeoResolver(cfg *configs.Config) (geo.Resolver, error) {
	if cfg.Geo.MMDBPath == "" {
		return geo.NewNopResolver(), nil
	}
	resolver, err := geo.NewResolver(cfg.Geo.MMDBPath, cfg.Geo.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize geo resolver: %w", err)
	}
	return resolver, nil
}

// NewDashboardService builds the report service described by the dashboard
// section of cfg.
func NewDashboardService(cfg *configs.Config, reader stores.SnapshotReader, resolver geo.Resolver, clock clockwork.Clock) (dashboards.Service, error) {
	strategy, err := dashboards.ParseStrategy(cfg.Dashboard.Strategy)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize dashboard: %w", err)
	}
	collections := cfg.Dashboard.Collections
	return dashboards.NewService(reader, resolver, clock, dashboards.Options{
		Strategy:        strategy,
		LatestLimit:     cfg.Dashboard.LatestLimit,
		SampleSize:      cfg.Dashboard.SampleSize,
		TargetGeo:       cfg.Dashboard.TargetGeo,
		ExpectedSources: cfg.Dashboard.ExpectedSources,
		Location:        cfg.Dashboard.Location(),
		Collections: dashboards.Collections{
			Players:     collections.Players,
			Tracking:    collections.Tracking,
			Conversions: collections.Conversions,
		},
		FetchPoolSize: cfg.Store.FetchPoolSize,
	}), nil
}

package configs

import "time"

const (
	DriverFirebase = "firebase"
	DriverFile     = "file"
	DriverMemory   = "memory"
)

// Config holds all configuration for the application.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Log       LogConfig       `mapstructure:"log" validate:"required"`
	Store     StoreConfig     `mapstructure:"store" validate:"required"`
	Dashboard DashboardConfig `mapstructure:"dashboard" validate:"required"`
	Geo       GeoConfig       `mapstructure:"geo"`
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Port              int `mapstructure:"port" validate:"required,min=1,max=65535"`
	ReadHeaderTimeout int `mapstructure:"read_header_timeout" validate:"required,min=1"` // seconds
	ReadTimeout       int `mapstructure:"read_timeout" validate:"required,min=1"`        // seconds (headers+body)
	WriteTimeout      int `mapstructure:"write_timeout" validate:"required,min=1"`       // seconds (response)
	IdleTimeout       int `mapstructure:"idle_timeout" validate:"required,min=1"`        // seconds (keep-alive)

	AllowedOrigins []string `mapstructure:"allowed_origins"` // CORS for /api, empty allows any origin
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required"`
}

// StoreConfig selects and configures the snapshot source.
type StoreConfig struct {
	Driver          string `mapstructure:"driver" validate:"required,oneof=firebase file memory"`
	URL             string `mapstructure:"url" validate:"required_if=Driver firebase,omitempty,url"`
	CredentialsPath string `mapstructure:"credentials_path"`
	CredentialsJSON string `mapstructure:"credentials_json"`
	RequestTimeout  int    `mapstructure:"request_timeout" validate:"required,min=1"` // seconds
	MaxRetries      int    `mapstructure:"max_retries" validate:"min=0,max=10"`
	CacheTTL        int    `mapstructure:"cache_ttl" validate:"min=0"` // seconds, 0 disables
	RootDir         string `mapstructure:"root_dir" validate:"required_if=Driver file"`
	FetchPoolSize   int    `mapstructure:"fetch_pool_size" validate:"required,min=1,max=64"`
}

// DashboardConfig holds the render pipeline configuration.
type DashboardConfig struct {
	Strategy        string            `mapstructure:"strategy" validate:"required,oneof=full_scan indexed sampled"`
	LatestLimit     int               `mapstructure:"latest_limit" validate:"required,min=1,max=500"`
	SampleSize      int               `mapstructure:"sample_size" validate:"required,min=1"`
	RefreshInterval int               `mapstructure:"refresh_interval" validate:"required,min=1"` // seconds
	TargetGeo       string            `mapstructure:"target_geo" validate:"required"`
	ExpectedSources []string          `mapstructure:"expected_sources" validate:"required,min=1,dive,required"`
	Timezone        string            `mapstructure:"timezone" validate:"required,timezone"`
	Collections     CollectionsConfig `mapstructure:"collections" validate:"required"`
}

// CollectionsConfig names the store paths read by the dashboard.
type CollectionsConfig struct {
	Players     string `mapstructure:"players" validate:"required"`
	Tracking    string `mapstructure:"tracking" validate:"required"`
	Conversions string `mapstructure:"conversions" validate:"required"`
}

// GeoConfig enables IP geo enrichment when MMDBPath is set.
type GeoConfig struct {
	MMDBPath  string `mapstructure:"mmdb_path"`
	CacheSize int    `mapstructure:"cache_size" validate:"min=0"`
}

func (c StoreConfig) RequestTimeoutDuration() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

func (c StoreConfig) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

func (c DashboardConfig) RefreshIntervalDuration() time.Duration {
	return time.Duration(c.RefreshInterval) * time.Second
}

// Location resolves Timezone. Config validation guarantees it loads.
func (c DashboardConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

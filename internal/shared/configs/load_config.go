package configs

import (
	"fmt"
	"os"
	"strings"

	"player-analytics/internal/shared/validators"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "PA"

// Legacy deployment variables that override store settings.
const (
	EnvFirebaseURL      = "FIREBASE_DB_URL"
	EnvFirebaseCertPath = "FIREBASE_CERT_PATH"
	EnvFirebaseCertJSON = "FIREBASE_CERT_JSON"
)

// LoadConfig reads configuration from file, applies environment overrides and
// validates it. A .env file in the working directory is loaded first when present.
var LoadConfig = func(configPath string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// PA_STORE_DRIVER overrides store.driver, and so on.
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read from file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", configPath, err)
	}

	// Unmarshal into Config
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	applyFirebaseEnv(&cfg.Store)

	// Validate config
	validate := validators.New()
	if err := validate.Struct(&cfg); err != nil {
		var validationErrors []string
		if ve, ok := err.(validators.ValidationErrors); ok {
			for _, e := range ve {
				validationErrors = append(validationErrors, formatValidationError(e))
			}
		}
		return nil, fmt.Errorf("config validation failed: %s", strings.Join(validationErrors, ", "))
	}

	return &cfg, nil
}

func applyFirebaseEnv(store *StoreConfig) {
	if v := os.Getenv(EnvFirebaseURL); v != "" {
		store.URL = v
	}
	if v := os.Getenv(EnvFirebaseCertPath); v != "" {
		store.CredentialsPath = v
	}
	if v := os.Getenv(EnvFirebaseCertJSON); v != "" {
		store.CredentialsJSON = v
	}
}

// formatValidationError formats a single validation error into a readable string.
func formatValidationError(e validators.FieldError) string {
	field := e.Field()
	tag := e.Tag()

	// Build field path (e.g., "server.port")
	if e.StructNamespace() != "" {
		// Extract nested field path (e.g., "Config.Server.Port" -> "server.port")
		parts := strings.Split(e.StructNamespace(), ".")
		if len(parts) >= 2 {
			// Skip "Config" prefix, convert to lowercase with dots
			fieldPath := strings.ToLower(strings.Join(parts[1:], "."))
			field = fieldPath
		}
	}

	var msg string
	switch tag {
	case "required", "required_if":
		msg = fmt.Sprintf("%s (required)", field)
	case "min":
		msg = fmt.Sprintf("%s (min=%s)", field, e.Param())
	case "max":
		msg = fmt.Sprintf("%s (max=%s)", field, e.Param())
	case "oneof":
		msg = fmt.Sprintf("%s (oneof=%s)", field, e.Param())
	default:
		msg = fmt.Sprintf("%s (%s)", field, tag)
	}

	return msg
}

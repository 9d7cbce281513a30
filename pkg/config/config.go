package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Portal  PortalConfig
	Stream  StreamConfig
	CORS    CORSConfig
	Log     LogConfig
	Metrics MetricsConfig
	Exports ExportsConfig
}

// PortalConfig points the client at the registration portal's REST backend.
type PortalConfig struct {
	BaseURL       string
	Authorization string
	Timeout       time.Duration
}

// StreamConfig governs the seat-count subscription.
type StreamConfig struct {
	Path           string
	ReconnectDelay time.Duration
	Reconnect      bool
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool
}

// ExportsConfig toggles timetable and registration downloads.
type ExportsConfig struct {
	Enabled bool
	Title   string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Portal = PortalConfig{
		BaseURL:       strings.TrimRight(v.GetString("PORTAL_BASE_URL"), "/"),
		Authorization: v.GetString("PORTAL_AUTHORIZATION"),
		Timeout:       parseDuration(v.GetString("PORTAL_TIMEOUT"), 10*time.Second),
	}

	cfg.Stream = StreamConfig{
		Path:           v.GetString("PORTAL_STREAM_PATH"),
		ReconnectDelay: parseDuration(v.GetString("STREAM_RECONNECT_DELAY"), 5*time.Second),
		Reconnect:      v.GetBool("STREAM_RECONNECT"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Metrics = MetricsConfig{
		Enabled: v.GetBool("ENABLE_METRICS"),
	}

	cfg.Exports = ExportsConfig{
		Enabled: v.GetBool("ENABLE_EXPORTS"),
		Title:   v.GetString("EXPORT_TITLE"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8090)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("PORTAL_BASE_URL", "http://localhost:8080/api")
	v.SetDefault("PORTAL_AUTHORIZATION", "")
	v.SetDefault("PORTAL_TIMEOUT", "10s")

	v.SetDefault("PORTAL_STREAM_PATH", "/courses/updateRegNumbers")
	v.SetDefault("STREAM_RECONNECT", true)
	v.SetDefault("STREAM_RECONNECT_DELAY", "5s")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_METRICS", true)
	v.SetDefault("ENABLE_EXPORTS", true)
	v.SetDefault("EXPORT_TITLE", "Registered timetable")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

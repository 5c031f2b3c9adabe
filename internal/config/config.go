package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Dataset   DatasetConfig   `yaml:"dataset" mapstructure:"dataset"`
	Regions   RegionsConfig   `yaml:"regions" mapstructure:"regions"`
	Nominatim NominatimConfig `yaml:"nominatim" mapstructure:"nominatim"`
	Google    GoogleConfig    `yaml:"google" mapstructure:"google"`
	Batch     BatchConfig     `yaml:"batch" mapstructure:"batch"`
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// DatasetConfig holds input and output paths for the university file.
type DatasetConfig struct {
	Input       string `yaml:"input" mapstructure:"input"`
	LocalOutput string `yaml:"local_output" mapstructure:"local_output"`
	// RemoteOutput is shared by the nominatim and google variants.
	RemoteOutput string `yaml:"remote_output" mapstructure:"remote_output"`
	BackupDir    string `yaml:"backup_dir" mapstructure:"backup_dir"`
	// SourceURL is where `fetch` downloads the upstream dataset from.
	SourceURL string `yaml:"source_url" mapstructure:"source_url"`
}

// RegionsConfig configures the region tables.
type RegionsConfig struct {
	OverridesPath string `yaml:"overrides_path" mapstructure:"overrides_path"`
}

// NominatimConfig holds OpenStreetMap Nominatim settings.
type NominatimConfig struct {
	BaseURL        string `yaml:"base_url" mapstructure:"base_url"`
	UserAgent      string `yaml:"user_agent" mapstructure:"user_agent"`
	AcceptLanguage string `yaml:"accept_language" mapstructure:"accept_language"`
	IntervalMS     int    `yaml:"interval_ms" mapstructure:"interval_ms"`
	TimeoutSecs    int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// Interval returns the minimum gap between Nominatim requests.
func (c NominatimConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMS) * time.Millisecond
}

// Timeout returns the per-request HTTP timeout.
func (c NominatimConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// GoogleConfig holds Google Places API settings.
type GoogleConfig struct {
	Key         string `yaml:"key" mapstructure:"key"`
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	MaxRequests int    `yaml:"max_requests" mapstructure:"max_requests"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// Timeout returns the per-request HTTP timeout.
func (c GoogleConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// BatchConfig configures paced batch processing for the remote variants.
type BatchConfig struct {
	Size          int `yaml:"size" mapstructure:"size"`
	RecordDelayMS int `yaml:"record_delay_ms" mapstructure:"record_delay_ms"`
	BatchDelayMS  int `yaml:"batch_delay_ms" mapstructure:"batch_delay_ms"`
}

// CacheConfig configures the SQLite lookup cache.
type CacheConfig struct {
	Enabled  bool   `yaml:"enabled" mapstructure:"enabled"`
	Path     string `yaml:"path" mapstructure:"path"`
	TTLHours int    `yaml:"ttl_hours" mapstructure:"ttl_hours"`
}

// TTL returns the cache entry lifetime.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CAMPUS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("google.key", "CAMPUS_GOOGLE_KEY", "GOOGLE_PLACES_API_KEY"); err != nil {
		return nil, eris.Wrap(err, "config: bind google key")
	}

	// Defaults
	v.SetDefault("dataset.input", "app/assets/world_universities_and_domains.json")
	v.SetDefault("dataset.local_output", "app/assets/world_universities_with_states.json")
	v.SetDefault("dataset.remote_output", "app/assets/world_universities_enhanced.json")
	v.SetDefault("dataset.backup_dir", "app/assets")
	v.SetDefault("dataset.source_url", "https://raw.githubusercontent.com/Hipo/university-domains-list/master/world_universities_and_domains.json")
	v.SetDefault("nominatim.base_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("nominatim.user_agent", "campus-states/1.0 (university state enrichment)")
	v.SetDefault("nominatim.accept_language", "en")
	v.SetDefault("nominatim.interval_ms", 1100)
	v.SetDefault("nominatim.timeout_secs", 10)
	v.SetDefault("google.base_url", "https://places.googleapis.com/v1")
	v.SetDefault("google.max_requests", 100000)
	v.SetDefault("google.timeout_secs", 10)
	v.SetDefault("batch.size", 10)
	v.SetDefault("batch.record_delay_ms", 100)
	v.SetDefault("batch.batch_delay_ms", 1000)
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.path", "campus-states.db")
	v.SetDefault("cache.ttl_hours", 24*30)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}

// Validate checks that the settings required by the given variant are present.
// Mode is one of "local", "nominatim" or "google".
func (c *Config) Validate(mode string) error {
	var errs []string

	if c.Dataset.Input == "" {
		errs = append(errs, "dataset.input is required")
	}

	switch mode {
	case "local":
	case "nominatim":
		if c.Nominatim.BaseURL == "" {
			errs = append(errs, "nominatim.base_url is required")
		}
		if c.Nominatim.UserAgent == "" {
			errs = append(errs, "nominatim.user_agent is required")
		}
		if c.Nominatim.IntervalMS < 1000 {
			errs = append(errs, "nominatim.interval_ms must be >= 1000")
		}
	case "google":
		if c.Google.Key == "" {
			errs = append(errs, "google.key is required (GOOGLE_PLACES_API_KEY)")
		}
		if c.Google.MaxRequests <= 0 {
			errs = append(errs, "google.max_requests must be > 0")
		}
		if c.Batch.Size <= 0 {
			errs = append(errs, "batch.size must be > 0")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Source  SourceConfig  `mapstructure:"source"`
	Crawl   CrawlConfig   `mapstructure:"crawl"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	DB      DBConfig      `mapstructure:"db"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// SourceConfig identifies the crawl target site.
type SourceConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	UserAgent string `mapstructure:"user_agent"`
}

// CrawlConfig sets run defaults and limits for the two crawl kinds.
type CrawlConfig struct {
	DefaultKeyword     string `mapstructure:"default_keyword"`
	DefaultJobPages    int    `mapstructure:"default_job_pages"`
	DefaultSalaryPages int    `mapstructure:"default_salary_pages"`
	MaxPages           int    `mapstructure:"max_pages"`
}

// HTTPConfig configures the outbound fetch client and its retry behavior.
type HTTPConfig struct {
	TimeoutSeconds   int `mapstructure:"timeout_seconds"`
	MaxRetries       int `mapstructure:"max_retries"`
	BackoffInitialMs int `mapstructure:"backoff_initial_ms"`
	BackoffMaxMs     int `mapstructure:"backoff_max_ms"`
}

// DBConfig controls access to the relational database.
type DBConfig struct {
	DSN                   string `mapstructure:"dsn"`
	MaxConns              int32  `mapstructure:"max_conns"`
	MinConns              int32  `mapstructure:"min_conns"`
	PersistTimeoutSeconds int    `mapstructure:"persist_timeout_seconds"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("JOBRADAR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("source.base_url", "https://www.saramin.co.kr")
	v.SetDefault("source.user_agent", "")
	v.SetDefault("crawl.default_keyword", "developer")
	v.SetDefault("crawl.default_job_pages", 3)
	v.SetDefault("crawl.default_salary_pages", 1)
	v.SetDefault("crawl.max_pages", 10)
	v.SetDefault("http.timeout_seconds", 15)
	v.SetDefault("http.max_retries", 2)
	v.SetDefault("http.backoff_initial_ms", 250)
	v.SetDefault("http.backoff_max_ms", 2000)
	// AutomaticEnv only resolves keys viper already knows about, so the
	// required DSN needs an explicit empty default to be readable from
	// JOBRADAR_DB_DSN.
	v.SetDefault("db.dsn", "")
	v.SetDefault("db.max_conns", 4)
	v.SetDefault("db.min_conns", 1)
	v.SetDefault("db.persist_timeout_seconds", 10)
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	u, err := url.Parse(c.Source.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("source.base_url must be an absolute URL, got %q", c.Source.BaseURL)
	}
	if c.Crawl.DefaultJobPages <= 0 || c.Crawl.DefaultSalaryPages <= 0 {
		return fmt.Errorf("crawl default page counts must be > 0")
	}
	if c.Crawl.MaxPages < c.Crawl.DefaultJobPages || c.Crawl.MaxPages < c.Crawl.DefaultSalaryPages {
		return fmt.Errorf("crawl.max_pages must be >= the default page counts")
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be > 0")
	}
	// The retry count is converted to uint64 for the backoff policy; a
	// negative value would wrap into an effectively unbounded retry budget.
	if c.HTTP.MaxRetries < 0 {
		return fmt.Errorf("http.max_retries must be >= 0")
	}
	if c.DB.DSN == "" {
		return fmt.Errorf("db.dsn is required")
	}
	return nil
}

// FetchTimeout converts the HTTP timeout into a duration.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// PersistTimeout bounds each background record write.
func (c Config) PersistTimeout() time.Duration {
	return time.Duration(c.DB.PersistTimeoutSeconds) * time.Second
}

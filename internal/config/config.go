// SPDX-License-Identifier: MIT

// Package config handles configuration loading for the patlas daemon.
// Precedence is ENV > file > defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// AppConfig is the effective daemon configuration after merging defaults,
// file values and environment overrides.
type AppConfig struct {
	// Core
	DataDir string // working directory for the DB, snapshot and job state
	DocPath string // path to the notes document the catalog is indexed from

	// API
	ListenAddr     string
	APIToken       string
	AllowedOrigins []string

	// Metrics
	MetricsEnabled bool
	MetricsAddr    string

	// Logging
	LogLevel   string
	LogService string
	Version    string

	// Cache
	CacheBackend string // "memory" or "redis"
	RedisAddr    string
	RedisDB      int
	CacheTTL     time.Duration

	// Job-state store
	StoreBackend string // "memory" or "badger"

	// Document watching
	WatchEnabled bool

	// Rate limiting
	RateLimitEnabled bool
	RateLimitRPM     int

	// Tracing
	TracingEnabled    bool
	TracingExporter   string // "grpc" or "http"
	TracingEndpoint   string
	TracingSampleRate float64
}

// fileConfig mirrors the optional YAML config file.
type fileConfig struct {
	DataDir string `yaml:"dataDir"`
	DocPath string `yaml:"docPath"`
	API     struct {
		ListenAddr     string   `yaml:"listenAddr"`
		AllowedOrigins []string `yaml:"allowedOrigins"`
	} `yaml:"api"`
	Metrics struct {
		Enabled *bool  `yaml:"enabled"`
		Addr    string `yaml:"addr"`
	} `yaml:"metrics"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Cache struct {
		Backend   string `yaml:"backend"`
		RedisAddr string `yaml:"redisAddr"`
		RedisDB   int    `yaml:"redisDB"`
		TTL       string `yaml:"ttl"`
	} `yaml:"cache"`
	Store struct {
		Backend string `yaml:"backend"`
	} `yaml:"store"`
	Watch *bool `yaml:"watch"`
	Tracing struct {
		Enabled    *bool   `yaml:"enabled"`
		Exporter   string  `yaml:"exporter"`
		Endpoint   string  `yaml:"endpoint"`
		SampleRate float64 `yaml:"sampleRate"`
	} `yaml:"tracing"`
}

// Loader loads configuration with precedence ENV > file > defaults.
type Loader struct {
	path    string
	version string
}

// NewLoader creates a Loader. path may be empty, in which case only
// environment variables and defaults apply.
func NewLoader(path, version string) *Loader {
	return &Loader{path: path, version: version}
}

func defaults(version string) AppConfig {
	return AppConfig{
		DataDir:           "/tmp/patlas",
		DocPath:           "docs/patterns.txt",
		ListenAddr:        ":8080",
		MetricsEnabled:    true,
		MetricsAddr:       ":9090",
		LogLevel:          "info",
		LogService:        "patlas",
		Version:           version,
		CacheBackend:      "memory",
		RedisAddr:         "localhost:6379",
		CacheTTL:          5 * time.Minute,
		StoreBackend:      "memory",
		WatchEnabled:      true,
		RateLimitEnabled:  true,
		RateLimitRPM:      600,
		TracingExporter:   "http",
		TracingEndpoint:   "localhost:4318",
		TracingSampleRate: 1.0,
	}
}

// Load resolves the effective configuration.
func (l *Loader) Load() (AppConfig, error) {
	cfg := defaults(l.version)

	if l.path != "" {
		if err := applyFile(&cfg, l.path); err != nil {
			return AppConfig{}, err
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

func applyFile(cfg *AppConfig, path string) error {
	data, err := os.ReadFile(path) // #nosec G304 -- operator-supplied config path
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	if fc.DataDir != "" {
		cfg.DataDir = fc.DataDir
	}
	if fc.DocPath != "" {
		cfg.DocPath = fc.DocPath
	}
	if fc.API.ListenAddr != "" {
		cfg.ListenAddr = fc.API.ListenAddr
	}
	if len(fc.API.AllowedOrigins) > 0 {
		cfg.AllowedOrigins = fc.API.AllowedOrigins
	}
	if fc.Metrics.Enabled != nil {
		cfg.MetricsEnabled = *fc.Metrics.Enabled
	}
	if fc.Metrics.Addr != "" {
		cfg.MetricsAddr = fc.Metrics.Addr
	}
	if fc.Log.Level != "" {
		cfg.LogLevel = fc.Log.Level
	}
	if fc.Cache.Backend != "" {
		cfg.CacheBackend = fc.Cache.Backend
	}
	if fc.Cache.RedisAddr != "" {
		cfg.RedisAddr = fc.Cache.RedisAddr
	}
	if fc.Cache.RedisDB != 0 {
		cfg.RedisDB = fc.Cache.RedisDB
	}
	if fc.Cache.TTL != "" {
		d, err := time.ParseDuration(fc.Cache.TTL)
		if err != nil {
			return fmt.Errorf("config: cache.ttl: %w", err)
		}
		cfg.CacheTTL = d
	}
	if fc.Store.Backend != "" {
		cfg.StoreBackend = fc.Store.Backend
	}
	if fc.Watch != nil {
		cfg.WatchEnabled = *fc.Watch
	}
	if fc.Tracing.Enabled != nil {
		cfg.TracingEnabled = *fc.Tracing.Enabled
	}
	if fc.Tracing.Exporter != "" {
		cfg.TracingExporter = fc.Tracing.Exporter
	}
	if fc.Tracing.Endpoint != "" {
		cfg.TracingEndpoint = fc.Tracing.Endpoint
	}
	if fc.Tracing.SampleRate != 0 {
		cfg.TracingSampleRate = fc.Tracing.SampleRate
	}
	return nil
}

func applyEnv(cfg *AppConfig) {
	cfg.DataDir = ParseString("PATLAS_DATA", cfg.DataDir)
	cfg.DocPath = ParseString("PATLAS_DOC", cfg.DocPath)
	cfg.ListenAddr = ParseString("PATLAS_LISTEN", cfg.ListenAddr)
	cfg.APIToken = ParseString("PATLAS_API_TOKEN", cfg.APIToken)
	if origins := ParseString("PATLAS_ALLOWED_ORIGINS", ""); origins != "" {
		cfg.AllowedOrigins = splitAndTrim(origins)
	}
	cfg.MetricsEnabled = ParseBool("PATLAS_METRICS_ENABLED", cfg.MetricsEnabled)
	cfg.MetricsAddr = ParseString("PATLAS_METRICS_ADDR", cfg.MetricsAddr)
	cfg.LogLevel = ParseString("PATLAS_LOG_LEVEL", cfg.LogLevel)
	cfg.CacheBackend = ParseString("PATLAS_CACHE_BACKEND", cfg.CacheBackend)
	cfg.RedisAddr = ParseString("PATLAS_REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisDB = ParseInt("PATLAS_REDIS_DB", cfg.RedisDB)
	cfg.CacheTTL = ParseDuration("PATLAS_CACHE_TTL", cfg.CacheTTL)
	cfg.StoreBackend = ParseString("PATLAS_STORE_BACKEND", cfg.StoreBackend)
	cfg.WatchEnabled = ParseBool("PATLAS_WATCH", cfg.WatchEnabled)
	cfg.RateLimitEnabled = ParseBool("PATLAS_RATE_LIMIT_ENABLED", cfg.RateLimitEnabled)
	cfg.RateLimitRPM = ParseInt("PATLAS_RATE_LIMIT_RPM", cfg.RateLimitRPM)
	cfg.TracingEnabled = ParseBool("PATLAS_TRACING_ENABLED", cfg.TracingEnabled)
	cfg.TracingExporter = ParseString("PATLAS_TRACING_EXPORTER", cfg.TracingExporter)
	cfg.TracingEndpoint = ParseString("PATLAS_TRACING_ENDPOINT", cfg.TracingEndpoint)
	cfg.TracingSampleRate = ParseFloat("PATLAS_TRACING_SAMPLE_RATE", cfg.TracingSampleRate)
}

// Validate rejects configurations the daemon cannot run with.
func (c AppConfig) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("config: data dir must not be empty")
	}
	if c.DocPath == "" {
		return fmt.Errorf("config: document path must not be empty")
	}
	switch c.CacheBackend {
	case "memory", "redis":
	default:
		return fmt.Errorf("config: unknown cache backend %q (supported: memory, redis)", c.CacheBackend)
	}
	switch c.StoreBackend {
	case "memory", "badger":
	default:
		return fmt.Errorf("config: unknown store backend %q (supported: memory, badger)", c.StoreBackend)
	}
	if c.TracingEnabled {
		switch c.TracingExporter {
		case "grpc", "http":
		default:
			return fmt.Errorf("config: unknown tracing exporter %q (supported: grpc, http)", c.TracingExporter)
		}
	}
	if c.RateLimitRPM < 0 {
		return fmt.Errorf("config: rate limit rpm must not be negative")
	}
	return nil
}

// DBPath returns the catalog database location inside the data dir.
func (c AppConfig) DBPath() string {
	return filepath.Join(c.DataDir, "catalog.db")
}

// SnapshotPath returns the exported catalog snapshot location.
func (c AppConfig) SnapshotPath() string {
	return filepath.Join(c.DataDir, "catalog.json")
}

// JobStorePath returns the badger job-state directory inside the data dir.
func (c AppConfig) JobStorePath() string {
	return filepath.Join(c.DataDir, "jobs")
}

func splitAndTrim(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

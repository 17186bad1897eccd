// Scrobblestreak - Listening Streak Analytics for Last.fm
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblestreak

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the config file locations tried in order. The first
// one that exists is used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/scrobblestreak/config.yaml",
	"/etc/scrobblestreak/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultFrom is the default start of the history window: 2024-12-31 18:00 UTC.
const DefaultFrom int64 = 1735668000

// DefaultLastFMBaseURL is the public Last.fm API root.
const DefaultLastFMBaseURL = "https://ws.audioscrobbler.com/2.0/"

func defaultConfig() *Config {
	return &Config{
		LastFM: LastFMConfig{
			Enabled:           false,
			APIKey:            "",
			BaseURL:           DefaultLastFMBaseURL,
			PageLimit:         200,
			From:              DefaultFrom,
			MaxPages:          0,
			Timeout:           30 * time.Second,
			RequestsPerSecond: 5,
			Burst:             1,
		},
		Server: ServerConfig{
			Port:            8645,
			Host:            "0.0.0.0",
			Timeout:         2 * time.Minute,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTL:        10 * time.Minute,
			MaxEntries: 1000,
		},
		Store: StoreConfig{
			Enabled:    false,
			Path:       "/data/scrobblestreak",
			InMemory:   false,
			TTL:        6 * time.Hour,
			GCInterval: 10 * time.Minute,
		},
		Security: SecurityConfig{
			RateLimitReqs:     60,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration in three layers, each overriding the last:
//  1. Defaults from defaultConfig
//  2. The YAML file named by CONFIG_PATH or found in DefaultConfigPaths
//  3. Environment variables listed in envMappings
//
// The merged result is validated before it is returned.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed from comma-separated strings when set through
// the environment.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to config paths.
// Variables not listed here are ignored.
var envMappings = map[string]string{
	"lastfm_enabled":             "lastfm.enabled",
	"lastfm_api_key":             "lastfm.api_key",
	"lastfm_base_url":            "lastfm.base_url",
	"lastfm_page_limit":          "lastfm.page_limit",
	"lastfm_from":                "lastfm.from",
	"lastfm_max_pages":           "lastfm.max_pages",
	"lastfm_timeout":             "lastfm.timeout",
	"lastfm_requests_per_second": "lastfm.requests_per_second",
	"lastfm_burst":               "lastfm.burst",

	"http_port":        "server.port",
	"http_host":        "server.host",
	"http_timeout":     "server.timeout",
	"shutdown_timeout": "server.shutdown_timeout",
	"environment":      "server.environment",

	"cache_enabled":     "cache.enabled",
	"cache_ttl":         "cache.ttl",
	"cache_max_entries": "cache.max_entries",

	"store_enabled":     "store.enabled",
	"store_path":        "store.path",
	"store_in_memory":   "store.in_memory",
	"store_ttl":         "store.ttl",
	"store_gc_interval": "store.gc_interval",

	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps an environment variable name to its config path, or
// to "" so koanf skips it.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

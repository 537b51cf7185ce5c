// Copyright (c) 2026 Longbox. All rights reserved.
// Author: dev@longbox.app

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, Cache) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/longboxhq/longbox/pkg/query"
)

// # Configuration Schema

// Config holds all runtime configuration for the Longbox API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis) — scan status and reading progress
	RedisURL string `env:"REDIS_URL,required"`

	// LibraryRoots are the directory trees scanned for comic archives.
	LibraryRoots []string `env:"LIBRARY_ROOTS,required" envSeparator:":"`

	// Artifact cache (covers, page transcodes)
	CacheDir      string `env:"CACHE_DIR"       envDefault:"./data/artifacts"`
	CacheMaxBytes int64  `env:"CACHE_MAX_BYTES" envDefault:"2147483648"`

	// Worker bounds
	ScanWorkers      int `env:"SCAN_WORKERS"      envDefault:"4"`
	TranscodeWorkers int `env:"TRANSCODE_WORKERS" envDefault:"2"`

	// ExtraSpecialFormats extends the canonical non-plain format set,
	// comma-separated (e.g. "ashcan,sketchbook"). Entries are normalized
	// the same way declared formats are before matching.
	ExtraSpecialFormats string `env:"EXTRA_SPECIAL_FORMATS"`

	// SessionSecret signs short-lived reader session tokens.
	SessionSecret string `env:"SESSION_SECRET,required"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	return cfg, nil
}

// SpecialFormatTokens returns the operator-supplied exclusion set extension.
func (c *Config) SpecialFormatTokens() []string {
	return query.StringSlice(c.ExtraSpecialFormats)
}

// ExtraAllowedOrigins returns operator-supplied CORS origins beyond the
// first-party domain.
func (c *Config) ExtraAllowedOrigins() []string {
	return query.StringSlice(c.ExtraOrigins)
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

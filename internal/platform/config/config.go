// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

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
  - DI-Friendly: Passed to core components (stores, resolver) via constructors.
  - Zero Hidden State: No global variables are used to store config.

The admin allowlist is read here once; changing it requires a restart.
*/
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/taibuivan/portfolio/pkg/query"
)

// # Storage Drivers

const (
	// StorageJSON keeps comments in a JSON document under the data directory.
	StorageJSON = "json"

	// StoragePostgres keeps comments in PostgreSQL.
	StoragePostgres = "postgres"
)

// # Configuration Schema

// Config holds all runtime configuration for the portfolio API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"PORT"         envDefault:"4000"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Session signing and cookie behaviour
	SessionSecret string `env:"SESSION_SECRET,required,notEmpty"`
	CookieSecure  bool   `env:"COOKIE_SECURE" envDefault:"false"`

	// AdminIDs is a comma separated list of Discord user ids with moderation rights.
	AdminIDs string `env:"ADMIN_IDS"`

	// Discord OAuth application
	DiscordClientID     string        `env:"DISCORD_CLIENT_ID"`
	DiscordClientSecret string        `env:"DISCORD_CLIENT_SECRET"`
	DiscordRedirectURI  string        `env:"DISCORD_REDIRECT_URI" envDefault:"http://localhost:4000/auth/discord/callback"`
	FrontendURL         string        `env:"FRONTEND_URL"         envDefault:"http://localhost:5173"`
	OAuthTimeout        time.Duration `env:"OAUTH_TIMEOUT"        envDefault:"10s"`

	// Flat-file storage locations
	DataDir          string `env:"DATA_DIR"           envDefault:"./data"`
	CommentsDataDir  string `env:"COMMENTS_DATA_DIR"`
	VisitsDataDir    string `env:"VISITS_DATA_DIR"`
	GalleryUploadDir string `env:"GALLERY_UPLOAD_DIR" envDefault:"./uploads"`
	GalleryOwnerID   string `env:"GALLERY_OWNER_ID"   envDefault:"271701484922601472"`
	StaticDir        string `env:"STATIC_DIR"         envDefault:"./dist"`

	// Comment storage backend
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"json"`

	// Relational Database (PostgreSQL), only used with STORAGE_DRIVER=postgres
	DatabaseURL   string `env:"DATABASE_URL"`
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis), optional
	RedisURL string `env:"REDIS_URL"`

	// Third-party lookups
	SteamGridAPIKey string        `env:"STEAMGRID_API_KEY"`
	TenorAPIKey     string        `env:"TENOR_API_KEY"`
	ExternalTimeout time.Duration `env:"EXTERNAL_TIMEOUT" envDefault:"8s"`

	// Object Storage (Cloudflare R2 / S3-compatible), optional gallery backend
	S3Bucket    string `env:"S3_BUCKET"`
	S3Region    string `env:"S3_REGION"     envDefault:"auto"`
	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`
	S3UseSSL    bool   `env:"S3_USE_SSL"    envDefault:"true"`

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

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks cross-field constraints that struct tags cannot express.
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case StorageJSON:
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config: DATABASE_URL is required when STORAGE_DRIVER=%s", StoragePostgres)
		}
	default:
		return fmt.Errorf("config: unknown STORAGE_DRIVER %q", c.StorageDriver)
	}

	if c.S3Bucket != "" && c.S3Endpoint == "" {
		return fmt.Errorf("config: S3_ENDPOINT is required when S3_BUCKET is set")
	}

	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// DiscordConfigured reports whether both OAuth client credentials are present.
func (c *Config) DiscordConfigured() bool {
	return c.DiscordClientID != "" && c.DiscordClientSecret != ""
}

// CommentsDir returns the directory holding comments.json.
func (c *Config) CommentsDir() string {
	if c.CommentsDataDir != "" {
		return c.CommentsDataDir
	}
	return c.DataDir
}

// VisitsDir returns the directory holding visits.json.
func (c *Config) VisitsDir() string {
	if c.VisitsDataDir != "" {
		return c.VisitsDataDir
	}
	return c.DataDir
}

// LinksFile returns the path of the quick-links document.
func (c *Config) LinksFile() string {
	return filepath.Join(c.DataDir, "links.json")
}

// AdminIDList returns the Discord ids allowed to moderate comments.
func (c *Config) AdminIDList() []string {
	return query.StringSlice(c.AdminIDs)
}

// AllowedOrigins returns the frontend origin followed by EXTRA_ORIGINS, without trailing slashes.
func (c *Config) AllowedOrigins() []string {
	origins := []string{strings.TrimRight(c.FrontendURL, "/")}
	for _, origin := range query.StringSlice(c.ExtraOrigins) {
		origins = append(origins, strings.TrimRight(origin, "/"))
	}
	return origins
}

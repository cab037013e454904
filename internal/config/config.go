// Package config loads server configuration from environment variables.
//
// Configuration is a plain struct processed by envconfig — every knob is an
// env var with a sane default, so `go run ./cmd/server` works out of the box
// and production overrides everything through the environment. main loads a
// .env file first (via godotenv), so local development doesn't need exports.
package config

import (
	"errors"

	"github.com/kelseyhightower/envconfig"
)

// Config holds everything the server needs to start.
type Config struct {
	Port   int    `envconfig:"PORT" default:"8080"`
	DBPath string `envconfig:"DB_PATH" default:"data/recipebox.db"`

	// DataDir is where uploaded files live; recipe images land under
	// <DataDir>/uploads/recipe/.
	DataDir string `envconfig:"DATA_DIR" default:"data"`

	// JWTSecret signs access tokens. Generate with: openssl rand -hex 32
	JWTSecret string `envconfig:"JWT_SECRET"`

	// Optional GitHub OAuth sign-in. Leave unset to disable the routes.
	GitHubClientID     string `envconfig:"GITHUB_CLIENT_ID"`
	GitHubClientSecret string `envconfig:"GITHUB_CLIENT_SECRET"`
	GitHubCallbackURL  string `envconfig:"GITHUB_CALLBACK_URL"`

	// CORSOrigins is the comma-separated list of allowed browser origins.
	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"http://localhost:5173"`
}

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return Config{}, err
	}
	if c.JWTSecret == "" {
		return Config{}, errors.New("config: JWT_SECRET is required")
	}
	return c, nil
}

// GitHubEnabled reports whether the optional OAuth sign-in is configured.
func (c Config) GitHubEnabled() bool {
	return c.GitHubClientID != "" && c.GitHubClientSecret != ""
}

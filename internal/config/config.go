package config

import (
	"errors"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// DefaultBaseURL points at the hosted platform API. Override with
// CODEQUEST_BASE_URL for local or staging setups.
const DefaultBaseURL = "https://novi-backend-api-wgsgz.ondigitalocean.app"

// ErrMissingProjectID is returned when no project identifier is configured.
// Every API call is scoped to a project, so this is fatal.
var ErrMissingProjectID = errors.New("missing project ID: set CODEQUEST_PROJECT_ID (copy .env.example to .env and fill in your project ID)")

// Config holds all client configuration, read from the environment.
type Config struct {
	// BaseURL is the platform API origin.
	BaseURL string `env:"CODEQUEST_BASE_URL" env-default:"https://novi-backend-api-wgsgz.ondigitalocean.app"`

	// ProjectID scopes every request to one hosted project. Required.
	ProjectID string `env:"CODEQUEST_PROJECT_ID"`

	// Debug enables the diagnostic sink. Off in normal use.
	Debug bool `env:"CODEQUEST_DEBUG" env-default:"false"`

	// DebugLogURL is the local collector the diagnostic sink posts to.
	DebugLogURL string `env:"CODEQUEST_DEBUG_LOG_URL" env-default:"http://127.0.0.1:9991/__debuglog"`

	// DBPath overrides the local database location.
	DBPath string `env:"CODEQUEST_DB"`
}

// Load reads configuration from a .env file (if present) and the process
// environment. A missing .env file is not an error.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the config can be used for API calls.
func (c Config) Validate() error {
	if c.ProjectID == "" {
		return ErrMissingProjectID
	}
	return nil
}

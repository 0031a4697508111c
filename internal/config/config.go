// Package config loads runtime settings from the environment, an optional
// .env file and an optional YAML rules file.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Prefix is prepended to every variable name that is not tagged otherwise.
const Prefix = "LINKCHECK"

// API backends accepted by Config.API.
const (
	APIREST    = "rest"
	APIGraphQL = "graphql"
)

// Config is read with the LINKCHECK prefix; only the two GitHub variables
// also accept their bare names.
type Config struct {
	// Input maps to LINKCHECK_INPUT.
	Input string `default:"README.md"`

	Workers   int           `default:"10"`
	Timeout   time.Duration `default:"10s"`
	RepoDelay time.Duration `split_words:"true" default:"500ms"`

	// UserAgent is sent with link probes; empty means the built-in browser string.
	UserAgent string `split_words:"true"`
	RepoHost  string `split_words:"true" default:"github.com"`

	// Token and APIURL fall back to the unprefixed GITHUB_TOKEN and GITHUB_API_URL.
	Token  string `envconfig:"GITHUB_TOKEN"`
	APIURL string `envconfig:"GITHUB_API_URL" default:"https://api.github.com/"`
	API    string `default:"rest"`

	LinkReport string `split_words:"true" default:"link_check_report.md"`
	HTMLReport string `split_words:"true" default:"health_report.html"`
	Rules      string `default:".linkcheck.yaml"`
}

// Load reads .env when present and then the process environment.
func Load(logger *log.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// A missing .env is normal; a broken one is worth a warning.
		if _, statErr := os.Stat(".env"); statErr == nil {
			logger.Printf("Warning: .env file found but could not be loaded: %v", err)
		}
	}

	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	return &cfg, nil
}

// Validate checks values that flags or the environment may have broken.
func (c *Config) Validate() error {
	if c.Input == "" {
		return errors.New("input file must not be empty")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.RepoDelay < 0 {
		return fmt.Errorf("repo delay must not be negative, got %s", c.RepoDelay)
	}
	if c.API != APIREST && c.API != APIGraphQL {
		return fmt.Errorf("api must be %q or %q, got %q", APIREST, APIGraphQL, c.API)
	}
	return nil
}

// RulesFile is the layout of the optional YAML rules file.
//
//	ignore:
//	  - ^https://localhost
//	  - example\.com/private
type RulesFile struct {
	Ignore []string `yaml:"ignore"`
}

// LoadRules reads the ignore patterns from path. A missing file yields no patterns.
func LoadRules(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file %s: %w", path, err)
	}

	var rules RulesFile
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("failed to parse rules file %s: %w", path, err)
	}
	return rules.Ignore, nil
}

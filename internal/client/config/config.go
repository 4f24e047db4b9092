package config

import (
	"time"

	"github.com/dmitrijs2005/rentscope/internal/client/tokenstore"
)

// Config holds runtime settings for the RentScope CLI.
//
// Fields:
//   - ServerURL: base URL of the API, e.g. http://127.0.0.1:4000.
//   - RequestTimeout: per-request HTTP timeout.
//   - TokenFile: where the session token is kept between runs.
type Config struct {
	ServerURL      string
	RequestTimeout time.Duration
	TokenFile      string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:4000"
	c.RequestTimeout = 10 * time.Second
	c.TokenFile = tokenstore.DefaultPath()
}

// LoadConfig applies defaults, then the JSON file at jsonPath (if any), then
// the environment.
func LoadConfig(jsonPath string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, jsonPath); err != nil {
		return nil, err
	}
	parseEnv(cfg)
	return cfg, nil
}

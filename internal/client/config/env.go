package config

import (
	"os"
	"time"
)

func parseEnv(cfg *Config) {
	if v := os.Getenv("RENTSCOPE_SERVER"); v != "" {
		cfg.ServerURL = v
	}
	if v := os.Getenv("RENTSCOPE_TOKEN_FILE"); v != "" {
		cfg.TokenFile = v
	}
	if v := os.Getenv("RENTSCOPE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.RequestTimeout = d
		}
	}
}

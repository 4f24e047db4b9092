// Package config loads runtime configuration for the RentScope CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file, path given by the CLI's -c/--config option.
//  3. Environment: RENTSCOPE_SERVER, RENTSCOPE_TOKEN_FILE, RENTSCOPE_TIMEOUT.
//
// Command-line options parsed by internal/client/cli override all of these.
//
// # JSON schema
//
// The JSON loader uses timex.Duration, so the timeout can be either a string
// like "10s" or integer nanoseconds:
//
//	{
//	  "server_url": "http://127.0.0.1:4000",
//	  "request_timeout": "10s",
//	  "token_file": "/home/me/.rentscope/token"
//	}
package config

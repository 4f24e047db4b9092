package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/rentscope/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":4000")
//	-k string   credential store: postgres, mongo or memory
//	-d string   PostgreSQL DSN
//	-m string   MongoDB URI
//	-s string   JWT HMAC secret key
//	-t int      token validity, hours (0 keeps the current value)
//	-o string   comma-separated CORS allow-list
//	-r string   redis address for the revocation list
//
// Only these flags are taken from os.Args (see flagx.FilterArgs).
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-k", "-d", "-m", "-s", "-t", "-o", "-r"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.StoreKind, "k", config.StoreKind, "credential store kind")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.MongoURI, "m", config.MongoURI, "mongodb URI")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address for token revocation")

	tokenValidity := fs.Int("t", 0, "token validity duration (in hours)")
	origins := fs.String("o", "", "allowed origins, comma separated")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	if *tokenValidity > 0 {
		config.TokenValidityDuration = time.Duration(*tokenValidity) * time.Hour
	}
	if *origins != "" {
		config.AllowedOrigins = splitList(*origins)
	}
}

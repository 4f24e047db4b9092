package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// parseEnv overlays values from environment variables. Names follow the
// deployment conventions of the original service (JWT_SECRET, PORT,
// MONGO_URI, ALLOWED_ORIGINS). A malformed TOKEN_TTL or BCRYPT_COST panics.
func parseEnv(config *Config) {
	if v, ok := os.LookupEnv("PORT"); ok && v != "" {
		config.EndpointAddrHTTP = ":" + v
	}
	lookupString("RENTSCOPE_ADDR", &config.EndpointAddrHTTP)
	lookupString("RENTSCOPE_STORE", &config.StoreKind)
	lookupString("DATABASE_DSN", &config.DatabaseDSN)
	lookupString("MONGO_URI", &config.MongoURI)
	lookupString("MONGO_DB", &config.MongoDatabase)
	lookupString("JWT_SECRET", &config.SecretKey)
	lookupString("PASSWORD_HASHER", &config.PasswordHasher)
	lookupString("REDIS_ADDR", &config.RedisAddr)

	if v, ok := os.LookupEnv("TOKEN_TTL"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(fmt.Errorf("TOKEN_TTL: %w", err))
		}
		config.TokenValidityDuration = d
	}
	if v, ok := os.LookupEnv("BCRYPT_COST"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(fmt.Errorf("BCRYPT_COST: %w", err))
		}
		config.BcryptCost = n
	}
	if v, ok := os.LookupEnv("ALLOWED_ORIGINS"); ok {
		config.AllowedOrigins = splitList(v)
	}
}

func lookupString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

// splitList turns "a, b,,c" into [a b c].
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
